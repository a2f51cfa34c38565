package apperr

import (
	"errors"
	"fmt"
)

const (
	MetaReason   = "reason"
	MetaStage    = "stage"
	MetaField    = "field"
	MetaAction   = "action"
	MetaSelector = "selector"
	MetaParams   = "params"
	MetaURL      = "url"
	MetaEngine   = "engine"
	MetaElapsed  = "elapsed"
	MetaState    = "state"
	MetaScenario = "scenario"

	StageResolve     = "resolve"
	StageLocate      = "locate"
	StageSession     = "session"
	StageProvision   = "provision"
	StageNavigation  = "navigation"
	StageInteraction = "interaction"
	StageCheck       = "check"

	CodeInternal            = "internal"
	CodeInvalidArgument     = "invalid_argument"
	CodeMalformedSelector   = "malformed_selector"
	CodeUnsupportedStrategy = "unsupported_strategy"
	CodeUnsupportedEngine   = "unsupported_engine"
	CodeInvalidState        = "invalid_state"
	CodeElementNotFound     = "element_not_found"
	CodeActionFailed        = "action_failed"
	CodeCheckFailed         = "check_failed"
)

type Error struct {
	Op       string
	Code     string
	Err      error
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(op, code string, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Error{
		Op:       op,
		Code:     code,
		Err:      err,
		Metadata: metadata,
	}
}

func WrapWithReason(op, code string, err error, reason string) error {
	return Wrap(op, code, err, map[string]any{
		MetaReason: reason,
	})
}

func InvalidReqError(op, field string, err error) error {
	return Wrap(op, CodeInvalidArgument, err, map[string]any{
		MetaField:  field,
		MetaReason: "invalid_request",
	})
}

// CodeOf returns the code of the outermost *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return ""
}

// MetaOf returns the metadata value stored under key by the outermost *Error in err's chain.
func MetaOf(err error, key string) (any, bool) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return nil, false
	}

	v, ok := appErr.Metadata[key]

	return v, ok
}
