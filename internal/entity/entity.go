package entity

import (
	"time"

	"github.com/google/uuid"
)

type Run struct {
	ID          uuid.UUID
	Scenario    string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Steps       []Step
	Error       string
}

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)

type StepKind string

const (
	StepKindBefore StepKind = "before"
	StepKindStep   StepKind = "step"
	StepKindAfter  StepKind = "after"
)

type Step struct {
	ID        uuid.UUID
	Kind      StepKind
	Name      string
	Timestamp time.Time
	Duration  time.Duration
	Success   bool
	Skipped   bool
	Error     string
}

// Passed reports whether the run completed without a failing step or hook.
func (r *Run) Passed() bool {
	return r.Status == RunStatusPassed
}

// FailedStep returns the first step or hook that ran and failed, or nil.
func (r *Run) FailedStep() *Step {
	for i := range r.Steps {
		if !r.Steps[i].Success && !r.Steps[i].Skipped {
			return &r.Steps[i]
		}
	}

	return nil
}
