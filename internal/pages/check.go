// Package pages holds the page objects of the application under test. Each one wraps the
// shared browser with the fixed selectors of one region of the UI.
package pages

import (
	"fmt"
	"strings"

	"petclinic-acceptance/pkg/apperr"
)

func checkEqual(op, what, expected, actual string) error {
	if actual == expected {
		return nil
	}

	return apperr.Wrap(op, apperr.CodeCheckFailed,
		fmt.Errorf("%s: expected %q, got %q", what, expected, actual), map[string]any{
			apperr.MetaStage:  apperr.StageCheck,
			apperr.MetaReason: "not_equal",
			apperr.MetaField:  what,
		})
}

func checkContains(op, what, expected, actual string) error {
	if strings.Contains(actual, expected) {
		return nil
	}

	return apperr.Wrap(op, apperr.CodeCheckFailed,
		fmt.Errorf("%s: expected %q to contain %q", what, actual, expected), map[string]any{
			apperr.MetaStage:  apperr.StageCheck,
			apperr.MetaReason: "not_contained",
			apperr.MetaField:  what,
		})
}
