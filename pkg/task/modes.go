package task

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/specvital/typecollect/pkg/domain"
)

// ErrOnlyNotAllowed reports a focused (only) node in a run that forbids
// exclusivity.
var ErrOnlyNotAllowed = errors.New("focused tests are not allowed")

// SomeOnly reports whether any node beneath the suite is focused.
func SomeOnly(suite *domain.TaskNode) bool {
	for _, t := range suite.Children {
		if t.Mode == domain.ModeOnly {
			return true
		}
		if t.Kind == domain.KindSuite && SomeOnly(t) {
			return true
		}
	}
	return false
}

// InterpretModes rewrites every node's mode into its final run decision.
// When hasOnly is true, nodes that are neither focused nor on a path to a
// focused node collapse to skip, and focused nodes themselves become run.
// Tests whose full name does not match namePattern are skipped; skipped and
// todo suites cascade to their descendants. A focused node yields
// ErrOnlyNotAllowed unless allowOnly is set; the rewrite still completes so
// the caller decides fatality. The resulting modes are terminal: the tree
// must not be rebuilt afterward.
func InterpretModes(file *domain.TaskNode, namePattern *regexp.Regexp, hasOnly, allowOnly bool) error {
	return interpretModes(file, namePattern, hasOnly, false, allowOnly)
}

func interpretModes(suite *domain.TaskNode, namePattern *regexp.Regexp, hasOnly, parentIsOnly, allowOnly bool) error {
	var firstErr error
	suiteIsOnly := parentIsOnly || suite.Mode == domain.ModeOnly

	recordOnly := func(t *domain.TaskNode) {
		if !allowOnly && firstErr == nil {
			firstErr = fmt.Errorf("%w: %q", ErrOnlyNotAllowed, t.Name)
		}
		t.Mode = domain.ModeRun
	}

	for _, t := range suite.Children {
		included := suiteIsOnly || t.Mode == domain.ModeOnly

		if hasOnly {
			switch {
			case t.Kind == domain.KindSuite && (included || SomeOnly(t)):
				if t.Mode == domain.ModeOnly {
					recordOnly(t)
				}
			case t.Mode == domain.ModeRun && !included:
				t.Mode = domain.ModeSkip
			case t.Mode == domain.ModeOnly:
				recordOnly(t)
			}
		}

		switch t.Kind {
		case domain.KindTest:
			if namePattern != nil && !namePattern.MatchString(t.FullName()) {
				t.Mode = domain.ModeSkip
			}
		case domain.KindSuite:
			if t.Mode == domain.ModeSkip || t.Mode == domain.ModeTodo {
				cascade(t, t.Mode)
			} else if err := interpretModes(t, namePattern, hasOnly, included, allowOnly); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	// A suite left with nothing runnable in only mode is itself skipped.
	if hasOnly && suite.Mode == domain.ModeRun {
		allSkipped := true
		for _, t := range suite.Children {
			if t.Mode != domain.ModeSkip {
				allSkipped = false
				break
			}
		}
		if allSkipped {
			suite.Mode = domain.ModeSkip
		}
	}

	return firstErr
}

func cascade(suite *domain.TaskNode, mode domain.RunMode) {
	for _, t := range suite.Children {
		if t.Mode == domain.ModeRun || t.Mode == domain.ModeOnly {
			t.Mode = mode
		}
		if t.Kind == domain.KindSuite {
			cascade(t, mode)
		}
	}
}
