package testutil

import "testing"

// Scenario steps run as nested subtests, so a failure reports the whole path,
// e.g. "Given_an_employee/When_it_is_deleted/Then_lookups_miss". A failed
// Given or When stops the steps that follow it in the same parent.

func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Given", desc, fn, true)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "When", desc, fn, true)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Then", desc, fn, false)
}

// And continues the previous Then with another independent check.
func And(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "And", desc, fn, false)
}

func step(t *testing.T, keyword, desc string, fn func(t *testing.T), stopOnFailure bool) {
	t.Helper()
	if !t.Run(keyword+" "+desc, fn) && stopOnFailure {
		t.FailNow()
	}
}
