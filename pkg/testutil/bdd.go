// Package testutil holds helpers shared by package tests.
package testutil

import "testing"

// Given, When and Then name nested subtests so scenario output reads as
// "Given .../When .../Then ..." without a BDD framework.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run("Then "+desc, fn)
}
