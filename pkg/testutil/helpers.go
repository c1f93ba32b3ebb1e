// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"
)

// Find returns a pointer to the first item satisfying match, nil otherwise.
func Find[T any](items []T, match func(T) bool) *T {
	for i := range items {
		if match(items[i]) {
			return &items[i]
		}
	}
	return nil
}

// AssertClose fails the test when got and want differ by more than tolerance.
func AssertClose(t testing.TB, label string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %.6f, expected %.6f (tolerance %g)", label, got, want, tolerance)
	}
}

// AssertNil fails the test when an optional result is present.
func AssertNil[T any](t testing.TB, label string, got *T) {
	t.Helper()
	if got != nil {
		t.Errorf("%s = %v, expected nil", label, *got)
	}
}

// RequireValue fails the test immediately when an optional result is absent
// and returns the dereferenced value otherwise.
func RequireValue[T any](t testing.TB, label string, got *T) T {
	t.Helper()
	if got == nil {
		t.Fatalf("%s is nil, expected a value", label)
	}
	return *got
}
