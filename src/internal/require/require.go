// Package require is a minimal assertion library for tests, in the style of
// testify's require package.  Assertions fail the test immediately.
package require

import (
	"fmt"
	"reflect"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shale-scm/shale/src/internal/errors"
)

func logMessage(tb testing.TB, msgAndArgs []interface{}) {
	tb.Helper()
	if len(msgAndArgs) == 1 {
		tb.Logf(msgAndArgs[0].(string))
	}
	if len(msgAndArgs) > 1 {
		tb.Logf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}
}

// Equal checks equality of two values using go-cmp, diffing them on failure.
func Equal(tb testing.TB, expected interface{}, actual interface{}, msgAndArgs ...interface{}) {
	tb.Helper()
	if diff := cmp.Diff(expected, actual); diff != "" {
		logMessage(tb, msgAndArgs)
		tb.Fatalf("not equal (-want +got):\n%s", diff)
	}
}

// NotEqual checks inequality of two values.
func NotEqual(tb testing.TB, expected interface{}, actual interface{}, msgAndArgs ...interface{}) {
	tb.Helper()
	if cmp.Equal(expected, actual) {
		logMessage(tb, msgAndArgs)
		tb.Fatalf("expected values to differ, both were %#v", expected)
	}
}

// True checks that a value is true.
func True(tb testing.TB, value bool, msgAndArgs ...interface{}) {
	tb.Helper()
	if !value {
		logMessage(tb, msgAndArgs)
		tb.Fatal("expected true, got false")
	}
}

// False checks that a value is false.
func False(tb testing.TB, value bool, msgAndArgs ...interface{}) {
	tb.Helper()
	if value {
		logMessage(tb, msgAndArgs)
		tb.Fatal("expected false, got true")
	}
}

// Nil checks that a value is nil.
func Nil(tb testing.TB, object interface{}, msgAndArgs ...interface{}) {
	tb.Helper()
	if !isNil(object) {
		logMessage(tb, msgAndArgs)
		tb.Fatalf("expected nil, got %#v", object)
	}
}

// NotNil checks that a value is non-nil.
func NotNil(tb testing.TB, object interface{}, msgAndArgs ...interface{}) {
	tb.Helper()
	if isNil(object) {
		logMessage(tb, msgAndArgs)
		tb.Fatal("expected non-nil value, got nil")
	}
}

func isNil(object interface{}) bool {
	if object == nil {
		return true
	}
	v := reflect.ValueOf(object)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Len checks that a value has the expected length.
func Len(tb testing.TB, object interface{}, length int, msgAndArgs ...interface{}) {
	tb.Helper()
	v := reflect.ValueOf(object)
	switch v.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
	default:
		tb.Fatalf("%#v has no length", object)
	}
	if v.Len() != length {
		logMessage(tb, msgAndArgs)
		tb.Fatalf("expected length %d, got %d: %#v", length, v.Len(), object)
	}
}

// NoError checks that an error is nil.
func NoError(tb testing.TB, err error, msgAndArgs ...interface{}) {
	tb.Helper()
	if err != nil {
		logMessage(tb, msgAndArgs)
		tb.Fatalf("no error expected, got: %+v", err)
	}
}

// YesError checks that an error is non-nil.
func YesError(tb testing.TB, err error, msgAndArgs ...interface{}) {
	tb.Helper()
	if err == nil {
		logMessage(tb, msgAndArgs)
		tb.Fatal("error expected, got nil")
	}
}

// ErrorIs checks that target is in err's chain.
func ErrorIs(tb testing.TB, err, target error, msgAndArgs ...interface{}) {
	tb.Helper()
	if !errors.Is(err, target) {
		logMessage(tb, msgAndArgs)
		tb.Fatalf("expected %v in the chain of %v", target, err)
	}
}

// Matches checks that a string matches a regular expression.
func Matches(tb testing.TB, expectedMatch string, actual string, msgAndArgs ...interface{}) {
	tb.Helper()
	r, err := regexp.Compile(expectedMatch)
	if err != nil {
		tb.Fatalf("match string %q is invalid: %v", expectedMatch, err)
	}
	if !r.MatchString(actual) {
		logMessage(tb, msgAndArgs)
		tb.Fatal(fmt.Sprintf("expected %q to match %q", actual, expectedMatch))
	}
}
