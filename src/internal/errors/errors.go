// Package errors is the sanctioned error package for this repository.  It
// wraps github.com/pkg/errors so that every error carries a stack trace, and
// re-exports the standard library inspection helpers so that callers never
// need to import more than one errors package.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

// New returns an error with the supplied message and a stack trace captured
// at the call site.
func New(msg string) error {
	return pkgerrors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as an
// error with a stack trace.
func Errorf(format string, args ...interface{}) error {
	return pkgerrors.Errorf(format, args...)
}

// Wrap returns an error annotating err with a stack trace and the supplied
// message.  If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	return pkgerrors.Wrap(err, msg)
}

// Wrapf returns an error annotating err with a stack trace and the format
// specifier.  If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// stackTracer is implemented by errors created by pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// EnsureStack returns an error that is guaranteed to carry a stack trace.  If
// err already has one anywhere in its chain, err is returned unchanged;
// otherwise the stack is captured at the call site.  Use this on errors
// returned from other people's code.
func EnsureStack(err error) error {
	if err == nil {
		return nil
	}
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if _, ok := e.(stackTracer); ok {
			return err
		}
	}
	return pkgerrors.WithStack(err)
}

// WithStack annotates err with a stack trace at the call site,
// unconditionally.  Prefer EnsureStack unless you know err has no stack.
func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target, and if one is
// found, sets target to that error value and returns true.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if
// available.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error wrapping the provided errors, discarding nils.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// JoinInto accumulates err into *dst, for building up one error out of many
// in a loop.
func JoinInto(dst *error, err error) {
	if err == nil {
		return
	}
	if *dst == nil {
		*dst = err
		return
	}
	*dst = stderrors.Join(*dst, err)
}

// Close closes the given closer, joining any error into *retErr.  Intended
// for use in a defer statement with a named return.
func Close(retErr *error, c interface{ Close() error }, msg string, args ...interface{}) {
	if err := c.Close(); err != nil {
		JoinInto(retErr, Wrapf(err, msg, args...))
	}
}

// Frame is one frame of an error's stack trace.
type Frame = pkgerrors.Frame

// ForEachStackFrame calls cb for each frame of the deepest stack trace found
// in err's chain, outermost call site first.  It is a no-op if err carries no
// stack.
func ForEachStackFrame(err error, cb func(Frame)) {
	var deepest stackTracer
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			deepest = st
		}
	}
	if deepest == nil {
		return
	}
	for _, frame := range deepest.StackTrace() {
		cb(frame)
	}
}
