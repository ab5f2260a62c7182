// Package errutil holds error values shared across package boundaries.
package errutil

import (
	"github.com/shale-scm/shale/src/internal/errors"
)

// ErrBreak is an error used to break out of call back based iteration.  It
// should be returned from the callback, and swallowed by the iterating
// function, which returns nil.
var ErrBreak = errors.New("break")
