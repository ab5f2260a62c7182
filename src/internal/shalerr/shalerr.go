// Package shalerr defines error types recognized across the whole
// repository, so that layers can classify failures without depending on one
// another.
package shalerr

import (
	"fmt"
	"time"

	"github.com/shale-scm/shale/src/internal/errors"
)

// NotExist is returned when an object does not exist in a store.
type NotExist struct {
	Collection string
	ID         string
}

// NewNotExist returns an error for an object that does not exist.
func NewNotExist(collection, id string) error {
	return errors.WithStack(&NotExist{
		Collection: collection,
		ID:         id,
	})
}

func (e *NotExist) Error() string {
	return fmt.Sprintf("%s in %s: not found", e.ID, e.Collection)
}

// IsNotExist returns true if err's chain contains a NotExist error.
func IsNotExist(err error) bool {
	var e *NotExist
	return errors.As(err, &e)
}

// Transient wraps an error judged to be temporary; retrying after Wait may
// succeed.
type Transient struct {
	Err  error
	Wait time.Duration
}

// WrapTransient wraps err to mark it transient.
func WrapTransient(err error, wait time.Duration) error {
	return errors.WithStack(&Transient{
		Err:  err,
		Wait: wait,
	})
}

func (e *Transient) Error() string {
	return fmt.Sprintf("transient (retry after %v): %v", e.Wait, e.Err)
}

func (e *Transient) Unwrap() error {
	return e.Err
}

// IsTransient returns true if err's chain contains a Transient error.
func IsTransient(err error) bool {
	var e *Transient
	return errors.As(err, &e)
}
