// Package stream provides pull-based iteration over lazily produced
// sequences.
//
// An Iterator produces items one at a time.  Production can end
// (EOS), fail (any other error), or, for cooperatively scheduled producers,
// report that the next item is not available yet (NotReady); a NotReady
// error leaves the iterator in place and the same Next call can be retried
// later without losing items.
package stream

import (
	"context"

	"github.com/shale-scm/shale/src/internal/errors"
)

// Iterator is a stream of elements of type T.
type Iterator[T any] interface {
	// Next advances the iterator, writing the next element to dst.
	// It returns EOS when iteration is done.
	Next(ctx context.Context, dst *T) error
}

var eos = errors.New("end of stream")

// EOS returns the end-of-stream error, signalling that iteration is done.
func EOS() error {
	return errors.WithStack(eos)
}

// IsEOS returns true if err is an end-of-stream error.
func IsEOS(err error) bool {
	return errors.Is(err, eos)
}

var notReady = errors.New("not ready")

// NotReady returns the error a producer uses to signal that the next element
// is not available yet.  The caller should retry the same Next call later;
// no element is lost.
func NotReady() error {
	return errors.WithStack(notReady)
}

// IsNotReady returns true if err signals a suspended producer.
func IsNotReady(err error) bool {
	return errors.Is(err, notReady)
}

type sliceIterator[T any] struct {
	xs []T
}

// FromSlice returns an Iterator over the elements of xs.
func FromSlice[T any](xs []T) Iterator[T] {
	return &sliceIterator[T]{xs: xs}
}

func (it *sliceIterator[T]) Next(ctx context.Context, dst *T) error {
	if err := ctx.Err(); err != nil {
		return errors.EnsureStack(err)
	}
	if len(it.xs) == 0 {
		return EOS()
	}
	*dst = it.xs[0]
	it.xs = it.xs[1:]
	return nil
}

// ForEach calls fn for each element until the stream ends.  A NotReady error
// from the iterator is returned to the caller as-is.
func ForEach[T any](ctx context.Context, it Iterator[T], fn func(t T) error) error {
	var x T
	for {
		if err := it.Next(ctx, &x); err != nil {
			if IsEOS(err) {
				return nil
			}
			return err
		}
		if err := fn(x); err != nil {
			return err
		}
	}
}

// Collect reads the stream to completion and returns the elements, erroring
// if more than max elements are produced.
func Collect[T any](ctx context.Context, it Iterator[T], max int) (ret []T, _ error) {
	if err := ForEach[T](ctx, it, func(x T) error {
		if len(ret) >= max {
			return errors.Errorf("stream produced too many elements, max is %d", max)
		}
		ret = append(ret, x)
		return nil
	}); err != nil {
		return nil, err
	}
	return ret, nil
}
