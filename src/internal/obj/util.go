package obj

import (
	"context"
	"io"
	"testing"

	"github.com/shale-scm/shale/src/internal/require"
	"golang.org/x/sync/errgroup"
)

// Copy copies an object from src at srcName to dst at dstName.
func Copy(ctx context.Context, src, dst Client, srcName, dstName string) (retErr error) {
	return WithPipe(func(w io.Writer) error {
		return src.Get(ctx, srcName, w)
	}, func(r io.Reader) error {
		return dst.Put(ctx, dstName, r)
	})
}

// WithPipe calls wcb with a writer and rcb with a reader, connected by a
// pipe.
func WithPipe(wcb func(w io.Writer) error, rcb func(r io.Reader) error) error {
	pr, pw := io.Pipe()
	eg := errgroup.Group{}
	eg.Go(func() error {
		if err := wcb(pw); err != nil {
			return pw.CloseWithError(err)
		}
		return pw.Close()
	})
	eg.Go(func() error {
		if err := rcb(pr); err != nil {
			return pr.CloseWithError(err)
		}
		return pr.Close()
	})
	return eg.Wait()
}

// NewTestClient creates an obj.Client which is cleaned up after the test
// exits.
func NewTestClient(t testing.TB) Client {
	dir := t.TempDir()
	objC, err := NewLocalClient(dir)
	require.NoError(t, err)
	return objC
}
