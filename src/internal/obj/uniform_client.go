package obj

import (
	"context"
	"io"
	"strings"

	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/errutil"
	"github.com/shale-scm/shale/src/internal/shalerr"
)

var _ Client = &uniformClient{}

// uniformClient ensures uniform behavior across all the object clients:
// names are trimmed of slashes, deleting a missing object is not an error,
// ErrBreak stops a walk cleanly, and every error carries a stack.
type uniformClient struct {
	c Client
}

func newUniformClient(c Client) Client {
	return &uniformClient{c: c}
}

func (uc *uniformClient) Put(ctx context.Context, name string, r io.Reader) (retErr error) {
	defer func() {
		retErr = errors.EnsureStack(retErr)
	}()
	name = strings.Trim(name, "/")
	return uc.c.Put(ctx, name, r)
}

func (uc *uniformClient) Get(ctx context.Context, name string, w io.Writer) (retErr error) {
	defer func() {
		retErr = errors.EnsureStack(retErr)
	}()
	name = strings.Trim(name, "/")
	return uc.c.Get(ctx, name, w)
}

func (uc *uniformClient) Delete(ctx context.Context, name string) (retErr error) {
	defer func() {
		retErr = errors.EnsureStack(retErr)
	}()
	name = strings.Trim(name, "/")
	err := uc.c.Delete(ctx, name)
	if shalerr.IsNotExist(err) {
		err = nil
	}
	return err
}

func (uc *uniformClient) Exists(ctx context.Context, name string) (_ bool, retErr error) {
	defer func() {
		retErr = errors.EnsureStack(retErr)
	}()
	name = strings.Trim(name, "/")
	exists, err := uc.c.Exists(ctx, name)
	if shalerr.IsNotExist(err) {
		exists = false
		err = nil
	}
	return exists, err
}

func (uc *uniformClient) Walk(ctx context.Context, prefix string, cb func(string) error) (retErr error) {
	defer func() {
		retErr = errors.EnsureStack(retErr)
	}()
	err := uc.c.Walk(ctx, prefix, cb)
	if errors.Is(err, errutil.ErrBreak) {
		err = nil
	}
	return err
}

func (uc *uniformClient) BucketURL() ObjectStoreURL {
	return uc.c.BucketURL()
}
