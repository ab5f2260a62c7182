package obj

import (
	"context"
	"io"
	"strings"

	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/shalerr"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// NewBucketClient returns a Client backed by an open gocloud.dev bucket.
func NewBucketClient(bucket *Bucket, url ObjectStoreURL) Client {
	return newUniformClient(&bucketClient{
		bucket: bucket,
		url:    url,
	})
}

// NewClientFromURL parses urlStr, opens the bucket it points into, and
// returns a Client for it.  Local URLs get the filesystem client rather than
// a fileblob bucket so that semantics match stores created by
// NewLocalClient.
func NewClientFromURL(ctx context.Context, urlStr string) (Client, error) {
	objURL, err := ParseURL(urlStr)
	if err != nil {
		return nil, err
	}
	if objURL.Scheme == Local {
		root := "/" + strings.ReplaceAll(objURL.Bucket, ".", "/")
		return NewLocalClient(root)
	}
	if objURL.Scheme == Mem {
		return NewMem(), nil
	}
	bucket, err := NewBucket(ctx, objURL)
	if err != nil {
		return nil, err
	}
	return NewBucketClient(bucket, *objURL), nil
}

type bucketClient struct {
	bucket *Bucket
	url    ObjectStoreURL
}

func (c *bucketClient) Put(ctx context.Context, name string, r io.Reader) (retErr error) {
	w, err := c.bucket.NewWriter(ctx, name, nil)
	if err != nil {
		return errors.EnsureStack(err)
	}
	defer errors.Close(&retErr, w, "close object writer for %q", name)
	_, err = io.Copy(w, r)
	return errors.EnsureStack(err)
}

func (c *bucketClient) Get(ctx context.Context, name string, w io.Writer) (retErr error) {
	r, err := c.bucket.NewReader(ctx, name, nil)
	if err != nil {
		return c.transformError(err, name)
	}
	defer errors.Close(&retErr, r, "close object reader for %q", name)
	_, err = io.Copy(w, r)
	return errors.EnsureStack(err)
}

func (c *bucketClient) Delete(ctx context.Context, name string) error {
	return c.transformError(c.bucket.Delete(ctx, name), name)
}

func (c *bucketClient) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := c.bucket.Exists(ctx, name)
	return exists, errors.EnsureStack(err)
}

func (c *bucketClient) Walk(ctx context.Context, prefix string, cb func(string) error) error {
	iter := c.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.EnsureStack(err)
		}
		if err := cb(obj.Key); err != nil {
			return err
		}
	}
}

func (c *bucketClient) BucketURL() ObjectStoreURL {
	return c.url
}

func (c *bucketClient) transformError(err error, name string) error {
	if err == nil {
		return nil
	}
	if gcerrors.Code(err) == gcerrors.NotFound {
		return shalerr.NewNotExist(c.url.BucketString(), name)
	}
	return errors.EnsureStack(err)
}
