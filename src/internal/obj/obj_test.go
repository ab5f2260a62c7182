package obj

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/shale-scm/shale/src/internal/errutil"
	"github.com/shale-scm/shale/src/internal/pctx"
	"github.com/shale-scm/shale/src/internal/randutil"
	"github.com/shale-scm/shale/src/internal/require"
	"github.com/shale-scm/shale/src/internal/shalerr"
	"gocloud.dev/blob/memblob"
)

func TestLocalClient(t *testing.T) {
	t.Parallel()
	testClient(t, func(t testing.TB) Client {
		return NewTestClient(t)
	})
}

func TestMemClient(t *testing.T) {
	t.Parallel()
	testClient(t, func(t testing.TB) Client {
		return NewMem()
	})
}

func TestBucketClient(t *testing.T) {
	t.Parallel()
	testClient(t, func(t testing.TB) Client {
		bucket := memblob.OpenBucket(nil)
		t.Cleanup(func() {
			if err := bucket.Close(); err != nil {
				t.Errorf("close bucket: %v", err)
			}
		})
		return NewBucketClient(bucket, ObjectStoreURL{Scheme: Mem, Bucket: "mem"})
	})
}

func testClient(t *testing.T, newClient func(t testing.TB) Client) {
	t.Run("PutGet", func(t *testing.T) {
		t.Parallel()
		ctx := pctx.TestContext(t)
		c := newClient(t)
		require.NoError(t, c.Put(ctx, "key", strings.NewReader("data")))
		var buf bytes.Buffer
		require.NoError(t, c.Get(ctx, "key", &buf))
		require.Equal(t, "data", buf.String())
	})
	t.Run("PutOverwrites", func(t *testing.T) {
		t.Parallel()
		ctx := pctx.TestContext(t)
		c := newClient(t)
		require.NoError(t, c.Put(ctx, "key", strings.NewReader("one")))
		require.NoError(t, c.Put(ctx, "key", strings.NewReader("two")))
		var buf bytes.Buffer
		require.NoError(t, c.Get(ctx, "key", &buf))
		require.Equal(t, "two", buf.String())
	})
	t.Run("GetMissing", func(t *testing.T) {
		t.Parallel()
		ctx := pctx.TestContext(t)
		c := newClient(t)
		var buf bytes.Buffer
		err := c.Get(ctx, "no-such-key", &buf)
		require.YesError(t, err)
		require.True(t, shalerr.IsNotExist(err))
	})
	t.Run("ExistsDelete", func(t *testing.T) {
		t.Parallel()
		ctx := pctx.TestContext(t)
		c := newClient(t)
		require.NoError(t, c.Put(ctx, "key", strings.NewReader("data")))
		exists, err := c.Exists(ctx, "key")
		require.NoError(t, err)
		require.True(t, exists)
		require.NoError(t, c.Delete(ctx, "key"))
		exists, err = c.Exists(ctx, "key")
		require.NoError(t, err)
		require.False(t, exists)
		// Deleting a missing object is not an error.
		require.NoError(t, c.Delete(ctx, "key"))
	})
	t.Run("Walk", func(t *testing.T) {
		t.Parallel()
		ctx := pctx.TestContext(t)
		c := newClient(t)
		for _, name := range []string{"a/1", "a/2", "b/1"} {
			require.NoError(t, c.Put(ctx, name, strings.NewReader("x")))
		}
		var walked []string
		require.NoError(t, c.Walk(ctx, "a/", func(name string) error {
			walked = append(walked, name)
			return nil
		}))
		require.Equal(t, []string{"a/1", "a/2"}, walked)
	})
	t.Run("WalkBreak", func(t *testing.T) {
		t.Parallel()
		ctx := pctx.TestContext(t)
		c := newClient(t)
		for _, name := range []string{"a/1", "a/2", "a/3"} {
			require.NoError(t, c.Put(ctx, name, strings.NewReader("x")))
		}
		var count int
		require.NoError(t, c.Walk(ctx, "a/", func(string) error {
			count++
			return errutil.ErrBreak
		}))
		require.Equal(t, 1, count)
	})
	t.Run("PutGetLarge", func(t *testing.T) {
		t.Parallel()
		ctx := pctx.TestContext(t)
		c := newClient(t)
		seed := time.Now().UTC().UnixNano()
		random := rand.New(rand.NewSource(seed))
		const size = 1 << 20
		require.NoError(t, c.Put(ctx, "large", randutil.NewBytesReader(random, size)), "seed %d", seed)
		var buf bytes.Buffer
		require.NoError(t, c.Get(ctx, "large", &buf), "seed %d", seed)
		require.Equal(t, size, buf.Len(), "seed %d", seed)
	})
	t.Run("Copy", func(t *testing.T) {
		t.Parallel()
		ctx := pctx.TestContext(t)
		src := newClient(t)
		dst := newClient(t)
		require.NoError(t, src.Put(ctx, "key", strings.NewReader("payload")))
		require.NoError(t, Copy(ctx, src, dst, "key", "key2"))
		var buf bytes.Buffer
		require.NoError(t, dst.Get(ctx, "key2", &buf))
		require.Equal(t, "payload", buf.String())
	})
}

func TestParseURL(t *testing.T) {
	t.Parallel()
	u, err := ParseURL("s3://my-bucket/some/object?region=us-east-1")
	require.NoError(t, err)
	require.Equal(t, Amazon, u.Scheme)
	require.Equal(t, "my-bucket", u.Bucket)
	require.Equal(t, "some/object", u.Object)
	require.Equal(t, "region=us-east-1", u.Params)

	u, err = ParseURL("/tmp/objects")
	require.NoError(t, err)
	require.Equal(t, Local, u.Scheme)
	require.Equal(t, "tmp.objects", u.Bucket)

	_, err = ParseURL("ftp://nope")
	require.YesError(t, err)
}
