// Package obj provides access to object storage.
//
// A Client stores named byte blobs.  Implementations exist for the local
// filesystem, process memory, and gocloud.dev buckets (S3 and friends).  All
// constructors return clients wrapped for uniform behavior: names are
// normalized and not-exist errors are classified with shalerr.
package obj

import (
	"context"
	"io"
)

// Client is an interface to object storage.
type Client interface {
	// Put writes the data in r to an object called name.  An existing
	// object is overwritten.
	Put(ctx context.Context, name string, r io.Reader) error
	// Get writes the contents of the object called name to w.  It
	// returns an error satisfying shalerr.IsNotExist if there is no such
	// object.
	Get(ctx context.Context, name string, w io.Writer) error
	// Delete deletes the object called name.  Deleting a missing object
	// is not an error.
	Delete(ctx context.Context, name string) error
	// Exists reports whether an object called name exists.
	Exists(ctx context.Context, name string) (bool, error)
	// Walk calls cb with the name of every object whose name begins with
	// prefix.  Returning errutil.ErrBreak from cb stops the walk without
	// error.
	Walk(ctx context.Context, prefix string, cb func(name string) error) error
	// BucketURL describes where this client stores its objects.
	BucketURL() ObjectStoreURL
}
