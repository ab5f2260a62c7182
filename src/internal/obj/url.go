package obj

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shale-scm/shale/src/internal/errors"
)

// Supported object store backends.
const (
	Amazon = "s3"
	Google = "gs"
	Local  = "local"
	Mem    = "mem"
)

// ObjectStoreURL is a parsed URL to an object or bucket in an object store.
type ObjectStoreURL struct {
	// The object store, e.g. s3, gs, local...
	Scheme string
	// The "bucket" (in AWS parlance); for local stores, the root
	// directory with slashes replaced by dots.
	Bucket string
	// The object itself, possibly empty.
	Object string
	// Extra query parameters, e.g. a custom endpoint or region.
	Params string
}

// BucketString returns the URL for the store's bucket, without the object.
func (s ObjectStoreURL) BucketString() string {
	u := fmt.Sprintf("%s://%s", s.Scheme, s.Bucket)
	if s.Params != "" {
		u += "?" + s.Params
	}
	return u
}

func (s ObjectStoreURL) String() string {
	u := s.BucketString()
	if s.Object != "" {
		u = fmt.Sprintf("%s://%s/%s", s.Scheme, s.Bucket, s.Object)
		if s.Params != "" {
			u += "?" + s.Params
		}
	}
	return u
}

// ParseURL parses urlStr into an ObjectStoreURL.
func ParseURL(urlStr string) (*ObjectStoreURL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing url %v", urlStr)
	}
	switch u.Scheme {
	case Amazon, Google, Mem:
		return &ObjectStoreURL{
			Scheme: u.Scheme,
			Bucket: u.Host,
			Object: strings.Trim(u.Path, "/"),
			Params: u.RawQuery,
		}, nil
	case Local, "":
		// A bare path is a local store rooted at that path.
		root := u.Path
		if u.Scheme == Local {
			root = strings.ReplaceAll(u.Host, ".", "/")
		}
		return &ObjectStoreURL{
			Scheme: Local,
			Bucket: strings.ReplaceAll(strings.Trim(root, "/"), "/", "."),
			Params: u.RawQuery,
		}, nil
	}
	return nil, errors.Errorf("unrecognized object store: %s", u.Scheme)
}
