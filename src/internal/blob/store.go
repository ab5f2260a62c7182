package blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/obj"
)

// Key is the object store key for a typed blob under the given prefix.
func Key[I ID](prefix string, id I) string {
	return fmt.Sprintf("%s/%s", prefix, id)
}

// Put stores a blob in objC under prefix.
func Put[I ID](ctx context.Context, objC obj.Client, prefix string, b Blob[I]) error {
	return errors.Wrapf(objC.Put(ctx, Key(prefix, b.ID()), bytes.NewReader(b.Data())),
		"putting blob %s", b.ID())
}

// Get fetches the blob with the given id from objC.  The returned error
// satisfies shalerr.IsNotExist when there is no such blob.
func Get[I ID](ctx context.Context, objC obj.Client, prefix string, id I) (Blob[I], error) {
	var buf bytes.Buffer
	if err := objC.Get(ctx, Key(prefix, id), &buf); err != nil {
		return Blob[I]{}, errors.Wrapf(err, "getting blob %s", id)
	}
	return New(id, buf.Bytes()), nil
}
