// Package blob supports converting typed repository data structures into
// in-memory blobs for storage.
//
// A Blob pairs a typed content id with the serialized bytes it addresses.
// IDs are BLAKE3 hashes of the serialized form, so a blob can be verified
// against its id without knowing anything about the value inside.
package blob

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// ID is a typed content address.
type ID interface {
	fmt.Stringer
	comparable
}

// Hash is the raw content address underlying every typed id.
type Hash [32]byte

// NewHash hashes data with BLAKE3.
func NewHash(data []byte) Hash {
	return blake3.Sum256(data)
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ChangesetID identifies a serialized changeset.
type ChangesetID struct{ Hash }

// ContentID identifies a file content blob.
type ContentID struct{ Hash }

// RawBundleID identifies a raw stored bundle.
type RawBundleID struct{ Hash }

// Blob is a serialized value in memory.
type Blob[I ID] struct {
	id   I
	data []byte
}

// New creates a blob from an id and the data it addresses.  The caller must
// not modify data afterwards.
func New[I ID](id I, data []byte) Blob[I] {
	return Blob[I]{id: id, data: data}
}

// ID returns the blob's typed content id.
func (b Blob[I]) ID() I {
	return b.id
}

// Data returns the blob's serialized bytes.  Callers must not modify them.
func (b Blob[I]) Data() []byte {
	return b.data
}

// Len returns the length of the blob's data.
func (b Blob[I]) Len() int {
	return len(b.data)
}

// Value is a typed repository value that can round-trip through a blob.
type Value[I ID] interface {
	// IntoBlob serializes the value and computes its content id.
	IntoBlob() Blob[I]
}

// Verify recomputes data's hash and checks it against the blob's id.
func Verify[I ID](b Blob[I], id func(Hash) I) bool {
	return b.id == id(NewHash(b.data))
}
