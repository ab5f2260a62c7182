package bundle

import (
	"math"
)

// maxChunkLen is the most data a length-prefixed wire frame can carry.
const maxChunkLen = math.MaxUint32

// Chunk is an immutable byte buffer, the unit the part encoder emits.  A
// zero-length Chunk is the end-of-part marker on the wire; there is no
// separate tag, so a part payload must never emit an empty chunk of its own
// (the encoder filters them out of generated payloads).
type Chunk struct {
	data []byte
}

// NewChunk constructs a Chunk holding data.  The caller must not modify data
// afterwards.  It returns an EncodingError if data is too large to frame.
func NewChunk(data []byte) (Chunk, error) {
	if uint64(len(data)) > maxChunkLen {
		return Chunk{}, encodingErrorf("chunk of length %d exceeds the frame limit %d", len(data), uint64(maxChunkLen))
	}
	return Chunk{data: data}, nil
}

// EmptyChunk returns the canonical zero-length chunk, the end-of-part
// marker.
func EmptyChunk() Chunk {
	return Chunk{}
}

// IsEmpty reports whether c is the end-of-part marker.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Len returns the length of the chunk's data.
func (c Chunk) Len() int {
	return len(c.data)
}

// Data returns the chunk's data.  Callers must not modify it.
func (c Chunk) Data() []byte {
	return c.data
}
