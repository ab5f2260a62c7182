package bundle

import (
	"testing"

	"github.com/shale-scm/shale/src/internal/require"
)

func TestChunk(t *testing.T) {
	t.Parallel()
	c, err := NewChunk([]byte{1, 2, 3})
	require.NoError(t, err)
	require.False(t, c.IsEmpty())
	require.Equal(t, 3, c.Len())
	require.Equal(t, []byte{1, 2, 3}, c.Data())
}

func TestEmptyChunkIsTerminator(t *testing.T) {
	t.Parallel()
	require.True(t, EmptyChunk().IsEmpty())
	// The terminator predicate is content based: an explicitly
	// constructed zero-length chunk is indistinguishable from the
	// marker.
	c, err := NewChunk(nil)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())
	c, err = NewChunk([]byte{})
	require.NoError(t, err)
	require.True(t, c.IsEmpty())
}
