package bundle

import (
	"strings"
	"testing"

	"github.com/shale-scm/shale/src/internal/require"
)

func TestUnknownPartType(t *testing.T) {
	t.Parallel()
	_, err := NewPartHeaderBuilder(PartHeaderType(99), true)
	require.YesError(t, err)
	require.True(t, IsConfigError(err))
	_, err = NewMandatory(PartHeaderType(99))
	require.YesError(t, err)
	require.True(t, IsConfigError(err))
}

func TestEncodeLayout(t *testing.T) {
	t.Parallel()
	headerb, err := NewPartHeaderBuilder(Pushkey, true)
	require.NoError(t, err)
	require.NoError(t, headerb.AddMParam("namespace", []byte("bookmarks")))
	require.NoError(t, headerb.AddAParam("hint", []byte{0x01}))
	header := headerb.Build(0x01020304)

	want := []byte{7}                                // part type name length
	want = append(want, "PUSHKEY"...)                // upper-cased: mandatory
	want = append(want, 0x01, 0x02, 0x03, 0x04)      // part id, big endian
	want = append(want, 1, 1)                        // mandatory and advisory param counts
	want = append(want, 9, 9)                        // namespace/bookmarks sizes
	want = append(want, 4, 1)                        // hint sizes
	want = append(want, "namespacebookmarks"...)     // mandatory params
	want = append(want, append([]byte("hint"), 1)...) // advisory params
	require.Equal(t, want, header.Encode().Data())
}

func TestEncodeAdvisoryIsLowercase(t *testing.T) {
	t.Parallel()
	headerb, err := NewPartHeaderBuilder(B2xTreegroup2, false)
	require.NoError(t, err)
	data := headerb.Build(0).Encode().Data()
	require.Equal(t, byte(len("b2x:treegroup2")), data[0])
	require.Equal(t, "b2x:treegroup2", string(data[1:1+len("b2x:treegroup2")]))
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()
	headerb, err := NewPartHeaderBuilder(Listkeys, false)
	require.NoError(t, err)
	require.NoError(t, headerb.AddMParam("b", []byte("2")))
	require.NoError(t, headerb.AddMParam("a", []byte("1")))
	header := headerb.Build(12)
	first := header.Encode().Data()
	second := header.Encode().Data()
	require.Equal(t, first, second)
	// Insertion order, not key order.
	require.True(t, strings.Contains(string(first), "b2a1"))
}

func TestParamLimits(t *testing.T) {
	t.Parallel()
	headerb, err := NewPartHeaderBuilder(Pushvars, true)
	require.NoError(t, err)
	err = headerb.AddMParam("", []byte("x"))
	require.YesError(t, err)
	require.True(t, IsConfigError(err))
	err = headerb.AddMParam(strings.Repeat("k", 256), []byte("x"))
	require.YesError(t, err)
	require.True(t, IsConfigError(err))
	err = headerb.AddAParam("k", make([]byte, 256))
	require.YesError(t, err)
	require.True(t, IsConfigError(err))
	// At the limits everything is fine.
	require.NoError(t, headerb.AddMParam(strings.Repeat("k", 255), make([]byte, 255)))
}
