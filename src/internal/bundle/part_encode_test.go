package bundle

import (
	"context"
	"testing"

	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/pctx"
	"github.com/shale-scm/shale/src/internal/require"
	"github.com/shale-scm/shale/src/internal/stream"
)

func mustChunk(t testing.TB, data []byte) Chunk {
	t.Helper()
	c, err := NewChunk(data)
	require.NoError(t, err)
	return c
}

// headerChunk returns the chunk the encoder is expected to emit first for a
// part configured the same way.
func headerChunk(t testing.TB, partType PartHeaderType, mandatory bool, partID PartID) Chunk {
	t.Helper()
	headerb, err := NewPartHeaderBuilder(partType, mandatory)
	require.NoError(t, err)
	return headerb.Build(partID).Encode()
}

func collect(t testing.TB, ctx context.Context, pe *PartEncode) []Chunk {
	t.Helper()
	chunks, err := stream.Collect[Chunk](ctx, pe, 100)
	require.NoError(t, err)
	return chunks
}

func TestNoPayload(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	b, err := NewAdvisory(Listkeys)
	require.NoError(t, err)
	chunks := collect(t, ctx, b.Build(7))
	require.Len(t, chunks, 2)
	require.Equal(t, headerChunk(t, Listkeys, false, 7).Data(), chunks[0].Data())
	require.True(t, chunks[1].IsEmpty())
}

func TestFixedPayload(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	b, err := NewMandatory(Changegroup)
	require.NoError(t, err)
	_, err = b.SetDataBytes([]byte{1, 2, 3})
	require.NoError(t, err)
	chunks := collect(t, ctx, b.Build(1))
	require.Len(t, chunks, 3)
	require.Equal(t, headerChunk(t, Changegroup, true, 1).Data(), chunks[0].Data())
	require.Equal(t, []byte{1, 2, 3}, chunks[1].Data())
	require.True(t, chunks[2].IsEmpty())
}

func TestGeneratedPayload(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	payload := []Chunk{
		mustChunk(t, []byte{9}),
		EmptyChunk(),
		mustChunk(t, []byte{7, 7}),
	}
	b, err := NewMandatory(Changegroup)
	require.NoError(t, err)
	b.SetDataGenerated(stream.FromSlice(payload))
	chunks := collect(t, ctx, b.Build(3))
	// The embedded empty chunk is dropped, not mistaken for the
	// end-of-part marker.
	require.Len(t, chunks, 4)
	require.Equal(t, headerChunk(t, Changegroup, true, 3).Data(), chunks[0].Data())
	require.Equal(t, []byte{9}, chunks[1].Data())
	require.Equal(t, []byte{7, 7}, chunks[2].Data())
	require.True(t, chunks[3].IsEmpty())
}

func TestExactlyOneTerminator(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	for name, configure := range map[string]func(t *testing.T, b *PartEncodeBuilder){
		"none": func(*testing.T, *PartEncodeBuilder) {},
		"fixed": func(t *testing.T, b *PartEncodeBuilder) {
			_, err := b.SetDataBytes([]byte("abc"))
			require.NoError(t, err)
		},
		"generated": func(t *testing.T, b *PartEncodeBuilder) {
			b.SetDataGenerated(stream.FromSlice([]Chunk{mustChunk(t, []byte("abc"))}))
		},
	} {
		b, err := NewAdvisory(Pushkey)
		require.NoError(t, err)
		configure(t, b)
		chunks := collect(t, ctx, b.Build(1))
		var terminators int
		for _, c := range chunks {
			if c.IsEmpty() {
				terminators++
			}
		}
		require.Equal(t, 1, terminators, "payload %q", name)
		require.True(t, chunks[len(chunks)-1].IsEmpty(), "payload %q", name)
		require.False(t, chunks[0].IsEmpty(), "payload %q", name)
	}
}

func TestExhaustionIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	b, err := NewAdvisory(Replycaps)
	require.NoError(t, err)
	pe := b.Build(2)
	var c Chunk
	for {
		if err := pe.Next(ctx, &c); err != nil {
			require.True(t, stream.IsEOS(err))
			break
		}
	}
	for i := 0; i < 10; i++ {
		err := pe.Next(ctx, &c)
		require.YesError(t, err)
		require.True(t, stream.IsEOS(err))
	}
}

// scripted is a payload stream that replays a fixed schedule of results,
// including suspensions and failures.
type scripted struct {
	steps []scriptedStep
}

type scriptedStep struct {
	chunk Chunk
	err   error
}

func (s *scripted) Next(ctx context.Context, dst *Chunk) error {
	if len(s.steps) == 0 {
		return stream.EOS()
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	if step.err != nil {
		return step.err
	}
	*dst = step.chunk
	return nil
}

func TestSuspensionIsTransparent(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	b, err := NewMandatory(Changegroup)
	require.NoError(t, err)
	b.SetDataGenerated(&scripted{steps: []scriptedStep{
		{err: stream.NotReady()},
		{err: stream.NotReady()},
		{chunk: mustChunk(t, []byte{4, 5})},
		{err: stream.NotReady()},
		{chunk: mustChunk(t, []byte{6})},
	}})
	pe := b.Build(9)

	var c Chunk
	require.NoError(t, pe.Next(ctx, &c))
	require.Equal(t, headerChunk(t, Changegroup, true, 9).Data(), c.Data())

	// Two suspensions, then the pending chunk; nothing skipped or lost.
	for i := 0; i < 2; i++ {
		err := pe.Next(ctx, &c)
		require.YesError(t, err)
		require.True(t, stream.IsNotReady(err))
	}
	require.NoError(t, pe.Next(ctx, &c))
	require.Equal(t, []byte{4, 5}, c.Data())

	err = pe.Next(ctx, &c)
	require.YesError(t, err)
	require.True(t, stream.IsNotReady(err))
	require.NoError(t, pe.Next(ctx, &c))
	require.Equal(t, []byte{6}, c.Data())

	require.NoError(t, pe.Next(ctx, &c))
	require.True(t, c.IsEmpty())
	require.True(t, stream.IsEOS(pe.Next(ctx, &c)))
}

func TestGenerationErrorSurfaces(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	boom := errors.New("payload read failed")
	b, err := NewMandatory(Changegroup)
	require.NoError(t, err)
	b.SetDataGenerated(&scripted{steps: []scriptedStep{
		{chunk: mustChunk(t, []byte{1})},
		{err: boom},
		{chunk: mustChunk(t, []byte{2})},
	}})
	pe := b.Build(4)

	var c Chunk
	require.NoError(t, pe.Next(ctx, &c))
	require.NoError(t, pe.Next(ctx, &c))
	require.Equal(t, []byte{1}, c.Data())

	// The error surfaces as an item; the encoder does not terminate the
	// part on its own.
	err = pe.Next(ctx, &c)
	require.YesError(t, err)
	require.ErrorIs(t, err, boom)
	require.False(t, stream.IsEOS(err))

	// The inner stream is still in place; pulling again resumes it.
	require.NoError(t, pe.Next(ctx, &c))
	require.Equal(t, []byte{2}, c.Data())
	require.NoError(t, pe.Next(ctx, &c))
	require.True(t, c.IsEmpty())
	require.True(t, stream.IsEOS(pe.Next(ctx, &c)))
}

func TestDuplicateParamRejected(t *testing.T) {
	t.Parallel()
	b, err := NewMandatory(Pushkey)
	require.NoError(t, err)
	_, err = b.AddMParam("namespace", []byte("bookmarks"))
	require.NoError(t, err)
	_, err = b.AddMParam("namespace", []byte("phases"))
	require.YesError(t, err)
	require.True(t, IsConfigError(err))

	// The advisory map is independent, and the existing mandatory
	// mapping is unchanged.
	_, err = b.AddAParam("namespace", []byte("phases"))
	require.NoError(t, err)
	headerb, err := NewPartHeaderBuilder(Pushkey, true)
	require.NoError(t, err)
	require.NoError(t, headerb.AddMParam("namespace", []byte("bookmarks")))
	require.NoError(t, headerb.AddAParam("namespace", []byte("phases")))
	want := headerb.Build(1).Encode()
	require.Equal(t, want.Data(), b.Build(1).state.header.Encode().Data())
}

func TestPayloadLastWriteWins(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	b, err := NewAdvisory(Listkeys)
	require.NoError(t, err)
	b.SetDataGenerated(stream.FromSlice([]Chunk{mustChunk(t, []byte("dropped"))}))
	_, err = b.SetDataBytes([]byte("kept"))
	require.NoError(t, err)
	chunks := collect(t, ctx, b.Build(5))
	require.Len(t, chunks, 3)
	require.Equal(t, []byte("kept"), chunks[1].Data())
}

// reentrant is a payload stream that calls back into the encoder that is
// currently pulling from it.
type reentrant struct {
	pe *PartEncode
}

func (r *reentrant) Next(ctx context.Context, dst *Chunk) error {
	var c Chunk
	return r.pe.Next(ctx, &c)
}

func TestReentrantNextPanics(t *testing.T) {
	t.Parallel()
	ctx := pctx.TestContext(t)
	b, err := NewMandatory(Changegroup)
	require.NoError(t, err)
	r := &reentrant{}
	b.SetDataGenerated(r)
	pe := b.Build(1)
	r.pe = pe

	var c Chunk
	require.NoError(t, pe.Next(ctx, &c)) // header
	defer func() {
		require.NotNil(t, recover())
	}()
	pe.Next(ctx, &c) //nolint:errcheck
	t.Fatal("reentrant Next should panic")
}
