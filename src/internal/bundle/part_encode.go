package bundle

import (
	"context"

	"github.com/shale-scm/shale/src/internal/stream"
)

// partData describes a part's payload: none, one pre-materialized chunk, or
// a lazily generated chunk stream.
type partData struct {
	kind  dataKind
	fixed Chunk
	gen   stream.Iterator[Chunk]
}

type dataKind uint8

const (
	dataNone dataKind = iota
	dataFixed
	dataGenerated
)

// PartEncodeBuilder configures one part for encoding.  Configuration errors
// are reported synchronously, before any chunk is produced.  Build consumes
// the builder.
type PartEncodeBuilder struct {
	headerb *PartHeaderBuilder
	data    partData
}

// NewMandatory returns a builder for a mandatory part of the given type.
func NewMandatory(partType PartHeaderType) (*PartEncodeBuilder, error) {
	headerb, err := NewPartHeaderBuilder(partType, true)
	if err != nil {
		return nil, err
	}
	return &PartEncodeBuilder{headerb: headerb}, nil
}

// NewAdvisory returns a builder for an advisory part of the given type.
func NewAdvisory(partType PartHeaderType) (*PartEncodeBuilder, error) {
	headerb, err := NewPartHeaderBuilder(partType, false)
	if err != nil {
		return nil, err
	}
	return &PartEncodeBuilder{headerb: headerb}, nil
}

// AddMParam adds a mandatory parameter to the part header.  It returns the
// builder for chained configuration.
func (b *PartEncodeBuilder) AddMParam(key string, value []byte) (*PartEncodeBuilder, error) {
	if err := b.headerb.AddMParam(key, value); err != nil {
		return nil, err
	}
	return b, nil
}

// AddAParam adds an advisory parameter to the part header.
func (b *PartEncodeBuilder) AddAParam(key string, value []byte) (*PartEncodeBuilder, error) {
	if err := b.headerb.AddAParam(key, value); err != nil {
		return nil, err
	}
	return b, nil
}

// SetDataFixed sets the payload to exactly one pre-materialized chunk.
// Setting the payload again overwrites the previous choice.
func (b *PartEncodeBuilder) SetDataFixed(c Chunk) *PartEncodeBuilder {
	b.data = partData{kind: dataFixed, fixed: c}
	return b
}

// SetDataBytes sets the payload to the given bytes, framing them as one
// chunk.
func (b *PartEncodeBuilder) SetDataBytes(data []byte) (*PartEncodeBuilder, error) {
	c, err := NewChunk(data)
	if err != nil {
		return nil, err
	}
	return b.SetDataFixed(c), nil
}

// SetDataGenerated sets the payload to a lazily generated chunk stream.  Any
// empty chunks the stream produces are dropped so that they cannot be
// mistaken for the end-of-part marker; the only empty chunk a consumer ever
// sees is the one the encoder synthesizes itself.
func (b *PartEncodeBuilder) SetDataGenerated(it stream.Iterator[Chunk]) *PartEncodeBuilder {
	b.data = partData{kind: dataGenerated, gen: &skipEmpty{inner: it}}
	return b
}

// skipEmpty filters empty chunks out of a payload stream.  EOS, NotReady and
// generation errors pass through unchanged.
type skipEmpty struct {
	inner stream.Iterator[Chunk]
}

func (it *skipEmpty) Next(ctx context.Context, dst *Chunk) error {
	for {
		if err := it.inner.Next(ctx, dst); err != nil {
			return err
		}
		if !dst.IsEmpty() {
			return nil
		}
	}
}

// Build consumes the builder, assigning the part its id, and returns the
// encoder positioned before the header chunk.
func (b *PartEncodeBuilder) Build(partID PartID) *PartEncode {
	return &PartEncode{
		state: genState{
			kind:   stateNotStarted,
			header: b.headerb.Build(partID),
			data:   b.data,
		},
	}
}

// PartEncode produces the full wire encoding of one part as a lazy, finite,
// non-restartable chunk sequence: the header chunk, the payload chunks, and
// one empty chunk terminating the part.  It implements
// stream.Iterator[Chunk].
//
// A PartEncode is single-consumer: Next must not be called concurrently.
type PartEncode struct {
	state genState
}

var _ stream.Iterator[Chunk] = &PartEncode{}

// genState is the encoder's position in the part:
//
//	stateNotStarted = header not output yet
//	stateGenerating = payload currently being generated by the inner stream
//	stateFixed      = fixed payload (no generation, just one chunk)
//	stateEmptyChunk = end of payload (or no payload), terminator still owed
//	stateDone       = part completed
//	stateInvalid    = transient marker held only while advance runs
//
// Exactly one state is held at any externally observable instant.
// stateInvalid exists so that a reentrant call, or a call after a panic
// mid-transition, finds the marker instead of silently racing.
type genState struct {
	kind   genStateKind
	header PartHeader
	data   partData
	fixed  Chunk
	gen    stream.Iterator[Chunk]
}

type genStateKind uint8

const (
	stateInvalid genStateKind = iota
	stateNotStarted
	stateFixed
	stateGenerating
	stateEmptyChunk
	stateDone
)

// take moves the current state out of the encoder, leaving the transient
// marker in its place for the duration of one advance.
func (pe *PartEncode) take() genState {
	state := pe.state
	pe.state = genState{kind: stateInvalid}
	return state
}

// Next advances the encoder, writing the next chunk to dst.  It returns
// stream.EOS() once the part is fully encoded, and forever after.  A
// NotReady or generation error from the inner payload stream is returned
// as-is without advancing; a NotReady caller may retry, and a well-behaved
// caller stops pulling on any other error.
func (pe *PartEncode) Next(ctx context.Context, dst *Chunk) error {
	chunk, nextState, err := advance(ctx, pe.take())
	pe.state = nextState
	if err != nil {
		return err
	}
	*dst = chunk
	return nil
}

// advance is the complete transition function.  It owns state for the
// duration of the call and returns the state to hold next, so each
// transition is all-or-nothing even when the inner stream suspends or
// fails.
func advance(ctx context.Context, state genState) (Chunk, genState, error) {
	switch state.kind {
	case stateNotStarted:
		// The header is always the first chunk, synthesized exactly
		// once regardless of payload shape.
		headerChunk := state.header.Encode()
		next := genState{kind: stateEmptyChunk}
		switch state.data.kind {
		case dataFixed:
			next = genState{kind: stateFixed, fixed: state.data.fixed}
		case dataGenerated:
			next = genState{kind: stateGenerating, gen: state.data.gen}
		}
		return headerChunk, next, nil
	case stateFixed:
		return state.fixed, genState{kind: stateEmptyChunk}, nil
	case stateGenerating:
		var v Chunk
		err := state.gen.Next(ctx, &v)
		switch {
		case err == nil:
			return v, state, nil
		case stream.IsEOS(err):
			return EmptyChunk(), genState{kind: stateDone}, nil
		default:
			// NotReady and generation errors leave the inner
			// stream in place; termination is the caller's call.
			return Chunk{}, state, err
		}
	case stateEmptyChunk:
		return EmptyChunk(), genState{kind: stateDone}, nil
	case stateDone:
		return Chunk{}, state, stream.EOS()
	default:
		// Reentrant Next, or resumed after a panic mid-transition.
		// A contract breach, not a data problem.
		panic("bundle: part encoder observed in invalid state")
	}
}
