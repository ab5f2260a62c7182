package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cevaris/ordered_map"
)

// PartID identifies a part within one bundle.  IDs are assigned by the
// bundle writer when a part is finalized, not when it is configured.
type PartID uint32

// PartHeaderType is the protocol tag naming what a part carries.
type PartHeaderType int

const (
	Changegroup PartHeaderType = iota
	Listkeys
	Obsmarkers
	Phases
	Pushkey
	Pushvars
	Replycaps
	B2xInfinitepush
	B2xTreegroup2
)

var partTypeNames = map[PartHeaderType]string{
	Changegroup:     "changegroup",
	Listkeys:        "listkeys",
	Obsmarkers:      "obsmarkers",
	Phases:          "phase-heads",
	Pushkey:         "pushkey",
	Pushvars:        "pushvars",
	Replycaps:       "replycaps",
	B2xInfinitepush: "b2x:infinitepush",
	B2xTreegroup2:   "b2x:treegroup2",
}

// String returns the lowercase wire name of the part type.
func (t PartHeaderType) String() string {
	if name, ok := partTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// PartHeaderBuilder accumulates a part's metadata.  The zero value is not
// usable; construct with NewPartHeaderBuilder.
type PartHeaderBuilder struct {
	partType  PartHeaderType
	mandatory bool
	mparams   *ordered_map.OrderedMap
	aparams   *ordered_map.OrderedMap
}

// NewPartHeaderBuilder returns a builder for a part of the given type.  The
// mandatory flag is fixed at construction: a receiver must understand a
// mandatory part to process the bundle, and may skip an advisory one.
func NewPartHeaderBuilder(partType PartHeaderType, mandatory bool) (*PartHeaderBuilder, error) {
	if _, ok := partTypeNames[partType]; !ok {
		return nil, configErrorf("unknown part type %d", int(partType))
	}
	return &PartHeaderBuilder{
		partType:  partType,
		mandatory: mandatory,
		mparams:   ordered_map.NewOrderedMap(),
		aparams:   ordered_map.NewOrderedMap(),
	}, nil
}

// AddMParam adds a mandatory (required) parameter to the header.
func (b *PartHeaderBuilder) AddMParam(key string, value []byte) error {
	return b.addParam(b.mparams, "mandatory", key, value)
}

// AddAParam adds an advisory parameter to the header.
func (b *PartHeaderBuilder) AddAParam(key string, value []byte) error {
	return b.addParam(b.aparams, "advisory", key, value)
}

// Parameter keys and values are length-prefixed with a single byte on the
// wire, and the parameter counts are single bytes as well.
func (b *PartHeaderBuilder) addParam(params *ordered_map.OrderedMap, kind, key string, value []byte) error {
	if len(key) == 0 || len(key) > 255 {
		return configErrorf("%s parameter key %q must be 1-255 bytes long", kind, key)
	}
	if len(value) > 255 {
		return configErrorf("%s parameter %q has a %d byte value, limit is 255", kind, key, len(value))
	}
	if _, ok := params.Get(key); ok {
		return configErrorf("%s parameter %q already set", kind, key)
	}
	if params.Len() >= 255 {
		return configErrorf("part has too many %s parameters, limit is 255", kind)
	}
	params.Set(key, value)
	return nil
}

// Build freezes the header with the given part id.  The builder must not be
// used afterwards.
func (b *PartHeaderBuilder) Build(partID PartID) PartHeader {
	return PartHeader{
		partType:  b.partType,
		mandatory: b.mandatory,
		partID:    partID,
		mparams:   b.mparams,
		aparams:   b.aparams,
	}
}

// PartHeader is a part's metadata, fully built before encoding starts.
// Immutable.
type PartHeader struct {
	partType  PartHeaderType
	mandatory bool
	partID    PartID
	mparams   *ordered_map.OrderedMap
	aparams   *ordered_map.OrderedMap
}

// PartType returns the part's protocol tag.
func (h PartHeader) PartType() PartHeaderType {
	return h.partType
}

// Mandatory reports whether a receiver must understand this part.
func (h PartHeader) Mandatory() bool {
	return h.mandatory
}

// PartID returns the part's id within its bundle.
func (h PartHeader) PartID() PartID {
	return h.partID
}

// Encode serializes the header to a single chunk.  The layout is the part
// type name (upper-cased when the part is mandatory) with a one-byte length
// prefix, the part id as a big-endian u32, one-byte mandatory and advisory
// parameter counts, a size table of one-byte key and value lengths, and the
// key/value data in insertion order, mandatory parameters first.
func (h PartHeader) Encode() Chunk {
	var buf bytes.Buffer
	name := h.partType.String()
	if h.mandatory {
		name = strings.ToUpper(name)
	}
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	var id [4]byte
	binary.BigEndian.PutUint32(id[:], uint32(h.partID))
	buf.Write(id[:])
	buf.WriteByte(byte(h.mparams.Len()))
	buf.WriteByte(byte(h.aparams.Len()))
	writeParamSizes(&buf, h.mparams)
	writeParamSizes(&buf, h.aparams)
	writeParamData(&buf, h.mparams)
	writeParamData(&buf, h.aparams)
	chunk, err := NewChunk(buf.Bytes())
	if err != nil {
		// Unreachable: the builder bounds every field well below the
		// frame limit.
		panic(err)
	}
	return chunk
}

func writeParamSizes(buf *bytes.Buffer, params *ordered_map.OrderedMap) {
	iter := params.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		buf.WriteByte(byte(len(kv.Key.(string))))
		buf.WriteByte(byte(len(kv.Value.([]byte))))
	}
}

func writeParamData(buf *bytes.Buffer, params *ordered_map.OrderedMap) {
	iter := params.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		buf.WriteString(kv.Key.(string))
		buf.Write(kv.Value.([]byte))
	}
}
