/*
Package bundle implements encoding for the bundle exchange protocol.

A bundle is a sequence of parts.  Each part is one self-contained unit of
the exchange: a header carrying the part's type, id and parameters, an
optional payload, and a zero-length chunk marking the end of the part.  The
transport layer writes each chunk to the wire in the order received and
delimits parts without inspecting payload semantics, because every part is
framed the same way regardless of payload shape.

Parts are configured with a PartEncodeBuilder and then encoded by pulling
chunks out of the resulting PartEncode, which is a stream.Iterator[Chunk].
*/
package bundle
