// Package binpos is a positioned binary (de)serialization framework: typed
// values are read from and written to explicit byte offsets of a fixed byte
// source, with zero-copy views where the source allows them, position
// rollback on failure and a structured, chainable error model.
//
// # Architecture Overview
//
//	binpos/          Source, Sink and the borrowed-or-owned Bytes value
//	├── source/      Memory, File, Mapped, WasmMemory, Window, Shared, Buffer
//	├── endian/      Byte order strategies including 24-bit widths
//	├── codec/       Primitives, Len types, length-prefixed containers,
//	│                Deserializer/Serializer contract, lazy Sequence
//	├── assert/      Recoverable format assertions with And/Or/Lax
//	├── errors/      Structured error kinds and context chaining
//	├── formats/     Example codecs built on the core (riff, pak)
//	└── cmd/binpos/  Inspection CLI
//
// # Positions
//
// Every read takes a *uint64 position owned by the caller. On success the
// position advances by exactly the bytes consumed; on failure it is left
// where it was, which lets a caller try another decoding strategy from the
// same offset:
//
//	src := source.Memory(data)
//	var pos uint64
//	hdr, err := codec.DeserializeDefault[riff.Header](src, &pos)
//	if err != nil {
//	    // pos is still 0
//	}
//
// # Byte order and lengths
//
// Byte order and the width of length prefixes are values passed at each
// call, never ambient configuration:
//
//	n, err := codec.ReadU32(src, &pos, endian.BigEndian)
//	name, err := codec.ReadLenString(src, &pos, codec.Len16(endian.LittleEndian))
//
// # Concurrency
//
// Sources are immutable and safe for concurrent reads. Positions are plain
// values; never share one between goroutines without synchronization.
package binpos
