// Package codec decodes and encodes values against a binpos.Source or
// binpos.Sink at an explicit position.
//
// Every read takes the position by pointer. On success it advances by the
// bytes consumed; on failure it is left where it was, so a caller may try a
// different decoding from the same offset. Composite types get the same
// guarantee by snapshotting once at entry:
//
//	func (h *Header) DeserializeAt(src binpos.Source, pos *uint64, _ codec.NoCtx) (err error) {
//		defer codec.RestoreOnError(pos, *pos, &err)
//		if h.Version, err = codec.ReadU16(src, pos, endian.LittleEndian); err != nil {
//			return err
//		}
//		h.Count, err = codec.ReadU32(src, pos, endian.LittleEndian)
//		return err
//	}
//
//	h, err := codec.DeserializeDefault[Header](src, &pos)
//
// Byte order and length width are values passed at each call (see
// endian.ByteOrder and Len); nothing here is configured globally.
//
// Length-prefixed collections decode lazily through Sequence:
//
//	seq, err := codec.ReadLenCollection(src, &pos, codec.Len8, codec.NoCtx{}, codec.Elem[Entry, codec.NoCtx]())
//	for e, err := range seq.All() {
//		...
//	}
package codec
