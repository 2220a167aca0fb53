// Package thurgood reads and writes the binary serialization format
// produced by Ruby's Marshal module, version 4.8.
//
// A stream decodes to a tree of RbAny values. Scalars are stored
// inline; strings, containers and objects live behind shared *RbRef
// handles, so aliasing and cycles in the source stream survive
// decoding: two positions that referenced the same object hold the same
// pointer afterwards. The writer emits back-references wherever a tree
// holds the same handle twice, which makes write after read
// byte-identical for every documented tag, with these exceptions: float
// text, legacy NUL-padded encodings included, is re-emitted in canonical
// form, and instance-variable attributes other than the encoding tags
// are not kept as attributes (they merge into an object's fields or are
// dropped).
//
// Typical use:
//
//	v, err := thurgood.Unmarshal(data)
//	...
//	out, err := thurgood.Marshal(v)
package thurgood
