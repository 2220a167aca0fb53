package thurgood

import (
	"bytes"
	"io"
	"math"
	"strconv"
)

// RbWriter encodes one value tree to a byte sink. It mirrors the
// reader's two back-reference tables: symbols deduplicate by name,
// boxed nodes by handle identity. Two structurally equal but separately
// allocated nodes are written twice; two aliases of one node produce a
// back-reference.
type RbWriter struct {
	dst io.Writer

	syms map[string]int
	objs map[*RbRef]int

	scratch []byte
}

// NewWriter returns a writer pushing to w.
func NewWriter(w io.Writer) *RbWriter {
	return &RbWriter{dst: w}
}

// Write encodes the header and one value to w.
func Write(w io.Writer, v RbAny) error {
	return NewWriter(w).Write(v)
}

// Marshal encodes one value to a fresh byte slice.
func Marshal(v RbAny) (buf []byte, err error) {
	var b bytes.Buffer
	if err = NewWriter(&b).Write(v); err != nil {
		return
	}
	return b.Bytes(), nil
}

// Write emits the version header followed by v. The back-reference
// tables start empty on every call.
func (w *RbWriter) Write(v RbAny) (err error) {
	w.syms = map[string]int{}
	w.objs = map[*RbRef]int{}
	if err = w.writeBytes([]byte{MARSHAL_MAJOR, MARSHAL_MINOR}); err != nil {
		return
	}
	return w.writeValue(v)
}

func (w *RbWriter) writeBytes(b []byte) (err error) {
	if _, err = w.dst.Write(b); err != nil {
		return sinkErr(err)
	}
	return
}

func (w *RbWriter) writeByte(b byte) error {
	return w.writeBytes([]byte{b})
}

func (w *RbWriter) writeLong(v int32) error {
	w.scratch = appendLong(w.scratch[:0], v)
	return w.writeBytes(w.scratch)
}

//	writeByteSeq emits one length-prefixed byte string.
func (w *RbWriter) writeByteSeq(b []byte) (err error) {
	if err = w.writeLong(int32(len(b))); err != nil {
		return
	}
	return w.writeBytes(b)
}

func (w *RbWriter) writeTagged(tag byte, v int32) (err error) {
	if err = w.writeByte(tag); err != nil {
		return
	}
	return w.writeLong(v)
}

func (w *RbWriter) writeValue(v RbAny) (err error) {
	switch v.Type() {
	case TypeNil:
		return w.writeByte(tagNil)
	case TypeTrue:
		return w.writeByte(tagTrue)
	case TypeFalse:
		return w.writeByte(tagFalse)
	case TypeInt:
		return w.writeTagged(tagInt, v.num)
	case TypeFloat:
		return w.writeFloat(v.flt)
	case TypeSymbol:
		return w.writeSymbol(v.sym)
	}
	return w.writeRef(v.ref)
}

//	writeSymbol emits a new symbol on first sight and a back-reference
//	afterwards. Indices are assigned in first-occurrence order.
func (w *RbWriter) writeSymbol(sym *RbSymbol) (err error) {
	if sym == nil {
		return &WriteError{Kind: ErrTypeMismatch}
	}
	name := string(sym.name)
	if idx, ok := w.syms[name]; ok {
		return w.writeTagged(tagSymlink, int32(idx))
	}
	w.syms[name] = len(w.syms)
	if err = w.writeByte(tagSymbol); err != nil {
		return
	}
	return w.writeByteSeq(sym.name)
}

func (w *RbWriter) writeRef(ref *RbRef) (err error) {
	if ref.linkable() {
		if idx, ok := w.objs[ref]; ok {
			return w.writeTagged(tagObjectLink, int32(idx))
		}
		//	claim the slot before emitting children, mirroring the
		//	reader's registration order
		w.objs[ref] = len(w.objs)
	}
	switch ref.Type {
	case TypeStr:
		return w.writeStr(ref)
	case TypeArray:
		if err = w.writeTagged(tagArray, int32(len(ref.Items))); err != nil {
			return
		}
		for _, item := range ref.Items {
			if err = w.writeValue(item); err != nil {
				return
			}
		}
		return
	case TypeHash:
		return w.writeHash(ref.Hash)
	case TypeObject:
		return w.writeObject(tagObject, ref.Object)
	case TypeStruct:
		return w.writeObject(tagStruct, ref.Object)
	case TypeUserData:
		if err = w.writeByte(tagUserData); err != nil {
			return
		}
		if err = w.writeSymbol(ref.Name); err != nil {
			return
		}
		return w.writeByteSeq(ref.Bytes)
	case TypeUserMarshal:
		if err = w.writeByte(tagUserMarshal); err != nil {
			return
		}
		if err = w.writeSymbol(ref.Name); err != nil {
			return
		}
		return w.writeValue(ref.Inner)
	case TypeExtended:
		if err = w.writeByte(tagExtended); err != nil {
			return
		}
		if err = w.writeSymbol(ref.Name); err != nil {
			return
		}
		return w.writeValue(ref.Inner)
	case TypeClass:
		return w.writeNamed(tagClass, ref)
	case TypeModule:
		return w.writeNamed(tagModule, ref)
	case TypeClassOrModule:
		return w.writeNamed(tagClassOrModule, ref)
	case TypeRegex:
		return w.writeRegex(ref)
	case TypeBignum:
		return w.writeBignum(ref)
	}
	return &WriteError{Kind: ErrTypeMismatch}
}

func (w *RbWriter) writeStr(ref *RbRef) (err error) {
	if ref.Enc.Kind == EncodingRaw {
		if err = w.writeByte(tagString); err != nil {
			return
		}
		return w.writeByteSeq(ref.Bytes)
	}
	if err = w.writeByte(tagIvar); err != nil {
		return
	}
	if err = w.writeByte(tagString); err != nil {
		return
	}
	if err = w.writeByteSeq(ref.Bytes); err != nil {
		return
	}
	return w.writeEncAttrs(ref.Enc)
}

//	writeEncAttrs emits the one-entry attribute map carrying the
//	encoding tag.
func (w *RbWriter) writeEncAttrs(enc Encoding) (err error) {
	if err = w.writeLong(1); err != nil {
		return
	}
	switch enc.Kind {
	case EncodingUTF8:
		if err = w.writeSymbol(NewSymbol(attrShortEncoding)); err != nil {
			return
		}
		return w.writeByte(tagTrue)
	case EncodingASCII:
		if err = w.writeSymbol(NewSymbol(attrShortEncoding)); err != nil {
			return
		}
		return w.writeByte(tagFalse)
	}
	if err = w.writeSymbol(NewSymbol(attrEncoding)); err != nil {
		return
	}
	//	the encoding name is a bare string; bare strings never enter
	//	the object table
	if err = w.writeByte(tagString); err != nil {
		return
	}
	return w.writeByteSeq([]byte(enc.Name))
}

func (w *RbWriter) writeHash(h *RbHash) (err error) {
	if h == nil {
		h = NewHash()
	}
	tag := byte(tagHash)
	if h.Default != nil {
		tag = tagHashDefault
	}
	if err = w.writeTagged(tag, int32(len(h.Pairs))); err != nil {
		return
	}
	for _, pair := range h.Pairs {
		if err = w.writeValue(pair.Key); err != nil {
			return
		}
		if err = w.writeValue(pair.Value); err != nil {
			return
		}
	}
	if h.Default != nil {
		return w.writeValue(*h.Default)
	}
	return
}

func (w *RbWriter) writeObject(tag byte, o *RbObject) (err error) {
	if o == nil {
		return &WriteError{Kind: ErrTypeMismatch}
	}
	if err = w.writeByte(tag); err != nil {
		return
	}
	if err = w.writeSymbol(o.Class); err != nil {
		return
	}
	if err = w.writeLong(int32(len(o.Fields))); err != nil {
		return
	}
	for _, field := range o.Fields {
		if err = w.writeSymbol(field.Name); err != nil {
			return
		}
		if err = w.writeValue(field.Value); err != nil {
			return
		}
	}
	return
}

func (w *RbWriter) writeNamed(tag byte, ref *RbRef) (err error) {
	if ref.Name == nil {
		return &WriteError{Kind: ErrTypeMismatch}
	}
	if err = w.writeByte(tag); err != nil {
		return
	}
	//	class and module names are raw bytes, not symbols
	return w.writeByteSeq(ref.Name.name)
}

func (w *RbWriter) writeRegex(ref *RbRef) (err error) {
	wrapped := ref.Enc.Kind != EncodingRaw
	if wrapped {
		if err = w.writeByte(tagIvar); err != nil {
			return
		}
	}
	if err = w.writeByte(tagRegex); err != nil {
		return
	}
	if err = w.writeByteSeq(ref.Bytes); err != nil {
		return
	}
	if err = w.writeByte(ref.RegexOpts); err != nil {
		return
	}
	if wrapped {
		return w.writeEncAttrs(ref.Enc)
	}
	return
}

func (w *RbWriter) writeBignum(ref *RbRef) (err error) {
	if err = w.writeByte(tagBignum); err != nil {
		return
	}
	sign := byte('+')
	if ref.Negative {
		sign = '-'
	}
	if err = w.writeByte(sign); err != nil {
		return
	}
	mag := ref.Bytes
	if len(mag)%2 == 1 {
		mag = append(append([]byte{}, mag...), 0)
	}
	if err = w.writeLong(int32(len(mag) / 2)); err != nil {
		return
	}
	return w.writeBytes(mag)
}

//	writeFloat always emits the canonical shortest decimal text, even
//	when the value was read from a legacy NUL-padded stream.
func (w *RbWriter) writeFloat(f float32) (err error) {
	var text string
	switch {
	case math.IsNaN(float64(f)):
		text = "nan"
	case math.IsInf(float64(f), 1):
		text = "inf"
	case math.IsInf(float64(f), -1):
		text = "-inf"
	default:
		text = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	if err = w.writeByte(tagFloat); err != nil {
		return
	}
	return w.writeByteSeq([]byte(text))
}
