package thurgood

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

//	byteSource is the pull interface the reader consumes. Sources that
//	already satisfy it (bytes.Reader, bufio.Reader, ...) are used
//	directly; anything else is wrapped in a bufio.Reader.
type byteSource interface {
	io.Reader
	io.ByteReader
}

// RbReader decodes one marshal stream from a byte source. The reader is
// fully forward; it never seeks. When the source is an io.ByteReader,
// any bytes after the decoded value stay unread; any other source is
// wrapped in a bufio.Reader, which may read past the end of the value.
type RbReader struct {
	src    byteSource
	offset int64

	//	back-reference tables, rebuilt per Read call
	syms []*RbSymbol
	objs []*RbRef

	//	MaxBignumShorts caps the bignum length field; 0 means no cap.
	MaxBignumShorts int
}

// NewReader returns a reader pulling from r.
func NewReader(r io.Reader) *RbReader {
	src, ok := r.(byteSource)
	if !ok {
		src = bufio.NewReader(r)
	}
	return &RbReader{src: src}
}

// Read consumes the version header and exactly one value.
func Read(r io.Reader) (RbAny, error) {
	return NewReader(r).Read()
}

// Unmarshal decodes one value from b.
func Unmarshal(b []byte) (RbAny, error) {
	return Read(bytes.NewReader(b))
}

// Read parses one value from the stream. The symbol and object tables
// start empty on every call.
func (r *RbReader) Read() (v RbAny, err error) {
	r.syms = r.syms[:0]
	r.objs = r.objs[:0]
	major, err := r.readByte()
	if err != nil {
		return
	}
	minor, err := r.readByte()
	if err != nil {
		return
	}
	if major != MARSHAL_MAJOR || minor != MARSHAL_MINOR {
		err = &ParseError{Kind: ErrBadVersion, Offset: r.offset - 2}
		return
	}
	return r.readValue()
}

func (r *RbReader) readByte() (b byte, err error) {
	b, err = r.src.ReadByte()
	if err == io.EOF {
		return 0, &ParseError{Kind: ErrUnexpectedEof, Offset: r.offset}
	}
	if err != nil {
		return 0, &ParseError{Kind: ErrIo, Offset: r.offset, Cause: errors.Wrap(err, "source")}
	}
	r.offset++
	return
}

func (r *RbReader) readFull(n int) (buf []byte, err error) {
	buf = make([]byte, n)
	got, err := io.ReadFull(r.src, buf)
	r.offset += int64(got)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, &ParseError{Kind: ErrUnexpectedEof, Offset: r.offset}
	}
	if err != nil {
		return nil, &ParseError{Kind: ErrIo, Offset: r.offset, Cause: errors.Wrap(err, "source")}
	}
	return
}

//	readByteSeq reads one length-prefixed byte string.
func (r *RbReader) readByteSeq() (buf []byte, err error) {
	n, err := r.readLength()
	if err != nil {
		return
	}
	return r.readFull(n)
}

//	register appends a node to the object table before its children are
//	read, so a cyclic back-reference resolves to the in-progress node.
func (r *RbReader) register(ref *RbRef) {
	r.objs = append(r.objs, ref)
}

func (r *RbReader) readValue() (v RbAny, err error) {
	tag, err := r.readByte()
	if err != nil {
		return
	}
	return r.readValueTag(tag)
}

func (r *RbReader) readValueTag(tag byte) (v RbAny, err error) {
	switch tag {
	case tagNil:
		return Nil, nil
	case tagTrue:
		return True, nil
	case tagFalse:
		return False, nil
	case tagInt:
		n, err := r.readLong()
		if err != nil {
			return Nil, err
		}
		return Int(n), nil
	case tagSymbol:
		sym, err := r.readSymbolBody()
		if err != nil {
			return Nil, err
		}
		return sym.Any(), nil
	case tagSymlink:
		sym, err := r.readSymlink()
		if err != nil {
			return Nil, err
		}
		return sym.Any(), nil
	case tagObjectLink:
		idx, err := r.readLong()
		if err != nil {
			return Nil, err
		}
		if idx < 0 || int(idx) >= len(r.objs) {
			return Nil, &ParseError{Kind: ErrBadReference, Offset: r.offset, Detail: "object", Index: int(idx)}
		}
		return r.objs[idx].Any(), nil
	case tagString:
		//	a bare string never enters the object table
		buf, err := r.readByteSeq()
		if err != nil {
			return Nil, err
		}
		return NewRawStr(buf).Any(), nil
	case tagIvar:
		return r.readIvar()
	case tagArray:
		return r.readArray()
	case tagHash, tagHashDefault:
		return r.readHash(tag == tagHashDefault)
	case tagFloat:
		return r.readFloat()
	case tagObject:
		return r.readObject(TypeObject)
	case tagStruct:
		return r.readObject(TypeStruct)
	case tagUserData:
		return r.readUserData()
	case tagUserMarshal:
		return r.readUserMarshal()
	case tagExtended:
		return r.readExtended()
	case tagClass:
		return r.readNamed(TypeClass)
	case tagModule:
		return r.readNamed(TypeModule)
	case tagClassOrModule:
		return r.readNamed(TypeClassOrModule)
	case tagRegex:
		return r.readRegex()
	case tagBignum:
		return r.readBignum()
	}
	return Nil, &ParseError{Kind: ErrUnknownTag, Offset: r.offset - 1, Tag: tag}
}

func (r *RbReader) readSymbolBody() (sym *RbSymbol, err error) {
	buf, err := r.readByteSeq()
	if err != nil {
		return
	}
	sym = newSymbolBytes(buf)
	r.syms = append(r.syms, sym)
	return
}

func (r *RbReader) readSymlink() (sym *RbSymbol, err error) {
	idx, err := r.readLong()
	if err != nil {
		return
	}
	if idx < 0 || int(idx) >= len(r.syms) {
		return nil, &ParseError{Kind: ErrBadReference, Offset: r.offset, Detail: "symbol", Index: int(idx)}
	}
	return r.syms[idx], nil
}

//	readSymbol reads a position where the format requires a symbol:
//	either a new symbol or a symbol back-reference.
func (r *RbReader) readSymbol() (sym *RbSymbol, err error) {
	tag, err := r.readByte()
	if err != nil {
		return
	}
	switch tag {
	case tagSymbol:
		return r.readSymbolBody()
	case tagSymlink:
		return r.readSymlink()
	}
	return nil, &ParseError{Kind: ErrTypeMismatch, Offset: r.offset - 1, Detail: "symbol expected", Tag: tag}
}

func (r *RbReader) readArray() (v RbAny, err error) {
	n, err := r.readLength()
	if err != nil {
		return
	}
	ref := &RbRef{Type: TypeArray, Items: []RbAny{}}
	r.register(ref)
	for i := 0; i < n; i++ {
		item, err := r.readValue()
		if err != nil {
			return Nil, err
		}
		ref.Items = append(ref.Items, item)
	}
	return ref.Any(), nil
}

func (r *RbReader) readHash(hasDefault bool) (v RbAny, err error) {
	n, err := r.readLength()
	if err != nil {
		return
	}
	ref := &RbRef{Type: TypeHash, Hash: NewHash()}
	r.register(ref)
	for i := 0; i < n; i++ {
		key, err := r.readValue()
		if err != nil {
			return Nil, err
		}
		val, err := r.readValue()
		if err != nil {
			return Nil, err
		}
		//	append directly: duplicate keys in the stream are
		//	preserved as-is
		ref.Hash.Pairs = append(ref.Hash.Pairs, RbPair{Key: key, Value: val})
	}
	if hasDefault {
		def, err := r.readValue()
		if err != nil {
			return Nil, err
		}
		ref.Hash.Default = &def
	}
	return ref.Any(), nil
}

func (r *RbReader) readObject(kind RbType) (v RbAny, err error) {
	ref := &RbRef{Type: kind, Object: &RbObject{}}
	r.register(ref)
	class, err := r.readSymbol()
	if err != nil {
		return
	}
	ref.Object.Class = class
	n, err := r.readLength()
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		name, err := r.readSymbol()
		if err != nil {
			return Nil, err
		}
		val, err := r.readValue()
		if err != nil {
			return Nil, err
		}
		ref.Object.Fields = append(ref.Object.Fields, RbField{Name: name, Value: val})
	}
	return ref.Any(), nil
}

func (r *RbReader) readUserData() (v RbAny, err error) {
	ref := &RbRef{Type: TypeUserData}
	r.register(ref)
	class, err := r.readSymbol()
	if err != nil {
		return
	}
	ref.Name = class
	data, err := r.readByteSeq()
	if err != nil {
		return
	}
	ref.Bytes = data
	return ref.Any(), nil
}

func (r *RbReader) readUserMarshal() (v RbAny, err error) {
	ref := &RbRef{Type: TypeUserMarshal}
	r.register(ref)
	class, err := r.readSymbol()
	if err != nil {
		return
	}
	ref.Name = class
	inner, err := r.readValue()
	if err != nil {
		return
	}
	ref.Inner = inner
	return ref.Any(), nil
}

func (r *RbReader) readExtended() (v RbAny, err error) {
	ref := &RbRef{Type: TypeExtended}
	r.register(ref)
	module, err := r.readSymbol()
	if err != nil {
		return
	}
	ref.Name = module
	object, err := r.readValue()
	if err != nil {
		return
	}
	ref.Inner = object
	return ref.Any(), nil
}

func (r *RbReader) readNamed(kind RbType) (v RbAny, err error) {
	//	class and module names are raw length-prefixed bytes, not
	//	symbols; they enter neither table
	buf, err := r.readByteSeq()
	if err != nil {
		return
	}
	return (&RbRef{Type: kind, Name: newSymbolBytes(buf)}).Any(), nil
}

func (r *RbReader) readRegex() (v RbAny, err error) {
	source, err := r.readByteSeq()
	if err != nil {
		return
	}
	opts, err := r.readByte()
	if err != nil {
		return
	}
	return NewRegex(source, opts, EncRaw).Any(), nil
}

func (r *RbReader) readBignum() (v RbAny, err error) {
	sign, err := r.readByte()
	if err != nil {
		return
	}
	if sign != '+' && sign != '-' {
		return Nil, &ParseError{Kind: ErrBadBignum, Offset: r.offset - 1, Detail: "bad sign byte"}
	}
	shorts, err := r.readLength()
	if err != nil {
		return
	}
	if r.MaxBignumShorts > 0 && shorts > r.MaxBignumShorts {
		return Nil, &ParseError{Kind: ErrBadBignum, Offset: r.offset, Detail: "magnitude too large"}
	}
	mag, err := r.readFull(shorts * 2)
	if err != nil {
		return
	}
	return (&RbRef{Type: TypeBignum, Negative: sign == '-', Bytes: mag}).Any(), nil
}

func (r *RbReader) readFloat() (v RbAny, err error) {
	buf, err := r.readByteSeq()
	if err != nil {
		return
	}
	//	legacy streams may carry a C-string: stop at the first NUL and
	//	ignore the rest
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	switch string(buf) {
	case "nan":
		return Float(float32(math.NaN())), nil
	case "inf":
		return Float(float32(math.Inf(1))), nil
	case "-inf":
		return Float(float32(math.Inf(-1))), nil
	}
	f, perr := strconv.ParseFloat(string(buf), 32)
	if perr != nil {
		return Nil, &ParseError{Kind: ErrBadFloat, Offset: r.offset, Detail: string(buf)}
	}
	return Float(float32(f)), nil
}

//	readIvar handles the instance-variable wrapper. A wrapped string is
//	registered in the object table (its bare form is not); a wrapped
//	regex carries its encoding but stays out of the table; any other
//	wrapped value is read normally and unknown attributes merge into its
//	field map when it has one, or are dropped.
func (r *RbReader) readIvar() (v RbAny, err error) {
	tag, err := r.readByte()
	if err != nil {
		return
	}
	switch tag {
	case tagString:
		ref := &RbRef{Type: TypeStr}
		r.register(ref)
		buf, err := r.readByteSeq()
		if err != nil {
			return Nil, err
		}
		ref.Bytes = buf
		enc, err := r.readAttrs(nil)
		if err != nil {
			return Nil, err
		}
		ref.Enc = enc
		return ref.Any(), nil
	case tagRegex:
		source, err := r.readByteSeq()
		if err != nil {
			return Nil, err
		}
		opts, err := r.readByte()
		if err != nil {
			return Nil, err
		}
		enc, err := r.readAttrs(nil)
		if err != nil {
			return Nil, err
		}
		return NewRegex(source, opts, enc).Any(), nil
	}
	inner, err := r.readValueTag(tag)
	if err != nil {
		return
	}
	var obj *RbObject
	if ref, ok := inner.AsRef(); ok && (ref.Type == TypeObject || ref.Type == TypeStruct) {
		obj = ref.Object
	}
	_, err = r.readAttrs(obj)
	if err != nil {
		return Nil, err
	}
	return inner, nil
}

//	readAttrs reads one attribute map. Encoding attributes are decoded
//	and returned; anything else merges into obj when non-nil, else is
//	dropped.
func (r *RbReader) readAttrs(obj *RbObject) (enc Encoding, err error) {
	count, err := r.readLength()
	if err != nil {
		return
	}
	for i := 0; i < count; i++ {
		name, err := r.readSymbol()
		if err != nil {
			return EncRaw, err
		}
		value, err := r.readValue()
		if err != nil {
			return EncRaw, err
		}
		switch name.Name() {
		case attrShortEncoding:
			switch value.Type() {
			case TypeTrue:
				enc = EncUTF8
			case TypeFalse:
				enc = EncASCII
			default:
				return EncRaw, &ParseError{Kind: ErrBadEncoding, Offset: r.offset, Detail: "E attribute not a boolean"}
			}
		case attrEncoding:
			s, ok := value.AsStr()
			if !ok {
				return EncRaw, &ParseError{Kind: ErrBadEncoding, Offset: r.offset, Detail: "encoding attribute not a string"}
			}
			enc = NamedEncoding(s)
		default:
			if obj != nil {
				obj.setSym(name, value)
			} else {
				log.Debugf("dropping attribute %s", name)
			}
		}
	}
	return
}
