package thurgood

import "math/big"

// RbRef is a boxed node. The pointer itself is the shared handle: two
// positions in a tree holding the same *RbRef were, or will be on the
// wire, the same object. Which fields are meaningful depends on Type.
type RbRef struct {
	Type RbType
	//	Str data, UserData payload, Regex source, or the Bignum
	//	magnitude in little-endian order padded to 16-bit units
	Bytes []byte
	//	encoding tag for Str and Regex
	Enc Encoding
	//	Array elements
	Items []RbAny
	//	Hash contents
	Hash *RbHash
	//	Object and Struct contents
	Object *RbObject
	//	class name for Class, Module, ClassOrModule, UserData and
	//	UserMarshal; the mixed-in module for Extended
	Name *RbSymbol
	//	wrapped value for UserMarshal and Extended
	Inner RbAny
	//	Regex option bits
	RegexOpts byte
	//	Bignum sign
	Negative bool
}

// Any wraps the node in an RbAny handle.
func (r *RbRef) Any() RbAny {
	return RbAny{typ: r.Type, ref: r}
}

//	linkable reports whether this node occupies an object-table slot.
//	Strings are linkable only when they carry an encoding tag, since only
//	then are they instance-variable wrapped on the wire.
func (r *RbRef) linkable() bool {
	if r.Type == TypeStr {
		return r.Enc.Kind != EncodingRaw
	}
	return r.Type.linkable()
}

// NewStr returns a UTF-8 tagged string node. A string that is not valid
// UTF-8 gets no encoding tag.
func NewStr(s string) *RbRef {
	return &RbRef{Type: TypeStr, Bytes: []byte(s), Enc: guessEncoding(s)}
}

// NewRawStr returns a string node with no encoding tag.
func NewRawStr(b []byte) *RbRef {
	return &RbRef{Type: TypeStr, Bytes: b}
}

// NewStrEncoding returns a string node with an explicit encoding tag.
func NewStrEncoding(b []byte, enc Encoding) *RbRef {
	return &RbRef{Type: TypeStr, Bytes: b, Enc: enc}
}

// Text returns the string or regex content transcoded to UTF-8
// according to its encoding tag.
func (r *RbRef) Text() (s string, err error) {
	if r.Type != TypeStr && r.Type != TypeRegex {
		return "", &ParseError{Kind: ErrTypeMismatch, Offset: -1, Detail: "Text on " + r.Type.String()}
	}
	return r.Enc.Text(r.Bytes)
}

// NewArray returns an array node holding the given elements.
func NewArray(items ...RbAny) *RbRef {
	if items == nil {
		items = []RbAny{}
	}
	return &RbRef{Type: TypeArray, Items: items}
}

// NewHashRef boxes a hash.
func NewHashRef(h *RbHash) *RbRef {
	return &RbRef{Type: TypeHash, Hash: h}
}

// NewObjectRef boxes an object.
func NewObjectRef(o *RbObject) *RbRef {
	return &RbRef{Type: TypeObject, Object: o}
}

// NewStructRef boxes an object payload as a struct-kind node.
func NewStructRef(o *RbObject) *RbRef {
	return &RbRef{Type: TypeStruct, Object: o}
}

// NewUserData returns a node for a class that serializes itself to an
// opaque byte payload.
func NewUserData(class string, data []byte) *RbRef {
	return &RbRef{Type: TypeUserData, Name: NewSymbol(class), Bytes: data}
}

// NewUserMarshal returns a node for a class with a value-form marshal
// hook.
func NewUserMarshal(class string, inner RbAny) *RbRef {
	return &RbRef{Type: TypeUserMarshal, Name: NewSymbol(class), Inner: inner}
}

// NewExtended wraps a value that had a module mixed in.
func NewExtended(module string, object RbAny) *RbRef {
	return &RbRef{Type: TypeExtended, Name: NewSymbol(module), Inner: object}
}

// NewRegex returns a regex literal node.
func NewRegex(source []byte, options byte, enc Encoding) *RbRef {
	return &RbRef{Type: TypeRegex, Bytes: source, RegexOpts: options, Enc: enc}
}

// NewClass returns a class-reference node.
func NewClass(name string) *RbRef {
	return &RbRef{Type: TypeClass, Name: NewSymbol(name)}
}

// NewModule returns a module-reference node.
func NewModule(name string) *RbRef {
	return &RbRef{Type: TypeModule, Name: NewSymbol(name)}
}

// NewClassOrModule returns a node for the legacy tag that does not
// distinguish classes from modules.
func NewClassOrModule(name string) *RbRef {
	return &RbRef{Type: TypeClassOrModule, Name: NewSymbol(name)}
}

// NewBignum returns an arbitrary-precision integer node. The magnitude
// is little-endian and is padded with a high zero byte if its length is
// odd, matching the wire's length-in-shorts framing.
func NewBignum(negative bool, magnitude []byte) *RbRef {
	if len(magnitude)%2 == 1 {
		magnitude = append(append([]byte{}, magnitude...), 0)
	}
	return &RbRef{Type: TypeBignum, Negative: negative, Bytes: magnitude}
}

// NewBignumFromBig converts a math/big integer.
func NewBignumFromBig(v *big.Int) *RbRef {
	be := v.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return NewBignum(v.Sign() < 0, le)
}

// Big converts a Bignum node to a math/big integer.
func (r *RbRef) Big() (v *big.Int, ok bool) {
	if r.Type != TypeBignum {
		return nil, false
	}
	be := make([]byte, len(r.Bytes))
	for i, b := range r.Bytes {
		be[len(r.Bytes)-1-i] = b
	}
	v = new(big.Int).SetBytes(be)
	if r.Negative {
		v.Neg(v)
	}
	return v, true
}

// RbField is one named slot of an object or struct.
type RbField struct {
	Name  *RbSymbol
	Value RbAny
}

// RbObject is the payload of a regular object or struct: its class
// symbol and an insertion-ordered field list.
type RbObject struct {
	Class  *RbSymbol
	Fields []RbField
}

// NewObject builds an object payload with the given class and fields.
func NewObject(class string, fields ...RbField) *RbObject {
	return &RbObject{Class: NewSymbol(class), Fields: fields}
}

// Field is a convenience constructor for one object field.
func Field(name string, value RbAny) RbField {
	return RbField{Name: NewSymbol(name), Value: value}
}

// Set inserts or replaces a field. An existing name keeps its position.
func (o *RbObject) Set(name string, value RbAny) {
	o.setSym(NewSymbol(name), value)
}

func (o *RbObject) setSym(name *RbSymbol, value RbAny) {
	for i := range o.Fields {
		if o.Fields[i].Name.Equal(name) {
			o.Fields[i].Value = value
			return
		}
	}
	o.Fields = append(o.Fields, RbField{Name: name, Value: value})
}

// Get returns the value of the named field and whether it exists.
func (o *RbObject) Get(name string) (value RbAny, ok bool) {
	for i := range o.Fields {
		if string(o.Fields[i].Name.name) == name {
			return o.Fields[i].Value, true
		}
	}
	return Nil, false
}

// Any boxes the payload as a regular object value.
func (o *RbObject) Any() RbAny {
	return NewObjectRef(o).Any()
}
