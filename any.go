package thurgood

import "bytes"

// RbAny is a single value of the marshal format. Scalar variants (nil,
// booleans, integers, floats, symbols) are stored inline; every other
// variant lives behind a shared *RbRef handle so that multiple positions
// in a tree can alias the same node.
type RbAny struct {
	typ RbType
	num int32
	flt float32
	sym *RbSymbol
	ref *RbRef
}

var (
	Nil   = RbAny{typ: TypeNil}
	True  = RbAny{typ: TypeTrue}
	False = RbAny{typ: TypeFalse}
)

// Int returns an integer value.
func Int(v int32) RbAny {
	return RbAny{typ: TypeInt, num: v}
}

// Float returns a float value.
func Float(v float32) RbAny {
	return RbAny{typ: TypeFloat, flt: v}
}

// Bool returns True or False.
func Bool(v bool) RbAny {
	if v {
		return True
	}
	return False
}

// Sym returns a symbol value with the given name.
func Sym(name string) RbAny {
	return NewSymbol(name).Any()
}

// Str returns a boxed UTF-8 tagged string value; see NewStr for input
// that is not valid UTF-8.
func Str(s string) RbAny {
	return NewStr(s).Any()
}

// RawStr returns a boxed string value with no encoding tag.
func RawStr(b []byte) RbAny {
	return NewRawStr(b).Any()
}

// Type returns the variant kind. Boxed values report the kind of the
// node behind the handle.
func (a RbAny) Type() RbType {
	if a.ref != nil {
		return a.ref.Type
	}
	return a.typ
}

// IsNil reports whether the value is nil.
func (a RbAny) IsNil() bool {
	return a.Type() == TypeNil
}

// AsBool returns the boolean content, if any.
func (a RbAny) AsBool() (v bool, ok bool) {
	switch a.typ {
	case TypeTrue:
		return true, true
	case TypeFalse:
		return false, true
	}
	return false, false
}

// AsInt returns the integer content, if any.
func (a RbAny) AsInt() (v int32, ok bool) {
	if a.typ == TypeInt {
		return a.num, true
	}
	return 0, false
}

// AsFloat returns the float content, if any.
func (a RbAny) AsFloat() (v float32, ok bool) {
	if a.typ == TypeFloat {
		return a.flt, true
	}
	return 0, false
}

// AsSymbol returns the symbol content, if any.
func (a RbAny) AsSymbol() (sym *RbSymbol, ok bool) {
	if a.typ == TypeSymbol {
		return a.sym, true
	}
	return nil, false
}

// AsRef returns the boxed node handle, if the value is boxed.
func (a RbAny) AsRef() (ref *RbRef, ok bool) {
	if a.ref != nil {
		return a.ref, true
	}
	return nil, false
}

// AsStr returns the raw bytes of a string value as a Go string.
func (a RbAny) AsStr() (s string, ok bool) {
	if a.ref != nil && a.ref.Type == TypeStr {
		return string(a.ref.Bytes), true
	}
	return "", false
}

// AsArray returns the elements of an array value.
func (a RbAny) AsArray() (items []RbAny, ok bool) {
	if a.ref != nil && a.ref.Type == TypeArray {
		return a.ref.Items, true
	}
	return nil, false
}

// AsHash returns the hash content, if any.
func (a RbAny) AsHash() (h *RbHash, ok bool) {
	if a.ref != nil && a.ref.Type == TypeHash {
		return a.ref.Hash, true
	}
	return nil, false
}

// AsObject returns the object or struct content, if any.
func (a RbAny) AsObject() (o *RbObject, ok bool) {
	if a.ref != nil && (a.ref.Type == TypeObject || a.ref.Type == TypeStruct) {
		return a.ref.Object, true
	}
	return nil, false
}

type refPair [2]*RbRef

// Equal reports structural equality: variants match and contents are
// recursively equal. Aliased handles are not required to be the same
// pointer. Cyclic graphs terminate; a pair of nodes already under
// comparison is treated as equal.
func (a RbAny) Equal(b RbAny) bool {
	return eqAny(a, b, map[refPair]bool{})
}

func eqAny(a, b RbAny, seen map[refPair]bool) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case TypeNil, TypeTrue, TypeFalse:
		return true
	case TypeInt:
		return a.num == b.num
	case TypeFloat:
		//	NaN compares equal to itself so that round-tripped
		//	trees remain equal
		return a.flt == b.flt || (a.flt != a.flt && b.flt != b.flt)
	case TypeSymbol:
		return a.sym.Equal(b.sym)
	}
	return eqRef(a.ref, b.ref, seen)
}

func eqRef(a, b *RbRef, seen map[refPair]bool) bool {
	if a == b {
		return true
	}
	pair := refPair{a, b}
	if seen[pair] {
		return true
	}
	seen[pair] = true
	switch a.Type {
	case TypeStr:
		return a.Enc == b.Enc && bytes.Equal(a.Bytes, b.Bytes)
	case TypeArray:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !eqAny(a.Items[i], b.Items[i], seen) {
				return false
			}
		}
		return true
	case TypeHash:
		return eqHash(a.Hash, b.Hash, seen)
	case TypeObject, TypeStruct:
		return eqObject(a.Object, b.Object, seen)
	case TypeUserData:
		return a.Name.Equal(b.Name) && bytes.Equal(a.Bytes, b.Bytes)
	case TypeUserMarshal, TypeExtended:
		return a.Name.Equal(b.Name) && eqAny(a.Inner, b.Inner, seen)
	case TypeRegex:
		return a.RegexOpts == b.RegexOpts && a.Enc == b.Enc && bytes.Equal(a.Bytes, b.Bytes)
	case TypeClass, TypeModule, TypeClassOrModule:
		return a.Name.Equal(b.Name)
	case TypeBignum:
		return a.Negative == b.Negative && bytes.Equal(a.Bytes, b.Bytes)
	}
	return false
}

func eqHash(a, b *RbHash, seen map[refPair]bool) bool {
	if len(a.Pairs) != len(b.Pairs) {
		return false
	}
	if (a.Default == nil) != (b.Default == nil) {
		return false
	}
	if a.Default != nil && !eqAny(*a.Default, *b.Default, seen) {
		return false
	}
	for i := range a.Pairs {
		if !eqAny(a.Pairs[i].Key, b.Pairs[i].Key, seen) {
			return false
		}
		if !eqAny(a.Pairs[i].Value, b.Pairs[i].Value, seen) {
			return false
		}
	}
	return true
}

func eqObject(a, b *RbObject, seen map[refPair]bool) bool {
	if !a.Class.Equal(b.Class) {
		return false
	}
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if !a.Fields[i].Name.Equal(b.Fields[i].Name) {
			return false
		}
		if !eqAny(a.Fields[i].Value, b.Fields[i].Value, seen) {
			return false
		}
	}
	return true
}
