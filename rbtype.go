package thurgood

// RbType identifies the variant held by an RbAny or RbRef.
type RbType int

const (
	TypeNil RbType = iota
	TypeTrue
	TypeFalse
	TypeInt
	TypeFloat
	TypeSymbol
	TypeStr
	TypeArray
	TypeHash
	TypeObject
	TypeUserData
	TypeUserMarshal
	TypeExtended
	TypeRegex
	TypeClass
	TypeModule
	TypeClassOrModule
	TypeStruct
	TypeBignum
)

func (t RbType) String() string {
	switch t {
	case TypeNil:
		return "Nil"
	case TypeTrue:
		return "True"
	case TypeFalse:
		return "False"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeSymbol:
		return "Symbol"
	case TypeStr:
		return "Str"
	case TypeArray:
		return "Array"
	case TypeHash:
		return "Hash"
	case TypeObject:
		return "Object"
	case TypeUserData:
		return "UserData"
	case TypeUserMarshal:
		return "UserMarshal"
	case TypeExtended:
		return "Extended"
	case TypeRegex:
		return "Regex"
	case TypeClass:
		return "Class"
	case TypeModule:
		return "Module"
	case TypeClassOrModule:
		return "ClassOrModule"
	case TypeStruct:
		return "Struct"
	case TypeBignum:
		return "Bignum"
	}
	return "Unknown"
}

//	linkable reports whether values of this type occupy a slot in the
//	object back-reference table. Bare strings are handled separately by
//	the reader and writer: a string is linkable only when it carries an
//	encoding attribute and is therefore instance-variable wrapped on the
//	wire.
func (t RbType) linkable() bool {
	switch t {
	case TypeArray, TypeHash, TypeObject, TypeStruct, TypeUserData, TypeUserMarshal, TypeExtended:
		return true
	}
	return false
}
