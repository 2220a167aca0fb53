package thurgood

import (
	"bytes"

	lru "github.com/hashicorp/golang-lru"
)

//	Symbols are interned through a bounded process-wide pool so that
//	decoding many documents with overlapping vocabularies reuses the same
//	backing storage. The pool is an optimization only: equality is always
//	by bytes, never by pointer.
const symbolPoolSize = 4096

var symbolPool, _ = lru.New(symbolPoolSize)

// RbSymbol is an interned identifier name. Two symbols are equal iff
// their bytes are equal.
type RbSymbol struct {
	name []byte
}

// NewSymbol returns the symbol named by s, reusing a pooled instance
// when one exists.
func NewSymbol(s string) *RbSymbol {
	if cached, ok := symbolPool.Get(s); ok {
		return cached.(*RbSymbol)
	}
	sym := &RbSymbol{name: []byte(s)}
	symbolPool.Add(s, sym)
	return sym
}

//	newSymbolBytes interns a symbol read off the wire.
func newSymbolBytes(name []byte) *RbSymbol {
	return NewSymbol(string(name))
}

// Name returns the symbol's name.
func (s *RbSymbol) Name() string {
	return string(s.name)
}

// Bytes returns the symbol's raw name bytes. Callers must not modify
// the returned slice.
func (s *RbSymbol) Bytes() []byte {
	return s.name
}

// Equal reports whether two symbols have the same name.
func (s *RbSymbol) Equal(other *RbSymbol) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return bytes.Equal(s.name, other.name)
}

// Any wraps the symbol as an RbAny value.
func (s *RbSymbol) Any() RbAny {
	return RbAny{typ: TypeSymbol, sym: s}
}

func (s *RbSymbol) String() string {
	return ":" + string(s.name)
}
