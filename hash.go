package thurgood

// RbPair is one key/value entry of an RbHash.
type RbPair struct {
	Key   RbAny
	Value RbAny
}

// RbHash is an insertion-ordered mapping from RbAny keys to RbAny
// values, optionally carrying a default value. The wire format preserves
// entry order end-to-end, so the pairs are kept as a slice and lookups
// scan in order.
type RbHash struct {
	Pairs   []RbPair
	Default *RbAny
}

// NewHash returns an empty hash with no default.
func NewHash() *RbHash {
	return &RbHash{}
}

// HashFromPairs builds a hash from the given entries in order.
func HashFromPairs(pairs ...RbPair) *RbHash {
	return &RbHash{Pairs: pairs}
}

// Set inserts or replaces the value for key. A key already present
// (by structural equality) keeps its position; a new key appends.
func (h *RbHash) Set(key, value RbAny) {
	for i := range h.Pairs {
		if h.Pairs[i].Key.Equal(key) {
			h.Pairs[i].Value = value
			return
		}
	}
	h.Pairs = append(h.Pairs, RbPair{Key: key, Value: value})
}

// Get returns the value for key and whether it was present.
func (h *RbHash) Get(key RbAny) (value RbAny, ok bool) {
	for i := range h.Pairs {
		if h.Pairs[i].Key.Equal(key) {
			return h.Pairs[i].Value, true
		}
	}
	return Nil, false
}

// SetDefault sets the hash's default value, switching it to the
// default-carrying wire form.
func (h *RbHash) SetDefault(value RbAny) {
	h.Default = &value
}

// Len returns the number of entries.
func (h *RbHash) Len() int {
	return len(h.Pairs)
}

// Any wraps the hash in a boxed handle.
func (h *RbHash) Any() RbAny {
	return NewHashRef(h).Any()
}
