package thurgood

import "testing"

func TestHashSetReplacesInPlace(t *testing.T) {
	h := NewHash()
	h.Set(Sym("a"), Int(1))
	h.Set(Sym("b"), Int(2))
	h.Set(Sym("a"), Int(3))
	if h.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.Len())
	}
	if !h.Pairs[0].Key.Equal(Sym("a")) || !h.Pairs[0].Value.Equal(Int(3)) {
		t.Fatal("replaced key must keep its position")
	}
	if !h.Pairs[1].Key.Equal(Sym("b")) {
		t.Fatal("entry order changed")
	}
}

func TestHashGet(t *testing.T) {
	h := HashFromPairs(
		RbPair{Key: Str("k"), Value: Int(7)},
	)
	v, ok := h.Get(Str("k"))
	if !ok || !v.Equal(Int(7)) {
		t.Fatal("expected to find the structural key")
	}
	if _, ok := h.Get(Str("missing")); ok {
		t.Fatal("unexpected hit")
	}
}

func TestHashDefaultEquality(t *testing.T) {
	a := NewHash()
	b := NewHash()
	if !a.Any().Equal(b.Any()) {
		t.Fatal("empty hashes must be equal")
	}
	a.SetDefault(Int(1))
	if a.Any().Equal(b.Any()) {
		t.Fatal("a default value must break equality")
	}
	b.SetDefault(Int(1))
	if !a.Any().Equal(b.Any()) {
		t.Fatal("same default must restore equality")
	}
}
