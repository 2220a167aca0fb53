package thurgood

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

//	write-after-read must reproduce the input byte for byte for each of
//	these streams; NUL-padded floats normalize (tested below), and
//	instance-variable attributes other than encoding tags are not kept.
func TestWriteAfterRead(t *testing.T) {
	streams := []string{
		"\x04\x08[\x07I\"\ttest\x06:\x06ET{\x06:\x06aI\"\x06b\x06;\x00T",
		"\x04\x08[\x07o:\x08Foo\x07:\n@nameI\"\tJack\x06:\x06ET:\t@agei\x1Eo;\x00\x07;\x06I\"\tJane\x06;\x07T;\x08i\x1D",
		"\x04\x08{\x07:\x07aao:\x0EBar::BazA\x00:\x07bbo:\x0EBar::BazB\x00",
		"\x04\x08[\no:\x08Foo\x07:\n@nameI\"\tJack\x06:\x06ET:\t@agei\x1E@\x06{\x06:\x08key@\x06o;\x00\x07;\x06I\"\tJane\x06;\x07T;\x08i\x1D@\t",
		"\x04\x08[\x07[\x06I\"\tTest\x06:\x06ET@\x06",
		"\x04\x08e:\x08Bar[\x00",
		"\x04\x080",
		"\x04\x08T",
		"\x04\x08F",
		"\x04\x08i\x00",
		"\x04\x08:\x08abc",
		"\x04\x08\"\x07ab",
		"\x04\x08[\x00",
		"\x04\x08{\x00",
		"\x04\x08}\x00i\x06",
		"\x04\x08u:\x08Foo\x08abc",
		"\x04\x08U:\x08Foo[\x00",
		"\x04\x08c\x08Foo",
		"\x04\x08m\x08Bar",
		"\x04\x08M\x08Baz",
		"\x04\x08/\x08abc\x01",
		"\x04\x08I/\x08abc\x00\x06:\x06ET",
		"\x04\x08l+\x07\x00\x00\x00\x80",
		"\x04\x08l-\x08\x01\x00\x00\x00\x00\x00",
		"\x04\x08S:\x08Xyz\x06:\x06aT",
		"\x04\x08I\"\x06b\x06:\rencoding\"\x11Windows-1252",
	}
	for _, s := range streams {
		v, err := Unmarshal([]byte(s))
		require.NoError(t, err, "stream %q", s)
		out, err := Marshal(v)
		require.NoError(t, err, "stream %q", s)
		require.Equal(t, []byte(s), out, "stream %q", s)
	}
}

func TestWriteAfterReadNormalizesFloats(t *testing.T) {
	inp := "\x04\x08[\x07f\r0.123\x00NOf\n1.234"
	exp := "\x04\x08[\x07f\n0.123f\n1.234"
	v, err := Unmarshal([]byte(inp))
	require.NoError(t, err)
	out, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, []byte(exp), out)
}

//	read-after-write must yield a structurally equal value for every
//	value the model can express.
func TestReadAfterWrite(t *testing.T) {
	values := []RbAny{
		Nil,
		True,
		False,
		Int(0),
		Int(25),
		Int(-124),
		Int(1 << 30),
		Int(-1 << 31),
		Float(0.5),
		Float(-3.25),
		Sym("hello"),
		Str("test"),
		RawStr([]byte{0xff, 0x00, 0x01}),
		NewStrEncoding([]byte("caf\xe9"), NamedEncoding("Windows-1252")).Any(),
		NewArray().Any(),
		NewArray(Int(1), Str("two"), Nil).Any(),
		NewHash().Any(),
		HashFromPairs(
			RbPair{Key: Int(3), Value: Str("c")},
			RbPair{Key: Int(1), Value: Str("a")},
			RbPair{Key: Int(2), Value: Str("b")},
		).Any(),
		NewObject("Point", Field("@x", Int(3)), Field("@y", Int(4))).Any(),
		NewStructRef(NewObject("Pair", Field("first", Int(1)), Field("second", Int(2)))).Any(),
		NewUserData("Blob", []byte{1, 2, 3}).Any(),
		NewUserMarshal("Wrapped", NewArray(Int(9)).Any()).Any(),
		NewExtended("Mixin", NewHash().Any()).Any(),
		NewRegex([]byte("a+b?"), 3, EncUTF8).Any(),
		NewClass("Foo::Bar").Any(),
		NewModule("Enumerable").Any(),
		NewClassOrModule("Comparable").Any(),
		NewBignum(false, []byte{0, 0, 0, 0x80}).Any(),
		NewBignum(true, []byte{0xff, 0xff, 0xff, 0xff, 0x01, 0}).Any(),
	}
	for _, v := range values {
		buf, err := Marshal(v)
		require.NoError(t, err)
		back, err := Unmarshal(buf)
		require.NoError(t, err)
		require.True(t, v.Equal(back), "value %v did not survive the round trip (%q)", v.Type(), buf)
	}
}

func TestRoundTripPreservesHashOrder(t *testing.T) {
	h := NewHash()
	h.Set(Str("z"), Int(1))
	h.Set(Str("a"), Int(2))
	h.Set(Str("m"), Int(3))
	buf, err := Marshal(h.Any())
	require.NoError(t, err)
	back, err := Unmarshal(buf)
	require.NoError(t, err)
	hb, ok := back.AsHash()
	require.True(t, ok)
	keys := []string{}
	for _, pair := range hb.Pairs {
		s, _ := pair.Key.AsStr()
		keys = append(keys, s)
	}
	require.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestRoundTripCyclicObject(t *testing.T) {
	//	an object whose field holds the array containing it
	ref := NewObjectRef(NewObject("Node"))
	arr := NewArray(ref.Any())
	ref.Object.Set("@list", arr.Any())

	buf, err := Marshal(arr.Any())
	require.NoError(t, err)

	back, err := Unmarshal(buf)
	require.NoError(t, err)
	items, ok := back.AsArray()
	require.True(t, ok)
	require.Len(t, items, 1)
	obj, ok := items[0].AsObject()
	require.True(t, ok)
	inner, ok := obj.Get("@list")
	require.True(t, ok)
	innerRef, _ := inner.AsRef()
	backRef, _ := back.AsRef()
	require.True(t, innerRef == backRef, "the cycle must close on the same handle")

	//	and the re-written stream is identical
	again, err := Marshal(back)
	require.NoError(t, err)
	require.Equal(t, buf, again)
}

func TestSharingEmissionCount(t *testing.T) {
	shared := NewArray(Str("s")).Any()
	v := NewArray(shared, shared, shared, shared).Any()
	buf, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, 3, bytes.Count(buf, []byte{tagObjectLink}), "body once, back-references at the other positions")
	back, err := Unmarshal(buf)
	require.NoError(t, err)
	items, _ := back.AsArray()
	first, _ := items[0].AsRef()
	for i := 1; i < 4; i++ {
		ref, _ := items[i].AsRef()
		require.True(t, ref == first)
	}
}

func TestIntBoundariesThroughStream(t *testing.T) {
	for _, v := range []int32{
		0, 1, -1, 122, 123, -123, -124,
		127, 128, 255, 256, -255, -256, -257,
		32767, 32768, 65535, 65536, -65536, -65537,
		1<<24 - 1, 1 << 24, -(1 << 24), -(1<<24 + 1),
		1<<31 - 1, -(1 << 31),
	} {
		buf, err := Marshal(Int(v))
		require.NoError(t, err)
		back, err := Unmarshal(buf)
		require.NoError(t, err)
		got, ok := back.AsInt()
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}
