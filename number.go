package thurgood

//	The format's single integer encoding, used for Int values and for
//	every length prefix. Signed magnitude, variable length:
//
//	  0x00                  zero
//	  0x06..0x7f            value - 5 (small positives)
//	  0x80..0xfa (signed)   value + 5 (small negatives)
//	  0x01..0x04            that many little-endian magnitude bytes follow
//	  0xff..0xfc (signed)   that many bytes follow, sign-extended with 0xff

//	appendLong encodes v in the shortest legal form.
func appendLong(dst []byte, v int32) []byte {
	if v == 0 {
		return append(dst, 0)
	}
	if v > 0 && v < 123 {
		return append(dst, byte(v+5))
	}
	if v < 0 && v > -124 {
		return append(dst, byte(int8(v-5)))
	}
	var buf [5]byte
	x := v
	n := 0
	for i := 1; i <= 4; i++ {
		buf[i] = byte(x & 0xff)
		x >>= 8
		if x == 0 {
			buf[0] = byte(i)
			n = i
			break
		}
		if x == -1 {
			buf[0] = byte(int8(-int8(i)))
			n = i
			break
		}
	}
	return append(dst, buf[:n+1]...)
}

//	readLong decodes one integer from the stream.
func (r *RbReader) readLong() (v int32, err error) {
	c, err := r.readByte()
	if err != nil {
		return
	}
	sc := int8(c)
	switch {
	case sc == 0:
		return 0, nil
	case sc > 4:
		return int32(sc) - 5, nil
	case sc > 0:
		var x int64
		for i := 0; i < int(sc); i++ {
			b, err := r.readByte()
			if err != nil {
				return 0, err
			}
			x |= int64(b) << (8 * uint(i))
		}
		if x > maxInt32 {
			return 0, &ParseError{Kind: ErrBadInteger, Offset: r.offset, Detail: "positive overflow"}
		}
		return int32(x), nil
	case sc < -4:
		return int32(sc) + 5, nil
	default:
		n := int(-sc)
		x := int64(-1)
		for i := 0; i < n; i++ {
			b, err := r.readByte()
			if err != nil {
				return 0, err
			}
			shift := 8 * uint(i)
			x &^= int64(0xff) << shift
			x |= int64(b) << shift
		}
		if x < minInt32 {
			return 0, &ParseError{Kind: ErrBadInteger, Offset: r.offset, Detail: "negative overflow"}
		}
		return int32(x), nil
	}
}

const (
	maxInt32 = int64(1)<<31 - 1
	minInt32 = -int64(1) << 31
)

//	readLength decodes a length prefix; negative values are illegal.
func (r *RbReader) readLength() (n int, err error) {
	v, err := r.readLong()
	if err != nil {
		return
	}
	if v < 0 {
		return 0, &ParseError{Kind: ErrBadLength, Offset: r.offset, Detail: "negative length"}
	}
	return int(v), nil
}
