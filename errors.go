package thurgood

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies codec failures.
type ErrorKind int

const (
	//	underlying source or sink failure
	ErrIo ErrorKind = iota
	//	stream ended mid-value
	ErrUnexpectedEof
	//	header bytes not 0x04 0x08
	ErrBadVersion
	//	dispatch byte not recognized
	ErrUnknownTag
	//	integer decoder failure
	ErrBadInteger
	//	negative length
	ErrBadLength
	//	float text did not parse
	ErrBadFloat
	//	sign byte not '+'/'-' or truncated magnitude
	ErrBadBignum
	//	symbol or object back-reference out of range
	ErrBadReference
	//	encoding attribute not recognized
	ErrBadEncoding
	//	wrong variant in a position with a fixed type
	ErrTypeMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIo:
		return "Io"
	case ErrUnexpectedEof:
		return "UnexpectedEof"
	case ErrBadVersion:
		return "BadVersion"
	case ErrUnknownTag:
		return "UnknownTag"
	case ErrBadInteger:
		return "BadInteger"
	case ErrBadLength:
		return "BadLength"
	case ErrBadFloat:
		return "BadFloat"
	case ErrBadBignum:
		return "BadBignum"
	case ErrBadReference:
		return "BadReference"
	case ErrBadEncoding:
		return "BadEncoding"
	case ErrTypeMismatch:
		return "TypeMismatch"
	}
	return "Unknown"
}

// ParseError is returned by the reader for any malformed input. Offset
// is the byte position at which the problem was detected, counted from
// the start of the stream; -1 when the failure did not occur during a
// read.
type ParseError struct {
	Kind   ErrorKind
	Offset int64
	//	offending dispatch byte, for ErrUnknownTag
	Tag byte
	//	offending table index, for ErrBadReference
	Index int
	//	detail text: encoding name, float text, mismatch context
	Detail string
	Cause  error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("thurgood: %s at offset %d", e.Kind, e.Offset)
	switch e.Kind {
	case ErrUnknownTag:
		msg = fmt.Sprintf("%s: tag 0x%02x", msg, e.Tag)
	case ErrBadReference:
		msg = fmt.Sprintf("%s: %s index %d", msg, e.Detail, e.Index)
	default:
		if e.Detail != "" {
			msg = msg + ": " + e.Detail
		}
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// WriteError is returned by the writer for sink failures and
// unrepresentable values.
type WriteError struct {
	Kind  ErrorKind
	Cause error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("thurgood: write %s: %s", e.Kind, e.Cause.Error())
	}
	return fmt.Sprintf("thurgood: write %s", e.Kind)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

func badEncodingErr(name string) *ParseError {
	return &ParseError{Kind: ErrBadEncoding, Offset: -1, Detail: name}
}

func sinkErr(err error) *WriteError {
	return &WriteError{Kind: ErrIo, Cause: errors.Wrap(err, "sink")}
}
