package thurgood

import (
	"strings"
	"unicode/utf8"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// EncodingKind distinguishes how a string or regex is tagged on the wire.
type EncodingKind int

const (
	//	no encoding attribute; the value round-trips as a bare string
	EncodingRaw EncodingKind = iota
	//	E => true
	EncodingUTF8
	//	E => false
	EncodingASCII
	//	encoding => "<name>"
	EncodingNamed
)

// Encoding is the encoding tag attached to Str and Regex values.
type Encoding struct {
	Kind EncodingKind
	//	Name is set only for EncodingNamed.
	Name string
}

var (
	EncRaw   = Encoding{Kind: EncodingRaw}
	EncUTF8  = Encoding{Kind: EncodingUTF8}
	EncASCII = Encoding{Kind: EncodingASCII}
)

// NamedEncoding returns the tag for an arbitrary named encoding, e.g.
// "Windows-1252" or "Shift_JIS".
func NamedEncoding(name string) Encoding {
	return Encoding{Kind: EncodingNamed, Name: name}
}

func (e Encoding) String() string {
	switch e.Kind {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingASCII:
		return "US-ASCII"
	case EncodingNamed:
		return e.Name
	}
	return "ASCII-8BIT"
}

//	rubyAliases maps encoding names Ruby uses that the IANA index does
//	not know under the same spelling.
var rubyAliases = map[string]string{
	"WINDOWS-31J": "Shift_JIS",
	"CP932":       "Shift_JIS",
	"EUCJP":       "EUC-JP",
}

//	decoder resolves the tag to a byte-to-UTF-8 transformer. Raw bytes
//	and ASCII need no transformation and return nil.
func (e Encoding) decoder() (dec *xencoding.Decoder, err error) {
	switch e.Kind {
	case EncodingRaw, EncodingASCII:
		return nil, nil
	case EncodingUTF8:
		return unicode.UTF8.NewDecoder(), nil
	}
	name := e.Name
	if alias, ok := rubyAliases[strings.ToUpper(name)]; ok {
		name = alias
	}
	switch strings.ToUpper(name) {
	case "ASCII-8BIT", "BINARY":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, badEncodingErr(e.Name)
	}
	return enc.NewDecoder(), nil
}

// Text decodes b to a UTF-8 Go string according to the tag. Raw and
// US-ASCII bytes pass through unchanged; named encodings are resolved
// through the IANA index. An unknown name yields a BadEncoding error.
func (e Encoding) Text(b []byte) (s string, err error) {
	dec, err := e.decoder()
	if err != nil {
		return
	}
	if dec == nil {
		return string(b), nil
	}
	out, err := dec.Bytes(b)
	if err != nil {
		return "", badEncodingErr(e.Name)
	}
	return string(out), nil
}

//	guessEncoding picks the tag NewStr attaches to a string built from a
//	host string: UTF-8 for any valid UTF-8 text, plain ASCII included,
//	since Ruby's default source encoding tags literals as UTF-8; no tag
//	(raw) when s is not valid UTF-8.
func guessEncoding(s string) Encoding {
	if utf8.ValidString(s) {
		return EncUTF8
	}
	return EncRaw
}
