// Package encoding turns SMS bodies and backup exports of unknown charset into UTF-8 text.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charsets reported by Detect.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88599    = "ISO-8859-9"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

var decoders = map[string]xencoding.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252: charmap.Windows1252,
	ISO88599:    charmap.ISO8859_9,
}

// Windows-1252 is a superset of Latin-1 for every printable byte.
var aliases = map[string]string{
	"ISO-8859-1": Windows1252,
}

// Detect sniffs the charset of r and returns it with a reader that yields UTF-8.
//
// A byte order mark wins. Otherwise valid UTF-8 passes through untouched, chardet gets a
// guess, and anything it cannot name is read as Windows-1252, which older phone backup
// tools default to.
func Detect(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", nil, fmt.Errorf("peek: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(buf, bom.prefix) {
			continue
		}

		if bom.charset == UTF8 {
			_, _ = br.Discard(len(bom.prefix))
			return UTF8, br, nil
		}

		return bom.charset, transform.NewReader(br, decoders[bom.charset].NewDecoder()), nil
	}

	if validUTF8Prefix(buf) {
		return UTF8, br, nil
	}

	charset := Windows1252

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == UTF8 {
			return UTF8, br, nil
		}

		name := result.Charset
		if alias, ok := aliases[name]; ok {
			name = alias
		}

		if _, ok := decoders[name]; ok {
			charset = name
		}
	}

	return charset, transform.NewReader(br, decoders[charset].NewDecoder()), nil
}

// NewUTF8Reader is Detect without the charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	_, utf8r, err := Detect(r)
	return utf8r, err
}

// validUTF8Prefix reports whether buf is UTF-8, ignoring a rune cut off by the sniff window.
func validUTF8Prefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	if len(buf) < sniffLen {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}
