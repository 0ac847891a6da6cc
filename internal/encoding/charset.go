// Package encoding normalizes uploaded text (company scope tables, legacy
// project exports) to UTF-8. Spreadsheets saved from Excel on Windows are
// frequently Windows-1252, so the charset is sniffed instead of assumed.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

// Charset names reported by Decode.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO8859_9   = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset string
	strip   bool
	decoder encoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8, true, nil},
	{[]byte{0xFF, 0xFE}, UTF16LE, false, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{[]byte{0xFE, 0xFF}, UTF16BE, false, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// detected maps chardet results to decoders. UTF-8 needs none.
var detected = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// Decode sniffs the charset of r and returns a reader producing UTF-8 along
// with the name of the charset it decided on. A byte order mark wins over
// content sniffing; content that is not valid UTF-8 and that chardet cannot
// place is read as Windows-1252.
func Decode(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(head, bom.prefix) {
			continue
		}

		if bom.strip {
			_, _ = br.Discard(len(bom.prefix))
			return br, bom.charset, nil
		}

		return transform.NewReader(br, bom.decoder.NewDecoder()), bom.charset, nil
	}

	if utf8.Valid(head) {
		return br, UTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if result.Charset == UTF8 {
			return br, UTF8, nil
		}

		if enc, ok := detected[result.Charset]; ok {
			return transform.NewReader(br, enc.NewDecoder()), result.Charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), Windows1252, nil
}

// NewUTF8Reader is Decode without the charset name.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}
