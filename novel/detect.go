package novel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
)

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BEBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LEBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

// detectUTF looks for byte order mark only.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BEBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LEBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// decodeText converts raw source to UTF-8. Text with BOM is decoded
// accordingly, valid UTF-8 is taken as is, anything else is expected to be in
// code page cp.
func decodeText(data []byte, cp encoding.Encoding) (string, error) {
	var dec *encoding.Decoder
	switch detectUTF(data) {
	case encUTF8:
		return string(data[3:]), nil
	case encUTF16BigEndian:
		dec = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case encUTF16LittleEndian:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	default:
		if utf8.Valid(data) {
			return string(data), nil
		}
		if cp == nil {
			return "", fmt.Errorf("text is not UTF-8 and no code page was specified")
		}
		dec = cp.NewDecoder()
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("unable to decode text: %w", err)
	}
	return string(out), nil
}

// isArchiveFile checks both extension and content.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// filetype needs at most 262 bytes
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isTextFile decides by extension and makes sure content is not binary.
func isTextFile(name string, head []byte) bool {
	if !strings.EqualFold(filepath.Ext(name), ".txt") {
		return false
	}
	if detectUTF(head) != encUnknown {
		return true
	}
	return bytes.IndexByte(head, 0) < 0
}
