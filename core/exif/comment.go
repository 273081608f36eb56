package exif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// UserCommentTag is the Exif UserComment tag. Its value starts with an
// 8-byte character code naming the encoding of the text that follows.
const UserCommentTag uint16 = 0x9286

var (
	codeASCII     = []byte("ASCII\x00\x00\x00")
	codeUnicode   = []byte("UNICODE\x00")
	codeUndefined = make([]byte, 8)
)

func utf16(order binary.ByteOrder) encoding.Encoding {
	if order == binary.LittleEndian {
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
}

// EncodeComment returns text as a UserComment value. Plain ASCII text is
// written with the ASCII character code, anything else as UTF-16 in the
// document's byte order.
func EncodeComment(text string, order binary.ByteOrder) (Undefined, error) {
	if isASCII(text) {
		return Undefined(append(append([]byte(nil), codeASCII...), text...)), nil
	}
	body, err := utf16(order).NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("UserComment: %w", err)
	}
	return Undefined(append(append([]byte(nil), codeUnicode...), body...)), nil
}

// DecodeComment returns the text of a UserComment value. ok is false when
// the value is too short or uses a character code other than ASCII,
// UNICODE or the all-zero undefined code.
func DecodeComment(v Undefined, order binary.ByteOrder) (text string, ok bool) {
	if len(v) < len(codeASCII) {
		return "", false
	}
	code, body := []byte(v[:8]), []byte(v[8:])
	switch {
	case bytes.Equal(code, codeASCII), bytes.Equal(code, codeUndefined):
		return strings.TrimRight(string(body), "\x00 "), true
	case bytes.Equal(code, codeUnicode):
		out, err := utf16(order).NewDecoder().Bytes(body)
		if err != nil {
			return "", false
		}
		return strings.TrimRight(string(out), "\x00 "), true
	}
	return "", false
}

// Text renders the value of tag in directory ns for display. UserComment
// is shown without its character code; everything else goes through
// Format.
func (d *Document) Text(ns tags.Namespace, tag uint16, v Value) string {
	if u, ok := v.(Undefined); ok && ns == tags.Exif && tag == UserCommentTag {
		if text, ok := DecodeComment(u, d.Order); ok {
			return text
		}
	}
	return Format(v)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
