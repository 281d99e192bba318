package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const hexBytesPerRow = 16

// hexDump renders b as offset, hex columns, and a text column. The text
// column decodes each byte as Windows-1252 so single-byte records read as
// text instead of mojibake.
func hexDump(b []byte) string {
	var sb strings.Builder
	for off := 0; off < len(b); off += hexBytesPerRow {
		end := off + hexBytesPerRow
		if end > len(b) {
			end = len(b)
		}
		row := b[off:end]

		fmt.Fprintf(&sb, "%08x  ", off)
		for i := 0; i < hexBytesPerRow; i++ {
			if i == hexBytesPerRow/2 {
				sb.WriteByte(' ')
			}
			if i < len(row) {
				fmt.Fprintf(&sb, "%02x ", row[i])
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString(" |")
		for _, c := range row {
			sb.WriteRune(previewRune(c))
		}
		sb.WriteString("|\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// previewRune maps one payload byte to its text-column rune, or '.' when the
// byte has no printable Windows-1252 decoding.
func previewRune(c byte) rune {
	r := charmap.Windows1252.DecodeByte(c)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return '.'
	}
	return r
}
