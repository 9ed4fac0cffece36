package mysqlcore

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// collations maps a collation name to its MySQL-assigned numeric id, used
// to encode the handshake response's single-byte default charset (spec
// §4.10, §6). The table covers the collations in common production use;
// an unrecognized name is a configuration error surfaced at Connect time
// rather than a wire-protocol concern. Collations whose id does not fit in
// one byte (utf8mb4_0900_bin, 309, for example) are not listed.
var collations = map[string]byte{
	"big5_chinese_ci":      1,
	"latin1_swedish_ci":     8,
	"ascii_general_ci":      11,
	"latin1_general_ci":     48,
	"latin1_bin":            47,
	"utf8_general_ci":       33,
	"utf8_unicode_ci":       192,
	"utf8_bin":              83,
	"utf8mb4_general_ci":    45,
	"utf8mb4_unicode_ci":    224,
	"utf8mb4_bin":           46,
	"utf8mb4_0900_ai_ci":    255,
	"binary":                63,
	"gbk_chinese_ci":        28,
	"cp1251_general_ci":     51,
	"koi8r_general_ci":      7,
	"sjis_japanese_ci":      13,
	"ujis_japanese_ci":      12,
}

// collationID looks up the numeric id for name, falling back to
// defaultCollation when name is empty.
func collationID(name string) (byte, bool) {
	if name == "" {
		name = defaultCollation
	}
	id, ok := collations[name]
	return id, ok
}

// textEncodings maps the non-UTF8 collations this module might see on
// the wire to a golang.org/x/text decoder, so diagnostic text (ERR
// packet messages) surfaced to callers or a Logger is always valid UTF-8
// regardless of the session's negotiated charset (spec §4.11).
var textEncodings = map[byte]encoding.Encoding{
	1:  traditionalchinese.Big5,
	28: simplifiedchinese.GBK,
	51: charmap.Windows1251,
	7:  charmap.KOI8R,
	13: japanese.ShiftJIS,
	12: japanese.EUCJP,
}

// normalizeDiagnosticText decodes b from the connection's negotiated
// collation into UTF-8. utf8/utf8mb4/ascii/binary collations, and any
// collation this table doesn't recognize, pass through unchanged.
func normalizeDiagnosticText(b []byte, collation byte) string {
	enc, ok := textEncodings[collation]
	if !ok {
		return string(b)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
