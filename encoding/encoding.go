// Package encoding maps charset names found in XML declarations to
// golang.org/x/text decoders. It exists so the parser does not have to
// deal with the x/text package layout (and the stdlib name clashes)
// directly.
package encoding

import (
	"strings"

	enc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

var registry = map[string]enc.Encoding{
	"utf8":        unicode.UTF8,
	"utf16":       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"iso88591":    charmap.ISO8859_1,
	"iso88592":    charmap.ISO8859_2,
	"iso88595":    charmap.ISO8859_5,
	"iso885915":   charmap.ISO8859_15,
	"latin1":      charmap.ISO8859_1,
	"windows1250": charmap.Windows1250,
	"windows1251": charmap.Windows1251,
	"windows1252": charmap.Windows1252,
	"cp1252":      charmap.Windows1252,
	"koi8r":       charmap.KOI8R,
	"eucjp":       japanese.EUCJP,
	"shiftjis":    japanese.ShiftJIS,
	"cp932":       japanese.ShiftJIS,
	"iso2022jp":   japanese.ISO2022JP,
	"euckr":       korean.EUCKR,
	"gbk":         simplifiedchinese.GBK,
	"gb18030":     simplifiedchinese.GB18030,
}

// Load resolves a charset name to its decoder, or nil when the name is
// unknown. Lookup is case-insensitive and ignores '-' and '_', so
// "UTF-8", "utf8" and "Shift_JIS" all resolve.
func Load(name string) enc.Encoding {
	key := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(name))
	return registry[key]
}
