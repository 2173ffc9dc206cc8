package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

func TestLoad(t *testing.T) {
	if !assert.Equal(t, unicode.UTF8, Load("UTF-8"), "canonical spelling") {
		return
	}
	if !assert.Equal(t, unicode.UTF8, Load("utf8"), "bare spelling") {
		return
	}
	if !assert.Equal(t, japanese.ShiftJIS, Load("Shift_JIS"), "underscores ignored") {
		return
	}
	if !assert.Equal(t, charmap.ISO8859_1, Load("ISO-8859-1"), "hyphens ignored") {
		return
	}
	if !assert.Equal(t, charmap.ISO8859_1, Load("latin1"), "aliases resolve to the same decoder") {
		return
	}
	if !assert.Nil(t, Load("EBCDIC"), "unknown names resolve to nil") {
		return
	}
	if !assert.Nil(t, Load(""), "so does the empty name") {
		return
	}
}

func TestLoadDecodes(t *testing.T) {
	e := Load("ISO-8859-1")
	if !assert.NotNil(t, e, "Load succeeds") {
		return
	}
	out, err := e.NewDecoder().Bytes([]byte{0xe9})
	if !assert.NoError(t, err, "decoding succeeds") {
		return
	}
	if !assert.Equal(t, "é", string(out), "Latin-1 0xE9 decodes to e-acute") {
		return
	}
}
