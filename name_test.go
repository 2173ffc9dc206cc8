package argon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	valid := []string{"a", "_a", "a-b", "a.b", "a1", "日本語"}
	for _, s := range valid {
		if !assert.True(t, ValidName(s), "%q is a valid name", s) {
			return
		}
	}
	invalid := []string{"", "1a", "-a", ".a", "a b", "a:b", "@a", "*"}
	for _, s := range invalid {
		if !assert.False(t, ValidName(s), "%q is not a valid name", s) {
			return
		}
	}
}

func TestNameConstructors(t *testing.T) {
	n, err := NewName("a")
	if !assert.NoError(t, err, "NewName succeeds") {
		return
	}
	if !assert.Equal(t, "a", n.LocalName(), "local name") {
		return
	}
	if _, has := n.URI(); !assert.False(t, has, "no URI by default") {
		return
	}

	n, err = NewNameNS("urn:x", "a")
	if !assert.NoError(t, err, "NewNameNS succeeds") {
		return
	}
	uri, has := n.URI()
	if !assert.True(t, has, "URI set") {
		return
	}
	if !assert.Equal(t, "urn:x", uri, "URI value") {
		return
	}

	n, err = NewNamePrefix("p", "urn:x", "a")
	if !assert.NoError(t, err, "NewNamePrefix succeeds") {
		return
	}
	if !assert.Equal(t, "p:a", n.String(), "String renders the prefixed form") {
		return
	}

	_, err = NewName("not valid")
	if !assert.ErrorIs(t, err, ErrInvalidName, "invalid local names are rejected") {
		return
	}
}

func TestNameEqual(t *testing.T) {
	a, err := NewNamePrefix("p", "urn:x", "a")
	if !assert.NoError(t, err, "NewNamePrefix succeeds") {
		return
	}
	b, err := NewNamePrefix("q", "urn:x", "a")
	if !assert.NoError(t, err, "NewNamePrefix succeeds") {
		return
	}
	if !assert.True(t, a.Equal(b), "prefix does not participate in equality") {
		return
	}

	c, err := NewNameNS("urn:y", "a")
	if !assert.NoError(t, err, "NewNameNS succeeds") {
		return
	}
	if !assert.False(t, a.Equal(c), "URI does") {
		return
	}

	d, err := NewNameNS("urn:x", "z")
	if !assert.NoError(t, err, "NewNameNS succeeds") {
		return
	}
	if !assert.False(t, a.Equal(d), "so does the local name") {
		return
	}
}

func TestPatternParsing(t *testing.T) {
	pat, err := parsePattern("@id")
	if !assert.NoError(t, err, "attribute pattern parses") {
		return
	}
	if !assert.True(t, pat.IsAttribute(), "attribute form recognized") {
		return
	}
	if !assert.Equal(t, "id", pat.LocalName(), "marker stripped") {
		return
	}

	pat, err = parsePattern("*")
	if !assert.NoError(t, err, "wildcard parses") {
		return
	}
	if _, has := pat.URI(); !assert.False(t, has, "the wildcard is namespace-unconstrained") {
		return
	}

	pat, err = parsePattern("p:a")
	if !assert.NoError(t, err, "prefixed pattern parses") {
		return
	}
	if !assert.Equal(t, "p", pat.Prefix(), "prefix retained for later resolution") {
		return
	}

	pat, err = parsePattern("a")
	if !assert.NoError(t, err, "plain pattern parses") {
		return
	}
	uri, has := pat.URI()
	if !assert.True(t, has, "plain patterns constrain the namespace") {
		return
	}
	if !assert.Equal(t, "", uri, "to the empty one") {
		return
	}

	_, err = parsePattern("not a name")
	if !assert.ErrorIs(t, err, ErrInvalidName, "garbage is rejected") {
		return
	}
}

func TestPatternMatching(t *testing.T) {
	any := AnyName()
	target, err := NewNameNS("urn:x", "a")
	if !assert.NoError(t, err, "NewNameNS succeeds") {
		return
	}
	if !assert.True(t, any.Matches(target), "the wildcard matches everything") {
		return
	}

	pat, err := parsePattern("a")
	if !assert.NoError(t, err, "parsePattern succeeds") {
		return
	}
	if !assert.False(t, pat.Matches(target), "a plain pattern rejects namespaced names") {
		return
	}
	bare, err := NewName("a")
	if !assert.NoError(t, err, "NewName succeeds") {
		return
	}
	if !assert.True(t, pat.Matches(bare), "and accepts bare ones") {
		return
	}

	// The wildcard exists only in pattern space, never as a constructed
	// name.
	_, err = NewNameNS("urn:x", "*")
	if !assert.ErrorIs(t, err, ErrInvalidName, "constructed names reject the wildcard") {
		return
	}
}
