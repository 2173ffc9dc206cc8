package argon

import (
	"strings"
	"unicode"
)

// Name is a qualified XML name: a local name plus an optional namespace
// URI and an optional display prefix. The prefix never participates in
// equality or matching; it only informs serialization.
//
// A nil uri means the name carries no namespace constraint of its own.
// For a node this means "resolve against the in-scope default binding";
// for a query pattern it means "match any namespace".
type Name struct {
	local  string
	prefix string
	uri    *string
	attr   bool
}

// NewName creates a Name with no namespace.
func NewName(local string) (Name, error) {
	if !ValidName(local) {
		return Name{}, ErrInvalidName
	}
	return Name{local: local}, nil
}

// NewNameNS creates a Name bound to the given namespace URI.
func NewNameNS(uri, local string) (Name, error) {
	n, err := NewName(local)
	if err != nil {
		return Name{}, err
	}
	n.uri = &uri
	return n, nil
}

// NewNamePrefix creates a Name carrying both a namespace URI and the
// prefix it should serialize under.
func NewNamePrefix(prefix, uri, local string) (Name, error) {
	n, err := NewNameNS(uri, local)
	if err != nil {
		return Name{}, err
	}
	n.prefix = prefix
	return n, nil
}

// AnyName is the wildcard pattern: matches every name in every namespace.
func AnyName() Name {
	return Name{local: "*"}
}

func (n Name) LocalName() string {
	return n.local
}

func (n Name) Prefix() string {
	return n.prefix
}

// URI returns the namespace URI and whether one is set.
func (n Name) URI() (string, bool) {
	if n.uri == nil {
		return "", false
	}
	return *n.uri, true
}

// IsAttribute reports whether this name was written in attribute form
// ("@name") when parsed as a query pattern.
func (n Name) IsAttribute() bool {
	return n.attr
}

// String renders the name the way it would appear in a tag.
func (n Name) String() string {
	if n.prefix != "" {
		return n.prefix + ":" + n.local
	}
	return n.local
}

// Equal compares local name and namespace URI. Prefixes are ignored.
func (n Name) Equal(other Name) bool {
	if n.local != other.local {
		return false
	}
	nu, _ := n.URI()
	ou, _ := other.URI()
	return nu == ou
}

// Matches applies the query matching rule with this name as the
// pattern: a "*" local name matches any local name, a nil URI matches
// any namespace, and otherwise both must compare equal.
func (n Name) Matches(other Name) bool {
	if n.local != "*" && n.local != other.local {
		return false
	}
	if n.uri == nil {
		return true
	}
	ou, _ := other.URI()
	return *n.uri == ou
}

// parsePattern turns a caller-supplied name string into a query
// pattern. "@name" selects attributes, "*" is the wildcard, and
// "pfx:local" keeps the prefix for later in-scope resolution.
func parsePattern(s string) (Name, error) {
	var pat Name
	if strings.HasPrefix(s, "@") {
		pat.attr = true
		s = s[1:]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		pat.prefix = s[:i]
		s = s[i+1:]
	}
	if s == "*" {
		pat.local = "*"
		return pat, nil
	}
	if !ValidName(s) {
		return Name{}, ErrInvalidName
	}
	pat.local = s
	if pat.prefix == "" {
		// An unqualified pattern selects names in no namespace, the
		// same way an unqualified name in markup would resolve without
		// a default binding. Only "*" is namespace-unconstrained.
		none := ""
		pat.uri = &none
	}
	return pat, nil
}

// ValidName reports whether s is usable as an XML name (one NCName,
// no colon).
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStartChar(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func isNameStartChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStartChar(r) || r == '-' || r == '.' || unicode.IsDigit(r)
}

// allDigits reports whether s looks like a non-negative integer, which
// query operations treat as an ordinal index rather than a name.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
