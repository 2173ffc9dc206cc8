package argon

import "github.com/argon-go/argon/internal/orderedmap"

const xmlNamespaceURI = "http://www.w3.org/XML/1998/namespace"

// NamespaceScope is the set of prefix bindings visible at one tree
// position. Scopes form a chain mirroring the ancestor path; the
// closest binding for a prefix wins. Scopes are built on demand and
// never cached on nodes, so reparenting cannot leave one stale.
type NamespaceScope struct {
	parent   *NamespaceScope
	bindings *orderedmap.Map[string, string]
}

func newScope(parent *NamespaceScope) *NamespaceScope {
	return &NamespaceScope{parent: parent}
}

func (s *NamespaceScope) bind(prefix, uri string) {
	if s.bindings == nil {
		s.bindings = orderedmap.New[string, string]()
	}
	s.bindings.Put(prefix, uri)
}

// Resolve maps a prefix to its URI. The empty prefix resolves the
// default binding. The "xml" prefix is always bound.
func (s *NamespaceScope) Resolve(prefix string) (string, bool) {
	if prefix == "xml" {
		return xmlNamespaceURI, true
	}
	for cur := s; cur != nil; cur = cur.parent {
		if cur.bindings == nil {
			continue
		}
		if uri, ok := cur.bindings.Get(prefix); ok {
			return uri, true
		}
	}
	return "", false
}

// prefixFor finds an in-scope prefix already bound to uri, preferring
// the innermost declaration. Shadowed bindings are skipped: a prefix
// only counts if resolving it still yields uri.
func (s *NamespaceScope) prefixFor(uri string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.bindings == nil {
			continue
		}
		for prefix, bound := range cur.bindings.Range() {
			if bound != uri {
				continue
			}
			if resolved, ok := s.Resolve(prefix); ok && resolved == uri {
				return prefix, true
			}
		}
	}
	return "", false
}

// inScope builds the scope visible at e from the declarations on e and
// its ancestors.
func inScope(e *Element) *NamespaceScope {
	var chain []*Element
	for cur := e; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	var scope *NamespaceScope
	for i := len(chain) - 1; i >= 0; i-- {
		scope = newScope(scope)
		if decls := chain[i].nsDecls; decls != nil {
			for prefix, uri := range decls.Range() {
				scope.bind(prefix, uri)
			}
		}
	}
	return scope
}

// chooseNamespace decides the effective URI for a name at a given
// position: an explicit URI wins, then the name's prefix resolved in
// scope, then the default binding. Attributes never take the default
// binding; an unprefixed attribute is in no namespace.
func chooseNamespace(name Name, scope *NamespaceScope, isAttr bool) string {
	if uri, ok := name.URI(); ok {
		return uri
	}
	if name.prefix != "" {
		if uri, ok := scope.Resolve(name.prefix); ok {
			return uri
		}
		return ""
	}
	if isAttr {
		return ""
	}
	if uri, ok := scope.Resolve(""); ok {
		return uri
	}
	return ""
}

// resolvePattern pins a query pattern's namespace against the scope at
// the queried node, so that "pfx:local" matches by URI the way an
// in-document qualified name would.
func resolvePattern(pat Name, e *Element) Name {
	if pat.uri != nil || pat.prefix == "" {
		return pat
	}
	scope := inScope(e)
	if uri, ok := scope.Resolve(pat.prefix); ok {
		pat.uri = &uri
	}
	return pat
}

// effectiveName returns a node's name with its URI made explicit from
// the surrounding scope, which is what query matching compares against.
func effectiveName(name Name, e *Element, isAttr bool) Name {
	if name.uri != nil {
		return name
	}
	uri := chooseNamespace(name, inScope(e), isAttr)
	if uri != "" {
		name.uri = &uri
	}
	return name
}
