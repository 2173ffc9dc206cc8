package argon

import (
	"strconv"
	"strings"

	"github.com/argon-go/argon/internal/stack"
	"github.com/lestrrat-go/pdebug/v3"
)

// dumper renders canonical markup. The output is a compatibility
// contract: indentation, escaping, self-closing and namespace
// declaration placement must not drift between releases.
type dumper struct{}

// frame is one unit of serialization work: either a literal string or
// a node to render at the given depth and ambient scope.
type frame struct {
	literal string
	node    Node
	depth   int
	scope   *NamespaceScope
}

func (d *dumper) dumpNode(n Node, s Settings) string {
	if pdebug.Enabled {
		pdebug.Printf("dumper: rendering %s node", n.Kind())
	}

	var sb strings.Builder
	work := stack.New[frame]()
	work.Push(frame{node: n, depth: 0, scope: ambientScope(n)})
	for {
		f, ok := work.Pop()
		if !ok {
			break
		}
		if f.node == nil {
			sb.WriteString(f.literal)
			continue
		}
		switch v := f.node.(type) {
		case *Text:
			sb.WriteString(escapeText(v.content))
		case *Attribute:
			sb.WriteString(escapeText(v.value))
		case *Comment:
			sb.WriteString("<!--")
			sb.WriteString(v.content)
			sb.WriteString("-->")
		case *ProcessingInstruction:
			sb.WriteString("<?")
			sb.WriteString(v.target)
			if v.data != "" {
				sb.WriteString(" ")
				sb.WriteString(v.data)
			}
			sb.WriteString("?>")
		case *Element:
			d.dumpElement(&sb, work, v, f.depth, f.scope, s)
		}
	}
	return sb.String()
}

// ambientScope gives the serialization entry point the bindings
// declared above the node, so a detached subtree renders the same way
// it would in isolation while an attached one reuses ancestor prefixes.
func ambientScope(n Node) *NamespaceScope {
	if p := n.Parent(); p != nil {
		return inScope(p)
	}
	return newScope(nil)
}

func (d *dumper) dumpElement(sb *strings.Builder, work *stack.Stack[frame], e *Element, depth int, ambient *NamespaceScope, s Settings) {
	tag := newTagScope(ambient)

	// Declarations parsed from the input come first, minus the ones the
	// ambient scope already provides identically.
	if e.nsDecls != nil {
		for prefix, uri := range e.nsDecls.Range() {
			if bound, ok := ambient.Resolve(prefix); ok && bound == uri {
				continue
			}
			tag.declare(prefix, uri)
		}
	}

	name := tag.qualify(e.name, false)
	attrs := make([]string, 0, len(e.attrs))
	for _, a := range e.attrs {
		attrs = append(attrs, tag.qualify(a.name, true)+`="`+escapeAttr(a.value)+`"`)
	}

	sb.WriteString("<")
	sb.WriteString(name)
	for _, decl := range tag.decls {
		sb.WriteString(" ")
		sb.WriteString(decl)
	}
	for _, a := range attrs {
		sb.WriteString(" ")
		sb.WriteString(a)
	}

	switch {
	case len(e.children) == 0:
		sb.WriteString("/>")
	case len(e.children) == 1 && e.children[0].Kind() == TextNode:
		// Simple content renders inline regardless of pretty printing.
		sb.WriteString(">")
		sb.WriteString(escapeText(e.children[0].(*Text).content))
		sb.WriteString("</")
		sb.WriteString(name)
		sb.WriteString(">")
	default:
		sb.WriteString(">")
		closeTag := "</" + name + ">"
		if s.PrettyPrinting {
			closeTag = "\n" + indent(s, depth) + closeTag
		}
		work.Push(frame{literal: closeTag})
		for i := len(e.children) - 1; i >= 0; i-- {
			work.Push(frame{node: e.children[i], depth: depth + 1, scope: tag.scope})
			if s.PrettyPrinting {
				work.Push(frame{literal: "\n" + indent(s, depth+1)})
			}
		}
	}
}

func indent(s Settings, depth int) string {
	// A non-positive width keeps the line breaks but no leading space.
	if s.PrettyIndent <= 0 {
		return ""
	}
	return strings.Repeat(" ", s.PrettyIndent*depth)
}

// tagScope tracks the namespace declarations one open tag must emit:
// the ambient bindings extended by everything declared on this tag, in
// declaration order.
type tagScope struct {
	scope *NamespaceScope
	decls []string
}

func newTagScope(ambient *NamespaceScope) *tagScope {
	return &tagScope{scope: newScope(ambient)}
}

func (t *tagScope) declare(prefix, uri string) {
	t.scope.bind(prefix, uri)
	if prefix == "" {
		t.decls = append(t.decls, `xmlns="`+escapeAttr(uri)+`"`)
		return
	}
	t.decls = append(t.decls, "xmlns:"+prefix+`="`+escapeAttr(uri)+`"`)
}

// qualify renders a name inside this tag, synthesizing a namespace
// declaration when the name's URI has no usable binding in scope.
// Attributes never ride the default binding, so an attribute in a
// namespace always gets a prefix.
func (t *tagScope) qualify(name Name, isAttr bool) string {
	uri, has := name.URI()
	if !has {
		// No explicit URI: the name means whatever the scope says it
		// means, so nothing needs declaring.
		if name.prefix != "" {
			return name.prefix + ":" + name.local
		}
		return name.local
	}

	if uri == "" {
		if !isAttr {
			if bound, ok := t.scope.Resolve(""); ok && bound != "" {
				// Ancestors changed the default binding; opt back out.
				t.declare("", "")
			}
		}
		return name.local
	}

	if name.prefix != "" {
		if bound, ok := t.scope.Resolve(name.prefix); ok && bound == uri {
			return name.prefix + ":" + name.local
		}
	}
	if p, ok := t.scope.prefixFor(uri); ok {
		if p == "" {
			if !isAttr {
				return name.local
			}
		} else {
			return p + ":" + name.local
		}
	}

	// Nothing in scope serves this URI. Reuse the name's own prefix
	// when it is free, otherwise mint prefixN.
	if name.prefix != "" {
		if _, taken := t.scope.Resolve(name.prefix); !taken {
			t.declare(name.prefix, uri)
			return name.prefix + ":" + name.local
		}
	}
	if !isAttr && name.prefix == "" {
		t.declare("", uri)
		return name.local
	}
	p := t.freshPrefix()
	t.declare(p, uri)
	return p + ":" + name.local
}

func (t *tagScope) freshPrefix() string {
	for i := 0; ; i++ {
		p := "prefix" + strconv.Itoa(i)
		if _, taken := t.scope.Resolve(p); !taken {
			return p
		}
	}
}

// escapeText applies element content escaping.
func escapeText(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// escapeAttr applies attribute value escaping, which additionally
// covers the double quote.
func escapeAttr(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
