package argon

import "strings"

type Text struct {
	content string
	parent  *Element
}

func newText(s string) *Text {
	return &Text{content: s}
}

func (n *Text) Kind() NodeKind   { return TextNode }
func (n *Text) Parent() *Element { return n.parent }
func (n *Text) Value() string    { return n.content }

func (n *Text) setParent(p *Element) { n.parent = p }

func (n *Text) clone() Node {
	return newText(n.content)
}

func (n *Text) equal(other Node) bool {
	return nodesEqual(n, other)
}

// isBlank reports whether the node consists entirely of XML whitespace,
// which is what the ignoreWhitespace setting drops at parse time.
func (n *Text) isBlank() bool {
	return strings.TrimLeft(n.content, " \t\r\n") == ""
}
