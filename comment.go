package argon

type Comment struct {
	content string
	parent  *Element
}

func newComment(s string) *Comment {
	return &Comment{content: s}
}

func (n *Comment) Kind() NodeKind   { return CommentNode }
func (n *Comment) Parent() *Element { return n.parent }
func (n *Comment) Value() string    { return n.content }

func (n *Comment) setParent(p *Element) { n.parent = p }

func (n *Comment) clone() Node {
	return newComment(n.content)
}

func (n *Comment) equal(other Node) bool {
	return nodesEqual(n, other)
}
