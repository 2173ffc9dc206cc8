package argon

// Attribute is a name/value pair owned by an element but stored outside
// its child sequence. A detached attribute (owner == nil) is a plain
// value, which is how attribute query results behave once copied.
type Attribute struct {
	name  Name
	value string
	owner *Element
}

func newAttribute(name Name, value string) *Attribute {
	return &Attribute{name: name, value: value}
}

func (n *Attribute) Kind() NodeKind   { return AttributeNode }
func (n *Attribute) Parent() *Element { return n.owner }
func (n *Attribute) Value() string    { return n.value }

func (n *Attribute) setParent(p *Element) { n.owner = p }

func (n *Attribute) clone() Node {
	return newAttribute(n.name, n.value)
}

func (n *Attribute) equal(other Node) bool {
	return nodesEqual(n, other)
}
