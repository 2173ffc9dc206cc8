package argon

type ProcessingInstruction struct {
	target string
	data   string
	parent *Element
}

func newProcessingInstruction(target, data string) *ProcessingInstruction {
	return &ProcessingInstruction{target: target, data: data}
}

func (n *ProcessingInstruction) Kind() NodeKind   { return ProcessingInstructionNode }
func (n *ProcessingInstruction) Parent() *Element { return n.parent }
func (n *ProcessingInstruction) Target() string   { return n.target }
func (n *ProcessingInstruction) Data() string     { return n.data }

func (n *ProcessingInstruction) setParent(p *Element) { n.parent = p }

func (n *ProcessingInstruction) clone() Node {
	return newProcessingInstruction(n.target, n.data)
}

func (n *ProcessingInstruction) equal(other Node) bool {
	return nodesEqual(n, other)
}
