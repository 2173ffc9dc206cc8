package argon

import (
	"strings"

	"github.com/argon-go/argon/internal/stack"
)

type NodeKind int

const (
	ElementNode NodeKind = iota + 1
	TextNode
	CommentNode
	ProcessingInstructionNode
	AttributeNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcessingInstructionNode:
		return "processing-instruction"
	case AttributeNode:
		return "attribute"
	}
	return "unknown"
}

// Node is one vertex of the document tree. Exactly one element owns a
// node at any time; the parent pointer is the non-owning back
// reference. Mutation methods that might attach an already-owned node
// live on XML, which clones first (see xml.go) -- nothing below this
// layer performs defensive copying.
type Node interface {
	Kind() NodeKind
	Parent() *Element

	setParent(*Element)
	clone() Node
	equal(Node) bool
}

// detachNode removes n from its current parent's child sequence (or
// attribute set) and clears the back reference. A parentless node is
// left untouched.
func detachNode(n Node) {
	p := n.Parent()
	if p == nil {
		return
	}
	if a, ok := n.(*Attribute); ok {
		p.removeAttribute(a)
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.setParent(nil)
}

// textContent concatenates every text node in the subtree rooted at n,
// in document order. Comments and processing instructions contribute
// nothing. The traversal runs on an explicit work stack so pathological
// nesting cannot exhaust the goroutine stack.
func textContent(n Node) string {
	var sb strings.Builder
	work := stack.New[Node]()
	work.Push(n)
	for {
		cur, ok := work.Pop()
		if !ok {
			break
		}
		switch v := cur.(type) {
		case *Text:
			sb.WriteString(v.content)
		case *Attribute:
			sb.WriteString(v.value)
		case *Element:
			for i := len(v.children) - 1; i >= 0; i-- {
				work.Push(v.children[i])
			}
		}
	}
	return sb.String()
}

// nodesEqual is the structural equality behind Contains and Equals:
// same kind, same name, same attributes (order-sensitive), same
// children. Prefixes are ignored, parents are not compared.
func nodesEqual(a, b Node) bool {
	type pair struct{ a, b Node }
	work := stack.New[pair]()
	work.Push(pair{a, b})
	for {
		p, ok := work.Pop()
		if !ok {
			return true
		}
		if p.a.Kind() != p.b.Kind() {
			return false
		}
		switch av := p.a.(type) {
		case *Text:
			if av.content != p.b.(*Text).content {
				return false
			}
		case *Comment:
			if av.content != p.b.(*Comment).content {
				return false
			}
		case *ProcessingInstruction:
			bv := p.b.(*ProcessingInstruction)
			if av.target != bv.target || av.data != bv.data {
				return false
			}
		case *Attribute:
			bv := p.b.(*Attribute)
			if !av.name.Equal(bv.name) || av.value != bv.value {
				return false
			}
		case *Element:
			bv := p.b.(*Element)
			if !av.name.Equal(bv.name) {
				return false
			}
			if len(av.attrs) != len(bv.attrs) || len(av.children) != len(bv.children) {
				return false
			}
			for i := range av.attrs {
				work.Push(pair{av.attrs[i], bv.attrs[i]})
			}
			for i := range av.children {
				work.Push(pair{av.children[i], bv.children[i]})
			}
		}
	}
}
