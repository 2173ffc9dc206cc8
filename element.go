package argon

import (
	"github.com/argon-go/argon/internal/orderedmap"
	"github.com/argon-go/argon/internal/stack"
)

// Element is the only node kind that owns other nodes. Attribute
// values live outside the child sequence, and namespace declarations
// (xmlns / xmlns:prefix) are kept apart from ordinary attributes so
// scope resolution does not have to re-parse attribute names.
type Element struct {
	name     Name
	parent   *Element
	attrs    []*Attribute
	children []Node
	nsDecls  *orderedmap.Map[string, string] // prefix -> uri, "" is the default binding
}

func newElement(name Name) *Element {
	return &Element{name: name}
}

func (e *Element) Kind() NodeKind   { return ElementNode }
func (e *Element) Parent() *Element { return e.parent }

func (e *Element) setParent(p *Element) { e.parent = p }

// appendRaw attaches an already-detached node at the end of the child
// sequence. Callers must guarantee the node has no parent.
func (e *Element) appendRaw(n Node) {
	e.children = append(e.children, n)
	n.setParent(e)
}

// insertRaw attaches an already-detached node at position i.
func (e *Element) insertRaw(i int, n Node) {
	if i < 0 || i >= len(e.children) {
		e.appendRaw(n)
		return
	}
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = n
	n.setParent(e)
}

func (e *Element) removeChildAt(i int) {
	if i < 0 || i >= len(e.children) {
		return
	}
	detachNode(e.children[i])
}

// setAttribute stores an attribute value, replacing any existing
// attribute whose name compares equal.
func (e *Element) setAttribute(name Name, value string) {
	for _, a := range e.attrs {
		if a.name.Equal(name) {
			a.value = value
			return
		}
	}
	a := &Attribute{name: name, value: value, owner: e}
	e.attrs = append(e.attrs, a)
}

func (e *Element) removeAttribute(target *Attribute) {
	for i, a := range e.attrs {
		if a == target {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			a.owner = nil
			return
		}
	}
}

// declareNamespace records a prefix binding on this element. Redeclaring
// a prefix overwrites the previous URI, matching how nested xmlns
// declarations shadow outer ones.
func (e *Element) declareNamespace(prefix, uri string) {
	if e.nsDecls == nil {
		e.nsDecls = orderedmap.New[string, string]()
	}
	e.nsDecls.Put(prefix, uri)
}

// hasElementChild reports whether any direct child is an element; an
// element with none has simple content.
func (e *Element) hasElementChild() bool {
	for _, c := range e.children {
		if c.Kind() == ElementNode {
			return true
		}
	}
	return false
}

// clone produces a deep, parentless copy sharing nothing with the
// source. The copy walks an explicit work stack of (src, dst) pairs;
// element shells are created first and filled as their frame surfaces.
func (e *Element) clone() Node {
	root := newElement(e.name)
	type pair struct{ src, dst *Element }
	work := stack.New[pair]()
	work.Push(pair{e, root})
	for {
		p, ok := work.Pop()
		if !ok {
			break
		}
		for _, a := range p.src.attrs {
			p.dst.setAttribute(a.name, a.value)
		}
		if p.src.nsDecls != nil {
			for prefix, uri := range p.src.nsDecls.Range() {
				p.dst.declareNamespace(prefix, uri)
			}
		}
		for _, c := range p.src.children {
			if ce, ok := c.(*Element); ok {
				shell := newElement(ce.name)
				p.dst.appendRaw(shell)
				work.Push(pair{ce, shell})
				continue
			}
			p.dst.appendRaw(c.clone())
		}
	}
	return root
}

func (e *Element) equal(other Node) bool {
	return nodesEqual(e, other)
}
