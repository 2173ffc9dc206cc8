package argon

import (
	"fmt"
	"strconv"

	"github.com/argon-go/argon/internal/stack"
)

// XML is a handle to exactly one tree node: an element, text, comment,
// processing instruction, or a detached attribute value. Query methods
// never mutate the tree; mutation methods keep ownership exclusive by
// cloning any operand that is still attached elsewhere.
type XML struct {
	node Node
}

// New returns an empty XML value, which is a bare empty text node.
func New() *XML {
	return &XML{node: newText("")}
}

// NewElement returns an XML value holding a single element with the
// given name.
func NewElement(name string) (*XML, error) {
	n, err := parseQualified(name)
	if err != nil {
		return nil, err
	}
	return &XML{node: newElement(n)}, nil
}

// NewTextValue returns an XML value holding a bare text node.
func NewTextValue(s string) *XML {
	return &XML{node: newText(s)}
}

func xmlFor(n Node) *XML {
	return &XML{node: n}
}

func (x *XML) Kind() NodeKind {
	return x.node.Kind()
}

// Length is always 1; an XML value behaves as a one-element list.
func (x *XML) Length() int {
	return 1
}

// Name returns the node's qualified name. Only elements and attributes
// carry one; every other node kind reports ErrNotApplicable.
func (x *XML) Name() (Name, error) {
	switch n := x.node.(type) {
	case *Element:
		return effectiveName(n.name, n, false), nil
	case *Attribute:
		return effectiveName(n.name, n.owner, true), nil
	}
	return Name{}, ErrNotApplicable
}

func (x *XML) LocalName() (string, error) {
	n, err := x.Name()
	if err != nil {
		return "", err
	}
	return n.LocalName(), nil
}

// Namespace returns the namespace URI the node's own name resolves to.
func (x *XML) Namespace() (string, error) {
	n, err := x.Name()
	if err != nil {
		return "", err
	}
	uri, _ := n.URI()
	return uri, nil
}

// NamespaceForPrefix resolves a prefix against the bindings in scope at
// this node.
func (x *XML) NamespaceForPrefix(prefix string) (string, bool) {
	e := x.scopeElement()
	if e == nil {
		return "", false
	}
	return inScope(e).Resolve(prefix)
}

func (x *XML) scopeElement() *Element {
	if e, ok := x.node.(*Element); ok {
		return e
	}
	return x.node.Parent()
}

// Parent returns the owning element, or nil for a root.
func (x *XML) Parent() *XML {
	if p := x.node.Parent(); p != nil {
		return xmlFor(p)
	}
	return nil
}

// Child implements the child query. An all-digits name indexes the
// retained child sequence; anything else is a name pattern selecting
// matching direct element children. Pattern-based results carry a
// write-back target.
func (x *XML) Child(name string) (*List, error) {
	if allDigits(name) {
		i, err := strconv.Atoi(name)
		if err != nil {
			return nil, errInvalidIndex(name, err)
		}
		return x.childAt(i), nil
	}
	pat, err := parsePattern(name)
	if err != nil {
		return nil, err
	}
	if pat.attr {
		return x.attributeList(pat), nil
	}
	return x.childList(pat), nil
}

func errInvalidIndex(name string, err error) error {
	return fmt.Errorf("invalid child index %q: %w", name, err)
}

func (x *XML) childAt(i int) *List {
	list := newList(nil)
	if e, ok := x.node.(*Element); ok && i >= 0 && i < len(e.children) {
		list.items = append(list.items, xmlFor(e.children[i]))
	}
	return list
}

func (x *XML) childList(pat Name) *List {
	list := newList(nil)
	list.anchor(x, pat)
	e, ok := x.node.(*Element)
	if !ok {
		return list
	}
	rpat := resolvePattern(pat, e)
	for _, c := range e.children {
		ce, ok := c.(*Element)
		if !ok {
			continue
		}
		if rpat.Matches(effectiveName(ce.name, ce, false)) {
			list.items = append(list.items, xmlFor(ce))
		}
	}
	return list
}

// Children returns all direct element children.
func (x *XML) Children() *List {
	return x.childList(AnyName())
}

// Elements is Child restricted to element results; with no argument it
// behaves like Children.
func (x *XML) Elements(name ...string) (*List, error) {
	pat := AnyName()
	if len(name) > 0 {
		var err error
		if pat, err = parsePattern(name[0]); err != nil {
			return nil, err
		}
	}
	return x.childList(pat), nil
}

// Attribute returns the matching attributes of this element as a list
// with a write-back target.
func (x *XML) Attribute(name string) (*List, error) {
	pat, err := parsePattern(name)
	if err != nil {
		return nil, err
	}
	pat.attr = true
	return x.attributeList(pat), nil
}

// Attributes returns every attribute of this element.
func (x *XML) Attributes() *List {
	pat := AnyName()
	pat.attr = true
	return x.attributeList(pat)
}

func (x *XML) attributeList(pat Name) *List {
	list := newList(nil)
	list.anchor(x, pat)
	e, ok := x.node.(*Element)
	if !ok {
		return list
	}
	rpat := resolvePattern(pat, e)
	for _, a := range e.attrs {
		if rpat.Matches(effectiveName(a.name, e, true)) {
			list.items = append(list.items, xmlFor(a))
		}
	}
	return list
}

// Descendants walks the whole subtree in document order, collecting
// matching elements, or matching attributes when the pattern is in
// attribute form. The result has no write-back target.
func (x *XML) Descendants(name ...string) (*List, error) {
	pat := AnyName()
	if len(name) > 0 {
		var err error
		if pat, err = parsePattern(name[0]); err != nil {
			return nil, err
		}
	}
	list := newList(nil)
	root, ok := x.node.(*Element)
	if !ok {
		return list, nil
	}
	rpat := resolvePattern(pat, root)
	work := stack.New[*Element]()
	work.Push(root)
	for {
		e, ok := work.Pop()
		if !ok {
			break
		}
		if e != root {
			if !pat.attr && rpat.Matches(effectiveName(e.name, e, false)) {
				list.items = append(list.items, xmlFor(e))
			}
		}
		if pat.attr {
			for _, a := range e.attrs {
				if rpat.Matches(effectiveName(a.name, e, true)) {
					list.items = append(list.items, xmlFor(a))
				}
			}
		}
		for i := len(e.children) - 1; i >= 0; i-- {
			if ce, ok := e.children[i].(*Element); ok {
				work.Push(ce)
			}
		}
	}
	return list, nil
}

// Text returns the direct text children.
func (x *XML) Text() *List {
	list := newList(nil)
	if e, ok := x.node.(*Element); ok {
		for _, c := range e.children {
			if t, ok := c.(*Text); ok {
				list.items = append(list.items, xmlFor(t))
			}
		}
	}
	return list
}

// Comments returns the direct comment children. Parsing with
// ignoreComments active drops comments permanently, in which case this
// is always empty.
func (x *XML) Comments() *List {
	list := newList(nil)
	if e, ok := x.node.(*Element); ok {
		for _, c := range e.children {
			if cm, ok := c.(*Comment); ok {
				list.items = append(list.items, xmlFor(cm))
			}
		}
	}
	return list
}

// ProcessingInstructions returns the direct PI children whose target
// matches the optional name filter.
func (x *XML) ProcessingInstructions(name ...string) (*List, error) {
	pat := AnyName()
	if len(name) > 0 {
		var err error
		if pat, err = parsePattern(name[0]); err != nil {
			return nil, err
		}
	}
	list := newList(nil)
	if e, ok := x.node.(*Element); ok {
		for _, c := range e.children {
			pi, ok := c.(*ProcessingInstruction)
			if !ok {
				continue
			}
			if pat.local == "*" || pat.local == pi.target {
				list.items = append(list.items, xmlFor(pi))
			}
		}
	}
	return list, nil
}

// Contains is the structural-equality membership test: for a single
// XML value it degenerates to Equals.
func (x *XML) Contains(other *XML) bool {
	return x.Equals(other)
}

// Equals compares two trees structurally: kind, name, attributes and
// children, ignoring prefixes and parents.
func (x *XML) Equals(other *XML) bool {
	if other == nil {
		return false
	}
	if x.node == other.node {
		return true
	}
	return nodesEqual(x.node, other.node)
}

// HasSimpleContent reports whether the value is effectively scalar
// text: any text or attribute node, or an element with no element
// children. Comments and processing instructions are neither.
func (x *XML) HasSimpleContent() bool {
	switch n := x.node.(type) {
	case *Text, *Attribute:
		return true
	case *Element:
		return !n.hasElementChild()
	}
	return false
}

// HasComplexContent reports whether the value is an element with at
// least one element child.
func (x *XML) HasComplexContent() bool {
	if e, ok := x.node.(*Element); ok {
		return e.hasElementChild()
	}
	return false
}

// SetName renames the node in place. Content, children and attributes
// are unaffected. Text and comment nodes cannot be renamed.
func (x *XML) SetName(name string) error {
	n, err := parseQualified(name)
	if err != nil {
		return err
	}
	switch v := x.node.(type) {
	case *Element:
		v.name = n
	case *Attribute:
		v.name = n
	case *ProcessingInstruction:
		v.target = n.LocalName()
	default:
		return ErrNotApplicable
	}
	return nil
}

// SetNamespace binds the node's own name to the given namespace URI.
// The serializer will reuse an in-scope prefix for it or synthesize a
// declaration.
func (x *XML) SetNamespace(uri string) error {
	switch v := x.node.(type) {
	case *Element:
		v.name.uri = &uri
	case *Attribute:
		v.name.uri = &uri
	default:
		return ErrNotApplicable
	}
	return nil
}

// parseQualified accepts "local" or "prefix:local" construction input.
// Unlike query patterns, wildcards and attribute markers are invalid
// here.
func parseQualified(s string) (Name, error) {
	var prefix string
	local := s
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			prefix = s[:i]
			local = s[i+1:]
			break
		}
	}
	if prefix != "" && !ValidName(prefix) {
		return Name{}, ErrInvalidName
	}
	if !ValidName(local) {
		return Name{}, ErrInvalidName
	}
	return Name{local: local, prefix: prefix}, nil
}

// Copy returns a deep, parentless clone sharing no nodes with the
// source. Mutating either side never affects the other.
func (x *XML) Copy() *XML {
	return xmlFor(x.node.clone())
}

// adoptable turns an operand into nodes safe to attach under target:
// attached nodes are cloned (a node is never silently moved between
// parents), and non-tree values are stringified into text nodes.
func adoptable(target *Element, value interface{}) []Node {
	switch v := value.(type) {
	case *XML:
		return []Node{adoptNode(target, v.node)}
	case *List:
		nodes := make([]Node, 0, len(v.items))
		for _, item := range v.items {
			nodes = append(nodes, adoptable(target, item)...)
		}
		return nodes
	case Node:
		return []Node{adoptNode(target, v)}
	case nil:
		return nil
	default:
		return []Node{newText(stringify(v))}
	}
}

// adoptNode clones when the operand already has a parent, or when it is
// the attach point itself or one of its ancestors. Attaching such a
// node verbatim would make the tree a descendant of itself.
func adoptNode(target *Element, n Node) Node {
	if n.Parent() != nil || wouldAlias(target, n) {
		return n.clone()
	}
	return n
}

// wouldAlias reports whether n sits on target's ancestor chain,
// target included.
func wouldAlias(target *Element, n Node) bool {
	e, ok := n.(*Element)
	if !ok {
		return false
	}
	for cur := target; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// AppendChild attaches the operand (an XML value, a list, or anything
// stringifiable) at the end of this element's child sequence and
// returns the receiver for chaining.
func (x *XML) AppendChild(child interface{}) (*XML, error) {
	e, ok := x.node.(*Element)
	if !ok {
		return nil, ErrNotApplicable
	}
	for _, n := range adoptable(e, child) {
		e.appendRaw(n)
	}
	return x, nil
}

// PrependChild is AppendChild at the front of the child sequence.
func (x *XML) PrependChild(child interface{}) (*XML, error) {
	e, ok := x.node.(*Element)
	if !ok {
		return nil, ErrNotApplicable
	}
	nodes := adoptable(e, child)
	for i := len(nodes) - 1; i >= 0; i-- {
		e.insertRaw(0, nodes[i])
	}
	return x, nil
}

// InsertChildBefore inserts the operand immediately before ref, which
// should be a direct child; when ref is nil or not found the operand is
// appended.
func (x *XML) InsertChildBefore(ref *XML, child interface{}) (*XML, error) {
	return x.insertAdjacent(ref, child, 0)
}

// InsertChildAfter inserts the operand immediately after ref, with the
// same fallback to append.
func (x *XML) InsertChildAfter(ref *XML, child interface{}) (*XML, error) {
	return x.insertAdjacent(ref, child, 1)
}

func (x *XML) insertAdjacent(ref *XML, child interface{}, offset int) (*XML, error) {
	e, ok := x.node.(*Element)
	if !ok {
		return nil, ErrNotApplicable
	}
	pos := -1
	if ref != nil {
		for i, c := range e.children {
			if c == ref.node {
				pos = i + offset
				break
			}
		}
	}
	nodes := adoptable(e, child)
	if pos < 0 {
		for _, n := range nodes {
			e.appendRaw(n)
		}
		return x, nil
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		e.insertRaw(pos, nodes[i])
	}
	return x, nil
}

// Replace substitutes the first child matching the property name with
// the operand and removes the remaining matches. With no match it
// behaves as AppendChild.
func (x *XML) Replace(property string, value interface{}) (*XML, error) {
	e, ok := x.node.(*Element)
	if !ok {
		return nil, ErrNotApplicable
	}
	pat, err := parsePattern(property)
	if err != nil {
		return nil, err
	}
	if pat.attr {
		return nil, ErrNotApplicable
	}
	rpat := resolvePattern(pat, e)
	matches := matchingChildIndices(e, rpat)
	if len(matches) == 0 {
		return x.AppendChild(value)
	}
	nodes := adoptable(e, value)
	// Remove surplus matches back to front so indices stay valid, then
	// splice the replacement in at the first match.
	for i := len(matches) - 1; i >= 1; i-- {
		e.removeChildAt(matches[i])
	}
	first := matches[0]
	e.removeChildAt(first)
	for i := len(nodes) - 1; i >= 0; i-- {
		e.insertRaw(first, nodes[i])
	}
	return x, nil
}

func matchingChildIndices(e *Element, rpat Name) []int {
	var out []int
	for i, c := range e.children {
		ce, ok := c.(*Element)
		if !ok {
			continue
		}
		if rpat.Matches(effectiveName(ce.name, ce, false)) {
			out = append(out, i)
		}
	}
	return out
}

// ToString returns the concatenated text for simple content, and the
// canonical markup otherwise.
func (x *XML) ToString(options ...CallOption) string {
	switch n := x.node.(type) {
	case *Text:
		return n.content
	case *Attribute:
		return n.value
	case *Element:
		if !n.hasElementChild() {
			return textContent(n)
		}
	}
	return x.ToXMLString(options...)
}

// ToXMLString renders the canonical markup under the effective
// settings.
func (x *XML) ToXMLString(options ...CallOption) string {
	s := effectiveSettings(options...)
	var d dumper
	return d.dumpNode(x.node, s)
}
