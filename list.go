package argon

// List is an ordered sequence of XML values, usually the result of a
// query. A list produced by a child or attribute query remembers where
// it came from -- the (owner, property) target -- so that assigning
// through it mutates the original tree. Lists without a target are
// unanchored and reject assignment.
type List struct {
	items []*XML

	targetOwner *XML
	targetName  *Name
}

func newList(items []*XML) *List {
	return &List{items: items}
}

// NewList builds an unanchored list from the given values.
func NewList(items ...*XML) *List {
	return newList(append([]*XML(nil), items...))
}

func (l *List) anchor(owner *XML, property Name) {
	l.targetOwner = owner
	l.targetName = &property
}

func (l *List) Length() int {
	return len(l.items)
}

// Index returns the i-th member, or nil when out of range. Sparse
// access is not an error.
func (l *List) Index(i int) *XML {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Copy deep-copies every member. The result is unanchored: a copied
// list has nowhere to write back to.
func (l *List) Copy() *List {
	out := newList(make([]*XML, 0, len(l.items)))
	for _, item := range l.items {
		out.items = append(out.items, item.Copy())
	}
	return out
}

// Contains reports whether any member compares structurally equal to
// the given value.
func (l *List) Contains(value *XML) bool {
	for _, item := range l.items {
		if item.Equals(value) {
			return true
		}
	}
	return false
}

// HasSimpleContent is true for an empty list, a one-member list whose
// member has simple content, and a multi-member list with no element
// members.
func (l *List) HasSimpleContent() bool {
	switch len(l.items) {
	case 0:
		return true
	case 1:
		return l.items[0].HasSimpleContent()
	}
	for _, item := range l.items {
		if item.Kind() == ElementNode {
			return false
		}
	}
	return true
}

// HasComplexContent is true for a one-member list whose member has
// complex content, and for a multi-member list with at least one
// element member.
func (l *List) HasComplexContent() bool {
	switch len(l.items) {
	case 0:
		return false
	case 1:
		return l.items[0].HasComplexContent()
	}
	for _, item := range l.items {
		if item.Kind() == ElementNode {
			return true
		}
	}
	return false
}

// Name delegates to the single member; any other length is an error.
func (l *List) Name() (Name, error) {
	if len(l.items) != 1 {
		return Name{}, ErrListSize
	}
	return l.items[0].Name()
}

// Parent returns the common parent of all members, or nil when the
// list is empty or the members disagree.
func (l *List) Parent() *XML {
	if len(l.items) == 0 {
		return nil
	}
	first := l.items[0].node.Parent()
	for _, item := range l.items[1:] {
		if item.node.Parent() != first {
			return nil
		}
	}
	if first == nil {
		return nil
	}
	return xmlFor(first)
}

// Child concatenates the member-wise child query. The result is
// unanchored; write-back only flows through single-owner queries.
func (l *List) Child(name string) (*List, error) {
	out := newList(nil)
	for _, item := range l.items {
		sub, err := item.Child(name)
		if err != nil {
			return nil, err
		}
		out.items = append(out.items, sub.items...)
	}
	return out, nil
}

// Children concatenates every member's direct element children.
func (l *List) Children() *List {
	out := newList(nil)
	for _, item := range l.items {
		out.items = append(out.items, item.Children().items...)
	}
	return out
}

// Elements concatenates the member-wise elements query.
func (l *List) Elements(name ...string) (*List, error) {
	out := newList(nil)
	for _, item := range l.items {
		sub, err := item.Elements(name...)
		if err != nil {
			return nil, err
		}
		out.items = append(out.items, sub.items...)
	}
	return out, nil
}

// Attribute concatenates the member-wise attribute query.
func (l *List) Attribute(name string) (*List, error) {
	out := newList(nil)
	for _, item := range l.items {
		sub, err := item.Attribute(name)
		if err != nil {
			return nil, err
		}
		out.items = append(out.items, sub.items...)
	}
	return out, nil
}

// Attributes concatenates every member's attributes.
func (l *List) Attributes() *List {
	out := newList(nil)
	for _, item := range l.items {
		out.items = append(out.items, item.Attributes().items...)
	}
	return out
}

// Descendants concatenates the member-wise descendants query in
// document order.
func (l *List) Descendants(name ...string) (*List, error) {
	out := newList(nil)
	for _, item := range l.items {
		sub, err := item.Descendants(name...)
		if err != nil {
			return nil, err
		}
		out.items = append(out.items, sub.items...)
	}
	return out, nil
}

// Text concatenates every member's direct text children.
func (l *List) Text() *List {
	out := newList(nil)
	for _, item := range l.items {
		out.items = append(out.items, item.Text().items...)
	}
	return out
}

// Comments concatenates every member's direct comment children.
func (l *List) Comments() *List {
	out := newList(nil)
	for _, item := range l.items {
		out.items = append(out.items, item.Comments().items...)
	}
	return out
}

// ProcessingInstructions concatenates the member-wise PI query.
func (l *List) ProcessingInstructions(name ...string) (*List, error) {
	out := newList(nil)
	for _, item := range l.items {
		sub, err := item.ProcessingInstructions(name...)
		if err != nil {
			return nil, err
		}
		out.items = append(out.items, sub.items...)
	}
	return out, nil
}

// Assign writes the given value back through the query this list came
// from. Existing matches under the owner are replaced pairwise by the
// assigned values; extra values are appended, surplus matches removed.
// When the query had no match at all, a new child named after the
// query property is appended. An unanchored list cannot be assigned
// through.
func (l *List) Assign(value interface{}) error {
	if l.targetOwner == nil || l.targetName == nil {
		return ErrNoWriteTarget
	}
	owner, ok := l.targetOwner.node.(*Element)
	if !ok {
		return ErrNoWriteTarget
	}
	property := *l.targetName

	if property.attr {
		return l.assignAttribute(owner, property, value)
	}

	rpat := resolvePattern(property, owner)
	matches := matchingChildIndices(owner, rpat)
	values := assignedValues(value)

	// Pairwise replacement of existing matches.
	n := len(matches)
	if len(values) < n {
		n = len(values)
	}
	// A scalar beyond the existing matches needs a fresh element named
	// after the property, and a wildcard cannot name one. Reject before
	// touching the tree.
	if property.local == "*" {
		for _, v := range values[n:] {
			if v.node == nil {
				return ErrNoWriteTarget
			}
		}
	}
	for i := 0; i < n; i++ {
		replaceChildValue(owner, matches[i], values[i])
	}
	// Surplus matches are removed back to front so indices stay valid.
	for i := len(matches) - 1; i >= n; i-- {
		owner.removeChildAt(matches[i])
	}
	// Extra assigned values are appended, scalars wrapped in a fresh
	// element named after the query property.
	for _, v := range values[n:] {
		owner.appendRaw(v.materialize(property, owner))
	}
	return nil
}

func (l *List) assignAttribute(owner *Element, property Name, value interface{}) error {
	name := property
	name.attr = false
	if name.local == "*" {
		return ErrNoWriteTarget
	}
	if value == nil {
		// Assigning nothing deletes the attribute.
		rpat := resolvePattern(name, owner)
		for i := len(owner.attrs) - 1; i >= 0; i-- {
			a := owner.attrs[i]
			if rpat.Matches(effectiveName(a.name, owner, true)) {
				owner.removeAttribute(a)
			}
		}
		return nil
	}
	owner.setAttribute(name, assignedString(value))
	return nil
}

// assignedValue is one element of the normalized right-hand side of an
// assignment: either a tree node inserted verbatim, or a scalar that
// keeps the matched element and only swaps its content.
type assignedValue struct {
	node   Node
	scalar string
}

func assignedValues(value interface{}) []assignedValue {
	switch v := value.(type) {
	case *XML:
		switch v.node.(type) {
		case *Text, *Attribute:
			return []assignedValue{{scalar: textContent(v.node)}}
		}
		return []assignedValue{{node: v.node}}
	case *List:
		out := make([]assignedValue, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, assignedValues(item)...)
		}
		return out
	case nil:
		return nil
	default:
		return []assignedValue{{scalar: stringify(v)}}
	}
}

func assignedString(value interface{}) string {
	switch v := value.(type) {
	case *XML:
		return v.ToString()
	case *List:
		return v.ToString()
	default:
		return stringify(v)
	}
}

// replaceChildValue applies one pairwise replacement: a scalar value
// replaces the matched element's content in place, a tree value
// replaces the matched child wholesale.
func replaceChildValue(owner *Element, index int, v assignedValue) {
	if v.node == nil {
		if e, ok := owner.children[index].(*Element); ok {
			for i := len(e.children) - 1; i >= 0; i-- {
				e.removeChildAt(i)
			}
			e.appendRaw(newText(v.scalar))
			return
		}
	}
	// Adopt before removing so an operand that aliases owner's subtree
	// is cloned with the matched child still in place.
	n := v.adopt(owner)
	owner.removeChildAt(index)
	owner.insertRaw(index, n)
}

func (v assignedValue) adopt(owner *Element) Node {
	if v.node != nil {
		if v.node.Parent() != nil || wouldAlias(owner, v.node) {
			return v.node.clone()
		}
		return v.node
	}
	return newText(v.scalar)
}

// materialize produces the node appended for a value beyond the
// existing matches: nodes go in verbatim, scalars become a new element
// named after the property wrapping a text node.
func (v assignedValue) materialize(property Name, owner *Element) Node {
	if v.node != nil {
		return v.adopt(owner)
	}
	name := property
	name.attr = false
	e := newElement(name)
	e.appendRaw(newText(v.scalar))
	return e
}

// ToString returns the concatenated simple content, or the canonical
// markup when the list has complex content.
func (l *List) ToString(options ...CallOption) string {
	if !l.HasSimpleContent() {
		return l.ToXMLString(options...)
	}
	var out string
	for _, item := range l.items {
		switch item.Kind() {
		case CommentNode, ProcessingInstructionNode:
			continue
		}
		out += item.ToString(options...)
	}
	return out
}

// ToXMLString concatenates every member's markup, newline-separated
// when pretty-printing is active. There is no wrapping element.
func (l *List) ToXMLString(options ...CallOption) string {
	s := effectiveSettings(options...)
	var d dumper
	var out string
	for i, item := range l.items {
		if i > 0 && s.PrettyPrinting {
			out += "\n"
		}
		out += d.dumpNode(item.node, s)
	}
	return out
}
