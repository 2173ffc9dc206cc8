package argon

import (
	"github.com/pkg/errors"
)

// Parse builds a single XML value from markup. The empty (or blank)
// string yields an empty text node; markup with more than one
// top-level node is rejected, since a single XML value has exactly one
// root -- use ParseList for document fragments.
func Parse(src string, options ...CallOption) (*XML, error) {
	roots, err := parseRoots(src, effectiveSettings(options...))
	if err != nil {
		return nil, err
	}
	switch len(roots) {
	case 0:
		return New(), nil
	case 1:
		return xmlFor(roots[0]), nil
	}
	return nil, errors.New("markup contains multiple top-level nodes")
}

// ParseList builds an XML list from markup; each top-level node
// becomes one member.
func ParseList(src string, options ...CallOption) (*List, error) {
	roots, err := parseRoots(src, effectiveSettings(options...))
	if err != nil {
		return nil, err
	}
	list := newList(make([]*XML, 0, len(roots)))
	for _, n := range roots {
		list.items = append(list.items, xmlFor(n))
	}
	return list, nil
}

func parseRoots(src string, s Settings) ([]Node, error) {
	var ctx parserCtx
	ctx.init([]byte(src), s)
	if err := ctx.parseDocument(); err != nil {
		return nil, err
	}
	for _, root := range ctx.roots {
		bakeNamespaces(root)
	}
	return ctx.roots, nil
}

// BuildValue is the polymorphic construction entry point: nil yields an
// empty value, a tree value is deep-copied, a list is copied member-wise
// into a single-rooted value when possible, and anything else is
// stringified and parsed as markup.
func BuildValue(value interface{}, options ...CallOption) (*XML, error) {
	switch v := value.(type) {
	case nil:
		return New(), nil
	case *XML:
		return v.Copy(), nil
	case *List:
		if len(v.items) == 1 {
			return v.items[0].Copy(), nil
		}
		return nil, errors.New("cannot build a single XML value from a list of length != 1")
	case string:
		return Parse(v, options...)
	default:
		return Parse(stringify(v), options...)
	}
}

// BuildListValue is BuildValue for lists: markup with several top-level
// siblings becomes a several-member list.
func BuildListValue(value interface{}, options ...CallOption) (*List, error) {
	switch v := value.(type) {
	case nil:
		return newList(nil), nil
	case *List:
		return v.Copy(), nil
	case *XML:
		return newList([]*XML{v.Copy()}), nil
	case string:
		return ParseList(v, options...)
	default:
		return ParseList(stringify(v), options...)
	}
}
