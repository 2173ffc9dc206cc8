package argon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendChild(t *testing.T) {
	a, err := NewElement("a")
	if !assert.NoError(t, err, "NewElement succeeds") {
		return
	}
	b, err := Parse(`<b/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}

	if _, err := a.AppendChild(b); !assert.NoError(t, err, "AppendChild succeeds") {
		return
	}
	if !assert.Equal(t, "<a>\n  <b/>\n</a>", a.ToXMLString(), "appended child serializes nested") {
		return
	}

	if _, err := a.AppendChild("text"); !assert.NoError(t, err, "string operands become text nodes") {
		return
	}
	if !assert.Equal(t, 1, a.Text().Length(), "one text child after the string append") {
		return
	}
}

func TestPrependChild(t *testing.T) {
	x, err := Parse(`<a><b/></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	c, err := Parse(`<c/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}

	if _, err := x.PrependChild(c); !assert.NoError(t, err, "PrependChild succeeds") {
		return
	}
	if !assert.Equal(t, "<a>\n  <c/>\n  <b/>\n</a>", x.ToXMLString(), "prepended child comes first") {
		return
	}
}

func TestInsertChildBeforeAndAfter(t *testing.T) {
	x, err := Parse(`<a><b/><d/></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	ref := x.Children().Index(1)

	c, err := Parse(`<c/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	if _, err := x.InsertChildBefore(ref, c); !assert.NoError(t, err, "InsertChildBefore succeeds") {
		return
	}
	if !assert.Equal(t, "<a>\n  <b/>\n  <c/>\n  <d/>\n</a>", x.ToXMLString(), "inserted before the reference") {
		return
	}

	e, err := Parse(`<e/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	if _, err := x.InsertChildAfter(ref, e); !assert.NoError(t, err, "InsertChildAfter succeeds") {
		return
	}
	if !assert.Equal(t, "<a>\n  <b/>\n  <c/>\n  <d/>\n  <e/>\n</a>", x.ToXMLString(), "inserted after the reference") {
		return
	}
}

func TestInsertChildMissingRefAppends(t *testing.T) {
	x, err := Parse(`<a><b/></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	stranger, err := Parse(`<z/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	c, err := Parse(`<c/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}

	if _, err := x.InsertChildBefore(stranger, c); !assert.NoError(t, err, "missing reference falls back to append") {
		return
	}
	if !assert.Equal(t, "<a>\n  <b/>\n  <c/>\n</a>", x.ToXMLString(), "operand landed at the end") {
		return
	}
}

func TestReplace(t *testing.T) {
	x, err := Parse(`<a><b>1</b><c/><b>2</b></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	repl, err := Parse(`<n/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}

	if _, err := x.Replace("b", repl); !assert.NoError(t, err, "Replace succeeds") {
		return
	}
	if !assert.Equal(t, "<a>\n  <n/>\n  <c/>\n</a>", x.ToXMLString(), "first match replaced, surplus removed") {
		return
	}
}

func TestReplaceNoMatchAppends(t *testing.T) {
	x, err := Parse(`<a><b/></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	repl, err := Parse(`<n/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}

	if _, err := x.Replace("missing", repl); !assert.NoError(t, err, "Replace without a match succeeds") {
		return
	}
	if !assert.Equal(t, "<a>\n  <b/>\n  <n/>\n</a>", x.ToXMLString(), "operand appended instead") {
		return
	}
}

func TestReplaceAttributePatternRejected(t *testing.T) {
	x, err := Parse(`<a id="1"/>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	_, err = x.Replace("@id", "2")
	if !assert.ErrorIs(t, err, ErrNotApplicable, "Replace only works on child properties") {
		return
	}
}

func TestAttachClonesOwnedOperand(t *testing.T) {
	src, err := Parse(`<s><b>keep</b></s>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	dst, err := NewElement("d")
	if !assert.NoError(t, err, "NewElement succeeds") {
		return
	}

	b := src.Children().Index(0)
	if _, err := dst.AppendChild(b); !assert.NoError(t, err, "AppendChild succeeds") {
		return
	}

	// The operand still belongs to its original tree; the destination
	// got an independent copy.
	if !assert.Equal(t, "<s>\n  <b>keep</b>\n</s>", src.ToXMLString(), "source tree untouched") {
		return
	}

	got, err := dst.Child("b")
	if !assert.NoError(t, err, `Child("b") succeeds`) {
		return
	}
	if !assert.Equal(t, 1, got.Length(), "destination holds a copy") {
		return
	}
	if err := got.Assign("changed"); !assert.NoError(t, err, "Assign succeeds") {
		return
	}
	if !assert.Equal(t, "keep", src.Children().Index(0).ToString(), "mutating the copy leaves the source alone") {
		return
	}
}

func TestCopyIndependence(t *testing.T) {
	x, err := Parse(`<a><b>1</b></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}

	cp := x.Copy()
	if !assert.Nil(t, cp.Parent(), "copies are parentless") {
		return
	}
	if !assert.True(t, x.Equals(cp), "copies start structurally equal") {
		return
	}

	list, err := cp.Child("b")
	if !assert.NoError(t, err, `Child("b") succeeds`) {
		return
	}
	if err := list.Assign("2"); !assert.NoError(t, err, "Assign succeeds") {
		return
	}
	if !assert.Equal(t, "1", mustChildString(t, x, "b"), "mutating the copy leaves the original") {
		return
	}

	list, err = x.Child("b")
	if !assert.NoError(t, err, `Child("b") succeeds`) {
		return
	}
	if err := list.Assign("3"); !assert.NoError(t, err, "Assign succeeds") {
		return
	}
	if !assert.Equal(t, "2", mustChildString(t, cp, "b"), "and the other way around") {
		return
	}
}

func mustChildString(t *testing.T, x *XML, name string) string {
	t.Helper()
	list, err := x.Child(name)
	if !assert.NoError(t, err, "Child(%q) succeeds", name) {
		return ""
	}
	return list.ToString()
}

func TestSetName(t *testing.T) {
	x, err := Parse(`<a id="1"><b/></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}

	if !assert.NoError(t, x.SetName("z"), "SetName succeeds") {
		return
	}
	if !assert.Equal(t, "<z id=\"1\">\n  <b/>\n</z>", x.ToXMLString(), "rename keeps attributes and children") {
		return
	}

	if !assert.ErrorIs(t, x.SetName("1bad"), ErrInvalidName, "invalid names are rejected") {
		return
	}
	if !assert.ErrorIs(t, NewTextValue("t").SetName("z"), ErrNotApplicable, "text nodes cannot be renamed") {
		return
	}
}

func TestMutationOnNonElement(t *testing.T) {
	txt := NewTextValue("t")
	_, err := txt.AppendChild("x")
	if !assert.ErrorIs(t, err, ErrNotApplicable, "text nodes take no children") {
		return
	}
	_, err = txt.Replace("a", "x")
	if !assert.ErrorIs(t, err, ErrNotApplicable, "nor replacements") {
		return
	}
}

func TestAppendChildSelf(t *testing.T) {
	a, err := NewElement("a")
	if !assert.NoError(t, err, "NewElement succeeds") {
		return
	}

	if _, err := a.AppendChild(a); !assert.NoError(t, err, "self append succeeds") {
		return
	}
	if !assert.Equal(t, "<a>\n  <a/>\n</a>", a.ToXMLString(), "self operand goes in as a copy") {
		return
	}
}

func TestAppendChildAncestor(t *testing.T) {
	x, err := Parse(`<a><b/></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	b := x.Children().Index(0)

	if _, err := b.AppendChild(x); !assert.NoError(t, err, "attaching the root under its child succeeds") {
		return
	}
	if !assert.Equal(t, "<a>\n  <b>\n    <a>\n      <b/>\n    </a>\n  </b>\n</a>", x.ToXMLString(), "ancestor operand goes in as a snapshot") {
		return
	}
}
