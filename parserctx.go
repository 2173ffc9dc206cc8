package argon

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/argon-go/argon/encoding"
	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/strcursor"
	"github.com/pkg/errors"
)

// maxElementDepth bounds element nesting so adversarial input fails
// cleanly instead of exhausting the parse stack.
const maxElementDepth = 2048

type parserCtx struct {
	cursor   strcursor.Cursor
	buf      []byte // raw input backing the cursor
	offset   int    // bytes consumed from buf
	settings Settings
	depth    int
	roots    []Node
}

func (ctx *parserCtx) init(b []byte, s Settings) {
	ctx.buf = b
	ctx.offset = 0
	ctx.cursor = strcursor.NewRuneCursor(bytes.NewReader(b))
	ctx.settings = s
	ctx.depth = 0
	ctx.roots = nil
}

func (ctx *parserCtx) error(err error) error {
	if _, ok := err.(*ErrParse); ok {
		return err
	}
	// The cursor's line buffer keeps the newline that opened the
	// current line; it is noise in a location report.
	return &ErrParse{
		Err:        err,
		Column:     ctx.cursor.Column(),
		Line:       strings.TrimPrefix(ctx.cursor.Line(), "\n"),
		LineNumber: ctx.cursor.LineNumber(),
	}
}

// curHasChars reports whether n more runes are available. The cursor
// yields RuneError both at end of input and on undecodable bytes, and
// neither can appear in markup we accept.
func (ctx *parserCtx) curHasChars(n int) bool {
	return ctx.cursor.PeekN(n) != utf8.RuneError
}

func (ctx *parserCtx) curDone() bool {
	return ctx.cursor.Done()
}

func (ctx *parserCtx) curAdvance(n int) {
	for i := 1; i <= n; i++ {
		ctx.offset += utf8.RuneLen(ctx.cursor.PeekN(i))
	}
	ctx.cursor.Advance(n)
}

func (ctx *parserCtx) curPeek(n int) rune {
	return ctx.cursor.PeekN(n)
}

// curConsume returns the next n runes and advances past them.
func (ctx *parserCtx) curConsume(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		sb.WriteRune(ctx.cursor.PeekN(i))
	}
	s := sb.String()
	ctx.offset += len(s)
	ctx.cursor.Advance(n)
	return s
}

func (ctx *parserCtx) curConsumePrefix(s string) bool {
	if ctx.cursor.ConsumeString(s) {
		ctx.offset += len(s)
		return true
	}
	return false
}

func (ctx *parserCtx) curHasPrefix(s string) bool {
	return ctx.cursor.HasPrefixString(s)
}

func (ctx *parserCtx) skipBlanks() {
	for isBlankChar(ctx.curPeek(1)) {
		ctx.curAdvance(1)
	}
}

func isBlankChar(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// switchEncoding re-decodes the remaining input when the XML
// declaration names a non-UTF-8 charset.
func (ctx *parserCtx) switchEncoding(name string) error {
	if name == "" {
		return nil
	}
	enc := encoding.Load(name)
	if enc == nil {
		return errors.Errorf("unsupported encoding %q", name)
	}
	// The XML declaration is pure ASCII, so the byte offset consumed so
	// far is valid in the raw buffer no matter what charset follows it.
	b, err := enc.NewDecoder().Bytes(ctx.buf[ctx.offset:])
	if err != nil {
		return errors.Wrapf(err, "failed to decode input as %q", name)
	}
	ctx.buf = b
	ctx.offset = 0
	ctx.cursor = strcursor.NewRuneCursor(bytes.NewReader(b))
	return nil
}

// parseDocument parses the whole buffer into zero or more root nodes.
// Multiple top-level siblings are legal here; the construction entry
// point decides whether that is acceptable for the value being built.
func (ctx *parserCtx) parseDocument() error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if ctx.curHasPrefix("<?xml") && isBlankChar(ctx.curPeek(6)) {
		if err := ctx.parseXMLDecl(); err != nil {
			return ctx.error(err)
		}
	}

	for !ctx.curDone() {
		switch {
		case ctx.curHasPrefix("<!DOCTYPE"):
			if err := ctx.skipDocType(); err != nil {
				return ctx.error(err)
			}
		case ctx.curHasPrefix("<?"):
			pi, err := ctx.parsePI()
			if err != nil {
				return ctx.error(err)
			}
			if pi != nil {
				ctx.roots = append(ctx.roots, pi)
			}
		case ctx.curHasPrefix("<!--"):
			c, err := ctx.parseComment()
			if err != nil {
				return ctx.error(err)
			}
			if c != nil {
				ctx.roots = append(ctx.roots, c)
			}
		case ctx.curHasPrefix("<![CDATA["):
			t, err := ctx.parseCDSect()
			if err != nil {
				return ctx.error(err)
			}
			ctx.appendRoot(t)
		case ctx.curHasPrefix("</"):
			return ctx.error(errDocumentEnd)
		case ctx.curHasPrefix("<"):
			e, err := ctx.parseElement()
			if err != nil {
				return ctx.error(err)
			}
			ctx.roots = append(ctx.roots, e)
		default:
			t, err := ctx.parseCharData()
			if err != nil {
				return ctx.error(err)
			}
			if t != nil {
				ctx.appendRoot(t)
			}
		}
	}
	return nil
}

// appendRoot adds a text node at the top level, merging into a
// trailing text root and honoring the whitespace setting.
func (ctx *parserCtx) appendRoot(t *Text) {
	if t == nil {
		return
	}
	if ctx.settings.IgnoreWhitespace && t.isBlank() {
		return
	}
	if len(ctx.roots) > 0 {
		if prev, ok := ctx.roots[len(ctx.roots)-1].(*Text); ok {
			prev.content += t.content
			return
		}
	}
	ctx.roots = append(ctx.roots, t)
}

// parseXMLDecl consumes <?xml version=".." encoding=".." ..?> and
// switches the input encoding if one was declared.
func (ctx *parserCtx) parseXMLDecl() error {
	ctx.curAdvance(5)
	var declEncoding string
	for {
		ctx.skipBlanks()
		if ctx.curConsumePrefix("?>") {
			break
		}
		if ctx.curDone() {
			return errPrematureEOF
		}
		name, err := ctx.parseName()
		if err != nil {
			return err
		}
		ctx.skipBlanks()
		if !ctx.curConsumePrefix("=") {
			return errors.New("'=' was required here")
		}
		ctx.skipBlanks()
		value, err := ctx.parseQuoted()
		if err != nil {
			return err
		}
		if name == "encoding" {
			declEncoding = value
		}
	}
	return ctx.switchEncoding(declEncoding)
}

// skipDocType consumes a DOCTYPE declaration without interpreting it.
// DTD validation is out of scope; the markup is simply dropped.
func (ctx *parserCtx) skipDocType() error {
	ctx.curAdvance(9)
	depth := 0
	for !ctx.curDone() {
		switch ctx.curPeek(1) {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				ctx.curAdvance(1)
				return nil
			}
		}
		ctx.curAdvance(1)
	}
	return errPrematureEOF
}

func (ctx *parserCtx) parseElement() (*Element, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.depth > maxElementDepth {
		return nil, ErrTooDeep
	}

	e, closed, err := ctx.parseStartTag()
	if err != nil {
		return nil, err
	}
	if closed {
		return e, nil
	}
	if err := ctx.parseContent(e); err != nil {
		return nil, err
	}
	if err := ctx.parseEndTag(e); err != nil {
		return nil, err
	}
	return e, nil
}

// parseStartTag parses "<name attr=.. xmlns..>" up to and including the
// closing ">" or "/>". The second return value is true for an empty
// element.
func (ctx *parserCtx) parseStartTag() (*Element, bool, error) {
	ctx.curAdvance(1) // consume '<'
	prefix, local, err := ctx.parseQName()
	if err != nil {
		return nil, false, err
	}
	e := newElement(Name{prefix: prefix, local: local})

	for {
		ctx.skipBlanks()
		if ctx.curConsumePrefix("/>") {
			return e, true, nil
		}
		if ctx.curConsumePrefix(">") {
			return e, false, nil
		}
		if ctx.curDone() {
			return nil, false, errPrematureEOF
		}

		aprefix, alocal, err := ctx.parseQName()
		if err != nil {
			return nil, false, err
		}
		ctx.skipBlanks()
		if !ctx.curConsumePrefix("=") {
			return nil, false, errors.New("'=' was required here")
		}
		ctx.skipBlanks()
		raw, err := ctx.parseQuoted()
		if err != nil {
			return nil, false, err
		}
		value, err := decodeReferences(raw)
		if err != nil {
			return nil, false, err
		}

		switch {
		case aprefix == "" && alocal == "xmlns":
			e.declareNamespace("", value)
		case aprefix == "xmlns":
			e.declareNamespace(alocal, value)
		default:
			e.setAttribute(Name{prefix: aprefix, local: alocal}, value)
		}
	}
}

func (ctx *parserCtx) parseEndTag(e *Element) error {
	if !ctx.curConsumePrefix("</") {
		return errors.New("'</' is required")
	}
	prefix, local, err := ctx.parseQName()
	if err != nil {
		return err
	}
	ctx.skipBlanks()
	if !ctx.curConsumePrefix(">") {
		return errGtRequired
	}
	if prefix != e.name.prefix || local != e.name.local {
		return errors.Wrapf(errTagMismatch, "expected </%s>", e.name.String())
	}
	return nil
}

// parseContent fills e's child sequence until the next close tag.
func (ctx *parserCtx) parseContent(e *Element) error {
	for !ctx.curDone() {
		switch {
		case ctx.curHasPrefix("</"):
			return nil
		case ctx.curHasPrefix("<?"):
			pi, err := ctx.parsePI()
			if err != nil {
				return err
			}
			if pi != nil {
				e.appendRaw(pi)
			}
		case ctx.curHasPrefix("<!--"):
			c, err := ctx.parseComment()
			if err != nil {
				return err
			}
			if c != nil {
				e.appendRaw(c)
			}
		case ctx.curHasPrefix("<![CDATA["):
			t, err := ctx.parseCDSect()
			if err != nil {
				return err
			}
			ctx.appendText(e, t, false)
		case ctx.curHasPrefix("<"):
			child, err := ctx.parseElement()
			if err != nil {
				return err
			}
			e.appendRaw(child)
		default:
			t, err := ctx.parseCharData()
			if err != nil {
				return err
			}
			ctx.appendText(e, t, true)
		}
	}
	return errPrematureEOF
}

// appendText attaches a text node, merging with an adjacent trailing
// text child. Whitespace-only character data is dropped for good when
// the setting asks for it; CDATA content is kept verbatim.
func (ctx *parserCtx) appendText(e *Element, t *Text, droppable bool) {
	if t == nil {
		return
	}
	if droppable && ctx.settings.IgnoreWhitespace && t.isBlank() {
		return
	}
	if len(e.children) > 0 {
		if prev, ok := e.children[len(e.children)-1].(*Text); ok {
			prev.content += t.content
			return
		}
	}
	e.appendRaw(t)
}

func (ctx *parserCtx) parseCharData() (*Text, error) {
	i := 1
	for ctx.curHasChars(i) {
		c := ctx.curPeek(i)
		if c == '<' {
			break
		}
		if c == ']' && ctx.curPeek(i+1) == ']' && ctx.curPeek(i+2) == '>' {
			return nil, errors.New("misplaced CDATA end ']]>'")
		}
		i++
	}
	if i == 1 {
		return nil, errInvalidChar
	}
	raw := ctx.curConsume(i - 1)
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	decoded, err := decodeReferences(raw)
	if err != nil {
		return nil, err
	}
	return newText(decoded), nil
}

func (ctx *parserCtx) parseCDSect() (*Text, error) {
	ctx.curAdvance(9) // <![CDATA[
	i := 1
	for ctx.curHasChars(i) {
		if ctx.curPeek(i) == ']' && ctx.curPeek(i+1) == ']' && ctx.curPeek(i+2) == '>' {
			content := ctx.curConsume(i - 1)
			ctx.curAdvance(3)
			return newText(content), nil
		}
		i++
	}
	return nil, errors.New("CDATA section not terminated")
}

func (ctx *parserCtx) parseComment() (*Comment, error) {
	ctx.curAdvance(4) // <!--
	i := 1
	for ctx.curHasChars(i) {
		if ctx.curPeek(i) == '-' && ctx.curPeek(i+1) == '-' {
			if ctx.curPeek(i+2) != '>' {
				return nil, errors.New("'--' not allowed in comment")
			}
			content := ctx.curConsume(i - 1)
			ctx.curAdvance(3)
			if ctx.settings.IgnoreComments {
				return nil, nil
			}
			return newComment(content), nil
		}
		i++
	}
	return nil, errors.New("comment not terminated")
}

func (ctx *parserCtx) parsePI() (*ProcessingInstruction, error) {
	ctx.curAdvance(2) // <?
	target, err := ctx.parseName()
	if err != nil {
		return nil, err
	}
	ctx.skipBlanks()
	i := 1
	for ctx.curHasChars(i) {
		if ctx.curPeek(i) == '?' && ctx.curPeek(i+1) == '>' {
			data := ctx.curConsume(i - 1)
			ctx.curAdvance(2)
			if ctx.settings.IgnoreProcessingInstructions {
				return nil, nil
			}
			return newProcessingInstruction(target, data), nil
		}
		i++
	}
	return nil, errors.New("processing instruction not terminated")
}

func (ctx *parserCtx) parseName() (string, error) {
	i := 1
	for ctx.curHasChars(i) {
		c := ctx.curPeek(i)
		if i == 1 {
			if !isNameStartChar(c) {
				return "", ErrInvalidName
			}
		} else if !isNameChar(c) {
			break
		}
		i++
	}
	if i == 1 {
		return "", ErrInvalidName
	}
	return ctx.curConsume(i - 1), nil
}

func (ctx *parserCtx) parseQName() (prefix string, local string, err error) {
	first, err := ctx.parseName()
	if err != nil {
		return "", "", err
	}
	if !ctx.curConsumePrefix(":") {
		return "", first, nil
	}
	second, err := ctx.parseName()
	if err != nil {
		return "", "", err
	}
	return first, second, nil
}

func (ctx *parserCtx) parseQuoted() (string, error) {
	q := ctx.curPeek(1)
	if q != '"' && q != '\'' {
		return "", errors.New("quoted value required")
	}
	ctx.curAdvance(1)
	i := 1
	for ctx.curHasChars(i) {
		if ctx.curPeek(i) == q {
			v := ctx.curConsume(i - 1)
			ctx.curAdvance(1)
			return v, nil
		}
		i++
	}
	return "", errPrematureEOF
}

// bakeNamespaces resolves every element and prefixed-attribute name
// against the declarations in scope and pins the URI onto the name.
// Once baked, a subtree keeps meaning the same thing after it is
// copied or detached from the ancestors that declared its prefixes.
func bakeNamespaces(root Node) {
	e, ok := root.(*Element)
	if !ok {
		return
	}
	type job struct {
		elem  *Element
		scope *NamespaceScope
	}
	work := []job{{e, newScope(nil)}}
	for len(work) > 0 {
		j := work[len(work)-1]
		work = work[:len(work)-1]
		scope := j.scope
		if j.elem.nsDecls != nil {
			scope = newScope(scope)
			for prefix, uri := range j.elem.nsDecls.Range() {
				scope.bind(prefix, uri)
			}
		}
		if j.elem.name.uri == nil {
			if uri, ok := scope.Resolve(j.elem.name.prefix); ok && (j.elem.name.prefix != "" || uri != "") {
				u := uri
				j.elem.name.uri = &u
			}
		}
		for _, a := range j.elem.attrs {
			if a.name.prefix == "" || a.name.uri != nil {
				continue
			}
			if uri, ok := scope.Resolve(a.name.prefix); ok {
				u := uri
				a.name.uri = &u
			}
		}
		for _, c := range j.elem.children {
			if ce, ok := c.(*Element); ok {
				work = append(work, job{ce, scope})
			}
		}
	}
}

// decodeReferences expands character and predefined entity references.
func decodeReferences(s string) (string, error) {
	if !strings.ContainsRune(s, '&') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '&' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", errors.Wrap(errEntity, "';' is required")
		}
		ref := s[i+1 : i+end]
		decoded, err := decodeReference(ref)
		if err != nil {
			return "", err
		}
		sb.WriteString(decoded)
		i += end + 1
	}
	return sb.String(), nil
}

func decodeReference(ref string) (string, error) {
	switch ref {
	case "amp":
		return "&", nil
	case "lt":
		return "<", nil
	case "gt":
		return ">", nil
	case "quot":
		return `"`, nil
	case "apos":
		return "'", nil
	}
	if strings.HasPrefix(ref, "#x") || strings.HasPrefix(ref, "#X") {
		v, err := strconv.ParseInt(ref[2:], 16, 32)
		if err != nil {
			return "", errors.Wrapf(errEntity, "invalid hex CharRef &%s;", ref)
		}
		return string(rune(v)), nil
	}
	if strings.HasPrefix(ref, "#") {
		v, err := strconv.ParseInt(ref[1:], 10, 32)
		if err != nil {
			return "", errors.Wrapf(errEntity, "invalid decimal CharRef &%s;", ref)
		}
		return string(rune(v)), nil
	}
	return "", errors.Wrapf(errEntity, "undeclared entity &%s;", ref)
}
