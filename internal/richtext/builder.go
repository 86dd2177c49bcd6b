package richtext

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

// builder maps a goldmark AST onto rich text nodes. A builder is bound to the
// source it was parsed from and is used for a single conversion.
type builder struct {
	source []byte
}

func newBuilder(source []byte) *builder {
	return &builder{source: source}
}

func (b *builder) document(root ast.Node) *Document {
	return &Document{Content: b.blocks(root)}
}

// blocks converts the children of n into block nodes.
func (b *builder) blocks(n ast.Node) []*Node {
	var out []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, b.block(child)...)
	}
	return out
}

func (b *builder) block(n ast.Node) []*Node {
	switch n := n.(type) {
	case *ast.Heading:
		return []*Node{Block(HeadingType(n.Level), b.inlineContent(n)...)}

	case *ast.Paragraph, *ast.TextBlock:
		inlines := b.inlines(n, nil)
		if len(inlines) == 0 {
			return nil
		}
		return []*Node{Paragraph(inlines...)}

	case *ast.ThematicBreak:
		return []*Node{Block(NodeHR)}

	case *ast.FencedCodeBlock:
		return b.codeBlock(n)

	case *ast.CodeBlock:
		return b.codeBlock(n)

	case *ast.Blockquote:
		return []*Node{Block(NodeBlockquote, nonEmpty(toParagraphs(b.blocks(n)))...)}

	case *ast.List:
		listType := NodeUnorderedList
		if n.IsOrdered() {
			listType = NodeOrderedList
		}
		var items []*Node
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			items = append(items, b.listItem(child))
		}
		if len(items) == 0 {
			return nil
		}
		return []*Node{Block(listType, items...)}

	case *ast.ListItem:
		return []*Node{b.listItem(n)}

	case *east.Table:
		return b.table(n)

	case *ast.HTMLBlock:
		// Raw HTML has no rich text equivalent
		return nil

	default:
		if n.Type() == ast.TypeInline {
			if inlines := b.inline(n, nil); len(inlines) > 0 {
				return []*Node{Paragraph(inlines...)}
			}
			return nil
		}
		return b.blocks(n)
	}
}

func (b *builder) codeBlock(n ast.Node) []*Node {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(b.source))
	}

	code := strings.TrimRight(buf.String(), "\n")
	if code == "" {
		return nil
	}
	return []*Node{Paragraph(Text(code, MarkCode))}
}

// listItem keeps paragraphs and nested lists; other blocks are flattened to
// paragraphs.
func (b *builder) listItem(n ast.Node) *Node {
	var content []*Node
	for _, child := range b.blocks(n) {
		switch {
		case child.NodeType == NodeOrderedList, child.NodeType == NodeUnorderedList:
			content = append(content, child)
		default:
			content = append(content, toParagraphs([]*Node{child})...)
		}
	}
	return Block(NodeListItem, nonEmpty(content)...)
}

func (b *builder) table(n *east.Table) []*Node {
	var rows []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		cellType := NodeTableCell
		if _, ok := child.(*east.TableHeader); ok {
			cellType = NodeTableHeaderCell
		}

		var cells []*Node
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			inlines := b.inlines(cell, nil)
			if len(inlines) == 0 {
				inlines = []*Node{Text("")}
			}
			cells = append(cells, Block(cellType, Paragraph(inlines...)))
		}
		if len(cells) > 0 {
			rows = append(rows, Block(NodeTableRow, cells...))
		}
	}

	if len(rows) == 0 {
		return nil
	}
	return []*Node{Block(NodeTable, rows...)}
}

// inlineContent returns the inline children of n, never empty.
func (b *builder) inlineContent(n ast.Node) []*Node {
	inlines := b.inlines(n, nil)
	if len(inlines) == 0 {
		return []*Node{Text("")}
	}
	return inlines
}

// inlines converts the children of n, applying marks to every text leaf.
func (b *builder) inlines(n ast.Node, marks []MarkType) []*Node {
	var out []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, b.inline(child, marks)...)
	}
	return mergeText(out)
}

func (b *builder) inline(n ast.Node, marks []MarkType) []*Node {
	switch n := n.(type) {
	case *ast.Text:
		value := n.Segment.Value(b.source)
		if !n.IsRaw() {
			value = unescape(value)
		}
		text := string(value)
		if n.SoftLineBreak() || n.HardLineBreak() {
			text += "\n"
		}
		if text == "" {
			return nil
		}
		return []*Node{Text(text, marks...)}

	case *ast.String:
		if len(n.Value) == 0 {
			return nil
		}
		return []*Node{Text(string(n.Value), marks...)}

	case *ast.CodeSpan:
		var buf bytes.Buffer
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Text:
				buf.Write(c.Segment.Value(b.source))
			case *ast.String:
				buf.Write(c.Value)
			}
		}
		code := strings.ReplaceAll(buf.String(), "\n", " ")
		return []*Node{Text(code, withMark(marks, MarkCode)...)}

	case *ast.Emphasis:
		mark := MarkItalic
		if n.Level >= 2 {
			mark = MarkBold
		}
		return b.inlines(n, withMark(marks, mark))

	case *east.Strikethrough:
		return b.inlines(n, withMark(marks, MarkStrikethrough))

	case *ast.Link:
		uri := string(n.Destination)
		content := b.inlines(n, marks)
		content = textOnly(content)
		if len(content) == 0 {
			content = []*Node{Text(uri, marks...)}
		}
		return []*Node{Hyperlink(uri, content...)}

	case *ast.AutoLink:
		uri := string(n.URL(b.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(uri), "mailto:") {
			uri = "mailto:" + uri
		}
		label := string(n.Label(b.source))
		return []*Node{Hyperlink(uri, Text(label, marks...))}

	case *east.TaskCheckBox:
		if n.IsChecked {
			return []*Node{Text("[x] ", marks...)}
		}
		return []*Node{Text("[ ] ", marks...)}

	case *ast.Image, *ast.RawHTML:
		// Images need an asset store; raw HTML has no equivalent
		return nil

	default:
		return b.inlines(n, marks)
	}
}

// unescape resolves backslash escapes and character references in one pass.
// An escaped character is always literal, so `\&amp;` stays "&amp;".
func unescape(value []byte) []byte {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); {
		c := value[i]
		if c == '\\' && i+1 < len(value) && util.IsPunct(value[i+1]) {
			out = append(out, value[i+1])
			i += 2
			continue
		}
		if c == '&' {
			if n := referenceLength(value[i:]); n > 0 {
				ref := util.ResolveNumericReferences(value[i : i+n])
				out = append(out, util.ResolveEntityNames(ref)...)
				i += n
				continue
			}
		}
		out = append(out, c)
		i++
	}
	return out
}

// maxReferenceLength covers the longest named entity plus '&' and ';'.
const maxReferenceLength = 34

// referenceLength returns the length of the &...; candidate at the start of b,
// or 0 when b does not start with one. Unknown names are left to the resolvers,
// which keep them verbatim.
func referenceLength(b []byte) int {
	for j := 1; j < len(b) && j < maxReferenceLength; j++ {
		c := b[j]
		switch {
		case c == ';':
			if j == 1 {
				return 0
			}
			return j + 1
		case c == '#' && j == 1:
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return 0
		}
	}
	return 0
}

// withMark returns a copy of marks with mark appended, unless already present.
func withMark(marks []MarkType, mark MarkType) []MarkType {
	out := make([]MarkType, 0, len(marks)+1)
	for _, m := range marks {
		if m == mark {
			return append(out, marks...)
		}
	}
	out = append(out, marks...)
	return append(out, mark)
}

// mergeText joins adjacent text nodes that carry the same marks.
func mergeText(nodes []*Node) []*Node {
	if len(nodes) < 2 {
		return nodes
	}

	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.NodeType == NodeText && n.NodeType == NodeText && sameMarks(last.Marks, n.Marks) {
				last.Value += n.Value
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func sameMarks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// textOnly flattens hyperlinks nested inside a hyperlink into their text.
func textOnly(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n.NodeType == NodeText {
			out = append(out, n)
			continue
		}
		out = append(out, textOnly(n.Content)...)
	}
	return mergeText(out)
}

// toParagraphs reduces blocks to paragraphs: headings keep their inline
// content, containers are flattened and horizontal rules dropped.
func toParagraphs(blocks []*Node) []*Node {
	var out []*Node
	for _, n := range blocks {
		switch {
		case n.NodeType == NodeParagraph:
			out = append(out, n)
		case n.NodeType.IsHeading():
			out = append(out, Paragraph(n.Content...))
		case n.NodeType == NodeHR:
		default:
			out = append(out, toParagraphs(n.Content)...)
		}
	}
	return out
}

// nonEmpty guarantees a container holds at least one paragraph.
func nonEmpty(content []*Node) []*Node {
	if len(content) == 0 {
		return []*Node{Paragraph(Text(""))}
	}
	return content
}
