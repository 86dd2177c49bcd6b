package richtext

import "encoding/json"

// NodeType identifies the kind of a rich text node.
type NodeType string

// Node types produced by the converter.
const (
	NodeDocument        NodeType = "document"
	NodeParagraph       NodeType = "paragraph"
	NodeHeading1        NodeType = "heading-1"
	NodeHeading2        NodeType = "heading-2"
	NodeHeading3        NodeType = "heading-3"
	NodeHeading4        NodeType = "heading-4"
	NodeHeading5        NodeType = "heading-5"
	NodeHeading6        NodeType = "heading-6"
	NodeOrderedList     NodeType = "ordered-list"
	NodeUnorderedList   NodeType = "unordered-list"
	NodeListItem        NodeType = "list-item"
	NodeHR              NodeType = "hr"
	NodeBlockquote      NodeType = "blockquote"
	NodeTable           NodeType = "table"
	NodeTableRow        NodeType = "table-row"
	NodeTableHeaderCell NodeType = "table-header-cell"
	NodeTableCell       NodeType = "table-cell"
	NodeHyperlink       NodeType = "hyperlink"
	NodeText            NodeType = "text"
)

var headingTypes = [...]NodeType{
	NodeHeading1, NodeHeading2, NodeHeading3,
	NodeHeading4, NodeHeading5, NodeHeading6,
}

// HeadingType returns the node type for a heading level, clamped to 1..6.
func HeadingType(level int) NodeType {
	if level < 1 {
		level = 1
	}
	if level > len(headingTypes) {
		level = len(headingTypes)
	}
	return headingTypes[level-1]
}

// IsHeading reports whether t is one of the heading node types.
func (t NodeType) IsHeading() bool {
	for _, h := range headingTypes {
		if t == h {
			return true
		}
	}
	return false
}

// MarkType identifies a text formatting mark.
type MarkType string

// Mark types. Markdown has no syntax for underline, superscript or subscript;
// they are listed because documents may carry them.
const (
	MarkBold          MarkType = "bold"
	MarkItalic        MarkType = "italic"
	MarkUnderline     MarkType = "underline"
	MarkCode          MarkType = "code"
	MarkSuperscript   MarkType = "superscript"
	MarkSubscript     MarkType = "subscript"
	MarkStrikethrough MarkType = "strikethrough"
)

// Mark is a formatting mark applied to a text node.
type Mark struct {
	Type MarkType `json:"type"`
}

// Data holds node-specific attributes, e.g. the uri of a hyperlink.
type Data map[string]any

// Node is a single block, inline or text node.
// Text nodes use Value and Marks; all other nodes use Content.
type Node struct {
	NodeType NodeType
	Data     Data
	Content  []*Node
	Value    string
	Marks    []Mark
}

type blockJSON struct {
	NodeType NodeType `json:"nodeType"`
	Data     Data     `json:"data"`
	Content  []*Node  `json:"content"`
}

type textJSON struct {
	NodeType NodeType `json:"nodeType"`
	Value    string   `json:"value"`
	Marks    []Mark   `json:"marks"`
	Data     Data     `json:"data"`
}

// MarshalJSON always emits data, and content or marks, as empty
// containers rather than null.
func (n *Node) MarshalJSON() ([]byte, error) {
	data := n.Data
	if data == nil {
		data = Data{}
	}

	if n.NodeType == NodeText {
		marks := n.Marks
		if marks == nil {
			marks = []Mark{}
		}
		return json.Marshal(textJSON{NodeType: n.NodeType, Value: n.Value, Marks: marks, Data: data})
	}

	content := n.Content
	if content == nil {
		content = []*Node{}
	}
	return json.Marshal(blockJSON{NodeType: n.NodeType, Data: data, Content: content})
}

// UnmarshalJSON accepts both block and text layouts.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw struct {
		NodeType NodeType `json:"nodeType"`
		Data     Data     `json:"data"`
		Content  []*Node  `json:"content"`
		Value    string   `json:"value"`
		Marks    []Mark   `json:"marks"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*n = Node{
		NodeType: raw.NodeType,
		Data:     raw.Data,
		Content:  raw.Content,
		Value:    raw.Value,
		Marks:    raw.Marks,
	}
	return nil
}

// Document is the root of a rich text tree.
type Document struct {
	Content []*Node
}

// MarshalJSON renders the document as a node of type "document".
func (d *Document) MarshalJSON() ([]byte, error) {
	content := d.Content
	if content == nil {
		content = []*Node{}
	}
	return json.Marshal(blockJSON{NodeType: NodeDocument, Data: Data{}, Content: content})
}

// UnmarshalJSON reads a document node.
func (d *Document) UnmarshalJSON(b []byte) error {
	var root Node
	if err := json.Unmarshal(b, &root); err != nil {
		return err
	}
	d.Content = root.Content
	return nil
}

// Block returns a block node of type t with the given children.
func Block(t NodeType, children ...*Node) *Node {
	return &Node{NodeType: t, Data: Data{}, Content: children}
}

// Paragraph returns a paragraph containing children.
func Paragraph(children ...*Node) *Node {
	return Block(NodeParagraph, children...)
}

// Heading returns a heading of the given level containing children.
func Heading(level int, children ...*Node) *Node {
	return Block(HeadingType(level), children...)
}

// Hyperlink returns a hyperlink to uri containing children.
func Hyperlink(uri string, children ...*Node) *Node {
	return &Node{NodeType: NodeHyperlink, Data: Data{"uri": uri}, Content: children}
}

// Text returns a text node with the given marks.
func Text(value string, marks ...MarkType) *Node {
	n := &Node{NodeType: NodeText, Data: Data{}, Value: value, Marks: []Mark{}}
	for _, m := range marks {
		n.Marks = append(n.Marks, Mark{Type: m})
	}
	return n
}
