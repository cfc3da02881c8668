package docxtiptap

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Editor node types
const (
	NodeDoc         = "doc"
	NodeParagraph   = "paragraph"
	NodeHeading     = "heading"
	NodeText        = "text"
	NodeTable       = "table"
	NodeTableRow    = "tableRow"
	NodeTableHeader = "tableHeader"
	NodeTableCell   = "tableCell"
	NodeSection     = "section"
	NodeRawStyles   = "rawStylesStorage"
)

// Mark types
const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkInsertion = "insertion"
	MarkDeletion  = "deletion"
	MarkComment   = "comment"
)

// MaxHeadingLevel is the deepest heading the editor schema supports
const MaxHeadingLevel = 6

// Node is a TipTap/ProseMirror JSON node
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark is an inline formatting annotation on a text node
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ParseNode decodes a JSON document tree
func ParseNode(data []byte) (*Node, error) {
	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse document JSON: %w", err)
	}
	return &node, nil
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		out.Attrs = cloneAttrs(n.Attrs)
	}
	if n.Content != nil {
		out.Content = make([]*Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = c.Clone()
		}
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			out.Marks[i] = Mark{Type: m.Type}
			if m.Attrs != nil {
				out.Marks[i].Attrs = cloneAttrs(m.Attrs)
			}
		}
	}
	return out
}

func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneAttrs(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []int:
		return append([]int(nil), t...)
	}
	return v
}

// SetAttr sets an attribute, allocating the map when needed
func (n *Node) SetAttr(key string, value any) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[key] = value
}

// StringAttr returns a string attribute or ""
func (n *Node) StringAttr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	switch v := n.Attrs[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// IntAttr returns an integer attribute. Numbers decoded from JSON arrive as
// float64 and numeric strings are accepted too.
func (n *Node) IntAttr(key string) (int, bool) {
	if n == nil || n.Attrs == nil {
		return 0, false
	}
	return toInt(n.Attrs[key])
}

// IntsAttr returns an integer list attribute such as colwidths
func (n *Node) IntsAttr(key string) []int {
	if n == nil || n.Attrs == nil {
		return nil
	}
	switch v := n.Attrs[key].(type) {
	case []int:
		return v
	case []any:
		out := make([]int, 0, len(v))
		for _, e := range v {
			i, ok := toInt(e)
			if !ok {
				return nil
			}
			out = append(out, i)
		}
		return out
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(t)
		return i, err == nil
	}
	return 0, false
}

// HasMark reports whether the text node carries a mark of the given type
func (n *Node) HasMark(markType string) bool {
	for _, m := range n.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// PlainText concatenates the text of all descendant text nodes
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	if n.Type == NodeText {
		return n.Text
	}
	var s []byte
	for _, c := range n.Content {
		s = append(s, c.PlainText()...)
	}
	return string(s)
}

func emptyParagraphNode() *Node {
	return &Node{Type: NodeParagraph}
}
