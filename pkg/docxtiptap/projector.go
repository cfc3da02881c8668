package docxtiptap

import (
	"fmt"
	"strings"
)

// Node attributes carrying raw fragments between projection and export
const (
	AttrRawTblPr     = "rawTblPr"
	AttrRawTblGrid   = "rawTblGrid"
	AttrRawXML       = "rawXml"
	AttrNestedTables = "nestedTables"
)

// ProjectOptions controls projection
type ProjectOptions struct {
	// NestedTablePlaceholder defaults to DefaultNestedTablePlaceholder
	NestedTablePlaceholder string
	Logger                 *Logger
}

type projector struct {
	comments    CommentRegistry
	placeholder string
	logger      *Logger
}

// Project maps an intermediate tree onto the editor schema with default
// options. The returned document always has at least one block and, when any
// raw fragments were captured, ends with the fidelity storage node.
func Project(tree *Tree) *Node {
	return ProjectWithOptions(tree, ProjectOptions{})
}

// ProjectWithOptions is Project with explicit options
func ProjectWithOptions(tree *Tree, opts ProjectOptions) *Node {
	p := &projector{
		placeholder: opts.NestedTablePlaceholder,
		logger:      opts.Logger,
	}
	if p.placeholder == "" {
		p.placeholder = DefaultNestedTablePlaceholder
	}
	if p.logger == nil {
		p.logger = GetLogger()
	}

	doc := &Node{Type: NodeDoc}
	if tree != nil {
		p.comments = tree.Comments
		doc.Content = p.blocks(tree.Blocks)
	}
	if len(doc.Content) == 0 {
		doc.Content = []*Node{emptyParagraphNode()}
	}

	NewVault(p.logger).Extract(doc)
	return doc
}

func (p *projector) blocks(blocks []Block) []*Node {
	out := make([]*Node, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, p.block(b))
	}
	return out
}

func (p *projector) block(b Block) *Node {
	switch el := b.(type) {
	case *Paragraph:
		return p.paragraph(el)
	case *Table:
		return p.table(el)
	case *Section:
		return p.section(el)
	}
	panic(fmt.Sprintf("docxtiptap: unexpected block type %T", b))
}

func (p *projector) paragraph(para *Paragraph) *Node {
	node := &Node{Type: NodeParagraph}
	if para.HeadingLevel > 0 {
		node.Type = NodeHeading
		node.SetAttr("level", clampHeading(para.HeadingLevel))
	}
	if align := editorAlignment(para.Alignment); align != "" {
		node.SetAttr("textAlign", align)
	}

	if para.NumberingLabel != "" {
		label := para.NumberingLabel
		if len(para.Runs) > 0 {
			label += " "
		}
		node.Content = append(node.Content, &Node{Type: NodeText, Text: label})
	}
	for _, run := range para.Runs {
		node.Content = append(node.Content, &Node{
			Type:  NodeText,
			Text:  run.Text,
			Marks: p.marks(run),
		})
	}
	return node
}

// marks builds the mark list in a fixed order regardless of source order
func (p *projector) marks(run TextRun) []Mark {
	var marks []Mark
	if run.Bold {
		marks = append(marks, Mark{Type: MarkBold})
	}
	if run.Italic {
		marks = append(marks, Mark{Type: MarkItalic})
	}
	if rev := run.Revision; rev != nil {
		kind := MarkInsertion
		if rev.Kind == RevisionDeletion {
			kind = MarkDeletion
		}
		marks = append(marks, Mark{Type: kind, Attrs: map[string]any{
			"id":     rev.ID,
			"author": rev.Author,
			"date":   rev.Date,
		}})
	}
	for _, id := range run.CommentIDs {
		attrs := map[string]any{"commentId": id}
		if c, ok := p.comments[id]; ok {
			if c.Author != "" {
				attrs["author"] = c.Author
			}
			if c.Date != "" {
				attrs["date"] = c.Date
			}
			attrs["text"] = c.Text
		}
		marks = append(marks, Mark{Type: MarkComment, Attrs: attrs})
	}
	return marks
}

func (p *projector) table(t *Table) *Node {
	node := &Node{Type: NodeTable}
	node.SetAttr("id", t.ID)
	if s := t.Style; s != nil {
		if len(s.ColumnWidths) > 0 {
			node.SetAttr("colwidths", append([]int(nil), s.ColumnWidths...))
		}
		if s.Alignment != "" {
			node.SetAttr("alignment", s.Alignment)
		}
		if s.StyleName != "" {
			node.SetAttr("styleName", s.StyleName)
		}
	}
	if t.RawProperties != "" {
		node.SetAttr(AttrRawTblPr, t.RawProperties)
	}
	if t.RawGrid != "" {
		node.SetAttr(AttrRawTblGrid, t.RawGrid)
	}

	for i, row := range t.Rows {
		rowNode := &Node{Type: NodeTableRow, Content: []*Node{}}
		if row.RawXML != "" {
			rowNode.SetAttr(AttrRawXML, row.RawXML)
		}
		cellType := NodeTableCell
		if i == 0 {
			cellType = NodeTableHeader
		}
		for _, cell := range row.Cells {
			rowNode.Content = append(rowNode.Content, p.cell(cell, cellType))
		}
		node.Content = append(node.Content, rowNode)
	}
	return node
}

func (p *projector) cell(cell *TableCell, cellType string) *Node {
	node := &Node{Type: cellType}
	if cell.Colspan > 1 {
		node.SetAttr("colspan", cell.Colspan)
	}
	if cell.Rowspan > 1 {
		node.SetAttr("rowspan", cell.Rowspan)
	}
	if s := cell.Style; s != nil {
		if s.Width != nil {
			node.SetAttr("colwidth", []int{*s.Width})
		}
		if s.BackgroundColor != "" {
			node.SetAttr("backgroundColor", "#"+strings.TrimPrefix(s.BackgroundColor, "#"))
		}
		if s.VerticalAlign != "" {
			node.SetAttr("verticalAlign", s.VerticalAlign)
		}
		if align := editorAlignment(s.TextAlign); align != "" {
			node.SetAttr("textAlign", align)
		}
		if borders := projectBorders(s.Borders); borders != nil {
			node.SetAttr("borders", borders)
		}
	}
	if cell.RawXML != "" {
		node.SetAttr(AttrRawXML, cell.RawXML)
	}
	if len(cell.NestedXML) > 0 {
		nested := make([]any, len(cell.NestedXML))
		for i, x := range cell.NestedXML {
			nested[i] = x
		}
		node.SetAttr(AttrNestedTables, nested)
	}

	for _, b := range cell.Content {
		if _, ok := b.(*Table); ok {
			// the editor schema cannot nest tables
			node.Content = append(node.Content, p.placeholderParagraph())
			continue
		}
		node.Content = append(node.Content, p.block(b))
	}
	if len(node.Content) == 0 {
		node.Content = []*Node{emptyParagraphNode()}
	}
	return node
}

func (p *projector) placeholderParagraph() *Node {
	return &Node{
		Type:    NodeParagraph,
		Content: []*Node{{Type: NodeText, Text: p.placeholder}},
	}
}

func projectBorders(borders map[string]Border) map[string]any {
	if len(borders) == 0 {
		return nil
	}
	out := make(map[string]any, len(borders))
	for side, b := range borders {
		out[side] = map[string]any{
			"style": b.Style,
			"width": b.Width,
			"color": b.Color,
		}
	}
	return out
}

func (p *projector) section(s *Section) *Node {
	node := &Node{Type: NodeSection}
	node.SetAttr("id", s.ID)
	if s.OriginalRef != "" {
		node.SetAttr("originalRef", s.OriginalRef)
	}
	node.SetAttr("level", s.Level)

	if s.Title != "" {
		heading := &Node{Type: NodeHeading, Content: []*Node{{Type: NodeText, Text: s.Title}}}
		heading.SetAttr("level", clampHeading(s.Level))
		node.Content = append(node.Content, heading)
	}
	node.Content = append(node.Content, p.blocks(s.Content)...)
	for _, child := range s.Children {
		node.Content = append(node.Content, p.section(child))
	}
	if len(node.Content) == 0 {
		node.Content = []*Node{emptyParagraphNode()}
	}
	return node
}

func clampHeading(level int) int {
	if level < 1 {
		return 1
	}
	if level > MaxHeadingLevel {
		return MaxHeadingLevel
	}
	return level
}

// editorAlignment maps a w:jc value to the editor's textAlign vocabulary
func editorAlignment(jc string) string {
	switch jc {
	case "left", "start":
		return "left"
	case "center":
		return "center"
	case "right", "end":
		return "right"
	case "both", "distribute":
		return "justify"
	}
	return ""
}

// wordAlignment maps an editor textAlign value back to w:jc
func wordAlignment(align string) string {
	switch align {
	case "left":
		return "left"
	case "center":
		return "center"
	case "right":
		return "right"
	case "justify":
		return "both"
	}
	return ""
}
