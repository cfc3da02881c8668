package docxtiptap

import "strings"

// Block is any element that can appear in a body, a table cell or a section.
// The set of implementations is closed: *Paragraph, *Table and *Section.
type Block interface {
	isBlock()
}

// Revision kinds
const (
	RevisionInsertion = "insertion"
	RevisionDeletion  = "deletion"
)

// Revision is a tracked change annotation on a run
type Revision struct {
	Kind   string
	ID     string
	Author string
	Date   string
}

// TextRun is a span of text with uniform formatting
type TextRun struct {
	Text       string
	Bold       bool
	Italic     bool
	Revision   *Revision
	CommentIDs []string
}

// Paragraph is a body or cell paragraph
type Paragraph struct {
	Runs      []TextRun
	StyleName string
	// NumberingLabel is the rendered list label; "" when the paragraph is not numbered
	NumberingLabel string
	// HeadingLevel is 0 for body text
	HeadingLevel int
	Alignment    string
}

func (*Paragraph) isBlock() {}

// IsEmpty reports whether the paragraph carries neither text nor a label
func (p *Paragraph) IsEmpty() bool {
	return len(p.Runs) == 0 && p.NumberingLabel == ""
}

// Text returns the concatenated run text
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Border is one side of a cell border
type Border struct {
	Style string
	Width string
	Color string
}

// TableCellStyle holds the cell formatting the editor schema models
type TableCellStyle struct {
	// Width is in twips
	Width           *int
	BackgroundColor string
	VerticalAlign   string
	TextAlign       string
	Borders         map[string]Border
}

// TableCell never has empty Content once built
type TableCell struct {
	Content []Block
	Colspan int
	Rowspan int
	Style   *TableCellStyle
	// RawXML is the cell's w:tcPr fragment
	RawXML string
	// NestedXML holds the raw w:tbl fragments of tables nested in this cell,
	// in document order
	NestedXML []string
}

// TableRow is one table row
type TableRow struct {
	Cells []*TableCell
	// RawXML is the row's w:trPr fragment
	RawXML string
}

// TableStyle is the table-level formatting the editor schema models
type TableStyle struct {
	// ColumnWidths are in twips
	ColumnWidths []int
	Alignment    string
	StyleName    string
}

// Table is a table with a stable id
type Table struct {
	ID            string
	Rows          []*TableRow
	Style         *TableStyle
	RawProperties string
	RawGrid       string
}

func (*Table) isBlock() {}

// Section is an outline section led by a heading
type Section struct {
	ID string
	// OriginalRef is the numbering label of the heading that opened the section
	OriginalRef string
	Title       string
	Level       int
	Content     []Block
	Children    []*Section
}

func (*Section) isBlock() {}

// Tree is the intermediate document tree produced from a container
type Tree struct {
	Blocks   []Block
	Comments CommentRegistry
}
