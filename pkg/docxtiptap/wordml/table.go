package wordml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Table represents a w:tbl element. Raw property and grid fragments take
// precedence over the synthesized ones.
type Table struct {
	RawProperties string
	Properties    *TableProperties
	RawGrid       string
	Grid          []int
	Rows          []*TableRow
}

func (*Table) isBodyElement() {}

// MarshalXML implements custom XML marshaling for Table to ensure proper namespacing
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var inner strings.Builder

	switch {
	case t.RawProperties != "":
		inner.WriteString(t.RawProperties)
	case t.Properties != nil:
		if err := writeElement(&inner, t.Properties); err != nil {
			return err
		}
	}

	switch {
	case t.RawGrid != "":
		inner.WriteString(t.RawGrid)
	case len(t.Grid) > 0:
		inner.WriteString("<w:tblGrid>")
		for _, w := range t.Grid {
			inner.WriteString(`<w:gridCol w:w="` + strconv.Itoa(w) + `"/>`)
		}
		inner.WriteString("</w:tblGrid>")
	}

	for _, row := range t.Rows {
		if err := writeElement(&inner, row); err != nil {
			return err
		}
	}

	return e.EncodeElement(innerXML{inner.String()}, wName("tbl"))
}

// TableProperties represents the synthesized w:tblPr
type TableProperties struct {
	Style     string
	Alignment string
}

// MarshalXML implements custom XML marshaling for TableProperties
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = wName("tblPr")
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Style != "" {
		if err := e.EncodeElement(Val{p.Style}, wName("tblStyle")); err != nil {
			return err
		}
	}

	width := wName("tblW")
	width.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:w"}, Value: "0"},
		{Name: xml.Name{Local: "w:type"}, Value: "auto"},
	}
	if err := e.EncodeElement(struct{}{}, width); err != nil {
		return err
	}

	if p.Alignment != "" {
		if err := e.EncodeElement(Val{p.Alignment}, wName("jc")); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableRow represents a w:tr element
type TableRow struct {
	RawProperties string
	Cells         []*TableCell
}

// MarshalXML implements custom XML marshaling for TableRow
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var inner strings.Builder
	inner.WriteString(r.RawProperties)
	for _, cell := range r.Cells {
		if err := writeElement(&inner, cell); err != nil {
			return err
		}
	}
	return e.EncodeElement(innerXML{inner.String()}, wName("tr"))
}

// TableCell represents a w:tc element. A cell must hold at least one
// paragraph, so an empty Content is written as one empty w:p.
type TableCell struct {
	RawProperties string
	Properties    *TableCellProperties
	Content       []BodyElement
}

// MarshalXML implements custom XML marshaling for TableCell
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var inner strings.Builder

	switch {
	case c.RawProperties != "":
		inner.WriteString(c.RawProperties)
	case c.Properties != nil:
		if err := writeElement(&inner, c.Properties); err != nil {
			return err
		}
	}

	content := c.Content
	if len(content) == 0 {
		content = []BodyElement{&Paragraph{}}
	}
	if err := writeElements(&inner, content); err != nil {
		return err
	}
	if isTable(content[len(content)-1]) {
		// a cell may not end with a table
		inner.WriteString("<w:p/>")
	}

	return e.EncodeElement(innerXML{inner.String()}, wName("tc"))
}

// Vertical merge states
const (
	MergeRestart  = "restart"
	MergeContinue = "continue"
)

// TableCellProperties represents the synthesized w:tcPr
type TableCellProperties struct {
	// Width in twips, 0 for none
	Width         int
	GridSpan      int
	VMerge        string
	Borders       map[string]Border
	Shading       string
	VerticalAlign string
}

// Border is one side of a cell border
type Border struct {
	Style string
	Size  string
	Color string
}

var borderOrder = []string{"top", "left", "bottom", "right"}

// MarshalXML implements custom XML marshaling for TableCellProperties.
// Children follow the CT_TcPr sequence order.
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = wName("tcPr")
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Width > 0 {
		w := wName("tcW")
		w.Attr = []xml.Attr{
			{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(p.Width)},
			{Name: xml.Name{Local: "w:type"}, Value: "dxa"},
		}
		if err := e.EncodeElement(struct{}{}, w); err != nil {
			return err
		}
	}

	if p.GridSpan > 1 {
		if err := e.EncodeElement(Val{strconv.Itoa(p.GridSpan)}, wName("gridSpan")); err != nil {
			return err
		}
	}

	switch p.VMerge {
	case MergeRestart:
		if err := e.EncodeElement(Val{MergeRestart}, wName("vMerge")); err != nil {
			return err
		}
	case MergeContinue:
		if err := e.EncodeElement(Empty{}, wName("vMerge")); err != nil {
			return err
		}
	}

	if len(p.Borders) > 0 {
		borders := wName("tcBorders")
		if err := e.EncodeToken(borders); err != nil {
			return err
		}
		for _, side := range borderOrder {
			b, ok := p.Borders[side]
			if !ok {
				continue
			}
			if err := e.EncodeElement(b, wName(side)); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(xml.EndElement{Name: borders.Name}); err != nil {
			return err
		}
	}

	if p.Shading != "" {
		shd := wName("shd")
		shd.Attr = []xml.Attr{
			{Name: xml.Name{Local: "w:val"}, Value: "clear"},
			{Name: xml.Name{Local: "w:color"}, Value: "auto"},
			{Name: xml.Name{Local: "w:fill"}, Value: p.Shading},
		}
		if err := e.EncodeElement(struct{}{}, shd); err != nil {
			return err
		}
	}

	if p.VerticalAlign != "" {
		if err := e.EncodeElement(Val{p.VerticalAlign}, wName("vAlign")); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for Border
func (b Border) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	style := b.Style
	if style == "" {
		style = "single"
	}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: style}}
	if b.Size != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:sz"}, Value: b.Size})
	}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:space"}, Value: "0"})
	if b.Color != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:color"}, Value: b.Color})
	}
	return e.EncodeElement(struct{}{}, start)
}

func isTable(el BodyElement) bool {
	switch t := el.(type) {
	case *Table:
		return true
	case RawXML:
		return strings.HasPrefix(t.Content, "<w:tbl")
	case *RawXML:
		return strings.HasPrefix(t.Content, "<w:tbl")
	}
	return false
}
