package wordml

import (
	"encoding/xml"
	"strings"
)

// Paragraph represents a w:p element
type Paragraph struct {
	Properties *ParagraphProperties
	Runs       []Run
}

func (*Paragraph) isBodyElement() {}

// MarshalXML implements custom XML marshaling for Paragraph to ensure proper namespacing
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = wName("p")
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil && !p.Properties.empty() {
		if err := e.EncodeElement(p.Properties, wName("pPr")); err != nil {
			return err
		}
	}

	for _, run := range p.Runs {
		if err := e.EncodeElement(run, wName("r")); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Text returns the concatenated text of all runs
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// ParagraphProperties represents the w:pPr subset the exporter writes
type ParagraphProperties struct {
	Style     string
	Alignment string
}

func (p ParagraphProperties) empty() bool {
	return p.Style == "" && p.Alignment == ""
}

// MarshalXML implements custom XML marshaling for ParagraphProperties
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = wName("pPr")
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Style != "" {
		if err := e.EncodeElement(Val{p.Style}, wName("pStyle")); err != nil {
			return err
		}
	}
	if p.Alignment != "" {
		if err := e.EncodeElement(Val{p.Alignment}, wName("jc")); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Run represents a w:r element with uniform formatting. Tabs and line
// breaks inside Text are written as w:tab and w:br.
type Run struct {
	Bold   bool
	Italic bool
	Text   string
}

// MarshalXML implements custom XML marshaling for Run
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = wName("r")
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Bold || r.Italic {
		rPr := wName("rPr")
		if err := e.EncodeToken(rPr); err != nil {
			return err
		}
		if r.Bold {
			if err := e.EncodeElement(Empty{}, wName("b")); err != nil {
				return err
			}
		}
		if r.Italic {
			if err := e.EncodeElement(Empty{}, wName("i")); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(xml.EndElement{Name: rPr.Name}); err != nil {
			return err
		}
	}

	var segment strings.Builder
	flush := func() error {
		if segment.Len() == 0 {
			return nil
		}
		err := e.EncodeElement(Text{Content: segment.String()}, wName("t"))
		segment.Reset()
		return err
	}
	for _, ch := range r.Text {
		switch ch {
		case '\t':
			if err := flush(); err != nil {
				return err
			}
			if err := e.EncodeElement(Empty{}, wName("tab")); err != nil {
				return err
			}
		case '\n':
			if err := flush(); err != nil {
				return err
			}
			if err := e.EncodeElement(Empty{}, wName("br")); err != nil {
				return err
			}
		default:
			segment.WriteRune(ch)
		}
	}
	if err := flush(); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Text represents a w:t element; whitespace is always preserved
type Text struct {
	Content string
}

// MarshalXML implements custom XML marshaling for Text to ensure proper namespacing
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = wName("t")
	start.Attr = append(start.Attr, xml.Attr{
		Name:  xml.Name{Local: "xml:space"},
		Value: "preserve",
	})
	return e.EncodeElement(t.Content, start)
}
