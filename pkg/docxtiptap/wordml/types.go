package wordml

import (
	"encoding/xml"
	"strings"
)

// BodyElement represents any element that can appear in a document body or
// a table cell
type BodyElement interface {
	isBodyElement()
}

// RawXML is a pre-serialized fragment written verbatim. Prefixes inside the
// fragment must be declared on the document root.
type RawXML struct {
	Content string
}

func (RawXML) isBodyElement() {}

// innerXML lets a container element carry already-serialized children
type innerXML struct {
	Content string `xml:",innerxml"`
}

// Val is a property element whose only attribute is w:val
type Val struct {
	Val string
}

// MarshalXML implements custom XML marshaling for Val.
// The element name comes from the caller (pStyle, jc, vAlign, ...).
func (v Val) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: v.Val},
	}
	return e.EncodeElement(struct{}{}, start)
}

// Empty marshals as a bare element, used for on/off properties
type Empty struct{}

// MarshalXML implements custom XML marshaling for Empty
func (Empty) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(struct{}{}, start)
}

func wName(local string) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: "w:" + local}}
}

// writeElements serializes body elements in order, splicing raw fragments
func writeElements(b *strings.Builder, elements []BodyElement) error {
	for _, elem := range elements {
		switch el := elem.(type) {
		case RawXML:
			b.WriteString(el.Content)
		case *RawXML:
			b.WriteString(el.Content)
		default:
			out, err := xml.Marshal(el)
			if err != nil {
				return err
			}
			b.Write(out)
		}
	}
	return nil
}

// writeElement serializes a single value unless it is nil
func writeElement(b *strings.Builder, v any) error {
	out, err := xml.Marshal(v)
	if err != nil {
		return err
	}
	b.Write(out)
	return nil
}
