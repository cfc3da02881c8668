package wordml

import (
	"encoding/xml"
	"sort"
	"strings"
)

// Namespace URIs for the prefixes the document root always declares
var standardNamespaces = map[string]string{
	"w":    "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
	"r":    "http://schemas.openxmlformats.org/officeDocument/2006/relationships",
	"wp":   "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing",
	"a":    "http://schemas.openxmlformats.org/drawingml/2006/main",
	"pic":  "http://schemas.openxmlformats.org/drawingml/2006/picture",
	"m":    "http://schemas.openxmlformats.org/officeDocument/2006/math",
	"v":    "urn:schemas-microsoft-com:vml",
	"o":    "urn:schemas-microsoft-com:office:office",
	"w10":  "urn:schemas-microsoft-com:office:word",
	"mc":   "http://schemas.openxmlformats.org/markup-compatibility/2006",
	"w14":  "http://schemas.microsoft.com/office/word/2010/wordml",
	"w15":  "http://schemas.microsoft.com/office/word/2012/wordml",
	"wp14": "http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing",
	"wps":  "http://schemas.microsoft.com/office/word/2010/wordprocessingShape",
	"wpg":  "http://schemas.microsoft.com/office/word/2010/wordprocessingGroup",
}

// StandardNamespace returns the URI bound to a standard prefix
func StandardNamespace(prefix string) string {
	return standardNamespaces[prefix]
}

// Document represents word/document.xml
type Document struct {
	// Namespaces maps prefix to URI; declared on the root in addition to the
	// standard set. Template declarations override standard ones.
	Namespaces map[string]string
	// Attrs are non-namespace root attributes such as mc:Ignorable, with the
	// qualified name in Name.Local
	Attrs []xml.Attr
	Body  Body
}

// Body represents the document body
type Body struct {
	// Elements maintains the order of all body elements
	Elements []BodyElement
	// SectionProperties is the raw final w:sectPr, written last
	SectionProperties string
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{Namespaces: make(map[string]string)}
}

// Marshal renders the complete part including the XML declaration. The root
// element is written by hand so that prefixed fragments spliced into the body
// resolve against its declarations.
func (d *Document) Marshal() ([]byte, error) {
	namespaces := make(map[string]string, len(standardNamespaces)+len(d.Namespaces))
	for prefix, uri := range standardNamespaces {
		namespaces[prefix] = uri
	}
	for prefix, uri := range d.Namespaces {
		namespaces[prefix] = uri
	}
	prefixes := make([]string, 0, len(namespaces))
	for prefix := range namespaces {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<w:document")
	for _, prefix := range prefixes {
		b.WriteString(" xmlns:" + prefix + `="`)
		xml.EscapeText(&b, []byte(namespaces[prefix]))
		b.WriteString(`"`)
	}
	for _, attr := range d.Attrs {
		b.WriteString(" " + attr.Name.Local + `="`)
		xml.EscapeText(&b, []byte(attr.Value))
		b.WriteString(`"`)
	}
	b.WriteString("><w:body>")

	if err := writeElements(&b, d.Body.Elements); err != nil {
		return nil, err
	}
	b.WriteString(d.Body.SectionProperties)

	b.WriteString("</w:body></w:document>")
	return []byte(b.String()), nil
}
