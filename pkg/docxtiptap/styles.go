package docxtiptap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	styleExpr    = xpath.MustCompile("//*[local-name()='style']")
	headingStyle = regexp.MustCompile(`(?i)^heading\s*(\d+)$`)
)

// StyleSheet is the parsed word/styles.xml part, reduced to what heading
// detection needs.
type StyleSheet struct {
	// names maps styleId to display name
	names map[string]string
}

// ParseStyleSheet reads style ids and display names
func ParseStyleSheet(root *xmlquery.Node) *StyleSheet {
	sheet := &StyleSheet{names: make(map[string]string)}
	if root == nil {
		return sheet
	}
	for _, style := range xmlquery.QuerySelectorAll(root, styleExpr) {
		id := attrValue(style, "styleId")
		if id == "" {
			continue
		}
		sheet.names[id] = childVal(style, "name")
	}
	return sheet
}

// Name returns the display name for a style id, or "" when unknown
func (s *StyleSheet) Name(styleID string) string {
	if s == nil {
		return ""
	}
	return s.names[styleID]
}

// HeadingLevel returns N for "Heading N" styles, matched against both the
// style id and its display name. Anything else is body text (0). The level is
// not clamped here.
func (s *StyleSheet) HeadingLevel(styleID string) int {
	for _, candidate := range []string{styleID, s.Name(styleID)} {
		m := headingStyle.FindStringSubmatch(strings.TrimSpace(candidate))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// styleDefinition is a single w:style element kept as raw inner XML
type styleDefinition struct {
	Type    string
	StyleID string
	RawXML  string
}

type stylesPart struct {
	XMLName xml.Name        `xml:"styles"`
	Styles  []styleEnvelope `xml:"style"`
}

type styleEnvelope struct {
	Type    string `xml:"type,attr"`
	StyleID string `xml:"styleId,attr"`
}

// ensureStyles adds every required style whose id is missing from stylesXML.
// Styles already defined by the template are left untouched.
func ensureStyles(stylesXML []byte, required []styleDefinition) ([]byte, error) {
	var parsed stylesPart
	if err := xml.Unmarshal(stylesXML, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse styles.xml: %w", err)
	}

	existing := make(map[string]bool, len(parsed.Styles))
	for _, style := range parsed.Styles {
		existing[style.StyleID] = true
	}

	var missing []styleDefinition
	for _, style := range required {
		if !existing[style.StyleID] {
			missing = append(missing, style)
			existing[style.StyleID] = true
		}
	}
	if len(missing) == 0 {
		return stylesXML, nil
	}
	return insertStyles(stylesXML, missing)
}

// insertStyles splices style elements just before the closing w:styles tag
func insertStyles(originalXML []byte, styles []styleDefinition) ([]byte, error) {
	closingTag := []byte("</w:styles>")
	idx := bytes.LastIndex(originalXML, closingTag)
	if idx < 0 {
		return nil, fmt.Errorf("styles.xml has no closing w:styles tag")
	}

	var b bytes.Buffer
	b.Write(originalXML[:idx])
	for _, style := range styles {
		fmt.Fprintf(&b, `<w:style w:type="%s" w:styleId="%s">%s</w:style>`,
			style.Type, style.StyleID, style.RawXML)
	}
	b.Write(originalXML[idx:])
	return b.Bytes(), nil
}

// headingStyles are the paragraph styles the exporter references
func headingStyles() []styleDefinition {
	sizes := []int{32, 26, 24, 22, 22, 22}
	out := make([]styleDefinition, 0, len(sizes))
	for i, size := range sizes {
		level := i + 1
		out = append(out, styleDefinition{
			Type:    "paragraph",
			StyleID: "Heading" + strconv.Itoa(level),
			RawXML: fmt.Sprintf(`<w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:uiPriority w:val="9"/><w:qFormat/>`+
				`<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="60"/><w:outlineLvl w:val="%d"/></w:pPr>`+
				`<w:rPr><w:b/><w:sz w:val="%d"/></w:rPr>`, level, i, size),
		})
	}
	return out
}

func tableGridStyle(styleID string) styleDefinition {
	return styleDefinition{
		Type:    "table",
		StyleID: styleID,
		RawXML: `<w:name w:val="Table Grid"/><w:basedOn w:val="TableNormal"/><w:uiPriority w:val="59"/>` +
			`<w:tblPr><w:tblBorders>` +
			`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`</w:tblBorders></w:tblPr>`,
	}
}
