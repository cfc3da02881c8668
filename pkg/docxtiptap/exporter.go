package docxtiptap

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-docxtiptap/pkg/docxtiptap/wordml"
)

// ExportOptions controls export
type ExportOptions struct {
	// Template is an optional DOCX whose parts, root namespaces and final
	// section properties are inherited
	Template []byte
	// Comments, when non-empty, are written to word/comments.xml
	Comments []Comment
	// DefaultTableStyle is applied to tables without raw properties
	DefaultTableStyle string
	// NestedTablePlaceholder is the paragraph text that marks a nested table
	NestedTablePlaceholder string
	Logger                 *Logger
}

const (
	// pixelsToTwips converts editor column widths (96 dpi) to twips
	pixelsToTwips = 15
	// defaultTableWidth is the text width of a Letter page with one-inch margins
	defaultTableWidth = 9360
)

var commentParts = []string{PartComments, PartCommentsExt, PartCommentsIDs, PartCommentsExtsb}

var commentRelTypes = []string{RelTypeComments, RelTypeCommentsExt, RelTypeCommentsIDs, RelTypeCommentsExtsb}

// basePackage is the container the exported document is written into
type basePackage struct {
	parts      map[string][]byte
	namespaces map[string]string
	attrs      []xml.Attr
	sectPr     string
}

type exporter struct {
	logger      *Logger
	tableStyle  string
	placeholder string
}

// Export converts an editor document into DOCX bytes. The input tree is not
// modified. Nodes that do not fit the schema are logged and replaced by empty
// paragraphs; only template and packaging failures are returned as errors.
func Export(doc *Node, opts ExportOptions) ([]byte, error) {
	ex := &exporter{
		logger:      opts.Logger,
		tableStyle:  opts.DefaultTableStyle,
		placeholder: opts.NestedTablePlaceholder,
	}
	if ex.logger == nil {
		ex.logger = GetLogger()
	}
	if ex.tableStyle == "" {
		ex.tableStyle = "TableGrid"
	}
	if ex.placeholder == "" {
		ex.placeholder = DefaultNestedTablePlaceholder
	}

	work := doc.Clone()
	if work == nil {
		work = &Node{Type: NodeDoc}
	}
	if work.Type != NodeDoc {
		ex.schemaWarning("", work.Type, "root node is not a document")
		work = &Node{Type: NodeDoc, Content: []*Node{work}}
	}
	NewVault(ex.logger).Restore(work)

	base, err := loadBase(opts.Template)
	if err != nil {
		return nil, err
	}

	document := wordml.NewDocument()
	document.Namespaces = base.namespaces
	document.Attrs = base.attrs
	document.Body.SectionProperties = base.sectPr
	for i, node := range work.Content {
		document.Body.Elements = append(document.Body.Elements, ex.block(node, "content/"+strconv.Itoa(i), false)...)
	}
	if len(document.Body.Elements) == 0 {
		document.Body.Elements = []wordml.BodyElement{&wordml.Paragraph{}}
	}

	documentXML, err := document.Marshal()
	if err != nil {
		return nil, &ExportError{Op: "marshal document", Cause: err}
	}

	return ex.writePackage(base, documentXML, opts.Comments)
}

func loadBase(template []byte) (*basePackage, error) {
	base := &basePackage{
		parts:      make(map[string][]byte),
		namespaces: make(map[string]string),
		sectPr:     defaultSectionProperties,
	}

	if len(template) == 0 {
		base.parts = blankParts()
		return base, nil
	}

	c, err := OpenContainer(template)
	if err != nil {
		return nil, &ExportError{Op: "open template", Cause: err}
	}
	for _, name := range c.PartNames() {
		data, err := c.Part(name)
		if err != nil {
			return nil, &ExportError{Op: "read template", Cause: err}
		}
		base.parts[name] = data
	}

	for _, attr := range c.Document.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			base.namespaces[attr.Name.Local] = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			// a default namespace on w:document is not meaningful
		case attr.Name.Space != "":
			base.attrs = append(base.attrs, xml.Attr{
				Name:  xml.Name{Local: attr.Name.Space + ":" + attr.Name.Local},
				Value: attr.Value,
			})
		default:
			base.attrs = append(base.attrs, xml.Attr{Name: xml.Name{Local: attr.Name.Local}, Value: attr.Value})
		}
	}

	children := elementChildren(c.Body)
	if n := len(children); n > 0 && children[n-1].Data == "sectPr" {
		base.sectPr = outerXML(children[n-1])
	}
	return base, nil
}

// schemaWarning logs a recovered SchemaError
func (ex *exporter) schemaWarning(path, nodeType, message string) {
	ex.logger.WithField("path", path).Warn("%v", NewSchemaError(path, nodeType, message))
}

// block converts one block node. Sections flatten into their content.
func (ex *exporter) block(n *Node, path string, inCell bool) []wordml.BodyElement {
	if n == nil {
		ex.schemaWarning(path, "", "null node")
		return []wordml.BodyElement{&wordml.Paragraph{}}
	}

	switch n.Type {
	case NodeParagraph, NodeHeading:
		return []wordml.BodyElement{ex.paragraph(n, path, inCell, "")}
	case NodeTable:
		return []wordml.BodyElement{ex.table(n, path)}
	case NodeSection:
		var out []wordml.BodyElement
		for i, child := range n.Content {
			out = append(out, ex.block(child, path+"/content/"+strconv.Itoa(i), inCell)...)
		}
		return out
	case NodeRawStyles:
		return nil
	}

	ex.schemaWarning(path, n.Type, "unsupported node type")
	return []wordml.BodyElement{&wordml.Paragraph{}}
}

// paragraph converts a paragraph or heading. Inside a table cell a heading
// is written as a bold paragraph. cellAlign is the enclosing cell's
// textAlign, used when the paragraph has none of its own.
func (ex *exporter) paragraph(n *Node, path string, inCell bool, cellAlign string) *wordml.Paragraph {
	para := &wordml.Paragraph{Properties: &wordml.ParagraphProperties{}}

	align := n.StringAttr("textAlign")
	if align == "" {
		align = cellAlign
	}
	para.Properties.Alignment = wordAlignment(align)

	forceBold := false
	if n.Type == NodeHeading {
		level, ok := n.IntAttr("level")
		if !ok {
			level = 1
		}
		if inCell {
			forceBold = true
		} else {
			para.Properties.Style = "Heading" + strconv.Itoa(clampHeading(level))
		}
	}

	for i, inline := range n.Content {
		if inline == nil {
			continue
		}
		switch inline.Type {
		case NodeText:
			if inline.Text == "" {
				continue
			}
			para.Runs = append(para.Runs, wordml.Run{
				Bold:   forceBold || inline.HasMark(MarkBold),
				Italic: inline.HasMark(MarkItalic),
				Text:   inline.Text,
			})
		case "hardBreak":
			para.Runs = append(para.Runs, wordml.Run{Text: "\n"})
		default:
			ex.schemaWarning(path+"/content/"+strconv.Itoa(i), inline.Type, "unsupported inline node")
		}
	}
	return para
}

// vspan is a vertical merge still open in a grid column
type vspan struct {
	remaining int
	colspan   int
	width     int
}

func (ex *exporter) table(n *Node, path string) *wordml.Table {
	table := &wordml.Table{
		RawProperties: n.StringAttr(AttrRawTblPr),
		RawGrid:       n.StringAttr(AttrRawTblGrid),
	}
	if table.RawProperties == "" {
		style := n.StringAttr("styleName")
		if style == "" {
			style = ex.tableStyle
		}
		table.Properties = &wordml.TableProperties{Style: style, Alignment: n.StringAttr("alignment")}
	}

	spans := make(map[int]*vspan)
	widths := make([]int, 0, len(n.Content))

	for i, rowNode := range n.Content {
		rowPath := path + "/content/" + strconv.Itoa(i)
		if rowNode == nil || rowNode.Type != NodeTableRow {
			typ := ""
			if rowNode != nil {
				typ = rowNode.Type
			}
			ex.schemaWarning(rowPath, typ, "table content must be rows")
			continue
		}

		row := &wordml.TableRow{RawProperties: rowNode.StringAttr(AttrRawXML)}
		before, after := gridSkips(row.RawProperties)
		col := before
		continuation := func() {
			for {
				span, ok := spans[col]
				if !ok {
					return
				}
				row.Cells = append(row.Cells, continuationCell(span))
				col += span.colspan
				span.remaining--
				if span.remaining == 0 {
					delete(spans, col-span.colspan)
				}
			}
		}

		for j, cellNode := range rowNode.Content {
			cellPath := rowPath + "/content/" + strconv.Itoa(j)
			if cellNode == nil || (cellNode.Type != NodeTableCell && cellNode.Type != NodeTableHeader) {
				typ := ""
				if cellNode != nil {
					typ = cellNode.Type
				}
				ex.schemaWarning(cellPath, typ, "row content must be cells")
				continue
			}

			continuation()

			colspan, ok := cellNode.IntAttr("colspan")
			if !ok || colspan < 1 {
				colspan = 1
			}
			rowspan, ok := cellNode.IntAttr("rowspan")
			if !ok || rowspan < 1 {
				rowspan = 1
			}

			cell := ex.cell(cellNode, cellPath, colspan, rowspan)
			row.Cells = append(row.Cells, cell)
			if rowspan > 1 {
				spans[col] = &vspan{remaining: rowspan - 1, colspan: colspan, width: cellWidth(cellNode)}
			}
			col += colspan
		}

		// open spans to the right of the last cell
		var trailing []int
		for start := range spans {
			if start >= col {
				trailing = append(trailing, start)
			}
		}
		sort.Ints(trailing)
		for _, start := range trailing {
			for col < start {
				row.Cells = append(row.Cells, &wordml.TableCell{})
				col++
			}
			continuation()
		}

		table.Rows = append(table.Rows, row)
		widths = append(widths, col+after)
	}

	maxWidth := 0
	for _, w := range widths {
		if w > maxWidth {
			maxWidth = w
		}
	}
	colwidths := n.IntsAttr("colwidths")
	if len(colwidths) > maxWidth && table.RawGrid != "" {
		maxWidth = len(colwidths)
	}

	for i, row := range table.Rows {
		for w := widths[i]; w < maxWidth; w++ {
			row.Cells = append(row.Cells, &wordml.TableCell{})
		}
	}

	if table.RawGrid == "" && maxWidth > 0 {
		if len(colwidths) == maxWidth {
			table.Grid = colwidths
		} else {
			table.Grid = make([]int, maxWidth)
			for i := range table.Grid {
				table.Grid[i] = defaultTableWidth / maxWidth
			}
		}
	}
	return table
}

// relationshipRefPattern finds r:id, r:embed and similar attributes. Their
// targets are not copied into the exported package.
var relationshipRefPattern = regexp.MustCompile(`\sr:[A-Za-z]+\s*=`)

var gridSkipPattern = regexp.MustCompile(`<(?:\w+:)?(gridBefore|gridAfter)\b[^>]*?\s(?:\w+:)?val\s*=\s*["'](\d+)["']`)

// gridSkips reads w:gridBefore and w:gridAfter from a raw w:trPr fragment.
// Those grid columns hold no cells but still count toward the row width.
func gridSkips(trPr string) (before, after int) {
	for _, m := range gridSkipPattern.FindAllStringSubmatch(trPr, -1) {
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 0 {
			continue
		}
		if m[1] == "gridBefore" {
			before = n
		} else {
			after = n
		}
	}
	return before, after
}

func continuationCell(span *vspan) *wordml.TableCell {
	return &wordml.TableCell{Properties: &wordml.TableCellProperties{
		Width:    span.width,
		GridSpan: span.colspan,
		VMerge:   wordml.MergeContinue,
	}}
}

// cellWidth returns the editor column width of a cell in twips, 0 if unset
func cellWidth(n *Node) int {
	widths := n.IntsAttr("colwidth")
	total := 0
	for _, w := range widths {
		total += w
	}
	return total * pixelsToTwips
}

func (ex *exporter) cell(n *Node, path string, colspan, rowspan int) *wordml.TableCell {
	cell := &wordml.TableCell{RawProperties: n.StringAttr(AttrRawXML)}
	if cell.RawProperties == "" {
		props := &wordml.TableCellProperties{
			Width:         cellWidth(n),
			GridSpan:      colspan,
			Shading:       strings.TrimPrefix(n.StringAttr("backgroundColor"), "#"),
			VerticalAlign: n.StringAttr("verticalAlign"),
			Borders:       exportBorders(n.Attrs["borders"]),
		}
		if rowspan > 1 {
			props.VMerge = wordml.MergeRestart
		}
		cell.Properties = props
	}

	nested := stringList(n.Attrs[AttrNestedTables])
	cellAlign := n.StringAttr("textAlign")

	for i, child := range n.Content {
		childPath := path + "/content/" + strconv.Itoa(i)
		if child != nil && child.Type == NodeParagraph && len(nested) > 0 && strings.TrimSpace(child.PlainText()) == ex.placeholder {
			fragment := nested[0]
			nested = nested[1:]
			if !relationshipRefPattern.MatchString(fragment) {
				cell.Content = append(cell.Content, wordml.RawXML{Content: fragment})
				continue
			}
			ex.logger.WithField("path", childPath).Warn("nested table references package relationships, keeping placeholder")
		}
		if child != nil && (child.Type == NodeParagraph || child.Type == NodeHeading) {
			cell.Content = append(cell.Content, ex.paragraph(child, childPath, true, cellAlign))
			continue
		}
		cell.Content = append(cell.Content, ex.block(child, childPath, true)...)
	}
	return cell
}

func exportBorders(v any) map[string]wordml.Border {
	sides, ok := v.(map[string]any)
	if !ok || len(sides) == 0 {
		return nil
	}
	out := make(map[string]wordml.Border, len(sides))
	for side, raw := range sides {
		attrs, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		b := &Node{Attrs: attrs}
		out[side] = wordml.Border{
			Style: b.StringAttr("style"),
			Size:  b.StringAttr("width"),
			Color: b.StringAttr("color"),
		}
	}
	return out
}

// writePackage assembles the output zip from the base parts and the new body
func (ex *exporter) writePackage(base *basePackage, documentXML []byte, comments []Comment) ([]byte, error) {
	parts := make(map[string][]byte, len(base.parts)+2)
	for name, data := range base.parts {
		parts[name] = data
	}
	for _, name := range commentParts {
		delete(parts, name)
	}
	parts[PartDocument] = documentXML

	rels := &Relationships{}
	if data, ok := parts[PartDocumentRels]; ok {
		parsed, err := parseRelationships(data)
		if err != nil {
			return nil, &ExportError{Op: "read relationships", Cause: err}
		}
		rels = parsed
	}
	rels.without(commentRelTypes...)

	ctData, ok := parts[PartContentTypes]
	if !ok {
		ctData = blankParts()[PartContentTypes]
	}
	contentTypes, err := parseContentTypes(ctData)
	if err != nil {
		return nil, &ExportError{Op: "read content types", Cause: err}
	}
	contentTypes.withoutParts(commentParts...)

	required := append(headingStyles(), tableGridStyle(ex.tableStyle))
	if styles, ok := parts[PartStyles]; ok {
		merged, err := ensureStyles(styles, required)
		if err != nil {
			ex.logger.Warn("keeping template styles unchanged: %v", err)
		} else {
			parts[PartStyles] = merged
		}
	} else {
		merged, err := ensureStyles(blankParts()[PartStyles], required)
		if err != nil {
			return nil, &ExportError{Op: "write styles", Cause: err}
		}
		parts[PartStyles] = merged
		rels.add("http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles", "styles.xml")
		contentTypes.override(PartStyles, "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	}

	if len(comments) > 0 {
		data, err := marshalCommentsPart(comments)
		if err != nil {
			return nil, &ExportError{Op: "write comments", Cause: err}
		}
		parts[PartComments] = data
		rels.add(RelTypeComments, "comments.xml")
		contentTypes.override(PartComments, ContentTypeComments)
	}

	if parts[PartDocumentRels], err = rels.marshal(); err != nil {
		return nil, &ExportError{Op: "write relationships", Cause: err}
	}
	if parts[PartContentTypes], err = contentTypes.marshal(); err != nil {
		return nil, &ExportError{Op: "write content types", Cause: err}
	}

	return writeZip(parts)
}

// writeZip writes [Content_Types].xml first and the rest in name order
func writeZip(parts map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(parts))
	for name := range parts {
		if name != PartContentTypes {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{PartContentTypes}, names...)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			return nil, &ExportError{Op: "write package", Cause: fmt.Errorf("failed to create %s: %w", name, err)}
		}
		if _, err := fw.Write(parts[name]); err != nil {
			return nil, &ExportError{Op: "write package", Cause: fmt.Errorf("failed to write %s: %w", name, err)}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &ExportError{Op: "write package", Cause: err}
	}
	return buf.Bytes(), nil
}
