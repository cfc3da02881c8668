package docxtiptap

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	return NewWithConfig(DefaultConfig()).WithLogger(NewLogger(io.Discard, LogOff))
}

func exportDoc(t *testing.T, doc *Node, opts ExportOptions) []byte {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = NewLogger(io.Discard, LogOff)
	}
	data, err := Export(doc, opts)
	require.NoError(t, err)
	return data
}

func reimport(t *testing.T, data []byte) *Node {
	t.Helper()
	result, err := testEngine().Import(data)
	require.NoError(t, err)
	return result.Doc
}

func cellNode(cellType string, attrs map[string]any, text string) *Node {
	return &Node{Type: cellType, Attrs: attrs, Content: []*Node{paragraphNode(textNode(text))}}
}

func rowNode(cells ...*Node) *Node {
	return &Node{Type: NodeTableRow, Content: cells}
}

func TestExportBlankPackage(t *testing.T) {
	data := exportDoc(t, nil, ExportOptions{})

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.NotEmpty(t, zr.File)
	assert.Equal(t, PartContentTypes, zr.File[0].Name)

	styles := readPart(t, data, PartStyles)
	for _, id := range []string{"Heading1", "Heading6", "TableGrid", "Normal"} {
		assert.Contains(t, styles, `w:styleId="`+id+`"`)
	}
	assert.False(t, hasPart(t, data, PartComments))

	c, err := OpenContainer(data)
	require.NoError(t, err)
	assert.Len(t, elementChildren(c.Body), 2, "one empty paragraph plus sectPr")
}

func TestExportRoundTripText(t *testing.T) {
	heading := &Node{Type: NodeHeading, Attrs: map[string]any{"level": 2.0}, Content: []*Node{textNode("Title")}}
	body := &Node{
		Type:  NodeParagraph,
		Attrs: map[string]any{"textAlign": "justify"},
		Content: []*Node{
			textNode("B", Mark{Type: MarkBold}),
			textNode("I", Mark{Type: MarkItalic}),
			textNode(" rest\tend", Mark{Type: MarkComment, Attrs: map[string]any{"commentId": "1"}}),
		},
	}
	deep := &Node{Type: NodeHeading, Attrs: map[string]any{"level": 9.0}, Content: []*Node{textNode("Deep")}}
	broken := paragraphNode(textNode("a"), &Node{Type: "hardBreak"}, textNode("b"))

	data := exportDoc(t, &Node{Type: NodeDoc, Content: []*Node{heading, body, deep, broken}}, ExportOptions{})
	documentXML := readPart(t, data, PartDocument)
	assert.Contains(t, documentXML, `<w:pStyle w:val="Heading2"></w:pStyle>`)
	assert.Contains(t, documentXML, `<w:jc w:val="both"></w:jc>`)
	assert.Contains(t, documentXML, `<w:t xml:space="preserve">B</w:t>`)
	assert.Contains(t, documentXML, "<w:tab></w:tab>")
	assert.Contains(t, documentXML, "<w:br></w:br>")

	doc := reimport(t, data)
	require.Len(t, doc.Content, 4)

	assert.Equal(t, NodeHeading, doc.Content[0].Type)
	level, _ := doc.Content[0].IntAttr("level")
	assert.Equal(t, 2, level)
	assert.Equal(t, "Title", doc.Content[0].PlainText())

	p := doc.Content[1]
	assert.Equal(t, "justify", p.StringAttr("textAlign"))
	require.Len(t, p.Content, 3)
	assert.Equal(t, []string{MarkBold}, markTypes(p.Content[0].Marks))
	assert.Equal(t, []string{MarkItalic}, markTypes(p.Content[1].Marks))
	assert.Empty(t, p.Content[2].Marks, "comment marks are inert on export")
	assert.Equal(t, " rest\tend", p.Content[2].Text)

	level, _ = doc.Content[2].IntAttr("level")
	assert.Equal(t, MaxHeadingLevel, level)

	assert.Equal(t, "a\nb", doc.Content[3].PlainText())
}

func TestExportTableSpans(t *testing.T) {
	table := &Node{Type: NodeTable, Attrs: map[string]any{"id": "t"}, Content: []*Node{
		rowNode(
			cellNode(NodeTableHeader, map[string]any{"rowspan": 2.0}, "A"),
			cellNode(NodeTableHeader, nil, "B"),
			cellNode(NodeTableHeader, map[string]any{"rowspan": 3.0}, "C"),
		),
		rowNode(
			cellNode(NodeTableCell, nil, "D"),
		),
		rowNode(
			cellNode(NodeTableCell, map[string]any{"colspan": 2.0}, "E"),
		),
	}}

	data := exportDoc(t, &Node{Type: NodeDoc, Content: []*Node{table}}, ExportOptions{})
	documentXML := readPart(t, data, PartDocument)
	assert.Equal(t, 3, strings.Count(documentXML, "<w:gridCol "))
	assert.Equal(t, 2, strings.Count(documentXML, `<w:vMerge w:val="restart"></w:vMerge>`))
	assert.Equal(t, 3, strings.Count(documentXML, `<w:vMerge></w:vMerge>`))
	assert.Contains(t, documentXML, `<w:gridSpan w:val="2"></w:gridSpan>`)
	assert.Contains(t, documentXML, `<w:tblStyle w:val="TableGrid"></w:tblStyle>`)

	doc := reimport(t, data)
	rows := doc.Content[0].Content
	require.Len(t, rows, 3)
	require.Len(t, rows[0].Content, 3)
	rowspan, _ := rows[0].Content[0].IntAttr("rowspan")
	assert.Equal(t, 2, rowspan)
	rowspan, _ = rows[0].Content[2].IntAttr("rowspan")
	assert.Equal(t, 3, rowspan)

	require.Len(t, rows[1].Content, 1)
	assert.Equal(t, "D", rows[1].Content[0].PlainText())

	require.Len(t, rows[2].Content, 1)
	colspan, _ := rows[2].Content[0].IntAttr("colspan")
	assert.Equal(t, 2, colspan)
}

func TestExportPadsIrregularRows(t *testing.T) {
	table := &Node{Type: NodeTable, Content: []*Node{
		rowNode(
			cellNode(NodeTableHeader, nil, "1"),
			cellNode(NodeTableHeader, nil, "2"),
			cellNode(NodeTableHeader, nil, "3"),
		),
		rowNode(cellNode(NodeTableCell, nil, "short")),
	}}

	data := exportDoc(t, &Node{Type: NodeDoc, Content: []*Node{table}}, ExportOptions{})
	assert.Equal(t, 3, strings.Count(readPart(t, data, PartDocument), `<w:gridCol w:w="3120"/>`))

	rows := reimport(t, data).Content[0].Content
	require.Len(t, rows, 2)
	assert.Len(t, rows[1].Content, 3)
	assert.Equal(t, "short", rows[1].Content[0].PlainText())
	assert.Equal(t, NodeParagraph, rows[1].Content[2].Content[0].Type)
}

func TestExportVerticalMergeWithGridBefore(t *testing.T) {
	body := `<w:tbl><w:tblGrid><w:gridCol/><w:gridCol/></w:tblGrid>` +
		`<w:tr><w:tc>` + wPara(wRun("a")) + `</w:tc><w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr>` + wPara(wRun("b")) + `</w:tc></w:tr>` +
		`<w:tr><w:trPr><w:gridBefore w:val="1"/></w:trPr><w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc></w:tr>` +
		`</w:tbl>`
	source := createTestDocx(t, map[string]string{PartDocument: documentXML(body)})

	result, err := testEngine().Import(source)
	require.NoError(t, err)
	out := exportDoc(t, result.Doc, ExportOptions{})

	documentXML := readPart(t, out, PartDocument)
	assert.Equal(t, 3, strings.Count(documentXML, "<w:tc>"), "skipped grid column gets no padding cell")
	assert.Equal(t, 1, strings.Count(documentXML, `<w:vMerge></w:vMerge>`))

	rows := reimport(t, out).Content[0].Content
	require.Len(t, rows, 2)
	require.Len(t, rows[0].Content, 2)
	rowspan, _ := rows[0].Content[1].IntAttr("rowspan")
	assert.Equal(t, 2, rowspan)
	assert.Equal(t, "b", rows[0].Content[1].PlainText())
	assert.Empty(t, rows[1].Content)
}

func TestExportGridAfterCountsTowardWidth(t *testing.T) {
	table := &Node{Type: NodeTable, Content: []*Node{
		rowNode(
			cellNode(NodeTableHeader, nil, "1"),
			cellNode(NodeTableHeader, nil, "2"),
		),
		{
			Type:    NodeTableRow,
			Attrs:   map[string]any{AttrRawXML: `<w:trPr><w:gridAfter w:val="1"/></w:trPr>`},
			Content: []*Node{cellNode(NodeTableCell, nil, "only")},
		},
	}}

	data := exportDoc(t, &Node{Type: NodeDoc, Content: []*Node{table}}, ExportOptions{})
	documentXML := readPart(t, data, PartDocument)
	assert.Equal(t, 2, strings.Count(documentXML, "<w:gridCol "))
	assert.Equal(t, 3, strings.Count(documentXML, "<w:tc>"))
}

func TestGridSkips(t *testing.T) {
	tests := []struct {
		name   string
		trPr   string
		before int
		after  int
	}{
		{"empty", "", 0, 0},
		{"before", `<w:trPr><w:gridBefore w:val="2"/></w:trPr>`, 2, 0},
		{"both", `<w:trPr><w:gridBefore w:val="1"/><w:trHeight w:val="400"/><w:gridAfter w:val="3"/></w:trPr>`, 1, 3},
		{"long form", `<w:trPr><w:gridBefore w:val='4'></w:gridBefore></w:trPr>`, 4, 0},
		{"unrelated val", `<w:trPr><w:trHeight w:val="400"/></w:trPr>`, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, after := gridSkips(tt.trPr)
			assert.Equal(t, tt.before, before)
			assert.Equal(t, tt.after, after)
		})
	}
}

func TestExportCellAttributes(t *testing.T) {
	table := &Node{
		Type:  NodeTable,
		Attrs: map[string]any{"colwidths": []any{2000.0, 3000.0}, "alignment": "center", "styleName": "Fancy"},
		Content: []*Node{rowNode(
			&Node{
				Type: NodeTableHeader,
				Attrs: map[string]any{
					"colwidth":        []any{100.0},
					"backgroundColor": "#AABBCC",
					"verticalAlign":   "bottom",
					"textAlign":       "center",
					"borders": map[string]any{
						"bottom": map[string]any{"style": "double", "width": "8", "color": "FF0000"},
					},
				},
				Content: []*Node{
					{Type: NodeHeading, Attrs: map[string]any{"level": 1.0}, Content: []*Node{textNode("cell heading")}},
					paragraphNode(textNode("aligned by cell")),
				},
			},
			cellNode(NodeTableHeader, nil, "second"),
		)},
	}

	data := exportDoc(t, &Node{Type: NodeDoc, Content: []*Node{table}}, ExportOptions{})
	documentXML := readPart(t, data, PartDocument)

	assert.Contains(t, documentXML, `<w:gridCol w:w="2000"/><w:gridCol w:w="3000"/>`)
	assert.Contains(t, documentXML, `<w:tblStyle w:val="Fancy"></w:tblStyle>`)
	assert.Contains(t, documentXML, `<w:tcW w:w="1500" w:type="dxa"></w:tcW>`)
	assert.Contains(t, documentXML, `<w:shd w:val="clear" w:color="auto" w:fill="AABBCC"></w:shd>`)
	assert.Contains(t, documentXML, `<w:vAlign w:val="bottom"></w:vAlign>`)
	assert.Contains(t, documentXML, `<w:bottom w:val="double" w:sz="8" w:space="0" w:color="FF0000"></w:bottom>`)
	assert.Equal(t, 3, strings.Count(documentXML, `<w:jc w:val="center"></w:jc>`), "table jc plus both paragraphs of the aligned cell")
	assert.NotContains(t, documentXML, `w:val="Heading1"`, "headings inside cells are written as bold paragraphs")

	cell := reimport(t, data).Content[0].Content[0].Content[0]
	require.Len(t, cell.Content, 2)
	assert.Equal(t, NodeParagraph, cell.Content[0].Type)
	assert.Equal(t, []string{MarkBold}, markTypes(cell.Content[0].Content[0].Marks))
	assert.Equal(t, "#AABBCC", cell.StringAttr("backgroundColor"))
	assert.Equal(t, "bottom", cell.StringAttr("verticalAlign"))
}

const fidelityBody = `<w:tbl>` +
	`<w:tblPr><w:tblStyle w:val="Custom"/><w:tblLook w:val="04A0" w:firstRow="1"/></w:tblPr>` +
	`<w:tblGrid><w:gridCol w:w="4000"/><w:gridCol w:w="5000"/></w:tblGrid>` +
	`<w:tr><w:trPr><w:trHeight w:val="777"/></w:trPr>` +
	`<w:tc><w:tcPr><w:tcW w:w="4000" w:type="dxa"/><w:tcMar><w:top w:w="99" w:type="dxa"/></w:tcMar></w:tcPr><w:p><w:r><w:t>left</w:t></w:r></w:p></w:tc>` +
	`<w:tc><w:tcPr><w:tcW w:w="5000" w:type="dxa"/></w:tcPr>` +
	`<w:p><w:r><w:t>outer</w:t></w:r></w:p>` +
	`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
	`</w:tc>` +
	`</w:tr>` +
	`</w:tbl>`

func TestExportPreservesRawTableFragments(t *testing.T) {
	source := createTestDocx(t, map[string]string{PartDocument: documentXML(fidelityBody)})

	result, err := testEngine().Import(source)
	require.NoError(t, err)

	// through JSON, as an editor would
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"rawTblPr"`)
	reloaded, err := ParseDocument(data)
	require.NoError(t, err)

	out := exportDoc(t, reloaded.Doc, ExportOptions{})
	documentXML := readPart(t, out, PartDocument)

	assert.Contains(t, documentXML, "tblLook")
	assert.Contains(t, documentXML, `w:val="Custom"`)
	assert.Contains(t, documentXML, `w:w="5000"`)
	assert.Contains(t, documentXML, `w:val="777"`)
	assert.Contains(t, documentXML, "tcMar")
	assert.NotContains(t, documentXML, "TableGrid", "raw tblPr replaces the synthesized one")

	assert.Equal(t, 2, strings.Count(documentXML, "<w:tbl>"), "nested table restored verbatim")
	assert.Contains(t, documentXML, "inner")
	assert.NotContains(t, documentXML, DefaultNestedTablePlaceholder)

	again := reimport(t, out)
	cell := again.Content[0].Content[0].Content[1]
	assert.Equal(t, "outer"+DefaultNestedTablePlaceholder, cell.PlainText())
}

func TestExportNestedTableWithRelationshipsKeepsPlaceholder(t *testing.T) {
	linked := `<w:tbl><w:tr><w:tc><w:p><w:hyperlink r:id="rId9"><w:r><w:t>link</w:t></w:r></w:hyperlink></w:p></w:tc></w:tr></w:tbl>`
	plain := `<w:tbl><w:tr><w:tc><w:p><w:bookmarkStart w:id="0" w:name="mark"/><w:r><w:t>plain</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`

	cell := &Node{
		Type:  NodeTableCell,
		Attrs: map[string]any{AttrNestedTables: []any{linked, plain}},
		Content: []*Node{
			paragraphNode(textNode(DefaultNestedTablePlaceholder)),
			paragraphNode(textNode(DefaultNestedTablePlaceholder)),
		},
	}
	table := &Node{Type: NodeTable, Content: []*Node{rowNode(cell)}}

	logger, out := testLogger()
	data, err := Export(&Node{Type: NodeDoc, Content: []*Node{table}}, ExportOptions{Logger: logger})
	require.NoError(t, err)

	documentXML := readPart(t, data, PartDocument)
	assert.NotContains(t, documentXML, "rId9")
	assert.Equal(t, 1, strings.Count(documentXML, DefaultNestedTablePlaceholder))
	assert.Contains(t, documentXML, "plain", "second placeholder still gets its own table")
	assert.Equal(t, 2, strings.Count(documentXML, "<w:tbl>"))
	assert.Contains(t, out.String(), "nested table references package relationships")
}

func TestExportDoesNotMutateInput(t *testing.T) {
	source := createTestDocx(t, map[string]string{PartDocument: documentXML(fidelityBody)})
	result, err := testEngine().Import(source)
	require.NoError(t, err)

	before, err := json.Marshal(result.Doc)
	require.NoError(t, err)

	exportDoc(t, result.Doc, ExportOptions{})

	after, err := json.Marshal(result.Doc)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.Equal(t, NodeRawStyles, result.Doc.Content[len(result.Doc.Content)-1].Type)
}

func TestExportSchemaErrors(t *testing.T) {
	logger, out := testLogger()
	doc := &Node{Type: NodeDoc, Content: []*Node{
		{Type: "bulletList", Content: []*Node{paragraphNode(textNode("lost"))}},
		paragraphNode(textNode("kept"), &Node{Type: "image"}),
		nil,
		{Type: NodeTable, Content: []*Node{
			{Type: NodeParagraph},
			rowNode(cellNode(NodeTableCell, nil, "ok"), paragraphNode(textNode("stray"))),
		}},
	}}

	data, err := Export(doc, ExportOptions{Logger: logger})
	require.NoError(t, err, "schema problems are recovered, not returned")

	log := out.String()
	assert.Contains(t, log, `schema error at content/0 (type "bulletList"): unsupported node type`)
	assert.Contains(t, log, `schema error at content/1/content/1 (type "image"): unsupported inline node`)
	assert.Contains(t, log, "schema error at content/2: null node")
	assert.Contains(t, log, `schema error at content/3/content/0 (type "paragraph"): table content must be rows`)
	assert.Contains(t, log, "row content must be cells")
	assert.Equal(t, 5, strings.Count(log, "[WARN]"))

	documentXML := readPart(t, data, PartDocument)
	assert.NotContains(t, documentXML, "lost")
	assert.NotContains(t, documentXML, "stray")
	assert.Contains(t, documentXML, "kept")
	assert.Contains(t, documentXML, "<w:body><w:p></w:p>", "unknown block became an empty paragraph")
}

func TestExportNonDocRoot(t *testing.T) {
	logger, out := testLogger()
	data, err := Export(paragraphNode(textNode("alone")), ExportOptions{Logger: logger})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "root node is not a document")
	assert.Equal(t, "alone", reimport(t, data).Content[0].PlainText())
}

func TestExportSectionsFlatten(t *testing.T) {
	section := &Node{Type: NodeSection, Attrs: map[string]any{"id": "s", "level": 1.0}, Content: []*Node{
		{Type: NodeHeading, Attrs: map[string]any{"level": 1.0}, Content: []*Node{textNode("Head")}},
		paragraphNode(textNode("body")),
		{Type: NodeSection, Attrs: map[string]any{"id": "s2", "level": 2.0}, Content: []*Node{paragraphNode(textNode("child"))}},
	}}

	doc := reimport(t, exportDoc(t, &Node{Type: NodeDoc, Content: []*Node{section}}, ExportOptions{}))
	require.Len(t, doc.Content, 3)
	assert.Equal(t, NodeHeading, doc.Content[0].Type)
	assert.Equal(t, "body", doc.Content[1].PlainText())
	assert.Equal(t, "child", doc.Content[2].PlainText())
}

func TestExportComments(t *testing.T) {
	comments := []Comment{
		{ID: "1", Author: "Ana", Date: "2024-05-01T00:00:00Z", Initials: "A", Text: "first\nsecond"},
		{ID: "2", Author: "Ben", Text: "<ok> & done"},
	}
	data := exportDoc(t, &Node{Type: NodeDoc, Content: []*Node{paragraphNode(textNode("x"))}}, ExportOptions{Comments: comments})

	require.True(t, hasPart(t, data, PartComments))
	assert.Contains(t, readPart(t, data, PartDocumentRels), RelTypeComments)
	assert.Contains(t, readPart(t, data, PartContentTypes), `PartName="/word/comments.xml"`)

	c, err := OpenContainer(data)
	require.NoError(t, err)
	assert.Equal(t, comments, c.Comments.List())
}

func templateDocx(t *testing.T) []byte {
	t.Helper()
	return createTestDocx(t, map[string]string{
		PartContentTypes: `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
			`<Override PartName="/word/comments.xml" ContentType="` + ContentTypeComments + `"/>` +
			`<Override PartName="/word/commentsExtended.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.commentsExtended+xml"/>` +
			`</Types>`,
		PartPackageRels: `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`,
		PartDocumentRels: `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
			`<Relationship Id="rId2" Type="` + RelTypeComments + `" Target="comments.xml"/>` +
			`<Relationship Id="rId3" Type="` + RelTypeCommentsExt + `" Target="commentsExtended.xml"/>` +
			`<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>` +
			`</Relationships>`,
		PartDocument: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="` + testNamespaceW + `" xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006" xmlns:custom="urn:example:custom" mc:Ignorable="custom">` +
			`<w:body><w:p><w:r><w:t>template text</w:t></w:r></w:p>` +
			`<w:sectPr><w:footerReference w:type="default" r:id="rId4" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>` +
			`</w:body></w:document>`,
		PartStyles: stylesXML(
			paragraphStyle("Normal", "Normal"),
			paragraphStyle("Heading1", "My Heading"),
		),
		PartComments:      `<w:comments xmlns:w="` + testNamespaceW + `"><w:comment w:id="0" w:author="Old"><w:p/></w:comment></w:comments>`,
		PartCommentsExt:   `<w15:commentsEx xmlns:w15="http://schemas.microsoft.com/office/word/2012/wordml"/>`,
		"word/footer1.xml": `<w:ftr xmlns:w="` + testNamespaceW + `"><w:p/></w:ftr>`,
	})
}

func TestExportWithTemplate(t *testing.T) {
	doc := &Node{Type: NodeDoc, Content: []*Node{
		{Type: NodeHeading, Attrs: map[string]any{"level": 2.0}, Content: []*Node{textNode("New")}},
	}}
	data := exportDoc(t, doc, ExportOptions{Template: templateDocx(t)})

	documentXML := readPart(t, data, PartDocument)
	assert.Contains(t, documentXML, `xmlns:custom="urn:example:custom"`)
	assert.Contains(t, documentXML, `mc:Ignorable="custom"`)
	assert.Contains(t, documentXML, `w:w="11906"`)
	assert.Contains(t, documentXML, "footerReference")
	assert.NotContains(t, documentXML, "template text", "template body is replaced")
	assert.Equal(t, 1, strings.Count(documentXML, "<w:sectPr"))

	assert.True(t, hasPart(t, data, "word/footer1.xml"))
	assert.False(t, hasPart(t, data, PartComments))
	assert.False(t, hasPart(t, data, PartCommentsExt))

	rels := readPart(t, data, PartDocumentRels)
	assert.NotContains(t, rels, RelTypeComments)
	assert.NotContains(t, rels, RelTypeCommentsExt)
	assert.Contains(t, rels, "footer1.xml")

	contentTypes := readPart(t, data, PartContentTypes)
	assert.NotContains(t, contentTypes, "comments")

	styles := readPart(t, data, PartStyles)
	assert.Equal(t, 1, strings.Count(styles, `w:styleId="Heading1"`), "template style is kept, not duplicated")
	assert.Contains(t, styles, "My Heading")
	assert.Contains(t, styles, `w:styleId="Heading2"`)
	assert.Contains(t, styles, `w:styleId="TableGrid"`)

	reloaded := reimport(t, data)
	assert.Equal(t, NodeHeading, reloaded.Content[0].Type)
}

func TestExportTemplateWithComments(t *testing.T) {
	data := exportDoc(t, &Node{Type: NodeDoc}, ExportOptions{
		Template: templateDocx(t),
		Comments: []Comment{{ID: "5", Author: "New", Text: "fresh"}},
	})

	c, err := OpenContainer(data)
	require.NoError(t, err)
	require.Len(t, c.Comments, 1)
	assert.Equal(t, "fresh", c.Comments["5"].Text)
	assert.Equal(t, 1, strings.Count(readPart(t, data, PartDocumentRels), RelTypeComments+`"`))
	assert.Equal(t, 1, strings.Count(readPart(t, data, PartContentTypes), "/word/comments.xml"))
}

func TestExportInvalidTemplate(t *testing.T) {
	_, err := Export(&Node{Type: NodeDoc}, ExportOptions{
		Template: []byte("not a zip"),
		Logger:   NewLogger(io.Discard, LogOff),
	})
	require.Error(t, err)
	assert.True(t, IsExportError(err))
	assert.True(t, IsContainerError(err))
}
