package docxtiptap

import (
	"errors"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"
)

// BuildOptions controls tree construction
type BuildOptions struct {
	// OutlineSections nests content under its headings as Sections
	OutlineSections bool
	// Logger defaults to the global logger
	Logger *Logger
}

// buildContext holds the per-document state of one build pass
type buildContext struct {
	container *Container
	resolver  *NumberingResolver
	logger    *Logger
	// openComments are comment ranges started but not yet ended, in start order
	openComments []string
	skipped      map[string]int
}

// BuildTree walks the container body in document order and produces the
// intermediate tree. Numbering labels are resolved as paragraphs are visited,
// so the result depends on document order only.
func BuildTree(c *Container, opts BuildOptions) (*Tree, error) {
	if c == nil || c.Body == nil {
		return nil, NewContainerError("build", PartDocument, errors.New("container has no body"))
	}

	logger := opts.Logger
	if logger == nil {
		logger = GetLogger()
	}

	ctx := &buildContext{
		container: c,
		resolver:  NewNumberingResolver(c.Numbering, logger),
		logger:    logger,
		skipped:   make(map[string]int),
	}

	blocks, droppedEmpty := ctx.buildBody(c.Body)
	if len(blocks) == 0 && droppedEmpty {
		blocks = append(blocks, &Paragraph{})
	}

	for name, count := range ctx.skipped {
		logger.WithFields(Fields{"element": name, "count": count}).Debug("skipped unsupported body element")
	}

	if opts.OutlineSections {
		blocks = groupSections(blocks)
	}

	return &Tree{Blocks: blocks, Comments: c.Comments}, nil
}

// buildBody converts the children of a body-level container. Empty
// paragraphs are dropped; the second result reports whether any were.
func (ctx *buildContext) buildBody(parent *xmlquery.Node) ([]Block, bool) {
	var blocks []Block
	droppedEmpty := false

	for _, child := range elementChildren(parent) {
		switch child.Data {
		case "p":
			para := ctx.buildParagraph(child)
			if para.IsEmpty() {
				droppedEmpty = true
				continue
			}
			blocks = append(blocks, para)
		case "tbl":
			blocks = append(blocks, ctx.buildTable(child))
		case "sdt":
			inner, dropped := ctx.buildBody(childElement(child, "sdtContent"))
			blocks = append(blocks, inner...)
			droppedEmpty = droppedEmpty || dropped
		case "commentRangeStart", "commentRangeEnd":
			ctx.trackComment(child)
		case "sectPr", "bookmarkStart", "bookmarkEnd", "proofErr":
		default:
			ctx.skipped[child.Data]++
		}
	}
	return blocks, droppedEmpty
}

func (ctx *buildContext) trackComment(n *xmlquery.Node) {
	id := attrValue(n, "id")
	if id == "" {
		return
	}
	if n.Data == "commentRangeStart" {
		for _, open := range ctx.openComments {
			if open == id {
				return
			}
		}
		ctx.openComments = append(ctx.openComments, id)
		return
	}
	for i, open := range ctx.openComments {
		if open == id {
			ctx.openComments = append(ctx.openComments[:i], ctx.openComments[i+1:]...)
			return
		}
	}
}

func (ctx *buildContext) buildParagraph(p *xmlquery.Node) *Paragraph {
	para := &Paragraph{}

	if pPr := childElement(p, "pPr"); pPr != nil {
		para.StyleName = childVal(pPr, "pStyle")
		if para.StyleName != "" {
			para.HeadingLevel = ctx.container.Styles.HeadingLevel(para.StyleName)
		}
		para.Alignment = childVal(pPr, "jc")

		if numPr := childElement(pPr, "numPr"); numPr != nil {
			numID := childVal(numPr, "numId")
			level, _ := strconv.Atoi(childVal(numPr, "ilvl"))
			if label, ok := ctx.resolver.NextLabel(numID, level); ok {
				para.NumberingLabel = label
			}
		}
	}

	ctx.collectRuns(p, nil, para)
	return para
}

// collectRuns gathers runs from p and from the inline wrappers that can hold
// them. rev is the revision of the enclosing w:ins or w:del, if any.
func (ctx *buildContext) collectRuns(n *xmlquery.Node, rev *Revision, para *Paragraph) {
	for _, child := range elementChildren(n) {
		switch child.Data {
		case "r":
			ctx.appendRun(child, rev, para)
		case "ins", "del":
			kind := RevisionInsertion
			if child.Data == "del" {
				kind = RevisionDeletion
			}
			ctx.collectRuns(child, &Revision{
				Kind:   kind,
				ID:     attrValue(child, "id"),
				Author: attrValue(child, "author"),
				Date:   attrValue(child, "date"),
			}, para)
		case "hyperlink", "smartTag", "fldSimple", "customXml":
			ctx.collectRuns(child, rev, para)
		case "sdt":
			ctx.collectRuns(childElement(child, "sdtContent"), rev, para)
		case "commentRangeStart", "commentRangeEnd":
			ctx.trackComment(child)
		}
	}
}

func (ctx *buildContext) appendRun(r *xmlquery.Node, rev *Revision, para *Paragraph) {
	var text strings.Builder
	for _, c := range elementChildren(r) {
		switch c.Data {
		case "t", "delText":
			text.WriteString(c.InnerText())
		case "tab":
			text.WriteString("\t")
		case "br", "cr":
			text.WriteString("\n")
		case "noBreakHyphen":
			text.WriteString("-")
		}
	}
	if text.Len() == 0 {
		return
	}

	run := TextRun{Text: text.String(), Revision: rev}
	if rPr := childElement(r, "rPr"); rPr != nil {
		run.Bold = toggleOn(childElement(rPr, "b"))
		run.Italic = toggleOn(childElement(rPr, "i"))
	}
	if len(ctx.openComments) > 0 {
		run.CommentIDs = append([]string(nil), ctx.openComments...)
	}
	para.Runs = append(para.Runs, run)
}

func (ctx *buildContext) buildTable(tbl *xmlquery.Node) *Table {
	table := &Table{
		ID:    uuid.NewString(),
		Style: &TableStyle{},
	}

	if tblPr := childElement(tbl, "tblPr"); tblPr != nil {
		table.RawProperties = outerXML(tblPr)
		table.Style.Alignment = childVal(tblPr, "jc")
		table.Style.StyleName = childVal(tblPr, "tblStyle")
	}
	if grid := childElement(tbl, "tblGrid"); grid != nil {
		table.RawGrid = outerXML(grid)
		for _, col := range childElements(grid, "gridCol") {
			w, _ := attrInt(col, "w")
			table.Style.ColumnWidths = append(table.Style.ColumnWidths, w)
		}
	}

	// vertical merge origins keyed by grid column
	merges := make(map[int]*TableCell)

	for _, tr := range childElements(tbl, "tr") {
		row := &TableRow{}
		col := 0
		if trPr := childElement(tr, "trPr"); trPr != nil {
			row.RawXML = outerXML(trPr)
			if before, ok := attrInt(childElement(trPr, "gridBefore"), "val"); ok {
				col = before
			}
		}

		for _, tc := range ctx.rowCells(tr) {
			cell := ctx.buildCell(tc)
			startCol := col
			col += cell.Colspan

			vMerge := childPath(tc, "tcPr", "vMerge")
			if vMerge != nil && attrValue(vMerge, "val") != "restart" {
				if origin, ok := merges[startCol]; ok {
					origin.Rowspan++
					continue
				}
			}
			if vMerge != nil {
				merges[startCol] = cell
			} else {
				delete(merges, startCol)
			}
			row.Cells = append(row.Cells, cell)
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// rowCells returns the w:tc elements of a row, looking through w:sdt and
// w:customXml wrappers.
func (ctx *buildContext) rowCells(tr *xmlquery.Node) []*xmlquery.Node {
	var cells []*xmlquery.Node
	for _, c := range elementChildren(tr) {
		switch c.Data {
		case "tc":
			cells = append(cells, c)
		case "sdt":
			cells = append(cells, childElements(childElement(c, "sdtContent"), "tc")...)
		case "customXml":
			cells = append(cells, childElements(c, "tc")...)
		}
	}
	return cells
}

func (ctx *buildContext) buildCell(tc *xmlquery.Node) *TableCell {
	cell := &TableCell{Colspan: 1, Rowspan: 1}

	tcPr := childElement(tc, "tcPr")
	if tcPr != nil {
		cell.RawXML = outerXML(tcPr)
		if span, ok := attrInt(childElement(tcPr, "gridSpan"), "val"); ok && span > 1 {
			cell.Colspan = span
		}
	}

	cell.Content = ctx.buildCellContent(tc, cell)
	if len(cell.Content) == 0 {
		cell.Content = []Block{&Paragraph{}}
	}
	cell.Style = cellStyle(tcPr, tc)
	return cell
}

func (ctx *buildContext) buildCellContent(parent *xmlquery.Node, cell *TableCell) []Block {
	var content []Block
	for _, child := range elementChildren(parent) {
		switch child.Data {
		case "p":
			if para := ctx.buildParagraph(child); !para.IsEmpty() {
				content = append(content, para)
			}
		case "tbl":
			cell.NestedXML = append(cell.NestedXML, outerXML(child))
			content = append(content, ctx.buildTable(child))
		case "sdt":
			content = append(content, ctx.buildCellContent(childElement(child, "sdtContent"), cell)...)
		case "commentRangeStart", "commentRangeEnd":
			ctx.trackComment(child)
		}
	}
	return content
}

var borderSides = []string{"top", "bottom", "left", "right"}

// cellStyle extracts modeled formatting; nil when the cell has none
func cellStyle(tcPr, tc *xmlquery.Node) *TableCellStyle {
	style := &TableCellStyle{}
	set := false

	if tcW := childElement(tcPr, "tcW"); tcW != nil {
		unit := attrValue(tcW, "type")
		if w, ok := attrInt(tcW, "w"); ok && w > 0 && (unit == "" || unit == "dxa") {
			style.Width = &w
			set = true
		}
	}
	if fill := attrValue(childElement(tcPr, "shd"), "fill"); fill != "" && !strings.EqualFold(fill, "auto") {
		style.BackgroundColor = fill
		set = true
	}
	if v := childVal(tcPr, "vAlign"); v != "" {
		style.VerticalAlign = v
		set = true
	}
	if jc := childVal(childPath(tc, "p", "pPr"), "jc"); jc != "" {
		style.TextAlign = jc
		set = true
	}
	if borders := childElement(tcPr, "tcBorders"); borders != nil {
		for _, side := range borderSides {
			b := childElement(borders, side)
			if b == nil {
				continue
			}
			if style.Borders == nil {
				style.Borders = make(map[string]Border)
			}
			style.Borders[side] = Border{
				Style: attrValue(b, "val"),
				Width: attrValue(b, "sz"),
				Color: attrValue(b, "color"),
			}
			set = true
		}
	}

	if !set {
		return nil
	}
	return style
}
