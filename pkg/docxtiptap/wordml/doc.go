// Package wordml provides the WordprocessingML structures the exporter writes.
//
// The package is organized into logical files based on XML element types:
//
//   - types.go: BodyElement, RawXML and small shared property types
//   - document.go: the Document root and Body
//   - paragraph.go: Paragraph, Run and Text
//   - table.go: Table, TableRow, TableCell and their properties
//
// Every element marshals with an explicit "w:" prefix; the namespace itself is
// declared once on the document root. RawXML fragments, and the raw property
// fragments carried by tables, rows and cells, are written verbatim, which is
// how properties the editor cannot represent survive a round trip.
package wordml
