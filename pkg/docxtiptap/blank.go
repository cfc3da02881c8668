package docxtiptap

import (
	"github.com/benjaminschreck/go-docxtiptap/pkg/docxtiptap/wordml"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// NamespaceW is the WordprocessingML main namespace
var NamespaceW = wordml.StandardNamespace("w")

// defaultSectionProperties is a Letter page with one-inch margins
const defaultSectionProperties = `<w:sectPr>` +
	`<w:pgSz w:w="12240" w:h="15840"/>` +
	`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
	`<w:cols w:space="720"/>` +
	`</w:sectPr>`

// blankParts returns the parts of a minimal package used when no template
// is supplied. word/document.xml is produced by the exporter.
func blankParts() map[string][]byte {
	return map[string][]byte{
		PartContentTypes: []byte(xmlHeader +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
			`<Override PartName="/word/settings.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"/>` +
			`</Types>`),

		PartPackageRels: []byte(xmlHeader +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`),

		PartDocumentRels: []byte(xmlHeader +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
			`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings" Target="settings.xml"/>` +
			`</Relationships>`),

		PartStyles: []byte(xmlHeader +
			`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="22"/></w:rPr></w:rPrDefault>` +
			`<w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>` +
			`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
			`<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/>` +
			`<w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar>` +
			`<w:top w:w="0" w:type="dxa"/><w:left w:w="108" w:type="dxa"/>` +
			`<w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/>` +
			`</w:tblCellMar></w:tblPr></w:style>` +
			`</w:styles>`),

		"word/settings.xml": []byte(xmlHeader +
			`<w:settings xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:defaultTabStop w:val="720"/><w:compat/>` +
			`</w:settings>`),
	}
}
