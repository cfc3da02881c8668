// Package docxtiptap converts Word documents (DOCX) to TipTap/ProseMirror JSON
// and back.
//
// Import reads the container, resolves list numbering into rendered labels,
// builds an intermediate tree of paragraphs, tables and sections, and projects
// it onto the editor schema. Table properties the editor cannot represent are
// kept as raw XML fragments in a storage node at the end of the document, so
// they survive editing and are spliced back on export.
//
// # Quick Start
//
//	engine := docxtiptap.New()
//
//	result, err := engine.ImportFile("contract.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... edit result.Doc in the editor ...
//
//	err = engine.ExportFile(result.Doc, "contract-edited.docx", "contract.docx", result.Comments)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Output Schema
//
// The document root is {"type":"doc","content":[...]}. Block nodes are
// paragraph, heading (attrs.level 1..6), table with tableRow, tableHeader
// (first row) and tableCell children, and section. Text nodes carry marks
// bold, italic, insertion, deletion and comment. List labels are fused into
// the paragraph text.
//
// # Fidelity Storage
//
// The last top-level node may be {"type":"rawStylesStorage","attrs":{"data":...}}
// where data is a JSON object of fragments keyed by table id and position.
// Keep the node when saving editor state; export removes it and reattaches
// fragments to the tables that still exist. Fragments for deleted tables
// are ignored.
//
// # Configuration
//
// Configuration comes from DefaultConfig, an optional YAML file
// (LoadConfigFile) and DOCXTIPTAP_* environment variables:
//
//	DOCXTIPTAP_LOG_LEVEL=debug
//	DOCXTIPTAP_OUTLINE_SECTIONS=true
//	DOCXTIPTAP_WORKERS=8
//
// # Errors
//
// A container that cannot be read yields a *ContainerError. Schema problems in
// an edited document and unknown numbering formats are recovered locally and
// logged at warn level; export packaging failures yield an *ExportError.
package docxtiptap
