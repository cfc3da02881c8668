package docxtiptap

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/require"
)

const testNamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// documentXML wraps body markup in a minimal w:document
func documentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + testNamespaceW + `"><w:body>` + body + `</w:body></w:document>`
}

func stylesXML(styles ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:styles xmlns:w="` + testNamespaceW + `">` + strings.Join(styles, "") + `</w:styles>`
}

func paragraphStyle(id, name string) string {
	return `<w:style w:type="paragraph" w:styleId="` + id + `"><w:name w:val="` + name + `"/></w:style>`
}

// createTestDocx zips the given parts. A document part is required by the
// reader, so callers that omit it get an empty body.
func createTestDocx(t testing.TB, parts map[string]string) []byte {
	t.Helper()

	if _, ok := parts[PartDocument]; !ok {
		parts[PartDocument] = documentXML("")
	}
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(parts[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// openBody opens a package whose document body is body plus any extra parts
func openBody(t testing.TB, body string, extra map[string]string) *Container {
	t.Helper()
	parts := map[string]string{PartDocument: documentXML(body)}
	for name, data := range extra {
		parts[name] = data
	}
	c, err := OpenContainer(createTestDocx(t, parts))
	require.NoError(t, err)
	return c
}

func buildBody(t testing.TB, body string, extra map[string]string, opts BuildOptions) *Tree {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = NewLogger(io.Discard, LogOff)
	}
	tree, err := BuildTree(openBody(t, body, extra), opts)
	require.NoError(t, err)
	return tree
}

// readPart returns one part of a DOCX package
func readPart(t testing.TB, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func hasPart(t testing.TB, data []byte, name string) bool {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func parseXML(t testing.TB, s string) *xmlquery.Node {
	t.Helper()
	root, err := xmlquery.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return root
}

// testLogger returns a debug logger writing into the returned buffer
func testLogger() (*Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	return NewLogger(buf, LogDebug), buf
}

func textNode(text string, marks ...Mark) *Node {
	return &Node{Type: NodeText, Text: text, Marks: marks}
}

func paragraphNode(texts ...*Node) *Node {
	return &Node{Type: NodeParagraph, Content: texts}
}

func markTypes(marks []Mark) []string {
	out := make([]string, 0, len(marks))
	for _, m := range marks {
		out = append(out, m.Type)
	}
	return out
}
