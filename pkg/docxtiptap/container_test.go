package docxtiptap

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenContainerErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantMsg string
	}{
		{
			name:    "not a zip",
			data:    []byte("plain text"),
			wantMsg: "container error during open",
		},
		{
			name:    "document without body",
			data:    createTestDocx(t, map[string]string{PartDocument: `<w:document xmlns:w="` + testNamespaceW + `"/>`}),
			wantMsg: "container error during parse of 'word/document.xml': document has no body",
		},
		{
			name:    "malformed document",
			data:    createTestDocx(t, map[string]string{PartDocument: `<w:document xmlns:w="` + testNamespaceW + `"><w:body></w:document>`}),
			wantMsg: "container error during parse of 'word/document.xml'",
		},
		{
			name: "malformed numbering",
			data: createTestDocx(t, map[string]string{
				PartNumbering: `<w:numbering xmlns:w="` + testNamespaceW + `"><w:num></w:numbering>`,
			}),
			wantMsg: "container error during parse of 'word/numbering.xml'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := OpenContainer(tt.data)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, IsContainerError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOpenContainerMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create(PartStyles)
	require.NoError(t, err)
	_, err = f.Write([]byte(stylesXML()))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = OpenContainer(buf.Bytes())
	assert.EqualError(t, err, "container error during open of 'word/document.xml': missing required part")
}

func TestOpenContainerParts(t *testing.T) {
	data := createTestDocx(t, map[string]string{
		PartDocument:  documentXML(`<w:p><w:r><w:t>hello</w:t></w:r></w:p>`),
		PartStyles:    stylesXML(paragraphStyle("Berschrift1", "heading 1")),
		PartNumbering: testNumberingXML,
		PartComments: `<w:comments xmlns:w="` + testNamespaceW + `">` +
			`<w:comment w:id="3" w:author="Ana" w:date="2024-01-02T03:04:05Z" w:initials="A"><w:p><w:r><w:t>one</w:t></w:r></w:p><w:p><w:r><w:t>two</w:t></w:r></w:p></w:comment>` +
			`</w:comments>`,
		"word/media/image1.png": "png",
	})

	c, err := OpenContainer(data)
	require.NoError(t, err)

	assert.Equal(t, "document", c.Document.Data)
	assert.Equal(t, "body", c.Body.Data)
	assert.Equal(t, []string{PartComments, PartDocument, "word/media/image1.png", PartNumbering, PartStyles}, c.PartNames())
	assert.True(t, c.HasPart("word/media/image1.png"))
	assert.False(t, c.HasPart(PartCommentsExt))

	content, err := c.Part("word/media/image1.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(content))

	_, err = c.Part("word/missing.xml")
	assert.ErrorContains(t, err, "part word/missing.xml not found")

	require.NotNil(t, c.Numbering)
	assert.True(t, c.Numbering.HasList("1"))

	assert.Equal(t, 1, c.Styles.HeadingLevel("Berschrift1"), "display name identifies localized heading ids")
	assert.Equal(t, Comment{ID: "3", Author: "Ana", Date: "2024-01-02T03:04:05Z", Initials: "A", Text: "one\ntwo"}, c.Comments["3"])
}

func TestOpenContainerOptionalParts(t *testing.T) {
	c := openBody(t, "", nil)

	assert.Nil(t, c.Numbering)
	assert.Empty(t, c.Comments)
	require.NotNil(t, c.Styles)
	assert.Equal(t, 1, c.Styles.HeadingLevel("Heading1"), "ids alone still match the heading pattern")
	assert.Zero(t, c.Styles.HeadingLevel("Normal"))
}
