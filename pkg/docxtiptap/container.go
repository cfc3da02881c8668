package docxtiptap

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/antchfx/xmlquery"
)

// Well-known part names inside a DOCX package
const (
	PartDocument      = "word/document.xml"
	PartNumbering     = "word/numbering.xml"
	PartComments      = "word/comments.xml"
	PartStyles        = "word/styles.xml"
	PartDocumentRels  = "word/_rels/document.xml.rels"
	PartContentTypes  = "[Content_Types].xml"
	PartPackageRels   = "_rels/.rels"
	PartCommentsExt   = "word/commentsExtended.xml"
	PartCommentsIDs   = "word/commentsIds.xml"
	PartCommentsExtsb = "word/commentsExtensible.xml"
)

// Container is an opened DOCX package with its parsed XML parts.
// It is read-only once opened.
type Container struct {
	parts map[string]*zip.File

	// Document is the root element of word/document.xml
	Document *xmlquery.Node
	// Body is the w:body element
	Body *xmlquery.Node
	// Numbering is nil when the package has no numbering part
	Numbering *NumberingDefinitions
	// Comments is empty when the package has no comments part
	Comments CommentRegistry
	// Styles is never nil; it is empty when the package has no styles part
	Styles *StyleSheet
}

// OpenContainer indexes and parses a DOCX package held in memory.
func OpenContainer(data []byte) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewContainerError("open", "", err)
	}

	c := &Container{
		parts:    make(map[string]*zip.File, len(zr.File)),
		Comments: CommentRegistry{},
		Styles:   &StyleSheet{names: map[string]string{}},
	}
	for _, f := range zr.File {
		c.parts[f.Name] = f
	}

	if _, ok := c.parts[PartDocument]; !ok {
		return nil, NewContainerError("open", PartDocument, errors.New("missing required part"))
	}

	doc, err := c.parsePart(PartDocument)
	if err != nil {
		return nil, err
	}
	c.Document = documentElement(doc)
	c.Body = childElement(c.Document, "body")
	if c.Body == nil {
		return nil, NewContainerError("parse", PartDocument, errors.New("document has no body"))
	}

	if c.HasPart(PartNumbering) {
		root, err := c.parsePart(PartNumbering)
		if err != nil {
			return nil, err
		}
		c.Numbering = ParseNumbering(root)
	}

	if c.HasPart(PartComments) {
		root, err := c.parsePart(PartComments)
		if err != nil {
			return nil, err
		}
		c.Comments = ParseComments(root)
	}

	if c.HasPart(PartStyles) {
		root, err := c.parsePart(PartStyles)
		if err != nil {
			return nil, err
		}
		c.Styles = ParseStyleSheet(root)
	}

	return c, nil
}

// HasPart reports whether the package contains the named part
func (c *Container) HasPart(name string) bool {
	_, ok := c.parts[name]
	return ok
}

// Part returns the raw bytes of a part
func (c *Container) Part(name string) ([]byte, error) {
	file, ok := c.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", name, err)
	}
	return content, nil
}

// PartNames lists all part names in sorted order
func (c *Container) PartNames() []string {
	names := make([]string, 0, len(c.parts))
	for name := range c.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Container) parsePart(name string) (*xmlquery.Node, error) {
	content, err := c.Part(name)
	if err != nil {
		return nil, NewContainerError("read", name, err)
	}
	root, err := xmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, NewContainerError("parse", name, err)
	}
	return root, nil
}
