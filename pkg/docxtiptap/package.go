package docxtiptap

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Relationship and content-type vocabulary
const (
	RelTypeComments       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	RelTypeCommentsExt    = "http://schemas.microsoft.com/office/2011/relationships/commentsExtended"
	RelTypeCommentsIDs    = "http://schemas.microsoft.com/office/2016/09/relationships/commentsIds"
	RelTypeCommentsExtsb  = "http://schemas.microsoft.com/office/2018/08/relationships/commentsExtensible"
	ContentTypeComments   = "application/vnd.openxmlformats-officedocument.wordprocessingml.comments+xml"
	packageRelsNamespace  = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNamespace = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

func parseRelationships(data []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return &rels, nil
}

// without drops every relationship whose type is in types
func (r *Relationships) without(types ...string) {
	kept := r.Relationship[:0]
	for _, rel := range r.Relationship {
		drop := false
		for _, t := range types {
			if rel.Type == t {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, rel)
		}
	}
	r.Relationship = kept
}

// add appends a relationship with the next free rIdN
func (r *Relationships) add(relType, target string) string {
	used := make(map[string]bool, len(r.Relationship))
	for _, rel := range r.Relationship {
		used[rel.ID] = true
	}
	n := len(r.Relationship) + 1
	for used["rId"+strconv.Itoa(n)] {
		n++
	}
	id := "rId" + strconv.Itoa(n)
	r.Relationship = append(r.Relationship, Relationship{ID: id, Type: relType, Target: target})
	return id
}

func (r *Relationships) marshal() ([]byte, error) {
	r.Namespace = packageRelsNamespace
	out, err := xml.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), out...), nil
}

// ContentTypes represents [Content_Types].xml
type ContentTypes struct {
	XMLName   xml.Name          `xml:"Types"`
	Namespace string            `xml:"xmlns,attr"`
	Defaults  []ContentDefault  `xml:"Default"`
	Overrides []ContentOverride `xml:"Override"`
}

// ContentDefault maps a file extension to a content type
type ContentDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentOverride maps a single part to a content type
type ContentOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func parseContentTypes(data []byte) (*ContentTypes, error) {
	var ct ContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}
	return &ct, nil
}

// withoutParts drops overrides for the given part names (without leading slash)
func (c *ContentTypes) withoutParts(parts ...string) {
	kept := c.Overrides[:0]
	for _, o := range c.Overrides {
		drop := false
		for _, p := range parts {
			if strings.TrimPrefix(o.PartName, "/") == p {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, o)
		}
	}
	c.Overrides = kept
}

func (c *ContentTypes) override(part, contentType string) {
	c.withoutParts(part)
	c.Overrides = append(c.Overrides, ContentOverride{PartName: "/" + part, ContentType: contentType})
}

func (c *ContentTypes) marshal() ([]byte, error) {
	c.Namespace = contentTypesNamespace
	out, err := xml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), out...), nil
}
