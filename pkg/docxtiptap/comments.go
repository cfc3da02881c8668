package docxtiptap

import (
	"encoding/xml"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var commentExpr = xpath.MustCompile("//*[local-name()='comment']")

// Comment is a reviewer comment from word/comments.xml. Text runs refer to
// comments by ID; comments are never embedded inline.
type Comment struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Date     string `json:"date,omitempty"`
	Initials string `json:"initials,omitempty"`
	Text     string `json:"text"`
}

// CommentRegistry maps comment id to comment
type CommentRegistry map[string]Comment

// ParseComments reads every w:comment in a comments part
func ParseComments(root *xmlquery.Node) CommentRegistry {
	registry := CommentRegistry{}
	if root == nil {
		return registry
	}

	for _, node := range xmlquery.QuerySelectorAll(root, commentExpr) {
		id := attrValue(node, "id")
		if id == "" {
			continue
		}
		var paras []string
		for _, p := range childElements(node, "p") {
			paras = append(paras, collectText(p))
		}
		registry[id] = Comment{
			ID:       id,
			Author:   attrValue(node, "author"),
			Date:     attrValue(node, "date"),
			Initials: attrValue(node, "initials"),
			Text:     strings.Join(paras, "\n"),
		}
	}
	return registry
}

// collectText concatenates all w:t descendants of n in document order
func collectText(n *xmlquery.Node) string {
	var b strings.Builder
	var walk func(*xmlquery.Node)
	walk = func(node *xmlquery.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if c.Data == "t" {
				b.WriteString(c.InnerText())
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// List returns the comments ordered by numeric id when possible
func (r CommentRegistry) List() []Comment {
	list := make([]Comment, 0, len(r))
	for _, c := range r {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		a, errA := strconv.Atoi(list[i].ID)
		b, errB := strconv.Atoi(list[j].ID)
		if errA == nil && errB == nil {
			return a < b
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// marshalCommentsPart renders a comments registry part. Anchors in the body
// are not written, so the part only preserves the comment registry itself.
func marshalCommentsPart(comments []Comment) ([]byte, error) {
	type commentText struct {
		Space string `xml:"xml:space,attr"`
		Value string `xml:",chardata"`
	}
	type commentRun struct {
		Text commentText `xml:"w:t"`
	}
	type commentPara struct {
		Runs []commentRun `xml:"w:r"`
	}
	type commentEl struct {
		ID       string        `xml:"w:id,attr"`
		Author   string        `xml:"w:author,attr"`
		Date     string        `xml:"w:date,attr,omitempty"`
		Initials string        `xml:"w:initials,attr,omitempty"`
		Paras    []commentPara `xml:"w:p"`
	}
	type commentsRoot struct {
		XMLName  xml.Name    `xml:"w:comments"`
		NS       string      `xml:"xmlns:w,attr"`
		Comments []commentEl `xml:"w:comment"`
	}

	root := commentsRoot{NS: NamespaceW}
	for _, c := range comments {
		el := commentEl{ID: c.ID, Author: c.Author, Date: c.Date, Initials: c.Initials}
		for _, line := range strings.Split(c.Text, "\n") {
			el.Paras = append(el.Paras, commentPara{Runs: []commentRun{{Text: commentText{Space: "preserve", Value: line}}}})
		}
		root.Comments = append(root.Comments, el)
	}

	out, err := xml.Marshal(root)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), out...), nil
}
