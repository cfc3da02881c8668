package docxtiptap

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Helpers over xmlquery nodes. WordprocessingML element and attribute names
// are matched on their local part so documents written with a non-standard
// prefix still resolve.

func elementChildren(n *xmlquery.Node) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func childElement(n *xmlquery.Node, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

func childElements(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for _, c := range elementChildren(n) {
		if c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

// childPath walks a chain of child element names, e.g. childPath(p, "pPr", "numPr", "numId").
func childPath(n *xmlquery.Node, path ...string) *xmlquery.Node {
	for _, local := range path {
		n = childElement(n, local)
		if n == nil {
			return nil
		}
	}
	return n
}

func attrValue(n *xmlquery.Node, local string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// childVal returns the w:val attribute of the named child, "" if absent.
func childVal(n *xmlquery.Node, local string) string {
	return attrValue(childElement(n, local), "val")
}

func attrInt(n *xmlquery.Node, local string) (int, bool) {
	v := attrValue(n, local)
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

// toggleOn reports whether an OOXML on/off property element is set.
// A present element with no w:val means on.
func toggleOn(n *xmlquery.Node) bool {
	if n == nil {
		return false
	}
	switch strings.ToLower(attrValue(n, "val")) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

// outerXML serializes a node including its own tag, keeping the source prefixes.
func outerXML(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return n.OutputXML(true)
}

func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == xmlquery.ElementNode {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}
