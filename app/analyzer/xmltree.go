package analyzer

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlNode is a minimal document tree for the structural validation rules.
// Decoding is deliberately lax: undeclared namespace prefixes, unknown
// entities and declared charsets are all tolerated, since the validator
// must degrade gracefully on real-world feeds.
type xmlNode struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string
	Children []*xmlNode
}

func parseXMLTree(text string) (*xmlNode, error) {
	decoder := xml.NewDecoder(strings.NewReader(text))
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return charset.NewReaderLabel(label, input)
	}

	var root *xmlNode
	var stack []*xmlNode

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &xmlNode{Name: t.Name, Attrs: t.Attr}
			if len(stack) == 0 {
				if root == nil {
					root = node
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	return root, nil
}

// child returns the first direct child whose local name matches.
func (n *xmlNode) child(local string) *xmlNode {
	for _, c := range n.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// childrenNamed returns all direct children whose local name matches.
func (n *xmlNode) childrenNamed(local string) []*xmlNode {
	var matched []*xmlNode
	for _, c := range n.Children {
		if c.Name.Local == local {
			matched = append(matched, c)
		}
	}
	return matched
}

// descendant finds the first node with the given local name, depth-first.
func (n *xmlNode) descendant(local string) *xmlNode {
	for _, c := range n.Children {
		if c.Name.Local == local {
			return c
		}
		if found := c.descendant(local); found != nil {
			return found
		}
	}
	return nil
}

// walk visits every node in the subtree, including n itself.
func (n *xmlNode) walk(visit func(*xmlNode)) {
	visit(n)
	for _, c := range n.Children {
		c.walk(visit)
	}
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) textContent() string {
	return strings.TrimSpace(n.Text)
}
