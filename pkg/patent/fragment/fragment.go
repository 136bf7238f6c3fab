// Package fragment materializes one streamed document element as a small
// node tree and offers path-based field extraction over it. Source files run
// to hundreds of megabytes, so only one fragment exists at a time; the caller
// drops the tree before decoding the next document.
package fragment

import (
	"encoding/xml"
	"strings"
)

// Kind discriminates tree nodes.
type Kind int

const (
	// Element is a regular XML element.
	Element Kind = iota
	// ProcInst is a processing instruction such as <?BRFSUM description="..."?>.
	// The bulk files use these as section markers inside <description>.
	ProcInst
)

// Node is one element (or processing instruction) of a document fragment.
type Node struct {
	Kind     Kind
	Name     string
	Attrs    []xml.Attr
	Text     string // concatenated character data directly under this node
	Children []*Node
}

// Parse consumes the element opened by start from dec and returns it as a
// tree. The decoder is left positioned just after the matching end element.
func Parse(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := &Node{Name: start.Name.Local, Attrs: start.Attr}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := Parse(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.EndElement:
			return n, nil
		case xml.CharData:
			n.Text += string(t)
		case xml.ProcInst:
			n.Children = append(n.Children, &Node{
				Kind: ProcInst,
				Name: t.Target,
				Text: string(t.Inst),
			})
		}
	}
}

// Find returns the first descendant matching a slash path of element names,
// or nil.
func (n *Node) Find(path string) *Node {
	if n == nil {
		return nil
	}
	cur := n
	for _, part := range strings.Split(path, "/") {
		next := cur.child(part)
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// FindAll returns every node matching path. All but the last path segment
// match the first occurrence, the last segment matches all siblings, which
// is how the repeated groups in the bulk files are laid out.
func (n *Node) FindAll(path string) []*Node {
	if n == nil {
		return nil
	}
	parts := strings.Split(path, "/")
	cur := n
	for _, part := range parts[:len(parts)-1] {
		cur = cur.child(part)
		if cur == nil {
			return nil
		}
	}
	last := parts[len(parts)-1]
	var out []*Node
	for _, c := range cur.Children {
		if c.Kind == Element && c.Name == last {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the named attribute value, or ("", false).
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AllText returns the concatenated, whitespace-collapsed text of the node
// and all descendant elements.
func (n *Node) AllText() string {
	var b strings.Builder
	n.appendText(&b)
	return collapseSpace(b.String())
}

func (n *Node) appendText(b *strings.Builder) {
	if n == nil {
		return
	}
	b.WriteString(n.Text)
	for _, c := range n.Children {
		if c.Kind == Element {
			c.appendText(b)
		}
	}
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == Element && c.Name == name {
			return c
		}
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
