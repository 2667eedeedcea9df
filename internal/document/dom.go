package document

import (
	"fmt"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates a detached element. attrs are key/value pairs.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		dom.SetAttribute(n, attrs[i], attrs[i+1])
	}
	return n
}

// Text creates a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// HasClass reports whether n carries class in its class attribute.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(dom.GetAttribute(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	return strings.Fields(dom.GetAttribute(n, "class"))
}

// AddClass appends classes that n does not carry yet.
func AddClass(n *html.Node, classes ...string) {
	current := Classes(n)
	for _, c := range classes {
		if !HasClass(n, c) {
			current = append(current, c)
		}
	}
	dom.SetAttribute(n, "class", strings.Join(current, " "))
}

// RemoveClass drops class from n, removing the attribute when it becomes empty.
func RemoveClass(n *html.Node, class string) {
	var kept []string
	for _, c := range Classes(n) {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		dom.RemoveAttribute(n, "class")
		return
	}
	dom.SetAttribute(n, "class", strings.Join(kept, " "))
}

// Detach removes n from its parent. Detaching a detached node is a no-op.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Append detaches child and appends it to parent.
func Append(parent, child *html.Node) {
	Detach(child)
	parent.AppendChild(child)
}

// Prepend detaches child and inserts it as the first child of parent.
func Prepend(parent, child *html.Node) {
	Detach(child)
	parent.InsertBefore(child, parent.FirstChild)
}

// InsertBefore detaches n and inserts it immediately before ref.
func InsertBefore(ref, n *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref)
}

// InsertAfter detaches n and inserts it immediately after ref.
func InsertAfter(ref, n *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// Wrap replaces n with wrapper and moves n inside it.
func Wrap(n, wrapper *html.Node) {
	n.Parent.InsertBefore(wrapper, n)
	Append(wrapper, n)
}

// Unwrap replaces n by its children.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// MoveChildren moves every child of src to the end of dst.
func MoveChildren(dst, src *html.Node) {
	for c := src.FirstChild; c != nil; c = src.FirstChild {
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}

// Replace puts n where old was.
func Replace(old, n *html.Node) {
	Detach(n)
	old.Parent.InsertBefore(n, old)
	old.Parent.RemoveChild(old)
}

// RemoveAll detaches every node in nodes.
func RemoveAll(nodes []*html.Node) {
	for _, n := range nodes {
		Detach(n)
	}
}

// TextOf returns the text content of n with whitespace runs collapsed.
func TextOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(strings.Fields(dom.TextContent(n)), " ")
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	n.AppendChild(Text(s))
}

// ParseFragment parses markup in the context of parent and returns the
// resulting detached nodes.
func ParseFragment(parent *html.Node, markup string) ([]*html.Node, error) {
	context := parent
	if context == nil || context.Type != html.ElementNode {
		context = Element("div")
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return nodes, nil
}

// Closest returns the nearest ancestor of n (n included) matching match.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
	}
	return nil
}

// IsTag reports whether n is an element with the given tag.
func IsTag(n *html.Node, tag atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == tag
}
