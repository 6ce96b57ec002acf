package semantic

import (
	"sort"
	"strings"
)

// ID identifies a node within one Tree.
type ID int

// NoID marks an absent reference (no parent, no fence pointer).
const NoID ID = -1

// Invisible characters inserted by the builders.
const (
	InvisibleTimes       = "⁢"
	FunctionApplication  = "⁡"
	InvisibleComma       = "⁣"
	InvisiblePlus        = "⁤"
	annotationSeparator  = ";"
	annotationKeyDivider = ":"
)

// Origin links a node back to the source element it was built from.
// Only the forward path sets it.
type Origin struct {
	Tag   string
	Index int // preorder position of the element in its source tree
}

// Node is a semantic node. Relations to other nodes are IDs into the owning
// Tree; the tree is the only owner.
type Node struct {
	ID           ID
	Type         Type
	Role         Role
	Font         Font
	Embellished  Type
	FencePointer ID
	TextContent  string
	Children     []ID
	Content      []ID
	Parent       ID
	Annotation   map[string][]string
	Origin       *Origin
}

// IsLeaf reports whether the node has neither children nor content.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0 && len(n.Content) == 0
}

// UpdateContent replaces the node's text. A comma update turns the node
// into an invisible separator.
func (n *Node) UpdateContent(text string, isComma bool) {
	n.TextContent = text
	if isComma {
		n.Type = TypePunctuation
		n.Role = RoleDummy
		n.Font = FontNone
	}
}

// AddAnnotation appends a value to the given annotation domain, skipping
// duplicates.
func (n *Node) AddAnnotation(domain, value string) {
	if domain == "" || value == "" {
		return
	}
	if n.Annotation == nil {
		n.Annotation = make(map[string][]string)
	}
	for _, v := range n.Annotation[domain] {
		if v == value {
			return
		}
	}
	n.Annotation[domain] = append(n.Annotation[domain], value)
}

// ParseAnnotation reads "domain:value;domain:value" into the node.
func (n *Node) ParseAnnotation(s string) {
	for _, part := range strings.Split(s, annotationSeparator) {
		domain, value, ok := strings.Cut(part, annotationKeyDivider)
		if !ok {
			continue
		}
		n.AddAnnotation(strings.TrimSpace(domain), strings.TrimSpace(value))
	}
}

// AnnotationString is the inverse of ParseAnnotation. Domains are sorted.
func (n *Node) AnnotationString() string {
	if len(n.Annotation) == 0 {
		return ""
	}
	domains := make([]string, 0, len(n.Annotation))
	for d := range n.Annotation {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	var parts []string
	for _, d := range domains {
		for _, v := range n.Annotation[d] {
			parts = append(parts, d+annotationKeyDivider+v)
		}
	}
	return strings.Join(parts, annotationSeparator)
}
