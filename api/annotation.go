package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Prefix is shared by every semantic annotation attribute.
const Prefix = "data-semantic-"

// Attribute names written by the enricher and read by the reverse builder.
const (
	AttrType         = Prefix + "type"
	AttrRole         = Prefix + "role"
	AttrFont         = Prefix + "font"
	AttrEmbellished  = Prefix + "embellished"
	AttrFencePointer = Prefix + "fencepointer"
	AttrID           = Prefix + "id"
	AttrAnnotation   = Prefix + "annotation"
	AttrChildren     = Prefix + "children"
	AttrContent      = Prefix + "content"
	AttrCollapsed    = Prefix + "collapsed"
	AttrOperator     = Prefix + "operator"
)

// ErrNegativeID is returned for ids below zero.
var ErrNegativeID = errors.New("negative id")

// NoRef marks an absent fence pointer.
const NoRef = -1

// Annotation is the per-node record carried on an element. It is the
// decoded form of the data-semantic-* attributes.
type Annotation struct {
	// ID of the semantic node.
	ID int `json:"id"`
	// Type name, or a composite marker such as "subsup".
	Type string `json:"type"`
	Role string `json:"role,omitempty"`
	Font string `json:"font,omitempty"`
	// Embellished names the type of the wrapped core, if any.
	Embellished string `json:"embellished,omitempty"`
	// FencePointer is the id of the innermost fence, or NoRef.
	FencePointer int `json:"fence_pointer"`
	// Annotation is the free-form "domain:value;..." string.
	Annotation string `json:"annotation,omitempty"`
	Children   []int  `json:"children,omitempty"`
	Content    []int  `json:"content,omitempty"`
	// Collapsed is the skeleton of folded composites.
	Collapsed string `json:"collapsed,omitempty"`
	// Operator is "parentType,parentText" on content nodes.
	Operator string `json:"operator,omitempty"`
}

// Attrs encodes the record as attributes. Empty fields are omitted.
func (a Annotation) Attrs() map[string]string {
	m := map[string]string{
		AttrID:   strconv.Itoa(a.ID),
		AttrType: a.Type,
	}
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set(AttrRole, a.Role)
	set(AttrFont, a.Font)
	set(AttrEmbellished, a.Embellished)
	if a.FencePointer != NoRef {
		m[AttrFencePointer] = strconv.Itoa(a.FencePointer)
	}
	set(AttrAnnotation, a.Annotation)
	set(AttrChildren, joinIDs(a.Children))
	set(AttrContent, joinIDs(a.Content))
	set(AttrCollapsed, a.Collapsed)
	set(AttrOperator, a.Operator)
	return m
}

// FromAttrs decodes a record. ok is false when the attributes carry no
// semantic id at all.
func FromAttrs(attrs map[string]string) (a Annotation, ok bool, err error) {
	raw, ok := attrs[AttrID]
	if !ok {
		return Annotation{}, false, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return Annotation{}, true, fmt.Errorf("%s %q: %w", AttrID, raw, err)
	}
	if id < 0 {
		return Annotation{}, true, fmt.Errorf("%s %q: %w", AttrID, raw, ErrNegativeID)
	}
	a = Annotation{
		ID:           id,
		Type:         attrs[AttrType],
		Role:         attrs[AttrRole],
		Font:         attrs[AttrFont],
		Embellished:  attrs[AttrEmbellished],
		FencePointer: NoRef,
		Annotation:   attrs[AttrAnnotation],
		Collapsed:    attrs[AttrCollapsed],
		Operator:     attrs[AttrOperator],
	}
	if v, ok := attrs[AttrFencePointer]; ok {
		fp, err := strconv.Atoi(v)
		if err != nil {
			return a, true, fmt.Errorf("%s %q: %w", AttrFencePointer, v, err)
		}
		if fp < 0 {
			return a, true, fmt.Errorf("%s %q: %w", AttrFencePointer, v, ErrNegativeID)
		}
		a.FencePointer = fp
	}
	if a.Children, err = splitIDs(attrs[AttrChildren]); err != nil {
		return a, true, fmt.Errorf("%s: %w", AttrChildren, err)
	}
	if a.Content, err = splitIDs(attrs[AttrContent]); err != nil {
		return a, true, fmt.Errorf("%s: %w", AttrContent, err)
	}
	return a, true, nil
}

// OperatorParts splits the operator attribute into the parent type and
// text. The text may itself contain commas.
func (a Annotation) OperatorParts() (parentType, text string, ok bool) {
	return strings.Cut(a.Operator, ",")
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func splitIDs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("id %q: %w", part, err)
		}
		if id < 0 {
			return nil, fmt.Errorf("id %q: %w", part, ErrNegativeID)
		}
		out = append(out, id)
	}
	return out, nil
}
