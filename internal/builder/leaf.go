package builder

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/semantic"
)

var widthPattern = regexp.MustCompile(`^\s*(-?[0-9]*\.?[0-9]+)\s*(cm|pc|em|ex|in|pt|mm|px)?\s*$`)

func leafText(e *mathml.Element) string {
	return strings.TrimSpace(e.TextContent())
}

// leaf classifies text through the lexicon and applies any mathvariant.
func (p *processor) leaf(e *mathml.Element, text string) *semantic.Node {
	m := semantic.Lookup(text)
	n := p.t.MakeLeaf(text, m.Font)
	n.Type, n.Role = m.Type, m.Role
	if v, ok := e.Attr("mathvariant"); ok {
		if f, ok := semantic.ParseFont(v); ok {
			n.Font = f
		}
	}
	return n
}

func (p *processor) identifier(e *mathml.Element) *semantic.Node {
	text := leafText(e)
	if text == "" {
		return p.t.MakeEmpty()
	}
	n := p.leaf(e, text)
	if e.AttrOr("class", "") == "MathML-Unit" {
		n.Type, n.Role = semantic.TypeIdentifier, semantic.RoleUnit
		return n
	}
	switch n.Type {
	case semantic.TypeUnknown:
		n.Type = semantic.TypeIdentifier
	case semantic.TypeIdentifier:
		if n.Font == semantic.FontDoubleStruck && utf8.RuneCountInString(text) == 1 &&
			semantic.IsNumberSet(text) {
			n.Role = semantic.RoleNumberSet
		}
	}
	_, explicit := e.Attr("mathvariant")
	if !explicit && n.Font == semantic.FontNormal && utf8.RuneCountInString(text) == 1 &&
		n.Type == semantic.TypeIdentifier && semantic.IsLetter(text) {
		n.Font = semantic.FontItalic
	}
	return n
}

func (p *processor) number(e *mathml.Element) *semantic.Node {
	text := leafText(e)
	if text == "" {
		return p.t.MakeEmpty()
	}
	n := p.leaf(e, text)
	if n.Type != semantic.TypeNumber {
		n.Type, n.Role = semantic.TypeNumber, semantic.RoleOtherNumber
	}
	return n
}

func (p *processor) operator(e *mathml.Element) *semantic.Node {
	text := leafText(e)
	if text == "" {
		return p.t.MakeEmpty()
	}
	n := p.leaf(e, text)
	if n.Type == semantic.TypeUnknown {
		n.Type = semantic.TypeOperator
	}
	return n
}

func (p *processor) text(e *mathml.Element, role semantic.Role) *semantic.Node {
	text := leafText(e)
	n := p.t.MakeLeaf(text, semantic.FontNormal)
	n.Type, n.Role = semantic.TypeText, role
	if text == "" {
		n.Role = semantic.RoleSpace
	}
	if v, ok := e.Attr("mathvariant"); ok {
		if f, ok := semantic.ParseFont(v); ok {
			n.Font = f
		}
	}
	return n
}

func (p *processor) glyph(e *mathml.Element) *semantic.Node {
	alt := strings.TrimSpace(e.AttrOr("alt", ""))
	if alt == "" {
		return p.t.MakeEmpty()
	}
	n := p.leaf(e, alt)
	if n.Type == semantic.TypeUnknown {
		n.Type = semantic.TypeIdentifier
	}
	return n
}

// space keeps wide spaces as text. Narrow, unmeasurable or unset widths are
// layout only.
func (p *processor) space(e *mathml.Element) *semantic.Node {
	width, ok := e.Attr("width")
	if !ok {
		return p.t.MakeEmpty()
	}
	m := widthPattern.FindStringSubmatch(width)
	if m == nil {
		p.log.Debug("unparseable space width", "width", width)
		return p.t.MakeEmpty()
	}
	threshold, ok := p.cfg.SpaceThresholds[m[2]]
	if !ok {
		return p.t.MakeEmpty()
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < threshold {
		return p.t.MakeEmpty()
	}
	n := p.t.MakeLeaf("", semantic.FontNone)
	n.Type, n.Role = semantic.TypeText, semantic.RoleSpace
	return n
}

func isInteger(n *semantic.Node) bool {
	return n != nil && n.Type == semantic.TypeNumber && n.Role == semantic.RoleInteger
}
