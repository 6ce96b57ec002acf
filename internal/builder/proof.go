package builder

import (
	"strings"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/semantic"
)

// proofAttributes reads the marker-prefixed key:value pairs of a semantics
// attribute. Pairs without the marker are ignored.
func proofAttributes(s, marker string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		rest, ok := strings.CutPrefix(part, marker)
		if !ok {
			continue
		}
		key, value, _ := strings.Cut(rest, ":")
		out[key] = value
	}
	return out
}

// proof builds an inference from a table encoding a proof tree: the last
// row is the conclusion and the cells of the rows above are the premises.
// Cells marked as labels are attached as content.
func (p *processor) proof(e *mathml.Element) *semantic.Node {
	attrs := proofAttributes(e.AttrOr("semantics", ""), p.cfg.ProofMarker)
	rows := children(e)
	if len(rows) == 0 {
		p.log.Debug("proof table without rows", "index", e.Index)
		return p.t.MakeEmpty()
	}
	var premises, labels []*semantic.Node
	for _, r := range rows[:len(rows)-1] {
		ps, ls := p.proofCells(r)
		premises = append(premises, ps...)
		labels = append(labels, ls...)
	}
	parts, ls := p.proofCells(rows[len(rows)-1])
	labels = append(labels, ls...)
	conclusion := p.row(parts)

	prem := p.t.MakeBranch(semantic.TypePremises, premises, nil)
	prem.Role = semantic.RolePremises
	n := p.t.MakeBranch(semantic.TypeInference, []*semantic.Node{conclusion, prem}, labels)
	n.Role = semantic.RoleDown
	if attrs["inferenceRule"] == "up" {
		n.Role = semantic.RoleUp
	}
	if side := attrs["labelledRule"]; side != "" {
		n.AddAnnotation("proof", "labelled-"+side)
	}
	return n
}

// proofCells splits the cells of a proof row into operands and labels.
func (p *processor) proofCells(r *mathml.Element) (operands, labels []*semantic.Node) {
	cells := []*mathml.Element{r}
	if r.Tag() == mathml.TagMtr || r.Tag() == mathml.TagMlabeledtr {
		cells = children(r)
	}
	for _, c := range cells {
		var content *semantic.Node
		if c.Tag() == mathml.TagMtd {
			content = p.row(p.parseAll(children(c)))
		} else {
			content = p.parse(c)
		}
		attrs := proofAttributes(c.AttrOr("semantics", ""), p.cfg.ProofMarker)
		side, isLabel := attrs["label"]
		if !isLabel {
			operands = append(operands, content)
			continue
		}
		label := p.t.MakeBranch(semantic.TypeCell, []*semantic.Node{content}, nil)
		label.Role = semantic.RoleRight
		if side == "left" {
			label.Role = semantic.RoleLeft
		}
		label.Origin = origin(c)
		labels = append(labels, label)
	}
	return operands, labels
}
