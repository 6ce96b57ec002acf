// Package builder turns presentational MathML into a semantic tree.
//
// A Builder is configuration only; every Build call runs on a fresh
// processor that owns the node registry and the per-build caches, so one
// Builder may be shared across goroutines.
package builder

import (
	"log/slog"
	"strconv"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/pred"
	"github.com/agentic-research/semtree/internal/semantic"
)

type Builder struct {
	cfg Config
}

func New(cfg Config) *Builder {
	if cfg.SpaceThresholds == nil {
		cfg.SpaceThresholds = DefaultConfig().SpaceThresholds
	}
	if cfg.ProofMarker == "" {
		cfg.ProofMarker = DefaultConfig().ProofMarker
	}
	return &Builder{cfg: cfg}
}

// Build converts root into a semantic tree. It never fails: unknown or
// incomplete input yields unknown and empty nodes.
func (b *Builder) Build(root *mathml.Element) *semantic.Tree {
	p := &processor{
		cfg:       b.cfg,
		log:       b.cfg.logger(),
		t:         semantic.NewTree(),
		funcAppls: make(map[semantic.ID]*semantic.Node),
	}
	if root == nil {
		n := p.t.MakeEmpty()
		p.t.Root = n.ID
		return p.t
	}
	n := p.parse(root)
	n.Parent = semantic.NoID
	p.t.Root = n.ID
	return p.t
}

// Build runs the default configuration.
func Build(root *mathml.Element) *semantic.Tree {
	return New(DefaultConfig()).Build(root)
}

// processor carries the state of one build.
type processor struct {
	cfg Config
	log *slog.Logger
	t   *semantic.Tree

	// explicit function application operators removed from rows, keyed by
	// the function node they follow
	funcAppls map[semantic.ID]*semantic.Node
}

func (p *processor) parse(e *mathml.Element) *semantic.Node {
	n := p.dispatch(e)
	if n.Origin == nil {
		n.Origin = origin(e)
	}
	return n
}

func (p *processor) dispatch(e *mathml.Element) *semantic.Node {
	switch tag := e.Tag(); tag {
	case mathml.TagMath, mathml.TagMrow, mathml.TagMstyle, mathml.TagMpadded,
		mathml.TagMphantom, mathml.TagMerror:
		return p.rowElement(e)
	case mathml.TagMaction:
		return p.action(e)
	case mathml.TagSemantics:
		return p.semantics(e)
	case mathml.TagAnnotation, mathml.TagAnnotationXML:
		return p.t.MakeEmpty()
	case mathml.TagMfrac:
		return p.fraction(e)
	case mathml.TagMroot:
		return p.root(e)
	case mathml.TagMsqrt:
		return p.sqrt(e)
	case mathml.TagMsub, mathml.TagMsup, mathml.TagMsubsup,
		mathml.TagMunder, mathml.TagMover, mathml.TagMunderover:
		return p.scripts(e, tag)
	case mathml.TagMmultiscripts:
		return p.multiscripts(e)
	case mathml.TagMprescripts, mathml.TagNone:
		return p.t.MakeEmpty()
	case mathml.TagMtable:
		return p.table(e)
	case mathml.TagMtr, mathml.TagMlabeledtr:
		return p.tableRow(e, semantic.RoleTable)
	case mathml.TagMtd:
		return p.cell(e, semantic.RoleTable)
	case mathml.TagMfenced:
		return p.mfenced(e)
	case mathml.TagMenclose:
		return p.enclose(e)
	case mathml.TagMi:
		return p.identifier(e)
	case mathml.TagMn:
		return p.number(e)
	case mathml.TagMo:
		return p.operator(e)
	case mathml.TagMtext:
		return p.text(e, semantic.RoleUnknown)
	case mathml.TagMs:
		return p.text(e, semantic.RoleString)
	case mathml.TagMspace:
		return p.space(e)
	case mathml.TagMglyph:
		return p.glyph(e)
	case mathml.TagText:
		return p.text(e, semantic.RoleUnknown)
	default:
		p.log.Debug("unprocessed element", "tag", e.Name, "index", e.Index)
		n := p.t.MakeUnprocessed(origin(e))
		n.TextContent = leafText(e)
		return n
	}
}

func origin(e *mathml.Element) *semantic.Origin {
	return &semantic.Origin{Tag: e.Name, Index: e.Index}
}

// children purges whitespace text and returns the meaningful children.
func children(e *mathml.Element) []*mathml.Element {
	out := make([]*mathml.Element, 0, len(e.Children))
	for _, c := range e.Children {
		if c.IsWhitespace() {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *processor) parseAll(elems []*mathml.Element) []*semantic.Node {
	out := make([]*semantic.Node, 0, len(elems))
	for _, e := range elems {
		out = append(out, p.parse(e))
	}
	return out
}

// parseArgs parses exactly n operands, padding with empty nodes.
func (p *processor) parseArgs(e *mathml.Element, n int) []*semantic.Node {
	elems := children(e)
	if len(elems) > n {
		p.log.Debug("surplus operands dropped", "tag", e.Name, "want", n, "got", len(elems))
		elems = elems[:n]
	}
	out := p.parseAll(elems)
	for len(out) < n {
		out = append(out, p.t.MakeEmpty())
	}
	return out
}

func (p *processor) rowElement(e *mathml.Element) *semantic.Node {
	elems := children(e)
	if len(elems) == 1 {
		return p.parse(elems[0])
	}
	return p.row(p.parseAll(elems))
}

func (p *processor) action(e *mathml.Element) *semantic.Node {
	elems := children(e)
	sel, err := strconv.Atoi(e.AttrOr("selection", "1"))
	if err != nil {
		sel = 1
	}
	if sel < 1 || sel > len(elems) {
		return p.t.MakeEmpty()
	}
	return p.parse(elems[sel-1])
}

func (p *processor) semantics(e *mathml.Element) *semantic.Node {
	for _, c := range children(e) {
		switch c.Tag() {
		case mathml.TagAnnotation, mathml.TagAnnotationXML:
			continue
		}
		return p.parse(c)
	}
	return p.t.MakeEmpty()
}

func (p *processor) fraction(e *mathml.Element) *semantic.Node {
	args := p.parseArgs(e, 2)
	if zeroThickness(e.AttrOr("linethickness", "")) {
		top := p.t.MakeBranch(semantic.TypeLine, args[:1], nil)
		bottom := p.t.MakeBranch(semantic.TypeLine, args[1:], nil)
		n := p.t.MakeBranch(semantic.TypeMultiline, []*semantic.Node{top, bottom}, nil)
		p.binomialForm(n)
		return n
	}
	n := p.t.MakeBranch(semantic.TypeFraction, args, nil)
	switch {
	case e.AttrOr("bevelled", "") == "true":
		n.Role = semantic.RoleBevelled
	case isInteger(args[0]) && isInteger(args[1]):
		n.Role = semantic.RoleVulgar
	case pred.IsPureUnit(p.t, args[0]) && pred.IsPureUnit(p.t, args[1]):
		n.Role = semantic.RoleUnit
	default:
		n.Role = semantic.RoleDivision
	}
	return n
}

func zeroThickness(v string) bool {
	if v == "" {
		return false
	}
	m := widthPattern.FindStringSubmatch(v)
	if m == nil {
		f, err := strconv.ParseFloat(v, 64)
		return err == nil && f == 0
	}
	f, err := strconv.ParseFloat(m[1], 64)
	return err == nil && f == 0
}

func (p *processor) root(e *mathml.Element) *semantic.Node {
	elems := children(e)
	if len(elems) < 2 {
		return p.sqrtOf(p.parseAll(elems))
	}
	args := p.parseArgs(e, 2)
	return p.t.MakeBranch(semantic.TypeRoot, []*semantic.Node{args[1], args[0]}, nil)
}

func (p *processor) sqrt(e *mathml.Element) *semantic.Node {
	return p.sqrtOf(p.parseAll(children(e)))
}

func (p *processor) sqrtOf(nodes []*semantic.Node) *semantic.Node {
	return p.t.MakeBranch(semantic.TypeSqrt, []*semantic.Node{p.row(nodes)}, nil)
}

func (p *processor) enclose(e *mathml.Element) *semantic.Node {
	n := p.t.MakeBranch(semantic.TypeEnclose, []*semantic.Node{p.row(p.parseAll(children(e)))}, nil)
	n.Role = semantic.Role(e.AttrOr("notation", "longdiv"))
	return n
}
