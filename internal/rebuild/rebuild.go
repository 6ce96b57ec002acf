// Package rebuild reconstructs a semantic tree from an element tree
// annotated with data-semantic-* attributes. Nodes keep their encoded ids.
// Parts of folded composites are synthesized from the collapse skeleton.
package rebuild

import (
	"log/slog"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/semtree/api"
	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/agentic-research/semtree/internal/skeleton"
)

type Builder struct {
	log *slog.Logger
}

// New returns a reverse builder. A nil logger means slog.Default().
func New(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{log: log}
}

// Rebuild runs the default builder.
func Rebuild(root *mathml.Element) *semantic.Tree {
	return New(nil).Rebuild(root)
}

// Rebuild reads every annotated element under root. The first annotated
// element in document order is the semantic root. It never fails:
// unreadable attributes are logged and dangling references become empty
// nodes.
func (b *Builder) Rebuild(root *mathml.Element) *semantic.Tree {
	p := &processor{
		log:    b.log,
		t:      semantic.NewTree(),
		elems:  make(map[semantic.ID]*mathml.Element),
		annots: make(map[semantic.ID]api.Annotation),
	}
	rootID := p.indexElements(root)
	if rootID == semantic.NoID {
		p.t.Root = p.t.MakeEmpty().ID
		return p.t
	}
	n := p.build(rootID)
	n.Parent = semantic.NoID
	p.t.Root = n.ID
	return p.t
}

type processor struct {
	log    *slog.Logger
	t      *semantic.Tree
	elems  map[semantic.ID]*mathml.Element
	annots map[semantic.ID]api.Annotation
}

// indexElements records the annotated elements by id and returns the first one.
func (p *processor) indexElements(root *mathml.Element) semantic.ID {
	first := semantic.NoID
	if root == nil {
		return first
	}
	root.Walk(func(e *mathml.Element) bool {
		a, ok, err := api.FromAttrs(e.Attrs)
		switch {
		case !ok:
			return true
		case err != nil:
			p.log.Debug("unreadable annotation", "element", e.Name, "index", e.Index, "error", err)
			return true
		}
		id := semantic.ID(a.ID)
		if _, dup := p.elems[id]; dup {
			p.log.Debug("duplicate semantic id", "id", a.ID, "index", e.Index)
			return true
		}
		p.elems[id] = e
		p.annots[id] = a
		if first == semantic.NoID {
			first = id
		}
		return true
	})
	return first
}

// build creates the node for an annotated element, or returns it when it
// has been created before.
func (p *processor) build(id semantic.ID) *semantic.Node {
	if p.t.Has(id) {
		return p.t.Get(id)
	}
	a, e := p.annots[id], p.elems[id]
	n := p.t.CreateNode(id)
	n.Type = p.parseType(a.Type)
	n.Role = semantic.Role(a.Role)
	if f, ok := semantic.ParseFont(a.Font); ok {
		n.Font = f
	}
	if a.Embellished != "" {
		n.Embellished = p.parseType(a.Embellished)
	}
	n.FencePointer = semantic.ID(a.FencePointer)
	n.ParseAnnotation(a.Annotation)

	var sk *skeleton.Skeleton
	pending := roaring.New()
	if a.Collapsed != "" {
		parsed, err := skeleton.Parse(a.Collapsed)
		if err == nil {
			err = parsed.Validate()
		}
		if err != nil {
			p.log.Debug("unusable collapse skeleton", "id", a.ID, "error", err)
		} else {
			sk = parsed
			for _, sid := range sk.IDs() {
				pending.Add(uint32(sid))
			}
		}
	}

	p.t.SetContent(n, p.refs(a.Content, pending))
	p.t.SetChildren(n, p.refs(a.Children, pending))

	switch {
	case len(a.Children) == 0 && len(a.Content) == 0:
		n.TextContent = e.TextContent()
		if n.TextContent == "" {
			if _, text, ok := a.OperatorParts(); ok {
				n.TextContent = text
			}
		}
	case len(n.Content) > 0:
		if op, ok := p.annots[n.Content[0]]; ok {
			if _, text, ok := op.OperatorParts(); ok {
				n.TextContent = text
			}
		}
	}

	if sk != nil {
		p.postProcess(n, sk)
	}
	return n
}

func (p *processor) parseType(s string) semantic.Type {
	t, ok := semantic.ParseType(s)
	if !ok {
		p.log.Debug("unknown semantic type", "type", s)
	}
	return t
}

// refs resolves id references. Ids named by the pending skeleton are left
// to post-processing; any other dangling id becomes an empty node.
func (p *processor) refs(ids []int, pending *roaring.Bitmap) []*semantic.Node {
	out := make([]*semantic.Node, 0, len(ids))
	for _, raw := range ids {
		id := semantic.ID(raw)
		switch {
		case p.known(id):
			out = append(out, p.resolve(id))
		case pending.Contains(uint32(raw)):
		default:
			p.log.Debug("missing reference", "id", raw)
			out = append(out, p.empty(id, semantic.RoleNone))
		}
	}
	return out
}

func (p *processor) known(id semantic.ID) bool {
	_, ok := p.elems[id]
	return ok || p.t.Has(id)
}

func (p *processor) resolve(id semantic.ID) *semantic.Node {
	if _, ok := p.elems[id]; ok {
		return p.build(id)
	}
	return p.t.Get(id)
}

func (p *processor) empty(id semantic.ID, role semantic.Role) *semantic.Node {
	if p.t.Has(id) {
		return p.t.Get(id)
	}
	n := p.t.CreateNode(id)
	n.Type = semantic.TypeEmpty
	n.Role = role
	return n
}
