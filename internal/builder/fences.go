package builder

import (
	"strings"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/pred"
	"github.com/agentic-research/semtree/internal/semantic"
)

// frame is an unclosed fence and the nodes collected after it. The bottom
// frame of a row has no fence.
type frame struct {
	fence *semantic.Node
	nodes []*semantic.Node
}

func (p *processor) fencesInRow(nodes []*semantic.Node) []*semantic.Node {
	if !containsFence(nodes) {
		return nodes
	}
	nodes = p.purgeFences(nodes)
	stack := []*frame{{}}
	top := func() *frame { return stack[len(stack)-1] }
	for _, n := range nodes {
		if !pred.IsFence(n) {
			top().nodes = append(top().nodes, n)
			continue
		}
		switch n.Role {
		case semantic.RoleOpen:
			stack = append(stack, &frame{fence: n})
		case semantic.RoleClose:
			open := -1
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].fence.Role == semantic.RoleOpen {
					open = i
					break
				}
			}
			if open < 0 {
				p.fenceToPunct(n)
				top().nodes = append(top().nodes, n)
				continue
			}
			inner := append(stack[open].nodes, p.neutralFrames(stack[open+1:])...)
			fenced := p.fenced(stack[open].fence, n, inner)
			stack = stack[:open]
			top().nodes = append(top().nodes, fenced)
		case semantic.RoleNeutral:
			last := top()
			if last.fence != nil && pred.CompareNeutralFences(p.t, n, last.fence) &&
				pred.EligibleLeftNeutral(p.t, last.fence) && pred.EligibleRightNeutral(p.t, n) {
				stack = stack[:len(stack)-1]
				top().nodes = append(top().nodes, p.fenced(last.fence, n, last.nodes))
				continue
			}
			stack = append(stack, &frame{fence: n})
		default:
			p.fenceToPunct(n)
			top().nodes = append(top().nodes, n)
		}
	}
	return p.unwind(stack)
}

func containsFence(nodes []*semantic.Node) bool {
	for _, n := range nodes {
		if pred.IsFence(n) {
			return true
		}
	}
	return false
}

// purgeFences demotes embellished fences that cannot pair to punctuation.
func (p *processor) purgeFences(nodes []*semantic.Node) []*semantic.Node {
	for _, n := range nodes {
		if pred.IsFence(n) && !pred.IsEligibleEmbellishedFence(p.t, n) {
			p.fenceToPunct(n)
		}
	}
	return nodes
}

// unwind flattens the frames left open at the end of a row. Open fences
// become punctuation; runs of neutral fences are paired among themselves.
func (p *processor) unwind(stack []*frame) []*semantic.Node {
	out := stack[0].nodes
	rest := stack[1:]
	for len(rest) > 0 {
		if rest[0].fence.Role != semantic.RoleNeutral {
			p.fenceToPunct(rest[0].fence)
			out = append(out, rest[0].fence)
			out = append(out, rest[0].nodes...)
			rest = rest[1:]
			continue
		}
		end := 1
		for end < len(rest) && rest[end].fence.Role == semantic.RoleNeutral {
			end++
		}
		out = append(out, p.neutralFrames(rest[:end])...)
		rest = rest[end:]
	}
	return out
}

// neutralFrames pairs each neutral fence with the first later fence of the
// same character. Unpaired fences become punctuation.
func (p *processor) neutralFrames(frames []*frame) []*semantic.Node {
	if len(frames) == 0 {
		return nil
	}
	first := frames[0]
	match := -1
	if pred.EligibleLeftNeutral(p.t, first.fence) {
		for i := 1; i < len(frames); i++ {
			f := frames[i].fence
			if pred.CompareNeutralFences(p.t, f, first.fence) && pred.EligibleRightNeutral(p.t, f) {
				match = i
				break
			}
		}
	}
	if match < 0 {
		p.fenceToPunct(first.fence)
		out := append([]*semantic.Node{first.fence}, first.nodes...)
		return append(out, p.neutralFrames(frames[1:])...)
	}
	inner := append(first.nodes, p.neutralFrames(frames[1:match])...)
	out := []*semantic.Node{p.fenced(first.fence, frames[match].fence, inner)}
	out = append(out, frames[match].nodes...)
	return append(out, p.neutralFrames(frames[match+1:])...)
}

// fenceToPunct turns a fence, and every wrapper of its embellishment
// chain, into punctuation.
func (p *processor) fenceToPunct(fence *semantic.Node) {
	var role semantic.Role
	switch fence.Role {
	case semantic.RoleNeutral:
		role = semantic.RoleVBar
	case semantic.RoleOpen:
		role = semantic.RoleOpenFence
	case semantic.RoleClose:
		role = semantic.RoleCloseFence
	default:
		return
	}
	for fence.Embellished != semantic.TypeNone {
		fence.Embellished = semantic.TypePunctuation
		fence.FencePointer = semantic.NoID
		if fence.Role != semantic.RoleSubsup && fence.Role != semantic.RoleUnderover {
			fence.Role = role
		}
		next := p.t.Child(fence, 0)
		if next == nil {
			break
		}
		fence = next
	}
	fence.Type = semantic.TypePunctuation
	fence.Role = role
}

// fenced builds the node for a matched pair and moves script embellishment
// of the fences onto the result.
func (p *processor) fenced(open, closing *semantic.Node, nodes []*semantic.Node) *semantic.Node {
	child := p.row(nodes)
	n := p.t.MakeBranch(semantic.TypeFenced, []*semantic.Node{child}, []*semantic.Node{open, closing})
	if open.Role == semantic.RoleOpen {
		n.Role = semantic.RoleLeftRight
		p.classifySet(n)
	} else {
		n.Role = open.Role
	}
	return p.rewriteFenced(n)
}

func (p *processor) rewriteFenced(fenced *semantic.Node) *semantic.Node {
	content := p.t.Content(fenced)
	node, open := p.rewriteFence(fenced, content[0])
	node, closing := p.rewriteFence(node, content[1])
	p.t.SetContent(fenced, []*semantic.Node{open, closing})
	node.Parent = semantic.NoID
	return node
}

// rewriteFence strips the embellishment chain from fence. Scripts on the
// chain are rewrapped around node; other wrappers stay on the fence.
func (p *processor) rewriteFence(node, fence *semantic.Node) (*semantic.Node, *semantic.Node) {
	if fence.Embellished == semantic.TypeNone {
		return node, fence
	}
	inner := p.t.Child(fence, 0)
	if inner == nil {
		return node, fence
	}
	rnode, rfence := p.rewriteFence(node, inner)
	switch fence.Type {
	case semantic.TypeSubscript, semantic.TypeSuperscript, semantic.TypeTensor:
		if fence.Role != semantic.RoleSubsup {
			fence.Role = node.Role
		}
		if rnode != inner {
			p.t.ReplaceChild(fence, inner, rnode)
		}
		if inner.FencePointer != semantic.NoID {
			fence.FencePointer = inner.FencePointer
		} else {
			fence.FencePointer = inner.ID
		}
		fence.Embellished = semantic.TypeNone
		return fence, rfence
	}
	p.t.ReplaceChild(fence, inner, rfence)
	return node, fence
}

// classifySet refines the role of a brace-fenced node.
func (p *processor) classifySet(n *semantic.Node) {
	if !pred.IsSetNode(p.t, n) {
		return
	}
	child := p.t.Child(n, 0)
	switch {
	case child == nil || child.Type == semantic.TypeEmpty:
		n.Role = semantic.RoleSetEmpty
	case child.Type == semantic.TypePunctuated:
		separators := p.t.Content(child)
		if len(separators) == 1 &&
			(separators[0].Role == semantic.RoleColon || separators[0].Role == semantic.RoleVBar) {
			n.Role = semantic.RoleSetExt
			return
		}
		n.Role = semantic.RoleSetCollect
	case pred.IsSingletonSetContent(p.t, child):
		n.Role = semantic.RoleSetSingle
	}
}

// mfenced expands the element into explicit fences and separators, then
// processes the result as a row.
func (p *processor) mfenced(e *mathml.Element) *semantic.Node {
	var seps []string
	for _, r := range strings.Join(strings.Fields(e.AttrOr("separators", ",")), "") {
		seps = append(seps, string(r))
	}
	var nodes []*semantic.Node
	if open := strings.TrimSpace(e.AttrOr("open", "(")); open != "" {
		nodes = append(nodes, p.symbol(open))
	}
	for i, c := range children(e) {
		if i > 0 && len(seps) > 0 {
			nodes = append(nodes, p.symbol(seps[min(i-1, len(seps)-1)]))
		}
		nodes = append(nodes, p.parse(c))
	}
	if closing := strings.TrimSpace(e.AttrOr("close", ")")); closing != "" {
		nodes = append(nodes, p.symbol(closing))
	}
	return p.row(nodes)
}

// symbol creates a leaf classified by the lexicon alone.
func (p *processor) symbol(text string) *semantic.Node {
	m := semantic.Lookup(text)
	n := p.t.MakeLeaf(text, m.Font)
	n.Type, n.Role = m.Type, m.Role
	if n.Type == semantic.TypeUnknown {
		n.Type = semantic.TypeOperator
	}
	return n
}
