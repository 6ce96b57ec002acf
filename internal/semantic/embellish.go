package semantic

// EmbellishedType returns the type a node embellishes: its Embellished
// field when set, its own type when that type can be embellished, else
// TypeNone.
func EmbellishedType(n *Node) Type {
	if n == nil {
		return TypeNone
	}
	if n.Embellished != TypeNone {
		return n.Embellished
	}
	if n.Type.Embellishable() {
		return n.Type
	}
	return TypeNone
}

// Embellish propagates embellishment from a wrapped core to its wrapper.
// The fence pointer names the innermost fence of the chain.
func Embellish(wrapper, core *Node) {
	e := EmbellishedType(core)
	wrapper.Embellished = e
	wrapper.FencePointer = NoID
	if e != TypeFence {
		return
	}
	if core.Type == TypeFence {
		wrapper.FencePointer = core.ID
		return
	}
	wrapper.FencePointer = core.FencePointer
}

// EmbellishedInner descends through the base children of embellished
// wrappers and returns the core.
func (t *Tree) EmbellishedInner(n *Node) *Node {
	for n != nil && n.Embellished != TypeNone && len(n.Children) > 0 {
		next := t.nodes[n.Children[0]]
		if next == nil {
			break
		}
		n = next
	}
	return n
}
