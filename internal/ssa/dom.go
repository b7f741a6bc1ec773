package ssa

// ComputeDom materializes the dominator tree children of every block from
// the Dominator field recorded during construction and linking. It does not
// derive dominance from the edges. Dominated lists are cleared first, so the
// pass can be re-run after any batch of construction or linking changes;
// children appear in arena order.
func (c *Context) ComputeDom() {
	for b := range c.Blocks() {
		b.Dominated = nil
	}

	for b := range c.Blocks() {
		if b.Dominator.IsNone() {
			continue
		}
		dom, ok := c.TryBlock(b.Dominator)
		if !ok {
			logger().Warningf("dominator %s of %s does not resolve", b.Dominator, b.ID)
			continue
		}
		dom.Dominated = append(dom.Dominated, b.ID)
	}
}

// Dominates reports whether a dominates b according to the recorded
// dominator chain. Every block dominates itself.
func (c *Context) Dominates(a, b BlockID) bool {
	seen := make(map[BlockID]bool)
	for cur := b; !cur.IsNone() && !seen[cur]; {
		if cur == a {
			return true
		}
		seen[cur] = true
		blk, ok := c.TryBlock(cur)
		if !ok {
			return false
		}
		cur = blk.Dominator
	}
	return false
}

// DomSubtree returns root followed by every block it transitively dominates,
// in pre-order over the Dominated lists. ComputeDom must have run.
func (c *Context) DomSubtree(root BlockID) []BlockID {
	if _, ok := c.TryBlock(root); !ok {
		return nil
	}

	var out []BlockID
	seen := make(map[BlockID]bool)
	var walk func(BlockID)
	walk = func(id BlockID) {
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		b, ok := c.TryBlock(id)
		if !ok {
			return
		}
		for _, child := range b.Dominated {
			walk(child)
		}
	}
	walk(root)
	return out
}
