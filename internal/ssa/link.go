package ssa

// LinkWithTarget replaces the successor edges of target with left and right
// (NoBlock for an absent edge) and makes target the dominator of every
// present successor. Predecessor lists and instructions are not touched.
//
// A target that does not resolve is ignored: callers may speculatively relink
// blocks that were never materialized or have been removed.
func (c *Context) LinkWithTarget(target, left, right BlockID) {
	t, ok := c.TryBlock(target)
	if !ok {
		logger().Debugf("link skipped: target %s does not resolve", target)
		return
	}

	t.Left = left
	t.Right = right
	if !right.IsNone() {
		c.Block(right).Dominator = target
	}
	if !left.IsNone() {
		c.Block(left).Dominator = target
	}
	logger().Debugf("linked %s -> (%s, %s)", target, left, right)
}
