package newick

import "fmt"

// Depth returns the number of branches between this node and the root.
// Branch lengths are not used.
func (t *Tree) Depth() int {
	d := 0
	for n := t.parent; n != nil; n = n.parent {
		d++
	}
	return d
}

// DistanceRoot returns the sum of branch lengths from this node up to the
// root. The length stored on the root itself is not part of any path.
func (t *Tree) DistanceRoot() float64 {
	d := 0.0
	for n := t; n.parent != nil; n = n.parent {
		d += n.Length
	}
	return d
}

// Distance returns the sum of branch lengths on the path separating t from
// other.
//
// The deeper node climbs until both are at the same depth, then both climb
// together until they meet at their last common ancestor.
func (t *Tree) Distance(other *Tree) (float64, error) {
	a, b := t, other
	da, db := a.Depth(), b.Depth()

	d := 0.0
	for ; da > db; da-- {
		d += a.Length
		a = a.parent
	}
	for ; db > da; db-- {
		d += b.Length
		b = b.parent
	}
	for a != b {
		if a.parent == nil || b.parent == nil {
			return 0, fmt.Errorf("%w: '%s' and '%s'",
				ErrDisjoint, t.Label, other.Label)
		}
		d += a.Length + b.Length
		a, b = a.parent, b.parent
	}
	return d, nil
}

// Scale multiplies the length of every branch below this node by factor.
// Nothing happens when factor is not positive.
func (t *Tree) Scale(factor float64) {
	if factor <= 0 {
		return
	}
	for _, child := range t.Children {
		child.Length *= factor
		child.Scale(factor)
	}
}

// Shrink divides the length of every branch below this node by factor.
// Nothing happens when factor is not positive.
func (t *Tree) Shrink(factor float64) {
	if factor <= 0 {
		return
	}
	for _, child := range t.Children {
		child.Length /= factor
		child.Shrink(factor)
	}
}
