package newick

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/alenzhao/alfacinha/seq"
)

// Tree corresponds to any value representable in a Newick format. Each
// tree value corresponds to a single node, and the node owns the sub-tree
// below it.
type Tree struct {
	// All children of this node, which may be empty. The order is the order
	// in which they were read and is kept on output.
	Children []*Tree

	// The label of this node. If it's empty, then this node does
	// not have a name.
	Label string

	// The branch length of this node corresponding to the distance between
	// it and its parent node. For the root this is the trailing value of the
	// Newick string (zero if absent); it is kept but never used as a distance.
	Length float64

	// The sequence carried by this node. It is nil until a simulation
	// assigns one.
	Sequence *seq.Sequence

	bootstrap    float64
	hasBootstrap bool

	// parent is a back reference only; a node never owns its parent.
	parent *Tree
}

// NewTree creates a detached node with the given label and branch length.
func NewTree(label string, length float64) *Tree {
	return &Tree{Label: label, Length: length}
}

// AddChild appends child to the children of t and makes t its parent.
func (t *Tree) AddChild(child *Tree) {
	child.parent = t
	t.Children = append(t.Children, child)
}

// Bootstrap returns the bootstrap value of the node, if it has one.
func (t *Tree) Bootstrap() (float64, bool) {
	return t.bootstrap, t.hasBootstrap
}

// SetBootstrap sets the bootstrap value of the node. A node has either a
// bootstrap value or a label, so the label is cleared.
func (t *Tree) SetBootstrap(v float64) {
	t.bootstrap, t.hasBootstrap = v, true
	t.Label = ""
}

// IsLeaf returns true when the node has no children.
func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

// IsRoot returns true when the node has no parent.
func (t *Tree) IsRoot() bool {
	return t.parent == nil
}

// Parent returns the parent of this node. An error wrapping ErrIndex is
// returned for the root.
func (t *Tree) Parent() (*Tree, error) {
	if t.parent == nil {
		return nil, fmt.Errorf("%w: already at root, no parent to go to",
			ErrIndex)
	}
	return t.parent, nil
}

// Child returns the n'th child of this node. An error wrapping ErrIndex is
// returned when there is no such child.
func (t *Tree) Child(n int) (*Tree, error) {
	if len(t.Children) == 0 {
		return nil, fmt.Errorf("%w: already at leaf, no child to go to",
			ErrIndex)
	}
	if n < 0 || n >= len(t.Children) {
		return nil, fmt.Errorf("%w: node has %d children, no child %d",
			ErrIndex, len(t.Children), n)
	}
	return t.Children[n], nil
}

// Root walks up the parent links and returns the root of the tree.
func (t *Tree) Root() *Tree {
	for t.parent != nil {
		t = t.parent
	}
	return t
}

// Find returns the first node labeled `label` in a depth first search of the
// sub-tree rooted at t (t included), or nil if there is none.
func (t *Tree) Find(label string) *Tree {
	if t.Label == label {
		return t
	}
	for _, child := range t.Children {
		if found := child.Find(label); found != nil {
			return found
		}
	}
	return nil
}

// Leaves returns all leaves of the sub-tree rooted at t in depth first order.
func (t *Tree) Leaves() []*Tree {
	if t.IsLeaf() {
		return []*Tree{t}
	}
	leaves := make([]*Tree, 0, len(t.Children))
	for _, child := range t.Children {
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

// LeafLabels returns the labels of Leaves, in the same order.
func (t *Tree) LeafLabels() []string {
	leaves := t.Leaves()
	labels := make([]string, len(leaves))
	for i, leaf := range leaves {
		labels[i] = leaf.Label
	}
	return labels
}

// LeafSequences returns the sequences of Leaves, in the same order. Entries
// are nil for leaves that have not been assigned a sequence.
func (t *Tree) LeafSequences() []*seq.Sequence {
	leaves := t.Leaves()
	seqs := make([]*seq.Sequence, len(leaves))
	for i, leaf := range leaves {
		seqs[i] = leaf.Sequence
	}
	return seqs
}

// Newick returns the sub-tree rooted at t in Newick format. The terminal ';'
// is only written when t is the root of its tree.
func (t *Tree) Newick() string {
	buf := new(bytes.Buffer)
	t.writeNewick(buf)
	if t.parent == nil {
		buf.WriteByte(terminal)
	}
	return buf.String()
}

func (t *Tree) writeNewick(buf *bytes.Buffer) {
	if len(t.Children) > 0 {
		buf.WriteByte(descStart)
		for i, child := range t.Children {
			if i > 0 {
				buf.WriteByte(descDelimiter)
			}
			child.writeNewick(buf)
		}
		buf.WriteByte(descEnd)
	}
	if t.hasBootstrap {
		buf.WriteString(formatFloat(t.bootstrap))
	} else {
		buf.WriteString(t.Label)
	}
	buf.WriteByte(lengthStart)
	buf.WriteString(formatFloat(t.Length))
}

// String recursively converts a tree to a string, with whitespace indenting
// to indicate depth.
func (t *Tree) String() string {
	buf := new(bytes.Buffer)
	pf := func(format string, v ...interface{}) {
		fmt.Fprintf(buf, format, v...)
	}

	var out func(t *Tree, depth int)
	out = func(t *Tree, depth int) {
		name := t.Label
		if b, ok := t.Bootstrap(); ok {
			name = fmt.Sprintf("[%s]", formatFloat(b))
		}
		if len(name) == 0 {
			name = "N/A"
		}
		pf("%s%s (%f)\n", strings.Repeat("  ", depth), name, t.Length)
		for _, child := range t.Children {
			out(child, depth+1)
		}
	}
	out(t, 0)
	return buf.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
