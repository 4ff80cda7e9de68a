package newick

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// DistanceMatrix holds the additive distances between every pair of leaves
// of a tree. Rows and columns follow Labels, which is the depth first order
// of the leaves.
type DistanceMatrix struct {
	Labels []string
	dist   *mat.SymDense
	index  map[string]int
}

// Matrix computes the distance matrix of all leaves of the tree containing
// t, starting at its root. Leaf labels must be unique; otherwise an error
// wrapping ErrDuplicateLabel is returned.
func (t *Tree) Matrix() (*DistanceMatrix, error) {
	leaves := t.Root().Leaves()
	m := &DistanceMatrix{
		Labels: make([]string, len(leaves)),
		dist:   mat.NewSymDense(len(leaves), nil),
		index:  make(map[string]int, len(leaves)),
	}
	for i, leaf := range leaves {
		if j, ok := m.index[leaf.Label]; ok {
			return nil, fmt.Errorf("%w: '%s' labels leaves %d and %d",
				ErrDuplicateLabel, leaf.Label, j, i)
		}
		m.Labels[i] = leaf.Label
		m.index[leaf.Label] = i
	}
	for i := range leaves {
		for j := i + 1; j < len(leaves); j++ {
			d, err := leaves[i].Distance(leaves[j])
			if err != nil {
				return nil, err
			}
			m.dist.SetSym(i, j, d)
		}
	}
	return m, nil
}

// Len returns the number of leaves in the matrix.
func (m *DistanceMatrix) Len() int {
	return len(m.Labels)
}

// At returns the distance between the i'th and j'th leaves.
func (m *DistanceMatrix) At(i, j int) float64 {
	return m.dist.At(i, j)
}

// Lookup returns the distance between the leaves labeled a and b. The
// boolean is false if either label is unknown.
func (m *DistanceMatrix) Lookup(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.dist.At(i, j), true
}

// Symmetric exposes the matrix for use with other gonum routines.
func (m *DistanceMatrix) Symmetric() mat.Symmetric {
	return m.dist
}

// WriteMatrix writes the distance matrix as tab separated rows, with rows
// and columns sorted by label. When labeled is true, a header line and a
// leading column of labels are written too.
func WriteMatrix(w io.Writer, m *DistanceMatrix, labeled bool) error {
	labels := make([]string, len(m.Labels))
	copy(labels, m.Labels)
	sort.Strings(labels)

	buf := bufio.NewWriter(w)
	if labeled {
		fmt.Fprintf(buf, "\t%s\n", strings.Join(labels, "\t"))
	}
	for _, a := range labels {
		row := make([]string, len(labels))
		for j, b := range labels {
			d, _ := m.Lookup(a, b)
			row[j] = formatFloat(d)
		}
		if labeled {
			fmt.Fprintf(buf, "%s\t", a)
		}
		fmt.Fprintf(buf, "%s\n", strings.Join(row, "\t"))
	}
	return buf.Flush()
}
