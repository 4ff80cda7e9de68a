package seq

import "fmt"

// MSA is an ungapped alignment of sequences that all share one length, as
// produced by evolving a single ancestor along a tree.
type MSA struct {
	Entries []Sequence
	length  int
}

func NewMSA() MSA {
	return MSA{
		Entries: make([]Sequence, 0, 5),
		length:  0,
	}
}

// Len returns the length of the alignment. (All entries in an MSA are
// guaranteed to have the same length.)
func (m MSA) Len() int {
	return m.length
}

// AddSlice calls "Add" for each sequence in the slice, stopping at the first
// error.
func (m *MSA) AddSlice(seqs []Sequence) error {
	for _, s := range seqs {
		if err := m.Add(s); err != nil {
			return err
		}
	}
	return nil
}

// Add adds a copy of the sequence to the alignment. The first sequence fixes
// the alignment length; any later sequence with another length is rejected.
func (m *MSA) Add(adds Sequence) error {
	if len(m.Entries) == 0 {
		m.length = adds.Len()
	} else if adds.Len() != m.length {
		return fmt.Errorf("Sequence '%s' has length %d, but other "+
			"sequences have length %d.", adds.Name, adds.Len(), m.length)
	}
	m.Entries = append(m.Entries, adds.Copy())
	return nil
}

// Column returns the residues found at position col in every entry.
func (m MSA) Column(col int) []Residue {
	column := make([]Residue, len(m.Entries))
	for i, entry := range m.Entries {
		column[i] = entry.Residues[col]
	}
	return column
}
