package seq

import (
	"errors"
	"fmt"
)

// ErrIndex is returned when a position falls outside of a sequence.
var ErrIndex = errors.New("index out of range")

// A Sequence corresponds to any kind of biological sequence: DNA, RNA, amino
// acid, etc. Its length is fixed while it evolves; only residues change.
type Sequence struct {
	Name     string
	Residues []Residue
}

// A Residue corresponds to a single entry in a sequence.
type Residue byte

// NewSequenceString creates a sequence from a plain string of residues.
func NewSequenceString(name, residues string) Sequence {
	return Sequence{
		Name:     name,
		Residues: []Residue(residues),
	}
}

// Copy returns a deep copy of the sequence.
func (s Sequence) Copy() Sequence {
	residues := make([]Residue, len(s.Residues))
	copy(residues, s.Residues)
	return Sequence{
		Name:     s.Name,
		Residues: residues,
	}
}

// Slice returns a slice of the sequence. The name stays the same, and the
// sequence of residues corresponds to a Go slice of the original.
// (This does not copy data, so that if the original or sliced sequence is
// changed, the other one will too. Use Sequence.Copy first if you need copy
// semantics.)
func (s Sequence) Slice(start, end int) Sequence {
	return Sequence{
		Name:     s.Name,
		Residues: s.Residues[start:end],
	}
}

// Len returns the number of residues in the sequence.
func (s Sequence) Len() int {
	return len(s.Residues)
}

// IsNull returns true if the name has zero length and the residues are nil.
func (s Sequence) IsNull() bool {
	return len(s.Name) == 0 && s.Residues == nil
}

// At returns the residue at position i.
func (s Sequence) At(i int) (Residue, error) {
	if i < 0 || i >= len(s.Residues) {
		return 0, fmt.Errorf("%w: position %d in sequence of length %d",
			ErrIndex, i, len(s.Residues))
	}
	return s.Residues[i], nil
}

// Set replaces the residue at position i. The residues are shared with any
// value copy of s, so the change is visible through all of them.
func (s Sequence) Set(i int, r Residue) error {
	if i < 0 || i >= len(s.Residues) {
		return fmt.Errorf("%w: cannot replace position %d in sequence of "+
			"length %d", ErrIndex, i, len(s.Residues))
	}
	s.Residues[i] = r
	return nil
}

// String returns the residues as a string.
func (s Sequence) String() string {
	return string(s.Residues)
}
