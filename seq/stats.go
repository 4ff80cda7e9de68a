package seq

import "fmt"

// Differences returns the number of positions at which s and other hold
// different residues. Both sequences must have the same length.
func (s Sequence) Differences(other Sequence) (int, error) {
	if s.Len() != other.Len() {
		return 0, fmt.Errorf("Sequences of different lengths: %d != %d.",
			s.Len(), other.Len())
	}
	n := 0
	for i, r := range s.Residues {
		if r != other.Residues[i] {
			n++
		}
	}
	return n, nil
}

// Frequencies returns the observed frequency of every residue in s.
// An empty sequence has no frequencies.
func (s Sequence) Frequencies() map[Residue]float64 {
	freqs := make(map[Residue]float64)
	if s.Len() == 0 {
		return freqs
	}
	for _, r := range s.Residues {
		freqs[r]++
	}
	for r := range freqs {
		freqs[r] /= float64(s.Len())
	}
	return freqs
}

// DiFrequencies returns the observed frequency of every pair of adjacent
// residues in s, keyed by the two-letter word.
func (s Sequence) DiFrequencies() map[string]float64 {
	freqs := make(map[string]float64)
	if s.Len() < 2 {
		return freqs
	}
	for i := 0; i < s.Len()-1; i++ {
		freqs[string(s.Residues[i:i+2])]++
	}
	for w := range freqs {
		freqs[w] /= float64(s.Len() - 1)
	}
	return freqs
}
