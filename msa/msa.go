package msa

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alenzhao/alfacinha/fasta"
	"github.com/alenzhao/alfacinha/newick"
	"github.com/alenzhao/alfacinha/seq"
)

// ErrFormat is returned when asked to write an unknown alignment format.
var ErrFormat = errors.New("unknown alignment format")

// Alignment formats understood by Write.
const (
	Phylip    = "phylip"
	Fasta     = "fasta"
	Stockholm = "stockholm"
)

// Read will read a single MSA from aligned FASTA input. Sequences are read
// until io.EOF.
func Read(reader io.Reader) (seq.MSA, error) {
	r := fasta.NewAlignedReader(reader)
	r.TrustSequences = false
	return read(r)
}

// ReadTrusted will read a single MSA from trusted aligned FASTA input.
// Sequences are read until io.EOF.
//
// "Trust" in this context means that the input doesn't contain any illegal
// characters in the sequence. Trusting the input should be faster.
func ReadTrusted(reader io.Reader) (seq.MSA, error) {
	r := fasta.NewAlignedReader(reader)
	r.TrustSequences = true
	return read(r)
}

func read(r *fasta.AlignedReader) (seq.MSA, error) {
	seqs, err := r.ReadAll()
	if err != nil {
		return seq.MSA{}, err
	}
	msa := seq.NewMSA()
	if err := msa.AddSlice(seqs); err != nil {
		return seq.MSA{}, err
	}
	return msa, nil
}

// FromTree collects the sequences of the leaves of a tree into an
// alignment, in the order of newick.Tree.Leaves. Every leaf must carry a
// sequence.
func FromTree(t *newick.Tree) (seq.MSA, error) {
	msa := seq.NewMSA()
	for i, leaf := range t.Leaves() {
		if leaf.Sequence == nil {
			return seq.MSA{}, fmt.Errorf("Leaf %d ('%s') has no sequence.",
				i, leaf.Label)
		}
		if err := msa.Add(*leaf.Sequence); err != nil {
			return seq.MSA{}, err
		}
	}
	return msa, nil
}

// WriteFasta writes a multiple sequence alignment to the output in aligned
// FASTA format.
func WriteFasta(w io.Writer, msa seq.MSA) error {
	return fasta.NewAlignedWriter(w).WriteAll(msa.Entries)
}

// Write writes an alignment in the named format: one of Phylip, Fasta or
// Stockholm, ignoring case.
func Write(w io.Writer, msa seq.MSA, format string) error {
	switch strings.ToLower(format) {
	case Phylip:
		return WritePhylip(w, msa)
	case Fasta:
		return WriteFasta(w, msa)
	case Stockholm:
		return WriteStockholm(w, msa)
	}
	return fmt.Errorf("%w: '%s'", ErrFormat, format)
}

// ValidFormat reports whether Write knows the format.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case Phylip, Fasta, Stockholm:
		return true
	}
	return false
}
