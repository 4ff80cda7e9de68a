package msa

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alenzhao/alfacinha/seq"
)

const (
	phylipName   = 10 // width of the name field
	phylipGroup  = 10 // residues per group
	phylipGroups = 5  // groups per line
)

// WritePhylip writes the alignment in interleaved Phylip format. The first
// line holds the number of sequences and their length, separated by a tab.
// The first block starts every line with a name cut or padded to ten
// characters, with spaces in names turned into underscores. Later blocks
// are separated by a blank line and indented by ten spaces. Residues are
// written in groups of ten, five groups to a line.
func WritePhylip(w io.Writer, msa seq.MSA) error {
	if len(msa.Entries) == 0 {
		return fmt.Errorf("Cannot write an empty alignment in Phylip format.")
	}

	buf := bufio.NewWriter(w)
	fmt.Fprintf(buf, "%d\t%d\n", len(msa.Entries), msa.Len())

	perLine := phylipGroup * phylipGroups
	for start := 0; start == 0 || start < msa.Len(); start += perLine {
		if start > 0 {
			buf.WriteString("\n")
		}
		end := start + perLine
		if end > msa.Len() {
			end = msa.Len()
		}
		for _, s := range msa.Entries {
			if start == 0 {
				buf.WriteString(phylipLabel(s.Name))
			} else {
				buf.WriteString(strings.Repeat(" ", phylipName))
			}
			buf.WriteString(groups(s.Residues[start:end]))
			buf.WriteString("\n")
		}
	}
	return buf.Flush()
}

func phylipLabel(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	if len(name) > phylipName {
		return name[:phylipName]
	}
	return name + strings.Repeat(" ", phylipName-len(name))
}

func groups(residues []seq.Residue) string {
	pieces := make([]string, 0, phylipGroups)
	for i := 0; i < len(residues); i += phylipGroup {
		end := i + phylipGroup
		if end > len(residues) {
			end = len(residues)
		}
		pieces = append(pieces, string(residues[i:end]))
	}
	return strings.Join(pieces, " ")
}
