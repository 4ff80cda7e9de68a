package msa

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/alenzhao/alfacinha/seq"
)

// ReadStockholm reads an MSA from a Stockholm formatted file. Note that
// features are completely ignored. This reader only checks for the Stockholm
// header (and version), and then slurps up the sequence data into an MSA.
func ReadStockholm(r io.Reader) (seq.MSA, error) {
	return readStockholm(r, false)
}

// ReadStockholmTrusted is the same as ReadStockholm, except it does not check
// if each residue is valid. This may be faster.
func ReadStockholmTrusted(r io.Reader) (seq.MSA, error) {
	return readStockholm(r, true)
}

// WriteStockholm writes the given MSA to the writer in the Stockholm format.
// This does not write any features. It only creates a minimal valid Stockholm
// file with the header (and version) along with the sequences (names and
// residues). Names may not contain spaces, so spaces become underscores.
func WriteStockholm(w io.Writer, msa seq.MSA) error {
	var err error
	pf := func(format string, v ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, v...)
	}
	pf("# STOCKHOLM 1.0\n")
	for _, s := range msa.Entries {
		name := string(bytes.Join(bytes.Fields([]byte(s.Name)), []byte("_")))
		pf("%s %s\n", name, s)
	}
	pf("//\n")
	return err
}

func readStockholm(r io.Reader, trusted bool) (seq.MSA, error) {
	msa := seq.NewMSA()
	ef := fmt.Errorf

	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		first := bytes.ToLower(bytes.Trim(scanner.Bytes(), " #"))
		if !bytes.Equal([]byte("stockholm 1.0"), first) {
			return seq.MSA{}, ef("First line does not contain 'STOCKHOLM 1.0'.")
		}
	}
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.HasPrefix(line, []byte("//")) { // end of the alignment
			break
		}

		pieces := bytes.Fields(line)
		if len(pieces) < 2 {
			return seq.MSA{}, ef("Expected a name and residues, got '%s'.",
				line)
		}
		residues, err := asResidues(pieces[len(pieces)-1], trusted)
		if err != nil {
			return seq.MSA{}, err
		}

		s := seq.Sequence{
			Name:     string(bytes.Join(pieces[0:len(pieces)-1], []byte(" "))),
			Residues: residues,
		}
		if err := msa.Add(s); err != nil {
			return seq.MSA{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return seq.MSA{}, err
	}
	return msa, nil
}

func asResidues(brs []byte, trusted bool) ([]seq.Residue, error) {
	rs := make([]seq.Residue, 0, len(brs))
	for _, b := range brs {
		if trusted {
			rs = append(rs, seq.Residue(b))
			continue
		}
		r, ok := translateStockholm(b)
		if !ok {
			return nil, fmt.Errorf("Invalid Stockholm residue '%c'.", b)
		}
		rs = append(rs, r)
	}
	return rs, nil
}

func translateStockholm(b byte) (seq.Residue, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return seq.Residue(b), true
	case b >= 'A' && b <= 'Z':
		return seq.Residue(b), true
	case b == '-':
		return '-', true
	case b == '.':
		return '.', true
	}
	return 0, false
}
