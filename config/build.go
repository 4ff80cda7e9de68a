package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alenzhao/alfacinha/evol"
	"github.com/alenzhao/alfacinha/fasta"
	"github.com/alenzhao/alfacinha/model"
	"github.com/alenzhao/alfacinha/newick"
	"github.com/alenzhao/alfacinha/seq"
)

// Segment is a half-open range of positions, optionally with a model of
// its own. In YAML it is either a pair or a mapping:
//
//	segments:
//	  - [0, 500]
//	  - {begin: 500, end: 1000, model: {name: K80}}
type Segment struct {
	Begin int        `yaml:"begin"`
	End   int        `yaml:"end"`
	Model *ModelSpec `yaml:"model"`
}

func (s *Segment) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var bounds []int
		if err := value.Decode(&bounds); err != nil {
			return err
		}
		if len(bounds) != 2 {
			return fmt.Errorf("line %d: a segment is a pair [begin, end]",
				value.Line)
		}
		*s = Segment{Begin: bounds[0], End: bounds[1]}
		return nil
	}

	type plain Segment
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = Segment(p)
	return nil
}

// HasSegmentModels reports whether any segment carries its own model.
func (c *Config) HasSegmentModels() bool {
	for _, seg := range c.Segments {
		if seg.Model != nil {
			return true
		}
	}
	return false
}

// Options returns the evolution options of the run. When segments carry
// models the segments are left to SegmentModels instead.
func (c *Config) Options() evol.Options {
	opts := evol.Options{Algorithm: c.Algorithm}
	if c.HasSegmentModels() {
		return opts
	}
	for _, seg := range c.Segments {
		opts.Segments = append(opts.Segments,
			evol.Segment{Begin: seg.Begin, End: seg.End})
	}
	return opts
}

// SegmentModels pairs every segment with its model, or with main when it
// has none. It returns nil when no segment carries a model.
func (c *Config) SegmentModels(main *model.Model) ([]evol.SegmentModel, error) {
	if !c.HasSegmentModels() {
		return nil, nil
	}
	models := make([]evol.SegmentModel, len(c.Segments))
	for i, seg := range c.Segments {
		m := main
		if seg.Model != nil {
			var err error
			if m, err = seg.Model.Compile(); err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
		}
		models[i] = evol.SegmentModel{
			Segment: evol.Segment{Begin: seg.Begin, End: seg.End},
			Model:   m,
		}
	}
	return models, nil
}

// LoadTree parses the tree of the run.
func (c *Config) LoadTree() (*newick.Tree, error) {
	if c.Tree != "" {
		return newick.Parse(c.Tree)
	}

	f, err := os.Open(c.TreeFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := newick.NewReader(f).ReadTree()
	if err == io.EOF {
		return nil, invalidf("no tree in %s", c.TreeFile)
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", c.TreeFile, err)
	}
	return t, nil
}

// IntN is the source of random roots. *math/rand/v2.Rand satisfies it.
type IntN interface {
	IntN(n int) int
}

// RootSequence returns the ancestral sequence of the run. A random root
// draws every residue uniformly from alphabet.
func (c *Config) RootSequence(alphabet []seq.Residue, rng IntN) (seq.Sequence, error) {
	switch {
	case c.Root.Sequence != "":
		return seq.NewSequenceString("root",
			strings.ToUpper(c.Root.Sequence)), nil
	case c.Root.Fasta != "":
		return readRoot(c.Root.Fasta)
	}

	if len(alphabet) == 0 {
		return seq.Sequence{}, invalidf("a random root needs a model alphabet")
	}
	residues := make([]seq.Residue, c.Root.Random)
	for i := range residues {
		residues[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return seq.Sequence{Name: "root", Residues: residues}, nil
}

// readRoot returns the first sequence of a FASTA file.
func readRoot(path string) (seq.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return seq.Sequence{}, err
	}
	defer f.Close()

	s, err := fasta.NewReader(f).Read()
	if err == io.EOF {
		return seq.Sequence{}, invalidf("no sequence in %s", path)
	} else if err != nil {
		return seq.Sequence{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
