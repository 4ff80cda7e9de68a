/*
Package config reads the YAML description of a simulation run: the tree to
evolve along, the ancestral sequence, the substitution model and where the
results go. A minimal run looks like:

	tree: "((A:0.1,B:0.2):0.05,C:0.3);"
	root: {random: 1000}
	model: {name: K80, params: {kappa: 2}}
	seed: 42
	output: {alignment: out.phy}

Relative input paths (tree_file, root.fasta, model.rules) are resolved
against the directory of the configuration file by Load.
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alenzhao/alfacinha/evol"
	"github.com/alenzhao/alfacinha/msa"
	"github.com/alenzhao/alfacinha/runstore"
)

// ErrInvalid is wrapped by every error caused by a bad configuration.
var ErrInvalid = errors.New("invalid configuration")

// DefaultModel is used when a configuration names neither a model nor rules.
const DefaultModel = "JC69"

type Config struct {
	// A tree in Newick format, given inline or in a file.
	Tree     string `yaml:"tree"`
	TreeFile string `yaml:"tree_file"`

	Root  Root      `yaml:"root"`
	Model ModelSpec `yaml:"model"`

	// Expected substitutions per position per unit of branch length.
	Rate float64 `yaml:"rate"`
	Seed uint64  `yaml:"seed"`

	Algorithm string    `yaml:"algorithm"`
	Segments  []Segment `yaml:"segments"`

	Output Output `yaml:"output"`
	Store  Store  `yaml:"store"`
}

// Root describes the ancestral sequence. Exactly one field is set.
type Root struct {
	Fasta    string `yaml:"fasta"`
	Sequence string `yaml:"sequence"`
	Random   int    `yaml:"random"`
}

// Output names the files written after a run. Empty names are skipped,
// except for the alignment which goes to stdout.
type Output struct {
	Alignment string `yaml:"alignment"`
	Format    string `yaml:"format"`
	Tree      string `yaml:"tree"`
	Matrix    string `yaml:"matrix"`
}

// Store says where runs are recorded.
type Store struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// Default returns the configuration every decoded file starts from.
func Default() Config {
	return Config{
		Rate:      1,
		Seed:      1,
		Algorithm: evol.ContextAware,
		Output:    Output{Format: msa.Phylip},
		Store:     Store{Kind: runstore.KindMemory},
	}
}

// Load reads and validates the configuration in the file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	c.resolve(filepath.Dir(path))
	return c, nil
}

// Decode reads a configuration on top of Default and validates it. Unknown
// keys are errors.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return Config{}, fmt.Errorf("%w: empty configuration", ErrInvalid)
		}
		return Config{}, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks everything that can be checked without reading any
// other file.
func (c *Config) Validate() error {
	switch {
	case c.Tree == "" && c.TreeFile == "":
		return invalidf("no tree given")
	case c.Tree != "" && c.TreeFile != "":
		return invalidf("both tree and tree_file given")
	}
	if err := c.Root.validate(); err != nil {
		return err
	}
	if err := c.Model.validate("model"); err != nil {
		return err
	}
	if c.Rate < 0 || math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) {
		return invalidf("rate %g must be a finite non negative number", c.Rate)
	}
	if err := (evol.Options{Algorithm: c.Algorithm}).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for i, seg := range c.Segments {
		if seg.Begin < 0 || seg.End < seg.Begin {
			return invalidf("segment %d: bad range [%d, %d)",
				i, seg.Begin, seg.End)
		}
		if seg.Model != nil {
			if err := seg.Model.validate(fmt.Sprintf("segment %d", i)); err != nil {
				return err
			}
		}
	}
	if !msa.ValidFormat(c.Output.Format) {
		return invalidf("unknown alignment format '%s'", c.Output.Format)
	}
	switch c.Store.Kind {
	case "", runstore.KindMemory:
	case runstore.KindSQLite:
		if c.Store.Path == "" {
			return invalidf("the sqlite store needs a path")
		}
	default:
		return invalidf("unknown store '%s'", c.Store.Kind)
	}
	return nil
}

func (r Root) validate() error {
	given := 0
	for _, set := range []bool{r.Fasta != "", r.Sequence != "", r.Random != 0} {
		if set {
			given++
		}
	}
	if given != 1 {
		return invalidf("root needs exactly one of fasta, sequence or random")
	}
	if r.Random < 0 {
		return invalidf("random root length %d is negative", r.Random)
	}
	return nil
}

// resolve makes relative input paths relative to dir.
func (c *Config) resolve(dir string) {
	join := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	join(&c.TreeFile)
	join(&c.Root.Fasta)
	join(&c.Model.Rules)
	for i := range c.Segments {
		if c.Segments[i].Model != nil {
			join(&c.Segments[i].Model.Rules)
		}
	}
}

func invalidf(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, v...))
}
