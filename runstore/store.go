/*
Package runstore keeps simulation runs: what was evolved, under which model
and with which seed, along with the resulting leaf sequences. Runs can be
kept in memory or in a SQLite database.
*/
package runstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alenzhao/alfacinha/seq"
)

// Store persists simulation runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)
	DeleteRun(ctx context.Context, id string) error
}

// Run is the record of one simulation.
type Run struct {
	SchemaVersion int       `json:"schema_version"`
	ID            string    `json:"id"`
	Created       time.Time `json:"created"`

	// The tree in Newick format and the rule table of the model.
	Tree      string  `json:"tree"`
	ModelName string  `json:"model"`
	Rules     string  `json:"rules"`
	Rate      float64 `json:"rate"`
	Seed      uint64  `json:"seed"`

	Root   Leaf   `json:"root"`
	Leaves []Leaf `json:"leaves"`

	Iterations    int `json:"iterations"`
	Substitutions int `json:"substitutions"`
}

// Leaf is a named sequence of a run.
type Leaf struct {
	Name     string `json:"name"`
	Residues string `json:"residues"`
}

// NewRun returns an empty run with a fresh random id.
func NewRun() Run {
	return Run{
		SchemaVersion: CurrentSchemaVersion,
		ID:            uuid.NewString(),
		Created:       time.Now().UTC(),
	}
}

func leaf(s seq.Sequence) Leaf {
	return Leaf{Name: s.Name, Residues: s.String()}
}

// SetRoot records the ancestral sequence of the run.
func (r *Run) SetRoot(s seq.Sequence) {
	r.Root = leaf(s)
}

// SetAlignment records the leaf sequences of the run.
func (r *Run) SetAlignment(msa seq.MSA) {
	r.Leaves = make([]Leaf, len(msa.Entries))
	for i, s := range msa.Entries {
		r.Leaves[i] = leaf(s)
	}
}

// Alignment returns the leaf sequences of the run as an alignment.
func (r Run) Alignment() (seq.MSA, error) {
	msa := seq.NewMSA()
	for _, l := range r.Leaves {
		if err := msa.Add(seq.NewSequenceString(l.Name, l.Residues)); err != nil {
			return seq.MSA{}, err
		}
	}
	return msa, nil
}
