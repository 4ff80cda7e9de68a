package evol

import (
	humanize "github.com/dustin/go-humanize"

	"github.com/alenzhao/alfacinha/model"
	"github.com/alenzhao/alfacinha/newick"
	"github.com/alenzhao/alfacinha/seq"
)

// Propagate evolves parent along every branch of the tree rooted at t.
// Each node gets its own copy of the sequence of its parent, named after
// the node and evolved with Evolve for rate times the length of its branch.
// The root is evolved along its own length too, which is usually zero.
//
// Children are visited in order. The returned counts are the sums over all
// nodes reached before any error.
func (e *Engine) Propagate(
	t *newick.Tree,
	parent seq.Sequence,
	m *model.Model,
	rate float64,
) (Stats, error) {
	return e.propagate(t, parent, rate,
		func(s seq.Sequence, rate float64) (Stats, error) {
			return e.Evolve(s, m, rate)
		})
}

// PropagateSegmented is Propagate with EvolveSegmented on every branch.
func (e *Engine) PropagateSegmented(
	t *newick.Tree,
	parent seq.Sequence,
	models []SegmentModel,
	rate float64,
) (Stats, error) {
	return e.propagate(t, parent, rate,
		func(s seq.Sequence, rate float64) (Stats, error) {
			return e.EvolveSegmented(s, models, rate)
		})
}

type evolveFunc func(s seq.Sequence, rate float64) (Stats, error)

func (e *Engine) propagate(
	t *newick.Tree,
	parent seq.Sequence,
	rate float64,
	evolve evolveFunc,
) (Stats, error) {
	s := parent.Copy()
	s.Name = t.Label
	stats, err := evolve(s, rate*t.Length)
	if err != nil {
		return stats, err
	}
	t.Sequence = &s
	e.logf("%s (%g): %s events, %s substitutions", nodeName(t), t.Length,
		humanize.Comma(int64(stats.Iterations)),
		humanize.Comma(int64(stats.Substitutions)))

	for _, child := range t.Children {
		childStats, err := e.propagate(child, s, rate, evolve)
		stats = stats.Add(childStats)
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func nodeName(t *newick.Tree) string {
	if len(t.Label) > 0 {
		return t.Label
	}
	if t.IsRoot() {
		return "root"
	}
	return "internal node"
}
