package evol

import (
	"fmt"

	"github.com/alenzhao/alfacinha/model"
	"github.com/alenzhao/alfacinha/seq"
)

// Evolve mutates s in place under model m until rate substitutions per
// covered position are expected. The candidate events are those of a
// Poisson process at the maximum rate of m; each one is a trial of m at a
// position picked with PickPosition.
func (e *Engine) Evolve(s seq.Sequence, m *model.Model, rate float64) (Stats, error) {
	if rate < 0 {
		return Stats{}, fmt.Errorf("%w: negative rate %f", ErrValue, rate)
	}
	slots, err := coverage(s.Len(), e.opts.Segments)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	max := m.MaxRate()
	if max == 0 {
		return stats, nil
	}
	target := rate * float64(slots)
	for clock := 0.0; clock < target; clock += e.rng.ExpFloat64() / max {
		pos := pick(slots, e.opts.Segments, e.rng)
		changed, err := m.Attempt(s, pos, e.rng)
		if err != nil {
			return stats, err
		}
		stats.Iterations++
		if changed {
			stats.Substitutions++
		}
	}
	return stats, nil
}

// SegmentModel applies a model to the positions of a segment.
type SegmentModel struct {
	Segment
	Model *model.Model
}

// envelope returns the largest maximum rate of all models.
func envelope(models []SegmentModel) float64 {
	max := 0.0
	for _, sm := range models {
		if r := sm.Model.MaxRate(); r > max {
			max = r
		}
	}
	return max
}

// EvolveSegmented is Evolve with a model per segment. Positions are picked
// from the segments of the models, ignoring the segments of the engine
// options. When segments overlap, one of the models covering the picked
// position is chosen uniformly for the trial.
//
// Every model is tried against the largest maximum rate of all models, and
// that rate also drives the clock, so a model with a lower maximum rate
// substitutes proportionally less often.
func (e *Engine) EvolveSegmented(
	s seq.Sequence,
	models []SegmentModel,
	rate float64,
) (Stats, error) {
	if rate < 0 {
		return Stats{}, fmt.Errorf("%w: negative rate %f", ErrValue, rate)
	}
	if len(models) == 0 {
		return Stats{}, fmt.Errorf("%w: no segment models", ErrValue)
	}
	segments := make([]Segment, len(models))
	for i, sm := range models {
		if sm.Model == nil {
			return Stats{}, fmt.Errorf("%w: segment %s has no model",
				ErrValue, sm.Segment)
		}
		segments[i] = sm.Segment
	}
	slots, err := coverage(s.Len(), segments)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	max := envelope(models)
	if max == 0 {
		return stats, nil
	}
	covering := make([]*model.Model, 0, len(models))
	target := rate * float64(slots)
	for clock := 0.0; clock < target; clock += e.rng.ExpFloat64() / max {
		pos := pick(slots, segments, e.rng)
		stats.Iterations++

		covering = covering[:0]
		for _, sm := range models {
			if sm.Contains(pos) {
				covering = append(covering, sm.Model)
			}
		}
		if len(covering) == 0 {
			continue
		}
		m := covering[e.rng.IntN(len(covering))]
		changed, err := m.AttemptWithin(s, pos, max, e.rng)
		if err != nil {
			return stats, err
		}
		if changed {
			stats.Substitutions++
		}
	}
	return stats, nil
}

// Snapshot records the composition of a sequence part way through an
// evolution.
type Snapshot struct {
	Stats
	Frequencies   map[seq.Residue]float64
	DiFrequencies map[string]float64
}

// Trace evolves s like Evolve, in steps equal parts, and records the
// composition of s after each part.
func (e *Engine) Trace(
	s seq.Sequence,
	m *model.Model,
	rate float64,
	steps int,
) ([]Snapshot, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: %d steps", ErrValue, steps)
	}
	snaps := make([]Snapshot, 0, steps)
	for i := 0; i < steps; i++ {
		stats, err := e.Evolve(s, m, rate/float64(steps))
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, Snapshot{
			Stats:         stats,
			Frequencies:   s.Frequencies(),
			DiFrequencies: s.DiFrequencies(),
		})
	}
	return snaps, nil
}
