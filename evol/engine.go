/*
Package evol simulates the evolution of sequences under a neighbor dependent
substitution model, on a single sequence or along every branch of a tree.

Substitutions follow a Poisson process whose intensity is bounded by the
maximum rate of the model. Candidate events are drawn at that bounding rate
and each one is accepted or rejected by a trial of the model at a random
position, so a position with a lower rate changes less often.
*/
package evol

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
)

var (
	// ErrValue is wrapped by errors caused by invalid rates or positions.
	ErrValue = errors.New("invalid evolution value")

	// ErrNotImplemented is returned for an algorithm that does not exist.
	ErrNotImplemented = errors.New("algorithm not implemented")
)

// ContextAware is the name of the only substitution algorithm: weighted
// rejection of candidate events against the maximum rate of the model.
const ContextAware = "context-aware"

// Rand is the source of every random draw made while evolving.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
	ExpFloat64() float64
}

// Options control how an Engine evolves sequences.
type Options struct {
	// The substitution algorithm. Empty means ContextAware.
	Algorithm string

	// The parts of a sequence in which substitutions may happen. A position
	// covered by k segments is chosen k times as often. No segments means
	// the whole sequence.
	Segments []Segment
}

// DefaultOptions returns options that evolve whole sequences with the
// context-aware algorithm.
func DefaultOptions() Options {
	return Options{Algorithm: ContextAware}
}

// Validate checks that the options name a known algorithm. Segments can only
// be checked against a sequence, which happens on every evolution.
func (opts Options) Validate() error {
	switch opts.Algorithm {
	case "", ContextAware:
		return nil
	}
	return fmt.Errorf("%w: '%s' (only '%s' is available)",
		ErrNotImplemented, opts.Algorithm, ContextAware)
}

// Stats counts what happened while evolving.
type Stats struct {
	// Candidate events, one trial of the model each.
	Iterations int

	// Trials that changed a residue.
	Substitutions int
}

// Add returns the sum of two counts.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Iterations:    s.Iterations + other.Iterations,
		Substitutions: s.Substitutions + other.Substitutions,
	}
}

// Engine evolves sequences. All randomness comes from the Rand it was
// created with, so two engines with identically seeded sources produce the
// same sequences.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	rng  Rand
	opts Options
	log  *log.Logger
}

// New creates an engine drawing from rng. It fails with ErrNotImplemented
// when the options name an unknown algorithm.
func New(rng Rand, opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Algorithm == "" {
		opts.Algorithm = ContextAware
	}
	segments := make([]Segment, len(opts.Segments))
	copy(segments, opts.Segments)
	opts.Segments = segments
	return &Engine{rng: rng, opts: opts}, nil
}

// NewRand returns the PCG generator used by NewSeeded for seed. Callers
// that draw other values, such as a random root, from the same stream as
// the engine pass it to New.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSeeded creates an engine backed by a PCG generator seeded with seed.
func NewSeeded(seed uint64, opts Options) (*Engine, error) {
	return New(NewRand(seed), opts)
}

// Options returns the options of the engine.
func (e *Engine) Options() Options {
	return e.opts
}

// SetLogger makes the engine log one line for every node it propagates
// through. A nil logger turns logging off.
func (e *Engine) SetLogger(l *log.Logger) {
	e.log = l
}

func (e *Engine) logf(format string, v ...interface{}) {
	if e.log != nil {
		e.log.Printf(format, v...)
	}
}
