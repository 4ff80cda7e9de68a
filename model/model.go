package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alenzhao/alfacinha/seq"
)

var (
	// ErrSyntax is wrapped by errors from reading malformed rule text.
	ErrSyntax = errors.New("rule syntax error")

	// ErrValue is wrapped by errors caused by rules or parameters that do
	// not make a valid model.
	ErrValue = errors.New("invalid model value")

	// ErrIndex is returned when a position falls outside of the sequence
	// being evolved.
	ErrIndex = seq.ErrIndex
)

// Source is the randomness needed to run a substitution trial.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Rule is a compiled substitution: the central symbol becomes To when it is
// preceded by Left and followed by Right.
type Rule struct {
	Left, Right string
	To          seq.Residue
	Rate        float64
}

// matches reports whether the neighbors of position pos in s are those the
// rule asks for. A context that runs off either end of s never matches.
func (r Rule) matches(s seq.Sequence, pos int) bool {
	start := pos - len(r.Left)
	if start < 0 {
		return false
	}
	for i := 0; i < len(r.Left); i++ {
		if s.Residues[start+i] != seq.Residue(r.Left[i]) {
			return false
		}
	}
	if pos+len(r.Right) >= s.Len() {
		return false
	}
	for i := 0; i < len(r.Right); i++ {
		if s.Residues[pos+1+i] != seq.Residue(r.Right[i]) {
			return false
		}
	}
	return true
}

// Model is a compiled rule table. It indexes rules by the symbol they
// substitute and knows the largest total rate of any symbol, which bounds
// the rate of any single position.
//
// A Model is never modified after Compile, so it may be shared freely.
type Model struct {
	alphabet []seq.Residue
	index    map[seq.Residue][]Rule
	rates    map[seq.Residue]float64
	maxRate  float64
}

// Compile builds a model out of a rule table. Every prefix must contain
// exactly one upper case letter, the symbol being substituted; the others
// must be lower case letters. Every postfix must be a single upper case
// letter different from the substituted symbol, and no rate may be negative.
//
// Rules keep the order of the table.
func Compile(rt *RuleTable) (*Model, error) {
	m := &Model{
		index: make(map[seq.Residue][]Rule),
		rates: make(map[seq.Residue]float64),
	}
	for _, prefix := range rt.Prefixes() {
		center, err := centralSymbol(prefix)
		if err != nil {
			return nil, err
		}
		for _, o := range rt.Next(prefix) {
			if o.Rate < 0 {
				return nil, fmt.Errorf("%w: rule %s|%s has negative rate %f",
					ErrValue, prefix, o.Postfix, o.Rate)
			}
			if len(o.Postfix) != 1 || !isUpper(o.Postfix[0]) {
				return nil, fmt.Errorf("%w: rule %s|%s must end in a single "+
					"upper case symbol", ErrValue, prefix, o.Postfix)
			}
			if o.Postfix[0] == prefix[center] {
				return nil, fmt.Errorf("%w: rule %s|%s does not change "+
					"anything", ErrValue, prefix, o.Postfix)
			}
		}
	}

	for _, r := range rt.Alphabet() {
		if isUpper(byte(r)) {
			m.alphabet = append(m.alphabet, r)
		}
	}
	for _, s := range m.alphabet {
		for _, prefix := range rt.Prefixes() {
			k := strings.IndexByte(prefix, byte(s))
			if k == -1 {
				continue
			}
			left := strings.ToUpper(prefix[:k])
			right := strings.ToUpper(prefix[k+1:])
			for _, o := range rt.Next(prefix) {
				m.index[s] = append(m.index[s], Rule{
					Left:  left,
					Right: right,
					To:    seq.Residue(o.Postfix[0]),
					Rate:  o.Rate,
				})
				m.rates[s] += o.Rate
			}
		}
		if m.rates[s] > m.maxRate {
			m.maxRate = m.rates[s]
		}
	}
	return m, nil
}

// centralSymbol returns the index of the only upper case letter of prefix.
func centralSymbol(prefix string) (int, error) {
	center := -1
	for i := 0; i < len(prefix); i++ {
		switch {
		case isUpper(prefix[i]):
			if center != -1 {
				return 0, fmt.Errorf("%w: prefix '%s' has more than one "+
					"upper case symbol", ErrValue, prefix)
			}
			center = i
		case prefix[i] >= 'a' && prefix[i] <= 'z':
		default:
			return 0, fmt.Errorf("%w: prefix '%s' contains '%c', which is "+
				"not a letter", ErrValue, prefix, prefix[i])
		}
	}
	if center == -1 {
		return 0, fmt.Errorf("%w: prefix '%s' has no upper case symbol",
			ErrValue, prefix)
	}
	return center, nil
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// Attempt runs one substitution trial at position pos of s. A uniform draw
// in [0, MaxRate) selects at most one rule of the symbol at pos, in rule
// order; the symbol is replaced only when the neighbors of pos match the
// context of that rule. When the draw falls past every rule of the symbol,
// nothing happens.
//
// Attempt reports whether s was changed. An error wrapping ErrIndex is
// returned when pos is not a position of s.
func (m *Model) Attempt(s seq.Sequence, pos int, rng Source) (bool, error) {
	return m.try(s, pos, m.maxRate, rng)
}

// AttemptWithin is Attempt with the draw taken in [0, envelope) instead.
// The envelope must be at least MaxRate. A larger envelope slows down every
// symbol by the same factor, which lets several models share one clock.
func (m *Model) AttemptWithin(
	s seq.Sequence,
	pos int,
	envelope float64,
	rng Source,
) (bool, error) {
	if envelope < m.maxRate {
		return false, fmt.Errorf("%w: envelope %f is below the maximum "+
			"rate %f of the model", ErrValue, envelope, m.maxRate)
	}
	return m.try(s, pos, envelope, rng)
}

func (m *Model) try(
	s seq.Sequence,
	pos int,
	envelope float64,
	rng Source,
) (bool, error) {
	from, err := s.At(pos)
	if err != nil {
		return false, err
	}

	r := rng.Float64() * envelope
	for _, rule := range m.index[from] {
		if r < rule.Rate {
			if !rule.matches(s, pos) || rule.To == from {
				return false, nil
			}
			return true, s.Set(pos, rule.To)
		}
		r -= rule.Rate
	}
	return false, nil
}

// MaxRate returns the largest sum of rule rates over all symbols.
func (m *Model) MaxRate() float64 {
	return m.maxRate
}

// Rate returns the sum of the rates of all rules substituting symbol.
func (m *Model) Rate(symbol seq.Residue) float64 {
	return m.rates[symbol]
}

// Rules returns the rules substituting symbol, in trial order.
func (m *Model) Rules(symbol seq.Residue) []Rule {
	return m.index[symbol]
}

// Alphabet returns the sorted upper case symbols known to the model.
func (m *Model) Alphabet() []seq.Residue {
	return m.alphabet
}

// String lists every rule of the model, one per line, grouped by symbol.
func (m *Model) String() string {
	symbols := make([]seq.Residue, 0, len(m.index))
	for s := range m.index {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	var b strings.Builder
	for _, s := range symbols {
		fmt.Fprintf(&b, "%c (%f)\n", s, m.rates[s])
		for _, r := range m.index[s] {
			fmt.Fprintf(&b, "  %s[%c]%s -> %c  %f\n",
				r.Left, s, r.Right, r.To, r.Rate)
		}
	}
	return b.String()
}
