package model

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/alenzhao/alfacinha/seq"
)

// fixed is a Source that always draws the same value.
type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func mustCompile(t *testing.T, rules string) *Model {
	rt, err := ParseRulesString(rules)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Compile(rt)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestParseRules(t *testing.T) {
	rt, err := ParseRulesString(`
# transitions
A|G 2
Cg|T 10

cG|A 8
A|G 3
`)
	if err != nil {
		t.Fatal(err)
	}
	if rt.Len() != 3 {
		t.Fatalf("Expected 3 rules but got %d.", rt.Len())
	}
	prefixes := rt.Prefixes()
	if len(prefixes) != 3 || prefixes[0] != "A" || prefixes[2] != "cG" {
		t.Fatalf("Prefixes out of order: %v", prefixes)
	}
	if next := rt.Next("A"); len(next) != 1 || next[0].Rate != 3 {
		t.Fatalf("A later rule should replace the rate of an earlier one, "+
			"got %v", next)
	}
	if got := string(rt.Alphabet()); got != "ACGTcg" {
		t.Fatalf("Unexpected alphabet '%s'.", got)
	}

	again, err := ParseRulesString(rt.String())
	if err != nil {
		t.Fatal(err)
	}
	if again.String() != rt.String() {
		t.Fatalf("Rule text did not survive a round trip:\n%s\n%s",
			rt, again)
	}
}

func TestParseRulesErrors(t *testing.T) {
	tests := []string{
		"A|G",
		"A|G 1 2",
		"AG 1",
		"|G 1",
		"A| 1",
		"A|G|T 1",
		"A|G one",
	}
	for _, test := range tests {
		_, err := ParseRulesString("A|C 1\n" + test)
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("Expected a syntax error for '%s', got %v", test, err)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []string{
		"A|A 5",
		"A|T -1",
		"ac|T 1",
		"AC|T 1",
		"A1|T 1",
		"A|TT 1",
		"A|t 1",
	}
	for _, test := range tests {
		rt, err := ParseRulesString(test)
		if err != nil {
			t.Fatalf("Parsing '%s': %s", test, err)
		}
		if m, err := Compile(rt); !errors.Is(err, ErrValue) || m != nil {
			t.Fatalf("Expected a value error for '%s', got %v", test, err)
		}
	}
}

func TestCompile(t *testing.T) {
	text := "A|G 2\nA|C 1\nCg|T 10\nC|T 1\ncG|A 8\nCga|T 6\nT|C 4\n"
	m := mustCompile(t, text)

	if got := string(m.Alphabet()); got != "ACGT" {
		t.Fatalf("Unexpected alphabet '%s'.", got)
	}
	rules := m.Rules('C')
	if len(rules) != 3 {
		t.Fatalf("Expected 3 rules for C but got %d.", len(rules))
	}
	if rules[0].Right != "G" || rules[1].Right != "" || rules[2].Right != "GA" {
		t.Fatalf("Rules for C are out of order or lost their context: %v",
			rules)
	}
	if g := m.Rules('G'); len(g) != 1 || g[0].Left != "C" || g[0].To != 'A' {
		t.Fatalf("Unexpected rules for G: %v", g)
	}

	// The maximum rate is the largest per symbol sum of the raw table.
	rt, _ := ParseRulesString(text)
	sums := make(map[byte]float64)
	for _, prefix := range rt.Prefixes() {
		for _, o := range rt.Next(prefix) {
			for i := 0; i < len(prefix); i++ {
				if isUpper(prefix[i]) {
					sums[prefix[i]] += o.Rate
				}
			}
		}
	}
	max := 0.0
	for _, sum := range sums {
		max = math.Max(max, sum)
	}
	if m.MaxRate() != max || max != 17 {
		t.Fatalf("MaxRate should be %f but is %f.", max, m.MaxRate())
	}
	if m.Rate('A') != 3 || m.Rate('N') != 0 {
		t.Fatalf("Unexpected per symbol rates %f, %f.",
			m.Rate('A'), m.Rate('N'))
	}
}

func TestAttemptContext(t *testing.T) {
	m := mustCompile(t, "Cg|T 10\ncG|A 8\nA|G 1\n")

	tests := []struct {
		seq     string
		pos     int
		draw    float64
		changed bool
		after   string
	}{
		{"ACGA", 1, 0, true, "ATGA"},
		{"ACAA", 1, 0, false, "ACAA"},
		{"AAC", 2, 0, false, "AAC"},
		{"ACGA", 2, 0, true, "ACAA"},
		{"GA", 0, 0, false, "GA"},
		{"AAAA", 0, 0.05, true, "GAAA"},
		{"AAAA", 0, 0.5, false, "AAAA"},
		{"TTTT", 3, 0, false, "TTTT"},
	}
	for _, test := range tests {
		s := seq.NewSequenceString("s", test.seq)
		changed, err := m.Attempt(s, test.pos, fixed(test.draw))
		if err != nil {
			t.Fatal(err)
		}
		if changed != test.changed || s.String() != test.after {
			t.Fatalf("Attempt at %d of %s with draw %f: got (%v, %s), "+
				"expected (%v, %s).", test.pos, test.seq, test.draw,
				changed, s, test.changed, test.after)
		}
	}
}

func TestAttemptIndex(t *testing.T) {
	m := mustCompile(t, "A|G 1\n")
	s := seq.NewSequenceString("s", "AAA")
	for _, pos := range []int{-1, 3} {
		if _, err := m.Attempt(s, pos, fixed(0)); !errors.Is(err, ErrIndex) {
			t.Fatalf("Expected an index error for %d, got %v", pos, err)
		}
	}
	if s.String() != "AAA" {
		t.Fatalf("Failed attempts should not change the sequence.")
	}
}

func TestAttemptWithin(t *testing.T) {
	m := mustCompile(t, "A|G 1\nC|T 2\n")
	s := seq.NewSequenceString("s", "AC")
	if _, err := m.AttemptWithin(s, 0, 1, fixed(0)); !errors.Is(err, ErrValue) {
		t.Fatalf("An envelope below MaxRate should be rejected, got %v", err)
	}

	// With an envelope of 4, A only changes on draws below 1/4.
	changed, err := m.AttemptWithin(s, 0, 4, fixed(0.3))
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatalf("Draw 0.3 with envelope 4 should miss the A rule.")
	}
	if changed, _ := m.AttemptWithin(s, 0, 4, fixed(0.2)); !changed {
		t.Fatalf("Draw 0.2 with envelope 4 should hit the A rule.")
	}
}

func TestAttemptDistribution(t *testing.T) {
	m := mustCompile(t, "A|C 1\nA|G 3\nC|A 2\n")
	rng := rand.New(rand.NewPCG(1, 2))

	const trials = 20000
	counts := make(map[seq.Residue]int)
	for i := 0; i < trials; i++ {
		s := seq.NewSequenceString("s", "AC")
		if _, err := m.Attempt(s, 0, rng); err != nil {
			t.Fatal(err)
		}
		counts[s.Residues[0]]++

		if _, err := m.Attempt(s, 1, rng); err != nil {
			t.Fatal(err)
		}
		counts[s.Residues[1]+32]++
	}

	// A is saturated at the maximum rate: it always changes.
	if counts['A'] != 0 {
		t.Fatalf("A should always be substituted, %d trials were not.",
			counts['A'])
	}
	if f := float64(counts['G']) / trials; math.Abs(f-0.75) > 0.02 {
		t.Fatalf("A should become G 75%% of the time, got %f.", f)
	}
	// C has half of the maximum rate.
	if f := float64(counts['a']) / trials; math.Abs(f-0.5) > 0.02 {
		t.Fatalf("C should become A 50%% of the time, got %f.", f)
	}
}
