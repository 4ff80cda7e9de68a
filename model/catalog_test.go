package model

import (
	"errors"
	"math"
	"testing"

	"github.com/alenzhao/alfacinha/seq"
)

// meanRate returns the rate of substitution of a sequence at the base
// frequencies of the model, ignoring CpG rules.
func meanRate(m *Model, a, c, g, t float64) float64 {
	pi := map[byte]float64{'A': a, 'C': c, 'G': g, 'T': t}
	mean := 0.0
	for i := range bases {
		for _, r := range m.Rules(seq.Residue(bases[i])) {
			if r.Left == "" && r.Right == "" {
				mean += pi[bases[i]] * r.Rate
			}
		}
	}
	return mean
}

func TestCatalogNormalised(t *testing.T) {
	tests := []struct {
		gen                   Generator
		eta                   float64
		theta, theta1, theta2 float64
	}{
		{DefaultJC69(), 1, 0.5, 0.5, 0.5},
		{DefaultK80(), 1, 0.5, 0.5, 0.5},
		{DefaultT92(), 1, 0.5, 0.5, 0.5},
		{DefaultHKY85(), 1, 0.5, 0.5, 0.5},
		{DefaultTN93(), 1, 0.5, 0.5, 0.5},
		{DefaultF84(), 1, 0.5, 0.5, 0.5},
		{DefaultGTR(), 1, 0.5, 0.5, 0.5},
		{JC69{Eta: 2, RCgT: 4, RcGA: 3}, 2, 0.5, 0.5, 0.5},
		{K80{Eta: 0.5, Kappa: 4}, 0.5, 0.5, 0.5, 0.5},
		{T92{Eta: 1, Kappa: 3, Theta: 0.3}, 1, 0.3, 0.5, 0.5},
		{HKY85{Eta: 2, Kappa: 3, Theta: 0.3, Theta1: 0.6, Theta2: 0.2},
			2, 0.3, 0.6, 0.2},
		{TN93{Eta: 1, Kappa1: 2, Kappa2: 5, Theta: 0.6, Theta1: 0.4,
			Theta2: 0.7}, 1, 0.6, 0.4, 0.7},
		{F84{Eta: 1.5, Kappa: 2, Theta: 0.4, Theta1: 0.3, Theta2: 0.5},
			1.5, 0.4, 0.3, 0.5},
		{GTR{Eta: 1, A: 2, B: 0.5, C: 3, D: 1.5, E: 0.2, Theta: 0.45,
			Theta1: 0.35, Theta2: 0.55}, 1, 0.45, 0.35, 0.55},
	}
	for _, test := range tests {
		rt, err := test.gen.Rules()
		if err != nil {
			t.Fatalf("%s: %s", test.gen.Name(), err)
		}
		m, err := Compile(rt)
		if err != nil {
			t.Fatalf("%s: %s", test.gen.Name(), err)
		}
		a, c, g, tt := frequencies(test.theta, test.theta1, test.theta2)
		if mean := meanRate(m, a, c, g, tt); math.Abs(mean-test.eta) > 1e-9 {
			t.Fatalf("%s (%+v): mean rate should be %f but is %f.",
				test.gen.Name(), test.gen, test.eta, mean)
		}
	}
}

func TestJC69(t *testing.T) {
	m, err := compileGenerator(JC69{Eta: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range m.Alphabet() {
		if math.Abs(m.Rate(s)-1.5) > 1e-12 {
			t.Fatalf("Every base should have rate 1.5, %c has %f.",
				s, m.Rate(s))
		}
	}
	if len(m.Rules('C')) != 3 {
		t.Fatalf("CpG rules should not be written when their rate is zero.")
	}

	rt, err := JC69{Eta: 3, RCgT: 10, RcGA: 2}.Rules()
	if err != nil {
		t.Fatal(err)
	}
	cgt, cga := rt.Next("Cg"), rt.Next("cG")
	if len(cgt) != 1 || cgt[0].Postfix != "T" || cgt[0].Rate != 10 {
		t.Fatalf("Unexpected Cg rules: %v", cgt)
	}
	if len(cga) != 1 || cga[0].Postfix != "A" || cga[0].Rate != 2 {
		t.Fatalf("Unexpected cG rules: %v", cga)
	}
}

func TestCatalogErrors(t *testing.T) {
	tests := []Generator{
		JC69{Eta: -1},
		K80{Eta: 1, Kappa: -2},
		T92{Eta: 1, Kappa: 1, Theta: 1.5},
		HKY85{Eta: 1, Kappa: 1, Theta: 0.5, Theta1: 2, Theta2: 0.5},
		TN93{Eta: 1, Kappa1: 1, Kappa2: 1, Theta: 0.5, Theta1: 0.5,
			Theta2: -0.1},
		F84{Eta: 1, Kappa: -1, Theta: 0.5, Theta1: 0.5, Theta2: 0.5},
		GTR{Eta: 1, A: 1, B: 1, C: 1, D: 1, E: -1, Theta: 0.5,
			Theta1: 0.5, Theta2: 0.5},
		HKY85{Eta: 1, Kappa: 1},
		K80{Eta: 1, Kappa: 1, RCgT: -1},
	}
	for _, test := range tests {
		if _, err := test.Rules(); !errors.Is(err, ErrValue) {
			t.Fatalf("Expected a value error for %s %+v, got %v",
				test.Name(), test, err)
		}
	}
}

func TestNamed(t *testing.T) {
	for _, name := range []string{"jc69", "K80", "t92", "HKY85", "tn93",
		"F84", "gtr"} {
		g, err := Named(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := compileGenerator(g); err != nil {
			t.Fatalf("Default %s does not compile: %s", g.Name(), err)
		}
	}
	if _, err := Named("LG"); !errors.Is(err, ErrValue) {
		t.Fatalf("Expected a value error for an unknown model, got %v", err)
	}
	if names := Names(); len(names) != 7 || names[0] != "F84" {
		t.Fatalf("Unexpected model names %v", names)
	}
}

func compileGenerator(g Generator) (*Model, error) {
	rt, err := g.Rules()
	if err != nil {
		return nil, err
	}
	return Compile(rt)
}
