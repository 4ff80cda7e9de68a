package model

import (
	"fmt"
	"sort"
	"strings"
)

// Generator is a parametric nucleotide model that can write itself out as a
// rule table.
type Generator interface {
	Name() string
	Rules() (*RuleTable, error)
}

var generators = map[string]func() Generator{
	"jc69":  func() Generator { return DefaultJC69() },
	"k80":   func() Generator { return DefaultK80() },
	"t92":   func() Generator { return DefaultT92() },
	"hky85": func() Generator { return DefaultHKY85() },
	"tn93":  func() Generator { return DefaultTN93() },
	"f84":   func() Generator { return DefaultF84() },
	"gtr":   func() Generator { return DefaultGTR() },
}

// Named returns the model called name, ignoring case, with its default
// parameters.
func Named(name string) (Generator, error) {
	mk, ok := generators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model '%s' (known models: %s)",
			ErrValue, name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names returns the names of all models known to Named.
func Names() []string {
	names := make([]string, 0, len(generators))
	for _, g := range generators {
		names = append(names, g().Name())
	}
	sort.Strings(names)
	return names
}

// The order of bases in a rate matrix.
const bases = "ACGT"

// rates holds the rate of substitution from bases[i] to bases[j].
type rates [4][4]float64

// table turns a rate matrix into rules, followed by the CpG rules when they
// are not zero.
func (q *rates) table(cgt, cga float64) *RuleTable {
	rt := NewRuleTable()
	for i := range bases {
		for j := range bases {
			if i != j {
				rt.Add(bases[i:i+1], bases[j:j+1], q[i][j])
			}
		}
	}
	if cgt != 0 {
		rt.Add("Cg", "T", cgt)
	}
	if cga != 0 {
		rt.Add("cG", "A", cga)
	}
	return rt
}

type param struct {
	name      string
	value     float64
	frequency bool
}

func checkParams(model string, ps ...param) error {
	for _, p := range ps {
		if p.value < 0 {
			return fmt.Errorf("%w: %s: %s must not be negative, got %f",
				ErrValue, model, p.name, p.value)
		}
		if p.frequency && p.value > 1 {
			return fmt.Errorf("%w: %s: %s must not be greater than 1, got %f",
				ErrValue, model, p.name, p.value)
		}
	}
	return nil
}

// frequencies returns the base frequencies of A, C, G and T given the GC
// content theta, the share theta1 of A among A and T, and the share theta2
// of G among G and C.
func frequencies(theta, theta1, theta2 float64) (a, c, g, t float64) {
	return theta1 * (1 - theta), (1 - theta2) * theta,
		theta2 * theta, (1 - theta1) * (1 - theta)
}

// JC69 is the Jukes and Cantor model: every substitution has the same rate.
// Eta is the total rate of substitution of any base. RCgT and RcGA multiply
// the rate of the transitions C to T before a G and G to A after a C.
type JC69 struct {
	Eta  float64 `yaml:"eta"`
	RCgT float64 `yaml:"rcgt"`
	RcGA float64 `yaml:"rcga"`
}

func DefaultJC69() JC69 {
	return JC69{Eta: 1}
}

func (p JC69) Name() string { return "JC69" }

func (p JC69) Rules() (*RuleTable, error) {
	err := checkParams(p.Name(),
		param{"eta", p.Eta, false},
		param{"rcgt", p.RCgT, false},
		param{"rcga", p.RcGA, false})
	if err != nil {
		return nil, err
	}

	eta2 := p.Eta / 3
	var q rates
	for i := range q {
		for j := range q[i] {
			q[i][j] = eta2
		}
	}
	return q.table(p.RCgT*eta2, p.RcGA*eta2), nil
}

// K80 is the Kimura two parameter model: transitions are Kappa times more
// frequent than transversions.
type K80 struct {
	Eta   float64 `yaml:"eta"`
	Kappa float64 `yaml:"kappa"`
	RCgT  float64 `yaml:"rcgt"`
	RcGA  float64 `yaml:"rcga"`
}

func DefaultK80() K80 {
	return K80{Eta: 1, Kappa: 1}
}

func (p K80) Name() string { return "K80" }

func (p K80) Rules() (*RuleTable, error) {
	err := checkParams(p.Name(),
		param{"eta", p.Eta, false},
		param{"kappa", p.Kappa, false},
		param{"rcgt", p.RCgT, false},
		param{"rcga", p.RcGA, false})
	if err != nil {
		return nil, err
	}

	eta2 := p.Eta / (p.Kappa + 2)
	ts := p.Kappa * eta2
	q := rates{
		{0, eta2, ts, eta2},
		{eta2, 0, eta2, ts},
		{ts, eta2, 0, eta2},
		{eta2, ts, eta2, 0},
	}
	return q.table(p.RCgT*ts, p.RcGA*ts), nil
}

// T92 is the Tamura model: K80 with a GC content of Theta.
type T92 struct {
	Eta   float64 `yaml:"eta"`
	Kappa float64 `yaml:"kappa"`
	Theta float64 `yaml:"theta"`
	RCgT  float64 `yaml:"rcgt"`
	RcGA  float64 `yaml:"rcga"`
}

func DefaultT92() T92 {
	return T92{Eta: 1, Kappa: 1, Theta: 0.5}
}

func (p T92) Name() string { return "T92" }

func (p T92) Rules() (*RuleTable, error) {
	err := checkParams(p.Name(),
		param{"eta", p.Eta, false},
		param{"kappa", p.Kappa, false},
		param{"theta", p.Theta, true},
		param{"rcgt", p.RCgT, false},
		param{"rcga", p.RcGA, false})
	if err != nil {
		return nil, err
	}

	k, th := p.Kappa, p.Theta
	eta2 := p.Eta / (1 + 2*th*k - 2*th*th*k)
	gc, at := th*eta2, (1-th)*eta2
	q := rates{
		{0, gc, gc * k, at},
		{at, 0, gc, at * k},
		{at * k, gc, 0, at},
		{at, gc * k, gc, 0},
	}
	return q.table(p.RCgT*at*k, p.RcGA*at*k), nil
}

// HKY85 is the Hasegawa, Kishino and Yano model: K80 with base frequencies
// set by the GC content Theta, the share Theta1 of A among A and T and the
// share Theta2 of G among G and C.
type HKY85 struct {
	Eta    float64 `yaml:"eta"`
	Kappa  float64 `yaml:"kappa"`
	Theta  float64 `yaml:"theta"`
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	RCgT   float64 `yaml:"rcgt"`
	RcGA   float64 `yaml:"rcga"`
}

func DefaultHKY85() HKY85 {
	return HKY85{Eta: 1, Kappa: 1, Theta: 0.5, Theta1: 0.5, Theta2: 0.5}
}

func (p HKY85) Name() string { return "HKY85" }

func (p HKY85) Rules() (*RuleTable, error) {
	err := checkParams(p.Name(),
		param{"eta", p.Eta, false},
		param{"kappa", p.Kappa, false},
		param{"theta", p.Theta, true},
		param{"theta1", p.Theta1, true},
		param{"theta2", p.Theta2, true},
		param{"rcgt", p.RCgT, false},
		param{"rcga", p.RcGA, false})
	if err != nil {
		return nil, err
	}

	k := p.Kappa
	a, c, g, t := frequencies(p.Theta, p.Theta1, p.Theta2)
	eta2, err := normalise(p.Name(), p.Eta,
		2*(a*c+c*g+a*t+g*t+k*(c*t+a*g)))
	if err != nil {
		return nil, err
	}
	q := rates{
		{0, c, k * g, t},
		{a, 0, g, k * t},
		{k * a, c, 0, t},
		{a, k * c, g, 0},
	}
	q.scale(eta2)
	return q.table(p.RCgT*k*t*eta2, p.RcGA*k*t*eta2), nil
}

// TN93 is the Tamura and Nei model: HKY85 with distinct rates for purine
// transitions (Kappa1) and pyrimidine transitions (Kappa2).
type TN93 struct {
	Eta    float64 `yaml:"eta"`
	Kappa1 float64 `yaml:"kappa1"`
	Kappa2 float64 `yaml:"kappa2"`
	Theta  float64 `yaml:"theta"`
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	RCgT   float64 `yaml:"rcgt"`
	RcGA   float64 `yaml:"rcga"`
}

func DefaultTN93() TN93 {
	return TN93{
		Eta: 1, Kappa1: 1, Kappa2: 1,
		Theta: 0.5, Theta1: 0.5, Theta2: 0.5,
	}
}

func (p TN93) Name() string { return "TN93" }

func (p TN93) Rules() (*RuleTable, error) {
	err := checkParams(p.Name(),
		param{"eta", p.Eta, false},
		param{"kappa1", p.Kappa1, false},
		param{"kappa2", p.Kappa2, false},
		param{"theta", p.Theta, true},
		param{"theta1", p.Theta1, true},
		param{"theta2", p.Theta2, true},
		param{"rcgt", p.RCgT, false},
		param{"rcga", p.RcGA, false})
	if err != nil {
		return nil, err
	}

	k1, k2 := p.Kappa1, p.Kappa2
	a, c, g, t := frequencies(p.Theta, p.Theta1, p.Theta2)
	eta2, err := normalise(p.Name(), p.Eta,
		2*(a*c+c*g+a*t+g*t+k2*c*t+k1*a*g))
	if err != nil {
		return nil, err
	}
	q := rates{
		{0, c, k1 * g, t},
		{a, 0, g, k2 * t},
		{k1 * a, c, 0, t},
		{a, k2 * c, g, 0},
	}
	q.scale(eta2)
	return q.table(p.RCgT*k2*t*eta2, p.RcGA*k2*t*eta2), nil
}

// F84 is Felsenstein's 1984 model, in which Kappa raises the rate of
// transitions relative to the purine or pyrimidine frequencies.
type F84 struct {
	Eta    float64 `yaml:"eta"`
	Kappa  float64 `yaml:"kappa"`
	Theta  float64 `yaml:"theta"`
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	RCgT   float64 `yaml:"rcgt"`
	RcGA   float64 `yaml:"rcga"`
}

func DefaultF84() F84 {
	return F84{Eta: 1, Kappa: 1, Theta: 0.5, Theta1: 0.5, Theta2: 0.5}
}

func (p F84) Name() string { return "F84" }

func (p F84) Rules() (*RuleTable, error) {
	err := checkParams(p.Name(),
		param{"eta", p.Eta, false},
		param{"kappa", p.Kappa, false},
		param{"theta", p.Theta, true},
		param{"theta1", p.Theta1, true},
		param{"theta2", p.Theta2, true},
		param{"rcgt", p.RCgT, false},
		param{"rcga", p.RcGA, false})
	if err != nil {
		return nil, err
	}

	k := p.Kappa
	a, c, g, t := frequencies(p.Theta, p.Theta1, p.Theta2)
	purines, pyrimidines := a+g, c+t
	if purines == 0 || pyrimidines == 0 {
		return nil, fmt.Errorf("%w: %s: purine and pyrimidine frequencies "+
			"must not be zero", ErrValue, p.Name())
	}
	kr, ky := 1+k/purines, 1+k/pyrimidines
	eta2, err := normalise(p.Name(), p.Eta,
		2*k*(c*t/pyrimidines+a*g/purines)-a*a-c*c-g*g-t*t+1)
	if err != nil {
		return nil, err
	}
	q := rates{
		{0, c, kr * g, t},
		{a, 0, g, ky * t},
		{kr * a, c, 0, t},
		{a, ky * c, g, 0},
	}
	q.scale(eta2)
	return q.table(p.RCgT*ky*t*eta2, p.RcGA*ky*t*eta2), nil
}

// GTR is the general time reversible model. A to G has relative rate 1;
// the other pairs have relative rates A (C-T), B (A-T), C (G-T), D (A-C)
// and E (C-G).
type GTR struct {
	Eta    float64 `yaml:"eta"`
	A      float64 `yaml:"a"`
	B      float64 `yaml:"b"`
	C      float64 `yaml:"c"`
	D      float64 `yaml:"d"`
	E      float64 `yaml:"e"`
	Theta  float64 `yaml:"theta"`
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	RCgT   float64 `yaml:"rcgt"`
	RcGA   float64 `yaml:"rcga"`
}

func DefaultGTR() GTR {
	return GTR{
		Eta: 1, A: 1, B: 1, C: 1, D: 1, E: 1,
		Theta: 0.5, Theta1: 0.5, Theta2: 0.5,
	}
}

func (p GTR) Name() string { return "GTR" }

func (p GTR) Rules() (*RuleTable, error) {
	err := checkParams(p.Name(),
		param{"eta", p.Eta, false},
		param{"a", p.A, false},
		param{"b", p.B, false},
		param{"c", p.C, false},
		param{"d", p.D, false},
		param{"e", p.E, false},
		param{"theta", p.Theta, true},
		param{"theta1", p.Theta1, true},
		param{"theta2", p.Theta2, true},
		param{"rcgt", p.RCgT, false},
		param{"rcga", p.RcGA, false})
	if err != nil {
		return nil, err
	}

	a, c, g, t := frequencies(p.Theta, p.Theta1, p.Theta2)
	eta2, err := normalise(p.Name(), p.Eta,
		2*(p.A*c*t+p.B*a*t+p.C*g*t+p.D*a*c+p.E*c*g+a*g))
	if err != nil {
		return nil, err
	}
	q := rates{
		{0, p.D * c, g, p.B * t},
		{p.D * a, 0, p.E * g, p.A * t},
		{a, p.E * c, 0, p.C * t},
		{p.B * a, p.A * c, p.C * g, 0},
	}
	q.scale(eta2)
	return q.table(p.RCgT*p.A*t*eta2, p.RcGA*p.A*t*eta2), nil
}

// normalise returns the factor that brings the mean rate of substitution of
// a stationary sequence to eta, given the mean rate before scaling.
func normalise(model string, eta, mean float64) (float64, error) {
	if mean <= 0 {
		return 0, fmt.Errorf("%w: %s: parameters leave no substitution "+
			"possible", ErrValue, model)
	}
	return eta / mean, nil
}

func (q *rates) scale(f float64) {
	for i := range q {
		for j := range q[i] {
			q[i][j] *= f
		}
	}
}
