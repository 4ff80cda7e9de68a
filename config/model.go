package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alenzhao/alfacinha/model"
)

// ModelSpec selects a substitution model: either a catalog model by name
// with optional parameters, or a rule table read from a file or given
// inline.
type ModelSpec struct {
	Name   string    `yaml:"name"`
	Params yaml.Node `yaml:"params"`

	Rules     string `yaml:"rules"`
	RulesText string `yaml:"rules_text"`
}

func (m ModelSpec) validate(where string) error {
	given := 0
	for _, set := range []bool{m.Name != "", m.Rules != "", m.RulesText != ""} {
		if set {
			given++
		}
	}
	if given > 1 {
		return invalidf("%s: give one of name, rules or rules_text", where)
	}
	if m.HasParams() && (m.Rules != "" || m.RulesText != "") {
		return invalidf("%s: params only apply to named models", where)
	}
	if m.Name != "" {
		if _, err := model.Named(m.Name); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, where, err)
		}
	}
	return nil
}

// HasParams reports whether parameters were given.
func (m ModelSpec) HasParams() bool {
	return m.Params.Kind != 0
}

// Label names the model for logs and run records.
func (m ModelSpec) Label() string {
	switch {
	case m.Rules != "":
		return m.Rules
	case m.RulesText != "":
		return "inline rules"
	case m.Name != "":
		return strings.ToUpper(m.Name)
	}
	return DefaultModel
}

// RuleTable builds the rule table of the model.
func (m ModelSpec) RuleTable() (*model.RuleTable, error) {
	switch {
	case m.Rules != "":
		f, err := os.Open(m.Rules)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		rt, err := model.ParseRules(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Rules, err)
		}
		return rt, nil
	case m.RulesText != "":
		return model.ParseRulesString(m.RulesText)
	}
	g, err := m.Generator()
	if err != nil {
		return nil, err
	}
	return g.Rules()
}

// Compile builds and compiles the model.
func (m ModelSpec) Compile() (*model.Model, error) {
	rt, err := m.RuleTable()
	if err != nil {
		return nil, err
	}
	return model.Compile(rt)
}

// Generator returns the catalog model with its parameters set. Parameters
// that are not given keep their default values; unknown parameters are
// errors.
func (m ModelSpec) Generator() (model.Generator, error) {
	name := m.Name
	if name == "" {
		name = DefaultModel
	}
	g, err := model.Named(name)
	if err != nil {
		return nil, err
	}
	if !m.HasParams() {
		return g, nil
	}

	switch p := g.(type) {
	case model.JC69:
		return decodeParams(&m.Params, p)
	case model.K80:
		return decodeParams(&m.Params, p)
	case model.T92:
		return decodeParams(&m.Params, p)
	case model.HKY85:
		return decodeParams(&m.Params, p)
	case model.TN93:
		return decodeParams(&m.Params, p)
	case model.F84:
		return decodeParams(&m.Params, p)
	case model.GTR:
		return decodeParams(&m.Params, p)
	}
	return nil, fmt.Errorf("%w: model %s takes no parameters",
		ErrInvalid, g.Name())
}

// decodeParams decodes node over the defaults in p. The node is written
// back out and decoded strictly since yaml.Node.Decode ignores unknown
// fields.
func decodeParams[T model.Generator](node *yaml.Node, p T) (model.Generator, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(&buf)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %s parameters: %s", ErrInvalid, p.Name(), err)
	}
	return p, nil
}

// ParamsNode turns a set of named parameter values into the params of a
// ModelSpec.
func ParamsNode(params map[string]float64) (yaml.Node, error) {
	var node yaml.Node
	if len(params) == 0 {
		return node, nil
	}
	err := node.Encode(params)
	return node, err
}
