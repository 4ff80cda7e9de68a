package model

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/alenzhao/alfacinha/seq"
)

// Outcome is one possible result of a rule prefix: the postfix it turns
// into and the rate at which it does so.
type Outcome struct {
	Postfix string
	Rate    float64
}

// RuleTable maps rule prefixes to weighted outcomes. A prefix is a single
// upper case symbol, the one that is substituted, possibly surrounded by
// lower case neighbors that must be present for the rule to apply:
//
//	A|T   6     A becomes T
//	Cg|T 10     C followed by G becomes T
//	cG|A  8     G preceded by C becomes A
//	Cga|T 6     C followed by GA becomes T
//
// Prefixes and their outcomes keep the order in which they were set.
type RuleTable struct {
	prefixes []string
	next     map[string][]Outcome
}

// NewRuleTable returns an empty rule table.
func NewRuleTable() *RuleTable {
	return &RuleTable{
		next: make(map[string][]Outcome),
	}
}

// ParseRulesString is a convenience wrapper around ParseRules.
func ParseRulesString(s string) (*RuleTable, error) {
	return ParseRules(strings.NewReader(s))
}

// ParseRules reads a rule table, one `prefix|postfix rate` rule per line.
// Blank lines and lines starting with '#' are ignored.
//
// Only the syntax is checked here. Compile checks that the rules make a
// valid model.
func ParseRules(r io.Reader) (*RuleTable, error) {
	rt := NewRuleTable()
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected 'prefix|postfix "+
				"rate' but got '%s'", ErrSyntax, line, text)
		}
		pieces := strings.Split(fields[0], "|")
		if len(pieces) != 2 || len(pieces[0]) == 0 || len(pieces[1]) == 0 {
			return nil, fmt.Errorf("%w: line %d: invalid rule '%s'",
				ErrSyntax, line, fields[0])
		}
		rate, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid rate '%s'",
				ErrSyntax, line, fields[1])
		}
		rt.Add(pieces[0], pieces[1], rate)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rt, nil
}

// Add sets the rate at which prefix turns into postfix. Adding a rule that
// already exists replaces its rate but keeps its position.
func (rt *RuleTable) Add(prefix, postfix string, rate float64) {
	outcomes, ok := rt.next[prefix]
	if !ok {
		rt.prefixes = append(rt.prefixes, prefix)
	}
	for i := range outcomes {
		if outcomes[i].Postfix == postfix {
			outcomes[i].Rate = rate
			return
		}
	}
	rt.next[prefix] = append(outcomes, Outcome{postfix, rate})
}

// Prefixes returns every prefix of the table.
func (rt *RuleTable) Prefixes() []string {
	return rt.prefixes
}

// Next returns the outcomes of a prefix.
func (rt *RuleTable) Next(prefix string) []Outcome {
	return rt.next[prefix]
}

// Len returns the number of rules in the table.
func (rt *RuleTable) Len() int {
	n := 0
	for _, outcomes := range rt.next {
		n += len(outcomes)
	}
	return n
}

// Alphabet returns, sorted, every symbol used by the rules, in any case.
func (rt *RuleTable) Alphabet() []seq.Residue {
	seen := make(map[seq.Residue]bool)
	for _, prefix := range rt.prefixes {
		for i := 0; i < len(prefix); i++ {
			seen[seq.Residue(prefix[i])] = true
		}
		for _, o := range rt.next[prefix] {
			for i := 0; i < len(o.Postfix); i++ {
				seen[seq.Residue(o.Postfix[i])] = true
			}
		}
	}
	alpha := make([]seq.Residue, 0, len(seen))
	for r := range seen {
		alpha = append(alpha, r)
	}
	sort.Slice(alpha, func(i, j int) bool { return alpha[i] < alpha[j] })
	return alpha
}

// String returns the table in the format read by ParseRules.
func (rt *RuleTable) String() string {
	buf := new(bytes.Buffer)
	for _, prefix := range rt.prefixes {
		for _, o := range rt.next[prefix] {
			fmt.Fprintf(buf, "%s|%s %f\n", prefix, o.Postfix, o.Rate)
		}
	}
	return buf.String()
}
