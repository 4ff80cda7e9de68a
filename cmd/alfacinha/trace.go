package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alenzhao/alfacinha/config"
	"github.com/alenzhao/alfacinha/evol"
	"github.com/alenzhao/alfacinha/seq"
)

func cmdTrace(args []string) {
	flags := newFlagSet("trace", "",
		"Evolves the root sequence of a run for its rate, without a tree, and\n"+
			"prints the residue and CpG frequencies after every step.")
	flagConfig := flags.String("config", "", "The YAML description of the run.")
	flagSteps := flags.Int("steps", 10, "The number of equal steps.")
	flagOut := flags.String("out", "", "Where to write the table. Default: stdout.")
	flags.Parse(args)
	if *flagConfig == "" || flags.NArg() > 0 {
		flags.Usage()
	}

	conf, err := config.Load(*flagConfig)
	Assert(err, "Could not load run configuration")
	m, err := conf.Model.Compile()
	Assert(err, "Could not build model %s", conf.Model.Label())

	rng := evol.NewRand(conf.Seed)
	root, err := conf.RootSequence(m.Alphabet(), rng)
	Assert(err, "Could not build root sequence")
	engine, err := evol.New(rng, conf.Options())
	Assert(err, "Could not create engine")

	snaps, err := engine.Trace(root, m, conf.Rate, *flagSteps)
	Assert(err, "Could not trace evolution")
	writeOutput(*flagOut, func(w io.Writer) error {
		return writeTrace(w, m.Alphabet(), snaps)
	})
}

// writeTrace writes one tab separated row per snapshot: the step, the
// cumulative counts, the frequency of every symbol and that of CG.
func writeTrace(w io.Writer, alphabet []seq.Residue, snaps []evol.Snapshot) error {
	buf := bufio.NewWriter(w)
	header := []string{"step", "iterations", "substitutions"}
	for _, r := range alphabet {
		header = append(header, string(r))
	}
	header = append(header, "CG")
	fmt.Fprintln(buf, strings.Join(header, "\t"))

	var total evol.Stats
	for i, snap := range snaps {
		total = total.Add(snap.Stats)
		fmt.Fprintf(buf, "%d\t%d\t%d", i+1, total.Iterations, total.Substitutions)
		for _, r := range alphabet {
			fmt.Fprintf(buf, "\t%.4f", snap.Frequencies[r])
		}
		fmt.Fprintf(buf, "\t%.4f\n", snap.DiFrequencies["CG"])
	}
	return buf.Flush()
}
