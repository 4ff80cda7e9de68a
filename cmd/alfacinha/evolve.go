package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	humanize "github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"

	"github.com/alenzhao/alfacinha/config"
	"github.com/alenzhao/alfacinha/evol"
	"github.com/alenzhao/alfacinha/msa"
	"github.com/alenzhao/alfacinha/newick"
	"github.com/alenzhao/alfacinha/runstore"
	"github.com/alenzhao/alfacinha/seq"
)

func cmdEvolve(args []string) {
	flags := newFlagSet("evolve", "",
		"Evolves the root sequence of a run along every branch of its tree\n"+
			"and writes the sequences of the leaves as an alignment.")
	flagConfig := flags.String("config", "", "The YAML description of the run.")
	flagVerbose := flags.Bool("v", false,
		"When set, every node is logged as it is evolved.")
	flagSeed := flags.Uint64("seed", 0,
		"When set, overrides the seed of the configuration.")
	flags.Parse(args)
	if *flagConfig == "" || flags.NArg() > 0 {
		flags.Usage()
	}

	conf, err := config.Load(*flagConfig)
	Assert(err, "Could not load run configuration")
	flags.Visit(func(fl *flag.Flag) {
		if fl.Name == "seed" {
			conf.Seed = *flagSeed
		}
	})

	tree, err := conf.LoadTree()
	Assert(err, "Could not read tree")
	m, err := conf.Model.Compile()
	Assert(err, "Could not build model %s", conf.Model.Label())

	rng := evol.NewRand(conf.Seed)
	root, err := conf.RootSequence(m.Alphabet(), rng)
	Assert(err, "Could not build root sequence")

	engine, err := evol.New(rng, conf.Options())
	Assert(err, "Could not create engine")
	if *flagVerbose {
		engine.SetLogger(log.New(os.Stderr, "", 0))
	}

	segments, err := conf.SegmentModels(m)
	Assert(err, "Could not build segment models")
	var stats evol.Stats
	if segments != nil {
		stats, err = engine.PropagateSegmented(tree, root, segments, conf.Rate)
	} else {
		stats, err = engine.Propagate(tree, root, m, conf.Rate)
	}
	Assert(err, "Could not evolve along the tree")

	leaves, err := msa.FromTree(tree)
	Assert(err, "Could not collect leaf sequences")
	writeOutput(conf.Output.Alignment, func(w io.Writer) error {
		return msa.Write(w, leaves, conf.Output.Format)
	})
	if conf.Output.Tree != "" {
		writeOutput(conf.Output.Tree, func(w io.Writer) error {
			return newick.NewWriter(w).WriteAll([]*newick.Tree{tree})
		})
	}
	if conf.Output.Matrix != "" {
		dists, err := tree.Matrix()
		Assert(err, "Could not compute distance matrix")
		writeOutput(conf.Output.Matrix, func(w io.Writer) error {
			return newick.WriteMatrix(w, dists, true)
		})
	}

	log.Printf("%s events, %s substitutions over %s positions and %d leaves.",
		humanize.Comma(int64(stats.Iterations)),
		humanize.Comma(int64(stats.Substitutions)),
		humanize.Comma(int64(root.Len())), len(leaves.Entries))
	if mean, std, ok := divergence(leaves); ok {
		log.Printf("Pairwise leaf divergence: %.4f (sd %.4f).", mean, std)
	}

	run := runstore.NewRun()
	run.Tree = tree.Newick()
	run.ModelName = conf.Model.Label()
	if rt, err := conf.Model.RuleTable(); err == nil {
		run.Rules = rt.String()
	}
	run.Rate = conf.Rate
	run.Seed = conf.Seed
	run.SetRoot(root)
	run.SetAlignment(leaves)
	run.Iterations = stats.Iterations
	run.Substitutions = stats.Substitutions
	saveRun(conf.Store, run)
}

// divergence returns the mean and standard deviation of the proportion of
// differing positions over every pair of leaves.
func divergence(leaves seq.MSA) (mean, std float64, ok bool) {
	if leaves.Len() == 0 || len(leaves.Entries) < 2 {
		return 0, 0, false
	}
	var ps []float64
	for i := range leaves.Entries {
		for j := i + 1; j < len(leaves.Entries); j++ {
			diffs, err := leaves.Entries[i].Differences(leaves.Entries[j])
			if err != nil {
				return 0, 0, false
			}
			ps = append(ps, float64(diffs)/float64(leaves.Len()))
		}
	}
	if len(ps) == 1 {
		return ps[0], 0, true
	}
	mean, std = stat.MeanStdDev(ps, nil)
	return mean, std, true
}

func saveRun(conf config.Store, run runstore.Run) {
	ctx := context.Background()
	store, err := runstore.NewStore(conf.Kind, conf.Path)
	Assert(err, "Could not open run store")

	Assert(store.Init(ctx), "Could not initialize run store")
	Assert(store.SaveRun(ctx, run), "Could not save run")
	if err := runstore.CloseIfSupported(store); err != nil {
		Warnf("Could not close run store: %s.", err)
	}
	if conf.Kind == runstore.KindSQLite {
		log.Printf("Recorded run %s in %s.", run.ID, conf.Path)
	}
}
