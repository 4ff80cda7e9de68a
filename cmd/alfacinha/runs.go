package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize"

	"github.com/alenzhao/alfacinha/msa"
	"github.com/alenzhao/alfacinha/runstore"
)

func cmdRuns(args []string) {
	flags := newFlagSet("runs", "[run-id]",
		"Lists the runs recorded in a SQLite store. Given a run id, writes\n"+
			"the leaf alignment of that run instead.")
	flagStore := flags.String("store", "", "The SQLite database of runs.")
	flagFormat := flags.String("format", msa.Phylip,
		"The alignment format: phylip, fasta or stockholm.")
	flagDelete := flags.Bool("delete", false,
		"When set, the given run is deleted instead of written.")
	flags.Parse(args)
	if *flagStore == "" || flags.NArg() > 1 {
		flags.Usage()
	}
	if !msa.ValidFormat(*flagFormat) {
		Fatalf("Unknown alignment format '%s'.", *flagFormat)
	}

	ctx := context.Background()
	store := runstore.NewSQLiteStore(*flagStore)
	Assert(store.Init(ctx), "Could not open '%s'", *flagStore)
	defer store.Close()

	if flags.NArg() == 0 {
		runs, err := store.ListRuns(ctx)
		Assert(err, "Could not list runs")
		Assert(listRuns(os.Stdout, runs), "Could not write runs")
		return
	}

	id := flags.Arg(0)
	if *flagDelete {
		Assert(store.DeleteRun(ctx, id), "Could not delete run %s", id)
		return
	}
	run, ok, err := store.GetRun(ctx, id)
	Assert(err, "Could not read run %s", id)
	if !ok {
		Fatalf("No run with id %s in '%s'.", id, *flagStore)
	}
	leaves, err := run.Alignment()
	Assert(err, "Could not rebuild alignment of run %s", id)
	Assert(msa.Write(os.Stdout, leaves, *flagFormat), "Could not write alignment")
}

func listRuns(w io.Writer, runs []runstore.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tMODEL\tSEED\tLEAVES\tLENGTH\tSUBSTITUTIONS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID, humanize.Time(run.Created), run.ModelName, run.Seed,
			len(run.Leaves), len(run.Root.Residues),
			humanize.Comma(int64(run.Substitutions)))
	}
	return tw.Flush()
}
