package main

import (
	"io"
	"os"

	"github.com/alenzhao/alfacinha/newick"
)

func cmdMatrix(args []string) {
	flags := newFlagSet("matrix", "tree-file",
		"Prints the distances between all leaves of the first tree in a\n"+
			"Newick file. Use '-' to read from stdin.")
	flagOut := flags.String("out", "", "Where to write the matrix. Default: stdout.")
	flagBare := flags.Bool("bare", false,
		"When set, no header line or label column is written.")
	flags.Parse(args)
	if flags.NArg() != 1 {
		flags.Usage()
	}

	var r io.Reader = os.Stdin
	if fpath := flags.Arg(0); fpath != "-" {
		f := OpenFile(fpath)
		defer f.Close()
		r = f
	}
	tree, err := newick.NewReader(r).ReadTree()
	Assert(err, "Could not read tree from '%s'", flags.Arg(0))

	dists, err := tree.Matrix()
	Assert(err, "Could not compute distance matrix")
	writeOutput(*flagOut, func(w io.Writer) error {
		return newick.WriteMatrix(w, dists, !*flagBare)
	})
}
