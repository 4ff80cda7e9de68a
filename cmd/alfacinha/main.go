// Command alfacinha evolves sequences along phylogenetic trees under neighbor
// dependent substitution models.
//
//	alfacinha evolve -config run.yaml [-v]
//	alfacinha trace -config run.yaml [-steps 10]
//	alfacinha matrix tree.nwk
//	alfacinha model -name HKY85 -kappa 2
//	alfacinha runs -store runs.db [id]
package main

import (
	"log"
	"os"
	"path"
	"sort"
)

type command struct {
	run  func(args []string)
	desc string
}

var commands = map[string]command{
	"evolve": {cmdEvolve, "Evolve a root sequence along a tree."},
	"trace":  {cmdTrace, "Record the composition of a sequence as it evolves."},
	"matrix": {cmdMatrix, "Print the leaf distance matrix of a tree."},
	"model":  {cmdModel, "Print the rule table of a catalog model."},
	"runs":   {cmdRuns, "List or export recorded runs."},
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		log.Printf("Unknown command '%s'.\n\n", os.Args[1])
		usage()
	}
	cmd.run(os.Args[2:])
}

func usage() {
	log.Printf("Usage: %s command [flags] [arguments]\n\n",
		path.Base(os.Args[0]))
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Printf("    %-8s %s\n", name, commands[name].desc)
	}
	os.Exit(1)
}
