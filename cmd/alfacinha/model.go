package main

import (
	"flag"
	"io"
	"log"
	"strings"

	"github.com/alenzhao/alfacinha/config"
	"github.com/alenzhao/alfacinha/model"
)

// The parameters of every catalog model. A model rejects the ones it does
// not take.
var modelParams = []struct {
	name, usage string
}{
	{"eta", "The total rate of substitution."},
	{"kappa", "The transition/transversion ratio."},
	{"kappa1", "The A-G transition/transversion ratio (TN93)."},
	{"kappa2", "The C-T transition/transversion ratio (TN93)."},
	{"theta", "The GC content."},
	{"theta1", "The A/(A+T) ratio."},
	{"theta2", "The G/(G+C) ratio."},
	{"a", "The relative C-T rate (GTR)."},
	{"b", "The relative A-T rate (GTR)."},
	{"c", "The relative G-T rate (GTR)."},
	{"d", "The relative A-C rate (GTR)."},
	{"e", "The relative C-G rate (GTR)."},
	{"rcgt", "The multiplier of C to T before a G."},
	{"rcga", "The multiplier of G to A after a C."},
}

func cmdModel(args []string) {
	flags := newFlagSet("model", "",
		"Prints the rule table of a catalog model. Parameters that are not\n"+
			"given keep their defaults. Known models: "+
			strings.Join(model.Names(), ", ")+".")
	flagName := flags.String("name", config.DefaultModel, "The model.")
	flagOut := flags.String("out", "", "Where to write the rules. Default: stdout.")
	values := make(map[string]*float64, len(modelParams))
	for _, p := range modelParams {
		values[p.name] = flags.Float64(p.name, 0, p.usage)
	}
	flags.Parse(args)
	if flags.NArg() > 0 {
		flags.Usage()
	}

	given := make(map[string]float64)
	flags.Visit(func(fl *flag.Flag) {
		if v, ok := values[fl.Name]; ok {
			given[fl.Name] = *v
		}
	})
	params, err := config.ParamsNode(given)
	Assert(err, "Could not read parameters")
	spec := config.ModelSpec{Name: *flagName, Params: params}

	rt, err := spec.RuleTable()
	Assert(err, "Could not build model %s", *flagName)
	m, err := model.Compile(rt)
	Assert(err, "Could not compile model %s", *flagName)

	writeOutput(*flagOut, func(w io.Writer) error {
		_, err := io.WriteString(w, rt.String())
		return err
	})
	log.Printf("%s: %d rules, maximum rate %g.",
		spec.Label(), rt.Len(), m.MaxRate())
}
