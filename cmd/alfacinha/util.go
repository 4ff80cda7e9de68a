package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
)

func init() {
	log.SetFlags(0)
}

func Warnf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

func Assert(err error, v ...interface{}) {
	if err != nil {
		if len(v) == 0 {
			Fatalf("ERROR: %s.", err)
		} else {
			format := v[0].(string)
			v = v[1:]
			Fatalf("%s: %s.", fmt.Sprintf(format, v...), err)
		}
	}
}

// newFlagSet returns the flags of a command, with a usage message in the
// style of the other commands.
func newFlagSet(name, positional, desc string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ExitOnError)
	flags.Usage = func() {
		log.Printf("Usage: %s %s [flags] %s\n\n",
			path.Base(os.Args[0]), name, positional)
		if len(desc) > 0 {
			log.Printf("%s\n", desc)
		}
		flags.VisitAll(func(fl *flag.Flag) {
			var def string
			if len(fl.DefValue) > 0 {
				def = fmt.Sprintf(" (default: %s)", fl.DefValue)
			}

			usage := strings.Replace(fl.Usage, "\n", "\n    ", -1)
			log.Printf("-%s%s\n", fl.Name, def)
			log.Printf("    %s\n", usage)
		})
		os.Exit(1)
	}
	return flags
}

func OpenFile(fpath string) *os.File {
	f, err := os.Open(fpath)
	Assert(err, "Could not open '%s'", fpath)
	return f
}

func CreateFile(fpath string) *os.File {
	f, err := os.Create(fpath)
	Assert(err, "Could not create '%s'", fpath)
	return f
}

// writeOutput calls write with the file at fpath, or with stdout when fpath
// is empty or "-".
func writeOutput(fpath string, write func(w io.Writer) error) {
	if fpath == "" || fpath == "-" {
		Assert(write(os.Stdout), "Could not write to stdout")
		return
	}
	f := CreateFile(fpath)
	Assert(write(f), "Could not write '%s'", fpath)
	Assert(f.Close(), "Could not close '%s'", fpath)
}
