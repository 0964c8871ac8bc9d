// Command third runs the stack-oriented kernel defined by package third: it
// loads the bootstrap program, then evaluates a source file (or stdin) to
// completion, exiting non-zero on any fatal condition.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	third "github.com/oneearedrabbit/forth-playground"
	"github.com/oneearedrabbit/forth-playground/internal/logio"
)

func main() {
	var (
		memLimit uint
		timeout  time.Duration
		trace    bool
		dump     bool
		teePath  string
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "enable a heap byte limit")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "print a hex dump of the heap after execution")
	flag.StringVar(&teePath, "tee", "", "additionally write EMIT/PRINT/DUMP output to this file")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	opts := []third.VMOption{
		third.WithMemLimit(memLimit),
		third.WithOutput(os.Stdout),
	}
	if trace {
		opts = append(opts, third.WithLogf(log.Leveledf("TRACE")))
	}
	if teePath != "" {
		tf, err := os.Create(teePath)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		defer tf.Close()
		opts = append(opts, third.WithTee(tf))
	}

	if args := flag.Args(); len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		defer f.Close()
		opts = append(opts, third.WithInput(namedFile{f, args[0]}))
	} else {
		opts = append(opts, third.WithInput(os.Stdin))
	}

	vm, err := third.New(opts...)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	defer vm.Close()

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runErr := vm.Run(ctx)

	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		if err := vm.DumpHeap(lw, 0, vm.HERE()); err != nil {
			log.ErrorIf(err)
		}
		lw.Close()
	}

	log.ErrorIf(runErr)
}

type namedFile struct {
	*os.File
	name string
}

func (nf namedFile) Name() string { return nf.name }
