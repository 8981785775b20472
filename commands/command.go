package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

const APP = "jsonbin-sheets"

// VERSION is set at build time with -ldflags "-X github.com/mediaops/jsonbin-sheets/commands.VERSION=..."
var VERSION = "v0.1.0"

// Options are the global command line options shared by all commands.
type Options struct {
	Debug   bool
	EnvFile string
}

// Command is a CLI command. FlagSet returns the command specific flags, bound to the command.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Help() string
	FlagSet() *flag.FlagSet
	Execute(ctx context.Context, options *Options) error
}

func helpOptions(flagset *flag.FlagSet) string {
	var b strings.Builder

	count := 0
	flagset.VisitAll(func(f *flag.Flag) {
		count++
	})

	if count > 0 {
		fmt.Fprintln(&b, "  Options:")
		fmt.Fprintln(&b)
		flagset.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(&b, "    --%-13s %s\n", f.Name, f.Usage)
		})
	}

	return b.String()
}
