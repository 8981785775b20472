package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
)

// VersionCmd prints to stdout.
var VersionCmd = Version{
	out: os.Stdout,
}

// Version prints the jsonbin-sheets release.
type Version struct {
	out io.Writer
}

func (c *Version) FlagSet() *flag.FlagSet {
	return flag.NewFlagSet("version", flag.ContinueOnError)
}

func (c *Version) Execute(ctx context.Context, options *Options) error {
	fmt.Fprintf(c.out, "%s %s\n", APP, VERSION)

	return nil
}

func (c *Version) Name() string {
	return "version"
}

func (c *Version) Description() string {
	return "Displays the current version"
}

// Usage is empty, 'version' takes no arguments.
func (c *Version) Usage() string {
	return ""
}

func (c *Version) Help() string {
	return fmt.Sprintf("Displays the %s release e.g. %s %s", APP, APP, VERSION)
}
