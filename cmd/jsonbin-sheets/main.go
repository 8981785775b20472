package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mediaops/jsonbin-sheets/commands"
)

var cli = []commands.Command{
	&commands.VersionCmd,
	&commands.PublishCmd,
}

var options = commands.Options{
	Debug:   false,
	EnvFile: "",
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %v\n\n", err)
		cancel()
		os.Exit(1)
	}
}

// root builds the command tree. The root command runs 'publish' so a cron job can invoke
// the binary with just [--force].
func root() *cobra.Command {
	publish := &commands.PublishCmd

	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s %s", commands.APP, publish.Usage()),
		Short:         publish.Description(),
		Long:          publish.Help(),
		Version:       commands.VERSION,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return publish.Execute(cmd.Context(), &options)
		},
	}

	cmd.PersistentFlags().BoolVar(&options.Debug, "debug", options.Debug, "Enables debug logging")
	cmd.PersistentFlags().StringVar(&options.EnvFile, "env-file", options.EnvFile, "Settings file loaded into the environment (default .env, if present)")
	cmd.Flags().AddGoFlagSet(publish.FlagSet())

	for _, c := range cli {
		cmd.AddCommand(subcommand(c))
	}

	return cmd
}

func subcommand(c commands.Command) *cobra.Command {
	use := c.Name()
	if u := c.Usage(); u != "" {
		use = fmt.Sprintf("%s %s", use, u)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: c.Description(),
		Long:  c.Help(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Execute(cmd.Context(), &options)
		},
	}

	cmd.Flags().AddGoFlagSet(c.FlagSet())

	return cmd
}
