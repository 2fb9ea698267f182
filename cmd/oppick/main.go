package main

import (
	"fmt"
	"os"

	"github.com/bonjoski/oppick/pkg/onepassword"
	"github.com/bonjoski/oppick/pkg/oppick"
	"github.com/bonjoski/oppick/pkg/process"
	"github.com/bonjoski/oppick/pkg/selector"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	cmd := newRootCmd(process.ExecRunner{}, nil)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	op       string
	vault    string
	category string
	debug    bool
}

// newRootCmd builds the command. A nil chooser means the interactive
// terminal prompt.
func newRootCmd(runner process.Runner, chooser oppick.Chooser) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "oppick <prompt>",
		Short: "Pick a 1Password item and field in the terminal and print its value",
		Long: `Pick a 1Password item and one of its fields with a fuzzy terminal prompt,
then print the revealed value to stdout.

The prompt is drawn on stderr, so the output can be captured:

  password=$(oppick "Select a login")`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: oppick <prompt>")
			}
			return run(cmd, opts, runner, chooser, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.op, "op", "", "path to the 1Password CLI (default from config, \"op\")")
	cmd.Flags().StringVar(&opts.vault, "vault", "", "only list items in this vault")
	cmd.Flags().StringVar(&opts.category, "category", "", "only list items in this category (e.g. Login)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log each step to stderr")

	return cmd
}

func run(cmd *cobra.Command, opts *options, runner process.Runner, chooser oppick.Chooser, prompt string) error {
	cfg, err := oppick.LoadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)

	logger := newLogger(cmd, cfg.Debug)

	client := onepassword.New(cfg.Op.Path, runner, logger)
	client.Vault = cfg.Op.Vault

	if chooser == nil {
		chooser = selector.NewTerminal()
	}

	pipeline := &oppick.TerminalPipeline{
		Items:    client,
		Fields:   client,
		Values:   client,
		Chooser:  chooser,
		Category: opts.category,
		Logger:   logger,
	}

	value, err := pipeline.Run(cmd.Context(), prompt)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func applyFlags(cfg *oppick.Config, opts *options) {
	if opts.op != "" {
		cfg.Op.Path = opts.op
	}
	if opts.vault != "" {
		cfg.Op.Vault = opts.vault
	}
	if opts.debug {
		cfg.Debug = true
	}
}

func newLogger(cmd *cobra.Command, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
