package main

import (
	"errors"
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

// errReported marks a failure that has already been shown to the user.
var errReported = errors.New("reported")

func main() {
	// Launcher contract: prompt as first argument, value on stdout, exit 1
	// on failure or cancellation.
	if err := newRootCmd(process.ExecRunner{}).Execute(); err != nil {
		if !errors.Is(err, errReported) && !errors.Is(err, selector.ErrCancelled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	op       string
	vault    string
	launcher string
	category string
	debug    bool
}

func newRootCmd(runner process.Runner) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "oppick-launcher [prompt]",
		Short: "Pick a 1Password login through rofi and print its username or password",
		Long: `Pick a 1Password login item through a dmenu-style launcher (rofi by
default) and print its password, or its username when the prompt
contains "username". Cancelling the launcher exits 1 without output.

Suited to window-manager key bindings:

  bindsym $mod+p exec oppick-launcher "Password:" | wl-copy`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var prompt string
			if len(args) > 0 {
				prompt = args[0]
			}
			return run(cmd, opts, runner, prompt)
		},
	}

	cmd.Flags().StringVar(&opts.op, "op", "", "path to the 1Password CLI (default from config, \"op\")")
	cmd.Flags().StringVar(&opts.vault, "vault", "", "only list items in this vault")
	cmd.Flags().StringVar(&opts.launcher, "launcher", "", "dmenu-compatible launcher command (default from config, \"rofi\")")
	cmd.Flags().StringVar(&opts.category, "category", "", "item category to list (default from config, \"Login\")")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log each step to stderr")

	return cmd
}

func run(cmd *cobra.Command, opts *options, runner process.Runner, prompt string) error {
	cfg, err := oppick.LoadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	client := onepassword.New(cfg.Op.Path, runner, logger)
	client.Vault = cfg.Op.Vault
	client.FieldFlag = onepassword.FieldFlagFields

	pipeline := &oppick.LauncherPipeline{
		Items:    client,
		Values:   client,
		Chooser:  selector.NewLauncher(cfg.Launcher.Command, runner),
		Category: cfg.Launcher.Category,
		Logger:   logger,
	}

	value, err := pipeline.Run(cmd.Context(), prompt)
	if err != nil {
		if errors.Is(err, selector.ErrCancelled) {
			logger.Debug("selection cancelled")
			return err
		}
		notifier := oppick.NewNotifier(cfg, runner)
		notifier.Stderr = cmd.ErrOrStderr()
		notifier.Notify(cmd.Context(), err)
		return fmt.Errorf("%w: %w", errReported, err)
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
	if opts.launcher != "" {
		cfg.Launcher.Command = opts.launcher
	}
	if opts.category != "" {
		cfg.Launcher.Category = opts.category
	}
	if opts.debug {
		cfg.Debug = true
	}
}
