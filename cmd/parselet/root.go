package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-parselet/internal/config"
	"github.com/goliatone/go-parselet/internal/wizard"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg    config.Config
	logger *slog.Logger

	// driver overrides the interactive prompt driver used by init.
	driver wizard.PromptDriver
}

func newRootCmd(driver wizard.PromptDriver) *cobra.Command {
	a := &app{driver: driver}

	root := &cobra.Command{
		Use:   "parselet",
		Short: "Extract structured data from HTML pages with declarative parselets",
		Long: `parselet reads an HTML page and a parselet definition (YAML or JSON) that
maps output fields to CSS or XPath selectors, then emits the extracted data.

Repeated page fragments are grouped by document position, so a list of
fields like author, text and link becomes one object per fragment.

Settings are read from ./parselet.yaml or ~/.parselet/parselet.yaml,
then PARSELET_* environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if a.verbose {
				cfg.LogLevel = "debug"
			}
			a.cfg = cfg
			a.logger = cfg.Logger(cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(
		&a.cfgFile, "config", "", "config file (default: ./parselet.yaml or ~/.parselet/parselet.yaml)",
	)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log pipeline stages to stderr")

	root.AddCommand(
		newExtractCmd(a),
		newSchemaCmd(a),
		newInitCmd(a),
	)
	return root
}
