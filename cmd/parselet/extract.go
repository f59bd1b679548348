package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-parselet"
	"github.com/goliatone/go-parselet/pkg/orchestrator"
	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/source"
)

type extractFlags struct {
	definition string
	source     string
	template   string
	output     string
	preset     string
	compact    bool
	noShape    bool
}

func newExtractCmd(a *app) *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract data from a page using a parselet definition",
		Long: `Extract data from a page using a parselet definition.

Examples:
  parselet extract -d tweets.yaml -s page.html
  parselet extract -d tweets.yaml -s https://example.com --allow-http -r yaml
  parselet extract -d tweets.yaml -s page.html -r template -t wall.tpl -o wall.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.definition, "definition", "d", "", "parselet definition file (YAML or JSON)")
	flags.StringVarP(&f.source, "source", "s", "", "HTML page path or URL")
	flags.StringP("renderer", "r", "json", "output renderer: json, yaml or template")
	flags.StringVarP(&f.template, "template", "t", "", "template file or inline template for the template renderer")
	flags.StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&f.preset, "preset", "", "JSON preset with set/rename/drop rules applied to the result")
	flags.Int("indent", 2, "indentation width for json and yaml output")
	flags.BoolVar(&f.compact, "compact", false, "emit compact output where the format allows it")
	flags.BoolVar(&f.noShape, "no-shape-check", false, "skip checking the result against the definition shape")
	flags.Bool("allow-http", false, "allow loading pages over http(s)")
	flags.Duration("timeout", 30*time.Second, "HTTP request timeout")
	flags.String("user-agent", "", "HTTP User-Agent header")
	flags.Int64("max-bytes", 0, "maximum page size in bytes")

	_ = cmd.MarkFlagRequired("definition")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, f extractFlags) error {
	options := []orchestrator.Option{
		orchestrator.WithLoader(parselet.NewLoader(a.cfg.LoaderOptions()...)),
		orchestrator.WithLogger(a.logger),
		orchestrator.WithShapeCheck(!f.noShape),
	}
	if f.preset != "" {
		raw, err := os.ReadFile(f.preset)
		if err != nil {
			return fmt.Errorf("read preset: %w", err)
		}
		transformer, err := orchestrator.NewJSONPresetTransformer(raw)
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithTransformer(transformer))
	}

	page := source.Parse(f.source)
	if page == nil {
		return fmt.Errorf("invalid source %q", f.source)
	}
	if page.Kind() == source.KindURL && !a.cfg.AllowHTTP {
		return fmt.Errorf("loading %s requires --allow-http", page.Location())
	}

	gen := parselet.NewOrchestrator(options...)
	out, err := gen.Generate(cmd.Context(), orchestrator.Request{
		Source:           page,
		DefinitionSource: source.FromFile(f.definition),
		Renderer:         a.cfg.Renderer,
		RenderOptions: render.RenderOptions{
			Template: f.template,
			Indent:   a.cfg.Indent,
			Compact:  f.compact,
		},
	})
	if err != nil {
		return err
	}

	if f.output == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(f.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("output written", "path", f.output, "bytes", len(out))
	return nil
}
