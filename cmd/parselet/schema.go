package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-parselet/pkg/definition"
	"github.com/goliatone/go-parselet/pkg/source"
	"github.com/goliatone/go-parselet/pkg/validation"
)

func newSchemaCmd(a *app) *cobra.Command {
	var defPath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI schema of the data a definition produces",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := readDefinition(defPath)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(validation.ShapeSchema(def), "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			a.logger.Debug("schema derived", "definition", def.Name)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&defPath, "definition", "d", "", "parselet definition file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("definition")
	return cmd
}

func readDefinition(path string) (*definition.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return definition.Parse(source.FromFile(path), raw)
}
