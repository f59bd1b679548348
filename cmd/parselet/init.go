package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-parselet/internal/wizard"
	"github.com/goliatone/go-parselet/pkg/definition"
)

func newInitCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Build a parselet definition interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := a.driver
			if driver == nil {
				driver = wizard.NewSurveyDriver()
			}
			ctx := cmd.Context()

			if output != "" {
				if _, err := os.Stat(output); err == nil {
					overwrite, err := driver.Confirm(ctx, wizard.ConfirmConfig{
						Message: fmt.Sprintf("%s exists. Overwrite?", output),
					})
					if err != nil {
						return err
					}
					if !overwrite {
						return wizard.ErrAborted
					}
				}
			}

			def, err := wizard.New(driver).Run(ctx)
			if errors.Is(err, wizard.ErrAborted) {
				a.logger.Info("wizard aborted")
				return err
			}
			if err != nil {
				return err
			}
			out, err := definition.Encode(def)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write definition: %w", err)
			}
			return driver.Info(ctx, fmt.Sprintf("Definition written to %s", output))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "definition file to write (stdout if empty)")
	return cmd
}
