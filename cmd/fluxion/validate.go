package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxionhq/fluxion/internal/config"
	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

func newValidateCmd(appCtx *AppContext) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a pipeline definition without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := validateConfigPath(path)
			if err != nil {
				return err
			}

			def, err := config.Load(abs)
			if err != nil {
				return err
			}

			pipeline, err := config.ToPipeline(def)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d step(s), entry point %q\n",
				pipeline.Key, len(pipeline.Steps()), entryKey(pipeline))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "path to the pipeline definition (YAML or JSON)")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func entryKey(pipeline *corepipeline.Pipeline) string {
	return pipeline.EntryKey()
}
