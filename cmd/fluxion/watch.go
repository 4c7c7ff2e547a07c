package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fluxionhq/fluxion/internal/app"
	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/engine"
	"github.com/fluxionhq/fluxion/internal/logger"
	"github.com/fluxionhq/fluxion/internal/tui"
	"github.com/fluxionhq/fluxion/internal/varsub"
)

type watchOptions struct {
	ConfigPath  string
	Environment string
}

// newWatchCmd runs a pipeline the same way "run" does, but always attaches
// the Bubbletea dashboard regardless of whether stdout is a terminal — the
// command exists specifically to watch a run unfold live.
func newWatchCmd(root *rootFlags, appCtx *AppContext) *cobra.Command {
	opts := watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Execute a pipeline and render its live dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := validateConfigPath(opts.ConfigPath)
			if err != nil {
				return err
			}
			return watchPipeline(cmd, appCtx, root, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to the pipeline definition (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.Environment, "environment", "e", "local", "environment name passed into the run")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func watchPipeline(cmd *cobra.Command, appCtx *AppContext, root *rootFlags, path string, opts watchOptions) error {
	ctx, log := appCtx.CommandContext(cmd, "watch")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resolver := varsub.NewChainResolver(varsub.EnvResolver{})
	loaded, err := app.Load(path, resolver)
	if err != nil {
		return err
	}

	dashboard := engine.NewDashboardHook(64)
	modelState := tui.NewModel(loaded.Pipeline.Key, stepKeys(loaded.Pipeline))
	program := tea.NewProgram(modelState)

	done := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(done)
	}()
	go pumpDashboard(dashboard, program)

	hostOpts := []app.Option{app.WithDashboardHook(dashboard)}
	if root.timeout > 0 {
		hostOpts = append(hostOpts, app.WithCancellationSource(engine.NewTimeoutSource(root.timeout)))
	}

	host := appCtx.NewHost("engine", hostOpts...)

	level := "info"
	if root.verbose {
		level = "debug"
	}
	runLog, err := logger.New(logger.Options{Level: level, HumanReadable: true, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return fmt.Errorf("create run logger: %w", err)
	}

	result, execErr := host.Execute(ctx, loaded.Pipeline, app.RunOptions{
		Environment: corepipeline.Environment{Name: opts.Environment},
		RunLogger:   runLog,
	})

	program.Send(tea.QuitMsg{})
	<-done

	if log != nil {
		log.Info(ctx, "watch finished", "run_id", result.RunID, "status", string(result.Status))
	}

	if execErr != nil {
		return execErr
	}
	if result.Status != corepipeline.StatusSuccess {
		return fmt.Errorf("pipeline %s finished with status %s: %s", result.PipelineKey, result.Status, result.Error)
	}
	return nil
}
