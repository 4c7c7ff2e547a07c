package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fluxionhq/fluxion/internal/app"
	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/engine"
	"github.com/fluxionhq/fluxion/internal/logger"
	"github.com/fluxionhq/fluxion/internal/tui"
	"github.com/fluxionhq/fluxion/internal/varsub"
)

type runOptions struct {
	ConfigPath  string
	Environment string
}

func newRunCmd(root *rootFlags, appCtx *AppContext) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a pipeline definition to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := validateConfigPath(opts.ConfigPath)
			if err != nil {
				return err
			}
			return runPipeline(cmd, appCtx, root, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to the pipeline definition (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.Environment, "environment", "e", "local", "environment name passed into the run")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runPipeline(cmd *cobra.Command, appCtx *AppContext, root *rootFlags, path string, opts runOptions) error {
	ctx, log := appCtx.CommandContext(cmd, "run")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resolver := varsub.NewChainResolver(varsub.EnvResolver{})
	loaded, err := app.Load(path, resolver)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	modelState := tui.NewModel(loaded.Pipeline.Key, stepKeys(loaded.Pipeline))
	dashboard := engine.NewDashboardHook(64)

	var program *tea.Program
	done := make(chan struct{})
	if interactive {
		program = tea.NewProgram(modelState)
		go func() {
			_, _ = program.Run()
			close(done)
		}()
		go pumpDashboard(dashboard, program)
	}

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

	if interactive && program != nil {
		program.Send(tea.QuitMsg{})
		<-done
	} else {
		drainDashboard(dashboard, &modelState)
	}

	if log != nil {
		log.Info(ctx, "run finished", "run_id", result.RunID, "status", string(result.Status))
	}

	if !interactive {
		fmt.Fprintln(cmd.OutOrStdout(), modelState.View())
	}

	if execErr != nil {
		return execErr
	}
	if result.Status != corepipeline.StatusSuccess {
		return fmt.Errorf("pipeline %s finished with status %s: %s", result.PipelineKey, result.Status, result.Error)
	}
	return nil
}

// pumpDashboard relays DashboardHook events to a running Bubbletea program
// for the lifetime of the hook's channel.
func pumpDashboard(hook *engine.DashboardHook, program *tea.Program) {
	for ev := range hook.Events() {
		program.Send(toTuiMsg(ev))
	}
}

// drainDashboard applies every event already buffered on the hook's channel
// to state. Since a run is fully synchronous, by the time Execute returns
// every event it will ever publish has already been queued.
func drainDashboard(hook *engine.DashboardHook, state *tui.Model) {
	for {
		select {
		case ev := <-hook.Events():
			updated, _ := state.Update(toTuiMsg(ev))
			if m, ok := updated.(tui.Model); ok {
				*state = m
			}
		default:
			return
		}
	}
}

func toTuiMsg(ev engine.DashboardEvent) tea.Msg {
	if ev.StepKey != "" {
		return tui.StepEventMsg{Kind: ev.Kind, StepKey: ev.StepKey, Message: ev.Message}
	}
	return tui.PipelineEventMsg{Kind: ev.Kind, RunID: ev.RunID, Message: ev.Message}
}

func stepKeys(pipeline *corepipeline.Pipeline) []string {
	steps := pipeline.Steps()
	keys := make([]string, 0, len(steps))
	for _, step := range steps {
		keys = append(keys, step.Key)
	}
	return keys
}
