// Package app wires the ambient and domain stack around the core engine
// into a single host-facing entry point: load a pipeline definition,
// apply host-side variable substitution, build the immutable Pipeline,
// register the built-in actions, and execute it. This is the layer
// cmd/fluxion calls into; the core engine never depends on it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fluxionhq/fluxion/internal/actions/command"
	"github.com/fluxionhq/fluxion/internal/actions/gitaction"
	"github.com/fluxionhq/fluxion/internal/config"
	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/engine"
	"github.com/fluxionhq/fluxion/internal/infrastructure/events"
	"github.com/fluxionhq/fluxion/internal/logger"
	"github.com/fluxionhq/fluxion/internal/ports"
	"github.com/fluxionhq/fluxion/internal/secretmask"
	"github.com/fluxionhq/fluxion/internal/statestore"
	"github.com/fluxionhq/fluxion/internal/varsub"
)

// LoadedPipeline bundles a constructed Pipeline with the secret values
// collected while resolving its definition, so a host can mask them out of
// anything it logs or displays without holding onto the raw definition.
type LoadedPipeline struct {
	Pipeline *corepipeline.Pipeline
	Masker   secretmask.Masker
}

// Load reads a pipeline definition from path, resolves "$NAME" and
// "secret:$NAME" placeholders via resolver, and converts the result into an
// immutable Pipeline.
func Load(path string, resolver varsub.Resolver) (*LoadedPipeline, error) {
	def, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	secrets := varsub.Substitute(def, resolver)

	pipeline, err := config.ToPipeline(def)
	if err != nil {
		return nil, err
	}

	return &LoadedPipeline{Pipeline: pipeline, Masker: secretmask.New(secrets)}, nil
}

// HookFactory builds the ActionHook a HookSpec.Type names, from that spec's
// Params. Hosts register factories for whichever hook types their steps may
// reference; "logging" is registered by default whenever NewHost is given a
// non-nil logger.
type HookFactory func(params interface{}) (engine.ActionHook, error)

// Host bundles the long-lived services a CLI command needs: a configured
// Engine with the built-in actions registered, and the state store runs are
// recorded into.
type Host struct {
	Engine        *engine.Engine
	Store         statestore.Store
	hookFactories map[string]HookFactory
}

// hostConfig accumulates Option side effects before NewHost builds the
// Engine and assembles the Host.
type hostConfig struct {
	builder       *engine.Builder
	hookFactories map[string]HookFactory
	publisher     ports.EventPublisher
}

// Option configures a Host before its Engine is built.
type Option func(*hostConfig)

// WithDashboardHook registers hook as both an action hook and a pipeline
// hook, the wiring the watch command uses to drive its live view.
func WithDashboardHook(hook *engine.DashboardHook) Option {
	return func(c *hostConfig) {
		c.builder.WithActionHook(hook)
		c.builder.WithPipelineHook(hook)
	}
}

// WithCancellationSource attaches a cancellation source (timeout, signal)
// the engine starts monitoring immediately.
func WithCancellationSource(source engine.CancellationSource) Option {
	return func(c *hostConfig) {
		c.builder.WithCancellationSource(source)
	}
}

// WithMaxSteps overrides the engine's step-transition cap.
func WithMaxSteps(n int) Option {
	return func(c *hostConfig) {
		c.builder.WithMaxSteps(n)
	}
}

// WithAction registers an additional action template beyond the built-ins.
func WithAction(action engine.Action) Option {
	return func(c *hostConfig) {
		c.builder.WithAction(action)
	}
}

// WithHookFactory registers factory under hookType, overriding any existing
// registration (including the default "logging" factory) for that type.
func WithHookFactory(hookType string, factory HookFactory) Option {
	return func(c *hostConfig) {
		c.hookFactories[hookType] = factory
	}
}

// WithEventPublisher replaces the default logging-backed ports.EventPublisher
// every run's lifecycle is reported to.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(c *hostConfig) {
		c.publisher = publisher
	}
}

// NewHost assembles an Engine with the built-in command and git-clone
// actions registered, plus the given store (use statestore.NewMemoryStore
// if the host doesn't need durability).
func NewHost(log ports.Logger, store statestore.Store, opts ...Option) *Host {
	cfg := &hostConfig{
		builder:       engine.NewBuilder(log).WithAction(command.New()).WithAction(gitaction.New()),
		hookFactories: make(map[string]HookFactory),
		publisher:     events.NewLoggingPublisher(log),
	}
	if log != nil {
		cfg.hookFactories["logging"] = func(_ interface{}) (engine.ActionHook, error) {
			return engine.NewLoggingHook(log), nil
		}
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.publisher != nil {
		hook := newEventHook(cfg.publisher)
		cfg.builder.WithActionHook(hook)
		cfg.builder.WithPipelineHook(hook)
	}

	return &Host{Engine: cfg.builder.Build(), Store: store, hookFactories: cfg.hookFactories}
}

// resolveStepOverrides implements the host-side wrapping the wire format
// reserves for the core: a step's retry policy and hook list are inert data
// until a host wraps that step's resolved action with RetryWrapper and/or
// HookWrapper and registers the wrapped clone under a synthetic per-step
// name, so steps sharing one action name but different policies never
// collide. Steps with neither field return the pipeline unchanged.
func (h *Host) resolveStepOverrides(pipeline *corepipeline.Pipeline) (*corepipeline.Pipeline, error) {
	steps := pipeline.Steps()
	changed := false

	for i, step := range steps {
		if step.Retry == nil && len(step.Hooks) == 0 {
			continue
		}

		action, ok := h.Engine.Actions().Resolve(step.Action)
		if !ok {
			return nil, fmt.Errorf("step %q: action %q is not registered", step.Key, step.Action)
		}

		if len(step.Hooks) > 0 {
			actionHooks, err := h.buildHooks(step.Hooks)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", step.Key, err)
			}
			action = engine.NewHookWrapper(action, actionHooks...)
		}
		if step.Retry != nil {
			delay := time.Duration(step.Retry.DelayMS) * time.Millisecond
			action = engine.NewRetryWrapper(action, step.Retry.MaxAttempts, delay, h.Engine.CancelSignal())
		}

		synthetic := fmt.Sprintf("%s@%s", step.Action, step.Key)
		h.Engine.Actions().RegisterAs(synthetic, action)
		steps[i].Action = synthetic
		changed = true
	}

	if !changed {
		return pipeline, nil
	}
	return corepipeline.NewPipeline(pipeline.Key, pipeline.Metadata, steps)
}

func (h *Host) buildHooks(specs []corepipeline.HookSpec) ([]engine.ActionHook, error) {
	built := make([]engine.ActionHook, 0, len(specs))
	for _, spec := range specs {
		factory, ok := h.hookFactories[spec.Type]
		if !ok {
			return nil, fmt.Errorf("no hook factory registered for type %q", spec.Type)
		}
		hook, err := factory(spec.Params)
		if err != nil {
			return nil, fmt.Errorf("build %q hook: %w", spec.Type, err)
		}
		built = append(built, hook)
	}
	return built, nil
}

// RunOptions configures one pipeline execution.
type RunOptions struct {
	Environment corepipeline.Environment
	Input       interface{}

	// RunLogger, when set, receives human-readable start/finish lines for
	// this one run, independent of the structured logger the Host's Engine
	// was built with. A CLI command typically constructs one per invocation
	// from its --verbose flag.
	RunLogger *logger.Logger
}

// Execute runs pipeline to completion and persists its terminal result (and
// every step result along the way) to the host's state store.
func (h *Host) Execute(ctx context.Context, pipeline *corepipeline.Pipeline, opts RunOptions) (*corepipeline.ExecutionResult, error) {
	runLog := opts.RunLogger.WithFields(map[string]any{"pipeline": pipeline.Key})
	runLog.Info("pipeline starting")

	execPipeline, err := h.resolveStepOverrides(pipeline)
	if err != nil {
		return nil, fmt.Errorf("resolve step overrides: %w", err)
	}

	result := h.Engine.Execute(ctx, execPipeline, opts.Environment, opts.Input)

	if result.Status == corepipeline.StatusSuccess {
		runLog.Info("pipeline finished")
	} else {
		runLog.Error(fmt.Errorf("%s", result.Error), "pipeline did not succeed")
	}

	for _, step := range result.Steps {
		if err := h.Store.UpdateStep(ctx, result.RunID, step.StepKey, step); err != nil {
			return result, fmt.Errorf("record step result: %w", err)
		}
	}
	if err := h.Store.SaveResult(ctx, result); err != nil {
		return result, fmt.Errorf("save execution result: %w", err)
	}

	return result, nil
}
