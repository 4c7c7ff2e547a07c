package engine

import (
	"context"
	"time"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/ports"
)

// Builder assembles an Engine from its pluggable capabilities. Go favors an
// interface-populated struct with chained With* setters over the generic
// Engine<M, HR, PHR, AR> facade of the original design — type parameters
// would buy nothing here since every capability is consumed through its
// interface, never its concrete type.
type Builder struct {
	mapper               InputMapper
	actions              *ActionRegistry
	globalActionHooks    []ActionHook
	actionHookResolver   ActionHookResolver
	globalPipelineHooks  []PipelineHook
	pipelineHookResolver PipelineHookResolver
	cancelSource         CancellationSource
	maxSteps             int
	logger               ports.Logger
}

// NewBuilder starts a Builder with sane defaults: a DefaultMapper and an
// empty ActionRegistry. logger may be nil.
func NewBuilder(logger ports.Logger) *Builder {
	return &Builder{
		mapper:  NewDefaultMapper(),
		actions: NewActionRegistry(logger),
		logger:  logger,
	}
}

// WithMapper overrides the input mapper.
func (b *Builder) WithMapper(m InputMapper) *Builder {
	b.mapper = m
	return b
}

// WithAction registers an action template.
func (b *Builder) WithAction(action Action) *Builder {
	b.actions.Register(action)
	return b
}

// WithActionHook adds a hook to the global action hook list, fired for
// every step regardless of action name.
func (b *Builder) WithActionHook(hook ActionHook) *Builder {
	b.globalActionHooks = append(b.globalActionHooks, hook)
	return b
}

// WithActionHookResolver sets the per-action-name hook resolver,
// concatenated after the global action hooks.
func (b *Builder) WithActionHookResolver(resolver ActionHookResolver) *Builder {
	b.actionHookResolver = resolver
	return b
}

// WithPipelineHook adds a hook to the global pipeline hook list, fired for
// every run regardless of pipeline key.
func (b *Builder) WithPipelineHook(hook PipelineHook) *Builder {
	b.globalPipelineHooks = append(b.globalPipelineHooks, hook)
	return b
}

// WithPipelineHookResolver sets the per-pipeline-key hook resolver,
// concatenated after the global pipeline hooks.
func (b *Builder) WithPipelineHookResolver(resolver PipelineHookResolver) *Builder {
	b.pipelineHookResolver = resolver
	return b
}

// WithCancellationSource attaches a Cancellation Source the Engine starts
// monitoring as soon as Build is called.
func (b *Builder) WithCancellationSource(source CancellationSource) *Builder {
	b.cancelSource = source
	return b
}

// WithMaxSteps bounds the number of step transitions a single run may take
// before the engine fails it as a routing error. Defaults to 10,000.
func (b *Builder) WithMaxSteps(maxSteps int) *Builder {
	b.maxSteps = maxSteps
	return b
}

// Build finalizes assembly and returns an Engine ready to execute runs.
func (b *Builder) Build() *Engine {
	listener := NewCancellationListener(b.cancelSource)
	resolver := NewValueResolver(b.logger)
	evaluator := NewPredicateEvaluator(resolver)
	actionExecutor := NewActionExecutor(b.globalActionHooks, b.actionHookResolver, listener.Signal())
	pipelineExecutor := NewPipelineExecutor(
		b.mapper,
		b.actions,
		evaluator,
		resolver,
		actionExecutor,
		b.globalPipelineHooks,
		b.pipelineHookResolver,
		listener.Signal(),
		b.maxSteps,
	)

	return &Engine{
		actions:  b.actions,
		executor: pipelineExecutor,
		listener: listener,
	}
}

// Engine is the assembled facade: it executes pipelines and exposes the
// shared cancellation signal to callers that want to cancel a run (C8).
type Engine struct {
	actions  *ActionRegistry
	executor *PipelineExecutor
	listener *CancellationListener
}

// Execute runs pipeline against input, returning the terminal
// ExecutionResult.
func (e *Engine) Execute(ctx context.Context, pipeline *corepipeline.Pipeline, env corepipeline.Environment, input interface{}) *corepipeline.ExecutionResult {
	execCtx := corepipeline.NewExecutionContext(pipeline.Key, env, input)
	return e.executor.Execute(ctx, pipeline, execCtx)
}

// Run enumerates every registered action and invokes each sequentially
// against a single shared action-local context, for hosts that want to
// exercise registered actions without constructing a pipeline. Unlike
// Execute, a failed action does not stop the remaining ones: all
// registered actions run once each.
func (e *Engine) Run(ctx context.Context, input interface{}) []*corepipeline.StepResult {
	names := e.actions.Names()
	results := make([]*corepipeline.StepResult, 0, len(names))
	shared := corepipeline.NewActionContext("run", input)
	signal := e.listener.Signal()

	for _, name := range names {
		if signal.IsSet() {
			break
		}
		action, ok := e.actions.Resolve(name)
		if !ok {
			continue
		}

		startedAt := time.Now()
		output, err, canceled := waitWithCancel(ctx, signal, func() (interface{}, error) {
			return action.Invoke(shared)
		})
		finishedAt := time.Now()

		if canceled {
			results = append(results, &corepipeline.StepResult{
				ID:         corepipeline.GenerateID("step"),
				StepKey:    "run",
				ActionName: name,
				Status:     corepipeline.StatusCanceled,
				Message:    "Pipeline canceled",
				StartedAt:  startedAt,
				FinishedAt: finishedAt,
			})
			break
		}

		if err != nil {
			results = append(results, &corepipeline.StepResult{
				ID:         corepipeline.GenerateID("step"),
				StepKey:    "run",
				ActionName: name,
				Status:     corepipeline.StatusFailed,
				Message:    err.Error(),
				StartedAt:  startedAt,
				FinishedAt: finishedAt,
			})
			continue
		}

		shared.SetResult(output)
		results = append(results, &corepipeline.StepResult{
			ID:         corepipeline.GenerateID("step"),
			StepKey:    "run",
			ActionName: name,
			Status:     corepipeline.StatusSuccess,
			Output:     output,
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
		})
	}
	return results
}

// Actions exposes the engine's action registry so a host can register
// per-run synthetic actions — for example a retry- or hook-wrapped clone of
// a resolved action — before a pipeline executes.
func (e *Engine) Actions() *ActionRegistry {
	return e.actions
}

// CancelSignal returns the engine's shared cancellation signal.
func (e *Engine) CancelSignal() *CancelSignal {
	return e.listener.Signal()
}

// Cancel cancels the current and any future run sharing this engine's
// signal.
func (e *Engine) Cancel() {
	e.listener.Cancel()
}
