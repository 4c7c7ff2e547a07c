package engine

import (
	"context"
	"time"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// defaultMaxSteps bounds the number of step transitions a single run may
// take, guarding against a routing cycle spinning forever when a pipeline
// definition contains a loop.
const defaultMaxSteps = 10000

// PipelineExecutor drives one ExecutionContext through a Pipeline's step
// graph to completion (C7).
type PipelineExecutor struct {
	mapper         InputMapper
	actions        *ActionRegistry
	evaluator      *PredicateEvaluator
	resolver       *ValueResolver
	actionExecutor *ActionExecutor
	globalHooks    []PipelineHook
	hookResolver   PipelineHookResolver
	cancelSignal   *CancelSignal
	maxSteps       int
}

// NewPipelineExecutor constructs a PipelineExecutor. maxSteps <= 0 selects
// defaultMaxSteps.
func NewPipelineExecutor(
	mapper InputMapper,
	actions *ActionRegistry,
	evaluator *PredicateEvaluator,
	resolver *ValueResolver,
	actionExecutor *ActionExecutor,
	globalHooks []PipelineHook,
	hookResolver PipelineHookResolver,
	cancelSignal *CancelSignal,
	maxSteps int,
) *PipelineExecutor {
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	return &PipelineExecutor{
		mapper:         mapper,
		actions:        actions,
		evaluator:      evaluator,
		resolver:       resolver,
		actionExecutor: actionExecutor,
		globalHooks:    globalHooks,
		hookResolver:   hookResolver,
		cancelSignal:   cancelSignal,
		maxSteps:       maxSteps,
	}
}

// Execute drives pipeline to completion starting from an already-seeded
// ExecutionContext, returning the terminal ExecutionResult.
func (e *PipelineExecutor) Execute(ctx context.Context, pipeline *corepipeline.Pipeline, execCtx *corepipeline.ExecutionContext) *corepipeline.ExecutionResult {
	hooks := e.resolvePipelineHooks(pipeline.Key)

	for _, h := range hooks {
		h.Start(execCtx)
	}

	currentKey := pipeline.EntryKey()
	succeeded, failed := 0, 0

	for transitions := 0; ; transitions++ {
		if transitions >= e.maxSteps {
			return e.finish(execCtx, hooks, corepipeline.StatusFailed,
				corepipeline.NewRoutingError("exceeded maximum step transitions", map[string]interface{}{"max_steps": e.maxSteps}).Error(),
				succeeded, failed)
		}

		if e.cancelSignal != nil && e.cancelSignal.IsSet() {
			return e.finish(execCtx, hooks, corepipeline.StatusCanceled, "", succeeded, failed)
		}

		step, ok := pipeline.StepByKey(currentKey)
		if !ok {
			err := corepipeline.NewNotFoundError("step", currentKey)
			return e.finish(execCtx, hooks, corepipeline.StatusFailed, err.Error(), succeeded, failed)
		}

		action, ok := e.actions.Resolve(step.Action)
		if !ok {
			err := corepipeline.NewNotFoundError("action", step.Action)
			return e.finish(execCtx, hooks, corepipeline.StatusFailed, err.Error(), succeeded, failed)
		}

		config := e.resolver.Resolve(deepClone(step.Config), execCtx.JSONDocument())
		execCtx.CurrentStep = &step

		if err := action.Configure(ctx, config); err != nil {
			wrapped := corepipeline.NewActionError("action configure failed", err).WithContext(map[string]interface{}{"step_key": step.Key})
			return e.finish(execCtx, hooks, corepipeline.StatusFailed, wrapped.Error(), succeeded, failed)
		}

		input := e.mapper.Map(execCtx, step)
		result := e.actionExecutor.Execute(ctx, action, step.Key, input, step.Params)
		execCtx.AppendStepResult(*result)
		if result.Output != nil {
			execCtx.UpsertResult(result.ActionName, result.Output)
		}

		switch result.Status {
		case corepipeline.StatusCanceled:
			return e.finish(execCtx, hooks, corepipeline.StatusCanceled, "", succeeded, failed)

		case corepipeline.StatusFailed:
			failed++
			execCtx.Error = result.Message
			if step.OnError != "" {
				currentKey = step.OnError
				continue
			}
			return e.finish(execCtx, hooks, corepipeline.StatusFailed, result.Message, succeeded, failed)

		default:
			succeeded++
			next, hasNext := e.selectSuccessor(step, execCtx)
			if !hasNext {
				return e.finish(execCtx, hooks, corepipeline.StatusSuccess, "", succeeded, failed)
			}
			currentKey = next
		}
	}
}

// selectSuccessor applies the success-path routing rule: the first matching
// next_when predicate wins, then otherwise, then next, then no successor.
func (e *PipelineExecutor) selectSuccessor(step corepipeline.Step, execCtx *corepipeline.ExecutionContext) (string, bool) {
	doc := execCtx.JSONDocument()
	for _, nw := range step.NextWhen {
		if e.evaluator.Evaluate(nw.When, doc) {
			return nw.Next, true
		}
	}
	if step.Otherwise != "" {
		return step.Otherwise, true
	}
	if step.Next != "" {
		return step.Next, true
	}
	return "", false
}

func (e *PipelineExecutor) resolvePipelineHooks(pipelineKey string) []PipelineHook {
	hooks := append([]PipelineHook(nil), e.globalHooks...)
	if e.hookResolver != nil {
		hooks = append(hooks, e.hookResolver.Resolve(pipelineKey)...)
	}
	return hooks
}

func (e *PipelineExecutor) finish(execCtx *corepipeline.ExecutionContext, hooks []PipelineHook, status corepipeline.Status, errMsg string, succeeded, failed int) *corepipeline.ExecutionResult {
	execCtx.FinishedAt = time.Now()
	execCtx.Status = status
	if errMsg != "" {
		execCtx.Error = errMsg
	}

	switch status {
	case corepipeline.StatusCanceled:
		for _, h := range hooks {
			h.Canceled(execCtx)
		}
	case corepipeline.StatusFailed:
		for _, h := range hooks {
			h.Failed(execCtx)
		}
	default:
		for _, h := range hooks {
			h.Completed(execCtx)
		}
	}

	duration := execCtx.FinishedAt.Sub(execCtx.StartedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	var lastOutput interface{}
	if len(execCtx.Steps) > 0 {
		lastOutput = execCtx.Steps[len(execCtx.Steps)-1].Output
	}

	return &corepipeline.ExecutionResult{
		RunID:       execCtx.RunID,
		PipelineKey: execCtx.PipelineKey,
		Environment: execCtx.Environment,
		Status:      status,
		Error:       execCtx.Error,
		Steps:       execCtx.Steps,
		Result:      lastOutput,
		Metrics: corepipeline.Metrics{
			StartedAt:      execCtx.StartedAt,
			FinishedAt:     execCtx.FinishedAt,
			DurationMS:     duration,
			StepsTotal:     len(execCtx.Steps),
			StepsSucceeded: succeeded,
			StepsFailed:    failed,
		},
	}
}
