package engine

import (
	"context"
	"time"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// ActionExecutor runs one step's action to completion, honoring
// cancellation and firing the step's hook list in order (C6).
type ActionExecutor struct {
	globalHooks  []ActionHook
	hookResolver ActionHookResolver
	cancelSignal *CancelSignal
}

// NewActionExecutor constructs an ActionExecutor. globalHooks fire before
// any hooks resolver returns for the action name; cancelSignal may be nil,
// in which case the executor never treats a step as canceled mid-flight.
func NewActionExecutor(globalHooks []ActionHook, resolver ActionHookResolver, cancelSignal *CancelSignal) *ActionExecutor {
	return &ActionExecutor{
		globalHooks:  globalHooks,
		hookResolver: resolver,
		cancelSignal: cancelSignal,
	}
}

// Execute runs action against input/params, returning the StepResult that
// records its outcome. It never returns a Go error: all failure modes are
// represented as a Failed or Canceled StepResult.
func (e *ActionExecutor) Execute(ctx context.Context, action Action, stepKey string, input, params interface{}) *corepipeline.StepResult {
	hooks := e.resolveHooks(action.Name())
	actionCtx := corepipeline.NewActionContext(stepKey, input)
	actionCtx.Params = params

	for _, h := range hooks {
		h.Before(actionCtx)
	}

	startedAt := time.Now()

	signal := e.cancelSignal
	if signal == nil {
		signal = NewCancelSignal()
	}

	output, err, canceled := waitWithCancel(ctx, signal, func() (interface{}, error) {
		return action.Invoke(actionCtx)
	})

	finishedAt := time.Now()
	duration := finishedAt.Sub(startedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	if canceled {
		result := &corepipeline.StepResult{
			ID:         corepipeline.GenerateID("step"),
			StepKey:    stepKey,
			ActionName: action.Name(),
			Status:     corepipeline.StatusCanceled,
			Message:    "Pipeline canceled",
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			DurationMS: duration,
		}
		cancelErr := corepipeline.NewCanceledError("pipeline canceled")
		for _, h := range hooks {
			h.OnError(actionCtx, cancelErr)
		}
		return result
	}

	if err != nil {
		result := &corepipeline.StepResult{
			ID:         corepipeline.GenerateID("step"),
			StepKey:    stepKey,
			ActionName: action.Name(),
			Status:     corepipeline.StatusFailed,
			Message:    err.Error(),
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			DurationMS: duration,
		}
		for _, h := range hooks {
			h.OnError(actionCtx, err)
		}
		return result
	}

	actionCtx.SetResult(output)
	result := &corepipeline.StepResult{
		ID:         corepipeline.GenerateID("step"),
		StepKey:    stepKey,
		ActionName: action.Name(),
		Status:     corepipeline.StatusSuccess,
		Output:     output,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		DurationMS: duration,
	}
	for _, h := range hooks {
		h.After(actionCtx)
	}
	return result
}

func (e *ActionExecutor) resolveHooks(actionName string) []ActionHook {
	hooks := append([]ActionHook(nil), e.globalHooks...)
	if e.hookResolver != nil {
		hooks = append(hooks, e.hookResolver.Resolve(actionName)...)
	}
	return hooks
}
