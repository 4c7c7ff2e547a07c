package engine

import (
	"context"
	"sync"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/ports"
)

// ActionHook observes a single action invocation (C5).
type ActionHook interface {
	Before(ctx *corepipeline.ActionContext)
	After(ctx *corepipeline.ActionContext)
	OnError(ctx *corepipeline.ActionContext, err error)
}

// PipelineHook observes a pipeline run's lifecycle (C5). Exactly one of
// Completed, Failed, Canceled fires per run, always preceded by Start.
type PipelineHook interface {
	Start(ctx *corepipeline.ExecutionContext)
	Completed(ctx *corepipeline.ExecutionContext)
	Failed(ctx *corepipeline.ExecutionContext)
	Canceled(ctx *corepipeline.ExecutionContext)
}

// ActionHookResolver resolves the action-specific hooks to concatenate
// after the engine's global action hooks for a given action name.
type ActionHookResolver interface {
	Resolve(actionName string) []ActionHook
}

// PipelineHookResolver resolves the pipeline-specific hooks to concatenate
// after the engine's global pipeline hooks for a given pipeline key.
type PipelineHookResolver interface {
	Resolve(pipelineKey string) []PipelineHook
}

// staticActionHookResolver is the common case: a fixed mapping from action
// name to hook list, configured once at assembly time.
type staticActionHookResolver struct {
	mu    sync.RWMutex
	byAct map[string][]ActionHook
}

// NewStaticActionHookResolver constructs an ActionHookResolver backed by a
// fixed action-name-to-hooks mapping.
func NewStaticActionHookResolver() *staticActionHookResolver {
	return &staticActionHookResolver{byAct: make(map[string][]ActionHook)}
}

func (r *staticActionHookResolver) Register(actionName string, hook ActionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAct[actionName] = append(r.byAct[actionName], hook)
}

func (r *staticActionHookResolver) Resolve(actionName string) []ActionHook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ActionHook(nil), r.byAct[actionName]...)
}

type staticPipelineHookResolver struct {
	mu    sync.RWMutex
	byKey map[string][]PipelineHook
}

// NewStaticPipelineHookResolver constructs a PipelineHookResolver backed by
// a fixed pipeline-key-to-hooks mapping.
func NewStaticPipelineHookResolver() *staticPipelineHookResolver {
	return &staticPipelineHookResolver{byKey: make(map[string][]PipelineHook)}
}

func (r *staticPipelineHookResolver) Register(pipelineKey string, hook PipelineHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[pipelineKey] = append(r.byKey[pipelineKey], hook)
}

func (r *staticPipelineHookResolver) Resolve(pipelineKey string) []PipelineHook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]PipelineHook(nil), r.byKey[pipelineKey]...)
}

// LoggingHook is the built-in diagnostic hook wired to the logging port; it
// implements both ActionHook and PipelineHook so it can be registered
// globally in either slot.
type LoggingHook struct {
	logger ports.Logger
}

// NewLoggingHook constructs a LoggingHook. logger must not be nil.
func NewLoggingHook(logger ports.Logger) *LoggingHook {
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) Before(ctx *corepipeline.ActionContext) {
	h.logger.Debug(context.Background(), "action starting", "step", ctx.StepKey)
}

func (h *LoggingHook) After(ctx *corepipeline.ActionContext) {
	h.logger.Debug(context.Background(), "action completed", "step", ctx.StepKey)
}

func (h *LoggingHook) OnError(ctx *corepipeline.ActionContext, err error) {
	h.logger.Error(context.Background(), "action failed", "step", ctx.StepKey, "error", err)
}

func (h *LoggingHook) Start(ctx *corepipeline.ExecutionContext) {
	h.logger.Info(context.Background(), "pipeline starting", "run_id", ctx.RunID, "pipeline", ctx.PipelineKey)
}

func (h *LoggingHook) Completed(ctx *corepipeline.ExecutionContext) {
	h.logger.Info(context.Background(), "pipeline completed", "run_id", ctx.RunID, "pipeline", ctx.PipelineKey)
}

func (h *LoggingHook) Failed(ctx *corepipeline.ExecutionContext) {
	h.logger.Warn(context.Background(), "pipeline failed", "run_id", ctx.RunID, "pipeline", ctx.PipelineKey, "error", ctx.Error)
}

func (h *LoggingHook) Canceled(ctx *corepipeline.ExecutionContext) {
	h.logger.Warn(context.Background(), "pipeline canceled", "run_id", ctx.RunID, "pipeline", ctx.PipelineKey)
}

// DashboardEvent is a single lifecycle notification published by
// DashboardHook, consumed by the watch command's live view.
type DashboardEvent struct {
	Kind        string
	RunID       string
	PipelineKey string
	StepKey     string
	Message     string
}

// DashboardHook publishes lifecycle events onto a buffered channel for a
// live terminal dashboard to render. Publishing never blocks: a full
// channel drops the event rather than stalling pipeline execution.
type DashboardHook struct {
	events chan DashboardEvent
}

// NewDashboardHook constructs a DashboardHook with the given channel buffer
// size.
func NewDashboardHook(buffer int) *DashboardHook {
	return &DashboardHook{events: make(chan DashboardEvent, buffer)}
}

// Events returns the read side of the hook's event channel.
func (h *DashboardHook) Events() <-chan DashboardEvent {
	return h.events
}

func (h *DashboardHook) publish(ev DashboardEvent) {
	select {
	case h.events <- ev:
	default:
	}
}

func (h *DashboardHook) Before(ctx *corepipeline.ActionContext) {
	h.publish(DashboardEvent{Kind: "step.started", StepKey: ctx.StepKey})
}

func (h *DashboardHook) After(ctx *corepipeline.ActionContext) {
	h.publish(DashboardEvent{Kind: "step.completed", StepKey: ctx.StepKey})
}

func (h *DashboardHook) OnError(ctx *corepipeline.ActionContext, err error) {
	h.publish(DashboardEvent{Kind: "step.failed", StepKey: ctx.StepKey, Message: err.Error()})
}

func (h *DashboardHook) Start(ctx *corepipeline.ExecutionContext) {
	h.publish(DashboardEvent{Kind: "pipeline.started", RunID: ctx.RunID, PipelineKey: ctx.PipelineKey})
}

func (h *DashboardHook) Completed(ctx *corepipeline.ExecutionContext) {
	h.publish(DashboardEvent{Kind: "pipeline.completed", RunID: ctx.RunID, PipelineKey: ctx.PipelineKey})
}

func (h *DashboardHook) Failed(ctx *corepipeline.ExecutionContext) {
	h.publish(DashboardEvent{Kind: "pipeline.failed", RunID: ctx.RunID, PipelineKey: ctx.PipelineKey, Message: ctx.Error})
}

func (h *DashboardHook) Canceled(ctx *corepipeline.ExecutionContext) {
	h.publish(DashboardEvent{Kind: "pipeline.canceled", RunID: ctx.RunID, PipelineKey: ctx.PipelineKey})
}
