package app

import (
	"context"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/ports"
)

// domainEvent is the minimal ports.DomainEvent a host ever needs to
// construct: a type string plus whatever payload its publisher cares to
// render.
type domainEvent struct {
	eventType string
	payload   interface{}
}

func (e domainEvent) EventType() string   { return e.eventType }
func (e domainEvent) Payload() interface{} { return e.payload }

func publishEvent(ctx context.Context, publisher ports.EventPublisher, eventType string, payload map[string]interface{}) {
	if publisher == nil {
		return
	}
	publisher.Publish(ctx, domainEvent{eventType: eventType, payload: payload}) //nolint:errcheck
}

// eventHook adapts the engine's pipeline and action lifecycle callbacks into
// ports.DomainEvents on a publisher, independent of whatever renders the
// DashboardHook's events to a terminal. Registering both hooks on the same
// run is normal: the dashboard drives the TUI, this drives anything that
// only needs a record of what happened.
type eventHook struct {
	publisher ports.EventPublisher
}

func newEventHook(publisher ports.EventPublisher) *eventHook {
	return &eventHook{publisher: publisher}
}

func (h *eventHook) Before(ctx *corepipeline.ActionContext) {
	publishEvent(context.Background(), h.publisher, ports.EventStepStarted, map[string]interface{}{
		"step_key": ctx.StepKey,
	})
}

func (h *eventHook) After(ctx *corepipeline.ActionContext) {
	publishEvent(context.Background(), h.publisher, ports.EventStepCompleted, map[string]interface{}{
		"step_key": ctx.StepKey,
	})
}

func (h *eventHook) OnError(ctx *corepipeline.ActionContext, err error) {
	publishEvent(context.Background(), h.publisher, ports.EventStepFailed, map[string]interface{}{
		"step_key": ctx.StepKey,
		"error":    err.Error(),
	})
}

func (h *eventHook) Start(ctx *corepipeline.ExecutionContext) {
	publishEvent(context.Background(), h.publisher, ports.EventPipelineStarted, map[string]interface{}{
		"run_id":   ctx.RunID,
		"pipeline": ctx.PipelineKey,
	})
}

func (h *eventHook) Completed(ctx *corepipeline.ExecutionContext) {
	publishEvent(context.Background(), h.publisher, ports.EventPipelineCompleted, map[string]interface{}{
		"run_id":   ctx.RunID,
		"pipeline": ctx.PipelineKey,
	})
}

func (h *eventHook) Failed(ctx *corepipeline.ExecutionContext) {
	publishEvent(context.Background(), h.publisher, ports.EventPipelineFailed, map[string]interface{}{
		"run_id":   ctx.RunID,
		"pipeline": ctx.PipelineKey,
		"error":    ctx.Error,
	})
}

func (h *eventHook) Canceled(ctx *corepipeline.ExecutionContext) {
	publishEvent(context.Background(), h.publisher, ports.EventPipelineCanceled, map[string]interface{}{
		"run_id":   ctx.RunID,
		"pipeline": ctx.PipelineKey,
	})
}
