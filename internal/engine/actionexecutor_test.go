package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

type stubAction struct {
	name   string
	output interface{}
	err    error
	delay  time.Duration
}

func (a *stubAction) Name() string { return a.name }

func (a *stubAction) Configure(_ context.Context, _ interface{}) error { return nil }

func (a *stubAction) Invoke(_ *corepipeline.ActionContext) (interface{}, error) {
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	return a.output, a.err
}

func TestActionExecutorSuccess(t *testing.T) {
	exec := NewActionExecutor(nil, nil, nil)
	action := &stubAction{name: "noop", output: map[string]interface{}{"ok": true}}

	result := exec.Execute(context.Background(), action, "step-1", "input", nil)

	if result.Status != corepipeline.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", result.Status, result.Message)
	}
	if result.ID == "" {
		t.Fatal("expected a generated id")
	}
	if result.StepKey != "step-1" || result.ActionName != "noop" {
		t.Fatalf("expected stamped step/action names, got %+v", result)
	}
}

func TestActionExecutorFailure(t *testing.T) {
	exec := NewActionExecutor(nil, nil, nil)
	action := &stubAction{name: "flaky", err: errors.New("boom")}

	result := exec.Execute(context.Background(), action, "step-1", nil, nil)

	if result.Status != corepipeline.StatusFailed {
		t.Fatalf("expected failed, got %s", result.Status)
	}
	if result.Message != "boom" {
		t.Fatalf("expected message boom, got %s", result.Message)
	}
}

func TestActionExecutorCancellation(t *testing.T) {
	signal := NewCancelSignal()
	exec := NewActionExecutor(nil, nil, signal)
	action := &stubAction{name: "slow", delay: time.Hour}

	signal.Cancel()
	result := exec.Execute(context.Background(), action, "step-1", nil, nil)

	if result.Status != corepipeline.StatusCanceled {
		t.Fatalf("expected canceled, got %s", result.Status)
	}
}

func TestActionExecutorFiresHooksInOrder(t *testing.T) {
	var order []string
	hook := &orderTrackingHook{order: &order}
	exec := NewActionExecutor([]ActionHook{hook}, nil, nil)
	action := &stubAction{name: "noop", output: "ok"}

	exec.Execute(context.Background(), action, "step-1", nil, nil)

	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Fatalf("expected [before after], got %v", order)
	}
}

type orderTrackingHook struct {
	order *[]string
}

func (h *orderTrackingHook) Before(_ *corepipeline.ActionContext) {
	*h.order = append(*h.order, "before")
}
func (h *orderTrackingHook) After(_ *corepipeline.ActionContext) {
	*h.order = append(*h.order, "after")
}
func (h *orderTrackingHook) OnError(_ *corepipeline.ActionContext, _ error) {
	*h.order = append(*h.order, "error")
}
