package engine

import (
	"context"
	"time"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// HookWrapper decorates an action so a fixed hook list fires around every
// Invoke call, with the same before/after/error ordering guarantees as the
// Action Executor. Used when a host wants hooks tied to one action
// instance rather than resolved by name through the registry (C10).
type HookWrapper struct {
	inner Action
	hooks []ActionHook
}

// NewHookWrapper wraps inner so hooks fire around every invocation.
func NewHookWrapper(inner Action, hooks ...ActionHook) *HookWrapper {
	return &HookWrapper{inner: inner, hooks: hooks}
}

func (w *HookWrapper) Name() string {
	return w.inner.Name()
}

func (w *HookWrapper) Configure(ctx context.Context, config interface{}) error {
	return w.inner.Configure(ctx, config)
}

func (w *HookWrapper) Invoke(ctx *corepipeline.ActionContext) (interface{}, error) {
	for _, h := range w.hooks {
		h.Before(ctx)
	}

	output, err := w.inner.Invoke(ctx)
	if err != nil {
		for _, h := range w.hooks {
			h.OnError(ctx, err)
		}
		return nil, err
	}

	ctx.SetResult(output)
	for _, h := range w.hooks {
		h.After(ctx)
	}
	return output, nil
}

// RetryWrapper decorates an action so a failing Invoke is retried up to
// maxRetries additional times (maxRetries+1 total invocations), waiting
// delay between attempts. A set cancel signal stops retrying immediately
// and surfaces the last error rather than sleeping out the remaining
// attempts; cancel may be nil, in which case retries always run to
// completion.
type RetryWrapper struct {
	inner      Action
	maxRetries uint32
	delay      time.Duration
	cancel     *CancelSignal
}

// NewRetryWrapper wraps inner so a failed Invoke is retried up to
// maxRetries additional times, waiting delay between attempts.
func NewRetryWrapper(inner Action, maxRetries uint32, delay time.Duration, cancel *CancelSignal) *RetryWrapper {
	return &RetryWrapper{inner: inner, maxRetries: maxRetries, delay: delay, cancel: cancel}
}

func (w *RetryWrapper) Name() string {
	return w.inner.Name()
}

func (w *RetryWrapper) Configure(ctx context.Context, config interface{}) error {
	return w.inner.Configure(ctx, config)
}

func (w *RetryWrapper) Invoke(ctx *corepipeline.ActionContext) (interface{}, error) {
	var lastErr error
	for attempt := uint32(0); attempt <= w.maxRetries; attempt++ {
		if w.cancel != nil && w.cancel.IsSet() {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, corepipeline.NewCanceledError("retry aborted before first attempt")
		}

		output, err := w.inner.Invoke(ctx)
		if err == nil {
			return output, nil
		}
		lastErr = err

		if attempt == w.maxRetries || w.delay <= 0 {
			continue
		}
		if w.cancel == nil {
			time.Sleep(w.delay)
			continue
		}
		select {
		case <-time.After(w.delay):
		case <-w.cancel.Done():
			return nil, lastErr
		}
	}
	return nil, lastErr
}
