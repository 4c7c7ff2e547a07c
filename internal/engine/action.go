package engine

import (
	"context"
	"reflect"
	"sync"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/ports"
)

// Action is a named unit of work the executor invokes once per step (C4).
// Implementations are expected to honor ctx cancellation inside Invoke when
// they perform long-running work.
type Action interface {
	Name() string
	Configure(ctx context.Context, config interface{}) error
	Invoke(ctx *corepipeline.ActionContext) (interface{}, error)
}

// ActionRegistry stores action templates and hands out a fresh, independently
// configurable instance per resolve call. Templates are stored as pointers;
// Resolve clones the pointed-to type via reflection so Configure on one
// instance never mutates another step's view of the same action, mirroring
// the teacher's PluginRegistry.createPluginInstance.
type ActionRegistry struct {
	mu       sync.RWMutex
	order    []string
	template map[string]Action
	logger   ports.Logger
}

// NewActionRegistry constructs an empty ActionRegistry. logger may be nil.
func NewActionRegistry(logger ports.Logger) *ActionRegistry {
	return &ActionRegistry{
		template: make(map[string]Action),
		logger:   logger,
	}
}

// Register stores template under its Name(). Registering the same name
// twice replaces the template and emits a debug diagnostic; the new
// registration takes effect for every subsequent Resolve call.
func (r *ActionRegistry) Register(template Action) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := template.Name()
	if _, exists := r.template[name]; exists {
		if r.logger != nil {
			r.logger.Debug(context.Background(), "action registration replaced", "action", name)
		}
	} else {
		r.order = append(r.order, name)
	}
	r.template[name] = template
}

// RegisterAs stores template under name regardless of template.Name(). A
// host uses this to register a per-step synthetic action — such as one
// step's resolved action wrapped in a RetryWrapper — without disturbing the
// plain registration other steps sharing that action name still resolve.
func (r *ActionRegistry) RegisterAs(name string, template Action) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.template[name]; !exists {
		r.order = append(r.order, name)
	}
	r.template[name] = template
}

// Resolve returns a fresh instance of the action registered under name, or
// false if no such action is registered.
func (r *ActionRegistry) Resolve(name string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	template, ok := r.template[name]
	if !ok {
		return nil, false
	}
	return cloneAction(template), true
}

// Names returns the registered action names in registration order.
func (r *ActionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Size returns the number of distinct registered action names.
func (r *ActionRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.template)
}

func cloneAction(template Action) Action {
	value := reflect.ValueOf(template)
	if value.Kind() != reflect.Ptr || !value.IsValid() {
		return template
	}
	clone := reflect.New(value.Type().Elem())
	clone.Elem().Set(value.Elem())
	if action, ok := clone.Interface().(Action); ok {
		return action
	}
	return template
}
