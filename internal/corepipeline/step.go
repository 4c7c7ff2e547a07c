package corepipeline

// RetryPolicy is reserved by the core (never enforced here) and consumed by
// a host wrapping the resolved action with engine.RetryWrapper before a run.
type RetryPolicy struct {
	MaxAttempts uint32
	DelayMS     uint64
}

// HookSpec is reserved by the core and consumed by a host that attaches
// named hooks to a specific action instance via engine.HookWrapper.
type HookSpec struct {
	Type   string
	Params interface{}
}

// NextWhen pairs a routing predicate (evaluated by the Predicate Evaluator)
// with the step key to route to when it matches true.
type NextWhen struct {
	When string
	Next string
}

// Step is a node in a Pipeline: it binds an action name to configuration,
// per-invocation parameters, and routing edges to other steps by key.
type Step struct {
	Key       string
	Action    string
	Config    interface{}
	Params    interface{}
	Next      string
	NextWhen  []NextWhen
	Otherwise string
	OnError   string
	Retry     *RetryPolicy
	Hooks     []HookSpec
}

// Validate checks the step's own fields in isolation; cross-step reference
// validation happens at Pipeline construction (see NewPipeline).
func (s Step) Validate() error {
	if s.Key == "" {
		return newMissingFieldError("key")
	}
	if s.Action == "" {
		return newMissingFieldError("action").WithContext(map[string]interface{}{"step_key": s.Key})
	}
	return nil
}

// references returns every step key this step points to, paired with the
// field name that referenced it, for dangling-reference validation.
func (s Step) references() []struct{ field, key string } {
	refs := make([]struct{ field, key string }, 0, len(s.NextWhen)+3)
	if s.Next != "" {
		refs = append(refs, struct{ field, key string }{"next", s.Next})
	}
	for _, nw := range s.NextWhen {
		refs = append(refs, struct{ field, key string }{"next_when.next", nw.Next})
	}
	if s.Otherwise != "" {
		refs = append(refs, struct{ field, key string }{"otherwise", s.Otherwise})
	}
	if s.OnError != "" {
		refs = append(refs, struct{ field, key string }{"on_error", s.OnError})
	}
	return refs
}
