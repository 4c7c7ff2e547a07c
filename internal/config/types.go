// Package config loads pipeline definitions from YAML or JSON files into
// DTOs, validates their shape, and converts them into an immutable
// corepipeline.Pipeline.
package config

// PipelineDefinition is the on-disk shape of a pipeline: a key, optional
// descriptive metadata the core ignores, and an ordered list of steps.
type PipelineDefinition struct {
	Key         string           `yaml:"key" json:"key" validate:"required"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string           `yaml:"version,omitempty" json:"version,omitempty"`
	Steps       []StepDefinition `yaml:"steps" json:"steps" validate:"required,min=1,dive"`
}

// NextWhenDefinition pairs a routing predicate with the step key to route to.
type NextWhenDefinition struct {
	When string `yaml:"when" json:"when" validate:"required"`
	Next string `yaml:"next" json:"next" validate:"required"`
}

// RetryDefinition is reserved for a host's retry-wrapping step; the core
// never enforces it.
type RetryDefinition struct {
	MaxAttempts uint32 `yaml:"max_attempts" json:"max_attempts"`
	DelayMS     uint64 `yaml:"delay_ms" json:"delay_ms"`
}

// HookDefinition is reserved for a host's hook-attaching step; the core
// never enforces it.
type HookDefinition struct {
	Type   string      `yaml:"type" json:"type" validate:"required"`
	Params interface{} `yaml:"params,omitempty" json:"params,omitempty"`
}

// StepDefinition is the on-disk shape of one step: an action binding plus
// its configuration, parameters, and routing edges.
type StepDefinition struct {
	Key       string               `yaml:"key" json:"key" validate:"required,step_key"`
	Action    string               `yaml:"action" json:"action" validate:"required"`
	Config    interface{}          `yaml:"config,omitempty" json:"config,omitempty"`
	Params    interface{}          `yaml:"params,omitempty" json:"params,omitempty"`
	Next      string               `yaml:"next,omitempty" json:"next,omitempty"`
	NextWhen  []NextWhenDefinition `yaml:"next_when,omitempty" json:"next_when,omitempty" validate:"dive"`
	Otherwise string               `yaml:"otherwise,omitempty" json:"otherwise,omitempty"`
	OnError   string               `yaml:"on_error,omitempty" json:"on_error,omitempty"`
	Retry     *RetryDefinition     `yaml:"retry,omitempty" json:"retry,omitempty"`
	Hooks     []HookDefinition     `yaml:"hooks,omitempty" json:"hooks,omitempty" validate:"dive"`
}
