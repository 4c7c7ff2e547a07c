package corepipeline

import "time"

// ExecutionContext is the mutable runtime state of one pipeline run. It is
// created at Engine.Execute entry, mutated only by the Pipeline Executor and
// Action Executor on behalf of the step currently running, and consumed
// into an ExecutionResult at completion.
type ExecutionContext struct {
	PipelineKey string
	RunID       string
	Environment Environment

	Data    map[string]interface{}
	Steps   []StepResult
	Results map[string]interface{} // action name -> latest successful output, insertion order tracked below

	resultOrder []string

	CurrentStep *Step

	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
	Status     Status
}

// NewExecutionContext seeds a fresh context for one run.
func NewExecutionContext(pipelineKey string, env Environment, payload interface{}) *ExecutionContext {
	return &ExecutionContext{
		PipelineKey: pipelineKey,
		RunID:       GenerateID("run"),
		Environment: env,
		Data:        map[string]interface{}{"payload": payload},
		Steps:       nil,
		Results:     make(map[string]interface{}),
		StartedAt:   time.Now(),
	}
}

// AppendStepResult appends a StepResult to the step history. Appending is
// monotonic: once appended, a StepResult is never mutated or removed.
func (c *ExecutionContext) AppendStepResult(result StepResult) {
	c.Steps = append(c.Steps, result)
}

// UpsertResult records the latest successful output for an action name,
// preserving insertion order for LastResult.
func (c *ExecutionContext) UpsertResult(actionName string, output interface{}) {
	if _, exists := c.Results[actionName]; !exists {
		c.resultOrder = append(c.resultOrder, actionName)
	}
	c.Results[actionName] = output
}

// LastResult returns the most recently inserted entry of Results, in
// insertion order (not map iteration order, which Go leaves undefined).
func (c *ExecutionContext) LastResult() (string, interface{}, bool) {
	if len(c.resultOrder) == 0 {
		return "", nil, false
	}
	key := c.resultOrder[len(c.resultOrder)-1]
	return key, c.Results[key], true
}

// Payload returns context.data["payload"], the initial input to the run.
func (c *ExecutionContext) Payload() interface{} {
	return c.Data["payload"]
}

// JSONDocument builds the standard context document the Value Resolver
// queries against:
//
//	{
//	  "payload":    <payload>,
//	  "<step_key>": { "output": <step result output> },  // per completed step
//	  "output":     <output of the most recently completed step>
//	}
func (c *ExecutionContext) JSONDocument() map[string]interface{} {
	doc := make(map[string]interface{}, len(c.Steps)+2)
	doc["payload"] = c.Payload()

	for _, step := range c.Steps {
		doc[step.StepKey] = map[string]interface{}{"output": step.Output}
	}

	if len(c.Steps) > 0 {
		doc["output"] = c.Steps[len(c.Steps)-1].Output
	}

	return doc
}

// ActionContext is the action-local context passed to an Action's Invoke
// method: the step key, the mapped input, the step's raw
// params, and (after a successful invocation) the result slot hooks can
// read from.
type ActionContext struct {
	StepKey string
	Input   interface{}
	Params  interface{}
	Result  interface{}
}

// NewActionContext constructs an ActionContext for one step invocation.
func NewActionContext(stepKey string, input interface{}) *ActionContext {
	return &ActionContext{StepKey: stepKey, Input: input}
}

// SetResult mirrors a successful invocation's JSON form into the
// action-local context so hooks reading ctx.Result see it.
func (a *ActionContext) SetResult(result interface{}) {
	a.Result = result
}
