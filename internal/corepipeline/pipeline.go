package corepipeline

// Pipeline is a named, ordered collection of Steps. The first step is the
// entry point. A Pipeline is immutable once constructed: NewPipeline is the
// only way to build one, and construction validates every invariant in
// spec section 3 up front so the executor never has to.
type Pipeline struct {
	Key      string
	Metadata PipelineMetadata
	steps    []Step
	byKey    map[string]int
}

// NewPipeline validates and constructs a Pipeline. It rejects an empty key,
// an empty step list, any step with an empty action, duplicate step keys,
// and any next/next_when/otherwise/on_error reference to an undefined step
// key.
func NewPipeline(key string, metadata PipelineMetadata, steps []Step) (*Pipeline, error) {
	if key == "" {
		return nil, newMissingFieldError("key")
	}
	if len(steps) == 0 {
		return nil, newValidationError("pipeline requires at least one step", map[string]interface{}{"pipeline_key": key})
	}

	byKey := make(map[string]int, len(steps))
	for i, step := range steps {
		if err := step.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byKey[step.Key]; dup {
			return nil, newDuplicateError(step.Key)
		}
		byKey[step.Key] = i
	}

	for _, step := range steps {
		for _, ref := range step.references() {
			if _, ok := byKey[ref.key]; !ok {
				return nil, newDanglingReferenceError(ref.field, step.Key, ref.key)
			}
		}
	}

	stored := make([]Step, len(steps))
	copy(stored, steps)

	return &Pipeline{Key: key, Metadata: metadata, steps: stored, byKey: byKey}, nil
}

// Steps returns the pipeline's steps in definition order. The slice is a
// defensive copy; mutating it does not affect the Pipeline.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// EntryKey returns the key of the first step, the run's starting point.
func (p *Pipeline) EntryKey() string {
	return p.steps[0].Key
}

// StepByKey looks up a step by key. The second return value is false when
// no such step exists.
func (p *Pipeline) StepByKey(key string) (Step, bool) {
	idx, ok := p.byKey[key]
	if !ok {
		return Step{}, false
	}
	return p.steps[idx], true
}

// Len returns the number of steps in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.steps)
}
