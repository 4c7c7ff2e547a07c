package config

import (
	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// ToPipeline converts a validated PipelineDefinition into an immutable
// corepipeline.Pipeline. corepipeline.NewPipeline performs the second
// validation pass: dangling next/next_when/otherwise/on_error references,
// which struct tags cannot express, are caught here.
func ToPipeline(def *PipelineDefinition) (*corepipeline.Pipeline, error) {
	steps := make([]corepipeline.Step, 0, len(def.Steps))
	for _, sd := range def.Steps {
		steps = append(steps, toStep(sd))
	}

	metadata := corepipeline.PipelineMetadata{
		Description: def.Description,
		Version:     def.Version,
	}

	return corepipeline.NewPipeline(def.Key, metadata, steps)
}

func toStep(sd StepDefinition) corepipeline.Step {
	step := corepipeline.Step{
		Key:       sd.Key,
		Action:    sd.Action,
		Config:    orEmptyObject(sd.Config),
		Params:    orEmptyObject(sd.Params),
		Next:      sd.Next,
		Otherwise: sd.Otherwise,
		OnError:   sd.OnError,
	}

	for _, nw := range sd.NextWhen {
		step.NextWhen = append(step.NextWhen, corepipeline.NextWhen{When: nw.When, Next: nw.Next})
	}

	if sd.Retry != nil {
		step.Retry = &corepipeline.RetryPolicy{
			MaxAttempts: sd.Retry.MaxAttempts,
			DelayMS:     sd.Retry.DelayMS,
		}
	}

	for _, hd := range sd.Hooks {
		step.Hooks = append(step.Hooks, corepipeline.HookSpec{Type: hd.Type, Params: hd.Params})
	}

	return step
}

func orEmptyObject(v interface{}) interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v
}
