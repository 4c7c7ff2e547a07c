package corepipeline

import (
	"errors"
	"testing"
)

func TestNewPipelineValid(t *testing.T) {
	p, err := NewPipeline("demo", PipelineMetadata{}, []Step{
		{Key: "a", Action: "noop", Next: "b"},
		{Key: "b", Action: "noop"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.EntryKey() != "a" {
		t.Fatalf("expected entry key a, got %s", p.EntryKey())
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 steps, got %d", p.Len())
	}
}

func TestNewPipelineRejectsEmptySteps(t *testing.T) {
	_, err := NewPipeline("demo", PipelineMetadata{}, nil)
	if err == nil {
		t.Fatal("expected error for empty steps")
	}
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewPipelineRejectsEmptyAction(t *testing.T) {
	_, err := NewPipeline("demo", PipelineMetadata{}, []Step{{Key: "a"}})
	if err == nil {
		t.Fatal("expected error for empty action")
	}
}

func TestNewPipelineRejectsDuplicateKeys(t *testing.T) {
	_, err := NewPipeline("demo", PipelineMetadata{}, []Step{
		{Key: "a", Action: "noop"},
		{Key: "a", Action: "noop"},
	})
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeValidation {
		t.Fatalf("expected validation domain error, got %v", err)
	}
}

func TestNewPipelineRejectsDanglingReferences(t *testing.T) {
	cases := []Step{
		{Key: "a", Action: "noop", Next: "missing"},
	}
	if _, err := NewPipeline("demo", PipelineMetadata{}, cases); err == nil {
		t.Fatal("expected dangling next reference error")
	}

	cases = []Step{
		{Key: "a", Action: "noop", NextWhen: []NextWhen{{When: "$.x == 1", Next: "missing"}}},
	}
	if _, err := NewPipeline("demo", PipelineMetadata{}, cases); err == nil {
		t.Fatal("expected dangling next_when reference error")
	}

	cases = []Step{
		{Key: "a", Action: "noop", Otherwise: "missing"},
	}
	if _, err := NewPipeline("demo", PipelineMetadata{}, cases); err == nil {
		t.Fatal("expected dangling otherwise reference error")
	}

	cases = []Step{
		{Key: "a", Action: "noop", OnError: "missing"},
	}
	if _, err := NewPipeline("demo", PipelineMetadata{}, cases); err == nil {
		t.Fatal("expected dangling on_error reference error")
	}
}

func TestPipelineStepByKey(t *testing.T) {
	p, err := NewPipeline("demo", PipelineMetadata{}, []Step{{Key: "a", Action: "noop"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	step, ok := p.StepByKey("a")
	if !ok || step.Action != "noop" {
		t.Fatalf("expected to find step a, got %+v ok=%v", step, ok)
	}
	if _, ok := p.StepByKey("missing"); ok {
		t.Fatal("expected missing step to not be found")
	}
}

func TestPipelineStepsIsDefensiveCopy(t *testing.T) {
	p, err := NewPipeline("demo", PipelineMetadata{}, []Step{{Key: "a", Action: "noop"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	steps := p.Steps()
	steps[0].Action = "mutated"

	original, _ := p.StepByKey("a")
	if original.Action != "noop" {
		t.Fatalf("expected pipeline internal state untouched, got %s", original.Action)
	}
}
