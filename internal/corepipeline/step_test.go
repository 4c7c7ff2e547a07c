package corepipeline

import "testing"

func TestStepValidate(t *testing.T) {
	if err := (Step{Key: "a", Action: "noop"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Step{Action: "noop"}).Validate(); err == nil {
		t.Fatal("expected error for empty key")
	}
	if err := (Step{Key: "a"}).Validate(); err == nil {
		t.Fatal("expected error for empty action")
	}
}

func TestStepReferences(t *testing.T) {
	s := Step{
		Key:       "a",
		Action:    "noop",
		Next:      "b",
		NextWhen:  []NextWhen{{When: "$.x == 1", Next: "c"}},
		Otherwise: "d",
		OnError:   "e",
	}
	refs := s.references()
	if len(refs) != 4 {
		t.Fatalf("expected 4 references, got %d", len(refs))
	}
}
