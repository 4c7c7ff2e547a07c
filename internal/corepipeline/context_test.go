package corepipeline

import "testing"

func TestExecutionContextJSONDocument(t *testing.T) {
	ctx := NewExecutionContext("demo", Environment{Name: "test"}, map[string]interface{}{"x": 1})
	ctx.AppendStepResult(StepResult{StepKey: "a", Output: map[string]interface{}{"ok": true}})

	doc := ctx.JSONDocument()

	if doc["payload"].(map[string]interface{})["x"] != 1 {
		t.Fatalf("expected payload to be carried through, got %v", doc["payload"])
	}
	stepDoc, ok := doc["a"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected step entry for a, got %v", doc["a"])
	}
	if stepDoc["output"].(map[string]interface{})["ok"] != true {
		t.Fatalf("expected step output surfaced, got %v", stepDoc)
	}
	if doc["output"].(map[string]interface{})["ok"] != true {
		t.Fatalf("expected most recent output shortcut, got %v", doc["output"])
	}
}

func TestExecutionContextLastResultOrder(t *testing.T) {
	ctx := NewExecutionContext("demo", Environment{}, nil)
	if _, _, ok := ctx.LastResult(); ok {
		t.Fatal("expected no result initially")
	}

	ctx.UpsertResult("first", 1)
	ctx.UpsertResult("second", 2)
	ctx.UpsertResult("first", 3)

	key, value, ok := ctx.LastResult()
	if !ok || key != "second" || value != 2 {
		t.Fatalf("expected second/2 as last result, got %s/%v ok=%v", key, value, ok)
	}
}

func TestExecutionContextPayloadDefault(t *testing.T) {
	ctx := NewExecutionContext("demo", Environment{}, nil)
	if ctx.Payload() != nil {
		t.Fatalf("expected nil payload, got %v", ctx.Payload())
	}
}
