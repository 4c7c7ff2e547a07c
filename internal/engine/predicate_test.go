package engine

import "testing"

func newTestEvaluator() *PredicateEvaluator {
	return NewPredicateEvaluator(NewValueResolver(nil))
}

func TestPredicateEvaluatorEquality(t *testing.T) {
	e := newTestEvaluator()
	doc := map[string]interface{}{"payload": map[string]interface{}{"status": "ok"}}

	if !e.Evaluate(`$.payload.status == "ok"`, doc) {
		t.Fatal("expected equality match")
	}
	if e.Evaluate(`$.payload.status == "fail"`, doc) {
		t.Fatal("expected equality mismatch")
	}
}

func TestPredicateEvaluatorNotEquals(t *testing.T) {
	e := newTestEvaluator()
	doc := map[string]interface{}{"payload": map[string]interface{}{"status": "ok"}}

	if !e.Evaluate(`$.payload.status != "fail"`, doc) {
		t.Fatal("expected inequality match")
	}
}

func TestPredicateEvaluatorOperatorOrderGreaterEqual(t *testing.T) {
	e := newTestEvaluator()
	doc := map[string]interface{}{"payload": map[string]interface{}{"n": float64(5)}}

	if !e.Evaluate(`$.payload.n >= 5`, doc) {
		t.Fatal("expected >= to match, not mis-split as >")
	}
	if e.Evaluate(`$.payload.n > 5`, doc) {
		t.Fatal("expected > to be false for equal values")
	}
}

func TestPredicateEvaluatorNumericComparisons(t *testing.T) {
	e := newTestEvaluator()
	doc := map[string]interface{}{"payload": map[string]interface{}{"n": float64(10)}}

	if !e.Evaluate(`$.payload.n > 5`, doc) {
		t.Fatal("expected 10 > 5")
	}
	if !e.Evaluate(`$.payload.n <= 10`, doc) {
		t.Fatal("expected 10 <= 10")
	}
	if e.Evaluate(`$.payload.n < 5`, doc) {
		t.Fatal("expected 10 < 5 to be false")
	}
}

func TestPredicateEvaluatorNonNumericComparisonIsFalse(t *testing.T) {
	e := newTestEvaluator()
	doc := map[string]interface{}{"payload": map[string]interface{}{"label": "alice"}}

	if e.Evaluate(`$.payload.label > 5`, doc) {
		t.Fatal("expected non-numeric comparison to be false, not an error")
	}
}

func TestPredicateEvaluatorNoOperatorFails(t *testing.T) {
	e := newTestEvaluator()
	if e.Evaluate(`$.payload.status`, map[string]interface{}{}) {
		t.Fatal("expected expression with no operator to evaluate false")
	}
}

func TestPredicateEvaluatorStructuralEqualityOnObjects(t *testing.T) {
	e := newTestEvaluator()
	doc := map[string]interface{}{"payload": map[string]interface{}{"obj": map[string]interface{}{"a": float64(1)}}}

	if !e.Evaluate(`$.payload.obj == {"a": 1}`, doc) {
		t.Fatal("expected structural equality for equivalent objects")
	}
}
