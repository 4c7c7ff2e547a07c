package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// operatorOrder lists the supported comparison operators in the exact
// search order the predicate grammar requires: compound operators must be
// tried before their single-character prefixes, or ">=" would mis-split on
// ">".
var operatorOrder = []string{"==", "!=", ">=", "<=", ">", "<"}

// PredicateEvaluator evaluates "LHS OP RHS" expressions against a context
// document, resolving LHS through a ValueResolver first (C2).
type PredicateEvaluator struct {
	resolver *ValueResolver
}

// NewPredicateEvaluator constructs a PredicateEvaluator backed by resolver.
func NewPredicateEvaluator(resolver *ValueResolver) *PredicateEvaluator {
	return &PredicateEvaluator{resolver: resolver}
}

// Evaluate splits expr on the first matching operator (in operatorOrder),
// resolves the left-hand side against doc, parses the right-hand side as a
// JSON literal or bare string, and applies the operator. It returns false,
// never an error, for any input it cannot make sense of.
func (e *PredicateEvaluator) Evaluate(expr string, doc map[string]interface{}) bool {
	op, lhsRaw, rhsRaw, ok := splitOperator(expr)
	if !ok {
		return false
	}

	lhs := e.resolver.resolveString(strings.TrimSpace(lhsRaw), doc)
	rhs := parseOperand(strings.TrimSpace(rhsRaw))

	switch op {
	case "==":
		return structurallyEqual(lhs, rhs)
	case "!=":
		return !structurallyEqual(lhs, rhs)
	case ">=", "<=", ">", "<":
		lf, lok := toFloat(lhs)
		rf, rok := toFloat(rhs)
		if !lok || !rok {
			return false
		}
		switch op {
		case ">=":
			return lf >= rf
		case "<=":
			return lf <= rf
		case ">":
			return lf > rf
		case "<":
			return lf < rf
		}
	}
	return false
}

func splitOperator(expr string) (op, lhs, rhs string, ok bool) {
	for _, candidate := range operatorOrder {
		if idx := strings.Index(expr, candidate); idx >= 0 {
			return candidate, expr[:idx], expr[idx+len(candidate):], true
		}
	}
	return "", "", "", false
}

// parseOperand parses s as JSON when possible, falling back to a bare
// string with a single layer of matching quotes stripped.
func parseOperand(s string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func structurallyEqual(a, b interface{}) bool {
	aj, err1 := json.Marshal(a)
	bj, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return fmt.Sprint(a) == fmt.Sprint(b)
	}
	return string(aj) == string(bj)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
