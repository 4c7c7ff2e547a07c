// Package engine implements the pipeline execution engine's core
// components (C1-C10): the Value Resolver, Predicate Evaluator, Input
// Mapper, Action and Hook registries, Action and Pipeline executors, the
// Engine Facade, the Cancellation Listener, and the retry/hook wrappers.
package engine

import (
	"context"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/fluxionhq/fluxion/internal/ports"
)

// ValueResolver recursively walks a mutable JSON value, replacing string
// leaves that are JSON-path expressions with the value found at that path
// in a read-only context document (C1). It is a pure function of its
// inputs aside from diagnostic logging.
type ValueResolver struct {
	logger ports.Logger
}

// NewValueResolver constructs a ValueResolver. logger may be nil, in which
// case resolution errors are silently discarded rather than logged.
func NewValueResolver(logger ports.Logger) *ValueResolver {
	return &ValueResolver{logger: logger}
}

// Resolve mutates value in place, descending into maps and slices and
// substituting string leaves per the rules in spec section 4.1.
func (r *ValueResolver) Resolve(value interface{}, contextDoc map[string]interface{}) interface{} {
	return r.resolveValue(value, contextDoc)
}

func (r *ValueResolver) resolveValue(value interface{}, doc map[string]interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, child := range v {
			v[k] = r.resolveValue(child, doc)
		}
		return v
	case []interface{}:
		for i, child := range v {
			v[i] = r.resolveValue(child, doc)
		}
		return v
	case string:
		return r.resolveString(v, doc)
	default:
		return value
	}
}

func (r *ValueResolver) resolveString(s string, doc map[string]interface{}) interface{} {
	if stripped, ok := strings.CutPrefix(s, "$$."); ok {
		return "$." + stripped
	}

	expr, _ := strings.CutPrefix(s, "secret:")
	prefix := ""
	if expr != s {
		prefix = "secret:"
	}

	if !strings.HasPrefix(expr, "$.") {
		return s
	}

	result, err := jsonpath.Get(expr, map[string]interface{}(doc))
	if err != nil {
		if r.logger != nil {
			r.logger.Debug(context.Background(), "jsonpath resolution failed", "expr", expr, "error", err)
		}
		return s
	}

	value, found := firstMatch(result)
	if !found {
		return s
	}

	if prefix != "" {
		// secret: prefix is preserved through resolution so downstream
		// masking can still find it; only string results carry it forward,
		// mirroring the host-side substitution contract in spec section 6.
		if str, ok := value.(string); ok {
			return prefix + str
		}
	}

	return value
}

// firstMatch normalizes a jsonpath.Get result to the spec's "first match"
// rule: bracket/wildcard paths return a slice, plain paths return a scalar
// or composite value directly. found is false when the query yielded zero
// matches, in which case the caller must leave the original string alone.
func firstMatch(result interface{}) (value interface{}, found bool) {
	if list, ok := result.([]interface{}); ok {
		if len(list) == 0 {
			return nil, false
		}
		return list[0], true
	}
	return result, true
}
