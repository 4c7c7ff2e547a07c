package engine

import (
	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// InputMapper produces the JSON value handed to an action as invocation
// input, given the executing context and the step about to run (C3).
type InputMapper interface {
	Map(ctx *corepipeline.ExecutionContext, step corepipeline.Step) interface{}
}

// DefaultMapper returns the most recently produced result, falling back to
// the run's payload, falling back to an empty object.
type DefaultMapper struct{}

// NewDefaultMapper constructs a DefaultMapper.
func NewDefaultMapper() *DefaultMapper {
	return &DefaultMapper{}
}

func (m *DefaultMapper) Map(ctx *corepipeline.ExecutionContext, _ corepipeline.Step) interface{} {
	if _, output, ok := ctx.LastResult(); ok {
		return output
	}
	if payload := ctx.Payload(); payload != nil {
		return payload
	}
	return map[string]interface{}{}
}

// JSONPathMapper deep-clones the step's params and resolves them against
// the standard context document via the Value Resolver.
type JSONPathMapper struct {
	resolver *ValueResolver
}

// NewJSONPathMapper constructs a JSONPathMapper backed by resolver.
func NewJSONPathMapper(resolver *ValueResolver) *JSONPathMapper {
	return &JSONPathMapper{resolver: resolver}
}

func (m *JSONPathMapper) Map(ctx *corepipeline.ExecutionContext, step corepipeline.Step) interface{} {
	cloned := deepClone(step.Params)
	return m.resolver.Resolve(cloned, ctx.JSONDocument())
}

// deepClone produces a structurally independent copy of a decoded JSON
// value (map[string]interface{} / []interface{} / scalars), so resolution
// never mutates the step definition it was derived from.
func deepClone(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, child := range v {
			out[k] = deepClone(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = deepClone(child)
		}
		return out
	default:
		return value
	}
}
