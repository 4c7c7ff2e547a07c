package varsub

import (
	"strings"

	"github.com/fluxionhq/fluxion/internal/config"
)

const secretPrefix = "secret:$"

// Substitute walks every step's config and params in def, replacing
// "$NAME" and "secret:$NAME" string leaves via resolver. The "secret:"
// prefix survives substitution on the resolved value so a masker can find
// it later; the "$." prefix is left untouched since it belongs to the
// core's JSON-path templating, not this host-side stage. It returns every
// secret value it resolved, for the caller to hand to a masker.
func Substitute(def *config.PipelineDefinition, resolver Resolver) []string {
	var secrets []string
	for i := range def.Steps {
		def.Steps[i].Config = resolveValue(def.Steps[i].Config, resolver, &secrets)
		def.Steps[i].Params = resolveValue(def.Steps[i].Params, resolver, &secrets)
	}
	return secrets
}

func resolveValue(v interface{}, resolver Resolver, secrets *[]string) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = resolveValue(val, resolver, secrets)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = resolveValue(val, resolver, secrets)
		}
		return out
	case string:
		return resolveString(t, resolver, secrets)
	default:
		return v
	}
}

func resolveString(s string, resolver Resolver, secrets *[]string) string {
	if strings.HasPrefix(s, secretPrefix) {
		name := strings.TrimSpace(strings.TrimPrefix(s, secretPrefix))
		val, ok := resolver.Resolve(name)
		if !ok {
			return s
		}
		*secrets = append(*secrets, val)
		return "secret:" + val
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "$.") {
		name := strings.TrimSpace(strings.TrimPrefix(s, "$"))
		if val, ok := resolver.Resolve(name); ok {
			return val
		}
		return s
	}

	return s
}
