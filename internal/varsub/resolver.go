// Package varsub implements the host-side "$NAME" / "secret:$NAME"
// variable substitution applied to a pipeline definition before it is
// converted into a corepipeline.Pipeline. It is distinct from and runs
// before the core's JSON-path templating (internal/engine's ValueResolver),
// which uses the unrelated "$." prefix against the live execution context.
package varsub

import "os"

// Resolver looks up a named variable's value. Resolve's second return value
// is false when the name is unknown; callers leave the placeholder
// unresolved in that case rather than erroring.
type Resolver interface {
	Resolve(name string) (string, bool)
	IsSecret(name string) bool
}

// EnvResolver resolves names against process environment variables.
type EnvResolver struct{}

func (EnvResolver) Resolve(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (EnvResolver) IsSecret(string) bool {
	return false
}

// ChainResolver tries each resolver in order, returning the first hit.
type ChainResolver struct {
	resolvers []Resolver
}

// NewChainResolver builds a ChainResolver trying sources in the given order.
func NewChainResolver(sources ...Resolver) ChainResolver {
	return ChainResolver{resolvers: sources}
}

func (c ChainResolver) Resolve(name string) (string, bool) {
	for _, r := range c.resolvers {
		if v, ok := r.Resolve(name); ok {
			return v, true
		}
	}
	return "", false
}

func (c ChainResolver) IsSecret(name string) bool {
	for _, r := range c.resolvers {
		if r.IsSecret(name) {
			return true
		}
	}
	return false
}

// StaticResolver resolves from a fixed map, useful for tests and for
// callers that already have variables in hand (e.g. a loaded vars file).
type StaticResolver struct {
	Values  map[string]string
	Secrets map[string]bool
}

func (s StaticResolver) Resolve(name string) (string, bool) {
	v, ok := s.Values[name]
	return v, ok
}

func (s StaticResolver) IsSecret(name string) bool {
	return s.Secrets[name]
}
