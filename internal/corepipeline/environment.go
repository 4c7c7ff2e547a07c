package corepipeline

// Environment describes where a pipeline run executes. It is always a
// configured value supplied by the host through the Engine Facade builder;
// the core never hardcodes one (see SPEC_FULL.md §9).
type Environment struct {
	Name     string
	Kind     string
	Metadata map[string]string
}

// String returns the environment's name, which is what routing predicates
// and log lines see when an Environment is interpolated as a string.
func (e Environment) String() string {
	return e.Name
}

// IsZero reports whether the environment was left unconfigured.
func (e Environment) IsZero() bool {
	return e.Name == "" && e.Kind == "" && len(e.Metadata) == 0
}

// PipelineMetadata carries descriptive fields the core ignores but hosts
// may want to surface (e.g. in a CLI or dashboard).
type PipelineMetadata struct {
	Description string
	Version     string
}
