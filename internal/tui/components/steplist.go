package components

import (
	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// StepEntry represents a single step for rendering.
type StepEntry struct {
	Key    string
	Result corepipeline.StepResult
}

// StepList renders a list of steps with their current status.
type StepList struct {
	entries []StepEntry
}

// NewStepList constructs a step list component. order is the display
// order of step keys; steps maps a step key to its latest known result.
func NewStepList(order []string, steps map[string]corepipeline.StepResult) StepList {
	entries := make([]StepEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, StepEntry{Key: key, Result: steps[key]})
	}
	return StepList{entries: entries}
}

// Entries returns the ordered step entries.
func (s StepList) Entries() []StepEntry {
	clone := make([]StepEntry, len(s.entries))
	copy(clone, s.entries)
	return clone
}
