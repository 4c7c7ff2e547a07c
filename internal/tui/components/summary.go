package components

import (
	"fmt"
	"strings"
)

// StepError records one failed step's message for summary rendering.
type StepError struct {
	StepKey string
	Message string
}

// SummaryData aggregates counts for rendering a run summary.
type SummaryData struct {
	Total     int
	Completed int
	Finished  bool
	Canceled  bool
	Errors    []StepError
}

// Summary renders a textual execution summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	var lines []string
	if s.data.Total > 0 {
		lines = append(lines, fmt.Sprintf("Steps: %d/%d completed", s.data.Completed, s.data.Total))
	}

	if s.data.Canceled {
		lines = append(lines, "Execution canceled")
	} else if s.data.Finished && s.data.Total > 0 {
		if s.data.Completed == s.data.Total {
			lines = append(lines, "Execution finished successfully")
		} else {
			lines = append(lines, "Execution finished with pending steps")
		}
	}

	if len(s.data.Errors) > 0 {
		lines = append(lines, "Errors:")
		for _, e := range s.data.Errors {
			lines = append(lines, fmt.Sprintf("  ✗ %s: %s", e.StepKey, e.Message))
		}
	}

	return strings.Join(lines, "\n")
}
