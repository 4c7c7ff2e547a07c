// Package tui implements the live dashboard rendered by the watch command:
// a Bubbletea program that consumes engine.DashboardEvent notifications and
// renders step progress as a pipeline run advances.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/tui/components"
)

// Two non-terminal statuses the core never produces but the dashboard needs
// to distinguish a step that hasn't started from one currently running.
const (
	StatusPending corepipeline.Status = "pending"
	StatusRunning corepipeline.Status = "running"
)

// StepEventMsg adapts an engine.DashboardEvent into a Bubbletea message.
type StepEventMsg struct {
	Kind    string
	StepKey string
	Message string
}

// PipelineEventMsg adapts a pipeline-level engine.DashboardEvent.
type PipelineEventMsg struct {
	Kind    string
	RunID   string
	Message string
}

type tickMsg struct{}

// Model is the Bubbletea state for a pipeline run dashboard.
type Model struct {
	pipelineKey string
	steps       map[string]corepipeline.StepResult
	order       []string
	errors      []components.StepError
	total       int
	completed   int
	finished    bool
	canceled    bool
}

// NewModel constructs a dashboard model for the named pipeline, seeded with
// every step key known up front (in pipeline definition order) so the
// progress bar's denominator is correct before the first event arrives.
func NewModel(pipelineKey string, stepKeys []string) Model {
	m := Model{
		pipelineKey: pipelineKey,
		steps:       make(map[string]corepipeline.StepResult, len(stepKeys)),
		order:       make([]string, 0, len(stepKeys)),
	}
	for _, key := range stepKeys {
		m.ensureStep(key)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// TotalSteps returns the number of steps tracked by the model.
func (m Model) TotalSteps() int {
	return m.total
}

// CompletedSteps returns the number of steps that have reached a terminal
// status.
func (m Model) CompletedSteps() int {
	return m.completed
}

// IsFinished reports whether the run has reached a terminal state.
func (m Model) IsFinished() bool {
	return m.finished
}

func (m *Model) ensureStep(key string) {
	if key == "" {
		return
	}
	if _, exists := m.steps[key]; !exists {
		m.steps[key] = corepipeline.StepResult{StepKey: key, Status: StatusPending}
		m.order = append(m.order, key)
		m.total++
	}
}

func (m *Model) markFinishedIfComplete() {
	if m.total > 0 && m.completed >= m.total {
		m.finished = true
	}
}
