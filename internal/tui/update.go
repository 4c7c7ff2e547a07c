package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/tui/components"
)

// Update handles Bubbletea messages and advances model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil

	case StepEventMsg:
		m.ensureStep(msg.StepKey)
		switch msg.Kind {
		case "step.started":
			step := m.steps[msg.StepKey]
			step.Status = StatusRunning
			m.steps[msg.StepKey] = step
		case "step.completed":
			step := m.steps[msg.StepKey]
			if step.Status != corepipeline.StatusSuccess {
				step.Status = corepipeline.StatusSuccess
				m.steps[msg.StepKey] = step
				m.completed++
				m.markFinishedIfComplete()
			}
		case "step.failed":
			step := m.steps[msg.StepKey]
			step.Status = corepipeline.StatusFailed
			step.Message = msg.Message
			m.steps[msg.StepKey] = step
			m.errors = append(m.errors, components.StepError{StepKey: msg.StepKey, Message: msg.Message})
			m.completed++
			m.markFinishedIfComplete()
		}
		return m, nil

	case PipelineEventMsg:
		switch msg.Kind {
		case "pipeline.completed":
			m.finished = true
		case "pipeline.failed":
			m.finished = true
			if msg.Message != "" {
				m.errors = append(m.errors, components.StepError{StepKey: m.pipelineKey, Message: msg.Message})
			}
		case "pipeline.canceled":
			m.finished = true
			m.canceled = true
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.canceled = true
			m.finished = true
			return m, nil
		}

	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
