package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

func TestNewModelInitializesState(t *testing.T) {
	t.Parallel()

	m := NewModel("deploy", []string{"build", "ship"})

	require.Equal(t, "deploy", m.pipelineKey)
	require.Equal(t, 2, m.total)
	require.False(t, m.finished)
	require.Zero(t, m.completed)
	require.Equal(t, StatusPending, m.steps["build"].Status)
}

func TestModelInitReturnsTickCommand(t *testing.T) {
	t.Parallel()

	m := NewModel("deploy", nil)
	cmd := m.Init()
	require.NotNil(t, cmd)
	require.NotNil(t, cmd())
}

func TestModelTracksStepLifecycle(t *testing.T) {
	t.Parallel()

	m := NewModel("deploy", []string{"build"})

	updated, _ := m.Update(StepEventMsg{Kind: "step.started", StepKey: "build"})
	m = updated.(Model)
	require.Equal(t, StatusRunning, m.steps["build"].Status)

	updated, _ = m.Update(StepEventMsg{Kind: "step.completed", StepKey: "build"})
	m = updated.(Model)
	require.Equal(t, corepipeline.StatusSuccess, m.steps["build"].Status)
	require.Equal(t, 1, m.completed)
	require.True(t, m.finished)
}

func TestModelTracksStepFailure(t *testing.T) {
	t.Parallel()

	m := NewModel("deploy", []string{"build"})

	updated, _ := m.Update(StepEventMsg{Kind: "step.failed", StepKey: "build", Message: "boom"})
	m = updated.(Model)
	require.Equal(t, corepipeline.StatusFailed, m.steps["build"].Status)
	require.Len(t, m.errors, 1)
	require.Equal(t, "boom", m.errors[0].Message)
}

func TestModelTracksPipelineCancellation(t *testing.T) {
	t.Parallel()

	m := NewModel("deploy", []string{"build"})

	updated, _ := m.Update(PipelineEventMsg{Kind: "pipeline.canceled"})
	m = updated.(Model)
	require.True(t, m.canceled)
	require.True(t, m.finished)
}

func TestModelStepsNotSeedUpFrontAreDiscoveredLazily(t *testing.T) {
	t.Parallel()

	m := NewModel("deploy", nil)
	require.Zero(t, m.total)

	updated, _ := m.Update(StepEventMsg{Kind: "step.started", StepKey: "ad-hoc"})
	m = updated.(Model)
	require.Equal(t, 1, m.total)
}
