package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
	"github.com/fluxionhq/fluxion/internal/engine"
	"github.com/fluxionhq/fluxion/internal/logger"
	"github.com/fluxionhq/fluxion/internal/ports"
	"github.com/fluxionhq/fluxion/internal/statestore"
	"github.com/fluxionhq/fluxion/internal/varsub"
)

// flakyTestAction fails failuresLeft times before it starts succeeding,
// used to exercise the host's retry-wrapping of a step's resolved action.
type flakyTestAction struct {
	failuresLeft int
	invocations  int
}

func (a *flakyTestAction) Name() string { return "flaky" }

func (a *flakyTestAction) Configure(_ context.Context, _ interface{}) error { return nil }

func (a *flakyTestAction) Invoke(_ *corepipeline.ActionContext) (interface{}, error) {
	a.invocations++
	if a.failuresLeft > 0 {
		a.failuresLeft--
		return nil, errors.New("flaky failure")
	}
	return "ok", nil
}

const samplePipelineYAML = `
key: deploy
steps:
  - key: build
    action: command
    config:
      command: echo "token=$API_TOKEN"
    next: ship
  - key: ship
    action: command
    config:
      command: echo shipping
`

func writePipeline(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadSubstitutesHostVariablesAndCollectsSecrets(t *testing.T) {
	path := writePipeline(t, samplePipelineYAML)
	resolver := varsub.StaticResolver{
		Values:  map[string]string{"API_TOKEN": "xyz"},
		Secrets: map[string]bool{"API_TOKEN": false},
	}

	loaded, err := Load(path, resolver)
	require.NoError(t, err)
	require.Equal(t, "deploy", loaded.Pipeline.Key)
	require.False(t, loaded.Masker.HasSecrets())
}

func TestLoadRejectsMissingFile(t *testing.T) {
	resolver := varsub.StaticResolver{}
	_, err := Load("/no/such/pipeline.yaml", resolver)
	require.Error(t, err)
}

func TestNewHostExecutesPipelineAndRecordsState(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-dependent test")
	}

	path := writePipeline(t, samplePipelineYAML)
	resolver := varsub.StaticResolver{Values: map[string]string{"API_TOKEN": "xyz"}}
	loaded, err := Load(path, resolver)
	require.NoError(t, err)

	store := statestore.NewMemoryStore()
	host := NewHost(nil, store)

	result, err := host.Execute(context.Background(), loaded.Pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
	})
	require.NoError(t, err)
	require.Equal(t, corepipeline.StatusSuccess, result.Status)

	saved, ok, err := store.LoadResult(context.Background(), result.RunID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, result.RunID, saved.RunID)
}

func TestExecuteWritesHumanReadableRunLog(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-dependent test")
	}

	path := writePipeline(t, samplePipelineYAML)
	resolver := varsub.StaticResolver{Values: map[string]string{"API_TOKEN": "xyz"}}
	loaded, err := Load(path, resolver)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	runLog, err := logger.New(logger.Options{Level: "info", HumanReadable: true, Writer: buf})
	require.NoError(t, err)

	host := NewHost(nil, statestore.NewMemoryStore())
	_, err = host.Execute(context.Background(), loaded.Pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
		RunLogger:   runLog,
	})
	require.NoError(t, err)

	require.Contains(t, buf.String(), "pipeline starting")
	require.Contains(t, buf.String(), "pipeline finished")
}

func TestExecuteAppliesHostSideRetryPolicy(t *testing.T) {
	pipeline, err := corepipeline.NewPipeline("demo", corepipeline.PipelineMetadata{}, []corepipeline.Step{
		{Key: "a", Action: "flaky", Retry: &corepipeline.RetryPolicy{MaxAttempts: 2}},
	})
	require.NoError(t, err)

	host := NewHost(nil, statestore.NewMemoryStore(), WithAction(&flakyTestAction{failuresLeft: 2}))
	result, err := host.Execute(context.Background(), pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
	})
	require.NoError(t, err)
	require.Equal(t, corepipeline.StatusSuccess, result.Status)
}

func TestExecuteSurfacesFailureAfterHostRetriesExhausted(t *testing.T) {
	pipeline, err := corepipeline.NewPipeline("demo", corepipeline.PipelineMetadata{}, []corepipeline.Step{
		{Key: "a", Action: "flaky", Retry: &corepipeline.RetryPolicy{MaxAttempts: 1}},
	})
	require.NoError(t, err)

	host := NewHost(nil, statestore.NewMemoryStore(), WithAction(&flakyTestAction{failuresLeft: 5}))
	result, err := host.Execute(context.Background(), pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
	})
	require.NoError(t, err)
	require.Equal(t, corepipeline.StatusFailed, result.Status)
}

func TestExecuteLeavesPlainActionRegistrationUsableByOtherSteps(t *testing.T) {
	pipeline, err := corepipeline.NewPipeline("demo", corepipeline.PipelineMetadata{}, []corepipeline.Step{
		{Key: "retried", Action: "flaky", Retry: &corepipeline.RetryPolicy{MaxAttempts: 3}, Next: "plain"},
		{Key: "plain", Action: "flaky"},
	})
	require.NoError(t, err)

	host := NewHost(nil, statestore.NewMemoryStore(), WithAction(&flakyTestAction{failuresLeft: 1}))
	result, err := host.Execute(context.Background(), pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
	})
	require.NoError(t, err)
	require.Equal(t, corepipeline.StatusFailed, result.Status)
	require.Len(t, result.Steps, 2, "the retried step recovers and routes to the plain step, which has no retry and fails")
}

func TestExecuteAttachesHookFromHookSpec(t *testing.T) {
	var order []string
	pipeline, err := corepipeline.NewPipeline("demo", corepipeline.PipelineMetadata{}, []corepipeline.Step{
		{Key: "a", Action: "flaky", Hooks: []corepipeline.HookSpec{{Type: "recording"}}},
	})
	require.NoError(t, err)

	host := NewHost(nil, statestore.NewMemoryStore(),
		WithAction(&flakyTestAction{}),
		WithHookFactory("recording", func(_ interface{}) (engine.ActionHook, error) {
			return &recordingHook{order: &order}, nil
		}),
	)
	result, err := host.Execute(context.Background(), pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
	})
	require.NoError(t, err)
	require.Equal(t, corepipeline.StatusSuccess, result.Status)
	require.Equal(t, []string{"before", "after"}, order)
}

func TestExecuteRejectsUnknownHookType(t *testing.T) {
	pipeline, err := corepipeline.NewPipeline("demo", corepipeline.PipelineMetadata{}, []corepipeline.Step{
		{Key: "a", Action: "flaky", Hooks: []corepipeline.HookSpec{{Type: "nonexistent"}}},
	})
	require.NoError(t, err)

	host := NewHost(nil, statestore.NewMemoryStore(), WithAction(&flakyTestAction{}))
	_, err = host.Execute(context.Background(), pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
	})
	require.Error(t, err)
}

type recordingHook struct {
	order *[]string
}

func (h *recordingHook) Before(_ *corepipeline.ActionContext)          { *h.order = append(*h.order, "before") }
func (h *recordingHook) After(_ *corepipeline.ActionContext)           { *h.order = append(*h.order, "after") }
func (h *recordingHook) OnError(_ *corepipeline.ActionContext, _ error) { *h.order = append(*h.order, "error") }

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, event ports.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.EventType())
	return nil
}

func (p *recordingPublisher) Subscribe(string, ports.EventHandler) (ports.Subscription, error) {
	return nil, nil
}

func TestExecutePublishesPipelineLifecycleEvents(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-dependent test")
	}

	path := writePipeline(t, samplePipelineYAML)
	resolver := varsub.StaticResolver{Values: map[string]string{"API_TOKEN": "xyz"}}
	loaded, err := Load(path, resolver)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	host := NewHost(nil, statestore.NewMemoryStore(), WithEventPublisher(publisher))

	_, err = host.Execute(context.Background(), loaded.Pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
	})
	require.NoError(t, err)

	require.Contains(t, publisher.events, ports.EventPipelineStarted)
	require.Contains(t, publisher.events, ports.EventPipelineCompleted)
	require.Contains(t, publisher.events, ports.EventStepStarted)
	require.Contains(t, publisher.events, ports.EventStepCompleted)
}

func TestExecuteToleratesNilRunLogger(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-dependent test")
	}

	path := writePipeline(t, samplePipelineYAML)
	resolver := varsub.StaticResolver{Values: map[string]string{"API_TOKEN": "xyz"}}
	loaded, err := Load(path, resolver)
	require.NoError(t, err)

	host := NewHost(nil, statestore.NewMemoryStore())
	result, err := host.Execute(context.Background(), loaded.Pipeline, RunOptions{
		Environment: corepipeline.Environment{Name: "test"},
	})
	require.NoError(t, err)
	require.Equal(t, corepipeline.StatusSuccess, result.Status)
}
