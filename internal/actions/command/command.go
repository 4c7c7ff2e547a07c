// Package command implements a shell-command Action: spec's example of an
// Action that runs an external program.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/fluxionhq/fluxion/internal/actions/internalexec"
	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// Config is the shell-command action's configuration, as decoded from a
// step's resolved config object.
type Config struct {
	Command string            `json:"command"`
	Shell   string            `json:"shell,omitempty"`
	WorkDir string            `json:"work_dir,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Action runs cfg.Command through a shell, streaming its output to the
// host process and returning stdout/stderr as the step's output.
type Action struct {
	cfg Config
}

// New constructs a fresh, unconfigured command Action. Registered as a
// template with an engine.ActionRegistry; Resolve clones one per step.
func New() *Action {
	return &Action{}
}

func (a *Action) Name() string {
	return "command"
}

func (a *Action) Configure(_ context.Context, config interface{}) error {
	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("command: marshal config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("command: decode config: %w", err)
	}
	if cfg.Command == "" {
		return fmt.Errorf("command: config.command is required")
	}

	a.cfg = cfg
	return nil
}

func (a *Action) Invoke(_ *corepipeline.ActionContext) (interface{}, error) {
	shell, shellArgs, err := determineShell(a.cfg.Shell)
	if err != nil {
		return nil, err
	}

	args := append(shellArgs, a.cfg.Command)
	cmd := exec.Command(shell, args...)
	cmd.Env = buildEnv(a.cfg.Env)
	if a.cfg.WorkDir != "" {
		cmd.Dir = a.cfg.WorkDir
	}

	streamed, err := internalexec.RunStreaming(cmd)
	if err != nil {
		combined := internalexec.PrimaryOutput(streamed)
		if combined != "" {
			return nil, fmt.Errorf("%w: %s", err, combined)
		}
		return nil, err
	}

	return map[string]interface{}{
		"stdout": streamed.Stdout,
		"stderr": streamed.Stderr,
	}, nil
}

func determineShell(explicit string) (string, []string, error) {
	if explicit != "" {
		return explicit, []string{"-c"}, nil
	}

	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}, nil
	}
	if path, err := exec.LookPath("bash"); err == nil {
		return path, []string{"-c"}, nil
	}
	if path, err := exec.LookPath("sh"); err == nil {
		return path, []string{"-c"}, nil
	}
	return "", nil, fmt.Errorf("command: no suitable shell found")
}

func buildEnv(custom map[string]string) []string {
	env := os.Environ()
	for k, v := range custom {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
