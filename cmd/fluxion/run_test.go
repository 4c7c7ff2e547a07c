package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxionhq/fluxion/internal/statestore"
)

func TestRunCommandExecutesPipelineNonInteractively(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-dependent test")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validPipelineYAML), 0o644))

	store := statestore.NewMemoryStore()
	app := &AppContext{Store: store}
	root := newRootCmd(app)
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"run", "--config", path})

	require.NoError(t, root.Execute())
}

func TestRunCommandSurfacesConfigErrors(t *testing.T) {
	app := &AppContext{Store: statestore.NewMemoryStore()}
	root := newRootCmd(app)
	root.SetArgs([]string{"run", "--config", "/no/such/pipeline.yaml"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.Error(t, root.Execute())
}
