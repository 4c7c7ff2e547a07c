package gitaction

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

var testAuthor = object.Signature{
	Name:  "Test Author",
	Email: "test@example.com",
	When:  time.Unix(1700000000, 0),
}

func newSourceRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	filePath := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(filePath, []byte("hello"), 0o600))
	_, err = worktree.Add("README.md")
	require.NoError(t, err)

	_, err = worktree.Commit("initial commit", &git.CommitOptions{
		Author: &testAuthor,
	})
	require.NoError(t, err)

	return dir
}

func TestActionNameIsGitClone(t *testing.T) {
	t.Parallel()
	require.Equal(t, "git-clone", New().Name())
}

func TestConfigureRejectsMissingURL(t *testing.T) {
	t.Parallel()

	err := New().Configure(context.Background(), map[string]interface{}{"destination": "/tmp/x"})
	require.Error(t, err)
}

func TestConfigureRejectsMissingDestination(t *testing.T) {
	t.Parallel()

	err := New().Configure(context.Background(), map[string]interface{}{"url": "https://example.com/repo.git"})
	require.Error(t, err)
}

func TestInvokeClonesIntoDestination(t *testing.T) {
	t.Parallel()

	source := newSourceRepo(t)
	dest := filepath.Join(t.TempDir(), "checkout")

	a := New()
	require.NoError(t, a.Configure(context.Background(), map[string]interface{}{"url": source, "destination": dest}))

	out, err := a.Invoke(corepipeline.NewActionContext("clone", nil))
	require.NoError(t, err)

	result := out.(map[string]interface{})
	require.Equal(t, "clone", result["action"])
	require.FileExists(t, filepath.Join(dest, "README.md"))
}

func TestInvokePullsWhenAlreadyCloned(t *testing.T) {
	t.Parallel()

	source := newSourceRepo(t)
	dest := filepath.Join(t.TempDir(), "checkout")

	a := New()
	require.NoError(t, a.Configure(context.Background(), map[string]interface{}{"url": source, "destination": dest}))
	_, err := a.Invoke(corepipeline.NewActionContext("clone", nil))
	require.NoError(t, err)

	out, err := a.Invoke(corepipeline.NewActionContext("clone", nil))
	require.NoError(t, err)

	result := out.(map[string]interface{})
	require.Equal(t, "pull", result["action"])
	require.Equal(t, true, result["up_to_date"])
}
