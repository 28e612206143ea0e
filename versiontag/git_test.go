package versiontag

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signature = &object.Signature{
	Name:  "Release Bot",
	Email: "release@example.com",
	When:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
}

// commitRepo creates a repository with one commit and returns it with the commit hash
func commitRepo(t *testing.T) (string, *git.Repository, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.py"), []byte("__version__ = \"1.2.3\"\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("about.py")
	require.NoError(t, err)

	hash, err := wt.Commit("Release 1.2.3", &git.CommitOptions{Author: signature})
	require.NoError(t, err)
	return dir, repo, hash
}

func TestTagAtHead_Lightweight(t *testing.T) {
	dir, repo, hash := commitRepo(t)
	_, err := repo.CreateTag("v1.2.3", hash, nil)
	require.NoError(t, err)

	tag, err := TagAtHead(dir)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", tag)
}

func TestTagAtHead_Annotated(t *testing.T) {
	dir, repo, hash := commitRepo(t)
	_, err := repo.CreateTag("1.2.3", hash, &git.CreateTagOptions{
		Tagger:  signature,
		Message: "Release 1.2.3",
	})
	require.NoError(t, err)

	sub := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(sub, 0755))

	tag, err := TagAtHead(sub)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", tag)
}

func TestTagAtHead_Untagged(t *testing.T) {
	dir, _, _ := commitRepo(t)

	_, err := TagAtHead(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tag points at HEAD")
}

func TestTagAtHead_Ambiguous(t *testing.T) {
	dir, repo, hash := commitRepo(t)
	_, err := repo.CreateTag("1.2.3", hash, nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.2.3", hash, nil)
	require.NoError(t, err)

	_, err = TagAtHead(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 tags point at HEAD")
}

func TestTagAtHead_NotARepository(t *testing.T) {
	_, err := TagAtHead(t.TempDir())
	assert.Error(t, err)
}
