package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-quiz-metrics/internal/storage"
)

func TestLimitOrDefault(t *testing.T) {
	assert.Equal(t, cfg.DefaultLimit, limitOrDefault(0))
	assert.Equal(t, 0, limitOrDefault(-1))
	assert.Equal(t, 3, limitOrDefault(3))
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"Ana", "Bo Li"}, splitNames(" Ana ,, Bo Li ,"))
	assert.Empty(t, splitNames(""))
}

func TestIsSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quiz.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, isSource(path))
	assert.True(t, isSource("https://example.com/quiz.xlsx"))
	assert.False(t, isSource(dir))
	assert.False(t, isSource("3fa9c1"))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"import", "list", "show", "leaderboard", "speed", "accuracy", "difficulty",
		"player", "answers", "trend", "summary", "export", "chart", "serve",
		"shell", "analyze", "sql", "drop",
	}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}

func TestShowByHashErrors(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)

	err = showByHash(db, "abc", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import not found")

	require.NoError(t, db.Close())
	err = showByHash(db, "abc", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query import")
	assert.NotContains(t, err.Error(), "not found")
}
