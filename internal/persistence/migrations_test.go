package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListMigrationFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"002_agent_profiles.sql",
		"001_users.sql",
		"003_tickets.SQL",
		"README.md",
		"seed_data.json",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	files, err := listMigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "002_agent_profiles.sql", "003_tickets.SQL"}, files)
}

func TestListMigrationFilesMissingDir(t *testing.T) {
	_, err := listMigrationFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	err := RunMigrations(context.Background(), nil, "", zap.NewNop())
	assert.NoError(t, err)
}
