package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/setorcuan/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"add payout columns", "add_payout_columns"},
		{"Add-Payout-Columns", "add_payout_columns"},
		{"ADD__PAYOUT__COLUMNS", "add_payout_columns"},
		{"   spaces   ", "spaces"},
		{"index v2", "index_v2"},
		{"drop!@#audit", "dropaudit"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.input))
		})
	}
}

func TestCreate(t *testing.T) {
	t.Run("numbers the first migration 000001", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")

		f, err := Create(dir, "create users", "users and ledger columns")
		require.NoError(t, err)

		assert.Equal(t, uint(1), f.Version)
		assert.Equal(t, filepath.Join(dir, "000001_create_users.up.sql"), f.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_create_users.down.sql"), f.DownPath)

		up, err := os.ReadFile(f.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "-- create_users")
		assert.Contains(t, string(up), "-- users and ledger columns")

		down, err := os.ReadFile(f.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback for create_users")
	})

	t.Run("continues after the highest existing version", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000001_a.up.sql", "000001_a.down.sql", "000007_b.up.sql", "000007_b.down.sql", "README.md"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		f, err := Create(dir, "add index", "")
		require.NoError(t, err)
		assert.Equal(t, uint(8), f.Version)

		up, err := os.ReadFile(f.UpPath)
		require.NoError(t, err)
		assert.NotContains(t, string(up), "-- \n")
	})

	t.Run("rejects names without usable characters", func(t *testing.T) {
		_, err := Create(t.TempDir(), "!!!", "")
		require.Error(t, err)
	})
}

func TestList(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		entries, err := List(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("sorts by version and skips stray files", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"000010_later.up.sql", "000002_earlier.up.sql", "000002_earlier.down.sql",
			"notes.up.sql", "abc_bad.up.sql",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000099_dir.up.sql"), 0o755))

		entries, err := List(dir)
		require.NoError(t, err)
		assert.Equal(t, []Entry{{Version: 2, Name: "earlier"}, {Version: 10, Name: "later"}}, entries)
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := filepath.Glob("../../../migrations/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		name := filepath.Base(up)
		down := name[:len(name)-len(".up.sql")] + ".down.sql"

		_, err := migrations.Files.Open(name)
		assert.NoError(t, err, "%s not embedded", name)
		_, err = migrations.Files.Open(down)
		assert.NoError(t, err, "%s has no down migration", name)
	}
}
