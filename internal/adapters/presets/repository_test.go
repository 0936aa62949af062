package presets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0sin/mikroman/internal/domain"
)

func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()

	presetsPath := filepath.Join(t.TempDir(), "presets.toml")
	config := viper.New()
	config.Set("presets.path", presetsPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	return repo, presetsPath
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	monthly := domain.PlanPreset{
		Name:      "monthly-10",
		Days:      30,
		CapGiB:    10,
		Seats:     1,
		Start:     domain.StartAssigned,
		RateLimit: "10M/10M",
	}
	unlimited := domain.PlanPreset{
		Name:  "unlimited",
		Start: domain.StartDeferred,
	}

	require.NoError(t, repo.Save(context.Background(), monthly))
	require.NoError(t, repo.Save(context.Background(), unlimited))

	got, err := repo.Get(context.Background(), "monthly-10")
	require.NoError(t, err)
	assert.Equal(t, monthly, got)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.PlanPreset{monthly, unlimited}, all)
}

func TestRepositorySaveOverwritesByName(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	require.NoError(t, repo.Save(context.Background(), domain.PlanPreset{Name: "monthly", Days: 30, CapGiB: 10, Seats: 1, Start: domain.StartAssigned}))
	require.NoError(t, repo.Save(context.Background(), domain.PlanPreset{Name: "Monthly", Days: 60, CapGiB: 20, Seats: 2, Start: domain.StartAssigned}))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 60, all[0].Days)
	assert.Equal(t, 20, all[0].CapGiB)
}

func TestRepositoryGetMissingPreset(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrPresetNotFound)
}

func TestRepositoryRemove(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	require.NoError(t, repo.Save(context.Background(), domain.PlanPreset{Name: "monthly", Days: 30, Start: domain.StartAssigned}))
	require.NoError(t, repo.Remove(context.Background(), "MONTHLY"))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	err = repo.Remove(context.Background(), "monthly")
	assert.ErrorIs(t, err, domain.ErrPresetNotFound)
}

func TestRepositoryRejectsEmptyPresetName(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	err := repo.Save(context.Background(), domain.PlanPreset{Name: "  "})
	require.Error(t, err)
}

func TestRepositoryDefaultsStartPolicyOnRead(t *testing.T) {
	t.Parallel()

	repo, presetsPath := newTestRepository(t)

	require.NoError(t, os.WriteFile(presetsPath, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[presets]]",
		"name = \"legacy\"",
		"days = 30",
		"cap_gib = 5",
		"seats = 1",
		"",
	}, "\n")), 0o600))

	got, err := repo.Get(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, domain.StartAssigned, got.Start)
}

func TestRepositoryRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	repo, presetsPath := newTestRepository(t)

	require.NoError(t, os.WriteFile(presetsPath, []byte("version = 99\n"), 0o600))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported presets schema version")
}

func TestRepositoryWritesFileWithRestrictedMode(t *testing.T) {
	t.Parallel()

	repo, presetsPath := newTestRepository(t)

	require.NoError(t, repo.Save(context.Background(), domain.PlanPreset{Name: "monthly", Days: 30, Start: domain.StartAssigned}))

	info, err := os.Stat(presetsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
