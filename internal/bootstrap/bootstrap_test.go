package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/limaJavier/courseplanner/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Data.CoursesDir = "../../pkg/catalog/testdata/snapshots"
	cfg.Data.ProgramsFile = "../../pkg/requirement/testdata/programs.json"
	return cfg
}

func TestNewPlanner(t *testing.T) {
	//** Arrange
	cfg := testConfig(t)

	//** Act
	engine, err := NewPlanner(cfg, zerolog.Nop())

	//** Assert
	require.NoError(t, err)
	assert.Contains(t, engine.ListPrograms(), "Systems Design Engineering MEng")
	info, err := engine.CourseInfo("SYDE 660")
	require.NoError(t, err)
	assert.Equal(t, "Special Topics in Machine Learning", info.Course.Title)
}

func TestNewPlannerLoadFailures(t *testing.T) {
	t.Run("Missing catalog", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Data.CoursesDir = "testdata/missing"

		engine, err := NewPlanner(cfg, zerolog.Nop())
		assert.Error(t, err)
		assert.Nil(t, engine)
	})

	t.Run("Missing programs", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Data.ProgramsFile = "testdata/missing.json"

		engine, err := NewPlanner(cfg, zerolog.Nop())
		assert.Error(t, err)
		assert.Nil(t, engine)
	})
}

func TestLoadConfigAndSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	//** Act
	cfg, lgr, err := LoadConfigAndSetupLogger(filepath.Join(t.TempDir(), "missing.yaml"), "debug")

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.True(t, lgr.Debug().Enabled())
}
