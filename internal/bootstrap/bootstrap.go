package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/limaJavier/courseplanner/internal/config"
	"github.com/limaJavier/courseplanner/internal/logger"
	"github.com/limaJavier/courseplanner/pkg/catalog"
	"github.com/limaJavier/courseplanner/pkg/planner"
	"github.com/limaJavier/courseplanner/pkg/requirement"
	"github.com/rs/zerolog"
)

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// A non-empty level overrides the configured one.
func LoadConfigAndSetupLogger(configPath, level string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}
	if level != "" {
		cfg.Logging.Level = level
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Pretty(),
	})

	if configPath != "" {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", configPath).Msg("Config file not found, using defaults")
		}
	}
	logger.Debug().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, logger.Get(), nil
}

// NewPlanner loads the catalog and the program rules. Any failure here is fatal for the
// engine: no planner is returned until both load.
func NewPlanner(cfg *config.Config, lgr zerolog.Logger) (*planner.Planner, error) {
	courses, err := catalog.Load(cfg.Data.CoursesDir, catalog.LoadOptions{Pattern: cfg.Data.SnapshotPattern}, lgr)
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Data.CoursesDir).Msg("Failed to load course catalog")
		return nil, fmt.Errorf("course catalog: %w", err)
	}

	programs, err := requirement.LoadPrograms(cfg.Data.ProgramsFile)
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Data.ProgramsFile).Msg("Failed to load program rules")
		return nil, fmt.Errorf("program rules: %w", err)
	}
	lgr.Info().Int("programs", len(programs.Names())).Msg("Program rules loaded")

	return planner.New(courses, programs, planner.Options{
		Capacity:        cfg.Planning.Capacity,
		StrictOfferings: cfg.Validation.StrictOfferings,
		Logger:          lgr,
	})
}
