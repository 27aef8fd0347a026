package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/limaJavier/courseplanner/pkg/catalog"
	"github.com/limaJavier/courseplanner/pkg/requirement"
	"gopkg.in/yaml.v3"
)

// Config structure represents the planner configuration
type Config struct {
	Data struct {
		CoursesDir      string `yaml:"courses_dir" env:"PLANNER_COURSES_DIR"`
		SnapshotPattern string `yaml:"snapshot_pattern" env:"PLANNER_SNAPSHOT_PATTERN"`
		ProgramsFile    string `yaml:"programs_file" env:"PLANNER_PROGRAMS_FILE"`
	} `yaml:"data"`

	Planning struct {
		Capacity []int `yaml:"capacity" env:"PLANNER_CAPACITY"`
	} `yaml:"planning"`

	Validation struct {
		StrictOfferings bool `yaml:"strict_offerings" env:"PLANNER_STRICT_OFFERINGS"`
	} `yaml:"validation"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A missing file leaves the defaults in place.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Data.CoursesDir = "data/courses"
	config.Data.SnapshotPattern = catalog.DefaultSnapshotPattern
	config.Data.ProgramsFile = "data/programs.json"

	config.Planning.Capacity = []int{3, 3, 2}

	config.Validation.StrictOfferings = false

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Data.CoursesDir) == "" {
		return fmt.Errorf("courses directory is required")
	}
	if strings.TrimSpace(config.Data.ProgramsFile) == "" {
		return fmt.Errorf("programs file is required")
	}
	if err := requirement.ValidateCapacity(config.Planning.Capacity); err != nil {
		return err
	}
	switch config.Logging.Format {
	case "json", "pretty":
	default:
		return fmt.Errorf("unsupported log format %q", config.Logging.Format)
	}
	return nil
}

// Pretty reports whether logs should be written for humans
func (c *Config) Pretty() bool {
	return c.Logging.Format == "pretty"
}
