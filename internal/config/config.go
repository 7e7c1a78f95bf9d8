package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsonform
type Config struct {
	Load    LoadConfig    `yaml:"load"`
	Save    SaveConfig    `yaml:"save"`
	Commit  CommitConfig  `yaml:"commit"`
	Session SessionConfig `yaml:"session"`
	Display DisplayConfig `yaml:"display"`
	Dev     DevConfig     `yaml:"dev"`
}

// LoadConfig controls how documents are read
type LoadConfig struct {
	// AllowComments accepts JSON with comments and trailing commas.
	AllowComments bool `yaml:"allow_comments"`
}

// SaveConfig controls how documents are written
type SaveConfig struct {
	Indent          int  `yaml:"indent"`
	TrailingNewline bool `yaml:"trailing_newline"`
}

// CommitConfig controls how edited fields are written back
type CommitConfig struct {
	// Atomic coerces every field before writing any of them, so a failed
	// commit leaves the object untouched.
	Atomic bool `yaml:"atomic"`
}

// SessionConfig controls the last-opened-file record
type SessionConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

// DisplayConfig controls how rows are labelled
type DisplayConfig struct {
	HumanizeLabels bool `yaml:"humanize_labels"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// DefaultSessionFile is the session record name, placed in the home directory.
const DefaultSessionFile = ".jsonform_session.json"

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Load: LoadConfig{
			AllowComments: false,
		},
		Save: SaveConfig{
			Indent:          2,
			TrailingNewline: true,
		},
		Commit: CommitConfig{
			Atomic: true,
		},
		Session: SessionConfig{
			Enabled: true,
			File:    defaultSessionPath(),
		},
		Display: DisplayConfig{
			HumanizeLabels: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultSessionFile
	}
	return filepath.Join(home, DefaultSessionFile)
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values that YAML decoding cannot.
func (c *Config) Validate() error {
	if c.Save.Indent < 0 || c.Save.Indent > 16 {
		return fmt.Errorf("invalid save.indent %d: must be between 0 and 16", c.Save.Indent)
	}
	if c.Session.Enabled && c.Session.File == "" {
		return fmt.Errorf("session.file must be set when session.enabled is true")
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonform.yml", ".jsonform.yaml", "jsonform.yml", "jsonform.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// CLIOverrides holds flag values that take precedence over the config file.
// Nil pointers mean the flag was not given.
type CLIOverrides struct {
	AllowComments *bool
	Indent        *int
	Atomic        *bool
	NoSession     bool
	Humanize      *bool
	Debug         bool
}

// LoadWithCLI loads config with CLI argument precedence
func LoadWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.AllowComments != nil {
		cfg.Load.AllowComments = *cli.AllowComments
	}
	if cli.Indent != nil {
		cfg.Save.Indent = *cli.Indent
	}
	if cli.Atomic != nil {
		cfg.Commit.Atomic = *cli.Atomic
	}
	if cli.NoSession {
		cfg.Session.Enabled = false
	}
	if cli.Humanize != nil {
		cfg.Display.HumanizeLabels = *cli.Humanize
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
