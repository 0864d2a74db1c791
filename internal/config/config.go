package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level settings.yaml of a saldo home directory.
type Config struct {
	CurrentAccount  string         `yaml:"current_account"`
	Accounts        []string       `yaml:"accounts,omitempty"`
	StatementFormat string         `yaml:"statement_format"` // relative to the home directory
	Rules           string         `yaml:"rules"`            // relative to the home directory
	Database        DatabaseConfig `yaml:"database"`
	Git             GitConfig      `yaml:"git"`
}

// DatabaseConfig controls the on-disk ledger encoding.
type DatabaseConfig struct {
	FileName   string `yaml:"file_name"`
	Delimiter  string `yaml:"delimiter"`
	DateFormat string `yaml:"date_format"` // Go reference layout, e.g. "2006-01-02"
}

// GitConfig controls versioning of the home directory. When enabled,
// every change to a ledger is committed.
type GitConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Comma returns the delimiter as a rune for encoding/csv.
func (d DatabaseConfig) Comma() (rune, error) {
	return parseDelimiter(d.Delimiter)
}

// Load reads a settings.yaml file from disk.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	return saveYAML(path, cfg)
}

// Default returns a Config with sensible defaults for a new home directory.
func Default() *Config {
	return &Config{
		StatementFormat: filepath.Join("formats", "default.yaml"),
		Rules:           "rules.yaml",
		Database: DatabaseConfig{
			FileName:   "history.csv",
			Delimiter:  ";",
			DateFormat: "2006-01-02",
		},
		Git: GitConfig{
			AuthorName:  "saldo",
			AuthorEmail: "saldo@localhost",
		},
	}
}

// Resolve returns p joined to home unless it is absolute.
func Resolve(home, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func saveYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
