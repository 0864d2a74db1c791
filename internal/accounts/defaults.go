package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/saldo/internal/config"
)

// Init prepares a home directory: settings, category rules and the default
// statement format are written unless present. Existing files are kept.
func Init(home string) (*Service, error) {
	if err := os.MkdirAll(filepath.Join(home, "import"), 0o755); err != nil {
		return nil, fmt.Errorf("creating home dir: %w", err)
	}

	settings := filepath.Join(home, SettingsFile)
	if !exists(settings) {
		if err := config.Save(settings, config.Default()); err != nil {
			return nil, fmt.Errorf("writing settings: %w", err)
		}
	}
	s, err := Load(home)
	if err != nil {
		return nil, err
	}

	if !exists(s.RulesPath()) {
		if err := config.SaveRules(s.RulesPath(), config.DefaultRules()); err != nil {
			return nil, fmt.Errorf("writing rules: %w", err)
		}
	}
	if !exists(s.FormatPath()) {
		if err := config.SaveStatementFormat(s.FormatPath(), config.DefaultStatementFormat()); err != nil {
			return nil, fmt.Errorf("writing statement format: %w", err)
		}
	}
	return s, nil
}
