package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/cleared-dev/saldo/internal/config"
	"github.com/cleared-dev/saldo/internal/ledger"
)

// SettingsFile is the settings file inside a home directory.
const SettingsFile = "settings.yaml"

// ErrNoAccount is returned when no account is selected.
var ErrNoAccount = errors.New("no account selected; create one with 'saldo init <name>'")

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// reserved names collide with other entries of the home directory.
var reserved = []string{"import", "logs", "formats"}

// Service manages the named accounts of a home directory. Each account owns
// one ledger file under <home>/<account>/.
type Service struct {
	home string
	cfg  *config.Config
}

// NewService creates a Service from an already loaded config.
func NewService(home string, cfg *config.Config) *Service {
	return &Service{home: home, cfg: cfg}
}

// Load reads <home>/settings.yaml.
func Load(home string) (*Service, error) {
	cfg, err := config.Load(filepath.Join(home, SettingsFile))
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return NewService(home, cfg), nil
}

// Home returns the home directory.
func (s *Service) Home() string { return s.home }

// Config returns the settings.
func (s *Service) Config() *config.Config { return s.cfg }

// All returns all account names in creation order.
func (s *Service) All() []string {
	return slices.Clone(s.cfg.Accounts)
}

// Exists reports whether an account name is registered.
func (s *Service) Exists(name string) bool {
	return slices.Contains(s.cfg.Accounts, name)
}

// Current returns the selected account.
func (s *Service) Current() (string, error) {
	if s.cfg.CurrentAccount == "" {
		return "", ErrNoAccount
	}
	if !s.Exists(s.cfg.CurrentAccount) {
		return "", fmt.Errorf("current account %q is not registered", s.cfg.CurrentAccount)
	}
	return s.cfg.CurrentAccount, nil
}

// Add registers a new account and selects it.
func (s *Service) Add(name string) error {
	if !validName.MatchString(name) || slices.Contains(reserved, name) {
		return fmt.Errorf("invalid account name %q", name)
	}
	if s.Exists(name) {
		return fmt.Errorf("account %q already exists", name)
	}
	s.cfg.Accounts = append(s.cfg.Accounts, name)
	s.cfg.CurrentAccount = name
	return nil
}

// Use selects an existing account.
func (s *Service) Use(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("unknown account %q (have: %v)", name, s.cfg.Accounts)
	}
	s.cfg.CurrentAccount = name
	return nil
}

// Save writes the settings back to <home>/settings.yaml.
func (s *Service) Save() error {
	if err := config.Save(filepath.Join(s.home, SettingsFile), s.cfg); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// LedgerPath returns the ledger file of an account.
func (s *Service) LedgerPath(name string) string {
	return filepath.Join(s.home, name, s.cfg.Database.FileName)
}

// Store returns the ledger store of an account.
func (s *Service) Store(name string) (*ledger.Store, error) {
	f, err := ledger.FormatFromConfig(s.cfg.Database)
	if err != nil {
		return nil, err
	}
	return ledger.NewStore(s.LedgerPath(name), f), nil
}

// RulesPath returns the category rule file.
func (s *Service) RulesPath() string { return config.Resolve(s.home, s.cfg.Rules) }

// FormatPath returns the default statement format file.
func (s *Service) FormatPath() string { return config.Resolve(s.home, s.cfg.StatementFormat) }

// FormatsDir returns the directory holding statement format files.
func (s *Service) FormatsDir() string { return filepath.Dir(s.FormatPath()) }

// Rules loads the category rule file.
func (s *Service) Rules() (*config.Rules, error) {
	return config.LoadRules(s.RulesPath())
}

// StatementFormat loads the default statement format.
func (s *Service) StatementFormat() (*config.StatementFormat, error) {
	return config.LoadStatementFormat(s.FormatPath())
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
