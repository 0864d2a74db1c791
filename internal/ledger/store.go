package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cleared-dev/saldo/internal/model"
)

// ErrNoBackup is returned by Restore when no backup exists.
var ErrNoBackup = errors.New("no backup to restore")

// Store persists one ledger file. Every Save first copies the current file
// to a backup and then replaces the ledger atomically.
type Store struct {
	path   string
	format Format
	now    func() time.Time
}

// NewStore creates a Store for the ledger at path.
func NewStore(path string, f Format) *Store {
	return &Store{path: path, format: f, now: time.Now}
}

// Path returns the ledger file path.
func (s *Store) Path() string { return s.path }

// BackupPath returns the path of the backup written before each Save.
func (s *Store) BackupPath() string { return s.path + ".bak" }

// Exists reports whether the ledger file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the ledger from disk.
func (s *Store) Load() (model.Ledger, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return model.Ledger{}, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	l, err := Read(f, s.format)
	if err != nil {
		return model.Ledger{}, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	return l, nil
}

// Save backs up the current file, if any, and atomically replaces it with l.
func (s *Store) Save(l model.Ledger) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	if s.Exists() {
		if err := copyFile(s.path, s.BackupPath()); err != nil {
			return fmt.Errorf("backing up ledger: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, l, s.format, s.now()); err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	if err := writeAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

// Restore replaces the ledger with its backup, undoing the last Save.
func (s *Store) Restore() error {
	data, err := os.ReadFile(s.BackupPath())
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNoBackup
	}
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("restoring ledger: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeAtomic writes to a temporary file in the target directory and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
