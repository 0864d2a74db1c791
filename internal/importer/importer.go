package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/saldo/internal/config"
	"github.com/cleared-dev/saldo/internal/model"
)

// Statement is one parsed bank export: the account it belongs to and its
// records in file order.
type Statement struct {
	Identity     model.Identity
	Transactions []model.Transaction
}

// Parser converts a bank statement export into a Statement.
type Parser interface {
	Parse(r io.Reader) (Statement, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with the built-in statement format.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	p, err := NewDelimitedParser(config.DefaultStatementFormat())
	if err != nil {
		panic(err)
	}
	r.Register(p)
	return r
}

// LoadRegistry registers one parser per statement format file in dir.
func LoadRegistry(dir string) (*Registry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing formats: %w", err)
	}
	r := NewRegistry()
	for _, path := range paths {
		f, err := config.LoadStatementFormat(path)
		if err != nil {
			return nil, err
		}
		if f.Name == "" {
			f.Name = strings.TrimSuffix(filepath.Base(path), ".yaml")
		}
		if r.Get(f.Name) != nil {
			return nil, fmt.Errorf("%s: duplicate format %q", filepath.Base(path), f.Name)
		}
		p, err := NewDelimitedParser(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		r.Register(p)
	}
	return r, nil
}

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string) (Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return Statement{}, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	st, err := p.Parse(f)
	if err != nil {
		return Statement{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return st, nil
}

// importDir is the subdirectory for statement exports.
const importDir = "import"

// processedDir is the subdirectory for imported statements.
const processedDir = "import/processed"

// Scan returns CSV files in <home>/import/, sorted by name.
func Scan(home string) ([]FileInfo, error) {
	dir := filepath.Join(home, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(home, fileName string) error {
	src := filepath.Join(home, importDir, fileName)
	dstDir := filepath.Join(home, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
