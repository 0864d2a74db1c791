package importer

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/saldo/internal/config"
)

type stubParser struct{ name string }

func (p stubParser) Parse(r io.Reader) (Statement, error) { return Statement{}, nil }
func (p stubParser) Format() string                        { return p.name }

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(stubParser{"ing"})
	p := r.Get("ing")
	require.NotNil(t, p)
	assert.Equal(t, "ing", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(stubParser{"ing"})
	assert.NotNil(t, r.Get("Ing"))
	assert.NotNil(t, r.Get("ING"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(stubParser{"ing"})
	assert.Panics(t, func() { r.Register(stubParser{"ING"}) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("default"))
	assert.Equal(t, []string{"default"}, r.Formats())
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	ing := config.DefaultStatementFormat()
	ing.Name = "ing"
	require.NoError(t, config.SaveStatementFormat(filepath.Join(dir, "ing.yaml"), ing))

	unnamed := config.DefaultStatementFormat()
	unnamed.Name = ""
	require.NoError(t, config.SaveStatementFormat(filepath.Join(dir, "sparkasse.yaml"), unnamed))

	r, err := LoadRegistry(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"ing", "sparkasse"}, r.Formats())
}

func TestLoadRegistry_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	bad := config.DefaultStatementFormat()
	bad.Encoding = "ebcdic"
	require.NoError(t, config.SaveStatementFormat(filepath.Join(dir, "bad.yaml"), bad))

	_, err := LoadRegistry(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "b.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "a.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.CSV", files[0].Name)
	assert.Equal(t, "b.csv", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "bank.csv")
	require.NoError(t, err)

	// Source gone.
	_, err = os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	// Destination exists.
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.csv"))
	assert.NoError(t, err)
}

func TestMarkProcessed_Missing(t *testing.T) {
	err := MarkProcessed(t.TempDir(), "nope.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moving nope.csv")
}
