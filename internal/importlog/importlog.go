// Package importlog keeps an append-only CSV record of every change made to
// the ledgers of a home directory.
package importlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// Actions recorded in the log.
const (
	ActionInit       = "init"
	ActionAdd        = "add"
	ActionReclassify = "group"
	ActionUndo       = "undo"
)

const (
	logDir  = "logs"
	logFile = "logs/import-log.csv"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp string `csv:"timestamp"` // RFC 3339
	Account   string `csv:"account"`
	Action    string `csv:"action"`
	Source    string `csv:"source"`
	Added     int    `csv:"added"`
	Overlap   int    `csv:"overlap"`
	Total     int    `csv:"total"`
	Details   string `csv:"details"`
}

// NewEntry creates an Entry stamped with t.
func NewEntry(t time.Time, account, action string) Entry {
	return Entry{Timestamp: t.UTC().Format(time.RFC3339), Account: account, Action: action}
}

// Time parses the entry timestamp.
func (e Entry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, e.Timestamp)
}

// Path returns the log file of a home directory.
func Path(home string) string {
	return filepath.Join(home, logFile)
}

// Append writes entries to <home>/logs/import-log.csv, creating the file and
// header if needed.
func Append(home string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(home, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(home)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	if needsHeader {
		err = gocsv.Marshal(&entries, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(&entries, f)
	}
	if err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}
	return nil
}

// Read returns all entries from <home>/logs/import-log.csv. It returns nil
// if the file does not exist.
func Read(home string) ([]Entry, error) {
	f, err := os.Open(Path(home))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	if err := gocsv.Unmarshal(f, &entries); err != nil {
		return nil, fmt.Errorf("reading import log: %w", err)
	}
	return entries, nil
}
