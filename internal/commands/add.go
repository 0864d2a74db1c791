package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/importer"
	"github.com/cleared-dev/saldo/internal/importlog"
)

func newAddCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "add [statement...]",
		Short: "Import bank statements into the current account",
		Long: "Merge bank statement exports into the ledger of the current account.\n" +
			"Without arguments every CSV file in <home>/import is imported in name\n" +
			"order and moved to import/processed once merged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts, args, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "statement format name from <home>/formats (default: the configured format)")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *options, paths []string, format string) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	parser, err := s.parser(format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	scanned := len(paths) == 0
	if scanned {
		files, err := importer.Scan(opts.home)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintln(out, "No statements in import directory")
			return nil
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}

	for _, path := range paths {
		if err := s.importFile(out, parser, path); err != nil {
			return err
		}
		if scanned {
			if err := importer.MarkProcessed(opts.home, filepath.Base(path)); err != nil {
				return err
			}
		}
	}
	return nil
}

// parser returns the named statement parser, or the configured default.
func (s *session) parser(format string) (importer.Parser, error) {
	if format == "" {
		f, err := s.accounts.StatementFormat()
		if err != nil {
			return nil, fmt.Errorf("statement format: %w", err)
		}
		return importer.NewDelimitedParser(f)
	}

	reg, err := importer.LoadRegistry(s.accounts.FormatsDir())
	if err != nil {
		return nil, err
	}
	p := reg.Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown statement format %q (have: %s)", format, strings.Join(reg.Formats(), ", "))
	}
	return p, nil
}

func (s *session) importFile(out io.Writer, p importer.Parser, path string) error {
	name := filepath.Base(path)
	st, err := importer.ParseFile(p, path)
	if err != nil {
		return err
	}
	s.log.Debug().Str("file", name).Int("records", len(st.Transactions)).Msg("statement parsed")

	res, err := s.engine.Update(st.Identity, st.Transactions)
	if err != nil {
		return fmt.Errorf("importing %s: %w", name, err)
	}

	var notes []string
	for _, w := range res.IdentityMismatches {
		notes = append(notes, w.String())
	}
	for _, w := range res.PossibleGaps {
		notes = append(notes, w.String())
	}
	entry := s.newEntry(importlog.ActionAdd)
	entry.Source = name
	entry.Added, entry.Overlap, entry.Total = res.Added, res.Overlap, res.Total
	entry.Details = strings.Join(notes, "; ")
	if res.Written {
		s.record(entry)
	}

	fmt.Fprintf(out, "%s: %d added, %d already known, %d total\n", name, res.Added, res.Overlap, res.Total)
	return nil
}
