package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/buildinfo"
	"github.com/cleared-dev/saldo/internal/logger"
)

// options are the persistent flags shared by all subcommands.
type options struct {
	home    string
	verbose bool
	logJSON bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "saldo",
		Short:   "Reconcile bank statements into a personal ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			log := logger.New(cmd.ErrOrStderr(), level)
			if opts.logJSON {
				log = logger.NewJSON(cmd.ErrOrStderr(), level)
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.home, "home", ".db", "home directory holding settings and ledgers")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "write log output as JSON lines")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newUseCommand(opts),
		newAccountsCommand(opts),
		newAddCommand(opts),
		newGroupCommand(opts),
		newUngroupedCommand(opts),
		newListCommand(opts),
		newSearchCommand(opts),
		newStatsCommand(opts),
		newExportCommand(opts),
		newUndoCommand(opts),
		newSettingsCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
