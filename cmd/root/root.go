// Package root contains the root command for the application.
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/finwise/statement-extractor/internal/config"
)

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "statement-extractor",
		Short: "Extract structured transactions from bank statement PDFs and text.",
		Long: `statement-extractor reconstructs transactions (date, merchant, amount,
direction, payment mode, identifiers) from bank statement PDFs or pasted
statement text, using a heuristic pattern cascade plus a fixed-layout parser
for Kotak Mahindra Bank statements.`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				cfg.Log.Level = lvl
			}
			Cfg = cfg
			Log = cfg.Logger()
			return nil
		},
	}
)

// Init initializes the root command flags.
func Init() {
	Cmd.PersistentFlags().String("log-level", "", "Override configured log level (debug, info, warn, error)")
}
