// Package cli implements the palavramestre commands.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/palavramestre/internal/config"
	"github.com/robalobadob/palavramestre/internal/words"
)

var (
	logLevel string
	cfg      config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "palavramestre",
	Short:         "Five-letter word guessing game",
	Long:          "A five-letter word guessing game. Serve the HTTP API or play in the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		lvl := cfg.LogLevel
		if logLevel != "" {
			lvl = logLevel
		}
		if l, err := zerolog.ParseLevel(lvl); err == nil {
			zerolog.SetGlobalLevel(l)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level (default: $LOG_LEVEL or info)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("palavramestre")
		os.Exit(1)
	}
}

// loadWords loads the word list and dictionary named by the config.
func loadWords(opts ...words.Option) *words.List {
	list, err := words.Load(cfg.WordsFile, cfg.DictionaryFile, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	return list
}
