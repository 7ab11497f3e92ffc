package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/palavramestre/internal/auth"
	"github.com/robalobadob/palavramestre/internal/daily"
	"github.com/robalobadob/palavramestre/internal/game"
	"github.com/robalobadob/palavramestre/internal/httpserver"
	"github.com/robalobadob/palavramestre/internal/store"
)

var servePort string

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (default: $PORT or 5175)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	diff, err := game.ParseDifficulty(cfg.DefaultDifficulty)
	if err != nil {
		return err
	}
	list := loadWords()

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := httpserver.New(
		store.NewMemoryStore(),
		db,
		auth.NewService(db, cfg.JWTSecret, cfg.TokenTTL()),
		list,
		daily.NewSource(list, cfg.DailySalt, nil),
		httpserver.Options{
			ClientOrigin:      cfg.ClientOrigin,
			CookieName:        cfg.CookieName,
			SecureCookies:     cfg.Production(),
			RequestTimeout:    cfg.RequestTimeout,
			SessionTTL:        cfg.SessionTTL,
			DefaultDifficulty: diff,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := cfg.Port
	if servePort != "" {
		port = servePort
	}
	log.Info().Str("port", port).Int("words", list.Len()).Str("db", cfg.DBPath).Msg("starting server")
	if err := srv.Start(ctx, ":"+port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
