// internal/httpserver/server.go
//
// HTTP server wiring for the word-guessing backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): new session, guess, hint, keyboard, snapshot.
//   - Daily Challenge endpoints: mounted under /daily (routes_daily.go).
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (routes_auth.go).
//
// Notes:
//   - Sessions live in store.Sessions; each request touches its session inside
//     Sessions.Update so two requests never interleave on one game.
//   - Finished games are written to the Results store best effort (logged on failure).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/palavramestre/internal/auth"
	"github.com/robalobadob/palavramestre/internal/daily"
	"github.com/robalobadob/palavramestre/internal/game"
	"github.com/robalobadob/palavramestre/internal/rng"
	"github.com/robalobadob/palavramestre/internal/store"
	"github.com/robalobadob/palavramestre/internal/words"
)

// Results is the persistence used for finished games and leaderboards.
type Results interface {
	RecordGame(ctx context.Context, r store.GameResult) error
	RecentGames(ctx context.Context, userID string, limit int) ([]store.GameResult, error)
	DailyAlreadyPlayed(ctx context.Context, userID, date string) (bool, error)
	DailyLeaderboard(ctx context.Context, date string, limit int) ([]store.LBRow, error)
}

// Options configures the HTTP surface.
type Options struct {
	ClientOrigin      string
	CookieName        string
	SecureCookies     bool
	RequestTimeout    time.Duration
	DefaultDifficulty game.Difficulty
	// SessionTTL evicts live sessions this long after creation (default 24h).
	SessionTTL time.Duration
	// FinishedTTL evicts finished sessions this long after the last attempt (default 15m).
	FinishedTTL time.Duration
	// Rand drives hint picks; nil means crypto/rand.
	Rand rng.Source
}

// Server bundles router, live sessions and persistence.
type Server struct {
	r        *chi.Mux
	sessions store.Sessions
	results  Results
	auth     *auth.Service
	words    *words.List
	daily    *daily.Source
	opts     Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(sessions store.Sessions, results Results, authSvc *auth.Service, list *words.List, dailySrc *daily.Source, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "palavra_token"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.Rand == nil {
		opts.Rand = rng.Crypto()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.FinishedTTL <= 0 {
		opts.FinishedTTL = 15 * time.Minute
	}
	s := &Server{
		r:        chi.NewRouter(),
		sessions: sessions,
		results:  results,
		auth:     authSvc,
		words:    list,
		daily:    dailySrc,
		opts:     opts,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opts.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "palavramestre",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/{id}/guess", "POST /game/{id}/hint", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"words": s.words.Len()})
	})

	// game endpoints, optional auth (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		r.Post("/game/new", s.handleNewGame)
		r.Get("/game/{id}", s.handleSnapshot)
		r.Post("/game/{id}/guess", s.handleGuess)
		r.Post("/game/{id}/hint", s.handleHint)
		r.Get("/game/{id}/keyboard", s.handleKeyboard)
		s.mountDaily(r)
	})

	if authSvc != nil && results != nil {
		s.mountAuthRoutes()
	}

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr until ctx is cancelled.
// Expired sessions are swept once a minute while the server runs.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	go s.janitor(ctx, time.Minute)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now)
		}
	}
}

// sweep drops sessions that finished more than FinishedTTL ago or were
// created more than SessionTTL ago.
func (s *Server) sweep(ctx context.Context, now time.Time) int {
	n := s.sessions.Evict(ctx, func(e *store.Entry) bool {
		sess := e.Session
		if sess.State().Terminal() {
			return now.Sub(sess.FinishedAt) > s.opts.FinishedTTL
		}
		return now.Sub(sess.CreatedAt) > s.opts.SessionTTL
	})
	if n > 0 {
		log.Debug().Int("evicted", n).Msg("session sweep")
	}
	return n
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	Difficulty *game.Difficulty `json:"difficulty"`
	Mode       string           `json:"mode"` // "classic" (default) | "daily"
}

// handleNewGame starts a session. Daily sessions share the date's secret and
// are refused for signed-in players who already finished today's.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	d := s.opts.DefaultDifficulty
	if req.Difficulty != nil {
		d = *req.Difficulty
	}
	me := currentUser(r)

	entry := &store.Entry{Mode: store.ModeClassic}
	var src game.WordSource = s.words
	if req.Mode == store.ModeDaily {
		entry.Mode = store.ModeDaily
		entry.Date = s.daily.Date()
		src = s.daily
		if me != nil && s.results != nil {
			played, err := s.results.DailyAlreadyPlayed(r.Context(), me.ID, entry.Date)
			if err != nil {
				log.Error().Err(err).Msg("daily already played")
				writeErr(w, http.StatusInternalServerError, "db_error")
				return
			}
			if played {
				writeErr(w, http.StatusConflict, "already_played")
				return
			}
		}
	} else if req.Mode != "" && req.Mode != store.ModeClassic {
		writeErr(w, http.StatusBadRequest, "bad_mode")
		return
	}
	if me != nil {
		entry.UserID = me.ID
	}

	sess, err := game.New(src, d, game.WithRand(s.opts.Rand))
	if err != nil {
		log.Error().Err(err).Msg("new session")
		writeErr(w, http.StatusInternalServerError, "word_source")
		return
	}
	entry.Session = sess
	if err := s.sessions.Save(r.Context(), entry); err != nil {
		log.Error().Err(err).Msg("save session")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("gameId", sess.ID).Str("mode", entry.Mode).Stringer("difficulty", d).Msg("session started")
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// handleSnapshot returns the full session view.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap game.Snapshot
	err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(e *store.Entry) error {
		snap = e.Session.Snapshot()
		return nil
	})
	if err != nil {
		s.writeGameErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// guessReq/Res payloads for POST /game/{id}/guess.
type guessReq struct {
	Guess string `json:"guess"`
}
type guessRes struct {
	game.Result
	Secret     string `json:"secret,omitempty"`
	Definition string `json:"definition,omitempty"`
}

// handleGuess scores an attempt; rejected attempts leave the session untouched
// and come back as retryable 422s.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		res    guessRes
		record *store.GameResult
	)
	err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(e *store.Entry) error {
		out, err := e.Session.SubmitWord(words.Normalize(req.Guess))
		if err != nil {
			return err
		}
		res.Result = out
		if out.State.Terminal() {
			snap := e.Session.Snapshot()
			res.Secret, res.Definition = snap.Secret, snap.Definition
			if !e.Recorded {
				e.Recorded = true
				gr := resultOf(e)
				record = &gr
			}
		}
		return nil
	})
	if err != nil {
		s.writeGameErr(w, err)
		return
	}
	if record != nil {
		s.record(r.Context(), *record)
	}
	writeJSON(w, http.StatusOK, res)
}

// hintRes is returned by POST /game/{id}/hint.
type hintRes struct {
	Letter string `json:"letter,omitempty"`
	Found  bool   `json:"found"`
}

// handleHint consumes the session's single hint.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var res hintRes
	err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(e *store.Entry) error {
		letter, ok, err := e.Session.RequestHint()
		if err != nil {
			return err
		}
		res.Found = ok
		if ok {
			res.Letter = string(letter)
		}
		return nil
	})
	if err != nil {
		s.writeGameErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleKeyboard returns the aggregated per-letter marks.
func (s *Server) handleKeyboard(w http.ResponseWriter, r *http.Request) {
	var kb map[string]game.Mark
	err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(e *store.Entry) error {
		kb = e.Session.Keyboard().Strings()
		return nil
	})
	if err != nil {
		s.writeGameErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kb)
}

// record persists a finished game; failures are logged, not surfaced.
func (s *Server) record(ctx context.Context, gr store.GameResult) {
	if s.results == nil {
		return
	}
	if err := s.results.RecordGame(ctx, gr); err != nil {
		log.Warn().Err(err).Str("gameId", gr.ID).Msg("record game")
		return
	}
	log.Info().Str("gameId", gr.ID).Str("status", gr.Status).Int("attempts", gr.Attempts).Msg("game recorded")
}

// resultOf builds the persisted row for a finished entry.
func resultOf(e *store.Entry) store.GameResult {
	sess := e.Session
	secret, _ := sess.Secret()
	return store.GameResult{
		ID:         sess.ID,
		UserID:     e.UserID,
		Mode:       e.Mode,
		Date:       e.Date,
		Difficulty: sess.Difficulty.String(),
		Secret:     secret,
		Status:     sess.State().String(),
		Attempts:   sess.Attempts(),
		HintUsed:   sess.HintUsed(),
		ElapsedMs:  sess.FinishedAt.Sub(sess.CreatedAt).Milliseconds(),
		StartedAt:  sess.CreatedAt,
		FinishedAt: sess.FinishedAt,
	}
}

// ------------------------------- errors ------------------------------------

// apiError is the JSON error body.
type apiError struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// writeGameErr maps core and store errors to HTTP responses.
func (s *Server) writeGameErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrIncompleteAttempt):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: "incomplete_attempt", Retryable: true})
	case errors.Is(err, game.ErrUnknownWord):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: "unknown_word", Retryable: true})
	case errors.Is(err, game.ErrGameOver):
		writeErr(w, http.StatusConflict, "game_over")
	case errors.Is(err, game.ErrHintUnavailable):
		writeErr(w, http.StatusConflict, "hint_unavailable")
	default:
		log.Error().Err(err).Msg("game request")
		writeErr(w, http.StatusInternalServerError, "internal")
	}
}

func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, apiError{Error: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
