// internal/store/sqlite.go
//
// SQLite persistence for finished games and player accounts.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Recording finished games and bumping per-user stats in one transaction.
//   - Daily Challenge helpers (already played, leaderboard).
//   - User CRUD used by the auth package.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/palavramestre/assets"
)

// ErrConflict is returned when a unique constraint would be violated.
var ErrConflict = errors.New("conflict")

// SQLite wraps the database handle.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if missing) the database at dsn and migrates it.
func OpenSQLite(dsn string) (*SQLite, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	migrations, err := assets.Migrations()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db, migrations); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error { return s.db.Close() }

// migrate applies *.sql files from fsys in lexical order, each inside its own
// transaction, skipping files already listed in _migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

/* ------------------------------ games ---------------------------------- */

// GameResult is one finished game.
type GameResult struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Mode       string    `json:"mode"`
	Date       string    `json:"date,omitempty"`
	Difficulty string    `json:"difficulty"`
	Secret     string    `json:"secret"`
	Status     string    `json:"status"` // won | lost
	Attempts   int       `json:"attempts"`
	HintUsed   bool      `json:"hintUsed"`
	ElapsedMs  int64     `json:"elapsedMs"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// RecordGame stores a finished game. For a signed-in player the user's
// games_played/wins/streak are bumped in the same transaction.
// A second daily result for the same player and date is ignored.
func (s *SQLite) RecordGame(ctx context.Context, r GameResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        INSERT OR IGNORE INTO games
            (id, user_id, mode, date, difficulty, secret, status, attempts, hint_used, elapsed_ms, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, nullable(r.UserID), r.Mode, nullable(r.Date), r.Difficulty, r.Secret, r.Status,
		r.Attempts, r.HintUsed, r.ElapsedMs,
		r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	if r.UserID != "" {
		if err := bumpStats(ctx, tx, r.UserID, r.Status == "won"); err != nil {
			return fmt.Errorf("bump stats: %w", err)
		}
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins and streak based on result.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// RecentGames lists a player's finished games, newest first.
func (s *SQLite) RecentGames(ctx context.Context, userID string, limit int) ([]GameResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, mode, COALESCE(date,''), difficulty, secret, status, attempts, hint_used, elapsed_ms, started_at, finished_at
        FROM games WHERE user_id=?
        ORDER BY finished_at DESC, created_at DESC
        LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameResult{}
	for rows.Next() {
		var (
			g                 GameResult
			started, finished string
		)
		if err := rows.Scan(&g.ID, &g.Mode, &g.Date, &g.Difficulty, &g.Secret, &g.Status,
			&g.Attempts, &g.HintUsed, &g.ElapsedMs, &started, &finished); err != nil {
			return nil, err
		}
		g.UserID = userID
		g.StartedAt = parseTime(started)
		g.FinishedAt = parseTime(finished)
		out = append(out, g)
	}
	return out, rows.Err()
}

// DailyAlreadyPlayed reports whether userID has a daily result for date.
func (s *SQLite) DailyAlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM games WHERE mode='daily' AND user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// LBRow is a daily leaderboard line.
type LBRow struct {
	Username  string `json:"username"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int64  `json:"elapsedMs"`
	HintUsed  bool   `json:"hintUsed"`
}

// DailyLeaderboard returns the fastest signed-in winners for date.
// Ordered by elapsed time, then attempts, then submission order.
func (s *SQLite) DailyLeaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT u.username, g.attempts, g.elapsed_ms, g.hint_used
        FROM games g JOIN users u ON u.id = g.user_id
        WHERE g.mode='daily' AND g.date=? AND g.status='won'
        ORDER BY g.elapsed_ms ASC, g.attempts ASC, g.created_at ASC
        LIMIT ?`, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Username, &r.Attempts, &r.ElapsedMs, &r.HintUsed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

/* ------------------------------ users ---------------------------------- */

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
}

// CreateUser inserts u. Usernames are unique case-insensitively (ErrConflict).
func (s *SQLite) CreateUser(ctx context.Context, u User) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, u.Username).Scan(&exists)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return ErrConflict
	}
	return err
}

// UserByUsername loads a user by case-insensitive name.
func (s *SQLite) UserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                                  FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// UserByID loads a user by ID.
func (s *SQLite) UserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u       User
		created string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

// parseTime parses RFC3339 timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
