// internal/game/engine.go
//
// Session state machine for a single game.
// Responsibilities:
//   - Create sessions with a difficulty-derived grid (MaxAttempts × WordLength).
//   - Validate attempts (complete row, known word) without mutating on rejection.
//   - Score attempts, seal rows, fold marks into the keyboard.
//   - Track state transitions: in_progress → won/lost.
//   - Hand out at most one hint per session.
//
// Notes:
//   - The secret comes from an injected WordSource; randomness from rng.Source.
//   - Scoring and transitions finish inside Submit. Reveal pacing belongs to
//     whoever renders the marks.
//   - A Session is not safe for concurrent use; hosts serialize access.
package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/robalobadob/palavramestre/internal/rng"
)

var (
	// ErrIncompleteAttempt: the row has fewer than WordLength letters. Retryable.
	ErrIncompleteAttempt = errors.New("incomplete attempt")
	// ErrUnknownWord: the attempt is not in the word list. Retryable.
	ErrUnknownWord = errors.New("unknown word")
	// ErrHintUnavailable: hint already used, or the session is over.
	ErrHintUnavailable = errors.New("hint unavailable")
	// ErrGameOver: the session reached a terminal state.
	ErrGameOver = errors.New("game over")
	// ErrInvalidLetter: Type was called with a non-letter rune.
	ErrInvalidLetter = errors.New("invalid letter")
)

// WordSource supplies secrets and validates attempts.
type WordSource interface {
	PickSecret() (string, error)
	IsValidWord(candidate string) bool
}

// Definer is an optional WordSource extension for end-of-game definitions.
type Definer interface {
	Definition(word string) (string, bool)
}

// Result is returned for every accepted attempt.
type Result struct {
	Marks      []Mark `json:"marks"`
	State      State  `json:"state"`
	CurrentRow int    `json:"currentRow"`
}

// Status is the coarse session position.
type Status struct {
	State       State `json:"state"`
	CurrentRow  int   `json:"currentRow"`
	MaxAttempts int   `json:"maxAttempts"`
}

// Session holds the state of one game. Create with New.
type Session struct {
	ID         string
	Difficulty Difficulty
	CreatedAt  time.Time
	FinishedAt time.Time

	words    WordSource
	rand     rng.Source
	now      func() time.Time
	secret   []rune
	rows     []Row
	current  int
	keyboard Keyboard
	hintUsed bool
	state    State
}

// Option customizes New.
type Option func(*Session)

// WithRand sets the source used for hint picks (default crypto/rand).
func WithRand(r rng.Source) Option { return func(s *Session) { s.rand = r } }

// WithID overrides the generated session ID.
func WithID(id string) Option { return func(s *Session) { s.ID = id } }

// WithClock overrides time.Now for CreatedAt/FinishedAt.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// New starts a session: picks a secret and lays out an empty grid.
// Errors from the WordSource (e.g. an empty list) are returned unchanged in the chain.
func New(src WordSource, d Difficulty, opts ...Option) (*Session, error) {
	s := &Session{
		Difficulty: d,
		words:      src,
		rand:       rng.Crypto(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	secret, err := src.PickSecret()
	if err != nil {
		return nil, fmt.Errorf("pick secret: %w", err)
	}
	s.secret = []rune(norm.NFC.String(strings.ToLower(secret)))
	if len(s.secret) != WordLength {
		return nil, fmt.Errorf("secret %q: %w", secret, ErrLengthMismatch)
	}

	s.rows = make([]Row, d.MaxAttempts())
	for i := range s.rows {
		s.rows[i].Letters = make([]rune, 0, WordLength)
	}
	s.keyboard = Keyboard{}
	s.CreatedAt = s.now()
	return s, nil
}

// Submit validates and scores an attempt for the current row.
//
// Validation (no state change on failure):
//   - Session must be in progress (ErrGameOver).
//   - Every one of WordLength cells filled (ErrIncompleteAttempt).
//   - Exactly WordLength letters and present in the WordSource (ErrUnknownWord).
//
// Transitions:
//   - All Correct → Won.
//   - Else last row → Lost.
//   - Else advance to the next row.
func (s *Session) Submit(letters []rune) (Result, error) {
	if s.state.Terminal() {
		return Result{}, ErrGameOver
	}
	attempt := normalize(letters)
	if filled(attempt) < WordLength {
		return Result{}, ErrIncompleteAttempt
	}
	if len(attempt) != WordLength || !s.words.IsValidWord(string(attempt)) {
		return Result{}, ErrUnknownWord
	}
	marks, err := Score(s.secret, attempt)
	if err != nil {
		return Result{}, err
	}

	row := &s.rows[s.current]
	row.Letters = attempt
	row.Marks = marks
	s.keyboard = s.keyboard.Fold(attempt, marks)

	switch {
	case allCorrect(marks):
		s.finish(StateWon)
	case s.current == len(s.rows)-1:
		s.finish(StateLost)
	default:
		s.current++
	}

	out := make([]Mark, len(marks))
	copy(out, marks)
	return Result{Marks: out, State: s.state, CurrentRow: s.current}, nil
}

// SubmitWord is Submit for a string.
func (s *Session) SubmitWord(word string) (Result, error) {
	return s.Submit([]rune(strings.TrimSpace(word)))
}

// SubmitDraft submits the letters typed into the current row.
func (s *Session) SubmitDraft() (Result, error) {
	if s.state.Terminal() {
		return Result{}, ErrGameOver
	}
	draft := append([]rune(nil), s.rows[s.current].Letters...)
	return s.Submit(draft)
}

// Type appends a letter to the current row's draft.
// When the row is full the last cell is overwritten.
func (s *Session) Type(r rune) error {
	if s.state.Terminal() {
		return ErrGameOver
	}
	if !unicode.IsLetter(r) {
		return ErrInvalidLetter
	}
	row := &s.rows[s.current]
	r = unicode.ToLower(r)
	if len(row.Letters) == WordLength {
		row.Letters[WordLength-1] = r
		return nil
	}
	row.Letters = append(row.Letters, r)
	return nil
}

// Backspace removes the last letter of the current row's draft.
func (s *Session) Backspace() {
	if s.state.Terminal() {
		return
	}
	row := &s.rows[s.current]
	if n := len(row.Letters); n > 0 {
		row.Letters = row.Letters[:n-1]
	}
}

// RequestHint reveals one letter of the secret not yet placed Correct.
// The single hint is consumed even when no letter is left to reveal (ok=false).
func (s *Session) RequestHint() (letter rune, ok bool, err error) {
	if s.hintUsed || s.state.Terminal() {
		return 0, false, ErrHintUnavailable
	}
	letter, ok = SelectHint(s.secret, s.rows, s.current, s.rand)
	s.hintUsed = true
	return letter, ok, nil
}

// HintUsed reports whether the session's hint has been consumed.
func (s *Session) HintUsed() bool { return s.hintUsed }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Status returns state, current row and attempt budget.
func (s *Session) Status() Status {
	return Status{State: s.state, CurrentRow: s.current, MaxAttempts: len(s.rows)}
}

// Keyboard returns a copy of the aggregated keyboard.
func (s *Session) Keyboard() Keyboard { return s.keyboard.Clone() }

// Attempts returns the number of sealed rows.
func (s *Session) Attempts() int {
	n := 0
	for _, r := range s.rows {
		if r.Sealed() {
			n++
		}
	}
	return n
}

// Secret returns the secret once the session is over.
func (s *Session) Secret() (string, bool) {
	if !s.state.Terminal() {
		return "", false
	}
	return string(s.secret), true
}

// Rows returns a deep copy of the grid.
func (s *Session) Rows() []Row {
	out := make([]Row, len(s.rows))
	for i, r := range s.rows {
		out[i].Letters = append([]rune(nil), r.Letters...)
		if r.Marks != nil {
			out[i].Marks = append([]Mark(nil), r.Marks...)
		}
	}
	return out
}

func (s *Session) finish(st State) {
	s.state = st
	s.FinishedAt = s.now()
}

// normalize lowercases and NFC-composes letters, matching how word lists are
// stored. Blanks stay as unfilled cells.
func normalize(letters []rune) []rune {
	out := []rune(norm.NFC.String(string(letters)))
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// filled counts leading non-blank cells.
func filled(letters []rune) int {
	for i, r := range letters {
		if r == 0 || unicode.IsSpace(r) {
			return i
		}
	}
	return len(letters)
}
