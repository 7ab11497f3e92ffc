// internal/game/types.go
//
// Core type definitions for the word-guessing engine.
// Defines:
//   - Mark: per-letter classification of an attempt (absent/present/correct).
//   - Difficulty: preset controlling the attempt budget.
//   - State: session lifecycle (in_progress → won | lost).
//   - Row: one line of the guess grid, a draft until sealed with marks.

package game

import (
	"errors"
	"fmt"
	"strings"
)

// WordLength is the fixed number of letters in every secret and attempt.
const WordLength = 5

// Mark is the evaluation result for a single letter.
// Values are ordered by strength so the keyboard can keep the maximum.
type Mark int

const (
	MarkNone    Mark = iota // no information yet (keyboard only)
	MarkAbsent              // letter is not in the secret (or all copies already claimed)
	MarkPresent             // letter is in the secret at another position
	MarkCorrect             // letter is in the secret at this position
)

func (m Mark) String() string {
	switch m {
	case MarkAbsent:
		return "absent"
	case MarkPresent:
		return "present"
	case MarkCorrect:
		return "correct"
	default:
		return "none"
	}
}

// MarshalText encodes marks as their names in JSON.
func (m Mark) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mark) UnmarshalText(b []byte) error {
	for _, v := range []Mark{MarkNone, MarkAbsent, MarkPresent, MarkCorrect} {
		if v.String() == string(b) {
			*m = v
			return nil
		}
	}
	return fmt.Errorf("unknown mark %q", b)
}

// Difficulty selects how many attempts a session allows.
// The zero value is Medium, the default.
type Difficulty int

const (
	DifficultyMedium Difficulty = iota
	DifficultyEasy
	DifficultyHard
)

// ErrUnknownDifficulty is returned by ParseDifficulty for unrecognized names.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// MaxAttempts returns the attempt budget: Easy 7, Medium 6, Hard 4.
func (d Difficulty) MaxAttempts() int {
	switch d {
	case DifficultyEasy:
		return 7
	case DifficultyHard:
		return 4
	default:
		return 6
	}
}

// Next cycles Easy → Medium → Hard → Easy.
func (d Difficulty) Next() Difficulty {
	switch d {
	case DifficultyEasy:
		return DifficultyMedium
	case DifficultyMedium:
		return DifficultyHard
	default:
		return DifficultyEasy
	}
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	default:
		return "medium"
	}
}

// ParseDifficulty accepts easy|medium|hard and the Portuguese facil|medio|dificil.
// An empty string means the default (Medium).
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "medium", "medio", "médio":
		return DifficultyMedium, nil
	case "easy", "facil", "fácil":
		return DifficultyEasy, nil
	case "hard", "dificil", "difícil":
		return DifficultyHard, nil
	}
	return DifficultyMedium, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// State is the session lifecycle. Won and Lost are terminal.
type State int

const (
	StateInProgress State = iota
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "in_progress"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for _, v := range []State{StateInProgress, StateWon, StateLost} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Terminal reports whether no further attempts or hints are accepted.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// Row is one line of the guess grid.
// Letters holds the draft while the row is open; Marks is nil until sealed.
type Row struct {
	Letters []rune
	Marks   []Mark
}

// Sealed reports whether the row has been scored.
func (r Row) Sealed() bool { return r.Marks != nil }
