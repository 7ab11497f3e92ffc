package game

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch means Score was called with words of different lengths.
// Callers validate length first, so this signals a programming error.
var ErrLengthMismatch = errors.New("attempt length does not match secret")

// Score implements the two-pass duplicate-safe scoring algorithm.
//
// Pass 1:
//   - Mark exact matches Correct.
//   - Count the remaining (unmatched) secret letters.
//
// Pass 2:
//   - For each non-correct attempt letter: if a copy remains, mark Present
//     and consume it; otherwise mark Absent.
//
// For any letter, Correct+Present never exceeds its count in the secret.
func Score(secret, attempt []rune) ([]Mark, error) {
	if len(attempt) != len(secret) {
		return nil, fmt.Errorf("%w: secret has %d letters, attempt has %d", ErrLengthMismatch, len(secret), len(attempt))
	}
	n := len(secret)
	marks := make([]Mark, n)
	remaining := make(map[rune]int, n)

	for i := 0; i < n; i++ {
		if attempt[i] == secret[i] {
			marks[i] = MarkCorrect
		} else {
			remaining[secret[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if marks[i] == MarkCorrect {
			continue
		}
		if c := attempt[i]; remaining[c] > 0 {
			marks[i] = MarkPresent
			remaining[c]--
		} else {
			marks[i] = MarkAbsent
		}
	}
	return marks, nil
}

// ScoreWord is Score over strings, compared rune by rune.
func ScoreWord(secret, attempt string) ([]Mark, error) {
	return Score([]rune(secret), []rune(attempt))
}

// allCorrect reports whether every mark is Correct.
func allCorrect(m []Mark) bool {
	for _, x := range m {
		if x != MarkCorrect {
			return false
		}
	}
	return len(m) > 0
}
