// Package daily picks one shared secret per calendar day.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/palavramestre/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Source is a game.WordSource whose secret depends only on the date and salt.
type Source struct {
	list *words.List
	salt string
	now  func() time.Time
}

// NewSource wraps list. now defaults to time.Now.
func NewSource(list *words.List, salt string, now func() time.Time) *Source {
	if now == nil {
		now = time.Now
	}
	return &Source{list: list, salt: salt, now: now}
}

// PickSecret returns today's word.
func (s *Source) PickSecret() (string, error) {
	if s.list.Len() == 0 {
		return "", words.ErrEmptyWordList
	}
	return s.list.Word(WordIndex(s.now(), s.salt, s.list.Len())), nil
}

func (s *Source) IsValidWord(candidate string) bool { return s.list.IsValidWord(candidate) }

func (s *Source) Definition(word string) (string, bool) { return s.list.Definition(word) }

// Date returns today's key.
func (s *Source) Date() string { return DateKey(s.now()) }
