// internal/words/words.go
//
// Word source for the game engine.
//
// Responsibilities:
//   - Hold one normalized word list used both for secret draws and attempt validation.
//   - Pick secrets uniformly with an injected random source.
//   - Answer case-insensitive membership queries.
//   - Look up optional definitions keyed by the exact secret.
//
// Constraints:
//   • Words must be game.WordLength letters (counted as runes, so "força" fits).
//   • Entries are trimmed, lowercased (Portuguese casing rules) and NFC-normalized.
//   • Entries that fail the constraints are dropped; duplicates collapse.

package words

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/robalobadob/palavramestre/internal/game"
	"github.com/robalobadob/palavramestre/internal/rng"
)

// ErrEmptyWordList means no usable words were configured.
// It is a configuration error, not a per-request failure.
var ErrEmptyWordList = errors.New("words: word list is empty")

// List is an immutable word list. Safe for concurrent reads as long as the
// injected rng.Source is.
type List struct {
	words []string
	set   map[string]struct{}
	defs  map[string]string
	rand  rng.Source
}

// Option customizes New.
type Option func(*List)

// WithRand sets the source used by PickSecret (default crypto/rand).
func WithRand(r rng.Source) Option { return func(l *List) { l.rand = r } }

// WithDefinitions attaches a word → definition lookup.
func WithDefinitions(defs map[string]string) Option {
	return func(l *List) {
		for w, d := range defs {
			l.defs[Normalize(w)] = strings.TrimSpace(d)
		}
	}
}

// New builds a List from raw entries.
func New(raw []string, opts ...Option) *List {
	l := &List{
		set:  make(map[string]struct{}, len(raw)),
		defs: make(map[string]string),
		rand: rng.Crypto(),
	}
	for _, s := range raw {
		w := Normalize(s)
		if !isWord(w) {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.words = append(l.words, w)
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// PickSecret returns a uniformly drawn word.
func (l *List) PickSecret() (string, error) {
	if len(l.words) == 0 {
		return "", ErrEmptyWordList
	}
	return l.words[l.rand.Intn(len(l.words))], nil
}

// IsValidWord reports whether candidate (any case) is in the list.
func (l *List) IsValidWord(candidate string) bool {
	_, ok := l.set[Normalize(candidate)]
	return ok
}

// Definition returns the definition for word, if one was configured.
func (l *List) Definition(word string) (string, bool) {
	d, ok := l.defs[Normalize(word)]
	return d, ok && d != ""
}

// Word returns the i-th word; used by deterministic pickers.
func (l *List) Word(i int) string { return l.words[i] }

// Len returns the number of usable words.
func (l *List) Len() int { return len(l.words) }

// Words returns a copy of the list in load order.
func (l *List) Words() []string { return append([]string(nil), l.words...) }

// Normalize trims, lowercases and NFC-composes s.
func Normalize(s string) string {
	lower := cases.Lower(language.BrazilianPortuguese).String(strings.TrimSpace(s))
	return norm.NFC.String(lower)
}

// isWord reports whether w is exactly game.WordLength letters.
func isWord(w string) bool {
	if utf8.RuneCountInString(w) != game.WordLength {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
