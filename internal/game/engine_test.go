package game

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/palavramestre/internal/rng"
)

// stubWords is a WordSource with a fixed secret.
type stubWords struct {
	secret string
	valid  map[string]bool
	defs   map[string]string
	err    error
}

func newStubWords(secret string, list ...string) *stubWords {
	w := &stubWords{secret: secret, valid: map[string]bool{secret: true}}
	for _, s := range list {
		w.valid[s] = true
	}
	return w
}

func (w *stubWords) PickSecret() (string, error) { return w.secret, w.err }

func (w *stubWords) IsValidWord(c string) bool { return w.valid[strings.ToLower(c)] }

func (w *stubWords) Definition(word string) (string, bool) {
	d, ok := w.defs[word]
	return d, ok
}

var errNoWords = errors.New("no words")

func newTestSession(t *testing.T, d Difficulty) *Session {
	t.Helper()
	src := newStubWords("plane", "apple", "plant", "crane", "slate", "dirty", "lapse")
	s, err := New(src, d, WithRand(rng.Fixed(0)), WithID("test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewSessionLayout(t *testing.T) {
	tests := []struct {
		d    Difficulty
		want int
	}{
		{DifficultyEasy, 7},
		{DifficultyMedium, 6},
		{DifficultyHard, 4},
	}
	for _, tt := range tests {
		s := newTestSession(t, tt.d)
		st := s.Status()
		if st.MaxAttempts != tt.want {
			t.Errorf("%v: MaxAttempts = %d, want %d", tt.d, st.MaxAttempts, tt.want)
		}
		if st.State != StateInProgress || st.CurrentRow != 0 {
			t.Errorf("%v: status = %+v, want in progress at row 0", tt.d, st)
		}
		if len(s.Keyboard()) != 0 || s.HintUsed() {
			t.Errorf("%v: fresh session has keyboard or hint state", tt.d)
		}
		if _, ok := s.Secret(); ok {
			t.Errorf("%v: secret exposed while in progress", tt.d)
		}
	}
}

func TestNewSessionPropagatesSourceError(t *testing.T) {
	src := newStubWords("")
	src.err = errNoWords
	_, err := New(src, DifficultyMedium)
	if !errors.Is(err, errNoWords) {
		t.Fatalf("error = %v, want %v", err, errNoWords)
	}
}

func TestNewSessionRejectsWrongLengthSecret(t *testing.T) {
	_, err := New(newStubWords("planes"), DifficultyMedium)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("error = %v, want %v", err, ErrLengthMismatch)
	}
}

func TestNewSessionGeneratesID(t *testing.T) {
	s, err := New(newStubWords("plane"), DifficultyMedium)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected generated ID")
	}
}

func TestSubmitWin(t *testing.T) {
	s := newTestSession(t, DifficultyMedium)
	res, err := s.SubmitWord("PLANE")
	if err != nil {
		t.Fatalf("SubmitWord: %v", err)
	}
	for i, m := range res.Marks {
		if m != MarkCorrect {
			t.Fatalf("mark %d = %v, want correct", i, m)
		}
	}
	if res.State != StateWon || res.CurrentRow != 0 {
		t.Fatalf("result = %+v, want won at row 0", res)
	}
	if secret, ok := s.Secret(); !ok || secret != "plane" {
		t.Fatalf("Secret() = %q, %v", secret, ok)
	}
	if _, err := s.SubmitWord("apple"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("submit after win: %v, want %v", err, ErrGameOver)
	}
	if _, _, err := s.RequestHint(); !errors.Is(err, ErrHintUnavailable) {
		t.Fatalf("hint after win: %v, want %v", err, ErrHintUnavailable)
	}
}

func TestSubmitComposesDecomposedAccents(t *testing.T) {
	src := newStubWords("for\u00e7a", "gra\u00e7a")
	s, err := New(src, DifficultyMedium, WithRand(rng.Fixed(0)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := s.SubmitWord("GRAC\u0327A")
	if err != nil {
		t.Fatalf("SubmitWord(decomposed graça): %v", err)
	}
	want := []Mark{MarkAbsent, MarkPresent, MarkAbsent, MarkCorrect, MarkCorrect}
	if !reflect.DeepEqual(res.Marks, want) {
		t.Fatalf("marks = %v, want %v", res.Marks, want)
	}
	if got := string(s.Rows()[0].Letters); got != "gra\u00e7a" {
		t.Fatalf("row letters = %q, want composed form", got)
	}

	res, err = s.SubmitWord("forc\u0327a")
	if err != nil {
		t.Fatalf("SubmitWord(decomposed força): %v", err)
	}
	if res.State != StateWon {
		t.Fatalf("state = %v, want won", res.State)
	}
}

func TestSubmitRejectsOverlongAsUnknown(t *testing.T) {
	src := newStubWords("plane", "planes")
	s, err := New(src, DifficultyMedium, WithRand(rng.Fixed(0)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.SubmitWord("planes"); !errors.Is(err, ErrUnknownWord) {
		t.Fatalf("SubmitWord(planes) = %v, want %v", err, ErrUnknownWord)
	}
	if s.Attempts() != 0 {
		t.Fatalf("attempts = %d after rejection", s.Attempts())
	}
}

func TestSubmitAppleScenario(t *testing.T) {
	s := newTestSession(t, DifficultyMedium)
	res, err := s.SubmitWord("apple")
	if err != nil {
		t.Fatalf("SubmitWord: %v", err)
	}
	want := []Mark{MarkPresent, MarkPresent, MarkAbsent, MarkPresent, MarkCorrect}
	if !reflect.DeepEqual(res.Marks, want) {
		t.Fatalf("marks = %v, want %v", res.Marks, want)
	}
	if res.State != StateInProgress || res.CurrentRow != 1 {
		t.Fatalf("result = %+v, want in progress at row 1", res)
	}
	if got := s.Keyboard().Get('p'); got != MarkPresent {
		t.Fatalf("keyboard p = %v, want present", got)
	}
}

func TestRejectedSubmissionsLeaveSessionUnchanged(t *testing.T) {
	s := newTestSession(t, DifficultyMedium)
	if _, err := s.SubmitWord("apple"); err != nil {
		t.Fatalf("SubmitWord: %v", err)
	}
	before := s.Snapshot()

	tests := []struct {
		input string
		want  error
	}{
		{"pla", ErrIncompleteAttempt},
		{"", ErrIncompleteAttempt},
		{"pl ne", ErrIncompleteAttempt},
		{"zzzzz", ErrUnknownWord},
		{"planes", ErrUnknownWord},
	}
	for _, tt := range tests {
		if _, err := s.SubmitWord(tt.input); !errors.Is(err, tt.want) {
			t.Errorf("SubmitWord(%q) = %v, want %v", tt.input, err, tt.want)
		}
		if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
			t.Fatalf("SubmitWord(%q) mutated session:\nbefore %+v\nafter  %+v", tt.input, before, after)
		}
	}
}

func TestLostAfterMaxAttempts(t *testing.T) {
	s := newTestSession(t, DifficultyHard)
	guesses := []string{"apple", "slate", "dirty", "lapse"}
	var res Result
	for i, g := range guesses {
		var err error
		res, err = s.SubmitWord(g)
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if i < len(guesses)-1 && res.State != StateInProgress {
			t.Fatalf("guess %d: state %v, want in progress", i, res.State)
		}
	}
	if res.State != StateLost || res.CurrentRow != 3 {
		t.Fatalf("final result = %+v, want lost at row 3", res)
	}
	if s.Attempts() != 4 {
		t.Fatalf("Attempts() = %d, want 4", s.Attempts())
	}
	if _, err := s.SubmitWord("plane"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("submit after loss: %v, want %v", err, ErrGameOver)
	}
}

func TestKeyboardMonotonicAcrossAttempts(t *testing.T) {
	s := newTestSession(t, DifficultyEasy)
	prev := s.Keyboard()
	for _, g := range []string{"dirty", "apple", "slate", "plant", "crane"} {
		if _, err := s.SubmitWord(g); err != nil {
			t.Fatalf("SubmitWord(%q): %v", g, err)
		}
		cur := s.Keyboard()
		for r, m := range prev {
			if cur.Get(r) < m {
				t.Fatalf("after %q: %q went %v → %v", g, r, m, cur.Get(r))
			}
		}
		prev = cur
	}
}

func TestRequestHintOncePerSession(t *testing.T) {
	s := newTestSession(t, DifficultyMedium)
	if _, err := s.SubmitWord("apple"); err != nil {
		t.Fatalf("SubmitWord: %v", err)
	}
	letter, ok, err := s.RequestHint()
	if err != nil || !ok {
		t.Fatalf("RequestHint = %q, %v, %v", letter, ok, err)
	}
	if letter != 'p' {
		t.Fatalf("hint = %q, want p", letter)
	}
	if _, _, err := s.RequestHint(); !errors.Is(err, ErrHintUnavailable) {
		t.Fatalf("second hint: %v, want %v", err, ErrHintUnavailable)
	}
}

func TestRequestHintConsumedWhenNothingLeft(t *testing.T) {
	s := newTestSession(t, DifficultyMedium)
	for _, g := range []string{"plant", "crane"} {
		if _, err := s.SubmitWord(g); err != nil {
			t.Fatalf("SubmitWord(%q): %v", g, err)
		}
	}
	_, ok, err := s.RequestHint()
	if err != nil {
		t.Fatalf("RequestHint: %v", err)
	}
	if ok {
		t.Fatal("expected no useful hint")
	}
	if !s.HintUsed() {
		t.Fatal("hint should be consumed")
	}
	if _, _, err := s.RequestHint(); !errors.Is(err, ErrHintUnavailable) {
		t.Fatalf("second hint: %v, want %v", err, ErrHintUnavailable)
	}
}

func TestDraftEditing(t *testing.T) {
	s := newTestSession(t, DifficultyMedium)
	for _, r := range "PLAN" {
		if err := s.Type(r); err != nil {
			t.Fatalf("Type(%q): %v", r, err)
		}
	}
	if err := s.Type('1'); !errors.Is(err, ErrInvalidLetter) {
		t.Fatalf("Type('1') = %v, want %v", err, ErrInvalidLetter)
	}
	if _, err := s.SubmitDraft(); !errors.Is(err, ErrIncompleteAttempt) {
		t.Fatalf("SubmitDraft = %v, want %v", err, ErrIncompleteAttempt)
	}
	if got := s.Snapshot().Rows[0].Letters; got != "plan" {
		t.Fatalf("draft = %q after rejected submit, want plan", got)
	}

	_ = s.Type('x')
	_ = s.Type('e') // full row: overwrites the last cell
	if got := s.Snapshot().Rows[0].Letters; got != "plane" {
		t.Fatalf("draft = %q, want plane", got)
	}
	s.Backspace()
	_ = s.Type('t')
	res, err := s.SubmitDraft()
	if err != nil {
		t.Fatalf("SubmitDraft: %v", err)
	}
	if res.State != StateInProgress || res.CurrentRow != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestSnapshotRevealsSecretAndDefinitionOnlyWhenOver(t *testing.T) {
	src := newStubWords("plane", "apple")
	src.defs = map[string]string{"plane": "a flat surface"}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, err := New(src, DifficultyMedium, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if snap := s.Snapshot(); snap.Secret != "" || snap.Definition != "" {
		t.Fatalf("snapshot leaks secret: %+v", snap)
	}
	if _, err := s.SubmitWord("plane"); err != nil {
		t.Fatalf("SubmitWord: %v", err)
	}
	snap := s.Snapshot()
	if snap.Secret != "plane" || snap.Definition != "a flat surface" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if !s.FinishedAt.Equal(now) {
		t.Fatalf("FinishedAt = %v, want %v", s.FinishedAt, now)
	}
}

func TestResultJSON(t *testing.T) {
	b, err := json.Marshal(Result{Marks: []Mark{MarkCorrect, MarkAbsent}, State: StateWon})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"marks":["correct","absent"],"state":"won","currentRow":0}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
	}{
		{"easy", DifficultyEasy},
		{"facil", DifficultyEasy},
		{"Medium", DifficultyMedium},
		{"", DifficultyMedium},
		{"dificil", DifficultyHard},
		{"hard", DifficultyHard},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseDifficulty("nightmare"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("error = %v, want %v", err, ErrUnknownDifficulty)
	}
}

func TestDifficultyNextCycles(t *testing.T) {
	d := DifficultyEasy
	want := []Difficulty{DifficultyMedium, DifficultyHard, DifficultyEasy}
	for _, w := range want {
		d = d.Next()
		if d != w {
			t.Fatalf("Next() = %v, want %v", d, w)
		}
	}
}
