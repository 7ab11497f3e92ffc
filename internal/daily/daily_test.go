package daily

import (
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/palavramestre/internal/words"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ts := time.Date(2026, 3, 1, 22, 30, 0, 0, loc) // 01:30 UTC next day
	if got := DateKey(ts); got != "2026-03-02" {
		t.Fatalf("DateKey = %q, want 2026-03-02", got)
	}
}

func TestWordIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)
	a := WordIndex(day, "salt", 150)
	if b := WordIndex(later, "salt", 150); a != b {
		t.Fatalf("same day gave %d and %d", a, b)
	}
	if a < 0 || a >= 150 {
		t.Fatalf("index %d out of range", a)
	}
	if WordIndex(day, "salt", 0) != 0 {
		t.Fatal("empty list should map to 0")
	}
}

func TestSourcePicksSameWordAllDay(t *testing.T) {
	list := words.New([]string{"plano", "ponte", "praia", "prato", "pedra"})
	now := time.Date(2026, 7, 4, 1, 0, 0, 0, time.UTC)
	src := NewSource(list, "s", func() time.Time { return now })
	first, err := src.PickSecret()
	if err != nil {
		t.Fatalf("PickSecret: %v", err)
	}
	now = now.Add(20 * time.Hour)
	second, _ := src.PickSecret()
	if first != second {
		t.Fatalf("secret changed within the day: %q → %q", first, second)
	}
	if !src.IsValidWord(first) {
		t.Fatalf("secret %q not valid", first)
	}
	if src.Date() != "2026-07-04" {
		t.Fatalf("Date() = %q", src.Date())
	}
}

func TestSourceEmptyList(t *testing.T) {
	src := NewSource(words.New(nil), "s", nil)
	if _, err := src.PickSecret(); !errors.Is(err, words.ErrEmptyWordList) {
		t.Fatalf("error = %v, want %v", err, words.ErrEmptyWordList)
	}
}
