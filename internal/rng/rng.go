// internal/rng/rng.go
//
// Random sources for secret-word draws and hint picks.
// The game core never touches a global generator; callers inject a Source.
//
//   - Crypto():   crypto/rand backed, the default for real play.
//   - Seeded(n):  math/rand backed, repeatable across runs (CLI --seed, tests).
//   - Fixed(i):   always returns i (clamped), for tests that need an exact pick.

package rng

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	mrand "math/rand"
)

// Source returns a uniformly distributed int in [0, n). n must be > 0.
type Source interface {
	Intn(n int) int
}

type cryptoSource struct {
	r io.Reader
}

// Crypto returns a Source drawing from crypto/rand.
func Crypto() Source { return cryptoSource{r: rand.Reader} }

// Intn panics if the reader fails.
func (c cryptoSource) Intn(n int) int {
	nBig, err := rand.Int(c.r, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("rng: crypto/rand: %v", err))
	}
	return int(nBig.Int64())
}

// Seeded returns a deterministic Source for the given seed.
// The returned Source is not safe for concurrent use.
func Seeded(seed int64) Source {
	return mrand.New(mrand.NewSource(seed))
}

// Fixed is a stub Source that always picks the same index.
type Fixed int

func (f Fixed) Intn(n int) int {
	i := int(f)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
