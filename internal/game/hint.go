package game

import "github.com/robalobadob/palavramestre/internal/rng"

// SelectHint picks a secret letter the player has not yet placed.
//
// A position counts as revealed when some sealed row in 0..currentRow holds the
// secret's letter there marked Correct. Letters of unrevealed positions are
// collected without duplicates (in secret order) and one is drawn from r.
// ok is false when every position is revealed.
func SelectHint(secret []rune, grid []Row, currentRow int, r rng.Source) (letter rune, ok bool) {
	var candidates []rune
	seen := make(map[rune]bool, len(secret))
	for pos, c := range secret {
		if revealedAt(grid, currentRow, pos, c) || seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[r.Intn(len(candidates))], true
}

func revealedAt(grid []Row, currentRow, pos int, c rune) bool {
	for i := 0; i <= currentRow && i < len(grid); i++ {
		row := grid[i]
		if !row.Sealed() || pos >= len(row.Marks) || pos >= len(row.Letters) {
			continue
		}
		if row.Marks[pos] == MarkCorrect && row.Letters[pos] == c {
			return true
		}
	}
	return false
}
