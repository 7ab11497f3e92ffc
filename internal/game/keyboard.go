package game

// Keyboard records the best-known mark per letter across sealed attempts.
// Marks only ever upgrade: Absent < Present < Correct.
type Keyboard map[rune]Mark

// Upgrade returns the stronger of the recorded and the new mark.
func Upgrade(current, next Mark) Mark {
	if next > current {
		return next
	}
	return current
}

// Update applies one (letter, mark) pair and returns the keyboard.
// A nil keyboard is allocated.
func (k Keyboard) Update(letter rune, m Mark) Keyboard {
	if k == nil {
		k = Keyboard{}
	}
	if m == MarkNone {
		return k
	}
	k[letter] = Upgrade(k[letter], m)
	return k
}

// Fold applies every letter of a sealed attempt.
func (k Keyboard) Fold(attempt []rune, marks []Mark) Keyboard {
	if k == nil {
		k = Keyboard{}
	}
	for i := 0; i < len(attempt) && i < len(marks); i++ {
		k = k.Update(attempt[i], marks[i])
	}
	return k
}

// Get returns the recorded mark, or MarkNone.
func (k Keyboard) Get(letter rune) Mark { return k[letter] }

// Clone returns an independent copy.
func (k Keyboard) Clone() Keyboard {
	out := make(Keyboard, len(k))
	for r, m := range k {
		out[r] = m
	}
	return out
}

// Strings keys the keyboard by letter string, for JSON.
func (k Keyboard) Strings() map[string]Mark {
	out := make(map[string]Mark, len(k))
	for r, m := range k {
		out[string(r)] = m
	}
	return out
}
