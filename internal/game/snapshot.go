package game

// RowView is a JSON-friendly row.
type RowView struct {
	Letters string `json:"letters"`
	Marks   []Mark `json:"marks,omitempty"`
}

// Snapshot is a read-only view of a session for presentation layers.
// Secret and Definition are only filled once the session is over.
type Snapshot struct {
	ID          string          `json:"id"`
	Difficulty  Difficulty      `json:"difficulty"`
	State       State           `json:"state"`
	CurrentRow  int             `json:"currentRow"`
	MaxAttempts int             `json:"maxAttempts"`
	WordLength  int             `json:"wordLength"`
	Rows        []RowView       `json:"rows"`
	Keyboard    map[string]Mark `json:"keyboard"`
	HintUsed    bool            `json:"hintUsed"`
	Secret      string          `json:"secret,omitempty"`
	Definition  string          `json:"definition,omitempty"`
}

// Snapshot builds a view of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		Difficulty:  s.Difficulty,
		State:       s.state,
		CurrentRow:  s.current,
		MaxAttempts: len(s.rows),
		WordLength:  WordLength,
		Rows:        make([]RowView, len(s.rows)),
		Keyboard:    s.keyboard.Strings(),
		HintUsed:    s.hintUsed,
	}
	for i, r := range s.rows {
		snap.Rows[i] = RowView{Letters: string(r.Letters)}
		if r.Marks != nil {
			snap.Rows[i].Marks = append([]Mark(nil), r.Marks...)
		}
	}
	if secret, ok := s.Secret(); ok {
		snap.Secret = secret
		if d, ok := s.words.(Definer); ok {
			snap.Definition, _ = d.Definition(secret)
		}
	}
	return snap
}
