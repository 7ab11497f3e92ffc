package words

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/palavramestre/assets"
)

// Load builds a List from files, falling back to the embedded defaults.
//
//   - wordsPath: one word per line, '#' comments; empty → assets/words.txt.
//   - dictPath:  YAML (or JSON) mapping word → definition; empty → assets/dictionary.yaml.
//
// Returns ErrEmptyWordList (wrapped) if no usable word survives normalization.
func Load(wordsPath, dictPath string, opts ...Option) (*List, error) {
	var (
		raw []string
		err error
	)
	if wordsPath != "" {
		raw, err = readWordFile(wordsPath)
	} else {
		raw, err = assets.WordList()
	}
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}

	var dictBytes []byte
	if dictPath != "" {
		dictBytes, err = os.ReadFile(dictPath)
	} else {
		dictBytes, err = assets.Dictionary()
	}
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	defs, err := ParseDictionary(dictBytes)
	if err != nil {
		return nil, err
	}

	l := New(raw, append([]Option{WithDefinitions(defs)}, opts...)...)
	if l.Len() == 0 {
		src := wordsPath
		if src == "" {
			src = "embedded list"
		}
		return nil, fmt.Errorf("%s: %w", src, ErrEmptyWordList)
	}
	return l, nil
}

// ParseDictionary decodes a word → definition mapping.
func ParseDictionary(b []byte) (map[string]string, error) {
	defs := map[string]string{}
	if err := yaml.Unmarshal(b, &defs); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return defs, nil
}

// readWordFile loads one entry per line, skipping blanks and '#' comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}
