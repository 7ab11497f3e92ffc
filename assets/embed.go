// Package assets embeds the default word list, dictionary and SQL migrations
// so the binary runs without any files configured.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words.txt dictionary.yaml sql/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WordList returns the embedded word list, one entry per non-comment line.
func WordList() ([]string, error) {
	return readLines("words.txt")
}

// Dictionary returns the raw embedded word → definition YAML.
func Dictionary() ([]byte, error) {
	return FS.ReadFile("dictionary.yaml")
}

// Migrations returns the embedded sql/ directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
