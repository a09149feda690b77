package fixture

import (
	"bufio"
	"embed"
	"strings"
	"sync"
	"unicode"
)

//go:embed static
var static embed.FS

var (
	wordsOnce sync.Once
	allowed   map[string]struct{}
	wordList  []string
	wordsErr  error
)

func loadWords() error {
	wordsOnce.Do(func() {
		f, err := static.Open("static/allowed.txt")
		if err != nil {
			wordsErr = err
			return
		}
		defer f.Close()

		allowed = make(map[string]struct{})
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			w := strings.ToLower(strings.TrimSpace(sc.Text()))
			if w == "" || strings.HasPrefix(w, "#") {
				continue
			}
			allowed[w] = struct{}{}
			wordList = append(wordList, w)
		}
		wordsErr = sc.Err()
	})
	return wordsErr
}

// Words returns the guesses the replica page accepts.
func Words() ([]string, error) {
	if err := loadWords(); err != nil {
		return nil, err
	}
	out := make([]string, len(wordList))
	copy(out, wordList)
	return out, nil
}

// IsAllowed reports whether guess is a five letter word the page accepts.
func IsAllowed(guess string) bool {
	if err := loadWords(); err != nil {
		return false
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if len(guess) != Columns || !isAlpha(guess) {
		return false
	}
	_, ok := allowed[guess]
	return ok
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
