package internal

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// WordBank is a normalized vocabulary: lowercase a-z words, unique, in the
// order they were first seen, with a by-length index.
type WordBank struct {
	words    []string
	byLength map[int][]string
}

// NewWordBank normalizes and validates a raw word list. Words are lowercased
// and must contain only letters a-z; excluded words are dropped.
func NewWordBank(words, excluded []string) (*WordBank, error) {
	excludedSet := make(map[string]bool, len(excluded))
	for _, w := range excluded {
		excludedSet[strings.ToLower(w)] = true
	}

	normalized := lo.Map(words, func(w string, _ int) string {
		return strings.ToLower(strings.TrimSpace(w))
	})

	b := &WordBank{byLength: make(map[int][]string)}
	for _, word := range lo.Uniq(normalized) {
		if word == "" || excludedSet[word] {
			continue
		}
		for _, r := range word {
			if r < 'a' || r > 'z' {
				return nil, fmt.Errorf("word %q contains non-lowercase letter %q", word, r)
			}
		}
		b.words = append(b.words, word)
		b.byLength[len(word)] = append(b.byLength[len(word)], word)
	}
	return b, nil
}

// LoadWordBank reads a vocabulary file, one word per line. Blank lines and
// lines starting with '#' are skipped.
func LoadWordBank(path string, excluded []string) (*WordBank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewWordBank(words, excluded)
}

// Words returns the whole vocabulary in first-seen order.
func (b *WordBank) Words() []string {
	return b.words
}

// OfLength returns the words of exactly n letters, in first-seen order.
func (b *WordBank) OfLength(n int) []string {
	return b.byLength[n]
}

// Len returns the vocabulary size.
func (b *WordBank) Len() int {
	return len(b.words)
}
