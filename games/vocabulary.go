/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Vocabulary is a sorted set of distinct words usable as cards and clues.
type Vocabulary struct {
	words []string
	index map[string]struct{}
}

// NewVocabulary deduplicates and sorts words. Empty entries are dropped.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]struct{}, len(words))}

	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := v.index[w]; ok {
			continue
		}
		v.index[w] = struct{}{}
		v.words = append(v.words, w)
	}

	slices.Sort(v.words)

	return v
}

// ReadVocabulary reads one word per line, keeping entries that start with a
// lowercase letter and contain no apostrophe or whitespace.
func ReadVocabulary(r io.Reader) (*Vocabulary, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if !usableWord(w) {
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	return NewVocabulary(words), nil
}

func usableWord(w string) bool {
	if w == "" || w[0] < 'a' || w[0] > 'z' {
		return false
	}
	return !strings.ContainsAny(w, "' \t")
}

func (v *Vocabulary) Len() int {
	return len(v.words)
}

func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.index[word]
	return ok
}

// Words returns a copy of the sorted word list.
func (v *Vocabulary) Words() []string {
	return slices.Clone(v.words)
}
