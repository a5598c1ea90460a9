package model

import "strings"

// ReferenceSet is the set of words accepted by a spell checker.
// A nil *ReferenceSet means "no reference set"; use Contains only on
// non-nil sets.
type ReferenceSet struct {
	words map[string]struct{}
}

// NewReferenceSet creates a ReferenceSet containing the given words.
func NewReferenceSet(words ...string) *ReferenceSet {
	rs := &ReferenceSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		rs.Add(w)
	}
	return rs
}

// ParseReferenceSet builds a ReferenceSet from a word list with one word
// per line. A trailing carriage return on each line is ignored and empty
// lines are skipped.
func ParseReferenceSet(text string) *ReferenceSet {
	lines := strings.Split(text, "\n")
	rs := &ReferenceSet{words: make(map[string]struct{}, len(lines))}
	for _, line := range lines {
		if word := strings.TrimSuffix(line, "\r"); word != "" {
			rs.Add(word)
		}
	}
	return rs
}

// Add inserts a word into the set.
func (rs *ReferenceSet) Add(word string) {
	rs.words[word] = struct{}{}
}

// Contains reports whether word is in the set.
func (rs *ReferenceSet) Contains(word string) bool {
	_, ok := rs.words[word]
	return ok
}

// Len returns the number of distinct words in the set.
func (rs *ReferenceSet) Len() int {
	return len(rs.words)
}
