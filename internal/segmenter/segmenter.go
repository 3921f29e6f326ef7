// Package segmenter splits text into sentences on terminal punctuation.
package segmenter

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentences yields the sentences of text in order. A sentence ends at '.',
// '!' or '?' when the next rune is whitespace; the punctuation stays with the
// sentence and the whitespace run is dropped. The sequence can be ranged over
// any number of times.
func Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		trimmed := strings.TrimSpace(text)
		start := 0
		for i := 0; i < len(trimmed); {
			r, size := utf8.DecodeRuneInString(trimmed[i:])
			next := i + size
			if !isTerminal(r) || next >= len(trimmed) {
				i = next
				continue
			}
			ws, _ := utf8.DecodeRuneInString(trimmed[next:])
			if !unicode.IsSpace(ws) {
				i = next
				continue
			}
			if !yield(trimmed[start:next]) {
				return
			}
			i = skipSpace(trimmed, next)
			start = i
		}
		if start < len(trimmed) {
			yield(trimmed[start:])
		}
	}
}

// Split returns all sentences of text.
func Split(text string) []string {
	var out []string
	for s := range Sentences(text) {
		out = append(out, s)
	}
	return out
}

// Count returns the number of sentences without materialising them.
func Count(text string) int {
	n := 0
	for range Sentences(text) {
		n++
	}
	return n
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
