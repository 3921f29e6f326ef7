// Package readability computes the Flesch reading-ease score of English text.
package readability

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"synopsis-scorer/internal/segmenter"
)

// ErrDegenerate is returned for text the formula is undefined on: no words,
// no sentences or no countable syllables.
var ErrDegenerate = errors.New("readability: text has no measurable words")

// Stats are the counts the reading-ease formula is built from.
type Stats struct {
	Sentences int
	Words     int
	Syllables int
}

var (
	silentSuffixRe = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	vowelGroupRe   = regexp.MustCompile(`[aeiouy]+`)
)

// Analyze counts sentences, words and syllables of text. A word is a run of
// letters, digits and apostrophes; only letters carry syllables.
func Analyze(text string) Stats {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	s := Stats{Sentences: segmenter.Count(text)}
	for _, w := range words {
		if strings.Trim(w, "'") == "" {
			continue
		}
		s.Words++
		s.Syllables += CountSyllables(w)
	}
	return s
}

// FleschReadingEase returns 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words).
// Typical prose lands between 0 and 100 but the value is unbounded.
func FleschReadingEase(text string) (float64, error) {
	s := Analyze(text)
	if s.Words == 0 || s.Sentences == 0 || s.Syllables == 0 {
		return 0, ErrDegenerate
	}
	wordsPerSentence := float64(s.Words) / float64(s.Sentences)
	syllablesPerWord := float64(s.Syllables) / float64(s.Words)
	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord, nil
}

// CountSyllables estimates the syllables of one English word by counting
// vowel groups after dropping a silent final e/es/ed. Words without letters
// have none; any other word has at least one.
func CountSyllables(word string) int {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	w := b.String()
	if w == "" {
		return 0
	}
	if len(w) <= 3 {
		return 1
	}

	w = silentSuffixRe.ReplaceAllString(w, "")
	w = strings.TrimPrefix(w, "y")
	if n := len(vowelGroupRe.FindAllString(w, -1)); n > 0 {
		return n
	}
	return 1
}
