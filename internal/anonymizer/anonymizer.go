// Package anonymizer redacts dates and person names from free text.
package anonymizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"synopsis-scorer/internal/config"
	"synopsis-scorer/internal/models"
)

// PersonRecognizer finds person names in text, in order of appearance.
type PersonRecognizer interface {
	People(text string) ([]string, error)
}

type Anonymizer struct {
	dateRe          *regexp.Regexp
	recognizers     []PersonRecognizer
	datePlaceholder string
	nameFormat      string
}

// New returns an Anonymizer using the given recognisers; names found by any
// of them are redacted.
func New(cfg config.AnonymizerConfig, recognizers ...PersonRecognizer) *Anonymizer {
	a := &Anonymizer{
		dateRe:          regexp.MustCompile(models.DateRegex),
		recognizers:     recognizers,
		datePlaceholder: cfg.DatePlaceholder,
		nameFormat:      cfg.NameFormat,
	}
	if a.datePlaceholder == "" {
		a.datePlaceholder = "<DATE>"
	}
	if a.nameFormat == "" {
		a.nameFormat = "<NAME_%d>"
	}
	return a
}

// NewFromConfig wires the prose entity recogniser and, when configured, a
// gazetteer of known names.
func NewFromConfig(cfg config.AnonymizerConfig) (*Anonymizer, error) {
	recognizers := []PersonRecognizer{NewProseRecognizer()}
	if len(cfg.KnownNames) > 0 {
		g, err := NewGazetteer(cfg.KnownNames)
		if err != nil {
			return nil, err
		}
		recognizers = append(recognizers, g)
	}
	return New(cfg, recognizers...), nil
}

// Anonymize replaces every date with the date placeholder, then every person
// name with a numbered placeholder. Each distinct name gets its own number,
// assigned in order of first appearance.
func (a *Anonymizer) Anonymize(text string) string {
	text = a.dateRe.ReplaceAllString(text, a.datePlaceholder)

	names := a.people(text)
	if len(names) == 0 {
		return text
	}

	placeholders := make(map[string]string, len(names))
	for _, name := range names {
		if _, ok := placeholders[name]; !ok {
			placeholders[name] = fmt.Sprintf(a.nameFormat, len(placeholders)+1)
		}
	}

	// longer names first so "Ann" never splits "Anna"
	ordered := make([]string, 0, len(placeholders))
	for name := range placeholders {
		ordered = append(ordered, name)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	pairs := make([]string, 0, 2*len(ordered))
	for _, name := range ordered {
		pairs = append(pairs, name, placeholders[name])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// people merges the names of all recognisers, sorted by first position in
// text.
func (a *Anonymizer) people(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range a.recognizers {
		found, err := r.People(text)
		if err != nil {
			log.Warn().Err(err).Msg("Person recognition failed")
			continue
		}
		for _, name := range found {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] || !strings.Contains(text, name) {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.Index(text, names[i]) < strings.Index(text, names[j])
	})
	return names
}
