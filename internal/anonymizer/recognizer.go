package anonymizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

const personLabel = "PERSON"

// ProseRecognizer finds PERSON entities with prose's English NER model. The
// model is deserialised on first use and shared by later calls.
type ProseRecognizer struct {
	once  sync.Once
	model *prose.Model
	err   error
}

func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

func (p *ProseRecognizer) load() (*prose.Model, error) {
	p.once.Do(func() {
		doc, err := prose.NewDocument("Model warmup.", prose.WithSegmentation(false))
		if err != nil {
			p.err = fmt.Errorf("failed to load prose model: %w", err)
			return
		}
		p.model = doc.Model
	})
	return p.model, p.err
}

func (p *ProseRecognizer) People(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	model, err := p.load()
	if err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.UsingModel(model))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, ent := range doc.Entities() {
		if ent.Label == personLabel {
			names = append(names, ent.Text)
		}
	}
	return names, nil
}

// Gazetteer matches a fixed list of names as whole words. Word characters
// are Unicode letters, digits and '_'.
type Gazetteer struct {
	re *regexp.Regexp
}

func NewGazetteer(names []string) (*Gazetteer, error) {
	var quoted []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			quoted = append(quoted, regexp.QuoteMeta(n))
		}
	}
	if len(quoted) == 0 {
		return &Gazetteer{}, nil
	}
	// longest first so a name wins over its own prefix
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	re, err := regexp.Compile(strings.Join(quoted, "|"))
	if err != nil {
		return nil, fmt.Errorf("failed to compile known names: %w", err)
	}
	return &Gazetteer{re: re}, nil
}

func (g *Gazetteer) People(text string) ([]string, error) {
	if g.re == nil {
		return nil, nil
	}
	var names []string
	for i := 0; i < len(text); {
		loc := g.re.FindStringIndex(text[i:])
		if loc == nil {
			break
		}
		start, end := i+loc[0], i+loc[1]
		if wholeWord(text, start, end) {
			names = append(names, text[start:end])
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return names, nil
}

func wholeWord(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
