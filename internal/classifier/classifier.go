// Package classifier assigns a country and a category to article text by
// ordered keyword tables. Classification is pure and deterministic.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"news-extractor/internal/domain/entity"
)

// Word boundaries are any non letter/digit rune, so punctuation such as the
// hyphen in "US-China" separates terms while "bus" does not contain "us".
const (
	leftBoundary  = `(?:^|[^\p{L}\p{N}])`
	rightBoundary = `(?:$|[^\p{L}\p{N}])`
)

type compiledRule struct {
	label    string
	patterns []*regexp.Regexp
}

func (r compiledRule) matches(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Classifier holds the compiled vocabulary. It is safe for concurrent use.
type Classifier struct {
	countries       []compiledRule
	categories      []compiledRule
	defaultCountry  string
	defaultCategory string
}

// New compiles a vocabulary into a Classifier.
func New(v Vocabulary) (*Classifier, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	countries, err := compile(v.Countries)
	if err != nil {
		return nil, err
	}
	categories, err := compile(v.Categories)
	if err != nil {
		return nil, err
	}
	c := &Classifier{
		countries:       countries,
		categories:      categories,
		defaultCountry:  v.DefaultCountry,
		defaultCategory: v.DefaultCategory,
	}
	if c.defaultCountry == "" {
		c.defaultCountry = entity.DefaultCountry
	}
	if c.defaultCategory == "" {
		c.defaultCategory = entity.DefaultCategory
	}
	return c, nil
}

// Default returns a Classifier built from DefaultVocabulary.
func Default() *Classifier {
	c, err := New(DefaultVocabulary())
	if err != nil {
		panic(fmt.Sprintf("classifier: invalid built-in vocabulary: %v", err))
	}
	return c
}

// Classify returns the first matching country and the first matching category.
// Text without any match gets the defaults.
func (c *Classifier) Classify(text string) entity.Classification {
	return entity.Classification{
		Country:  firstMatch(c.countries, text, c.defaultCountry),
		Category: firstMatch(c.categories, text, c.defaultCategory),
	}
}

var builtin = Default()

// Classify classifies text with the built-in vocabulary.
func Classify(text string) entity.Classification {
	return builtin.Classify(text)
}

func firstMatch(rules []compiledRule, text, fallback string) string {
	for _, r := range rules {
		if r.matches(text) {
			return r.label
		}
	}
	return fallback
}

func compile(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{label: r.Label}
		for _, kw := range r.Keywords {
			p, err := termPattern(kw, true)
			if err != nil {
				return nil, fmt.Errorf("rule %q keyword %q: %w", r.Label, kw, err)
			}
			cr.patterns = append(cr.patterns, p)
		}
		for _, ac := range r.Acronyms {
			p, err := termPattern(ac, false)
			if err != nil {
				return nil, fmt.Errorf("rule %q acronym %q: %w", r.Label, ac, err)
			}
			cr.patterns = append(cr.patterns, p)
		}
		out = append(out, cr)
	}
	return out, nil
}

// termPattern builds a boundary-anchored pattern. Spaces inside a
// multi-word term match any run of whitespace.
func termPattern(term string, foldCase bool) (*regexp.Regexp, error) {
	words := strings.Fields(term)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty term")
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	expr := leftBoundary + strings.Join(quoted, `\s+`) + rightBoundary
	if foldCase {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}
