package classifier

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule maps a label to the keywords that select it. Keywords match
// case-insensitively on word boundaries; Acronyms match case-sensitively.
type Rule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
	Acronyms []string `yaml:"acronyms"`
}

// Vocabulary is the ordered rule set for both dimensions. Earlier rules win.
type Vocabulary struct {
	Countries       []Rule `yaml:"countries"`
	Categories      []Rule `yaml:"categories"`
	DefaultCountry  string `yaml:"default_country"`
	DefaultCategory string `yaml:"default_category"`
}

// DefaultVocabulary returns the built-in country and category tables.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Countries: []Rule{
			{Label: "India", Keywords: []string{"india", "indian"}},
			{Label: "USA", Keywords: []string{"america", "american", "united states"}, Acronyms: []string{"US", "USA", "U.S."}},
			{Label: "UK", Keywords: []string{"britain", "british", "united kingdom", "england"}, Acronyms: []string{"UK", "U.K."}},
			{Label: "China", Keywords: []string{"china", "chinese", "beijing"}},
			{Label: "Germany", Keywords: []string{"germany", "german", "berlin"}},
		},
		Categories: []Rule{
			{Label: "Finance", Keywords: []string{"finance", "financial", "stock", "stocks", "shares", "banking"}},
			{Label: "Technology", Keywords: []string{"tech", "technology", "software", "ai", "artificial intelligence", "startup", "chip", "semiconductor"}},
			{Label: "Sports", Keywords: []string{"sport", "sports", "cricket", "football", "olympics"}},
			{Label: "Health", Keywords: []string{"health", "medicine", "medical", "hospital", "vaccine"}},
			{Label: "Trade", Keywords: []string{"trade", "tariff", "tariffs", "import", "imports", "export", "exports"}},
			{Label: "Economy", Keywords: []string{"economy", "economic", "gdp", "inflation"}},
			{Label: "Politics", Keywords: []string{"election", "elections", "government", "policy", "parliament"}},
		},
		DefaultCountry:  "Global",
		DefaultCategory: "General",
	}
}

// LoadVocabulary reads a YAML vocabulary file. Missing defaults are filled
// from the built-in tables.
// The path is expected to come from trusted configuration.
func LoadVocabulary(path string) (Vocabulary, error) {
	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	defaults := DefaultVocabulary()
	if v.DefaultCountry == "" {
		v.DefaultCountry = defaults.DefaultCountry
	}
	if v.DefaultCategory == "" {
		v.DefaultCategory = defaults.DefaultCategory
	}

	if err := v.Validate(); err != nil {
		return Vocabulary{}, fmt.Errorf("vocabulary validation failed: %w", err)
	}
	return v, nil
}

// Validate checks that every rule has a label and at least one term.
func (v Vocabulary) Validate() error {
	if len(v.Countries) == 0 {
		return errors.New("at least one country rule is required")
	}
	if len(v.Categories) == 0 {
		return errors.New("at least one category rule is required")
	}
	for _, set := range [][]Rule{v.Countries, v.Categories} {
		for i, r := range set {
			if r.Label == "" {
				return fmt.Errorf("rule %d: label is required", i)
			}
			if len(r.Keywords)+len(r.Acronyms) == 0 {
				return fmt.Errorf("rule %q: at least one keyword or acronym is required", r.Label)
			}
		}
	}
	return nil
}
