package summarizer

import (
	"context"
	"strings"

	"news-extractor/internal/utils/text"
)

// Extractive is an in-process model that keeps the lead sentences of the
// input. It needs no network and never fails on non-empty input.
type Extractive struct{}

// NewExtractive creates an Extractive model.
func NewExtractive() *Extractive {
	return &Extractive{}
}

// Name implements LocalModel.
func (e *Extractive) Name() string { return "extractive" }

// Summarize returns whole leading sentences up to maxLength words. When the
// first sentences fall short of minLength, the next sentence is cut at the
// word budget instead of being dropped.
func (e *Extractive) Summarize(ctx context.Context, input string, maxLength, minLength int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sentences := text.Sentences(input)
	if len(sentences) == 0 {
		return "", ErrEmptyInput
	}
	if maxLength <= 0 {
		maxLength = 200
	}

	var kept []string
	count := 0
	for _, s := range sentences {
		words := text.Words(s)
		if count+len(words) <= maxLength {
			kept = append(kept, s)
			count += len(words)
			continue
		}
		if remaining := maxLength - count; remaining > 0 && count < minLength {
			kept = append(kept, strings.Join(words[:remaining], " "))
		}
		break
	}
	return strings.Join(kept, " "), nil
}
