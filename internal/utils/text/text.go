// Package text provides rune-safe helpers for truncating, chunking and
// splitting article text.
package text

import (
	"strings"
	"unicode"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
func CountRunes(s string) int {
	return len([]rune(s))
}

// Truncate returns the first max runes of s. A non-positive max returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Chunk splits s into consecutive pieces of size runes. The last piece may be
// shorter. An empty string yields no chunks.
func Chunk(s string, size int) []string {
	if s == "" {
		return nil
	}
	if size <= 0 {
		return []string{s}
	}
	r := []rune(s)
	chunks := make([]string, 0, (len(r)+size-1)/size)
	for start := 0; start < len(r); start += size {
		end := start + size
		if end > len(r) {
			end = len(r)
		}
		chunks = append(chunks, string(r[start:end]))
	}
	return chunks
}

// NormalizeSpace collapses every run of whitespace into a single space and
// trims the result.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Words splits s on whitespace.
func Words(s string) []string {
	return strings.Fields(s)
}

// Sentences splits s into sentences ending in '.', '!' or '?' followed by
// whitespace. Trailing text without a terminator is returned as the last
// sentence.
func Sentences(s string) []string {
	s = NormalizeSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	r := []rune(s)
	start := 0
	for i := 0; i < len(r); i++ {
		switch r[i] {
		case '.', '!', '?':
			if i+1 == len(r) || unicode.IsSpace(r[i+1]) {
				if sentence := strings.TrimSpace(string(r[start : i+1])); sentence != "" {
					out = append(out, sentence)
				}
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(string(r[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}
