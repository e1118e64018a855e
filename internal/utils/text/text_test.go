package text_test

import (
	"strings"
	"testing"

	"news-extractor/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "Japanese", input: "こんにちは", expected: 5},
		{name: "mixed", input: "hello世界", expected: 7},
		{name: "emoji", input: "Hello👋", expected: 6},
		{name: "empty", input: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.expected {
				t.Errorf("CountRunes(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "shorter than max", input: "abc", max: 10, want: "abc"},
		{name: "exact length", input: "abc", max: 3, want: "abc"},
		{name: "cut ASCII", input: "abcdef", max: 4, want: "abcd"},
		{name: "cut multibyte safely", input: "日本語テキスト", max: 3, want: "日本語"},
		{name: "zero max keeps input", input: "abc", max: 0, want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.Truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestChunk(t *testing.T) {
	t.Run("splits into fixed size pieces", func(t *testing.T) {
		chunks := text.Chunk(strings.Repeat("a", 2500), 1024)
		if len(chunks) != 3 {
			t.Fatalf("len(chunks) = %d, want 3", len(chunks))
		}
		if text.CountRunes(chunks[0]) != 1024 || text.CountRunes(chunks[2]) != 452 {
			t.Errorf("unexpected chunk sizes %d/%d", text.CountRunes(chunks[0]), text.CountRunes(chunks[2]))
		}
	})

	t.Run("multibyte chunks are rune aligned", func(t *testing.T) {
		chunks := text.Chunk("日本語テキスト", 2)
		want := []string{"日本", "語テ", "キス", "ト"}
		if strings.Join(chunks, "|") != strings.Join(want, "|") {
			t.Errorf("Chunk() = %v, want %v", chunks, want)
		}
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		if chunks := text.Chunk("", 10); len(chunks) != 0 {
			t.Errorf("Chunk(\"\") = %v, want empty", chunks)
		}
	})
}

func TestSentences(t *testing.T) {
	got := text.Sentences("First one.  Second one!\nThird? trailing text")
	want := []string{"First one.", "Second one!", "Third?", "trailing text"}

	if len(got) != len(want) {
		t.Fatalf("Sentences() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSentences_KeepsDecimalNumbers(t *testing.T) {
	got := text.Sentences("GDP grew 2.5 percent. Markets rallied.")
	if len(got) != 2 {
		t.Fatalf("Sentences() = %v, want 2 sentences", got)
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := text.NormalizeSpace("  a \n\t b  c "); got != "a b c" {
		t.Errorf("NormalizeSpace() = %q", got)
	}
}
