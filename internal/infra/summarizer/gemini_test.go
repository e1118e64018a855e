package summarizer

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
)

func TestGeminiText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil response", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{
			name: "nil content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			want: "",
		},
		{
			name: "text parts joined",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello "), genai.Text("world. ")}},
			}}},
			want: "Hello world.",
		},
		{
			name: "non-text parts skipped",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}, genai.Text("Only text")}},
			}}},
			want: "Only text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geminiText(tt.resp))
		})
	}
}

func TestGemini_CloseWithoutClient(t *testing.T) {
	g := NewGemini(context.Background(), testConfig(ProviderGemini, ""))
	assert.NoError(t, g.Close())
	assert.Equal(t, ProviderGemini, g.Name())
}
