// Package gemini implements tldr.Generator with Google Gemini.
package gemini

import (
	"context"
	"iter"

	"github.com/kdr/tldr"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements tldr.Generator at compile time.
var _ tldr.Generator = (*Generator)(nil)

// Generator implements tldr.Generator using Gemini's streaming API.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Generate streams the summary for req.
func (g *Generator) Generate(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		contents := []*genai.Content{
			genai.NewContentFromText(tldr.UserPrompt(req.Text), "user"),
		}

		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, BuildConfig(req.Profile)) {
			if err != nil {
				yield("", tldr.Errorf(tldr.EGENERATE, "gemini stream: %v", err))
				return
			}
			if resp == nil {
				continue
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// BuildConfig returns the GenerateContentConfig for a length profile.
func BuildConfig(profile tldr.LengthProfile) *genai.GenerateContentConfig {
	temp := float32(tldr.Temperature)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: profile.Instruction}},
		},
		Temperature:     &temp,
		MaxOutputTokens: int32(profile.MaxTokens),
	}
}
