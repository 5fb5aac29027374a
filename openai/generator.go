// Package openai implements tldr.Generator with the OpenAI chat completions
// streaming API.
package openai

import (
	"context"
	"iter"

	"github.com/kdr/tldr"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4-turbo-preview"

// Ensure Generator implements tldr.Generator at compile time.
var _ tldr.Generator = (*Generator)(nil)

// Generator streams summaries from an OpenAI-compatible chat completions endpoint.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a Generator that uses client and model.
// An empty model selects DefaultModel.
func NewGenerator(client openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// NewClient builds a client for apiKey with retries disabled. Extra options
// are applied after the defaults.
func NewClient(apiKey string, opts ...option.RequestOption) openai.Client {
	defaults := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	return openai.NewClient(append(defaults, opts...)...)
}

// Generate issues one streaming chat completion and yields content deltas.
func (g *Generator) Generate(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := g.client.Chat.Completions.NewStreaming(ctx, BuildParams(g.model, req))
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			content := chunk.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			if !yield(content, nil) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			yield("", tldr.Errorf(tldr.EGENERATE, "openai stream: %v", err))
		}
	}
}

// BuildParams returns the chat completion parameters for req.
func BuildParams(model string, req tldr.GenerateRequest) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Profile.Instruction),
			openai.UserMessage(tldr.UserPrompt(req.Text)),
		},
		Temperature: openai.Float(tldr.Temperature),
		MaxTokens:   openai.Int(int64(req.Profile.MaxTokens)),
	}
}
