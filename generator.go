package tldr

import (
	"context"
	"iter"
)

// Temperature is the sampling temperature used for every summary.
const Temperature = 0.5

// GenerateRequest describes a single summary generation call.
type GenerateRequest struct {
	// Text is the extracted article text embedded in the user message.
	Text string

	// Profile selects the system instruction and output token budget.
	Profile LengthProfile
}

// Generator produces summary text incrementally.
type Generator interface {
	// Generate starts one streaming generation call and yields text
	// fragments in the order they arrive. A non-nil error ends the sequence.
	// Breaking out of the loop early releases the underlying stream.
	Generate(ctx context.Context, req GenerateRequest) iter.Seq2[string, error]
}

// UserPrompt builds the user message sent to the generator.
func UserPrompt(text string) string {
	return "Please provide a clear and concise summary of the following article:\n\n" + text
}
