package openai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kdr/tldr"
	"github.com/kdr/tldr/openai"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Generator implements tldr.Generator at compile time.
var _ tldr.Generator = (*openai.Generator)(nil)

// chunk renders one chat.completion.chunk SSE event carrying content.
func chunk(content string) string {
	data, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion.chunk",
		"created": 1700000000,
		"model":   openai.DefaultModel,
		"choices": []map[string]any{{
			"index":         0,
			"delta":         map[string]any{"content": content},
			"finish_reason": nil,
		}},
	})
	return fmt.Sprintf("data: %s\n\n", data)
}

// sseServer streams events and records the decoded request body.
type sseServer struct {
	*httptest.Server

	mu   sync.Mutex
	body map[string]any
}

func newSSEServer(t *testing.T, events ...string) *sseServer {
	t.Helper()

	s := &sseServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		s.body = body
		s.mu.Unlock()

		w.Header().Set("Content-Type", "text/event-stream")
		for _, e := range events {
			_, _ = w.Write([]byte(e))
			w.(http.Flusher).Flush()
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *sseServer) requestBody() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

func newGenerator(baseURL string) *openai.Generator {
	client := openai.NewClient("test-key",
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	return openai.NewGenerator(client, "")
}

func profile(t *testing.T, l tldr.SummaryLength) tldr.LengthProfile {
	t.Helper()

	p, err := l.Profile()
	require.NoError(t, err)
	return p
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("yields content deltas in order", func(t *testing.T) {
		t.Parallel()

		srv := newSSEServer(t, chunk("The "), chunk(""), chunk("article "), chunk("argues."), "data: [DONE]\n\n")
		gen := newGenerator(srv.URL)

		var got []string
		for fragment, err := range gen.Generate(context.Background(), tldr.GenerateRequest{
			Text:    "Long article text",
			Profile: profile(t, tldr.LengthBrief),
		}) {
			require.NoError(t, err)
			got = append(got, fragment)
		}

		assert.Equal(t, []string{"The ", "article ", "argues."}, got)
	})

	t.Run("sends instruction, text, temperature and budget", func(t *testing.T) {
		t.Parallel()

		srv := newSSEServer(t, chunk("ok"), "data: [DONE]\n\n")
		gen := newGenerator(srv.URL)
		tweet := profile(t, tldr.LengthTweet)

		for _, err := range gen.Generate(context.Background(), tldr.GenerateRequest{Text: "Body text", Profile: tweet}) {
			require.NoError(t, err)
		}

		body := srv.requestBody()
		require.NotNil(t, body)
		assert.Equal(t, openai.DefaultModel, body["model"])
		assert.Equal(t, true, body["stream"])
		assert.InDelta(t, 0.5, body["temperature"], 0.0001)
		assert.InDelta(t, float64(tweet.MaxTokens), body["max_tokens"], 0.0001)

		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)
		system := messages[0].(map[string]any)
		user := messages[1].(map[string]any)
		assert.Equal(t, "system", system["role"])
		assert.Equal(t, tweet.Instruction, system["content"])
		assert.Equal(t, "user", user["role"])
		assert.Equal(t, tldr.UserPrompt("Body text"), user["content"])
	})

	t.Run("reports upstream failure before any content", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
		}))
		defer srv.Close()

		gen := newGenerator(srv.URL)

		var fragments int
		var gotErr error
		for _, err := range gen.Generate(context.Background(), tldr.GenerateRequest{Text: "x", Profile: profile(t, tldr.LengthBrief)}) {
			if err != nil {
				gotErr = err
				break
			}
			fragments++
		}

		assert.Zero(t, fragments)
		require.Error(t, gotErr)
		assert.Equal(t, tldr.EGENERATE, tldr.ErrorCode(gotErr))
	})

	t.Run("reports mid-stream errors after earlier content", func(t *testing.T) {
		t.Parallel()

		srv := newSSEServer(t, chunk("partial"), `data: {"error":{"message":"overloaded","type":"server_error"}}`+"\n\n")
		gen := newGenerator(srv.URL)

		var got []string
		var gotErr error
		for fragment, err := range gen.Generate(context.Background(), tldr.GenerateRequest{Text: "x", Profile: profile(t, tldr.LengthBrief)}) {
			if err != nil {
				gotErr = err
				break
			}
			got = append(got, fragment)
		}

		assert.Equal(t, []string{"partial"}, got)
		require.Error(t, gotErr)
	})
}

func TestBuildParams_UsesProfileBudget(t *testing.T) {
	t.Parallel()

	tweet := openai.BuildParams("m", tldr.GenerateRequest{Profile: profile(t, tldr.LengthTweet)})
	detailed := openai.BuildParams("m", tldr.GenerateRequest{Profile: profile(t, tldr.LengthDetailed)})

	assert.Less(t, tweet.MaxTokens.Value, detailed.MaxTokens.Value)
	assert.InDelta(t, 0.5, tweet.Temperature.Value, 0.0001)
	assert.Equal(t, "m", string(tweet.Model))
	assert.Len(t, tweet.Messages, 2)
}
