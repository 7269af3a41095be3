package evaluate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bargain-finder/pkg/evaluate"
)

func TestResponsesBackend_Name(t *testing.T) {
	t.Parallel()
	b := evaluate.NewResponsesBackend("http://localhost:8000", "gpt-4o")
	assert.Equal(t, "openai_responses", b.Name())
}

func TestResponsesBackend_Generate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		req        evaluate.GenerateRequest
		wantErr    bool
		wantErrMsg string
		wantText   string
		wantModel  string
		wantItems  int
	}{
		{
			name: "text only with web search",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/responses", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

				var req map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "gpt-4o", req["model"])
				assert.Equal(t, "evaluate this", req["input"])
				assert.Equal(t, []any{map[string]any{"type": "web_search"}}, req["tools"])
				assert.InDelta(t, 0.2, req["temperature"], 1e-9)
				assert.InDelta(t, 800.0, req["max_output_tokens"], 1e-9)

				_, _ = w.Write([]byte(`{
					"model": "gpt-4o-2024-08-06",
					"output_text": "{\"ok\":true}",
					"output": [{"type": "web_search_call"}, {"type": "message", "content": []}]
				}`))
			},
			req: evaluate.GenerateRequest{
				Prompt:      "evaluate this",
				WebSearch:   true,
				Temperature: 0.2,
				MaxTokens:   800,
			},
			wantText:  `{"ok":true}`,
			wantModel: "gpt-4o-2024-08-06",
			wantItems: 2,
		},
		{
			name: "multimodal input",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var req struct {
					Input []struct {
						Role    string `json:"role"`
						Content []struct {
							Type     string `json:"type"`
							Text     string `json:"text"`
							ImageURL string `json:"image_url"`
						} `json:"content"`
					} `json:"input"`
					Tools []any `json:"tools"`
				}
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				if assert.Len(t, req.Input, 1) && assert.Len(t, req.Input[0].Content, 3) {
					assert.Equal(t, "user", req.Input[0].Role)
					assert.Equal(t, "input_text", req.Input[0].Content[0].Type)
					assert.Equal(t, "look", req.Input[0].Content[0].Text)
					assert.Equal(t, "input_image", req.Input[0].Content[1].Type)
					assert.Equal(t, "https://img/2.jpg", req.Input[0].Content[2].ImageURL)
				}
				assert.Empty(t, req.Tools)

				_, _ = w.Write([]byte(`{"model": "gpt-4o", "output": [
					{"type": "message", "content": [
						{"type": "output_text", "text": "{\"a\":"},
						{"type": "refusal", "text": "ignored"},
						{"type": "output_text", "text": "1}"}
					]}
				]}`))
			},
			req: evaluate.GenerateRequest{
				Prompt: "look",
				Images: []string{"https://img/1.jpg", "https://img/2.jpg"},
			},
			wantText:  `{"a":1}`,
			wantModel: "gpt-4o",
			wantItems: 1,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("upstream down"))
			},
			req:        evaluate.GenerateRequest{Prompt: "x"},
			wantErr:    true,
			wantErrMsg: "responses API error (status 500): upstream down",
		},
		{
			name: "error object in body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error": {"message": "model overloaded"}}`))
			},
			req:        evaluate.GenerateRequest{Prompt: "x"},
			wantErr:    true,
			wantErrMsg: "responses API error: model overloaded",
		},
		{
			name: "empty output",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"model": "gpt-4o", "output": []}`))
			},
			req:        evaluate.GenerateRequest{Prompt: "x"},
			wantErr:    true,
			wantErrMsg: "empty output from responses API",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			req:        evaluate.GenerateRequest{Prompt: "x"},
			wantErr:    true,
			wantErrMsg: "parsing response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b := evaluate.NewResponsesBackend(
				srv.URL+"/",
				"gpt-4o",
				evaluate.WithResponsesAPIKey("sk-test"),
				evaluate.WithResponsesHTTPClient(srv.Client()),
			)

			resp, err := b.Generate(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, resp.Text)
			assert.Equal(t, tt.wantModel, resp.Model)
			assert.Len(t, resp.Output, tt.wantItems)
		})
	}
}
