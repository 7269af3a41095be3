package evaluate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResponsesBackend implements Backend using the OpenAI Responses API.
type ResponsesBackend struct {
	endpoint string
	model    string
	apiKey   string
	client   Doer
}

// ResponsesOption configures the ResponsesBackend.
type ResponsesOption func(*ResponsesBackend)

// WithResponsesHTTPClient overrides the default HTTP client.
func WithResponsesHTTPClient(c Doer) ResponsesOption {
	return func(b *ResponsesBackend) {
		b.client = c
	}
}

// WithResponsesAPIKey sets the API key.
func WithResponsesAPIKey(key string) ResponsesOption {
	return func(b *ResponsesBackend) {
		b.apiKey = key
	}
}

// NewResponsesBackend creates a new Responses API backend. The API key
// defaults to $OPENAI_API_KEY.
func NewResponsesBackend(
	endpoint, model string,
	opts ...ResponsesOption,
) *ResponsesBackend {
	b := &ResponsesBackend{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		model:    model,
		apiKey:   os.Getenv("OPENAI_API_KEY"),
		client:   &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*ResponsesBackend) Name() string {
	return "openai_responses"
}

type responsesRequest struct {
	Model           string          `json:"model"`
	Input           any             `json:"input"`
	Tools           []responsesTool `json:"tools,omitempty"`
	Temperature     *float64        `json:"temperature,omitempty"`
	MaxOutputTokens int             `json:"max_output_tokens,omitempty"`
}

type responsesTool struct {
	Type string `json:"type"`
}

type inputMessage struct {
	Role    string      `json:"role"`
	Content []inputPart `json:"content"`
}

type inputPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type responsesResponse struct {
	Model      string       `json:"model"`
	OutputText string       `json:"output_text"`
	Output     []OutputItem `json:"output"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate calls the /v1/responses endpoint.
func (b *ResponsesBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	apiReq := responsesRequest{
		Model:           b.model,
		Input:           req.Prompt,
		MaxOutputTokens: req.MaxTokens,
	}
	if len(req.Images) > 0 {
		parts := []inputPart{{Type: "input_text", Text: req.Prompt}}
		for _, img := range req.Images {
			parts = append(parts, inputPart{Type: "input_image", ImageURL: img})
		}
		apiReq.Input = []inputMessage{{Role: "user", Content: parts}}
	}
	if req.WebSearch {
		apiReq.Tools = []responsesTool{{Type: "web_search"}}
	}
	if req.Temperature > 0 {
		apiReq.Temperature = &req.Temperature
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		b.endpoint+"/v1/responses",
		bytes.NewReader(body),
	)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling responses API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return GenerateResponse{}, fmt.Errorf(
			"responses API error (status %d): %s",
			resp.StatusCode,
			string(respBody),
		)
	}

	var apiResp responsesResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return GenerateResponse{}, fmt.Errorf("parsing response: %w", err)
	}
	if apiResp.Error != nil && apiResp.Error.Message != "" {
		return GenerateResponse{}, fmt.Errorf("responses API error: %s", apiResp.Error.Message)
	}

	text := apiResp.OutputText
	if text == "" {
		text = outputText(apiResp.Output)
	}
	if text == "" {
		return GenerateResponse{}, errors.New("empty output from responses API")
	}

	return GenerateResponse{
		Text:   text,
		Model:  apiResp.Model,
		Output: apiResp.Output,
	}, nil
}
