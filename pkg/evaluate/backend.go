// Package evaluate asks a language model for a fair-value assessment of a
// marketplace listing and validates the model's answer before anything
// downstream trusts it.
package evaluate

import "context"

// GenerateRequest defines the input for a model call.
type GenerateRequest struct {
	Prompt      string
	Images      []string // image URLs sent alongside the prompt
	WebSearch   bool
	Temperature float64
	MaxTokens   int
}

// GenerateResponse holds the model's final text plus the structured output
// items that carry tool-use and citation metadata.
type GenerateResponse struct {
	Text   string
	Model  string
	Output []OutputItem
}

// Backend defines the interface for model text generation.
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}

// Output item types.
const (
	ItemWebSearchCall    = "web_search_call"
	ItemWebSearchCallAlt = "web-search-call"
	ItemMessage          = "message"

	AnnotationURLCitation = "url_citation"
	ContentOutputText     = "output_text"
)

// OutputItem is one entry of a Responses API "output" array.
type OutputItem struct {
	Type        string        `json:"type"`
	ID          string        `json:"id,omitempty"`
	Status      string        `json:"status,omitempty"`
	Role        string        `json:"role,omitempty"`
	Content     []ContentPart `json:"content,omitempty"`
	Annotations []Annotation  `json:"annotations,omitempty"`
}

// ContentPart is one piece of a message item's content.
type ContentPart struct {
	Type        string       `json:"type"`
	Text        string       `json:"text,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotation marks a span of output text. For url_citation annotations the
// indices are character offsets into the text.
type Annotation struct {
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}
