package evaluate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// PromptVersion identifies the evaluation prompt. Bump it whenever
// evaluationTmpl changes so stored results can be compared like for like.
const PromptVersion = "v3"

const evaluationTmpl = `You are an expert appraiser estimating the fair market value of second-hand and new goods.
Use web search to look up recent sold prices for comparable items before answering.
{{- if .HasImages}}
Photos of the item are attached. Use them to judge condition and authenticity.
{{- end}}

Marketplace: {{.Listing.Marketplace}}
Title: {{.Listing.Title}}
Listed price: {{printf "%.2f" .Listing.Price}} {{.Listing.Currency}}
Condition: {{with .Listing.Condition}}{{.}}{{else}}unknown{{end}}
{{- with .Listing.Category}}
Category: {{.}}
{{- end}}
{{- with .Listing.SellerName}}
Seller: {{.}}{{with $.SellerRating}} (rating {{.}}/5){{end}}
{{- end}}
{{- with .Description}}
Description: {{.}}
{{- end}}

Respond ONLY with a JSON object matching this schema:
{
  "estimatedMarketValue": number (>= 0, same currency as the listed price),
  "undervaluationPercentage": number (-100 to 1000; positive when the listed price is below market value),
  "confidenceScore": number (0-100),
  "reasoning": string,
  "factors": [string],
  "isReplicaOrNovelty": boolean
}`

// maxDescriptionLen bounds the description sent to the model.
const maxDescriptionLen = 2000

var evaluationTemplate = template.Must(template.New("evaluation").Parse(evaluationTmpl))

type promptData struct {
	Listing      *domain.Listing
	Description  string
	SellerRating string
	HasImages    bool
}

// RenderPrompt renders the evaluation prompt for a listing.
func RenderPrompt(l *domain.Listing, withImages bool) (string, error) {
	data := promptData{
		Listing:     l,
		Description: truncate(strings.TrimSpace(l.Description), maxDescriptionLen),
		HasImages:   withImages,
	}
	if l.SellerRating != nil {
		data.SellerRating = fmt.Sprintf("%.1f", *l.SellerRating)
	}

	var buf bytes.Buffer
	if err := evaluationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing evaluation template: %w", err)
	}
	return buf.String(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
