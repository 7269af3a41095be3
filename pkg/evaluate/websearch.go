package evaluate

import (
	"strings"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// ExtractWebSearch reports whether the model ran a web search and collects
// every url_citation annotation, whether attached to a message item or to
// one of its content parts.
func ExtractWebSearch(output []OutputItem) (bool, []domain.Citation) {
	used := false
	var citations []domain.Citation

	collect := func(anns []Annotation) {
		for _, a := range anns {
			if a.Type != AnnotationURLCitation {
				continue
			}
			citations = append(citations, domain.Citation{
				URL:        a.URL,
				Title:      a.Title,
				StartIndex: a.StartIndex,
				EndIndex:   a.EndIndex,
			})
		}
	}

	for i := range output {
		item := &output[i]
		switch item.Type {
		case ItemWebSearchCall, ItemWebSearchCallAlt:
			used = true
		case ItemMessage:
			collect(item.Annotations)
			for _, part := range item.Content {
				collect(part.Annotations)
			}
		}
	}

	return used, citations
}

// outputText concatenates the output_text parts of every message item.
func outputText(output []OutputItem) string {
	var b strings.Builder
	for i := range output {
		if output[i].Type != ItemMessage {
			continue
		}
		for _, part := range output[i].Content {
			if part.Type == ContentOutputText {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}
