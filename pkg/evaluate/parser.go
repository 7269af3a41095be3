package evaluate

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// Bounds applied to a parsed evaluation.
const (
	MinUndervaluation = -100.0
	MaxUndervaluation = 1000.0
	MinConfidence     = 0.0
	MaxConfidence     = 100.0
)

var requiredKeys = []string{
	"estimatedMarketValue",
	"undervaluationPercentage",
	"confidenceScore",
	"reasoning",
	"factors",
}

// StripCodeFence removes a leading ```json (or bare ```) fence and a
// trailing ``` fence around the model's answer.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		// Drop the info string ("json", "JSON", ...) on the opening line.
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[i+1:]
		} else {
			rest = strings.TrimPrefix(strings.TrimPrefix(rest, "json"), "JSON")
		}
		s = rest
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func invalid(format string, args ...any) *apperr.Error {
	return apperr.New(
		fmt.Sprintf(format, args...),
		http.StatusInternalServerError,
		apperr.CodeInvalidAIResponse,
	)
}

// ParseEvaluation validates the model's raw answer. Any missing key or
// out-of-range value is rejected with an INVALID_AI_RESPONSE error; nothing
// is silently clamped.
func ParseEvaluation(raw string) (domain.Evaluation, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &obj); err != nil || obj == nil {
		e := invalid("failed to parse AI evaluation response")
		e.Err = err
		return domain.Evaluation{}, e
	}

	for _, k := range requiredKeys {
		if _, ok := obj[k]; !ok {
			return domain.Evaluation{}, invalid("AI evaluation response missing required field: %s", k)
		}
	}

	value, ok := number(obj["estimatedMarketValue"])
	if !ok {
		return domain.Evaluation{}, invalid("estimatedMarketValue must be a number")
	}
	if value < 0 {
		return domain.Evaluation{}, invalid("estimatedMarketValue must be >= 0, got %v", value)
	}

	under, ok := number(obj["undervaluationPercentage"])
	if !ok {
		return domain.Evaluation{}, invalid("undervaluationPercentage must be a number")
	}
	if under < MinUndervaluation || under > MaxUndervaluation {
		return domain.Evaluation{}, invalid(
			"undervaluationPercentage must be between %v and %v, got %v",
			MinUndervaluation, MaxUndervaluation, under,
		)
	}

	conf, ok := number(obj["confidenceScore"])
	if !ok {
		return domain.Evaluation{}, invalid("confidenceScore must be a number")
	}
	if conf < MinConfidence || conf > MaxConfidence {
		return domain.Evaluation{}, invalid(
			"confidenceScore must be between %v and %v, got %v",
			MinConfidence, MaxConfidence, conf,
		)
	}

	reasoning, _ := obj["reasoning"].(string)
	if strings.TrimSpace(reasoning) == "" {
		return domain.Evaluation{}, invalid("reasoning must be a non-empty string")
	}

	replica, _ := obj["isReplicaOrNovelty"].(bool)

	return domain.Evaluation{
		EstimatedMarketValue:     value,
		UndervaluationPercentage: under,
		ConfidenceScore:          int(math.Round(conf)),
		Reasoning:                reasoning,
		Factors:                  factors(obj["factors"]),
		IsReplicaOrNovelty:       replica,
	}, nil
}

// number accepts JSON numbers and numeric strings.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// factors converts each element to a string. A non-array yields an empty
// list.
func factors(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, f := range arr {
		switch s := f.(type) {
		case string:
			out = append(out, s)
		case nil:
			out = append(out, "null")
		case float64:
			out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
		case bool:
			out = append(out, strconv.FormatBool(s))
		default:
			b, err := json.Marshal(s)
			if err != nil {
				continue
			}
			out = append(out, string(b))
		}
	}
	return out
}
