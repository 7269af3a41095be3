package evaluate_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	"github.com/donaldgifford/bargain-finder/pkg/evaluate"
)

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "  \n```json\n{\"a\":1}\n```  \n", want: `{"a":1}`},
		{name: "single line fence", in: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "missing closing fence", in: "```json\n{\"a\":1}", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, evaluate.StripCodeFence(tt.in))
		})
	}
}

const validEval = `{
	"estimatedMarketValue": 350,
	"undervaluationPercentage": 40.5,
	"confidenceScore": 84.6,
	"reasoning": "Recent sold listings average $350.",
	"factors": ["sold comps", 3, true, null],
	"isReplicaOrNovelty": false
}`

func TestParseEvaluation_Valid(t *testing.T) {
	t.Parallel()

	got, err := evaluate.ParseEvaluation("```json\n" + validEval + "\n```")
	require.NoError(t, err)

	assert.InDelta(t, 350.0, got.EstimatedMarketValue, 1e-9)
	assert.InDelta(t, 40.5, got.UndervaluationPercentage, 1e-9)
	assert.Equal(t, 85, got.ConfidenceScore)
	assert.Equal(t, "Recent sold listings average $350.", got.Reasoning)
	assert.Equal(t, []string{"sold comps", "3", "true", "null"}, got.Factors)
	assert.False(t, got.IsReplicaOrNovelty)
}

func TestParseEvaluation_Coercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantReplica bool
		wantFactors []string
		wantConf    int
	}{
		{
			name:        "replica strictly true",
			body:        `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":50,"reasoning":"r","factors":[],"isReplicaOrNovelty":true}`,
			wantReplica: true,
			wantFactors: []string{},
			wantConf:    50,
		},
		{
			name:        "replica truthy string is false",
			body:        `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":50,"reasoning":"r","factors":[],"isReplicaOrNovelty":"true"}`,
			wantFactors: []string{},
			wantConf:    50,
		},
		{
			name:        "replica absent",
			body:        `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":50,"reasoning":"r","factors":["a"]}`,
			wantFactors: []string{"a"},
			wantConf:    50,
		},
		{
			name:        "factors not an array",
			body:        `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":50,"reasoning":"r","factors":"cheap"}`,
			wantFactors: []string{},
			wantConf:    50,
		},
		{
			name:        "numeric strings accepted",
			body:        `{"estimatedMarketValue":"12.5","undervaluationPercentage":"-20","confidenceScore":"99.5","reasoning":"r","factors":[]}`,
			wantFactors: []string{},
			wantConf:    100,
		},
		{
			name:        "bounds are inclusive",
			body:        `{"estimatedMarketValue":0,"undervaluationPercentage":-100,"confidenceScore":0,"reasoning":"r","factors":[]}`,
			wantFactors: []string{},
			wantConf:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := evaluate.ParseEvaluation(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantReplica, got.IsReplicaOrNovelty)
			assert.Equal(t, tt.wantFactors, got.Factors)
			assert.Equal(t, tt.wantConf, got.ConfidenceScore)
		})
	}
}

func TestParseEvaluation_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "not json",
			body:    "The item is worth about $300.",
			wantMsg: "failed to parse AI evaluation response",
		},
		{
			name:    "json array",
			body:    `[1, 2]`,
			wantMsg: "failed to parse AI evaluation response",
		},
		{
			name:    "json null",
			body:    `null`,
			wantMsg: "failed to parse AI evaluation response",
		},
		{
			name:    "missing factors",
			body:    `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":50,"reasoning":"r"}`,
			wantMsg: "AI evaluation response missing required field: factors",
		},
		{
			name:    "negative market value",
			body:    `{"estimatedMarketValue":-1,"undervaluationPercentage":0,"confidenceScore":50,"reasoning":"r","factors":[]}`,
			wantMsg: "estimatedMarketValue must be >= 0, got -1",
		},
		{
			name:    "market value not numeric",
			body:    `{"estimatedMarketValue":"lots","undervaluationPercentage":0,"confidenceScore":50,"reasoning":"r","factors":[]}`,
			wantMsg: "estimatedMarketValue must be a number",
		},
		{
			name:    "undervaluation above range",
			body:    `{"estimatedMarketValue":1,"undervaluationPercentage":1000.5,"confidenceScore":50,"reasoning":"r","factors":[]}`,
			wantMsg: "undervaluationPercentage must be between -100 and 1000, got 1000.5",
		},
		{
			name:    "undervaluation below range",
			body:    `{"estimatedMarketValue":1,"undervaluationPercentage":-101,"confidenceScore":50,"reasoning":"r","factors":[]}`,
			wantMsg: "undervaluationPercentage must be between -100 and 1000, got -101",
		},
		{
			name:    "confidence above range",
			body:    `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":150,"reasoning":"r","factors":[]}`,
			wantMsg: "confidenceScore must be between 0 and 100, got 150",
		},
		{
			name:    "confidence null",
			body:    `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":null,"reasoning":"r","factors":[]}`,
			wantMsg: "confidenceScore must be a number",
		},
		{
			name:    "empty reasoning",
			body:    `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":50,"reasoning":"   ","factors":[]}`,
			wantMsg: "reasoning must be a non-empty string",
		},
		{
			name:    "reasoning not a string",
			body:    `{"estimatedMarketValue":1,"undervaluationPercentage":0,"confidenceScore":50,"reasoning":42,"factors":[]}`,
			wantMsg: "reasoning must be a non-empty string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := evaluate.ParseEvaluation(tt.body)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, apperr.CodeInvalidAIResponse, apperr.CodeOf(err))
			assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(err))
		})
	}
}
