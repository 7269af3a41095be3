package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bargain-finder/internal/metrics"
)

func testAlert(undervaluation float64) AlertPayload {
	return AlertPayload{
		ListingTitle:   "Omega Seamaster 300M",
		ListingURL:     "https://www.ebay.com/itm/123456789012",
		ImageURL:       "https://i.ebayimg.com/images/g/test/s-l1600.jpg",
		Marketplace:    "ebay",
		Price:          "$2100.00",
		EstimatedValue: "$3000.00",
		Undervaluation: undervaluation,
		Confidence:     85,
		Condition:      "used",
		Seller:         "timepieces",
		Reasoning:      "Comparable watches sell for around 3000 USD.",
	}
}

func TestDiscordNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		alert      AlertPayload
		statusCode int
		wantErr    bool
		errMsg     string
		wantColor  int
	}{
		{
			name:       "valid alert sends embed",
			alert:      testAlert(30),
			statusCode: http.StatusNoContent,
			wantColor:  colorYellow,
		},
		{
			name:       "deep discount uses green color",
			alert:      testAlert(45),
			statusCode: http.StatusNoContent,
			wantColor:  colorGreen,
		},
		{
			name:       "shallow discount uses orange color",
			alert:      testAlert(12.5),
			statusCode: http.StatusNoContent,
			wantColor:  colorOrange,
		},
		{
			name:       "discord returns 429 rate limited",
			alert:      testAlert(30),
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "discord returns 400 error",
			alert:      testAlert(30),
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			d := NewDiscordNotifier(srv.URL)
			err := d.SendAlert(context.Background(), &tt.alert)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)

			embed := received.Embeds[0]
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Equal(t, "Bargain: "+tt.alert.ListingTitle, embed.Title)
			assert.Equal(t, tt.alert.ListingURL, embed.URL)
			assert.Equal(t, tt.alert.Reasoning, embed.Description)
			require.NotNil(t, embed.Thumbnail)
			assert.Equal(t, tt.alert.ImageURL, embed.Thumbnail.URL)

			fieldMap := make(map[string]string)
			for _, f := range embed.Fields {
				fieldMap[f.Name] = f.Value
			}
			assert.Equal(t, tt.alert.Price, fieldMap["Price"])
			assert.Equal(t, tt.alert.EstimatedValue, fieldMap["Est. Value"])
			assert.Equal(t, "85/100", fieldMap["Confidence"])
			assert.Equal(t, tt.alert.Seller, fieldMap["Seller"])
		})
	}
}

func TestBuildEmbed_SkipsEmptyFields(t *testing.T) {
	t.Parallel()

	embed := buildEmbed(&AlertPayload{
		ListingTitle:   "Kindle",
		Price:          "$50.00",
		Undervaluation: 25,
		Confidence:     70,
		Reasoning:      strings.Repeat("r", maxDescriptionLen+10),
	})

	names := make([]string, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		assert.NotEmpty(t, f.Value, f.Name)
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Price", "Undervalued", "Confidence"}, names)
	assert.Equal(t, "25.0%", embed.Fields[1].Value)
	assert.Nil(t, embed.Thumbnail)
	assert.Len(t, []rune(embed.Description), maxDescriptionLen)
	assert.True(t, strings.HasSuffix(embed.Description, "..."))
}

func TestDiscordNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("http://127.0.0.1:1") // nothing listening
	alert := testAlert(30)
	err := d.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("://not-a-valid-url")
	alert := testAlert(30)
	err := d.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	d := NewDiscordNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, d.client)
}

func getNotificationHistogramSampleCount() uint64 {
	ch := make(chan prometheus.Metric, 1)
	metrics.NotificationDuration.Collect(ch)
	m := <-ch
	pb := &dto.Metric{}
	_ = m.Write(pb)
	return pb.GetHistogram().GetSampleCount()
}

func TestSendAlert_ObservesNotificationDuration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	before := getNotificationHistogramSampleCount()

	d := NewDiscordNotifier(srv.URL)
	err := d.SendAlert(context.Background(), &AlertPayload{ListingTitle: "Test", Confidence: 85})
	require.NoError(t, err)

	after := getNotificationHistogramSampleCount()
	assert.Greater(t, after, before, "NotificationDuration histogram sample count should increase")
}
