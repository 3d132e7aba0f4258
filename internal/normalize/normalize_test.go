package normalize

import (
	"testing"

	"github.com/leapscholar/perception-monitor/internal/colors"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected models.SentimentSummary
	}{
		{
			name:    "Complete payload",
			payload: `{"total": 10, "positive": 5, "neutral": 3, "negative": 2, "average_compound": 0.2125}`,
			expected: models.SentimentSummary{
				Total: 10, Positive: 5, Neutral: 3, Negative: 2, AverageCompound: 0.2125,
			},
		},
		{
			name:     "Missing fields default to zero",
			payload:  `{"positive": 4}`,
			expected: models.SentimentSummary{Positive: 4},
		},
		{
			name:     "Null and string values",
			payload:  `{"total": null, "positive": "7", "neutral": "n/a", "negative": true, "average_compound": "-0.5"}`,
			expected: models.SentimentSummary{Positive: 7, AverageCompound: -0.5},
		},
		{
			name:     "Null payload",
			payload:  `null`,
			expected: models.SentimentSummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Summary([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, summary)
		})
	}
}

func TestSummary_Malformed(t *testing.T) {
	for _, payload := range []string{``, `{"total":`, `<html>oops</html>`, `[1, 2]`} {
		_, err := Summary([]byte(payload))
		assert.Error(t, err, payload)
	}
}

func TestPlatforms(t *testing.T) {
	payload := `[
		{"platform": "reddit", "positive": 5, "neutral": 2, "negative": 1},
		{"platform": "TWITTER", "total": 20, "positive": 1},
		{"name": "news", "total": 4},
		{"positive": 1},
		{"platform": "mastodon", "total": 3},
		{"platform": "other", "total": 2, "color": "#ABCDEF"}
	]`

	stats, err := Platforms([]byte(payload))
	require.NoError(t, err)
	require.Len(t, stats, 6)

	assert.Equal(t, models.PlatformStat{Name: "Reddit", Value: 8, Total: 8, Color: "#FF5700"}, stats[0])
	assert.Equal(t, models.PlatformStat{Name: "Twitter", Value: 20, Total: 20, Color: "#1DA1F2"}, stats[1])
	assert.Equal(t, models.PlatformStat{Name: "News", Value: 4, Total: 4, Color: "#FFC107"}, stats[2])
	assert.Equal(t, models.PlatformStat{Name: "Unknown", Value: 1, Total: 1, Color: colors.Fallback}, stats[3])
	assert.Equal(t, "Mastodon", stats[4].Name)
	assert.Equal(t, colors.Fallback, stats[4].Color)
	assert.Equal(t, "#ABCDEF", stats[5].Color)
}

func TestPlatforms_EmptyPayloads(t *testing.T) {
	for _, payload := range []string{`[]`, `null`, `{}`} {
		stats, err := Platforms([]byte(payload))
		require.NoError(t, err, payload)
		assert.Empty(t, stats, payload)
	}

	_, err := Platforms([]byte(`[{"platform": `))
	assert.Error(t, err)
}

func TestTimeline(t *testing.T) {
	payload := `[
		{"date": "2024-05-02", "positive": 3, "neutral": 1, "negative": 0},
		{"date": "2024-05-01", "negative": 2}
	]`

	points, err := Timeline([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, []models.TimelineDataPoint{
		{Date: "2024-05-02", Positive: 3, Neutral: 1},
		{Date: "2024-05-01", Negative: 2},
	}, points)
}

func TestTopMentions(t *testing.T) {
	payload := `{
		"top_positive": [
			{"platform": "twitter", "source": "@alice", "text": "Loved it", "compound": 0.91,
			 "date": "2024-05-01T10:00:00", "url": "/status/123"}
		]
	}`

	top, err := TopMentions([]byte(payload))
	require.NoError(t, err)

	require.Len(t, top.Positive, 1)
	assert.NotNil(t, top.Negative)
	assert.Empty(t, top.Negative)

	m := top.Positive[0]
	assert.Equal(t, "twitter", m.Platform)
	require.NotNil(t, m.Source)
	assert.Equal(t, "@alice", *m.Source)
	assert.Equal(t, 0.91, m.Compound)
	require.NotNil(t, m.URL)
	assert.Equal(t, "/status/123", *m.URL)
	assert.Nil(t, m.Positive)
	assert.Nil(t, m.ID)
}

func TestMentions(t *testing.T) {
	payload := `[
		{"id": 42, "text": "meh", "url": "", "source": null, "date": null, "positive": 3, "negative": "1"},
		{"platform": "news", "source": 1790000000000000000, "compound": "0.4"}
	]`

	items, err := Mentions([]byte(payload))
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, UnknownPlatform, first.Platform)
	require.NotNil(t, first.ID)
	assert.Equal(t, "42", *first.ID)
	assert.Nil(t, first.URL)
	assert.Nil(t, first.Source)
	assert.Nil(t, first.Date)
	require.NotNil(t, first.Positive)
	assert.Equal(t, 3, *first.Positive)
	require.NotNil(t, first.Negative)
	assert.Equal(t, 1, *first.Negative)
	assert.Nil(t, first.Neutral)

	second := items[1]
	require.NotNil(t, second.Source)
	assert.Equal(t, "1790000000000000000", *second.Source)
	assert.Equal(t, 0.4, second.Compound)
	assert.Equal(t, "", second.Text)
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"TWITTER": "Twitter",
		"reddit":  "Reddit",
		"youTube": "Youtube",
		"x":       "X",
		"":        "",
		"élan":    "Élan",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, DisplayName(input), input)
	}
}
