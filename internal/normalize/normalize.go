package normalize

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/leapscholar/perception-monitor/internal/colors"
	"github.com/leapscholar/perception-monitor/internal/models"
)

// UnknownPlatform names records whose platform is missing
const UnknownPlatform = "Unknown"

type rawSummary struct {
	Total           number `json:"total"`
	Positive        number `json:"positive"`
	Neutral         number `json:"neutral"`
	Negative        number `json:"negative"`
	AverageCompound number `json:"average_compound"`
}

type rawPlatformStat struct {
	Platform text   `json:"platform"`
	Name     text   `json:"name"`
	Color    text   `json:"color"`
	Positive number `json:"positive"`
	Neutral  number `json:"neutral"`
	Negative number `json:"negative"`
	Total    number `json:"total"`
}

type rawTimelinePoint struct {
	Date     text   `json:"date"`
	Positive number `json:"positive"`
	Neutral  number `json:"neutral"`
	Negative number `json:"negative"`
}

type rawMention struct {
	ID       text    `json:"id"`
	Platform text    `json:"platform"`
	Source   text    `json:"source"`
	Text     text    `json:"text"`
	Compound number  `json:"compound"`
	Date     text    `json:"date"`
	URL      text    `json:"url"`
	Positive *number `json:"positive"`
	Negative *number `json:"negative"`
	Neutral  *number `json:"neutral"`
}

type rawTopMentions struct {
	TopPositive []rawMention `json:"top_positive"`
	TopNegative []rawMention `json:"top_negative"`
}

// Summary parses a /summary payload. Missing or malformed fields default to 0.
func Summary(data []byte) (models.SentimentSummary, error) {
	var raw rawSummary
	if err := decodeObject(data, &raw); err != nil {
		return models.SentimentSummary{}, fmt.Errorf("failed to parse sentiment summary: %w", err)
	}

	return models.SentimentSummary{
		Total:           raw.Total.count(),
		Positive:        raw.Positive.count(),
		Neutral:         raw.Neutral.count(),
		Negative:        raw.Negative.count(),
		AverageCompound: raw.AverageCompound.float(),
	}, nil
}

// Platforms parses a /platforms payload into display-ready platform stats
func Platforms(data []byte) ([]models.PlatformStat, error) {
	var raw []rawPlatformStat
	if err := decodeArray(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse platform statistics: %w", err)
	}

	stats := make([]models.PlatformStat, 0, len(raw))
	for _, item := range raw {
		stats = append(stats, platformStat(item))
	}
	return stats, nil
}

func platformStat(item rawPlatformStat) models.PlatformStat {
	total := item.Total.count()
	if total == 0 {
		total = item.Positive.count() + item.Neutral.count() + item.Negative.count()
	}

	name := strings.TrimSpace(string(item.Platform))
	if name == "" {
		name = strings.TrimSpace(string(item.Name))
	}
	if name == "" {
		name = UnknownPlatform
	}

	return models.PlatformStat{
		Name:  DisplayName(name),
		Value: total,
		Total: total,
		Color: colors.Resolve(string(item.Color), name),
	}
}

// Timeline parses a /timeline payload. Order is preserved.
func Timeline(data []byte) ([]models.TimelineDataPoint, error) {
	var raw []rawTimelinePoint
	if err := decodeArray(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse timeline data: %w", err)
	}

	points := make([]models.TimelineDataPoint, 0, len(raw))
	for _, p := range raw {
		points = append(points, models.TimelineDataPoint{
			Date:     strings.TrimSpace(string(p.Date)),
			Positive: p.Positive.count(),
			Neutral:  p.Neutral.count(),
			Negative: p.Negative.count(),
		})
	}
	return points, nil
}

// TopMentions parses a /top payload. Missing lists are empty.
func TopMentions(data []byte) (models.TopMentionsResult, error) {
	var raw rawTopMentions
	if err := decodeObject(data, &raw); err != nil {
		return models.TopMentionsResult{}, fmt.Errorf("failed to parse top mentions: %w", err)
	}

	return models.TopMentionsResult{
		Positive: mentions(raw.TopPositive),
		Negative: mentions(raw.TopNegative),
	}, nil
}

// Mentions parses a /mentions payload
func Mentions(data []byte) ([]models.MentionItem, error) {
	var raw []rawMention
	if err := decodeArray(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mentions: %w", err)
	}
	return mentions(raw), nil
}

func mentions(raw []rawMention) []models.MentionItem {
	items := make([]models.MentionItem, 0, len(raw))
	for _, m := range raw {
		items = append(items, mention(m))
	}
	return items
}

func mention(m rawMention) models.MentionItem {
	platform := strings.TrimSpace(string(m.Platform))
	if platform == "" {
		platform = UnknownPlatform
	}

	return models.MentionItem{
		ID:       m.ID.optional(),
		Platform: platform,
		Source:   m.Source.optional(),
		Text:     string(m.Text),
		Compound: m.Compound.float(),
		Date:     m.Date.optional(),
		URL:      m.URL.optional(),
		Positive: optionalCount(m.Positive),
		Negative: optionalCount(m.Negative),
		Neutral:  optionalCount(m.Neutral),
	}
}

func optionalCount(n *number) *int {
	if n == nil {
		return nil
	}
	c := n.count()
	return &c
}

// DisplayName upper-cases the first letter and lower-cases the rest ("TWITTER" -> "Twitter")
func DisplayName(name string) string {
	if name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:])
}

// decodeObject requires a JSON object; null decodes to the zero value
func decodeObject(data []byte, v interface{}) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("expected a JSON object")
	}
	return json.Unmarshal(data, v)
}

// decodeArray requires a JSON array; null and non-array values decode to an empty list
func decodeArray(data []byte, v interface{}) error {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON")
	}
	if data[0] != '[' {
		return nil
	}
	return json.Unmarshal(data, v)
}

func isNull(data []byte) bool {
	return bytes.Equal(data, []byte("null"))
}
