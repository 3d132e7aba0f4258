package models

import "time"

// Sentiment is the display category derived from a compound score
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// SentimentSummary holds aggregate counts over a reporting window
type SentimentSummary struct {
	Total           int     `json:"total"`
	Positive        int     `json:"positive"`
	Neutral         int     `json:"neutral"`
	Negative        int     `json:"negative"`
	AverageCompound float64 `json:"average_compound"` // -1..1
}

// PlatformStat represents the mention volume attributed to one platform
type PlatformStat struct {
	Name  string `json:"name"`  // display name, e.g. "Twitter"
	Value int    `json:"value"` // mention count
	Total int    `json:"total"` // denominator for percentages
	Color string `json:"color"`
}

// TimelineDataPoint is one day's mention counts
type TimelineDataPoint struct {
	Date     string `json:"date"` // ISO date
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

// MentionItem is a single observed mention of the brand
type MentionItem struct {
	ID       *string `json:"id,omitempty"`
	Platform string  `json:"platform"`
	Source   *string `json:"source,omitempty"` // handle, status id or path
	Text     string  `json:"text"`
	Compound float64 `json:"compound"`
	Date     *string `json:"date,omitempty"`
	URL      *string `json:"url,omitempty"`
	Positive *int    `json:"positive,omitempty"` // reaction counts
	Negative *int    `json:"negative,omitempty"`
	Neutral  *int    `json:"neutral,omitempty"`
}

// TopMentionsResult holds the two ranked lists returned by the backend
type TopMentionsResult struct {
	Positive []MentionItem `json:"positive"`
	Negative []MentionItem `json:"negative"`
}

// Word is a term for the frequency display
type Word struct {
	Text  string `json:"text"`
	Value int    `json:"value"` // relative weight, 0-100
	Color string `json:"color,omitempty"`
}

// State is the orchestrator's application state
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// CategoryStat is one sentiment category as shown on the summary cards
type CategoryStat struct {
	Sentiment  Sentiment `json:"sentiment"`
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"` // one decimal
	Change     int       `json:"change"`     // vs previous period, percent
}

// SummaryView is the display-ready sentiment overview
type SummaryView struct {
	Total           int            `json:"total"`
	AverageCompound float64        `json:"average_compound"`
	Meter           float64        `json:"meter"` // 0-100
	Categories      []CategoryStat `json:"categories"`
}

// PlatformShare is a platform slice with its share of the total
type PlatformShare struct {
	PlatformStat
	Percentage float64 `json:"percentage"`
}

// MentionCard is one slot of the top-mentions grid. A nil Mention is a placeholder.
type MentionCard struct {
	Placeholder bool         `json:"placeholder"`
	Mention     *MentionItem `json:"mention,omitempty"`
	Sentiment   Sentiment    `json:"sentiment,omitempty"`
	Score       int          `json:"score,omitempty"` // |compound| as percent
	Link        string       `json:"link,omitempty"`
	Label       string       `json:"label,omitempty"` // source, else platform
}

// WordView is a word with its resolved size and color
type WordView struct {
	Text     string  `json:"text"`
	Value    int     `json:"value"`
	Color    string  `json:"color"`
	FontSize float64 `json:"font_size"`
}

// Snapshot is the consolidated application state published after a fetch cycle
type Snapshot struct {
	ID          string              `json:"id"`
	Generation  uint64              `json:"generation"`
	State       State               `json:"state"`
	Error       string              `json:"error,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
	Days        int                 `json:"days"`
	Summary     *SummaryView        `json:"summary,omitempty"`
	Platforms   []PlatformShare     `json:"platforms,omitempty"`
	Timeline    []TimelineDataPoint `json:"timeline,omitempty"`
	TimelineMax int                 `json:"timeline_max,omitempty"`
	TopMentions []MentionCard       `json:"top_mentions,omitempty"`
	Words       []WordView          `json:"words,omitempty"`
}

// Ready reports whether the snapshot carries data
func (s *Snapshot) Ready() bool {
	return s != nil && s.State == StateReady
}
