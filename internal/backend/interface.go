package backend

import (
	"context"

	"github.com/leapscholar/perception-monitor/internal/models"
)

// API defines the read-only contract of the sentiment backend
type API interface {
	FetchSummary(ctx context.Context, days int) (models.SentimentSummary, error)
	FetchPlatforms(ctx context.Context, days int) ([]models.PlatformStat, error)
	FetchTimeline(ctx context.Context, days int, groupBy string) ([]models.TimelineDataPoint, error)
	FetchTopMentions(ctx context.Context, limit, days int) (models.TopMentionsResult, error)
	FetchMentions(ctx context.Context, query MentionsQuery) ([]models.MentionItem, error)
}

// MentionsQuery filters the /mentions endpoint. Empty filters are omitted.
type MentionsQuery struct {
	Days      int
	Platform  string
	Sentiment string
}
