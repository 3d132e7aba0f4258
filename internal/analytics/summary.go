package analytics

import (
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/sirupsen/logrus"
)

// PreviousPeriodProvider supplies the baseline counts a summary is compared against
type PreviousPeriodProvider interface {
	PreviousPeriod(current models.SentimentSummary) (PeriodCounts, error)
}

// PeriodCounts holds per-category counts for a comparison baseline. Values may be
// fractional when the baseline is estimated.
type PeriodCounts struct {
	Positive float64
	Neutral  float64
	Negative float64
}

// SyntheticPreviousPeriod estimates the previous period by scaling the current counts.
// It is a placeholder until the backend exposes historical data; the multipliers carry
// no meaning.
type SyntheticPreviousPeriod struct {
	PositiveRatio float64
	NeutralRatio  float64
	NegativeRatio float64
}

// Ensure SyntheticPreviousPeriod implements PreviousPeriodProvider
var _ PreviousPeriodProvider = (*SyntheticPreviousPeriod)(nil)

// NewSyntheticPreviousPeriod returns the fixed-ratio placeholder baseline
func NewSyntheticPreviousPeriod() *SyntheticPreviousPeriod {
	return &SyntheticPreviousPeriod{
		PositiveRatio: 0.88,
		NeutralRatio:  1.05,
		NegativeRatio: 0.92,
	}
}

func (p *SyntheticPreviousPeriod) PreviousPeriod(current models.SentimentSummary) (PeriodCounts, error) {
	return PeriodCounts{
		Positive: float64(current.Positive) * p.PositiveRatio,
		Neutral:  float64(current.Neutral) * p.NeutralRatio,
		Negative: float64(current.Negative) * p.NegativeRatio,
	}, nil
}

// BuildSummaryView derives the summary cards from the raw counts. When the provider
// fails, changes are reported as 0.
func BuildSummaryView(summary models.SentimentSummary, provider PreviousPeriodProvider) *models.SummaryView {
	var previous PeriodCounts
	havePrevious := false
	if provider != nil {
		p, err := provider.PreviousPeriod(summary)
		if err != nil {
			logrus.Warnf("Previous period unavailable, reporting no change: %v", err)
		} else {
			previous = p
			havePrevious = true
		}
	}

	total := float64(summary.Total)
	category := func(sentiment models.Sentiment, count int, prev float64) models.CategoryStat {
		stat := models.CategoryStat{
			Sentiment:  sentiment,
			Count:      count,
			Percentage: Percentage(float64(count), total),
		}
		if havePrevious {
			stat.Change = ChangePercent(float64(count), prev)
		}
		return stat
	}

	return &models.SummaryView{
		Total:           summary.Total,
		AverageCompound: summary.AverageCompound,
		Meter:           MeterValue(summary.AverageCompound),
		Categories: []models.CategoryStat{
			category(models.SentimentPositive, summary.Positive, previous.Positive),
			category(models.SentimentNeutral, summary.Neutral, previous.Neutral),
			category(models.SentimentNegative, summary.Negative, previous.Negative),
		},
	}
}

// BuildPlatformShares attaches each platform's share of its total. A platform without
// a total is measured against the sum of all platform values.
func BuildPlatformShares(stats []models.PlatformStat) []models.PlatformShare {
	sum := 0
	for _, stat := range stats {
		sum += stat.Value
	}

	shares := make([]models.PlatformShare, 0, len(stats))
	for _, stat := range stats {
		if stat.Total == 0 {
			stat.Total = sum
		}
		shares = append(shares, models.PlatformShare{
			PlatformStat: stat,
			Percentage:   Percentage(float64(stat.Value), float64(stat.Total)),
		})
	}
	return shares
}
