package analytics

import (
	"math"

	"github.com/leapscholar/perception-monitor/internal/models"
)

// Compound score thresholds. Both bounds are exclusive.
const (
	PositiveThreshold = 0.33
	NegativeThreshold = -0.33
)

// Percentage returns value as a percentage of total rounded to one decimal.
// A zero total yields 0.
func Percentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return roundHalfUp(value/total*1000) / 10
}

// ChangePercent returns the whole-number relative change from previous to current
func ChangePercent(current, previous float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(roundHalfUp((current - previous) / previous * 100))
}

// Classify maps a compound score to its sentiment category
func Classify(compound float64) models.Sentiment {
	switch {
	case compound > PositiveThreshold:
		return models.SentimentPositive
	case compound < NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// MeterValue maps a compound score in [-1, 1] onto the 0-100 meter scale.
// Out-of-range input is clamped.
func MeterValue(compound float64) float64 {
	return math.Min(math.Max((compound+1)*50, 0), 100)
}

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
