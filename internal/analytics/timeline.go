package analytics

import (
	"sort"

	"github.com/leapscholar/perception-monitor/internal/models"
)

// SortTimeline returns a copy of points ordered by date ascending. Points sharing a
// date keep their input order; duplicates are not merged.
func SortTimeline(points []models.TimelineDataPoint) []models.TimelineDataPoint {
	sorted := make([]models.TimelineDataPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// TimelineMax returns the largest single-series count, used as the chart ceiling
func TimelineMax(points []models.TimelineDataPoint) int {
	max := 0
	for _, p := range points {
		for _, v := range []int{p.Positive, p.Neutral, p.Negative} {
			if v > max {
				max = v
			}
		}
	}
	return max
}
