package ranking

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/leapscholar/perception-monitor/internal/models"
)

// Slots is the number of cards in the top-mentions grid
const Slots = 6

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SelectTop merges both lists, ranks them and returns exactly n slots. Real mentions come
// first; missing slots are nil placeholders.
func SelectTop(positive, negative []models.MentionItem, n int) []*models.MentionItem {
	if n < 0 {
		n = 0
	}

	pool := make([]*models.MentionItem, 0, len(positive)+len(negative))
	for i := range positive {
		m := positive[i]
		pool = append(pool, &m)
	}
	for i := range negative {
		m := negative[i]
		pool = append(pool, &m)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return Less(pool[i], pool[j])
	})

	if len(pool) > n {
		pool = pool[:n]
	}
	for len(pool) < n {
		pool = append(pool, nil)
	}
	return pool
}

// Less reports whether a ranks ahead of b. When both carry a date the newer one wins;
// otherwise the stronger absolute compound score wins. The rule is applied per pair, so
// dated mentions are not guaranteed to precede undated ones.
func Less(a, b *models.MentionItem) bool {
	if hasDate(a) && hasDate(b) {
		ta, okA := ParseDate(*a.Date)
		tb, okB := ParseDate(*b.Date)
		if !okA || !okB {
			// an unreadable date compares equal
			return false
		}
		return ta.After(tb)
	}
	return math.Abs(a.Compound) > math.Abs(b.Compound)
}

// ParseDate reads the date formats the backend emits
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func hasDate(m *models.MentionItem) bool {
	return m.Date != nil && *m.Date != ""
}
