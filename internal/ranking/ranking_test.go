package ranking

import (
	"fmt"
	"testing"

	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func dated(text, date string, compound float64) models.MentionItem {
	return models.MentionItem{Platform: "twitter", Text: text, Compound: compound, Date: strPtr(date)}
}

func undated(text string, compound float64) models.MentionItem {
	return models.MentionItem{Platform: "news", Text: text, Compound: compound}
}

func texts(slots []*models.MentionItem) []string {
	var out []string
	for _, s := range slots {
		if s == nil {
			out = append(out, "<placeholder>")
			continue
		}
		out = append(out, s.Text)
	}
	return out
}

func TestSelectTop_MostRecentSix(t *testing.T) {
	var positive, negative []models.MentionItem
	for day := 1; day <= 4; day++ {
		positive = append(positive, dated(fmt.Sprintf("p%d", day), fmt.Sprintf("2024-05-0%d", day), 0.8))
	}
	for day := 5; day <= 8; day++ {
		negative = append(negative, dated(fmt.Sprintf("n%d", day), fmt.Sprintf("2024-05-0%d", day), -0.8))
	}

	slots := SelectTop(positive, negative, Slots)

	require.Len(t, slots, Slots)
	assert.Equal(t, []string{"n8", "n7", "n6", "n5", "p4", "p3"}, texts(slots))
}

func TestSelectTop_PadsWithPlaceholders(t *testing.T) {
	positive := []models.MentionItem{dated("a", "2024-05-01", 0.5)}
	negative := []models.MentionItem{dated("b", "2024-05-03", -0.5), dated("c", "2024-05-02", -0.9)}

	slots := SelectTop(positive, negative, Slots)

	require.Len(t, slots, Slots)
	assert.Equal(t, []string{"b", "c", "a", "<placeholder>", "<placeholder>", "<placeholder>"}, texts(slots))
}

func TestSelectTop_Empty(t *testing.T) {
	slots := SelectTop(nil, nil, Slots)

	require.Len(t, slots, Slots)
	for _, s := range slots {
		assert.Nil(t, s)
	}
}

func TestSelectTop_UndatedFallsBackToMagnitude(t *testing.T) {
	positive := []models.MentionItem{undated("mild", 0.4), undated("strong", 0.95)}
	negative := []models.MentionItem{undated("harsh", -0.7)}

	slots := SelectTop(positive, negative, 3)

	assert.Equal(t, []string{"strong", "harsh", "mild"}, texts(slots))
}

func TestSelectTop_DoesNotAliasInput(t *testing.T) {
	positive := []models.MentionItem{undated("a", 0.5)}

	slots := SelectTop(positive, nil, 1)
	slots[0].Text = "changed"

	assert.Equal(t, "a", positive[0].Text)
}

func TestLess(t *testing.T) {
	newer := dated("newer", "2024-05-02T10:00:00", 0.1)
	older := dated("older", "2024-05-01T10:00:00", 0.9)
	plain := undated("plain", 0.5)
	broken := dated("broken", "not a date", 0.99)

	assert.True(t, Less(&newer, &older))
	assert.False(t, Less(&older, &newer))

	// one side undated: magnitude decides
	assert.True(t, Less(&plain, &newer))
	assert.True(t, Less(&older, &plain))

	// unreadable dates compare equal
	assert.False(t, Less(&broken, &older))
	assert.False(t, Less(&older, &broken))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{
		"2024-05-01",
		"2024-05-01T12:30:00",
		"2024-05-01T12:30:00.123",
		"2024-05-01T12:30:00Z",
		"2024-05-01T12:30:00+05:30",
		"2024-05-01 12:30:00",
	} {
		_, ok := ParseDate(s)
		assert.True(t, ok, s)
	}

	_, ok := ParseDate("yesterday")
	assert.False(t, ok)
}
