package analytics

import (
	"math"

	"github.com/leapscholar/perception-monitor/internal/models"
)

const (
	minFontSize = 12.0
	maxFontSize = 48.0
)

// wordPalette is ordered from the lightest to the heaviest bucket
var wordPalette = []string{
	"#673AB7", // primary
	"#009688", // secondary
	"#2E7D32", // success
	"#FF9800", // warning
	"#F44336", // error
	"#0288D1", // info
}

// DefaultWords is shown until the backend provides term frequencies
func DefaultWords() []models.Word {
	return []models.Word{
		{Text: "education", Value: 100},
		{Text: "study", Value: 90},
		{Text: "abroad", Value: 85},
		{Text: "university", Value: 80},
		{Text: "student", Value: 75},
		{Text: "scholarship", Value: 70},
		{Text: "learning", Value: 65},
		{Text: "course", Value: 60},
		{Text: "degree", Value: 55},
		{Text: "campus", Value: 50},
		{Text: "international", Value: 45},
		{Text: "admission", Value: 40},
		{Text: "application", Value: 35},
		{Text: "program", Value: 30},
		{Text: "career", Value: 25},
	}
}

// WordColor picks the palette bucket for a word weight
func WordColor(value int) string {
	last := len(wordPalette) - 1
	index := int(math.Floor(float64(value) / 100 * float64(last)))
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	return wordPalette[index]
}

// WordFontSize scales a 0-100 weight linearly onto the font range
func WordFontSize(value int) float64 {
	return minFontSize + float64(value)/100*(maxFontSize-minFontSize)
}

// BuildWordCloud resolves size and color for each word, falling back to DefaultWords
// when none are given
func BuildWordCloud(words []models.Word) []models.WordView {
	if len(words) == 0 {
		words = DefaultWords()
	}

	views := make([]models.WordView, 0, len(words))
	for _, w := range words {
		color := w.Color
		if color == "" {
			color = WordColor(w.Value)
		}
		views = append(views, models.WordView{
			Text:     w.Text,
			Value:    w.Value,
			Color:    color,
			FontSize: WordFontSize(w.Value),
		})
	}
	return views
}
