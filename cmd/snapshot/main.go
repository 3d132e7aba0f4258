package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/leapscholar/perception-monitor/internal/backend"
	"github.com/leapscholar/perception-monitor/internal/config"
	"github.com/leapscholar/perception-monitor/internal/dashboard"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/leapscholar/perception-monitor/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("📊 Perception Monitor - Snapshot Report")
	fmt.Println("=======================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.WarnLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
	defer cancel()

	orchestrator := dashboard.NewOrchestrator(cfg, backend.NewClient(cfg.BackendURL, cfg.RequestTimeout), nil)
	fmt.Printf("\n📡 Fetching the last %d days from %s...\n", cfg.LookbackDays, cfg.BackendURL)

	snapshot, err := orchestrator.Load(ctx)
	if err != nil {
		fmt.Printf("❌ Fetch failed: %v\n", err)
		os.Exit(1)
	}

	printSnapshot(snapshot)

	fileStorage, err := storage.NewFileStorage(cfg.ArchiveDir)
	if err != nil {
		fmt.Printf("\n⚠️  Warning: Could not open archive: %v\n", err)
		return
	}
	name, err := storage.NewArchive(fileStorage, cfg.ArchiveKeep).Save(ctx, snapshot)
	if err != nil {
		fmt.Printf("\n⚠️  Warning: Could not save snapshot: %v\n", err)
		return
	}
	fmt.Printf("\n💾 Snapshot saved to: %s/%s\n", cfg.ArchiveDir, name)
}

func printSnapshot(snapshot *models.Snapshot) {
	summary := snapshot.Summary

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("🕒 Generated: %s\n", snapshot.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("📈 Total Mentions: %d\n", summary.Total)
	fmt.Printf("🧭 Sentiment Meter: %s %.0f/100 (compound %.2f)\n", bar(summary.Meter, 100, 30), summary.Meter, summary.AverageCompound)

	fmt.Println("\n💭 Sentiment:")
	for _, c := range summary.Categories {
		fmt.Printf("   %s %-9s %6d  %5.1f%%  %+d%%\n", sentimentEmoji(c.Sentiment), string(c.Sentiment)+":", c.Count, c.Percentage, c.Change)
	}

	fmt.Println("\n📍 Platforms:")
	for _, p := range snapshot.Platforms {
		fmt.Printf("   • %-12s %6d  %5.1f%%  %s\n", p.Name+":", p.Value, p.Percentage, p.Color)
	}

	fmt.Println("\n📅 Timeline:")
	for _, point := range snapshot.Timeline {
		total := point.Positive + point.Neutral + point.Negative
		fmt.Printf("   %s  %s +%d ~%d -%d\n", point.Date, bar(float64(total), float64(snapshot.TimelineMax), 20), point.Positive, point.Neutral, point.Negative)
	}

	fmt.Println("\n📝 Top Mentions:")
	for i, card := range snapshot.TopMentions {
		if card.Placeholder {
			fmt.Printf("\n   %d. (no mention)\n", i+1)
			continue
		}
		fmt.Printf("\n   %d. [%s] %s\n", i+1, card.Label, card.Mention.Text)
		fmt.Printf("      %s %s | ⭐ Score: %d%%\n", sentimentEmoji(card.Sentiment), card.Sentiment, card.Score)
		if card.Link != "" {
			fmt.Printf("      🔗 URL: %s\n", card.Link)
		}
		if card.Mention.Date != nil {
			fmt.Printf("      🕒 Posted: %s\n", *card.Mention.Date)
		}
	}

	fmt.Println("\n☁️  Words:")
	var words []string
	for _, w := range snapshot.Words {
		words = append(words, fmt.Sprintf("%s(%d)", w.Text, w.Value))
	}
	fmt.Printf("   %s\n", strings.Join(words, " "))

	fmt.Println("\n" + strings.Repeat("=", 70))
}

func sentimentEmoji(s models.Sentiment) string {
	switch s {
	case models.SentimentPositive:
		return "😊"
	case models.SentimentNegative:
		return "😞"
	default:
		return "😐"
	}
}

func bar(value, limit float64, width int) string {
	if limit <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(value / limit * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
