package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/leapscholar/perception-monitor/internal/backend"
	"github.com/leapscholar/perception-monitor/internal/config"
	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("🔍 Perception Monitor - Backend Connectivity Test")
	fmt.Println("=================================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logrus.SetLevel(logrus.WarnLevel)

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
	defer cancel()

	fmt.Printf("\n📡 Testing %s...\n", cfg.BackendURL)
	fmt.Println(strings.Repeat("-", 40))

	failures := 0
	check := func(name string, fn func() (string, error)) {
		fmt.Printf("🔸 Testing %s... ", name)
		start := time.Now()
		detail, err := fn()
		if err != nil {
			failures++
			fmt.Printf("❌ ERROR: %v\n", err)
			return
		}
		fmt.Printf("✅ SUCCESS (%s, %v)\n", detail, time.Since(start).Round(time.Millisecond))
	}

	days := cfg.LookbackDays
	check("/summary", func() (string, error) {
		summary, err := client.FetchSummary(ctx, days)
		return fmt.Sprintf("%d mentions", summary.Total), err
	})
	check("/platforms", func() (string, error) {
		stats, err := client.FetchPlatforms(ctx, days)
		return fmt.Sprintf("%d platforms", len(stats)), err
	})
	check("/timeline", func() (string, error) {
		points, err := client.FetchTimeline(ctx, days, "")
		return fmt.Sprintf("%d points", len(points)), err
	})
	check("/top", func() (string, error) {
		top, err := client.FetchTopMentions(ctx, cfg.TopLimit, days)
		return fmt.Sprintf("%d positive, %d negative", len(top.Positive), len(top.Negative)), err
	})
	check("/mentions", func() (string, error) {
		items, err := client.FetchMentions(ctx, backend.MentionsQuery{Days: days})
		return fmt.Sprintf("%d mentions", len(items)), err
	})

	if failures > 0 {
		log.Fatalf("\n%d of 5 endpoints failed", failures)
	}
	fmt.Println("\n✅ Backend connectivity test completed!")
}
