package dashboard

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leapscholar/perception-monitor/internal/analytics"
	"github.com/leapscholar/perception-monitor/internal/backend"
	"github.com/leapscholar/perception-monitor/internal/config"
	"github.com/leapscholar/perception-monitor/internal/links"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/leapscholar/perception-monitor/internal/ranking"
	"github.com/leapscholar/perception-monitor/internal/telemetry"
	"github.com/sirupsen/logrus"
)

// Orchestrator fetches every dashboard section from the backend and publishes one
// consolidated snapshot per fetch cycle
type Orchestrator struct {
	config   *config.Config
	api      backend.API
	previous analytics.PreviousPeriodProvider

	mu         sync.RWMutex
	generation uint64 // latest started cycle
	closed     bool
	snapshot   *models.Snapshot
}

// NewOrchestrator creates an orchestrator in the loading state. A nil provider uses the
// synthetic previous-period baseline.
func NewOrchestrator(cfg *config.Config, api backend.API, previous analytics.PreviousPeriodProvider) *Orchestrator {
	if previous == nil {
		previous = analytics.NewSyntheticPreviousPeriod()
	}

	return &Orchestrator{
		config:   cfg,
		api:      api,
		previous: previous,
		snapshot: &models.Snapshot{
			State: models.StateLoading,
			Days:  cfg.LookbackDays,
		},
	}
}

// fetchResults holds one slot per concurrent fetch
type fetchResults struct {
	summary   models.SentimentSummary
	platforms []models.PlatformStat
	timeline  []models.TimelineDataPoint
	top       models.TopMentionsResult
}

// Load runs one fetch cycle. All four sections are requested concurrently and the cycle
// waits for every one of them; a single failure turns the whole snapshot into an error.
// The result is published unless a newer cycle started or the orchestrator was closed in
// the meantime. The built snapshot is returned either way.
func (o *Orchestrator) Load(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()

	o.mu.Lock()
	o.generation++
	generation := o.generation
	o.mu.Unlock()

	logrus.Infof("Starting fetch cycle %d (window: %d days)", generation, o.config.LookbackDays)

	var results fetchResults
	var wg sync.WaitGroup
	errorsChan := make(chan error, 4)

	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				logrus.Errorf("Error fetching %s: %v", name, err)
				errorsChan <- err
				return
			}
			logrus.Debugf("Fetched %s", name)
		}()
	}

	days := o.config.LookbackDays
	fetch("summary", func() (err error) {
		results.summary, err = o.api.FetchSummary(ctx, days)
		return err
	})
	fetch("platforms", func() (err error) {
		results.platforms, err = o.api.FetchPlatforms(ctx, days)
		return err
	})
	fetch("timeline", func() (err error) {
		results.timeline, err = o.api.FetchTimeline(ctx, days, o.timelineGroup())
		return err
	})
	fetch("top mentions", func() (err error) {
		results.top, err = o.api.FetchTopMentions(ctx, o.config.TopLimit, days)
		return err
	})

	wg.Wait()
	close(errorsChan)

	// the first failure to arrive is the one reported
	fetchErr := <-errorsChan

	var snapshot *models.Snapshot
	if fetchErr != nil {
		snapshot = errorSnapshot(generation, days, fetchErr)
	} else {
		snapshot = BuildSnapshot(generation, days, results.summary, results.platforms, results.timeline, results.top, o.previous)
	}

	telemetry.FetchCycleDuration.Observe(time.Since(start).Seconds())

	if !o.publish(snapshot) {
		telemetry.FetchCycles.WithLabelValues("stale").Inc()
		logrus.Warnf("Discarding stale fetch cycle %d", generation)
		return snapshot, fetchErr
	}

	telemetry.FetchCycles.WithLabelValues(string(snapshot.State)).Inc()
	telemetry.SnapshotGeneration.Set(float64(generation))

	if fetchErr != nil {
		logrus.Errorf("Fetch cycle %d failed in %v: %v", generation, time.Since(start), fetchErr)
		return snapshot, fetchErr
	}

	logrus.Infof("Fetch cycle %d completed in %v", generation, time.Since(start))
	return snapshot, nil
}

// publish swaps in the snapshot if its cycle is still the current one
func (o *Orchestrator) publish(snapshot *models.Snapshot) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || snapshot.Generation != o.generation {
		return false
	}
	o.snapshot = snapshot
	return true
}

// Snapshot returns the currently published snapshot. It must not be modified.
func (o *Orchestrator) Snapshot() *models.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshot
}

// Close stops publishing. Cycles still in flight run to completion but their results are
// dropped.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.generation++
}

// Mentions fetches the raw mention list. It does not touch the published snapshot.
func (o *Orchestrator) Mentions(ctx context.Context, query backend.MentionsQuery) ([]models.MentionItem, error) {
	if query.Days <= 0 {
		query.Days = o.config.LookbackDays
	}
	return o.api.FetchMentions(ctx, query)
}

func (o *Orchestrator) timelineGroup() string {
	if o.config.TimelineGroup == "date" {
		return ""
	}
	return o.config.TimelineGroup
}

// BuildSnapshot derives a ready snapshot from successfully fetched sections
func BuildSnapshot(
	generation uint64,
	days int,
	summary models.SentimentSummary,
	platforms []models.PlatformStat,
	timeline []models.TimelineDataPoint,
	top models.TopMentionsResult,
	previous analytics.PreviousPeriodProvider,
) *models.Snapshot {
	sorted := analytics.SortTimeline(timeline)

	return &models.Snapshot{
		ID:          uuid.NewString(),
		Generation:  generation,
		State:       models.StateReady,
		GeneratedAt: time.Now().UTC(),
		Days:        days,
		Summary:     analytics.BuildSummaryView(summary, previous),
		Platforms:   analytics.BuildPlatformShares(platforms),
		Timeline:    sorted,
		TimelineMax: analytics.TimelineMax(sorted),
		TopMentions: BuildMentionCards(top),
		Words:       analytics.BuildWordCloud(nil),
	}
}

// BuildMentionCards ranks both lists into the fixed-size top-mentions grid
func BuildMentionCards(top models.TopMentionsResult) []models.MentionCard {
	slots := ranking.SelectTop(top.Positive, top.Negative, ranking.Slots)

	cards := make([]models.MentionCard, 0, len(slots))
	for _, m := range slots {
		if m == nil {
			cards = append(cards, models.MentionCard{Placeholder: true})
			continue
		}

		card := models.MentionCard{
			Mention:   m,
			Sentiment: analytics.Classify(m.Compound),
			Score:     int(math.Round(math.Abs(m.Compound) * 100)),
			Label:     m.Platform,
		}
		if m.Source != nil {
			card.Label = *m.Source
		}
		if link, ok := links.Resolve(m.Platform, m.URL, m.Source); ok {
			card.Link = link
		}
		cards = append(cards, card)
	}
	return cards
}

func errorSnapshot(generation uint64, days int, err error) *models.Snapshot {
	return &models.Snapshot{
		ID:          uuid.NewString(),
		Generation:  generation,
		State:       models.StateError,
		Error:       fmt.Sprint(err),
		GeneratedAt: time.Now().UTC(),
		Days:        days,
	}
}
