package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kien-ship-it/event-matcher-sub000/config"
	slotRepo "github.com/kien-ship-it/event-matcher-sub000/database/repository/slot"
	"github.com/kien-ship-it/event-matcher-sub000/services/ingest"
)

// FeedRefresher periodically re-imports external busy calendars. Each
// configured feed is keyed by the participant it belongs to, so its events
// become that participant's busy blocks.
type FeedRefresher struct {
	Repo    slotRepo.SlotRepository
	Fetcher *ingest.FeedFetcher
	Sources []config.FeedSource
	Logger  *zap.Logger
}

// Run refreshes every configured feed once. Individual feed failures are
// logged and skipped so one broken calendar cannot stall the rest.
func (j *FeedRefresher) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, source := range j.Sources {
		result, err := j.Fetcher.Fetch(ctx, source.ID, source.URL, []string{source.ID})
		if err != nil {
			j.Logger.Error("feed refresh failed",
				zap.String("feed", source.ID), zap.Error(err))
			continue
		}
		for _, warning := range result.Warnings {
			j.Logger.Warn("feed event skipped", zap.String("feed", source.ID), zap.String("reason", warning))
		}
		if err := j.Repo.ReplaceBusyBySource(ctx, source.ID, result.Blocks); err != nil {
			j.Logger.Error("failed to store feed busy blocks",
				zap.String("feed", source.ID), zap.Error(err))
			continue
		}
		j.Logger.Info("feed refreshed",
			zap.String("feed", source.ID), zap.Int("events", len(result.Blocks)))
	}
}

// Start schedules the refresher on the given cron spec and runs one initial
// import in the background.
func (j *FeedRefresher) Start(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, j.Run); err != nil {
		return nil, err
	}
	c.Start()
	go j.Run()
	return c, nil
}
