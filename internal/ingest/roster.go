// Package ingest runs the batch jobs that pull external data into the
// local database: roster scraping, bill sync, FEC ID resolution and
// per-politician finance sync. Jobs log and count per-record failures
// instead of aborting the run.
package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicscope/civicscope/internal/database"
	"github.com/civicscope/civicscope/internal/scrape"
)

// sqliteTimeLayout matches sqlite's datetime('now') output (UTC).
const sqliteTimeLayout = "2006-01-02 15:04:05"

// RosterResult summarizes one roster run.
type RosterResult struct {
	Skipped bool
	House   int
	Senate  int
	Created int
	Updated int
	Failed  int
}

// RosterJob refreshes the politicians table from the chamber listing
// pages. A run is skipped when the stored roster is younger than maxAge,
// unless forced.
type RosterJob struct {
	db      *database.DB
	scraper *scrape.RosterScraper
	maxAge  time.Duration
	log     zerolog.Logger
}

// NewRosterJob creates a RosterJob.
func NewRosterJob(db *database.DB, scraper *scrape.RosterScraper, maxAge time.Duration, log zerolog.Logger) *RosterJob {
	return &RosterJob{db: db, scraper: scraper, maxAge: maxAge, log: log}
}

// Run scrapes both chambers and upserts every member.
func (j *RosterJob) Run(ctx context.Context, force bool) (*RosterResult, error) {
	result := &RosterResult{}

	if !force {
		fresh, err := j.rosterFresh()
		if err != nil {
			return nil, err
		}
		if fresh {
			j.log.Info().Dur("max_age", j.maxAge).Msg("roster is fresh, skipping scrape")
			result.Skipped = true
			return result, nil
		}
	}

	house, err := j.scraper.HouseMembers(ctx)
	if err != nil {
		return nil, err
	}
	result.House = len(house)
	j.log.Info().Int("members", len(house)).Msg("scraped house roster")

	senate, err := j.scraper.SenateMembers(ctx)
	if err != nil {
		return nil, err
	}
	result.Senate = len(senate)
	j.log.Info().Int("members", len(senate)).Msg("scraped senate roster")

	for _, m := range append(house, senate...) {
		_, created, err := j.db.UpsertPolitician(m.FirstName, m.LastName, m.Party, m.State, m.District, m.Office)
		if err != nil {
			j.log.Warn().Err(err).Str("name", m.FirstName+" "+m.LastName).Msg("failed to store member")
			result.Failed++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	j.log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("roster sync complete")
	return result, nil
}

func (j *RosterJob) rosterFresh() (bool, error) {
	latest, err := j.db.LatestScrapeTime()
	if err != nil {
		return false, err
	}
	if latest == nil {
		return false, nil
	}
	scraped, err := time.Parse(sqliteTimeLayout, *latest)
	if err != nil {
		return false, nil
	}
	return time.Since(scraped.UTC()) < j.maxAge, nil
}
