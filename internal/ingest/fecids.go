package ingest

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/civicscope/civicscope/internal/database"
	"github.com/civicscope/civicscope/internal/fec"
)

// FECIDResult summarizes one FEC ID resolution run.
type FECIDResult struct {
	Scanned   int
	Matched   int
	Unmatched int
	Failed    int
}

// FECIDJob resolves FEC candidate IDs for politicians that lack one by
// searching the candidate index by name.
type FECIDJob struct {
	db  *database.DB
	fec *fec.Client
	log zerolog.Logger
}

// NewFECIDJob creates an FECIDJob.
func NewFECIDJob(db *database.DB, fecClient *fec.Client, log zerolog.Logger) *FECIDJob {
	return &FECIDJob{db: db, fec: fecClient, log: log}
}

// Run searches each unresolved politician and stores the top candidate,
// which the search already ranks by total receipts.
func (j *FECIDJob) Run(ctx context.Context) (*FECIDResult, error) {
	politicians, err := j.db.PoliticiansMissingFECID()
	if err != nil {
		return nil, err
	}

	result := &FECIDResult{Scanned: len(politicians)}
	for _, p := range politicians {
		name := p.FirstName + " " + p.LastName
		candidates, err := j.fec.SearchCandidates(ctx, name)
		if err != nil {
			j.log.Warn().Err(err).Str("name", name).Msg("candidate search failed")
			result.Failed++
			continue
		}
		if len(candidates) == 0 {
			result.Unmatched++
			continue
		}
		if len(candidates) > 1 {
			j.log.Debug().Str("name", name).Int("candidates", len(candidates)).
				Msg("multiple candidates, using highest receipts")
		}
		if err := j.db.SetFECCandidateID(p.ID, candidates[0].CandidateID); err != nil {
			result.Failed++
			continue
		}
		result.Matched++
	}

	j.log.Info().
		Int("scanned", result.Scanned).
		Int("matched", result.Matched).
		Int("unmatched", result.Unmatched).
		Int("failed", result.Failed).
		Msg("fec id resolution complete")
	return result, nil
}
