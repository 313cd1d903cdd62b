package ingest

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/civicscope/civicscope/internal/congress"
	"github.com/civicscope/civicscope/internal/database"
	"github.com/civicscope/civicscope/internal/linkage"
)

// Congress.gov caps list pages at 250 records.
const billPageSize = 250

// BillsResult summarizes one bill sync run.
type BillsResult struct {
	Found     int
	Saved     int
	Linked    int
	Ambiguous int
	Failed    int
}

// BillsJob pulls recent bills for one congress and stores them with
// their sponsor linked to a politician row where possible.
type BillsJob struct {
	db       *database.DB
	client   *congress.Client
	matcher  *linkage.Matcher
	congress int
	limit    int
	log      zerolog.Logger
}

// NewBillsJob creates a BillsJob fetching up to limit bills.
func NewBillsJob(db *database.DB, client *congress.Client, congressNum, limit int, log zerolog.Logger) *BillsJob {
	return &BillsJob{
		db:       db,
		client:   client,
		matcher:  linkage.NewMatcher(db),
		congress: congressNum,
		limit:    limit,
		log:      log,
	}
}

// Run lists bills page by page, fetches each bill's detail and upserts
// it. Individual bill failures are logged and counted.
func (j *BillsJob) Run(ctx context.Context) (*BillsResult, error) {
	result := &BillsResult{}

	for offset := 0; offset < j.limit; offset += billPageSize {
		pageLimit := billPageSize
		if remaining := j.limit - offset; remaining < pageLimit {
			pageLimit = remaining
		}

		bills, err := j.client.RecentBills(ctx, j.congress, pageLimit, offset)
		if err != nil {
			return nil, err
		}
		if len(bills) == 0 {
			break
		}
		result.Found += len(bills)

		for _, b := range bills {
			if err := j.storeBill(ctx, b, result); err != nil {
				j.log.Warn().Err(err).
					Str("bill", strings.ToLower(b.Type)+b.Number).
					Msg("failed to store bill")
				result.Failed++
			}
		}
		j.log.Info().Int("found", result.Found).Int("saved", result.Saved).Msg("bill page processed")
	}

	j.log.Info().
		Int("found", result.Found).
		Int("saved", result.Saved).
		Int("linked", result.Linked).
		Int("ambiguous", result.Ambiguous).
		Int("failed", result.Failed).
		Msg("bill sync complete")
	return result, nil
}

func (j *BillsJob) storeBill(ctx context.Context, listed congress.Bill, result *BillsResult) error {
	detail, err := j.client.BillDetail(ctx, j.congress, strings.ToLower(listed.Type), listed.Number)
	if err != nil {
		return err
	}

	billNumber := strings.ToLower(detail.Type) + detail.Number
	var introduced *string
	if detail.IntroducedDate != "" {
		introduced = &detail.IntroducedDate
	}

	sponsorID, err := j.resolveSponsor(detail, result)
	if err != nil {
		return err
	}

	if _, err := j.db.UpsertBill(billNumber, detail.Title, detail.SummaryText(), introduced, detail.StatusText(), sponsorID); err != nil {
		return err
	}
	result.Saved++
	return nil
}

// resolveSponsor links the bill's sponsor to a politician row, first by
// bioguide ID and then by name. A bioguide ID learned through a name
// match is written back so later runs take the direct path.
func (j *BillsJob) resolveSponsor(detail *congress.Bill, result *BillsResult) (*int64, error) {
	if len(detail.Sponsors) == 0 {
		return nil, nil
	}
	sponsor := detail.Sponsors[0]

	if sponsor.BioguideID != "" {
		p, err := j.db.FindPoliticianByBioguide(sponsor.BioguideID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			result.Linked++
			return &p.ID, nil
		}
	}

	first, last := sponsor.FirstName, sponsor.LastName
	if first == "" && last == "" {
		first, last = linkage.SplitName(sponsor.FullName)
	}
	match, err := j.matcher.Match(first, last, sponsor.State)
	if err != nil {
		return nil, err
	}
	if match.Politician == nil {
		return nil, nil
	}
	if match.Candidates > 1 {
		result.Ambiguous++
		j.log.Debug().
			Str("sponsor", first+" "+last).
			Int("candidates", match.Candidates).
			Msg("ambiguous sponsor match, using first candidate")
	}

	if sponsor.BioguideID != "" && match.Politician.BioguideID == nil {
		if err := j.db.SetBioguideID(match.Politician.ID, sponsor.BioguideID); err != nil {
			return nil, err
		}
	}
	result.Linked++
	return &match.Politician.ID, nil
}
