package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/civicscope/civicscope/internal/congress"
	"github.com/civicscope/civicscope/internal/database"
	"github.com/civicscope/civicscope/internal/fec"
	"github.com/civicscope/civicscope/internal/linkage"
)

// SyncResult summarizes one per-politician finance sync.
type SyncResult struct {
	PoliticianID  int64
	Created       bool
	Contributions int
	Expenditures  int
	Votes         int
	Failed        int
}

// SyncJob pulls campaign finance records for one politician from the
// FEC, creating the politician row from candidate data when the name is
// not yet known locally. With a congress client, recorded votes are
// pulled as well.
type SyncJob struct {
	db        *database.DB
	fec       *fec.Client
	congress  *congress.Client
	matcher   *linkage.Matcher
	minAmount float64
	log       zerolog.Logger
}

// NewSyncJob creates a SyncJob. congressClient may be nil, in which
// case vote sync is skipped.
func NewSyncJob(db *database.DB, fecClient *fec.Client, congressClient *congress.Client, minAmount float64, log zerolog.Logger) *SyncJob {
	return &SyncJob{
		db:        db,
		fec:       fecClient,
		congress:  congressClient,
		matcher:   linkage.NewMatcher(db),
		minAmount: minAmount,
		log:       log,
	}
}

// Run syncs finance data for the politician named by free-text name.
func (j *SyncJob) Run(ctx context.Context, name string) (*SyncResult, error) {
	result := &SyncResult{}

	politician, err := j.resolvePolitician(ctx, name, result)
	if err != nil {
		return nil, err
	}
	result.PoliticianID = politician.ID

	if politician.FECCandidateID == nil {
		return nil, fmt.Errorf("no FEC candidate ID for %s %s", politician.FirstName, politician.LastName)
	}
	candidateID := *politician.FECCandidateID

	if err := j.syncContributions(ctx, politician.ID, candidateID, result); err != nil {
		return nil, err
	}
	if err := j.syncExpenditures(ctx, politician.ID, candidateID, result); err != nil {
		return nil, err
	}
	if j.congress != nil && politician.BioguideID != nil {
		if err := j.syncVotes(ctx, politician.ID, *politician.BioguideID, result); err != nil {
			j.log.Warn().Err(err).Msg("vote sync failed, finance data kept")
		}
	}

	j.log.Info().
		Int64("politician_id", result.PoliticianID).
		Int("contributions", result.Contributions).
		Int("expenditures", result.Expenditures).
		Int("votes", result.Votes).
		Int("failed", result.Failed).
		Msg("finance sync complete")
	return result, nil
}

// resolvePolitician finds the local row for a name, or creates one from
// the top FEC candidate when the name is unknown.
func (j *SyncJob) resolvePolitician(ctx context.Context, name string, result *SyncResult) (*database.Politician, error) {
	match, err := j.matcher.MatchName(name, "")
	if err != nil {
		return nil, err
	}
	if match.Candidates > 1 {
		j.log.Debug().Str("name", name).Int("candidates", match.Candidates).
			Msg("ambiguous name, using first candidate")
	}

	if match.Politician != nil && match.Politician.FECCandidateID != nil {
		return match.Politician, nil
	}

	candidates, err := j.fec.SearchCandidates(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		if match.Politician != nil {
			return match.Politician, nil
		}
		return nil, fmt.Errorf("no candidate found for %q", name)
	}
	candidate := candidates[0]

	id := int64(0)
	if match.Politician != nil {
		id = match.Politician.ID
	} else {
		first, last := linkage.SplitName(candidate.Name)
		var district *string
		if candidate.District != "" {
			district = &candidate.District
		}
		id, result.Created, err = j.db.UpsertPolitician(first, last, candidate.Party, candidate.State, district, officeName(candidate.Office))
		if err != nil {
			return nil, err
		}
	}

	if err := j.db.SetFECCandidateID(id, candidate.CandidateID); err != nil {
		return nil, err
	}
	return j.db.GetPolitician(id)
}

func (j *SyncJob) syncContributions(ctx context.Context, politicianID int64, candidateID string, result *SyncResult) error {
	committees, err := j.fec.CandidateCommittees(ctx, candidateID)
	if err != nil {
		return err
	}

	for _, committee := range committees {
		contributions, err := j.fec.CommitteeContributions(ctx, committee.CommitteeID, j.minAmount)
		if err != nil {
			j.log.Warn().Err(err).Str("committee", committee.CommitteeID).Msg("contribution fetch failed")
			result.Failed++
			continue
		}

		for _, contribution := range contributions {
			externalID := fmt.Sprintf("fec-%s-%s-%s-%.2f",
				committee.CommitteeID, contribution.Date, contribution.ContributorName, contribution.Amount)
			record := database.Contribution{
				ExternalID:   &externalID,
				PoliticianID: politicianID,
				Amount:       contribution.Amount,
				Source:       orDefault(contribution.ContributorName, committee.Name),
				Industry:     orDefault(contribution.ContributorOccupation, "Unknown"),
				Type:         orDefault(contribution.EntityTypeDesc, "Individual"),
			}
			if contribution.Date != "" {
				date := contribution.Date
				record.Date = &date
			}
			if _, err := j.db.UpsertContribution(record); err != nil {
				result.Failed++
				continue
			}
			result.Contributions++
		}
	}
	return nil
}

func (j *SyncJob) syncExpenditures(ctx context.Context, politicianID int64, candidateID string, result *SyncResult) error {
	expenditures, err := j.fec.IndependentExpenditures(ctx, candidateID)
	if err != nil {
		return err
	}

	for _, e := range expenditures {
		externalID := fmt.Sprintf("fec-ie-%s-%s-%.2f", e.CommitteeID, e.Date, e.Amount)
		record := database.Expenditure{
			ExternalID:   &externalID,
			PoliticianID: politicianID,
			Amount:       e.Amount,
			Source:       orDefault(e.CommitteeName, "Unknown"),
			Industry:     orDefault(e.PurposeDescription, "Unknown"),
			Type:         supportOppose(e.SupportOpposeIndicator),
		}
		if e.Date != "" {
			date := e.Date
			record.Date = &date
		}
		if _, err := j.db.UpsertExpenditure(record); err != nil {
			result.Failed++
			continue
		}
		result.Expenditures++
	}
	return nil
}

// syncVotes inserts recorded votes not already stored. Votes carry no
// stable upstream ID, so the title+position+date triple dedups reruns.
func (j *SyncJob) syncVotes(ctx context.Context, politicianID int64, bioguideID string, result *SyncResult) error {
	votes, err := j.congress.MemberVotes(ctx, bioguideID)
	if err != nil {
		return err
	}

	existing, err := j.db.GetVotes(politicianID)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[voteKey(v.BillTitle, v.Position, v.VoteDate)] = true
	}

	for _, v := range votes {
		var date *string
		if v.VoteDate != "" {
			d := v.VoteDate
			date = &d
		}
		key := voteKey(v.BillTitle, v.Position, date)
		if seen[key] {
			continue
		}
		seen[key] = true

		if _, err := j.db.InsertVote(database.Vote{
			PoliticianID: politicianID,
			BillTitle:    v.BillTitle,
			Position:     v.Position,
			VoteDate:     date,
		}); err != nil {
			result.Failed++
			continue
		}
		result.Votes++
	}
	return nil
}

func voteKey(title, position string, date *string) string {
	d := ""
	if date != nil {
		d = *date
	}
	return title + "|" + position + "|" + d
}

func supportOppose(indicator string) string {
	switch indicator {
	case "S":
		return "SUPPORT"
	case "O":
		return "OPPOSE"
	default:
		return "Unknown"
	}
}

func officeName(code string) string {
	switch code {
	case "H":
		return "House"
	case "S":
		return "Senate"
	case "P":
		return "President"
	default:
		return "Unknown"
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
