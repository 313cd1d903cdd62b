package fec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/civicscope/civicscope/internal/analysis"
	"github.com/civicscope/civicscope/internal/linkage"
)

// Candidate is an FEC candidate record.
type Candidate struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Party       string `json:"party"`
	State       string `json:"state"`
	Office      string `json:"office"`
	District    string `json:"district"`
	Cycles      []int  `json:"cycles"`
}

// Committee is a campaign committee tied to a candidate.
type Committee struct {
	CommitteeID   string `json:"committee_id"`
	Name          string `json:"name"`
	CommitteeType string `json:"committee_type"`
	Designation   string `json:"designation"`
}

// Contribution is one schedule A receipt.
type Contribution struct {
	ContributorName       string  `json:"contributor_name"`
	ContributorEmployer   string  `json:"contributor_employer"`
	ContributorOccupation string  `json:"contributor_occupation"`
	Amount                float64 `json:"contribution_receipt_amount"`
	Date                  string  `json:"contribution_receipt_date"`
	EntityType            string  `json:"entity_type"`
	EntityTypeDesc        string  `json:"entity_type_desc"`
	CommitteeID           string  `json:"committee_id"`
}

// IndependentExpenditure is one schedule E disbursement.
type IndependentExpenditure struct {
	CommitteeID            string  `json:"committee_id"`
	CommitteeName          string  `json:"committee_name"`
	CandidateName          string  `json:"candidate_name"`
	CandidateID            string  `json:"candidate_id"`
	SupportOpposeIndicator string  `json:"support_oppose_indicator"`
	Amount                 float64 `json:"expenditure_amount"`
	Date                   string  `json:"expenditure_date"`
	PurposeDescription     string  `json:"expenditure_description"`
	PayeeName              string  `json:"payee_name"`
}

type resultsEnvelope[T any] struct {
	Results []T `json:"results"`
}

func decodeResults[T any](body []byte, what string) ([]T, error) {
	var env resultsEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", what, err)
	}
	return env.Results, nil
}

// SearchCandidates searches candidates by name, highest receipts first.
// Free-text names are flipped to the "Last, First" format the FEC
// search index expects.
func (c *Client) SearchCandidates(ctx context.Context, name string) ([]Candidate, error) {
	first, last := linkage.SplitName(name)
	searchName := last
	if first != "" {
		searchName = last + ", " + first
	}

	body, err := c.get(ctx, "/candidates/search", url.Values{
		"q":                   {searchName},
		"sort":                {"-receipts"},
		"per_page":            {"5"},
		"election_full":       {"true"},
		"is_active_candidate": {"true"},
	})
	if err != nil {
		return nil, err
	}
	return decodeResults[Candidate](body, "candidate search")
}

// CandidateByID fetches one candidate record.
func (c *Client) CandidateByID(ctx context.Context, candidateID string) (*Candidate, error) {
	body, err := c.get(ctx, "/candidate/"+candidateID, url.Values{})
	if err != nil {
		return nil, err
	}
	results, err := decodeResults[Candidate](body, "candidate")
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// CandidateCommittees lists the committees registered to a candidate.
func (c *Client) CandidateCommittees(ctx context.Context, candidateID string) ([]Committee, error) {
	body, err := c.get(ctx, "/candidate/"+candidateID+"/committees", url.Values{})
	if err != nil {
		return nil, err
	}
	return decodeResults[Committee](body, "committees")
}

// CommitteeContributions lists schedule A receipts for a committee,
// largest first. minAmount > 0 restricts to large receipts.
func (c *Client) CommitteeContributions(ctx context.Context, committeeID string, minAmount float64) ([]Contribution, error) {
	params := url.Values{
		"committee_id": {committeeID},
		"sort":         {"-contribution_receipt_amount"},
		"per_page":     {"100"},
	}
	if minAmount > 0 {
		params.Set("min_amount", strconv.FormatFloat(minAmount, 'f', -1, 64))
	}

	body, err := c.get(ctx, "/schedules/schedule_a", params)
	if err != nil {
		return nil, err
	}
	return decodeResults[Contribution](body, "contributions")
}

// IndependentExpenditures lists schedule E spending for or against a
// candidate, newest first.
func (c *Client) IndependentExpenditures(ctx context.Context, candidateID string) ([]IndependentExpenditure, error) {
	body, err := c.get(ctx, "/schedules/schedule_e", url.Values{
		"candidate_id": {candidateID},
		"sort":         {"-expenditure_date"},
		"per_page":     {"100"},
		"is_notice":    {"false"},
	})
	if err != nil {
		return nil, err
	}
	return decodeResults[IndependentExpenditure](body, "expenditures")
}

// TopIndustries aggregates a candidate's committee receipts by
// contributor employer. The FEC has no direct industry totals, so this
// is a client-side aggregation; empty employers bucket under "Unknown".
func (c *Client) TopIndustries(ctx context.Context, candidateID string, n int) ([]analysis.IndustryTotal, error) {
	committees, err := c.CandidateCommittees(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	var entries []analysis.LabeledAmount
	for _, committee := range committees {
		contributions, err := c.CommitteeContributions(ctx, committee.CommitteeID, 0)
		if err != nil {
			return nil, err
		}
		for _, contribution := range contributions {
			label := contribution.ContributorEmployer
			if label == "" {
				label = "Unknown"
			}
			entries = append(entries, analysis.LabeledAmount{Label: label, Amount: contribution.Amount})
		}
	}

	return analysis.TopIndustries(entries, n), nil
}
