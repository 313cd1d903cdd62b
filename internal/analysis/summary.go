package analysis

import (
	"sort"
	"strings"

	"github.com/civicscope/civicscope/internal/database"
)

// FinancialSummary is the dashboard view of one politician's money:
// contribution totals bucketed by industry and investment totals
// bucketed by type, both sorted descending.
type FinancialSummary struct {
	Contributions ContributionSummary `json:"contributions"`
	Investments   InvestmentSummary   `json:"investments"`
}

type ContributionSummary struct {
	Total      float64         `json:"total"`
	ByIndustry []IndustryTotal `json:"byIndustry"`
}

type InvestmentSummary struct {
	Total  float64         `json:"total"`
	ByType []IndustryTotal `json:"byType"`
}

// Summarize aggregates a politician's financial records.
func Summarize(contributions []database.Contribution, investments []database.Investment) FinancialSummary {
	var s FinancialSummary

	centries := make([]LabeledAmount, len(contributions))
	for i, c := range contributions {
		s.Contributions.Total += c.Amount
		centries[i] = LabeledAmount{Label: c.Industry, Amount: c.Amount}
	}
	s.Contributions.ByIndustry = TopIndustries(centries, 0)

	ientries := make([]LabeledAmount, len(investments))
	for i, inv := range investments {
		s.Investments.Total += inv.Value
		ientries[i] = LabeledAmount{Label: inv.Type, Amount: inv.Value}
	}
	s.Investments.ByType = TopIndustries(ientries, 0)

	return s
}

// VoteCorrelation scores how a politician's votes lean on bills whose
// titles mention an industry they take money from. The score is the
// mean of +1 per YEA and -1 per other position over matching votes.
type VoteCorrelation struct {
	Industry          string  `json:"industry"`
	Correlation       float64 `json:"correlation"`
	ContributionTotal float64 `json:"contributionTotal"`
	MatchedVotes      int     `json:"matchedVotes"`
}

// VoteCorrelations cross-references contributions against votes by
// industry-token containment in the vote's bill title, sorted by
// contribution total descending. Industries with no matching votes are
// omitted.
func VoteCorrelations(contributions []database.Contribution, votes []database.Vote) []VoteCorrelation {
	totals := make(map[string]float64)
	for _, c := range contributions {
		totals[c.Industry] += c.Amount
	}

	var out []VoteCorrelation
	for industry, total := range totals {
		score, matched := 0, 0
		for _, v := range votes {
			if !anyTokenMatches(industry, strings.ToLower(v.BillTitle), "") {
				continue
			}
			matched++
			if v.Position == "YEA" {
				score++
			} else {
				score--
			}
		}
		if matched == 0 {
			continue
		}
		out = append(out, VoteCorrelation{
			Industry:          industry,
			Correlation:       float64(score) / float64(matched),
			ContributionTotal: total,
			MatchedVotes:      matched,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ContributionTotal != out[j].ContributionTotal {
			return out[i].ContributionTotal > out[j].ContributionTotal
		}
		return out[i].Industry < out[j].Industry
	})
	return out
}
