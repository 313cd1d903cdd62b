// Package analysis holds the money-to-legislation heuristics: industry
// aggregation, keyword-overlap conflict flagging and vote correlation.
// All of it is advisory substring matching, not a verified finding.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/civicscope/civicscope/internal/database"
)

// Severity tiers for a flagged conflict, by matched-dollar total.
const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"

	mediumThreshold = 10_000
	highThreshold   = 100_000
)

// LabeledAmount is one monetary record tagged with a free-text category.
type LabeledAmount struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// IndustryTotal is one aggregation bucket.
type IndustryTotal struct {
	Industry string  `json:"industry"`
	Total    float64 `json:"total"`
}

// TopIndustries buckets entries by their exact label and returns totals
// sorted descending, truncated to n (n <= 0 returns all buckets). Labels
// are not normalized: "Tech" and "Technology" stay distinct buckets.
func TopIndustries(entries []LabeledAmount, n int) []IndustryTotal {
	totals := make(map[string]float64)
	for _, e := range entries {
		totals[e.Label] += e.Amount
	}

	out := make([]IndustryTotal, 0, len(totals))
	for industry, total := range totals {
		out = append(out, IndustryTotal{Industry: industry, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Industry < out[j].Industry
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ConflictAnalysis is the result of checking one bill against one
// politician's financial records.
type ConflictAnalysis struct {
	BillNumber           string                  `json:"billNumber"`
	HasConflict          bool                    `json:"hasConflict"`
	Severity             string                  `json:"severity"`
	Description          string                  `json:"description"`
	TotalAmount          float64                 `json:"totalAmount"`
	RelatedContributions []database.Contribution `json:"relatedContributions,omitempty"`
	RelatedInvestments   []database.Investment   `json:"relatedInvestments,omitempty"`
}

// AnalyzeBillConflicts flags a potential conflict when any token of a
// contribution's industry label or an investment's asset description
// appears as a substring of the bill's title or summary
// (case-insensitive). Severity is tiered on the matched-dollar total:
// HIGH >= 100000, MEDIUM >= 10000, else LOW.
func AnalyzeBillConflicts(bill database.Bill, contributions []database.Contribution, investments []database.Investment) ConflictAnalysis {
	if len(contributions) == 0 && len(investments) == 0 {
		return ConflictAnalysis{
			BillNumber:  bill.BillNumber,
			Severity:    SeverityLow,
			Description: "No financial data available for analysis",
		}
	}

	title := strings.ToLower(bill.Title)
	summary := strings.ToLower(bill.Summary)

	var related []database.Contribution
	for _, c := range contributions {
		if anyTokenMatches(c.Industry, title, summary) {
			related = append(related, c)
		}
	}

	var relatedInv []database.Investment
	for _, inv := range investments {
		if anyTokenMatches(inv.Asset, title, summary) {
			relatedInv = append(relatedInv, inv)
		}
	}

	if len(related) == 0 && len(relatedInv) == 0 {
		return ConflictAnalysis{
			BillNumber:  bill.BillNumber,
			Severity:    SeverityLow,
			Description: "No potential conflicts detected",
		}
	}

	var total float64
	for _, c := range related {
		total += c.Amount
	}
	for _, inv := range relatedInv {
		total += inv.Value
	}

	severity := SeverityLow
	switch {
	case total >= highThreshold:
		severity = SeverityHigh
	case total >= mediumThreshold:
		severity = SeverityMedium
	}

	return ConflictAnalysis{
		BillNumber:  bill.BillNumber,
		HasConflict: true,
		Severity:    severity,
		Description: fmt.Sprintf(
			"Found %d related contributions and %d related investments that may indicate a conflict of interest.",
			len(related), len(relatedInv),
		),
		TotalAmount:          total,
		RelatedContributions: related,
		RelatedInvestments:   relatedInv,
	}
}

// anyTokenMatches reports whether any whitespace-separated token of
// label occurs in title or summary. Comparison is case-insensitive.
func anyTokenMatches(label, lowerTitle, lowerSummary string) bool {
	for _, token := range strings.Fields(strings.ToLower(label)) {
		if strings.Contains(lowerTitle, token) || strings.Contains(lowerSummary, token) {
			return true
		}
	}
	return false
}
