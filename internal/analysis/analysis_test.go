package analysis

import (
	"testing"

	"github.com/civicscope/civicscope/internal/database"
)

func TestTopIndustriesConservation(t *testing.T) {
	entries := []LabeledAmount{
		{"Tech", 100},
		{"Technology", 250}, // distinct bucket, no normalization
		{"Energy", 50},
		{"Tech", 300},
	}

	var inputSum float64
	for _, e := range entries {
		inputSum += e.Amount
	}

	buckets := TopIndustries(entries, 0)

	var bucketSum float64
	for _, b := range buckets {
		bucketSum += b.Total
	}
	if bucketSum != inputSum {
		t.Errorf("bucket sum %f != input sum %f", bucketSum, inputSum)
	}

	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Total > buckets[i-1].Total {
			t.Errorf("buckets not sorted descending: %+v", buckets)
		}
	}
	if buckets[0].Industry != "Tech" || buckets[0].Total != 400 {
		t.Errorf("expected Tech=400 first, got %+v", buckets[0])
	}
}

func TestTopIndustriesTruncation(t *testing.T) {
	entries := []LabeledAmount{{"A", 1}, {"B", 2}, {"C", 3}}
	top := TopIndustries(entries, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(top))
	}
	if top[0].Industry != "C" || top[1].Industry != "B" {
		t.Errorf("unexpected top-2: %+v", top)
	}
}

func TestSeverityStrictBoundaries(t *testing.T) {
	bill := database.Bill{BillNumber: "hr1", Title: "Energy Act", Summary: ""}

	cases := []struct {
		amount   float64
		severity string
	}{
		{9_999, SeverityLow},
		{10_000, SeverityMedium},
		{99_999, SeverityMedium},
		{100_000, SeverityHigh},
	}
	for _, c := range cases {
		contributions := []database.Contribution{
			{Amount: c.amount, Industry: "Energy", Source: "Acme"},
		}
		result := AnalyzeBillConflicts(bill, contributions, nil)
		if !result.HasConflict {
			t.Fatalf("amount %f: expected a conflict", c.amount)
		}
		if result.Severity != c.severity {
			t.Errorf("amount %f: expected %s, got %s", c.amount, c.severity, result.Severity)
		}
	}
}

func TestConflictEndToEndScenario(t *testing.T) {
	bill := database.Bill{
		BillNumber: "hr42",
		Title:      "Tech Regulation Act",
		Summary:    "A bill to regulate technology platforms",
	}
	contributions := []database.Contribution{
		{Amount: 50_000, Industry: "Technology", Source: "BigCo PAC"},
	}

	result := AnalyzeBillConflicts(bill, contributions, nil)
	if !result.HasConflict {
		t.Fatal("expected hasConflict=true")
	}
	if result.Severity != SeverityMedium {
		t.Errorf("expected MEDIUM, got %s", result.Severity)
	}
	if len(result.RelatedContributions) != 1 || result.RelatedContributions[0].Source != "BigCo PAC" {
		t.Errorf("expected the contribution listed, got %+v", result.RelatedContributions)
	}
}

func TestConflictCaseInsensitiveTokenMatch(t *testing.T) {
	bill := database.Bill{BillNumber: "s9", Title: "PHARMACEUTICAL Pricing Act"}
	contributions := []database.Contribution{
		{Amount: 5_000, Industry: "pharmaceutical manufacturing"},
	}

	result := AnalyzeBillConflicts(bill, contributions, nil)
	if !result.HasConflict || result.Severity != SeverityLow {
		t.Errorf("expected LOW conflict, got %+v", result)
	}
}

func TestConflictNoData(t *testing.T) {
	bill := database.Bill{BillNumber: "hr1", Title: "Anything"}
	result := AnalyzeBillConflicts(bill, nil, nil)
	if result.HasConflict {
		t.Error("expected no conflict without financial data")
	}
	if result.Severity != SeverityLow {
		t.Errorf("expected LOW, got %s", result.Severity)
	}
}

func TestConflictNoMatch(t *testing.T) {
	bill := database.Bill{BillNumber: "hr1", Title: "Agriculture Subsidies Act"}
	contributions := []database.Contribution{
		{Amount: 1_000_000, Industry: "Aerospace"},
	}
	result := AnalyzeBillConflicts(bill, contributions, nil)
	if result.HasConflict {
		t.Errorf("expected no conflict, got %+v", result)
	}
}

func TestConflictIncludesInvestments(t *testing.T) {
	bill := database.Bill{BillNumber: "hr7", Title: "Semiconductor Manufacturing Act"}
	investments := []database.Investment{
		{Value: 95_000, Asset: "Semiconductor ETF"},
	}
	contributions := []database.Contribution{
		{Amount: 5_000, Industry: "Semiconductor"},
	}

	result := AnalyzeBillConflicts(bill, contributions, investments)
	if result.Severity != SeverityHigh {
		t.Errorf("expected HIGH from combined 100000 total, got %s (total %f)", result.Severity, result.TotalAmount)
	}
	if len(result.RelatedInvestments) != 1 {
		t.Errorf("expected the investment listed, got %+v", result.RelatedInvestments)
	}
}

func TestSummarize(t *testing.T) {
	contributions := []database.Contribution{
		{Amount: 100, Industry: "Tech"},
		{Amount: 200, Industry: "Energy"},
		{Amount: 50, Industry: "Tech"},
	}
	investments := []database.Investment{
		{Value: 1000, Type: "Stock"},
		{Value: 500, Type: "Bond"},
	}

	s := Summarize(contributions, investments)
	if s.Contributions.Total != 350 {
		t.Errorf("expected contribution total 350, got %f", s.Contributions.Total)
	}
	if s.Investments.Total != 1500 {
		t.Errorf("expected investment total 1500, got %f", s.Investments.Total)
	}
	if s.Contributions.ByIndustry[0].Industry != "Energy" {
		t.Errorf("expected Energy first, got %+v", s.Contributions.ByIndustry)
	}
	if s.Investments.ByType[0].Industry != "Stock" {
		t.Errorf("expected Stock first, got %+v", s.Investments.ByType)
	}
}

func TestVoteCorrelations(t *testing.T) {
	contributions := []database.Contribution{
		{Amount: 20_000, Industry: "Energy"},
		{Amount: 5_000, Industry: "Tech"},
	}
	votes := []database.Vote{
		{BillTitle: "Clean Energy Act", Position: "YEA"},
		{BillTitle: "Energy Independence Act", Position: "YEA"},
		{BillTitle: "Tech Privacy Act", Position: "NAY"},
		{BillTitle: "Farm Bill", Position: "YEA"},
	}

	correlations := VoteCorrelations(contributions, votes)
	if len(correlations) != 2 {
		t.Fatalf("expected 2 correlations, got %d", len(correlations))
	}
	// Sorted by contribution total descending.
	if correlations[0].Industry != "Energy" {
		t.Errorf("expected Energy first, got %+v", correlations[0])
	}
	if correlations[0].Correlation != 1.0 {
		t.Errorf("expected Energy correlation 1.0, got %f", correlations[0].Correlation)
	}
	if correlations[1].Correlation != -1.0 {
		t.Errorf("expected Tech correlation -1.0, got %f", correlations[1].Correlation)
	}
}
