package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicscope/civicscope/internal/congress"
	"github.com/civicscope/civicscope/internal/database"
	"github.com/civicscope/civicscope/internal/fec"
	"github.com/civicscope/civicscope/internal/scrape"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newFECTestClient(t *testing.T, handler http.HandlerFunc) *fec.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return fec.New(srv.URL, "test-key", fec.Options{
		MinDelay: time.Millisecond,
		Sleep:    func(ctx context.Context, d time.Duration) error { return nil },
	})
}

func TestRosterJobSkipsFreshRoster(t *testing.T) {
	db := openTestDB(t)
	if _, _, err := db.UpsertPolitician("Ted", "Cruz", "R", "TX", nil, "Senate"); err != nil {
		t.Fatal(err)
	}

	job := NewRosterJob(db, scrape.New("http://unused", "http://unused"), 24*time.Hour, zerolog.Nop())
	result, err := job.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Error("expected fresh roster to skip the scrape")
	}
}

func TestRosterJobScrapesAndStores(t *testing.T) {
	houseHTML := `<table>
		<tr><td>Jane Smith (link is external)</td><td>D</td><td>California 12th</td><td>12</td></tr>
	</table>`
	senateHTML := `<table>
		<tr><td>Ted Cruz</td><td>R</td><td>TX</td></tr>
	</table>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "house") {
			fmt.Fprint(w, houseHTML)
		} else {
			fmt.Fprint(w, senateHTML)
		}
	}))
	t.Cleanup(srv.Close)

	db := openTestDB(t)
	job := NewRosterJob(db, scrape.New(srv.URL+"/house", srv.URL+"/senate"), 24*time.Hour, zerolog.Nop())

	result, err := job.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.House != 1 || result.Senate != 1 || result.Created != 2 {
		t.Errorf("unexpected result: %+v", result)
	}

	p, err := db.FindPoliticianExact("Jane", "Smith", "California")
	if err != nil || p == nil {
		t.Fatalf("scraped member not stored: %v", err)
	}
	if p.Office != "House" || p.District == nil || *p.District != "12" {
		t.Errorf("unexpected member: %+v", p)
	}
}

func TestBillsJobLinksSponsorByBioguide(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/bill/119":
			fmt.Fprint(w, `{"bills":[{"congress":119,"type":"HR","number":"42","title":"Clean Water Act"}]}`)
		case r.URL.Path == "/bill/119/hr/42":
			fmt.Fprint(w, `{"bill":{"congress":119,"type":"HR","number":"42","title":"Clean Water Act",
				"introducedDate":"2025-02-01",
				"latestAction":{"actionDate":"2025-02-02","text":"Referred to committee"},
				"sponsors":[{"bioguideId":"S000001","firstName":"Jane","lastName":"Smith","state":"CA"}],
				"summary":{"text":"Regulates water."}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	db := openTestDB(t)
	id, _, err := db.UpsertPolitician("Jane", "Smith", "D", "CA", nil, "House")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetBioguideID(id, "S000001"); err != nil {
		t.Fatal(err)
	}

	job := NewBillsJob(db, congress.New(srv.URL, "key"), 119, 10, zerolog.Nop())
	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Found != 1 || result.Saved != 1 || result.Linked != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	bill, err := db.GetBillByNumber("hr42")
	if err != nil || bill == nil {
		t.Fatalf("bill not stored: %v", err)
	}
	if bill.SponsorID == nil || *bill.SponsorID != id {
		t.Errorf("sponsor not linked: %+v", bill)
	}
	if bill.Status != "Referred to committee" || bill.Summary != "Regulates water." {
		t.Errorf("unexpected bill: %+v", bill)
	}
}

func TestBillsJobFallsBackToNameMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/bill/119":
			fmt.Fprint(w, `{"bills":[{"congress":119,"type":"S","number":"7","title":"Farm Act"}]}`)
		case r.URL.Path == "/bill/119/s/7":
			fmt.Fprint(w, `{"bill":{"congress":119,"type":"S","number":"7","title":"Farm Act",
				"sponsors":[{"bioguideId":"C999999","firstName":"Ted","lastName":"Cruz","state":"TX"}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	db := openTestDB(t)
	id, _, err := db.UpsertPolitician("Ted", "Cruz", "R", "TX", nil, "Senate")
	if err != nil {
		t.Fatal(err)
	}

	job := NewBillsJob(db, congress.New(srv.URL, "key"), 119, 10, zerolog.Nop())
	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Linked != 1 {
		t.Errorf("expected name fallback to link, got %+v", result)
	}

	// The bioguide ID learned during the match is persisted.
	p, err := db.GetPolitician(id)
	if err != nil {
		t.Fatal(err)
	}
	if p.BioguideID == nil || *p.BioguideID != "C999999" {
		t.Errorf("bioguide id not backfilled: %+v", p)
	}
}

func TestFECIDJobResolvesMissingIDs(t *testing.T) {
	client := newFECTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"candidate_id":"S8TX00123","name":"CRUZ, TED","party":"REP","state":"TX","office":"S"}]}`)
	})

	db := openTestDB(t)
	id, _, err := db.UpsertPolitician("Ted", "Cruz", "R", "TX", nil, "Senate")
	if err != nil {
		t.Fatal(err)
	}

	job := NewFECIDJob(db, client, zerolog.Nop())
	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scanned != 1 || result.Matched != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	p, err := db.GetPolitician(id)
	if err != nil {
		t.Fatal(err)
	}
	if p.FECCandidateID == nil || *p.FECCandidateID != "S8TX00123" {
		t.Errorf("fec id not stored: %+v", p)
	}
}

func fecSyncHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/candidates/search":
		fmt.Fprint(w, `{"results":[{"candidate_id":"S8TX00123","name":"Cruz, Ted","party":"REP","state":"TX","office":"S"}]}`)
	case r.URL.Path == "/candidate/S8TX00123/committees":
		fmt.Fprint(w, `{"results":[{"committee_id":"C001","name":"Cruz for Senate"}]}`)
	case r.URL.Path == "/schedules/schedule_a":
		fmt.Fprint(w, `{"results":[
			{"contributor_name":"Big Oil Inc","contributor_occupation":"Oil & Gas","contribution_receipt_amount":5000,"contribution_receipt_date":"2025-01-15","entity_type_desc":"Organization","committee_id":"C001"},
			{"contributor_name":"Jane Donor","contribution_receipt_amount":2500,"contribution_receipt_date":"2025-01-20","committee_id":"C001"}
		]}`)
	case r.URL.Path == "/schedules/schedule_e":
		fmt.Fprint(w, `{"results":[
			{"committee_id":"C900","committee_name":"Super PAC","support_oppose_indicator":"O","expenditure_amount":75000,"expenditure_date":"2025-03-01","expenditure_description":"TV ads"}
		]}`)
	default:
		http.NotFound(w, r)
	}
}

func TestSyncJobCreatesPoliticianAndStoresFinances(t *testing.T) {
	client := newFECTestClient(t, fecSyncHandler)
	db := openTestDB(t)

	job := NewSyncJob(db, client, nil, 0, zerolog.Nop())
	result, err := job.Run(context.Background(), "Ted Cruz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created {
		t.Error("expected politician to be created from candidate data")
	}
	if result.Contributions != 2 || result.Expenditures != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	p, err := db.GetPolitician(result.PoliticianID)
	if err != nil {
		t.Fatal(err)
	}
	if p.FirstName != "Ted" || p.LastName != "Cruz" || p.Office != "Senate" {
		t.Errorf("unexpected politician: %+v", p)
	}

	contributions, err := db.GetContributions(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(contributions) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(contributions))
	}
	// Missing occupation and entity type fall back to defaults.
	var jane *database.Contribution
	for i := range contributions {
		if contributions[i].Source == "Jane Donor" {
			jane = &contributions[i]
		}
	}
	if jane == nil || jane.Industry != "Unknown" || jane.Type != "Individual" {
		t.Errorf("unexpected defaults: %+v", jane)
	}

	expenditures, err := db.GetExpenditures(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(expenditures) != 1 || expenditures[0].Type != "OPPOSE" {
		t.Errorf("unexpected expenditures: %+v", expenditures)
	}
}

func TestSyncJobRerunDoesNotDuplicate(t *testing.T) {
	client := newFECTestClient(t, fecSyncHandler)
	db := openTestDB(t)

	job := NewSyncJob(db, client, nil, 0, zerolog.Nop())
	first, err := job.Run(context.Background(), "Ted Cruz")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := job.Run(context.Background(), "Ted Cruz"); err != nil {
		t.Fatal(err)
	}

	contributions, err := db.GetContributions(first.PoliticianID)
	if err != nil {
		t.Fatal(err)
	}
	if len(contributions) != 2 {
		t.Errorf("expected rerun to dedup by external id, got %d contributions", len(contributions))
	}
}
