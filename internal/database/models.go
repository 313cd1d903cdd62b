package database

// Politician is a member of Congress tracked by the ingestion jobs.
// Records are created by the roster scraper and updated on re-scrape;
// they are never hard-deleted.
type Politician struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Party          string  `json:"party"`
	State          string  `json:"state"`
	District       *string `json:"district"`
	Office         string  `json:"office"`
	BioguideID     *string `json:"bioguideId"`
	FECCandidateID *string `json:"fecCandidateId"`
	LastScrapedAt  *string `json:"lastScrapedAt"`
}

// RecordCounts holds per-politician related-record counts for list views.
type RecordCounts struct {
	Votes         int `json:"votes"`
	Contributions int `json:"contributions"`
	Investments   int `json:"investments"`
	Expenditures  int `json:"expenditures"`
}

// PoliticianSummary is a politician plus related-record counts.
type PoliticianSummary struct {
	Politician
	Counts RecordCounts `json:"counts"`
}

// Bill is a piece of legislation. Sponsor linkage is best-effort and
// may stay unresolved.
type Bill struct {
	ID             int64   `json:"id"`
	BillNumber     string  `json:"billNumber"`
	Title          string  `json:"title"`
	Summary        string  `json:"summary"`
	IntroducedDate *string `json:"introducedDate"`
	Status         string  `json:"status"`
	SponsorID      *int64  `json:"sponsorId"`
}

// Contribution is a campaign contribution owned by one politician.
// ExternalID carries the upstream identity used for dedup on re-sync.
type Contribution struct {
	ID           int64   `json:"id"`
	ExternalID   *string `json:"externalId"`
	PoliticianID int64   `json:"politicianId"`
	Amount       float64 `json:"amount"`
	Date         *string `json:"date"`
	Source       string  `json:"source"`
	Industry     string  `json:"industry"`
	Type         string  `json:"type"`
}

// Investment is a personal financial holding disclosed by a politician.
type Investment struct {
	ID           int64   `json:"id"`
	PoliticianID int64   `json:"politicianId"`
	Value        float64 `json:"value"`
	Asset        string  `json:"asset"`
	Type         string  `json:"type"`
	Date         *string `json:"date"`
}

// Expenditure is an independent expenditure for or against a politician.
type Expenditure struct {
	ID           int64   `json:"id"`
	ExternalID   *string `json:"externalId"`
	PoliticianID int64   `json:"politicianId"`
	Amount       float64 `json:"amount"`
	Date         *string `json:"date"`
	Source       string  `json:"source"`
	Industry     string  `json:"industry"`
	Type         string  `json:"type"`
}

// Vote is a recorded floor vote. BillID is a weak reference; BillTitle
// is denormalized so analysis works even when the bill is not stored.
type Vote struct {
	ID           int64   `json:"id"`
	PoliticianID int64   `json:"politicianId"`
	BillID       *int64  `json:"billId"`
	BillTitle    string  `json:"billTitle"`
	Position     string  `json:"position"` // YEA, NAY, PRESENT, NOT_VOTING
	VoteDate     *string `json:"voteDate"`
}

// Report statuses. Transitions are operator-driven only.
const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportDismissed = "dismissed"
)

// Report is a user-submitted ethics complaint.
type Report struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Evidence     string  `json:"evidence"`
	Status       string  `json:"status"`
	PoliticianID *int64  `json:"politicianId"`
	CreatedAt    *string `json:"createdAt"`
}
