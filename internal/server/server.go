// Package server exposes the stored data over a JSON REST API. Handler
// errors are logged with detail and returned to clients as generic
// messages.
package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/civicscope/civicscope/internal/analysis"
	"github.com/civicscope/civicscope/internal/congress"
	"github.com/civicscope/civicscope/internal/database"
)

// Server serves the REST API.
type Server struct {
	db       *database.DB
	congress *congress.Client
	log      zerolog.Logger
	engine   *gin.Engine
}

// New creates a Server. congressClient may be nil, in which case the
// proxy route answers 503.
func New(db *database.DB, congressClient *congress.Client, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		db:       db,
		congress: congressClient,
		log:      log,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.engine.Use(cors.Default())
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	{
		api.GET("/politicians", s.listPoliticians)
		api.GET("/politicians/:id", s.getPolitician)
		api.GET("/politicians/:id/finances", s.getFinances)
		api.GET("/politicians/:id/conflicts", s.getConflicts)
		api.GET("/bills", s.listBills)
		api.GET("/reports", s.listReports)
		api.POST("/reports", s.createReport)
		api.PATCH("/reports/:id", s.updateReport)
		api.GET("/congress", s.proxyCongress)
	}
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on the given port until the listener fails.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Info().Str("addr", addr).Msg("api server listening")
	return s.engine.Run(addr)
}

func (s *Server) serverError(c *gin.Context, err error, what string) {
	s.log.Error().Err(err).Str("handler", what).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func (s *Server) listPoliticians(c *gin.Context) {
	summaries, err := s.db.SearchPoliticians(c.Query("query"), c.Query("state"))
	if err != nil {
		s.serverError(c, err, "listPoliticians")
		return
	}
	if summaries == nil {
		summaries = []database.PoliticianSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}

// politicianByParam parses the :id param and loads the row, writing the
// error response itself when either step fails.
func (s *Server) politicianByParam(c *gin.Context) *database.Politician {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid politician ID"})
		return nil
	}
	p, err := s.db.GetPolitician(id)
	if err != nil {
		s.serverError(c, err, "getPolitician")
		return nil
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Politician not found"})
		return nil
	}
	return p
}

func (s *Server) getPolitician(c *gin.Context) {
	p := s.politicianByParam(c)
	if p == nil {
		return
	}

	contributions, err := s.db.GetContributions(p.ID)
	if err != nil {
		s.serverError(c, err, "getPolitician")
		return
	}
	investments, err := s.db.GetInvestments(p.ID)
	if err != nil {
		s.serverError(c, err, "getPolitician")
		return
	}
	expenditures, err := s.db.GetExpenditures(p.ID)
	if err != nil {
		s.serverError(c, err, "getPolitician")
		return
	}
	votes, err := s.db.GetVotes(p.ID)
	if err != nil {
		s.serverError(c, err, "getPolitician")
		return
	}
	reports, err := s.db.GetReportsForPolitician(p.ID)
	if err != nil {
		s.serverError(c, err, "getPolitician")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"politician":    p,
		"contributions": emptyIfNil(contributions),
		"investments":   emptyIfNil(investments),
		"expenditures":  emptyIfNil(expenditures),
		"votes":         emptyIfNil(votes),
		"reports":       emptyIfNil(reports),
	})
}

func (s *Server) getFinances(c *gin.Context) {
	p := s.politicianByParam(c)
	if p == nil {
		return
	}

	contributions, err := s.db.GetContributions(p.ID)
	if err != nil {
		s.serverError(c, err, "getFinances")
		return
	}
	investments, err := s.db.GetInvestments(p.ID)
	if err != nil {
		s.serverError(c, err, "getFinances")
		return
	}
	votes, err := s.db.GetVotes(p.ID)
	if err != nil {
		s.serverError(c, err, "getFinances")
		return
	}

	summary := analysis.Summarize(contributions, investments)
	correlations := analysis.VoteCorrelations(contributions, votes)
	if correlations == nil {
		correlations = []analysis.VoteCorrelation{}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":          summary,
		"voteCorrelations": correlations,
	})
}

// getConflicts analyzes one bill when ?bill= names it, otherwise every
// stored bill.
func (s *Server) getConflicts(c *gin.Context) {
	p := s.politicianByParam(c)
	if p == nil {
		return
	}

	contributions, err := s.db.GetContributions(p.ID)
	if err != nil {
		s.serverError(c, err, "getConflicts")
		return
	}
	investments, err := s.db.GetInvestments(p.ID)
	if err != nil {
		s.serverError(c, err, "getConflicts")
		return
	}

	var bills []database.Bill
	if billNumber := c.Query("bill"); billNumber != "" {
		bill, err := s.db.GetBillByNumber(billNumber)
		if err != nil {
			s.serverError(c, err, "getConflicts")
			return
		}
		if bill == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		bills = []database.Bill{*bill}
	} else {
		bills, err = s.db.ListBills("", "", 0)
		if err != nil {
			s.serverError(c, err, "getConflicts")
			return
		}
	}

	analyses := make([]analysis.ConflictAnalysis, 0, len(bills))
	for _, bill := range bills {
		analyses = append(analyses, analysis.AnalyzeBillConflicts(bill, contributions, investments))
	}
	c.JSON(http.StatusOK, analyses)
}

func (s *Server) listBills(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	bills, err := s.db.ListBills(c.Query("status"), c.Query("type"), limit)
	if err != nil {
		s.serverError(c, err, "listBills")
		return
	}
	if bills == nil {
		bills = []database.Bill{}
	}
	c.JSON(http.StatusOK, bills)
}

func (s *Server) listReports(c *gin.Context) {
	reports, err := s.db.ListReports(c.Query("status"), 0)
	if err != nil {
		s.serverError(c, err, "listReports")
		return
	}
	if reports == nil {
		reports = []database.Report{}
	}
	c.JSON(http.StatusOK, reports)
}

type createReportRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Evidence     string `json:"evidence"`
	PoliticianID *int64 `json:"politicianId"`
}

func (s *Server) createReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	if req.PoliticianID != nil {
		p, err := s.db.GetPolitician(*req.PoliticianID)
		if err != nil {
			s.serverError(c, err, "createReport")
			return
		}
		if p == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown politician"})
			return
		}
	}

	id, err := s.db.InsertReport(req.Title, req.Description, req.Evidence, req.PoliticianID)
	if err != nil {
		s.serverError(c, err, "createReport")
		return
	}
	report, err := s.db.GetReport(id)
	if err != nil {
		s.serverError(c, err, "createReport")
		return
	}
	c.JSON(http.StatusCreated, report)
}

type updateReportRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	switch req.Status {
	case database.ReportPending, database.ReportReviewed, database.ReportDismissed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	report, err := s.db.GetReport(id)
	if err != nil {
		s.serverError(c, err, "updateReport")
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if err := s.db.SetReportStatus(id, req.Status); err != nil {
		s.serverError(c, err, "updateReport")
		return
	}
	report, err = s.db.GetReport(id)
	if err != nil {
		s.serverError(c, err, "updateReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// proxyCongress forwards a request to the Congress.gov API with the
// server-side key, so browsers never see it. The endpoint query param
// selects the upstream path; every other param is passed through.
func (s *Server) proxyCongress(c *gin.Context) {
	if s.congress == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Congress API not configured"})
		return
	}
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint parameter is required"})
		return
	}

	forwarded := url.Values{}
	for key, values := range c.Request.URL.Query() {
		if key == "endpoint" {
			continue
		}
		forwarded[key] = values
	}

	status, body, err := s.congress.Proxy(c.Request.Context(), endpoint, forwarded)
	if err != nil {
		s.serverError(c, err, "proxyCongress")
		return
	}
	c.Data(status, "application/json", body)
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
