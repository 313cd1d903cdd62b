// Package scrape extracts congressional membership rosters from the
// public House and Senate listing pages. Both pages render members as
// plain HTML tables, so a selector pass is enough; no browser is driven.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "civicscope/1.0 (political transparency tracker)"

// Member is one scraped roster row.
type Member struct {
	FirstName string
	LastName  string
	Party     string
	State     string
	District  *string
	Office    string
}

// RosterScraper fetches and parses the member listing pages.
type RosterScraper struct {
	houseURL   string
	senateURL  string
	httpClient *http.Client
}

// New creates a RosterScraper for the given listing URLs.
func New(houseURL, senateURL string) *RosterScraper {
	return &RosterScraper{
		houseURL:  houseURL,
		senateURL: senateURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HouseMembers scrapes the House listing page.
func (s *RosterScraper) HouseMembers(ctx context.Context) ([]Member, error) {
	body, err := s.fetch(ctx, s.houseURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return ParseHouseTable(body)
}

// SenateMembers scrapes the Senate listing page.
func (s *RosterScraper) SenateMembers(ctx context.Context) ([]Member, error) {
	body, err := s.fetch(ctx, s.senateURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return ParseSenateTable(body)
}

func (s *RosterScraper) fetch(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %s", pageURL, resp.Status)
	}
	return resp.Body, nil
}

// ParseHouseTable extracts House members from listing-page HTML. Rows
// carry name, party, state+district and district columns.
func ParseHouseTable(r io.Reader) ([]Member, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing house page: %w", err)
	}

	var members []Member
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		first, last := splitRosterName(cleanCell(cells.Eq(0).Text()))
		if first == "" && last == "" {
			return
		}

		party := cleanCell(cells.Eq(1).Text())
		stateDistrict := cleanCell(cells.Eq(2).Text())
		state := firstField(stateDistrict)
		district := cleanCell(cells.Eq(3).Text())

		m := Member{
			FirstName: first,
			LastName:  last,
			Party:     party,
			State:     state,
			Office:    "House",
		}
		if district != "" {
			m.District = &district
		}
		members = append(members, m)
	})
	return members, nil
}

// ParseSenateTable extracts senators from listing-page HTML. Rows carry
// name, party and state columns; incomplete rows are skipped.
func ParseSenateTable(r io.Reader) ([]Member, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing senate page: %w", err)
	}

	var members []Member
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		first, last := splitRosterName(cleanCell(cells.Eq(0).Text()))
		party := cleanCell(cells.Eq(1).Text())
		state := cleanCell(cells.Eq(2).Text())

		if first == "" || last == "" || party == "" || state == "" {
			return
		}
		members = append(members, Member{
			FirstName: first,
			LastName:  last,
			Party:     party,
			State:     state,
			Office:    "Senate",
		})
	})
	return members, nil
}

// splitRosterName splits a roster cell into first and remaining name
// parts. Roster pages list "First Last" (sometimes "First Middle Last"),
// so the first token is the first name and the rest is the last name.
func splitRosterName(full string) (first, last string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// cleanCell trims a cell and strips the "(link is external)" suffix the
// House page appends to names.
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "(link is external)", "")
	return strings.Join(strings.Fields(s), " ")
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
