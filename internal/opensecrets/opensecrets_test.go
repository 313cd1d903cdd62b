package opensecrets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "os-key")
}

func TestLegislatorsByState(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"response":{"legislators":{"legislator":[
			{"@attributes":{"cid":"N00005533","firstlast":"Ted Cruz","party":"R","office":"TXS1","bioguide_id":"C001098"}}
		]}}}`)
	})

	legislators, err := client.LegislatorsByState(context.Background(), "TX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery.Get("apikey") != "os-key" || gotQuery.Get("output") != "json" {
		t.Errorf("expected apikey and output params, got %v", gotQuery)
	}
	if gotQuery.Get("method") != "getLegislators" || gotQuery.Get("id") != "TX" {
		t.Errorf("unexpected method params: %v", gotQuery)
	}
	if len(legislators) != 1 || legislators[0].CID != "N00005533" {
		t.Errorf("unexpected legislators: %+v", legislators)
	}
}

func TestIndustryContributions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"response":{"industries":{"industry":[
			{"@attributes":{"industry_name":"Oil & Gas","industry_code":"E01","total":"500000","pacs":"300000","indivs":"200000"}},
			{"@attributes":{"industry_name":"Securities","industry_code":"F07","total":"250000","pacs":"50000","indivs":"200000"}}
		]}}}`)
	})

	industries, err := client.IndustryContributions(context.Background(), "N00005533")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(industries) != 2 {
		t.Fatalf("expected 2 industries, got %d", len(industries))
	}
	if industries[0].IndustryName != "Oil & Gas" || industries[0].Total != 500000 {
		t.Errorf("unexpected industry: %+v", industries[0])
	}
}

func TestUpstreamErrorSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	_, err := client.TopContributors(context.Background(), "N00005533")
	if err == nil {
		t.Fatal("expected error for 401")
	}
}
