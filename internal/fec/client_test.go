package fec

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock drives the client's rate limiter deterministically: time
// only advances when the client sleeps.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	f.sleeps = append(f.sleeps, d)
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeClock) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	clock := newFakeClock()
	client := New(srv.URL, "test-key", Options{
		Now:   clock.Now,
		Sleep: clock.Sleep,
	})
	return client, clock
}

func okResults(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"results":[{"candidate_id":"S4TX00123","name":"CRUZ, TED","party":"REP","state":"TX","office":"S"}]}`)
}

func TestRateLimitSpacing(t *testing.T) {
	client, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		okResults(w)
	})

	ctx := context.Background()
	// Distinct queries so the cache does not absorb the calls.
	for i := 0; i < 3; i++ {
		if _, err := client.get(ctx, "/candidates/search", url.Values{"q": {fmt.Sprintf("name%d", i)}}); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}

	// First call goes straight through; the next two must each wait the
	// full minimum delay because virtual time only moves during sleeps.
	if len(clock.sleeps) != 2 {
		t.Fatalf("expected 2 throttle sleeps, got %d (%v)", len(clock.sleeps), clock.sleeps)
	}
	for i, d := range clock.sleeps {
		if d < defaultMinDelay {
			t.Errorf("sleep %d was %v, want >= %v", i, d, defaultMinDelay)
		}
	}
}

func TestRetryOn429ThenSuccess(t *testing.T) {
	var hits int
	client, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits <= 2 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		okResults(w)
	})

	candidates, err := client.SearchCandidates(context.Background(), "Ted Cruz")
	if err != nil {
		t.Fatalf("expected eventual success, got error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].CandidateID != "S4TX00123" {
		t.Errorf("unexpected candidates: %+v", candidates)
	}
	if hits != 3 {
		t.Errorf("expected 3 attempts, got %d", hits)
	}

	// Two Retry-After sleeps of 7s each.
	var retrySleeps int
	for _, d := range clock.sleeps {
		if d == 7*time.Second {
			retrySleeps++
		}
	}
	if retrySleeps != 2 {
		t.Errorf("expected 2 Retry-After sleeps, got %d (%v)", retrySleeps, clock.sleeps)
	}
}

func TestRetryExhaustedSurfacesLastError(t *testing.T) {
	var hits int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.get(context.Background(), "/candidates/search", url.Values{"q": {"x"}})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("expected last HTTP error surfaced, got %v", err)
	}
	if hits != defaultMaxRetries {
		t.Errorf("expected %d attempts, got %d", defaultMaxRetries, hits)
	}
}

func TestResponseMemoization(t *testing.T) {
	var hits int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		okResults(w)
	})

	ctx := context.Background()
	params := url.Values{"q": {"Cruz, Ted"}}
	if _, err := client.get(ctx, "/candidates/search", params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.get(ctx, "/candidates/search", params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hits != 1 {
		t.Errorf("expected 1 upstream hit, got %d", hits)
	}
}

func TestSearchCandidatesFlipsNameAndInjectsKey(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		okResults(w)
	})

	if _, err := client.SearchCandidates(context.Background(), "Ted Cruz"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotQuery.Get("q"); got != "Cruz, Ted" {
		t.Errorf("expected q='Cruz, Ted', got %q", got)
	}
	if got := gotQuery.Get("api_key"); got != "test-key" {
		t.Errorf("expected api_key injected, got %q", got)
	}
}

func TestTopIndustriesAggregation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/committees"):
			fmt.Fprint(w, `{"results":[{"committee_id":"C001","name":"Main PAC"}]}`)
		case strings.Contains(r.URL.Path, "/schedules/schedule_a"):
			fmt.Fprint(w, `{"results":[
				{"contributor_employer":"Acme Corp","contribution_receipt_amount":5000},
				{"contributor_employer":"Acme Corp","contribution_receipt_amount":2500},
				{"contributor_employer":"","contribution_receipt_amount":100}
			]}`)
		default:
			http.NotFound(w, r)
		}
	})

	industries, err := client.TopIndustries(context.Background(), "S4TX00123", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(industries) != 2 {
		t.Fatalf("expected 2 industries, got %+v", industries)
	}
	if industries[0].Industry != "Acme Corp" || industries[0].Total != 7500 {
		t.Errorf("expected Acme Corp=7500 first, got %+v", industries[0])
	}
	if industries[1].Industry != "Unknown" {
		t.Errorf("expected empty employer bucketed as Unknown, got %+v", industries[1])
	}
}
