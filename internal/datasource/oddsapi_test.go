package datasource

import (
	"context"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const oddsPayload = `[
	{
		"id": "evt1",
		"home_team": "Duke",
		"away_team": "Vermont",
		"bookmakers": [
			{"key": "book1", "markets": [
				{"key": "h2h", "outcomes": [
					{"name": "Duke", "price": -250},
					{"name": "Vermont", "price": 210}
				]}
			]}
		]
	},
	{
		"id": "evt2",
		"home_team": "NoMarket",
		"away_team": "AlsoNone",
		"bookmakers": [
			{"key": "book1", "markets": [
				{"key": "spreads", "outcomes": [{"name": "NoMarket", "price": -110}]}
			]}
		]
	}
]`

func newOddsClient(baseURL, apiKey string) *OddsAPIClient {
	return NewOddsAPIClient(testHTTPClient(), baseURL, apiKey, "basketball_ncaab", "us", time.Minute, log.New(io.Discard, "", 0))
}

func TestOddsFetchNormalizesAndRemovesVig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "test-key" {
			t.Errorf("missing api key in request")
		}
		if r.URL.Query().Get("markets") != "h2h" {
			t.Errorf("expected h2h market request, got %s", r.URL.Query().Get("markets"))
		}
		_, _ = w.Write([]byte(oddsPayload))
	}))
	defer server.Close()

	client := newOddsClient(server.URL, "test-key")
	snapshot, err := client.FetchOdds(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	probs, ok := snapshot["evt1"]
	if !ok {
		t.Fatal("expected evt1 in snapshot")
	}
	if math.Abs(probs["Duke"]+probs["Vermont"]-1) > 1e-9 {
		t.Fatalf("expected vig removed (sum 1), got %v + %v", probs["Duke"], probs["Vermont"])
	}
	// -250 favorite: raw 250/350 = 0.714; +210 dog: 100/310 = 0.323.
	if probs["Duke"] <= probs["Vermont"] {
		t.Fatalf("expected Duke favored, got %v vs %v", probs["Duke"], probs["Vermont"])
	}
	if probs["Duke"] < 0.66 || probs["Duke"] > 0.72 {
		t.Fatalf("normalized Duke probability out of range: %v", probs["Duke"])
	}

	if _, ok := snapshot["evt2"]; ok {
		t.Fatal("expected event without an h2h market to be skipped")
	}
}

func TestOddsFetchUnconfiguredReturnsEmpty(t *testing.T) {
	client := newOddsClient("http://unused.invalid", "")
	snapshot, err := client.FetchOdds(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(snapshot) != 0 {
		t.Fatalf("expected empty snapshot without api key, got %d entries", len(snapshot))
	}
}

func TestOddsFetchServerErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newOddsClient(server.URL, "bad-key")
	snapshot, err := client.FetchOdds(context.Background())
	if err != nil {
		t.Fatalf("expected degraded empty snapshot, got error %v", err)
	}
	if len(snapshot) != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", len(snapshot))
	}
}

func TestOddsFetchUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(oddsPayload))
	}))
	defer server.Close()

	client := newOddsClient(server.URL, "test-key")
	for i := 0; i < 3; i++ {
		if _, err := client.FetchOdds(context.Background()); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream call with a warm cache, got %d", calls)
	}
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		price int64
		want  float64
	}{
		{150, 100.0 / 250.0},
		{-150, 150.0 / 250.0},
		{100, 0.5},
		{-100, 0.5},
	}
	for _, tt := range tests {
		got := impliedProbability(decimal.NewFromInt(tt.price))
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("impliedProbability(%d) = %v, want %v", tt.price, got, tt.want)
		}
	}
}
