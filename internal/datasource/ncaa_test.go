package datasource

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, log.New(io.Discard, "", 0))
}

const scoreboardPayload = `{
	"games": [
		{"game": {
			"gameID": "101",
			"gameState": "pre",
			"startTimeEpoch": "1742400000",
			"home": {"names": {"short": "Kansas"}, "seed": "1", "score": ""},
			"away": {"names": {"short": "Longwood"}, "seed": "16", "score": ""}
		}},
		{"game": {
			"gameID": "102",
			"gameState": "final",
			"home": {"names": {"short": "", "full": "Saint Mary's Gaels"}, "seed": "", "score": "70"},
			"away": {"names": {"short": "Grand Canyon"}, "seed": "12", "score": "66"}
		}}
	]
}`

func TestNCAAFetchGamesNormalizesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scoreboard/basketball-men/d1/2026/03/19" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(scoreboardPayload))
	}))
	defer server.Close()

	client := NewNCAAClient(testHTTPClient(), server.URL, log.New(io.Discard, "", 0))
	games, err := client.FetchGames(context.Background(), time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}

	first := games[0]
	if first.GameID != "101" || first.HomeTeam != "Kansas" || first.AwayTeam != "Longwood" {
		t.Errorf("unexpected first game: %+v", first)
	}
	if first.HomeSeed == nil || *first.HomeSeed != 1 {
		t.Errorf("expected home seed 1, got %v", first.HomeSeed)
	}
	if first.HomeScore != nil {
		t.Errorf("expected nil score for a pre-game, got %v", first.HomeScore)
	}
	if first.StartTime == nil {
		t.Error("expected start time from epoch")
	}

	second := games[1]
	if second.HomeTeam != "Saint Mary's Gaels" {
		t.Errorf("expected full-name fallback, got %s", second.HomeTeam)
	}
	if second.HomeSeed != nil {
		t.Errorf("expected nil seed for empty string, got %v", second.HomeSeed)
	}
	if second.HomeScore == nil || *second.HomeScore != 70 {
		t.Errorf("expected home score 70, got %v", second.HomeScore)
	}
}

func TestNCAAFetchGamesDegradesToEmptySlate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewNCAAClient(testHTTPClient(), server.URL, log.New(io.Discard, "", 0))
	games, err := client.FetchGames(context.Background(), time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected degraded empty slate, got error %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected empty slate, got %d games", len(games))
	}
}

func TestNCAAFetchGamesBadPayloadDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewNCAAClient(testHTTPClient(), server.URL, log.New(io.Discard, "", 0))
	games, err := client.FetchGames(context.Background(), time.Now())
	if err != nil || len(games) != 0 {
		t.Fatalf("expected empty slate on bad payload, got %d games, err %v", len(games), err)
	}
}

func TestNCAAFetchGameDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewNCAAClient(testHTTPClient(), server.URL, log.New(io.Discard, "", 0))
	if _, err := client.FetchGameDetails(context.Background(), "999"); err == nil {
		t.Fatal("expected not-found error for missing game")
	}
}
