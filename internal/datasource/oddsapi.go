package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/yourusername/bracket-survivor/internal/models"
)

const (
	oddsSourceName  = "odds_api"
	h2hMarketKey    = "h2h"
	oddsCacheKeyFmt = "odds:%s"
)

// OddsAPIClient fetches moneylines from The Odds API and normalizes them to
// vig-free implied win probabilities. The API is quota-limited, so
// snapshots are cached for a TTL; hourly reruns reuse a fresh-enough
// snapshot instead of spending quota.
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sport      string
	regions    string
	cache      *cache.Cache
	logger     *log.Logger
}

// oddsAPIEvent mirrors one event in The Odds API v4 response. Prices are
// American moneylines; decimals guard against float drift on the wire.
type oddsAPIEvent struct {
	ID         string `json:"id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Bookmakers []struct {
		Key     string `json:"key"`
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string          `json:"name"`
				Price decimal.Decimal `json:"price"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// NewOddsAPIClient creates a new Odds API client. An empty API key leaves
// the client unconfigured; FetchOdds then returns an empty snapshot.
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, sport, regions string, cacheTTL time.Duration, logger *log.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		sport:      sport,
		regions:    regions,
		cache:      cache.New(cacheTTL, cacheTTL*2),
		logger:     logger,
	}
}

// Name returns the data source name used in audit records.
func (c *OddsAPIClient) Name() string {
	return oddsSourceName
}

// IsConfigured reports whether an API key is present.
func (c *OddsAPIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// FetchOdds returns the current slate's implied win probabilities. An
// unconfigured client, a failed fetch, or an unreadable payload all yield
// an empty snapshot: odds are an enhancement, never a hard dependency.
func (c *OddsAPIClient) FetchOdds(ctx context.Context) (models.OddsSnapshot, error) {
	if !c.IsConfigured() {
		return models.OddsSnapshot{}, nil
	}

	cacheKey := fmt.Sprintf(oddsCacheKeyFmt, c.sport)
	if cached, found := c.cache.Get(cacheKey); found {
		if snapshot, ok := cached.(models.OddsSnapshot); ok {
			return snapshot, nil
		}
	}

	url := fmt.Sprintf("%s/v4/sports/%s/odds?apiKey=%s&regions=%s&markets=%s&oddsFormat=american",
		c.baseURL, c.sport, c.apiKey, c.regions, h2hMarketKey)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		c.logger.Printf("Odds fetch failed, continuing without odds: %v", err)
		return models.OddsSnapshot{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("Odds API returned status %d, continuing without odds", resp.StatusCode)
		return models.OddsSnapshot{}, nil
	}

	var events []oddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		c.logger.Printf("Odds payload unreadable, continuing without odds: %v", err)
		return models.OddsSnapshot{}, nil
	}

	snapshot := normalizeOddsEvents(events)
	c.cache.Set(cacheKey, snapshot, cache.DefaultExpiration)

	return snapshot, nil
}

// normalizeOddsEvents converts moneyline prices into implied win
// probabilities with the vig removed: each outcome's raw probability is
// divided by the matchup's total so any two-outcome game sums to 1. The
// first bookmaker carrying an h2h market wins.
func normalizeOddsEvents(events []oddsAPIEvent) models.OddsSnapshot {
	snapshot := models.OddsSnapshot{}
	for _, event := range events {
		outcomes := firstH2HOutcomes(event)
		if len(outcomes) == 0 {
			continue
		}

		total := 0.0
		probs := make(map[string]float64, len(outcomes))
		for name, price := range outcomes {
			p := impliedProbability(price)
			probs[name] = p
			total += p
		}

		normalized := make(map[string]float64, len(probs))
		for name, p := range probs {
			if total > 0 {
				normalized[name] = p / total
			} else {
				normalized[name] = 0.5
			}
		}
		snapshot[event.ID] = normalized
	}
	return snapshot
}

func firstH2HOutcomes(event oddsAPIEvent) map[string]decimal.Decimal {
	for _, bookmaker := range event.Bookmakers {
		for _, market := range bookmaker.Markets {
			if market.Key != h2hMarketKey || len(market.Outcomes) == 0 {
				continue
			}
			outcomes := make(map[string]decimal.Decimal, len(market.Outcomes))
			for _, outcome := range market.Outcomes {
				outcomes[outcome.Name] = outcome.Price
			}
			return outcomes
		}
	}
	return nil
}

// impliedProbability converts an American moneyline to a raw implied win
// probability: positive price p -> 100/(p+100); negative -> |p|/(|p|+100).
func impliedProbability(price decimal.Decimal) float64 {
	p := price.InexactFloat64()
	if p > 0 {
		return 100 / (p + 100)
	}
	abs := -p
	return abs / (abs + 100)
}
