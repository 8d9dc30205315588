package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/bracket-survivor/internal/models"
)

const ncaaSourceName = "ncaa_schedule"

// NCAAClient fetches the men's D1 tournament scoreboard from the public
// NCAA API. The provider's payload is loosely structured; everything
// optional is normalized to typed fields here so nothing downstream
// branches on raw JSON optionality.
type NCAAClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	logger     *log.Logger
}

// ncaaScoreboard mirrors the provider's scoreboard payload.
type ncaaScoreboard struct {
	Games []struct {
		Game ncaaGame `json:"game"`
	} `json:"games"`
}

// ncaaGame mirrors one game entry. Seeds, scores, and epochs arrive as
// strings and may be empty.
type ncaaGame struct {
	GameID         string       `json:"gameID"`
	GameState      string       `json:"gameState"`
	CurrentPeriod  string       `json:"currentPeriod"`
	StartTimeEpoch string       `json:"startTimeEpoch"`
	Home           ncaaTeamSide `json:"home"`
	Away           ncaaTeamSide `json:"away"`
}

type ncaaTeamSide struct {
	Names struct {
		Short string `json:"short"`
		Full  string `json:"full"`
	} `json:"names"`
	Seed  string `json:"seed"`
	Score string `json:"score"`
}

// NewNCAAClient creates a new NCAA scoreboard client
func NewNCAAClient(httpClient *RateLimitedHTTPClient, baseURL string, logger *log.Logger) *NCAAClient {
	return &NCAAClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Name returns the data source name used in audit records.
func (c *NCAAClient) Name() string {
	return ncaaSourceName
}

// FetchGames retrieves the slate for a calendar date. A non-success
// response or network failure is logged and yields an empty slate.
func (c *NCAAClient) FetchGames(ctx context.Context, date time.Time) ([]*models.Game, error) {
	url := fmt.Sprintf("%s/scoreboard/basketball-men/d1/%04d/%02d/%02d",
		c.baseURL, date.Year(), int(date.Month()), date.Day())

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		c.logger.Printf("NCAA schedule fetch failed, treating as empty slate: %v", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("NCAA schedule returned status %d, treating as empty slate", resp.StatusCode)
		return nil, nil
	}

	var scoreboard ncaaScoreboard
	if err := json.NewDecoder(resp.Body).Decode(&scoreboard); err != nil {
		c.logger.Printf("NCAA schedule payload unreadable, treating as empty slate: %v", err)
		return nil, nil
	}

	games := make([]*models.Game, 0, len(scoreboard.Games))
	for _, entry := range scoreboard.Games {
		games = append(games, normalizeNCAAGame(entry.Game))
	}

	return games, nil
}

// FetchGameDetails retrieves the box score and team stats for one game.
// Unlike the slate fetch this surfaces failures: callers ask for a specific
// game and need to know when it cannot be found.
func (c *NCAAClient) FetchGameDetails(ctx context.Context, gameID string) (*models.GameDetails, error) {
	resp, err := c.httpClient.Get(ctx, fmt.Sprintf("%s/game/%s", c.baseURL, gameID))
	if err != nil {
		return nil, NewDataSourceError(ncaaSourceName, ErrCodeNetworkError, "failed to fetch game", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError(ncaaSourceName, ErrCodeNotFound, fmt.Sprintf("game %s not found", gameID), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewDataSourceError(ncaaSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload struct {
		Game ncaaGame `json:"game"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(ncaaSourceName, ErrCodeInvalidData, "failed to parse game payload", err)
	}

	game := normalizeNCAAGame(payload.Game)
	details := &models.GameDetails{
		GameID:    gameID,
		Status:    game.Status,
		HomeTeam:  game.HomeTeam,
		AwayTeam:  game.AwayTeam,
		HomeScore: game.HomeScore,
		AwayScore: game.AwayScore,
	}

	// Team stats live on a separate endpoint and are best-effort.
	if stats, err := c.fetchTeamStats(ctx, gameID); err == nil {
		details.TeamStats = stats
	}

	return details, nil
}

func (c *NCAAClient) fetchTeamStats(ctx context.Context, gameID string) (map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, fmt.Sprintf("%s/game/%s/team-stats", c.baseURL, gameID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("team stats status %d", resp.StatusCode)
	}

	var stats map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// normalizeNCAAGame converts the provider's stringly-typed game entry into
// the internal Game model.
func normalizeNCAAGame(g ncaaGame) *models.Game {
	game := &models.Game{
		GameID:    g.GameID,
		Status:    firstNonEmpty(g.GameState, g.CurrentPeriod, "unknown"),
		HomeTeam:  firstNonEmpty(g.Home.Names.Short, g.Home.Names.Full, "Unknown"),
		AwayTeam:  firstNonEmpty(g.Away.Names.Short, g.Away.Names.Full, "Unknown"),
		HomeSeed:  parseOptionalInt(g.Home.Seed),
		AwaySeed:  parseOptionalInt(g.Away.Seed),
		HomeScore: parseOptionalInt(g.Home.Score),
		AwayScore: parseOptionalInt(g.Away.Score),
	}
	if epoch := parseOptionalInt64(g.StartTimeEpoch); epoch != nil {
		start := time.Unix(*epoch, 0).UTC()
		game.StartTime = &start
	}
	return game
}

func parseOptionalInt(value string) *int {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

func parseOptionalInt64(value string) *int64 {
	if value == "" {
		return nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
