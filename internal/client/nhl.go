package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nhlstats/backfill/internal/metrics"
	"nhlstats/backfill/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// NHLClient is the api-web.nhle.com API client
type NHLClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// NewNHLClient creates a new NHL API client. requestsPerMinute feeds a token
// bucket limiter gating every request, including retries.
func NewNHLClient(baseURL string, timeout time.Duration, requestsPerMinute int) *NHLClient {
	rps := float64(requestsPerMinute) / 60.0
	return &NHLClient{
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with rate limiting and retry logic
func (c *NHLClient) get(ctx context.Context, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying NHL API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "nhlstats-backfill/1.0")

		log.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Making NHL API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("NHL API request failed: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			metrics.RecordUpstreamCall("nhl", path, "error", time.Since(start).Seconds())
			return nil, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", readErr)
			if attempt < c.maxRetries {
				continue
			}
			metrics.RecordUpstreamCall("nhl", path, "error", time.Since(start).Seconds())
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			log.Debug().
				Str("url", url).
				Int("status", resp.StatusCode).
				Int("size", len(body)).
				Msg("NHL API request successful")
			metrics.RecordUpstreamCall("nhl", path, "ok", time.Since(start).Seconds())
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("NHL API returned retryable status %d", resp.StatusCode)
			if attempt < c.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			metrics.RecordUpstreamCall("nhl", path, "error", time.Since(start).Seconds())
			return nil, lastErr

		default:
			metrics.RecordUpstreamCall("nhl", path, "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("NHL API returned status %d: %s", resp.StatusCode, truncate(body, 200))
		}
	}

	return nil, lastErr
}

// FetchTeams fetches the league-wide standings, which carry one entry per team
func (c *NHLClient) FetchTeams(ctx context.Context) ([]models.TeamInput, error) {
	body, err := c.get(ctx, "standings/now")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	var response struct {
		Standings []models.TeamInput `json:"standings"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal standings: %w", err)
	}

	return response.Standings, nil
}

// FetchRoster fetches a team's roster for a season, merging the three
// position groups the API splits the roster into
func (c *NHLClient) FetchRoster(ctx context.Context, abbrev, season string) ([]models.PlayerInput, error) {
	path := fmt.Sprintf("roster/%s/%s", abbrev, season)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	var response struct {
		Forwards   []models.PlayerInput `json:"forwards"`
		Defensemen []models.PlayerInput `json:"defensemen"`
		Goalies    []models.PlayerInput `json:"goalies"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster: %w", err)
	}

	players := make([]models.PlayerInput, 0, len(response.Forwards)+len(response.Defensemen)+len(response.Goalies))
	players = append(players, response.Forwards...)
	players = append(players, response.Defensemen...)
	players = append(players, response.Goalies...)

	return players, nil
}

// FetchSchedule fetches a team's full season schedule
func (c *NHLClient) FetchSchedule(ctx context.Context, abbrev, season string) ([]models.GameInput, error) {
	path := fmt.Sprintf("club-schedule-season/%s/%s", abbrev, season)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	var response struct {
		Games []models.GameInput `json:"games"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	return response.Games, nil
}

// boxscoreResponse mirrors the gamecenter boxscore payload closely enough to
// normalize it into a models.BoxscoreInput
type boxscoreResponse struct {
	ID       int `json:"id"`
	HomeTeam struct {
		ID    int  `json:"id"`
		Score *int `json:"score,omitempty"`
		SOG   *int `json:"sog,omitempty"`
	} `json:"homeTeam"`
	AwayTeam struct {
		ID    int  `json:"id"`
		Score *int `json:"score,omitempty"`
		SOG   *int `json:"sog,omitempty"`
	} `json:"awayTeam"`
	PlayerByGameStats struct {
		HomeTeam boxscoreSide `json:"homeTeam"`
		AwayTeam boxscoreSide `json:"awayTeam"`
	} `json:"playerByGameStats"`
	Summary struct {
		TeamGameStats []teamGameStatEntry `json:"teamGameStats"`
	} `json:"summary"`
}

type boxscoreSide struct {
	Forwards []models.SkaterLineInput `json:"forwards"`
	Defense  []models.SkaterLineInput `json:"defense"`
	Goalies  []models.GoalieLineInput `json:"goalies"`
}

// teamGameStatEntry is one category row in the boxscore summary block,
// e.g. {category: "hits", homeValue: 22, awayValue: 18}
type teamGameStatEntry struct {
	Category  string          `json:"category"`
	HomeValue json.RawMessage `json:"homeValue"`
	AwayValue json.RawMessage `json:"awayValue"`
}

// FetchBoxscore fetches and normalizes the per-game boxscore
func (c *NHLClient) FetchBoxscore(ctx context.Context, gameID int) (*models.BoxscoreInput, error) {
	path := fmt.Sprintf("gamecenter/%d/boxscore", gameID)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boxscore: %w", err)
	}

	var response boxscoreResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal boxscore: %w", err)
	}

	box := &models.BoxscoreInput{
		GameID: response.ID,
		HomeTeam: models.BoxscoreTeamInput{
			TeamID:   response.HomeTeam.ID,
			Score:    response.HomeTeam.Score,
			SOG:      response.HomeTeam.SOG,
			Forwards: response.PlayerByGameStats.HomeTeam.Forwards,
			Defense:  response.PlayerByGameStats.HomeTeam.Defense,
			Goalies:  response.PlayerByGameStats.HomeTeam.Goalies,
		},
		AwayTeam: models.BoxscoreTeamInput{
			TeamID:   response.AwayTeam.ID,
			Score:    response.AwayTeam.Score,
			SOG:      response.AwayTeam.SOG,
			Forwards: response.PlayerByGameStats.AwayTeam.Forwards,
			Defense:  response.PlayerByGameStats.AwayTeam.Defense,
			Goalies:  response.PlayerByGameStats.AwayTeam.Goalies,
		},
	}

	applyTeamGameStats(box, response.Summary.TeamGameStats)

	return box, nil
}

// applyTeamGameStats folds the category rows of the summary block into the
// home/away team inputs. Unknown categories are ignored.
func applyTeamGameStats(box *models.BoxscoreInput, entries []teamGameStatEntry) {
	for _, entry := range entries {
		home, away := decodeIntPair(entry.HomeValue, entry.AwayValue)
		switch entry.Category {
		case "hits":
			box.HomeTeam.Hits, box.AwayTeam.Hits = home, away
		case "pim":
			box.HomeTeam.PIM, box.AwayTeam.PIM = home, away
		case "blockedShots":
			box.HomeTeam.BlockedShots, box.AwayTeam.BlockedShots = home, away
		case "powerPlayGoals":
			box.HomeTeam.PowerPlayGoals, box.AwayTeam.PowerPlayGoals = home, away
		case "faceoffWinningPctg":
			if h, a := decodeFloatPair(entry.HomeValue, entry.AwayValue); h != nil || a != nil {
				box.HomeTeam.FaceoffPctg, box.AwayTeam.FaceoffPctg = h, a
			}
		}
	}
}

func decodeIntPair(home, away json.RawMessage) (*int, *int) {
	return decodeInt(home), decodeInt(away)
}

func decodeInt(raw json.RawMessage) *int {
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func decodeFloatPair(home, away json.RawMessage) (*float64, *float64) {
	return decodeFloat(home), decodeFloat(away)
}

func decodeFloat(raw json.RawMessage) *float64 {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// playByPlayResponse mirrors the gamecenter play-by-play payload
type playByPlayResponse struct {
	ID    int `json:"id"`
	Plays []struct {
		TypeDescKey      string `json:"typeDescKey"`
		TimeRemaining    string `json:"timeRemaining"`
		PeriodDescriptor struct {
			Number int `json:"number"`
		} `json:"periodDescriptor"`
		Details struct {
			XCoord           *float64 `json:"xCoord,omitempty"`
			YCoord           *float64 `json:"yCoord,omitempty"`
			ShootingPlayerID *int     `json:"shootingPlayerId,omitempty"`
			ScoringPlayerID  *int     `json:"scoringPlayerId,omitempty"`
			GoalieInNetID    *int     `json:"goalieInNetId,omitempty"`
			EventOwnerTeamID int      `json:"eventOwnerTeamId"`
			ShotType         string   `json:"shotType"`
		} `json:"details"`
	} `json:"plays"`
}

// FetchPlayByPlay fetches the play-by-play feed and extracts shot events
// (shots on goal and goals)
func (c *NHLClient) FetchPlayByPlay(ctx context.Context, gameID int) ([]models.ShotInput, error) {
	path := fmt.Sprintf("gamecenter/%d/play-by-play", gameID)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch play-by-play: %w", err)
	}

	var response playByPlayResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal play-by-play: %w", err)
	}

	var shots []models.ShotInput
	for _, play := range response.Plays {
		isGoal := play.TypeDescKey == "goal"
		if play.TypeDescKey != "shot-on-goal" && !isGoal {
			continue
		}

		shooter := play.Details.ShootingPlayerID
		if shooter == nil {
			shooter = play.Details.ScoringPlayerID
		}
		if shooter == nil || play.Details.XCoord == nil || play.Details.YCoord == nil {
			// Not enough detail to place the shot; skip the event rather
			// than invent coordinates.
			continue
		}

		shots = append(shots, models.ShotInput{
			GameID:        gameID,
			ShooterID:     *shooter,
			GoalieID:      play.Details.GoalieInNetID,
			TeamID:        play.Details.EventOwnerTeamID,
			Period:        play.PeriodDescriptor.Number,
			TimeRemaining: play.TimeRemaining,
			X:             *play.Details.XCoord,
			Y:             *play.Details.YCoord,
			ShotType:      play.Details.ShotType,
			IsGoal:        isGoal,
		})
	}

	return shots, nil
}

// truncate returns a truncated string representation for error messages
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
