package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nhlstats/backfill/internal/metrics"
	"nhlstats/backfill/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// MoneyPuck season summary column names, pinned per upstream file. A renamed
// column shows up as a missing-header error instead of silently reading the
// wrong field.
const (
	mpColPlayerID   = "playerId"
	mpColTeam       = "team"
	mpColSituation  = "situation"
	mpColCorsiPct   = "onIce_corsiPercentage"
	mpColFenwickPct = "onIce_fenwickPercentage"
	mpColSkaterXG   = "I_F_xGoals"

	mpColTeamCorsiPct   = "corsiPercentage"
	mpColTeamFenwickPct = "fenwickPercentage"
	mpColTeamXGFor      = "xGoalsFor"
	mpColTeamXGAgainst  = "xGoalsAgainst"
)

// MoneyPuckClient fetches the per-season advanced-metrics CSV files
type MoneyPuckClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewMoneyPuckClient creates a new MoneyPuck CSV client
func NewMoneyPuckClient(baseURL string, timeout time.Duration, requestsPerMinute int) *MoneyPuckClient {
	rps := float64(requestsPerMinute) / 60.0
	return &MoneyPuckClient{
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// fetchCSV downloads and parses one CSV file into header-keyed rows.
// The parser is a permissive comma split with no quoted-comma handling;
// the MoneyPuck files do not quote fields. Documented limitation.
func (c *MoneyPuckClient) fetchCSV(ctx context.Context, path string) ([]map[string]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "nhlstats-backfill/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamCall("moneypuck", path, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("MoneyPuck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamCall("moneypuck", path, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("MoneyPuck returned status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamCall("moneypuck", path, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.RecordUpstreamCall("moneypuck", path, "ok", time.Since(start).Seconds())

	rows, err := ParseCSV(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("rows", len(rows)).
		Msg("MoneyPuck CSV fetched")

	return rows, nil
}

// ParseCSV splits raw CSV text into header-keyed rows. Rows with a column
// count different from the header are dropped.
func ParseCSV(raw string) ([]map[string]string, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("empty CSV body")
	}

	header := strings.Split(strings.TrimSpace(lines[0]), ",")

	var rows []map[string]string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != len(header) {
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = fields[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// seasonStartYear extracts the start year from an 8-digit season string
// ("20232024" -> "2023"), the form MoneyPuck keys its files by.
func seasonStartYear(season string) string {
	if len(season) >= 4 {
		return season[:4]
	}
	return season
}

// FetchSkaterSummary fetches the all-situations skater season summary
func (c *MoneyPuckClient) FetchSkaterSummary(ctx context.Context, season string) ([]models.SkaterAdvancedInput, error) {
	path := fmt.Sprintf("seasonSummary/%s/regular/skaters.csv", seasonStartYear(season))
	rows, err := c.fetchCSV(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch skater summary: %w", err)
	}

	var inputs []models.SkaterAdvancedInput
	for _, row := range rows {
		// The summary repeats each player once per situation; only the
		// all-situations row is persisted.
		if situation, ok := row[mpColSituation]; ok && situation != "all" {
			continue
		}

		playerID, err := strconv.Atoi(row[mpColPlayerID])
		if err != nil {
			continue
		}

		inputs = append(inputs, models.SkaterAdvancedInput{
			PlayerID:      playerID,
			Season:        season,
			TeamAbbrev:    row[mpColTeam],
			CorsiPct:      parseFloatField(row, mpColCorsiPct),
			FenwickPct:    parseFloatField(row, mpColFenwickPct),
			ExpectedGoals: parseFloatField(row, mpColSkaterXG),
		})
	}

	return inputs, nil
}

// FetchTeamSummary fetches the all-situations team season summary
func (c *MoneyPuckClient) FetchTeamSummary(ctx context.Context, season string) ([]models.TeamAdvancedInput, error) {
	path := fmt.Sprintf("seasonSummary/%s/regular/teams.csv", seasonStartYear(season))
	rows, err := c.fetchCSV(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team summary: %w", err)
	}

	var inputs []models.TeamAdvancedInput
	for _, row := range rows {
		if situation, ok := row[mpColSituation]; ok && situation != "all" {
			continue
		}

		abbrev := row[mpColTeam]
		if abbrev == "" {
			continue
		}

		inputs = append(inputs, models.TeamAdvancedInput{
			TeamAbbrev:           abbrev,
			Season:               season,
			CorsiPct:             parseFloatField(row, mpColTeamCorsiPct),
			FenwickPct:           parseFloatField(row, mpColTeamFenwickPct),
			ExpectedGoalsFor:     parseFloatField(row, mpColTeamXGFor),
			ExpectedGoalsAgainst: parseFloatField(row, mpColTeamXGAgainst),
		})
	}

	return inputs, nil
}

// parseFloatField reads a named column as a float, returning nil for a
// missing column or non-numeric value (persisted as NULL, never NaN)
func parseFloatField(row map[string]string, column string) *float64 {
	raw, ok := row[column]
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
