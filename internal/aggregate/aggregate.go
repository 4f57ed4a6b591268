// Package aggregate derives season summary rows from persisted per-game
// rows. The derivations are pure functions over complete slices, so a
// re-run after new games land always produces the correct totals and can
// never double count.
package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"nhlstats/backfill/internal/models"

	"github.com/rs/zerolog/log"
)

// PlayerSeasonTotals groups skater per-game rows by (player_id, team_id)
// and sums them into season rows. A player traded mid-season gets one row
// per team. Groups with zero games emit no row.
func PlayerSeasonTotals(season string, stats []*models.PlayerGameStat) []*models.PlayerSeasonStat {
	type key struct {
		playerID int
		teamID   int
	}

	totals := make(map[key]*models.PlayerSeasonStat)
	for _, s := range stats {
		k := key{playerID: s.PlayerID, teamID: s.TeamID}
		t, ok := totals[k]
		if !ok {
			t = &models.PlayerSeasonStat{
				PlayerID: s.PlayerID,
				TeamID:   s.TeamID,
				Season:   season,
			}
			totals[k] = t
		}

		t.GamesPlayed++
		t.Goals += s.Goals
		t.Assists += s.Assists
		t.Points += s.Points
		t.PlusMinus += s.PlusMinus
		t.PenaltyMinutes += s.PenaltyMinutes
		t.Shots += s.Shots
		t.Hits += s.Hits
		t.BlockedShots += s.BlockedShots
		t.TimeOnIce += s.TimeOnIce
		t.PowerPlayGoals += s.PowerPlayGoals
	}

	out := make([]*models.PlayerSeasonStat, 0, len(totals))
	for _, t := range totals {
		if t.Shots > 0 {
			t.ShootingPct = float64(t.Goals) / float64(t.Shots) * 100
		}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].TeamID < out[j].TeamID
	})

	return out
}

// TeamSeasonRecords derives season standings rows from final games. A loss
// is an overtime loss when the game went past the third period. Points are
// two per win plus one per overtime loss. Games without a recorded score
// are skipped.
func TeamSeasonRecords(season string, games []*models.Game) []*models.TeamSeasonStat {
	records := make(map[int]*models.TeamSeasonStat)

	team := func(id int) *models.TeamSeasonStat {
		r, ok := records[id]
		if !ok {
			r = &models.TeamSeasonStat{TeamID: id, Season: season}
			records[id] = r
		}
		return r
	}

	for _, g := range games {
		if !g.IsFinal() || !g.HomeScore.Valid || !g.AwayScore.Valid {
			continue
		}

		home := team(g.HomeTeamID)
		away := team(g.AwayTeamID)
		homeScore := int(g.HomeScore.Int32)
		awayScore := int(g.AwayScore.Int32)
		overtime := g.Period.Valid && g.Period.Int32 > 3

		home.GamesPlayed++
		away.GamesPlayed++
		home.GoalsFor += homeScore
		home.GoalsAgainst += awayScore
		away.GoalsFor += awayScore
		away.GoalsAgainst += homeScore

		winner, loser := home, away
		if awayScore > homeScore {
			winner, loser = away, home
		}
		winner.Wins++
		if overtime {
			loser.OvertimeLosses++
		} else {
			loser.Losses++
		}
	}

	out := make([]*models.TeamSeasonStat, 0, len(records))
	for _, r := range records {
		r.Points = 2*r.Wins + r.OvertimeLosses
		r.GoalDifferential = r.GoalsFor - r.GoalsAgainst
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })

	return out
}

// TeamPossessionAverages folds per-game possession numbers into season
// averages for teams that have them. Games missing the metrics are excluded
// from their team's average rather than dragging it toward zero.
func TeamPossessionAverages(records []*models.TeamSeasonStat, teamStats []*models.TeamGameStat) {
	type acc struct {
		corsi, fenwick float64
		n              int
	}
	sums := make(map[int]*acc)
	for _, s := range teamStats {
		if !s.CorsiFor.Valid || !s.FenwickFor.Valid {
			continue
		}
		a, ok := sums[s.TeamID]
		if !ok {
			a = &acc{}
			sums[s.TeamID] = a
		}
		a.corsi += s.CorsiFor.Float64
		a.fenwick += s.FenwickFor.Float64
		a.n++
	}

	for _, r := range records {
		if a, ok := sums[r.TeamID]; ok && a.n > 0 {
			r.CorsiPct = sql.NullFloat64{Float64: a.corsi / float64(a.n), Valid: true}
			r.FenwickPct = sql.NullFloat64{Float64: a.fenwick / float64(a.n), Valid: true}
		}
	}
}

// GameStatsStore is the slice of the repository the aggregator reads from
type GameStatsStore interface {
	ListPlayerStatsBySeason(ctx context.Context, season string) ([]*models.PlayerGameStat, error)
	ListTeamStatsBySeason(ctx context.Context, season string) ([]*models.TeamGameStat, error)
}

// GameStore lists the persisted games for a season
type GameStore interface {
	ListBySeason(ctx context.Context, season string) ([]*models.Game, error)
}

// SeasonStatsStore persists the derived season rows
type SeasonStatsStore interface {
	UpsertPlayerSeason(ctx context.Context, stat *models.PlayerSeasonStat) error
	UpsertTeamSeason(ctx context.Context, stat *models.TeamSeasonStat) error
}

// Aggregator recomputes and overwrites season rows from per-game rows
type Aggregator struct {
	gameStats   GameStatsStore
	games       GameStore
	seasonStats SeasonStatsStore
}

// NewAggregator creates an aggregator over the given stores
func NewAggregator(gameStats GameStatsStore, games GameStore, seasonStats SeasonStatsStore) *Aggregator {
	return &Aggregator{
		gameStats:   gameStats,
		games:       games,
		seasonStats: seasonStats,
	}
}

// AggregatePlayers recomputes every player season row for the season.
// Returns the number of rows written.
func (a *Aggregator) AggregatePlayers(ctx context.Context, season string) (int, error) {
	stats, err := a.gameStats.ListPlayerStatsBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to load player game stats for %s: %w", season, err)
	}

	totals := PlayerSeasonTotals(season, stats)
	for _, t := range totals {
		if err := a.seasonStats.UpsertPlayerSeason(ctx, t); err != nil {
			return 0, err
		}
	}

	log.Info().
		Str("season", season).
		Int("players", len(totals)).
		Int("game_rows", len(stats)).
		Msg("Player season stats aggregated")

	return len(totals), nil
}

// AggregateTeams recomputes every team season row for the season.
// Returns the number of rows written.
func (a *Aggregator) AggregateTeams(ctx context.Context, season string) (int, error) {
	games, err := a.games.ListBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to load games for %s: %w", season, err)
	}

	teamStats, err := a.gameStats.ListTeamStatsBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to load team game stats for %s: %w", season, err)
	}

	records := TeamSeasonRecords(season, games)
	TeamPossessionAverages(records, teamStats)

	for _, r := range records {
		if err := a.seasonStats.UpsertTeamSeason(ctx, r); err != nil {
			return 0, err
		}
	}

	log.Info().
		Str("season", season).
		Int("teams", len(records)).
		Int("games", len(games)).
		Msg("Team season stats aggregated")

	return len(records), nil
}
