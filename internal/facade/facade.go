// Package facade assembles the read models the dashboard consumes. It only
// ever reads from the database the pipeline populated; it never talks to an
// upstream API.
package facade

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nhlstats/backfill/internal/cache"
	"nhlstats/backfill/internal/models"

	"github.com/rs/zerolog/log"
)

// TeamPackage is everything the dashboard needs to render one team's season
type TeamPackage struct {
	Team        *models.Team               `json:"team"`
	Roster      []*models.Player           `json:"roster"`
	PlayerStats []*models.PlayerSeasonStat `json:"player_stats"`
	TeamStats   *models.TeamSeasonStat     `json:"team_stats"`
	Schedule    []*models.Game             `json:"schedule"`
}

// GameDetail is one game with its full per-game stat breakdown
type GameDetail struct {
	Game        *models.Game             `json:"game"`
	PlayerStats []*models.PlayerGameStat `json:"player_stats"`
	TeamStats   []*models.TeamGameStat   `json:"team_stats"`
	Shots       []*models.Shot           `json:"shots"`
}

// Store is the slice of the repository the façade reads
type Store interface {
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListPlayersByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	ListPlayerSeasonByTeam(ctx context.Context, teamID int, season string) ([]*models.PlayerSeasonStat, error)
	GetTeamSeason(ctx context.Context, teamID int, season string) (*models.TeamSeasonStat, error)
	ListGamesByTeamAndSeason(ctx context.Context, teamID int, season string) ([]*models.Game, error)
	GetGame(ctx context.Context, id int) (*models.Game, error)
	ListPlayerStatsByGame(ctx context.Context, gameID int) ([]*models.PlayerGameStat, error)
	ListTeamStatsByGame(ctx context.Context, gameID int) ([]*models.TeamGameStat, error)
	ListShotsByGame(ctx context.Context, gameID int) ([]*models.Shot, error)
}

// Service serves dashboard read models with Redis caching in front
type Service struct {
	store       Store
	cache       *cache.RedisCache
	focusTeamID int
	packageTTL  time.Duration
	detailTTL   time.Duration
}

// NewService creates a façade over the given store. cache may be nil.
func NewService(store Store, c *cache.RedisCache, focusTeamID int, packageTTL, detailTTL time.Duration) *Service {
	return &Service{
		store:       store,
		cache:       c,
		focusTeamID: focusTeamID,
		packageTTL:  packageTTL,
		detailTTL:   detailTTL,
	}
}

// TeamPackage assembles the focus team's dashboard package for a season.
// The five reads are independent, so they fan out concurrently; the first
// error wins and the package is not cached.
func (s *Service) TeamPackage(ctx context.Context, season string) (*TeamPackage, error) {
	key := fmt.Sprintf("package:%d:%s", s.focusTeamID, season)

	var cached TeamPackage
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		pkg  TeamPackage
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)

	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		team, err := s.store.GetTeam(ctx, s.focusTeamID)
		if err != nil {
			fail(err)
			return
		}
		pkg.Team = team
	}()
	go func() {
		defer wg.Done()
		roster, err := s.store.ListPlayersByTeam(ctx, s.focusTeamID)
		if err != nil {
			fail(err)
			return
		}
		pkg.Roster = roster
	}()
	go func() {
		defer wg.Done()
		stats, err := s.store.ListPlayerSeasonByTeam(ctx, s.focusTeamID, season)
		if err != nil {
			fail(err)
			return
		}
		pkg.PlayerStats = stats
	}()
	go func() {
		defer wg.Done()
		stat, err := s.store.GetTeamSeason(ctx, s.focusTeamID, season)
		if err != nil {
			// A missing season row just means the aggregate stage has not
			// run yet; the rest of the package is still useful.
			log.Debug().Err(err).Str("season", season).Msg("No team season row for package")
			return
		}
		pkg.TeamStats = stat
	}()
	go func() {
		defer wg.Done()
		games, err := s.store.ListGamesByTeamAndSeason(ctx, s.focusTeamID, season)
		if err != nil {
			fail(err)
			return
		}
		pkg.Schedule = games
	}()
	wg.Wait()

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to assemble team package: %w", errs[0])
	}

	s.cache.Set(ctx, key, &pkg, s.packageTTL)
	return &pkg, nil
}

// GameDetail assembles one game's detail view
func (s *Service) GameDetail(ctx context.Context, gameID int) (*GameDetail, error) {
	key := fmt.Sprintf("game:%d", gameID)

	var cached GameDetail
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	playerStats, err := s.store.ListPlayerStatsByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	teamStats, err := s.store.ListTeamStatsByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	shots, err := s.store.ListShotsByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{
		Game:        game,
		PlayerStats: playerStats,
		TeamStats:   teamStats,
		Shots:       shots,
	}

	// Finished games never change, so their details can sit in cache far
	// longer than a live package.
	ttl := s.detailTTL
	if !game.IsFinal() {
		ttl = time.Minute
	}
	s.cache.Set(ctx, key, detail, ttl)

	return detail, nil
}

// InvalidatePackage drops the cached package for a season after a refresh
func (s *Service) InvalidatePackage(ctx context.Context, season string) {
	s.cache.Delete(ctx, fmt.Sprintf("package:%d:%s", s.focusTeamID, season))
}
