package models

import (
	"database/sql"
	"time"
)

// Valid skater/goalie position codes. Anything else from upstream collapses
// to the forward default.
const (
	PositionCenter    = "C"
	PositionLeftWing  = "LW"
	PositionRightWing = "RW"
	PositionDefense   = "D"
	PositionGoalie    = "G"
	PositionDefault   = "F"
)

// Player represents an NHL player
// TeamID reflects the most recently observed team, not a per-season history.
type Player struct {
	ID            int            `db:"id"`
	TeamID        int            `db:"team_id"`
	FirstName     string         `db:"first_name"`
	LastName      string         `db:"last_name"`
	Position      string         `db:"position"`
	JerseyNumber  sql.NullInt32  `db:"jersey_number"`
	BirthDate     sql.NullTime   `db:"birth_date"`
	BirthCity     sql.NullString `db:"birth_city"`
	BirthCountry  sql.NullString `db:"birth_country"`
	HeightInches  sql.NullInt32  `db:"height_inches"`
	WeightPounds  sql.NullInt32  `db:"weight_pounds"`
	ShootsCatches sql.NullString `db:"shoots_catches"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// PlayerInput is the roster-endpoint shape for a player
type PlayerInput struct {
	ID             int           `json:"id"`
	FirstName      LocalizedName `json:"firstName"`
	LastName       LocalizedName `json:"lastName"`
	SweaterNumber  *int          `json:"sweaterNumber,omitempty"`
	PositionCode   string        `json:"positionCode"`
	ShootsCatches  string        `json:"shootsCatches"`
	HeightInInches *int          `json:"heightInInches,omitempty"`
	WeightInPounds *int          `json:"weightInPounds,omitempty"`
	BirthDate      string        `json:"birthDate"` // "2006-01-02"
	BirthCity      LocalizedName `json:"birthCity"`
	BirthCountry   string        `json:"birthCountry"`
}

// NormalizePosition maps an upstream position code onto the persisted enum,
// defaulting unknown codes to the generic forward position.
func NormalizePosition(code string) string {
	switch code {
	case PositionCenter, PositionLeftWing, PositionRightWing, PositionDefense, PositionGoalie:
		return code
	default:
		return PositionDefault
	}
}

// ToPlayer converts PlayerInput (from API) to Player model
func (pi *PlayerInput) ToPlayer(teamID int) *Player {
	player := &Player{
		ID:        pi.ID,
		TeamID:    teamID,
		FirstName: pi.FirstName.Default,
		LastName:  pi.LastName.Default,
		Position:  NormalizePosition(pi.PositionCode),
	}

	if pi.SweaterNumber != nil {
		player.JerseyNumber = sql.NullInt32{Int32: int32(*pi.SweaterNumber), Valid: true}
	}
	if pi.ShootsCatches != "" {
		player.ShootsCatches = sql.NullString{String: pi.ShootsCatches, Valid: true}
	}
	if pi.HeightInInches != nil {
		player.HeightInches = sql.NullInt32{Int32: int32(*pi.HeightInInches), Valid: true}
	}
	if pi.WeightInPounds != nil {
		player.WeightPounds = sql.NullInt32{Int32: int32(*pi.WeightInPounds), Valid: true}
	}
	if birth, err := time.Parse("2006-01-02", pi.BirthDate); err == nil {
		player.BirthDate = sql.NullTime{Time: birth, Valid: true}
	}
	if pi.BirthCity.Default != "" {
		player.BirthCity = sql.NullString{String: pi.BirthCity.Default, Valid: true}
	}
	if pi.BirthCountry != "" {
		player.BirthCountry = sql.NullString{String: pi.BirthCountry, Valid: true}
	}

	return player
}
