package models

import (
	"database/sql"
	"time"
)

// LocalizedName is the NHL API wrapper for translatable display strings
type LocalizedName struct {
	Default string `json:"default"`
}

// Team represents an NHL team
// ID is the league-assigned team id and is authoritative; it is never
// auto-generated by the database.
type Team struct {
	ID           int            `db:"id"`
	Name         string         `db:"name"`
	Abbreviation string         `db:"abbreviation"`
	City         string         `db:"city"`
	Division     sql.NullString `db:"division"`
	Conference   sql.NullString `db:"conference"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// TeamInput is the standings-endpoint shape for a team
// The standings feed identifies teams by abbreviation only; the league id is
// resolved through the static abbreviation table (see fallback.TeamIDByAbbrev)
// because the two upstream sources disagree on which field identifies a team.
type TeamInput struct {
	TeamName       LocalizedName `json:"teamName"`
	TeamAbbrev     LocalizedName `json:"teamAbbrev"`
	PlaceName      LocalizedName `json:"placeName"`
	DivisionName   string        `json:"divisionName"`
	ConferenceName string        `json:"conferenceName"`
}

// ToTeam converts TeamInput (from API) to Team model
func (ti *TeamInput) ToTeam(teamID int) *Team {
	team := &Team{
		ID:           teamID,
		Name:         ti.TeamName.Default,
		Abbreviation: ti.TeamAbbrev.Default,
		City:         ti.PlaceName.Default,
	}

	if ti.DivisionName != "" {
		team.Division = sql.NullString{String: ti.DivisionName, Valid: true}
	}
	if ti.ConferenceName != "" {
		team.Conference = sql.NullString{String: ti.ConferenceName, Valid: true}
	}

	return team
}
