package models

import (
	"database/sql"
	"math"
	"time"
)

// Danger tiers assigned from shot geometry
const (
	DangerHigh   = "high"
	DangerMedium = "medium"
	DangerLow    = "low"
)

// Shot represents one shot attempt inside a game.
// Deduplicated on (game_id, period, time_remaining, shooter_id, x, y);
// exact repeats from re-ingesting the same play-by-play feed are dropped.
type Shot struct {
	ID            int            `db:"id"`
	GameID        int            `db:"game_id"`
	ShooterID     int            `db:"shooter_id"`
	GoalieID      sql.NullInt32  `db:"goalie_id"`
	TeamID        int            `db:"team_id"`
	Period        int            `db:"period"`
	TimeRemaining string         `db:"time_remaining"` // "MM:SS"
	X             float64        `db:"x"`
	Y             float64        `db:"y"`
	ShotType      sql.NullString `db:"shot_type"`
	IsGoal        bool           `db:"is_goal"`
	Distance      float64        `db:"distance"`
	Angle         float64        `db:"angle"`
	Danger        string         `db:"danger"`
	CreatedAt     time.Time      `db:"created_at"`
}

// ShotInput is a shot event extracted from the play-by-play feed
type ShotInput struct {
	GameID        int
	ShooterID     int
	GoalieID      *int
	TeamID        int
	Period        int
	TimeRemaining string
	X             float64
	Y             float64
	ShotType      string
	IsGoal        bool
}

// ToShot converts a play-by-play shot event into a persisted row, computing
// distance, angle and danger tier from the rink coordinates.
func (si *ShotInput) ToShot() *Shot {
	distance, angle := ShotGeometry(si.X, si.Y)

	shot := &Shot{
		GameID:        si.GameID,
		ShooterID:     si.ShooterID,
		TeamID:        si.TeamID,
		Period:        si.Period,
		TimeRemaining: si.TimeRemaining,
		X:             si.X,
		Y:             si.Y,
		IsGoal:        si.IsGoal,
		Distance:      distance,
		Angle:         angle,
		Danger:        DangerTier(distance, angle),
	}

	if si.GoalieID != nil {
		shot.GoalieID = sql.NullInt32{Int32: int32(*si.GoalieID), Valid: true}
	}
	if si.ShotType != "" {
		shot.ShotType = sql.NullString{String: si.ShotType, Valid: true}
	}

	return shot
}

// ShotGeometry computes the distance and angle (degrees off the center line)
// of a shot relative to the nearest goal. NHL rink coordinates place the
// goal lines at x = ±89 with center ice at the origin; attacking direction
// is normalized by mirroring onto the positive half.
func ShotGeometry(x, y float64) (distance, angle float64) {
	const goalX = 89.0

	dx := goalX - math.Abs(x)
	distance = math.Sqrt(dx*dx + y*y)
	if distance == 0 {
		return 0, 0
	}

	angle = math.Atan2(math.Abs(y), dx) * 180 / math.Pi
	return distance, angle
}

// DangerTier buckets a shot into a danger tier by geometry
func DangerTier(distance, angle float64) string {
	switch {
	case distance <= 25 && angle <= 45:
		return DangerHigh
	case distance <= 40:
		return DangerMedium
	default:
		return DangerLow
	}
}
