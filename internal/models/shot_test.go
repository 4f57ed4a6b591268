package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShotGeometry(t *testing.T) {
	// Straight down the slot from 10 feet out
	dist, angle := ShotGeometry(79, 0)
	assert.InDelta(t, 10.0, dist, 0.001)
	assert.InDelta(t, 0.0, angle, 0.001)

	// Shots in the defending half mirror onto the nearest goal
	dist, angle = ShotGeometry(-79, 0)
	assert.InDelta(t, 10.0, dist, 0.001)
	assert.InDelta(t, 0.0, angle, 0.001)

	// 45 degrees off center
	dist, angle = ShotGeometry(79, 10)
	assert.InDelta(t, 14.142, dist, 0.01)
	assert.InDelta(t, 45.0, angle, 0.001)

	// Shot from the goal line itself
	dist, _ = ShotGeometry(89, 0)
	assert.Zero(t, dist)
}

func TestDangerTier(t *testing.T) {
	assert.Equal(t, DangerHigh, DangerTier(10, 0))
	assert.Equal(t, DangerHigh, DangerTier(25, 45))
	assert.Equal(t, DangerMedium, DangerTier(25, 60), "Close but sharply angled shots are medium")
	assert.Equal(t, DangerMedium, DangerTier(40, 0))
	assert.Equal(t, DangerLow, DangerTier(41, 0))
	assert.Equal(t, DangerLow, DangerTier(60, 30))
}

func TestShotInput_ToShot(t *testing.T) {
	goalie := 8479292
	si := ShotInput{
		GameID:        2024020500,
		ShooterID:     8471214,
		GoalieID:      &goalie,
		TeamID:        15,
		Period:        2,
		TimeRemaining: "12:34",
		X:             79,
		Y:             0,
		ShotType:      "wrist",
		IsGoal:        true,
	}

	shot := si.ToShot()
	assert.Equal(t, 2024020500, shot.GameID)
	assert.InDelta(t, 10.0, shot.Distance, 0.001)
	assert.Equal(t, DangerHigh, shot.Danger)
	assert.True(t, shot.IsGoal)
	require.True(t, shot.GoalieID.Valid)
	assert.Equal(t, int32(8479292), shot.GoalieID.Int32)
	require.True(t, shot.ShotType.Valid)
	assert.Equal(t, "wrist", shot.ShotType.String)
}

func TestShotInput_ToShot_NoGoalie(t *testing.T) {
	si := ShotInput{GameID: 1, ShooterID: 2, TeamID: 15, Period: 1, TimeRemaining: "20:00", X: 50, Y: 20}

	shot := si.ToShot()
	assert.False(t, shot.GoalieID.Valid, "Empty-net shots have no goalie")
	assert.False(t, shot.ShotType.Valid)
	assert.Equal(t, DangerLow, shot.Danger)
}
