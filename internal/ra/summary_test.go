package ra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSummary(t *testing.T) {
	raw := &rawSummary{
		RecentAchievements: map[string]map[string]rawAchievement{
			"14402": {
				"250512": {
					ID:               250512,
					GameID:           14402,
					GameTitle:        "Pokemon Emerald",
					Title:            "Gym Leader Roxanne",
					Description:      "Defeat Roxanne",
					Points:           5,
					BadgeName:        "279930",
					DateAwarded:      "2024-03-10 18:22:41",
					HardcoreAchieved: 1,
				},
			},
		},
		Awarded: map[string]rawAward{
			"14402": {NumPossibleAchievements: 92, NumAchieved: 12, NumAchievedHardcore: 12},
			"bogus": {NumPossibleAchievements: 1},
		},
		RecentlyPlayed: []rawRecentGame{
			{GameID: 14402, Title: "Pokemon Emerald", LastPlayed: "2024-03-10 18:25:00"},
			{GameID: 510, Title: "Super Metroid", LastPlayed: "2024-03-01 10:00:00"},
		},
		TotalPoints: 1234,
	}

	s := normalizeSummary(raw)

	require.Len(t, s.Achievements, 1)
	a := s.Achievements[0]
	assert.Equal(t, 250512, a.ID)
	assert.True(t, a.Hardcore)
	assert.Equal(t, "https://media.retroachievements.org/Badge/279930.png", a.BadgeURL)
	assert.Equal(t, time.Date(2024, 3, 10, 18, 22, 41, 0, time.UTC), a.AwardedAt)

	// Unparseable game ids are dropped, not fatal
	require.Len(t, s.Awards, 1)
	assert.Equal(t, GameAward{Total: 92, NumAchieved: 12, NumAchievedHardcore: 12}, s.Awards[14402])

	// Most recent play across the recently-played list wins
	assert.Equal(t, time.Date(2024, 3, 10, 18, 25, 0, 0, time.UTC), s.LastPlayedAt)
}

func TestParseTimestamp(t *testing.T) {
	assert.True(t, parseTimestamp("").IsZero())
	assert.True(t, parseTimestamp("not a time").IsZero())
	assert.Equal(t,
		time.Date(2023, 7, 1, 0, 30, 0, 0, time.UTC),
		parseTimestamp("2023-07-01 00:30:00"))
}
