package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devilishantho2/retroachievements-bot/internal/ra"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func cheevo(id, gameID, points int, minutesAfterBase int) ra.Achievement {
	return ra.Achievement{
		ID:        id,
		GameID:    gameID,
		GameTitle: "Game",
		Title:     "Cheevo",
		Points:    points,
		BadgeURL:  "https://media.retroachievements.org/Badge/1.png",
		AwardedAt: base.Add(time.Duration(minutesAfterBase) * time.Minute),
	}
}

func summary(achievements []ra.Achievement, awards map[int]ra.GameAward) *ra.Summary {
	return &ra.Summary{Achievements: achievements, Awards: awards}
}

func achievementIntents(res Result) []Intent {
	var out []Intent
	for _, in := range res.Intents {
		if in.Kind == KindAchievement {
			out = append(out, in)
		}
	}
	return out
}

func TestDiffCollectsOnlyNewInChronologicalOrder(t *testing.T) {
	s := summary(
		[]ra.Achievement{
			cheevo(3, 1, 5, 30),
			cheevo(1, 1, 5, 10), // at the watermark
			cheevo(2, 1, 5, 20),
			cheevo(0, 1, 5, 5), // before the watermark
		},
		map[int]ra.GameAward{1: {Total: 10, NumAchieved: 4}},
	)

	res := Diff(s, Watermark{ID: 1, AwardedAt: base.Add(10 * time.Minute)}, Flags{}, 0, 0)

	require.Len(t, res.New, 2)
	assert.Equal(t, 2, res.New[0].ID)
	assert.Equal(t, 3, res.New[1].ID)
	assert.Equal(t, Watermark{ID: 3, AwardedAt: base.Add(30 * time.Minute)}, res.Watermark)
}

func TestDiffWatermarkMonotonic(t *testing.T) {
	achievements := []ra.Achievement{
		cheevo(10, 1, 5, 10),
		cheevo(11, 1, 5, 20),
	}
	s := summary(achievements, map[int]ra.GameAward{1: {Total: 10, NumAchieved: 2}})

	res := Diff(s, Watermark{}, Flags{}, 0, 0)
	require.Len(t, res.New, 2)
	first := res.Watermark

	// Re-running over the same data emits nothing and keeps the watermark
	res = Diff(s, first, Flags{}, 0, 0)
	assert.Empty(t, res.New)
	assert.Empty(t, res.Intents)
	assert.Equal(t, first, res.Watermark)

	// Same id re-delivered with a different timestamp is still covered
	redelivered := summary(
		[]ra.Achievement{cheevo(11, 1, 5, 5)},
		map[int]ra.GameAward{1: {Total: 10, NumAchieved: 2}},
	)
	res = Diff(redelivered, first, Flags{}, 0, 0)
	assert.Empty(t, res.New)
	assert.Equal(t, first, res.Watermark)
}

func TestDiffSameTimestampNotNew(t *testing.T) {
	// A different id at exactly the watermark timestamp is not new:
	// newness requires a strictly later award time.
	s := summary(
		[]ra.Achievement{cheevo(99, 1, 5, 10)},
		map[int]ra.GameAward{1: {Total: 10, NumAchieved: 1}},
	)
	res := Diff(s, Watermark{ID: 1, AwardedAt: base.Add(10 * time.Minute)}, Flags{}, 0, 0)
	assert.Empty(t, res.New)
}

func TestDiffProgressPercentSeeding(t *testing.T) {
	tests := []struct {
		name     string
		achieved int // remote count, includes the new unlocks
		total    int
		newCount int
		want     []int
	}{
		{name: "two new of four achieved", achieved: 4, total: 10, newCount: 2, want: []int{30, 40}},
		{name: "first ever unlock", achieved: 1, total: 3, newCount: 1, want: []int{34}},
		{name: "finishing the set", achieved: 25, total: 25, newCount: 3, want: []int{92, 96, 100}},
		{name: "single achievement game has no visual", achieved: 1, total: 1, newCount: 1, want: []int{NoProgress}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var achievements []ra.Achievement
			for i := 0; i < tt.newCount; i++ {
				achievements = append(achievements, cheevo(100+i, 1, 5, 10+i))
			}
			s := summary(achievements, map[int]ra.GameAward{
				1: {Total: tt.total, NumAchieved: tt.achieved},
			})

			res := Diff(s, Watermark{}, Flags{}, 0, 0)
			intents := achievementIntents(res)
			require.Len(t, intents, tt.newCount)

			var got []int
			for _, in := range intents {
				got = append(got, in.Percent)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffPercentZeroWhenRemoteCountLags(t *testing.T) {
	// Remote achieved count lagging behind the new events floors at 0,
	// which suppresses the card but keeps the event.
	s := summary(
		[]ra.Achievement{cheevo(5, 1, 5, 10), cheevo(6, 1, 5, 20)},
		map[int]ra.GameAward{1: {Total: 10, NumAchieved: 1}},
	)
	res := Diff(s, Watermark{}, Flags{}, 0, 0)
	intents := achievementIntents(res)
	require.Len(t, intents, 2)
	assert.Equal(t, 0, intents[0].Percent)
	assert.Equal(t, 10, intents[1].Percent)
}

func TestDiffMasteryPriority(t *testing.T) {
	s := summary(
		[]ra.Achievement{cheevo(7, 1, 25, 10)},
		map[int]ra.GameAward{1: {Total: 5, NumAchieved: 5, NumAchievedHardcore: 5}},
	)
	res := Diff(s, Watermark{}, Flags{}, 0, 0)

	last := res.Intents[len(res.Intents)-1]
	assert.Equal(t, KindMastered, last.Kind)
	assert.True(t, last.Hardcore)
	assert.Equal(t, 1, last.GameID)
}

func TestDiffSoftcoreCompletion(t *testing.T) {
	s := summary(
		[]ra.Achievement{cheevo(7, 1, 25, 10)},
		map[int]ra.GameAward{1: {Total: 5, NumAchieved: 5, NumAchievedHardcore: 3}},
	)
	res := Diff(s, Watermark{}, Flags{}, 0, 0)

	last := res.Intents[len(res.Intents)-1]
	assert.Equal(t, KindCompleted, last.Kind)
	assert.False(t, last.Hardcore)
}

func TestDiffOneCompletionPerGame(t *testing.T) {
	s := summary(
		[]ra.Achievement{cheevo(7, 1, 5, 10), cheevo(8, 1, 5, 20)},
		map[int]ra.GameAward{1: {Total: 5, NumAchieved: 5, NumAchievedHardcore: 5}},
	)
	res := Diff(s, Watermark{}, Flags{}, 0, 0)

	count := 0
	for _, in := range res.Intents {
		if in.Kind == KindMastered || in.Kind == KindCompleted {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDiffFeaturedUnlockIdempotent(t *testing.T) {
	s := summary(
		[]ra.Achievement{cheevo(42, 1, 10, 10)},
		map[int]ra.GameAward{1: {Total: 10, NumAchieved: 1}},
	)

	res := Diff(s, Watermark{}, Flags{}, 42, 0)
	require.True(t, res.Flags.Aotw)

	var unlocks int
	for _, in := range res.Intents {
		if in.Kind == KindAotwUnlock {
			unlocks++
		}
	}
	assert.Equal(t, 1, unlocks)

	// The flag, not the id, gates the unlock: with it already set the
	// same data never re-fires.
	res = Diff(s, Watermark{}, Flags{Aotw: true}, 42, 0)
	for _, in := range res.Intents {
		assert.NotEqual(t, KindAotwUnlock, in.Kind)
	}
	assert.True(t, res.Flags.Aotw)
}

func TestDiffMonthlyUnlock(t *testing.T) {
	s := summary(
		[]ra.Achievement{cheevo(77, 1, 10, 10)},
		map[int]ra.GameAward{1: {Total: 10, NumAchieved: 1}},
	)

	res := Diff(s, Watermark{}, Flags{}, 0, 77)
	assert.True(t, res.Flags.Aotm)

	var kinds []Kind
	for _, in := range res.Intents {
		kinds = append(kinds, in.Kind)
	}
	assert.Equal(t, []Kind{KindAchievement, KindAotmUnlock}, kinds)
}

func TestDiffEmptySummary(t *testing.T) {
	res := Diff(summary(nil, nil), Watermark{ID: 5, AwardedAt: base}, Flags{}, 0, 0)
	assert.Empty(t, res.Intents)
	assert.Equal(t, Watermark{ID: 5, AwardedAt: base}, res.Watermark)
}
