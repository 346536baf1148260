package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func addTestUser(t *testing.T, repo *Repository, discordID string) {
	t.Helper()
	require.NoError(t, repo.CreateUser(&User{
		DiscordID:  discordID,
		RAUsername: "player_" + discordID,
		RAAPIKey:   "key",
		Color:      "#ffffff",
	}))
}

func TestWatermarkRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	addTestUser(t, repo, "100")

	u, err := repo.GetUser("100")
	require.NoError(t, err)
	assert.Zero(t, u.LastAchievementID)
	assert.True(t, u.LastAchievementAt.IsZero())

	awarded := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateWatermark("100", 4242, awarded))

	u, err = repo.GetUser("100")
	require.NoError(t, err)
	assert.Equal(t, 4242, u.LastAchievementID)
	assert.True(t, u.LastAchievementAt.Equal(awarded))
}

func TestHistoryBounded(t *testing.T) {
	repo := newTestRepo(t)
	addTestUser(t, repo, "100")

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= HistoryLimit+1; i++ {
		require.NoError(t, repo.AppendHistory(&HistoryEntry{
			UserID:        "100",
			AchievementID: i,
			Title:         "cheevo",
			Points:        5,
			GameTitle:     "Game",
			BadgeURL:      "https://media.retroachievements.org/Badge/1.png",
			Hardcore:      i%2 == 0,
			AwardedAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := repo.GetHistory("100")
	require.NoError(t, err)
	require.Len(t, entries, HistoryLimit)

	// Oldest (id 1) evicted, order preserved
	assert.Equal(t, 2, entries[0].AchievementID)
	assert.Equal(t, HistoryLimit+1, entries[len(entries)-1].AchievementID)
	assert.Equal(t, "https://media.retroachievements.org/Badge/1.png", entries[0].BadgeURL)
	assert.True(t, entries[0].Hardcore)
}

func TestMembershipCascade(t *testing.T) {
	repo := newTestRepo(t)
	addTestUser(t, repo, "100")

	require.NoError(t, repo.AddMember("g1", "100", "admin"))
	require.NoError(t, repo.AddMember("g2", "100", "admin"))

	member, err := repo.IsMember("g1", "100")
	require.NoError(t, err)
	assert.True(t, member)

	// Removing one membership keeps the user
	require.NoError(t, repo.RemoveMember("g1", "100"))
	_, err = repo.GetUser("100")
	require.NoError(t, err)

	// Removing the last membership deletes the user
	require.NoError(t, repo.RemoveMember("g2", "100"))
	_, err = repo.GetUser("100")
	assert.Error(t, err)
}

func TestFeaturedReplaceAndFlagsReset(t *testing.T) {
	repo := newTestRepo(t)
	addTestUser(t, repo, "100")
	addTestUser(t, repo, "200")

	require.NoError(t, repo.SetAotwUnlocked("100", true))
	require.NoError(t, repo.SetAotwUnlocked("200", true))

	require.NoError(t, repo.SetFeatured(SlotWeek, &Featured{
		AchievementID: 9000,
		Title:         "Featured",
		Description:   "Do the thing",
		Points:        25,
		GameID:        77,
		GameTitle:     "Game",
	}))
	require.NoError(t, repo.ResetAotwUnlocked())

	f, err := repo.GetFeatured(SlotWeek)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 9000, f.AchievementID)

	for _, id := range []string{"100", "200"} {
		u, err := repo.GetUser(id)
		require.NoError(t, err)
		assert.False(t, u.AotwUnlocked)
	}

	// Empty slot reads back as nil, not an error
	f, err = repo.GetFeatured(SlotMonth)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestStatsCounters(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.RecordUnlock(3, true))
	require.NoError(t, repo.RecordUnlock(10, false))
	require.NoError(t, repo.RecordUnlock(100, true))
	require.NoError(t, repo.RecordAward(true))
	require.NoError(t, repo.RecordAward(false))

	s, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.TotalCheevos)
	assert.Equal(t, int64(113), s.TotalPoints)
	assert.Equal(t, int64(1), s.Points1to4)
	assert.Equal(t, int64(1), s.Points10)
	assert.Equal(t, int64(1), s.Points100)
	assert.Equal(t, int64(2), s.Hardcore)
	assert.Equal(t, int64(1), s.Softcore)
	assert.Equal(t, int64(1), s.Mastery)
	assert.Equal(t, int64(1), s.Completion)
}
