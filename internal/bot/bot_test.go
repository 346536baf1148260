package bot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devilishantho2/retroachievements-bot/internal/config"
	"github.com/devilishantho2/retroachievements-bot/internal/storage"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return &Bot{
		config: &config.Config{},
		repo:   repo,
	}
}

func TestRegisterUserReusesExistingAccount(t *testing.T) {
	b := newTestBot(t)

	require.NoError(t, b.repo.CreateUser(&storage.User{
		DiscordID:  "discord-1",
		RAUsername: "Retro",
		RAAPIKey:   "original-key",
	}))
	require.NoError(t, b.repo.AddMember("guild-a", "discord-1", "discord-1"))

	// Registering in a second guild with different credentials must keep
	// the stored account and tell the user it was reused.
	key, vars, err := b.registerUser(context.Background(), "guild-b", "discord-1", "SomeoneElse", "new-key")
	require.NoError(t, err)
	assert.Equal(t, "registerExisting", key)
	assert.Equal(t, "Retro", vars["username"])

	member, err := b.repo.IsMember("guild-b", "discord-1")
	require.NoError(t, err)
	assert.True(t, member)

	user, err := b.repo.GetUser("discord-1")
	require.NoError(t, err)
	assert.Equal(t, "Retro", user.RAUsername)
	assert.Equal(t, "original-key", user.RAAPIKey)
}

func TestRegisterUserAlreadyMember(t *testing.T) {
	b := newTestBot(t)

	require.NoError(t, b.repo.CreateUser(&storage.User{
		DiscordID:  "discord-1",
		RAUsername: "Retro",
		RAAPIKey:   "key",
	}))
	require.NoError(t, b.repo.AddMember("guild-a", "discord-1", "discord-1"))

	key, vars, err := b.registerUser(context.Background(), "guild-a", "discord-1", "Retro", "key")
	require.NoError(t, err)
	assert.Equal(t, "alreadyRegistered", key)
	assert.Nil(t, vars)
}
