package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}, parseHexColor("#ff0000"))
	assert.Equal(t, color.RGBA{R: 0x2E, G: 0xCC, B: 0x71, A: 0xFF}, parseHexColor("#2ecc71"))
	assert.Equal(t, color.White, parseHexColor("red"))
	assert.Equal(t, color.White, parseHexColor(""))
}

func TestLoadBackground(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	assert.NoError(t, LoadBackground(path))
	assert.Error(t, LoadBackground(filepath.Join(t.TempDir(), "missing.png")))
}

func TestValidHexColor(t *testing.T) {
	assert.True(t, ValidHexColor("#ff0000"))
	assert.True(t, ValidHexColor("#2ecc71"))
	assert.False(t, ValidHexColor("ff0000"))
	assert.False(t, ValidHexColor("#ff00"))
	assert.False(t, ValidHexColor("#gggggg"))
	assert.False(t, ValidHexColor(""))
}

func TestAchievementCardProducesPNG(t *testing.T) {
	r := New("")

	data, err := r.AchievementCard(context.Background(), Card{
		Title:       "Gym Leader Roxanne",
		Points:      5,
		Username:    "Scott",
		Description: "Defeat Roxanne",
		GameTitle:   "Pokemon Emerald",
		Percent:     40,
		TextColor:   "#ffffff",
		Hardcore:    true,
		Lang:        "en",
	})

	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, cardWidth, img.Bounds().Dx())
	assert.Equal(t, cardHeight, img.Bounds().Dy())
}

func TestRecentUnlocksCardProducesPNG(t *testing.T) {
	r := New("")

	// No fetchable images: every cell falls back to a placeholder
	data, err := r.RecentUnlocksCard(context.Background(), RecentCard{
		Username:      "Scott",
		AwardHardcore: true,
		Entries: []RecentEntry{
			{Hardcore: true},
			{},
		},
		Lang: "en",
	})

	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, cardWidth, img.Bounds().Dx())
	assert.Equal(t, cardHeight, img.Bounds().Dy())
}

func TestAchievementCardWithoutProgress(t *testing.T) {
	r := New("")

	data, err := r.AchievementCard(context.Background(), Card{
		Title:     "The Only One",
		Points:    25,
		Username:  "Scott",
		GameTitle: "Tiny Game",
		Percent:   -1,
		Lang:      "fr",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
