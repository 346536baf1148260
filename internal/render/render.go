// Package render draws the notification card images posted alongside
// achievement unlocks.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"

	"github.com/devilishantho2/retroachievements-bot/internal/locale"
)

const (
	cardWidth  = 800
	cardHeight = 250
	badgeSize  = 128
	// Darkening overlay applied over the background image
	dimAlpha = 0.5
)

// Card holds everything needed to draw one achievement card
type Card struct {
	Title       string
	Points      int
	Username    string
	Description string
	GameTitle   string
	BadgeURL    string
	// Percent is the game progress after this unlock; negative disables
	// the progress bar
	Percent    int
	Background string
	TextColor  string
	Hardcore   bool
	Lang       string
}

// Renderer draws cards, fetching remote badge images over HTTP
type Renderer struct {
	httpClient *http.Client
	fontPath   string
}

// New creates a renderer. fontPath may be empty, in which case the
// built-in bitmap font is used.
func New(fontPath string) *Renderer {
	return &Renderer{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		fontPath:   fontPath,
	}
}

// AchievementCard renders one unlock as PNG bytes
func (r *Renderer) AchievementCard(ctx context.Context, card Card) ([]byte, error) {
	dc := gg.NewContext(cardWidth, cardHeight)

	r.drawBackground(ctx, dc, card.Background)

	// Darken so the text stays readable over any background
	dc.SetRGBA(0, 0, 0, dimAlpha)
	dc.DrawRectangle(0, 0, cardWidth, cardHeight)
	dc.Fill()

	textColor := parseHexColor(card.TextColor)
	dc.SetColor(textColor)

	if r.fontPath != "" {
		// Best effort: the bitmap fallback still renders every string
		_ = dc.LoadFontFace(r.fontPath, 28)
	}

	dc.DrawString(fmt.Sprintf("%s (%d pts)", card.Title, card.Points), 20, 45)
	dc.DrawString(locale.T(card.Lang, "achievementUnlocked", map[string]string{"username": card.Username}), 20, 90)
	dc.DrawStringWrapped(fmt.Sprintf("« %s »", card.Description), 20, 110, 0, 0, cardWidth-60-badgeSize, 1.4, gg.AlignLeft)

	footer := locale.T(card.Lang, "gameLine", map[string]string{"game": card.GameTitle})
	if card.Percent >= 0 {
		footer = fmt.Sprintf("%s | %d%%", footer, card.Percent)
	}
	dc.DrawString(footer, 20, cardHeight-20)

	badgeX := float64(cardWidth - badgeSize - 20)
	badgeY := float64(cardHeight/2 - badgeSize/2)

	if badge, err := r.fetchImage(ctx, card.BadgeURL); err == nil {
		drawScaled(dc, badge, badgeX, badgeY, badgeSize, badgeSize)
	}

	// Gold border marks hardcore unlocks
	if card.Hardcore {
		dc.SetRGB255(0xFF, 0xD7, 0x00)
		dc.SetLineWidth(4)
		dc.DrawRectangle(badgeX, badgeY, badgeSize, badgeSize)
		dc.Stroke()
	}

	if card.Percent >= 0 {
		drawProgressBar(dc, badgeX+badgeSize/2-50, badgeY+badgeSize+10, 100, 10, card.Percent)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}

// Layout for the recent-unlocks card: portrait and latest award flank a
// five-by-two badge grid
const (
	gridCols      = 5
	gridRows      = 2
	gridBadgeSize = 64
	gridSpacing   = 20
	portraitSize  = 124
	cardMargin    = 30
)

// RecentEntry is one badge cell on the recent-unlocks card
type RecentEntry struct {
	BadgeURL string
	Hardcore bool
}

// RecentCard holds everything needed to draw a user's recent-unlocks
// summary
type RecentCard struct {
	Username      string
	Background    string
	ProfileURL    string
	AwardBadgeURL string
	AwardHardcore bool
	Entries       []RecentEntry
	Lang          string
}

// RecentUnlocksCard renders a user's rolling achievement history as PNG
// bytes: a banner with the username, the profile picture, the latest
// mastery or completion badge, and a grid of recent unlock badges.
// Missing images fall back to dark placeholder cells.
func (r *Renderer) RecentUnlocksCard(ctx context.Context, card RecentCard) ([]byte, error) {
	dc := gg.NewContext(cardWidth, cardHeight)

	r.drawBackground(ctx, dc, card.Background)

	dc.SetRGBA(0, 0, 0, dimAlpha)
	dc.DrawRectangle(0, 0, cardWidth, cardHeight)
	dc.Fill()

	if r.fontPath != "" {
		_ = dc.LoadFontFace(r.fontPath, 28)
	}

	// Banner with the username, centered
	header := locale.T(card.Lang, "latestCheevosTitle", map[string]string{"username": card.Username})
	headerWidth, _ := dc.MeasureString(header)
	const bannerHeight, bannerPadding = 35.0, 10.0
	dc.SetRGB255(0x00, 0x43, 0x86)
	dc.DrawRoundedRectangle(cardWidth/2-headerWidth/2-bannerPadding, 10, headerWidth+2*bannerPadding, bannerHeight, 8)
	dc.Fill()
	dc.SetRGB255(0xFF, 0xFF, 0xFF)
	dc.DrawString(header, cardWidth/2-headerWidth/2, 35)

	bottomY := float64(cardHeight - portraitSize - cardMargin)
	r.drawBadgeCell(ctx, dc, card.ProfileURL, cardMargin, bottomY, portraitSize, false)
	r.drawBadgeCell(ctx, dc, card.AwardBadgeURL, cardWidth-portraitSize-cardMargin, bottomY, portraitSize, card.AwardHardcore)

	gridWidth := float64(gridBadgeSize*gridCols + gridSpacing*(gridCols-1))
	gridStartX := (cardWidth - gridWidth) / 2
	const gridStartY = 85.0

	for i := 0; i < gridCols*gridRows; i++ {
		x := gridStartX + float64(i%gridCols)*(gridBadgeSize+gridSpacing)
		y := gridStartY + float64(i/gridCols)*(gridBadgeSize+gridSpacing)

		if i < len(card.Entries) {
			r.drawBadgeCell(ctx, dc, card.Entries[i].BadgeURL, x, y, gridBadgeSize, card.Entries[i].Hardcore)
		} else {
			r.drawBadgeCell(ctx, dc, "", x, y, gridBadgeSize, false)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBadgeCell draws one image cell, falling back to a translucent dark
// square when the image cannot be fetched. Hardcore cells get the gold
// border.
func (r *Renderer) drawBadgeCell(ctx context.Context, dc *gg.Context, url string, x, y, size float64, hardcore bool) {
	img, err := r.fetchImage(ctx, url)
	if err != nil {
		dc.SetRGBA255(0x22, 0x22, 0x22, 178)
		dc.DrawRectangle(x, y, size, size)
		dc.Fill()
		return
	}

	drawScaled(dc, img, x, y, size, size)
	if hardcore {
		dc.SetRGB255(0xFF, 0xD7, 0x00)
		dc.SetLineWidth(3)
		dc.DrawRectangle(x, y, size, size)
		dc.Stroke()
	}
}

// drawBackground fills the canvas with the user's background image, or a
// flat dark gray when it cannot be loaded. The background can be a local
// file or an http(s) url.
func (r *Renderer) drawBackground(ctx context.Context, dc *gg.Context, path string) {
	if path != "" {
		var img image.Image
		var err error
		if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			img, err = r.fetchImage(ctx, path)
		} else {
			img, err = gg.LoadImage(path)
		}
		if err == nil {
			drawScaled(dc, img, 0, 0, cardWidth, cardHeight)
			return
		}
	}
	dc.SetRGB255(0x44, 0x44, 0x44)
	dc.Clear()
}

// ValidateBackground checks that a background url points at a decodable
// image before it is saved
func (r *Renderer) ValidateBackground(ctx context.Context, url string) error {
	_, err := r.fetchImage(ctx, url)
	return err
}

// fetchImage downloads and decodes a remote image
func (r *Renderer) fetchImage(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("no image url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("image fetch: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	return img, err
}

func drawScaled(dc *gg.Context, img image.Image, x, y, w, h float64) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(w/float64(bounds.Dx()), h/float64(bounds.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

func drawProgressBar(dc *gg.Context, x, y, w, h float64, percent int) {
	if percent > 100 {
		percent = 100
	}

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRoundedRectangle(x, y, w, h, h/2)
	dc.Fill()

	if percent > 0 {
		dc.SetRGB255(0x2E, 0xCC, 0x71)
		dc.DrawRoundedRectangle(x, y, w*float64(percent)/100, h, h/2)
		dc.Fill()
	}
}

// ValidHexColor reports whether s is a "#rrggbb" color
func ValidHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	var r, g, b uint8
	_, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return err == nil
}

// parseHexColor parses "#rrggbb", defaulting to white
func parseHexColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.White
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// LoadBackground verifies a background file exists and is readable,
// used when a user sets a custom background
func LoadBackground(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(f)
	return err
}
