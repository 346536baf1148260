package ra

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// FeaturedAchievement is the rotating achievement-of-the-week record
type FeaturedAchievement struct {
	ID          int
	Title       string
	Description string
	Points      int
	GameID      int
	GameTitle   string
}

type rawFeatured struct {
	Achievement struct {
		ID          string `json:"ID"`
		Title       string `json:"Title"`
		Description string `json:"Description"`
		Points      string `json:"Points"`
	} `json:"Achievement"`
	Game struct {
		ID    string `json:"ID"`
		Title string `json:"Title"`
	} `json:"Game"`
}

// AchievementOfTheWeek fetches the currently featured achievement
func (c *Client) AchievementOfTheWeek(ctx context.Context, creds Credentials) (*FeaturedAchievement, error) {
	var raw rawFeatured
	if err := c.get(ctx, "API_GetAchievementOfTheWeek.php", creds, nil, &raw); err != nil {
		return nil, fmt.Errorf("achievement of the week: %w", err)
	}

	id, err := strconv.Atoi(raw.Achievement.ID)
	if err != nil {
		return nil, fmt.Errorf("achievement of the week: bad id %q", raw.Achievement.ID)
	}
	points, _ := strconv.Atoi(raw.Achievement.Points)
	gameID, _ := strconv.Atoi(raw.Game.ID)

	return &FeaturedAchievement{
		ID:          id,
		Title:       raw.Achievement.Title,
		Description: raw.Achievement.Description,
		Points:      points,
		GameID:      gameID,
		GameTitle:   raw.Game.Title,
	}, nil
}

// Profile is a minimal user profile, used to validate credentials on
// registration
type Profile struct {
	User        string `json:"User"`
	UserPic     string `json:"UserPic"`
	TotalPoints int    `json:"TotalPoints"`
	MemberSince string `json:"MemberSince"`
}

// UserProfile fetches a user's profile. A successful fetch proves the
// supplied username and API key are valid.
func (c *Client) UserProfile(ctx context.Context, creds Credentials) (*Profile, error) {
	params := url.Values{}
	params.Set("u", creds.Username)

	var p Profile
	if err := c.get(ctx, "API_GetUserProfile.php", creds, params, &p); err != nil {
		return nil, fmt.Errorf("user profile for %s: %w", creds.Username, err)
	}
	return &p, nil
}
