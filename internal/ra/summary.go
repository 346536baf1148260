package ra

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Achievement is one unlocked achievement from a user's recent activity
type Achievement struct {
	ID          int
	GameID      int
	GameTitle   string
	Title       string
	Description string
	Points      int
	BadgeURL    string
	Hardcore    bool
	AwardedAt   time.Time
}

// GameAward holds a user's award counts for one game
type GameAward struct {
	Total               int
	NumAchieved         int
	NumAchievedHardcore int
}

// Summary is a normalized view of one user's recent activity
type Summary struct {
	Achievements []Achievement
	Awards       map[int]GameAward

	LastPlayedAt  time.Time
	LastGameID    int
	LastGameTitle string
	LastGameArt   string
	RichPresence  string
	TotalPoints   int
	UserPic       string
}

// rawSummary mirrors the API_GetUserSummary response shape. Recent
// achievements arrive as nested maps keyed by game id then achievement id.
type rawSummary struct {
	RecentAchievements map[string]map[string]rawAchievement `json:"RecentAchievements"`
	Awarded            map[string]rawAward                  `json:"Awarded"`
	RecentlyPlayed     []rawRecentGame                      `json:"RecentlyPlayed"`
	LastGameID         int                                  `json:"LastGameID"`
	LastGame           *rawGame                             `json:"LastGame"`
	RichPresenceMsg    string                               `json:"RichPresenceMsg"`
	TotalPoints        int                                  `json:"TotalPoints"`
	UserPic            string                               `json:"UserPic"`
}

type rawAchievement struct {
	ID               int    `json:"ID"`
	GameID           int    `json:"GameID"`
	GameTitle        string `json:"GameTitle"`
	Title            string `json:"Title"`
	Description      string `json:"Description"`
	Points           int    `json:"Points"`
	BadgeName        string `json:"BadgeName"`
	DateAwarded      string `json:"DateAwarded"`
	HardcoreAchieved int    `json:"HardcoreAchieved"`
}

type rawAward struct {
	NumPossibleAchievements int `json:"NumPossibleAchievements"`
	NumAchieved             int `json:"NumAchieved"`
	NumAchievedHardcore     int `json:"NumAchievedHardcore"`
}

type rawRecentGame struct {
	GameID     int    `json:"GameID"`
	Title      string `json:"Title"`
	LastPlayed string `json:"LastPlayed"`
}

type rawGame struct {
	ID           int    `json:"ID"`
	Title        string `json:"Title"`
	ImageBoxArt  string `json:"ImageBoxArt"`
	ConsoleName  string `json:"ConsoleName"`
}

// UserSummary fetches a user's recent achievements, per-game award counts
// and last-activity information
func (c *Client) UserSummary(ctx context.Context, creds Credentials, gameCount int) (*Summary, error) {
	params := url.Values{}
	params.Set("u", creds.Username)
	params.Set("g", strconv.Itoa(gameCount))
	params.Set("a", "50")

	var raw rawSummary
	if err := c.get(ctx, "API_GetUserSummary.php", creds, params, &raw); err != nil {
		return nil, fmt.Errorf("user summary for %s: %w", creds.Username, err)
	}

	return normalizeSummary(&raw), nil
}

func normalizeSummary(raw *rawSummary) *Summary {
	s := &Summary{
		Awards:       make(map[int]GameAward, len(raw.Awarded)),
		LastGameID:   raw.LastGameID,
		RichPresence: raw.RichPresenceMsg,
		TotalPoints:  raw.TotalPoints,
		UserPic:      raw.UserPic,
	}

	for _, byID := range raw.RecentAchievements {
		for _, a := range byID {
			s.Achievements = append(s.Achievements, Achievement{
				ID:          a.ID,
				GameID:      a.GameID,
				GameTitle:   a.GameTitle,
				Title:       a.Title,
				Description: a.Description,
				Points:      a.Points,
				BadgeURL:    BadgeURL(a.BadgeName),
				Hardcore:    a.HardcoreAchieved == 1,
				AwardedAt:   parseTimestamp(a.DateAwarded),
			})
		}
	}

	for gameID, award := range raw.Awarded {
		id, err := strconv.Atoi(gameID)
		if err != nil {
			continue
		}
		s.Awards[id] = GameAward{
			Total:               award.NumPossibleAchievements,
			NumAchieved:         award.NumAchieved,
			NumAchievedHardcore: award.NumAchievedHardcore,
		}
	}

	for _, g := range raw.RecentlyPlayed {
		if played := parseTimestamp(g.LastPlayed); played.After(s.LastPlayedAt) {
			s.LastPlayedAt = played
		}
	}

	if raw.LastGame != nil {
		s.LastGameTitle = raw.LastGame.Title
		s.LastGameArt = raw.LastGame.ImageBoxArt
	}

	return s
}
