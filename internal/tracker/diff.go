// Package tracker turns one fetched activity summary into the set of
// notification intents that are genuinely new for a user.
package tracker

import (
	"sort"
	"time"

	"github.com/devilishantho2/retroachievements-bot/internal/ra"
)

// Kind classifies a notification intent
type Kind string

const (
	KindAchievement Kind = "achievement"
	KindAotwUnlock  Kind = "aotw-unlock"
	KindAotmUnlock  Kind = "aotm-unlock"
	KindMastered    Kind = "mastered"
	KindCompleted   Kind = "completed"
)

// NoProgress marks an intent whose game carries no progress visual
// (games with one or zero possible achievements).
const NoProgress = -1

// Intent is one notification to emit for a user
type Intent struct {
	Kind Kind

	// Achievement is set for achievement and unlock intents
	Achievement ra.Achievement

	// Percent is the game progress immediately after this unlock.
	// NoProgress means no visual; 0 suppresses the rendered card but the
	// event still counts toward history and stats.
	Percent int

	// Game award fields, set for mastered/completed intents
	GameID    int
	GameTitle string
	Hardcore  bool
	BadgeURL  string
}

// Watermark is the (id, timestamp) pair marking the last achievement
// already processed for a user
type Watermark struct {
	ID        int
	AwardedAt time.Time
}

// Covers reports whether the watermark already accounts for an
// achievement. Both the id and the timestamp guard against the API
// re-delivering the same event out of order.
func (w Watermark) Covers(a ra.Achievement) bool {
	return a.ID == w.ID || !a.AwardedAt.After(w.AwardedAt)
}

// Flags carries a user's featured-achievement unlock state
type Flags struct {
	Aotw bool
	Aotm bool
}

// Result is the outcome of one diff run
type Result struct {
	// New achievements in chronological order (oldest first)
	New []ra.Achievement
	// Intents to deliver, in emission order
	Intents []Intent
	// Advanced watermark; equal to the input when nothing is new
	Watermark Watermark
	// Updated unlock flags
	Flags Flags
}

// Diff computes the genuinely new unlocks in a summary relative to the
// stored watermark, their per-game progress percentages, any mastery or
// completion awards, and featured-achievement unlocks.
func Diff(s *ra.Summary, wm Watermark, flags Flags, aotwID, aotmID int) Result {
	res := Result{Watermark: wm, Flags: flags}

	fresh := collectNew(s.Achievements, wm)
	if len(fresh) == 0 {
		return res
	}
	res.New = fresh

	// The watermark advances as soon as the new-set is known so a later
	// notification failure cannot cause endless reprocessing.
	newest := fresh[len(fresh)-1]
	res.Watermark = Watermark{ID: newest.ID, AwardedAt: newest.AwardedAt}

	// Seed per-game counters back to the state before these unlocks: the
	// remote "achieved" count includes them already.
	newPerGame := make(map[int]int)
	for _, a := range fresh {
		newPerGame[a.GameID]++
	}
	counters := make(map[int]int, len(newPerGame))
	for gameID, n := range newPerGame {
		counters[gameID] = s.Awards[gameID].NumAchieved - n
	}

	for _, a := range fresh {
		counters[a.GameID]++
		res.Intents = append(res.Intents, Intent{
			Kind:        KindAchievement,
			Achievement: a,
			Percent:     progressPercent(counters[a.GameID], s.Awards[a.GameID].Total),
		})

		if aotwID != 0 && a.ID == aotwID && !res.Flags.Aotw {
			res.Flags.Aotw = true
			res.Intents = append(res.Intents, Intent{Kind: KindAotwUnlock, Achievement: a, Percent: NoProgress})
		}
		if aotmID != 0 && a.ID == aotmID && !res.Flags.Aotm {
			res.Flags.Aotm = true
			res.Intents = append(res.Intents, Intent{Kind: KindAotmUnlock, Achievement: a, Percent: NoProgress})
		}
	}

	res.Intents = append(res.Intents, completionIntents(fresh, s.Awards, newPerGame)...)
	return res
}

// collectNew sorts recent achievements newest first, takes everything
// ahead of the watermark, and returns it in chronological order.
func collectNew(recent []ra.Achievement, wm Watermark) []ra.Achievement {
	sorted := make([]ra.Achievement, len(recent))
	copy(sorted, recent)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AwardedAt.After(sorted[j].AwardedAt)
	})

	var fresh []ra.Achievement
	for _, a := range sorted {
		if wm.Covers(a) {
			break
		}
		fresh = append(fresh, a)
	}

	// Reverse to oldest-first so events are emitted in the order they
	// actually occurred.
	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}
	return fresh
}

// progressPercent computes ceil(achieved/total*100) clamped to [0, 100].
// Games with one or zero achievements carry no progress visual.
func progressPercent(achieved, total int) int {
	if total <= 1 {
		return NoProgress
	}
	if achieved <= 0 {
		return 0
	}
	percent := (achieved*100 + total - 1) / total
	if percent > 100 {
		percent = 100
	}
	return percent
}

// completionIntents emits at most one mastery or completion per game
// touched this cycle. Hardcore takes priority over softcore.
func completionIntents(fresh []ra.Achievement, awards map[int]ra.GameAward, newPerGame map[int]int) []Intent {
	gameIDs := make([]int, 0, len(newPerGame))
	for id := range newPerGame {
		gameIDs = append(gameIDs, id)
	}
	sort.Ints(gameIDs)

	var intents []Intent
	for _, gameID := range gameIDs {
		award, ok := awards[gameID]
		if !ok || award.Total == 0 {
			continue
		}

		var kind Kind
		var hardcore bool
		switch {
		case award.NumAchievedHardcore == award.Total:
			kind, hardcore = KindMastered, true
		case award.NumAchieved == award.Total:
			kind, hardcore = KindCompleted, false
		default:
			continue
		}

		// The newest unlock for this game supplies title and badge
		var last ra.Achievement
		for _, a := range fresh {
			if a.GameID == gameID {
				last = a
			}
		}

		intents = append(intents, Intent{
			Kind:      kind,
			GameID:    gameID,
			GameTitle: last.GameTitle,
			Hardcore:  hardcore,
			BadgeURL:  last.BadgeURL,
			Percent:   NoProgress,
		})
	}
	return intents
}
