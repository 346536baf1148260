package poller

import (
	"math/rand"
	"sync"
	"time"
)

// Polling cadence tiers. Active users are polled often for
// responsiveness; dormant users rarely, to conserve the remote API's
// rate budget.
type Tier int

const (
	// TierActive: playing now or stopped within the last ten minutes
	TierActive Tier = iota
	// TierRecent: idle for more than ten minutes, up to two days
	TierRecent
	// TierDormant: idle for more than two days
	TierDormant
)

const (
	activeInterval  = 3 * time.Minute
	recentInterval  = 6 * time.Minute
	dormantInterval = 30 * time.Minute

	recentIdleCutoff  = 10 * time.Minute
	dormantIdleCutoff = 48 * time.Hour
)

// TierFor selects the cadence tier for an idle duration. Idle times at
// exactly a cutoff stay in the faster tier.
func TierFor(idle time.Duration) Tier {
	switch {
	case idle > dormantIdleCutoff:
		return TierDormant
	case idle > recentIdleCutoff:
		return TierRecent
	default:
		return TierActive
	}
}

// Interval returns the polling interval for a tier
func (t Tier) Interval() time.Duration {
	switch t {
	case TierDormant:
		return dormantInterval
	case TierRecent:
		return recentInterval
	default:
		return activeInterval
	}
}

// Deadline computes the next check time for a tier
func Deadline(t Tier, now time.Time) time.Time {
	return now.Add(t.Interval())
}

// userState tracks one user's scheduling between ticks
type userState struct {
	mu           sync.Mutex
	nextCheck    time.Time
	lastActivity time.Time
}

// SchedulerState holds per-user scheduling state. It lives only in
// memory: a restart scatters users over one short interval again, which
// keeps a large population from polling simultaneously.
type SchedulerState struct {
	mu    sync.Mutex
	users map[string]*userState
	rng   *rand.Rand
}

// NewSchedulerState creates an empty scheduler state
func NewSchedulerState() *SchedulerState {
	return &SchedulerState{
		users: make(map[string]*userState),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// get returns the state for a user, creating it on first sight with a
// pseudo-random deadline within one active interval. Callers must hold
// s.mu.
func (s *SchedulerState) get(userID string, now time.Time) *userState {
	st, ok := s.users[userID]
	if !ok {
		st = &userState{
			nextCheck: now.Add(time.Duration(s.rng.Int63n(int64(activeInterval)))),
		}
		s.users[userID] = st
	}
	return st
}

// Due reports whether a user's next-check deadline has passed. First
// sight of a user registers it with a scattered deadline.
func (s *SchedulerState) Due(userID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !now.Before(s.get(userID, now).nextCheck)
}

// TryLock attempts to take a user's check lock. It fails when a
// previous check for the same user is still in flight.
func (s *SchedulerState) TryLock(userID string, now time.Time) bool {
	s.mu.Lock()
	st := s.get(userID, now)
	s.mu.Unlock()
	return st.mu.TryLock()
}

// Unlock releases a user's check lock
func (s *SchedulerState) Unlock(userID string, now time.Time) {
	s.mu.Lock()
	st := s.get(userID, now)
	s.mu.Unlock()
	st.mu.Unlock()
}

// RecordActivity stores the most recent remote-side activity timestamp
// for a user, ignoring zero or older values
func (s *SchedulerState) RecordActivity(userID string, now, activity time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(userID, now)
	if !activity.IsZero() && activity.After(st.lastActivity) {
		st.lastActivity = activity
	}
}

// Reschedule recomputes a user's deadline from its idle time
func (s *SchedulerState) Reschedule(userID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(userID, now)
	st.nextCheck = Deadline(TierFor(now.Sub(st.lastActivity)), now)
}

// NextCheck exposes a user's deadline, mainly for inspection
func (s *SchedulerState) NextCheck(userID string, now time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(userID, now).nextCheck
}
