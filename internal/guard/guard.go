// Package guard rate-limits gameplay actions per player. It is advisory
// anti-spam protection, not authentication: the only cost of a wrong answer
// is a dropped chat line or guess.
package guard

import (
	"sync"
	"time"
)

const (
	// A player must wait this long between accepted actions of the same kind.
	actionCooldown = 1000 * time.Millisecond

	// No more than spamLimit accepted actions of any kind per window.
	spamWindow = 5000 * time.Millisecond
	spamLimit  = 5
)

// Decision is the outcome of a single rate-limit check. RetryAfter is a hint
// for the client and is only set on rejection.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

type record struct {
	lastByKind      map[string]time.Time
	spamCount       int
	spamWindowStart time.Time
}

// Guard tracks per-player cooldowns. Records are created lazily on first
// action and must be dropped via Reset when the player disconnects.
type Guard struct {
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
}

func New() *Guard {
	return &Guard{
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Check decides whether an action of the given kind is accepted right now.
// Acceptance stamps the kind's cooldown and counts against the spam window
// in the same critical section, so an action is never half-counted.
func (g *Guard) Check(playerID, kind string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	rec, ok := g.records[playerID]
	if !ok {
		rec = &record{lastByKind: make(map[string]time.Time), spamWindowStart: now}
		g.records[playerID] = rec
	}

	if elapsed := now.Sub(rec.spamWindowStart); elapsed >= spamWindow {
		rec.spamWindowStart = now
		rec.spamCount = 0
	}

	// The window cap overrides per-action cooldowns: once tripped, every
	// kind is rejected until the window rolls over.
	if rec.spamCount >= spamLimit {
		return Decision{RetryAfter: spamWindow - now.Sub(rec.spamWindowStart)}
	}

	if last, ok := rec.lastByKind[kind]; ok {
		if since := now.Sub(last); since < actionCooldown {
			return Decision{RetryAfter: actionCooldown - since}
		}
	}

	rec.lastByKind[kind] = now
	rec.spamCount++
	return Decision{Allowed: true}
}

// Reset drops all state for a player. Called on disconnect so records do not
// accumulate and a reconnecting id starts fresh.
func (g *Guard) Reset(playerID string) {
	g.mu.Lock()
	delete(g.records, playerID)
	g.mu.Unlock()
}
