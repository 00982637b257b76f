package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drawdash/drawdash-server/internal/audit"
	"github.com/drawdash/drawdash-server/internal/words"
)

type RoomState int

const (
	StateLobby RoomState = iota
	StatePlaying
	StateEnded
)

const maxRoomSize = 8

// Settings are the host-chosen game parameters.
type Settings struct {
	Rounds           int
	RoundTimeSeconds int
	Difficulty       string
}

func (s Settings) withDefaults() Settings {
	if s.Rounds <= 0 {
		s.Rounds = 3
	}
	if s.RoundTimeSeconds <= 0 {
		s.RoundTimeSeconds = 60
	}
	if s.Difficulty == "" {
		s.Difficulty = "easy"
	}
	return s
}

// RoundState exists only while the room is playing.
type RoundState struct {
	CurrentRound     int
	TotalRounds      int
	RoundTimeSeconds int
	SecondsRemaining int
	Word             string
	DrawerID         string
	Guessed          map[string]bool
	Scores           map[string]int
	LastHint         string
}

// Timing groups the delays that drive round progression. Tests shrink these;
// production uses DefaultTiming.
type Timing struct {
	TickInterval    time.Duration
	AllGuessedGrace time.Duration
	InterRoundDelay time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		TickInterval:    time.Second,
		AllGuessedGrace: 2 * time.Second,
		InterRoundDelay: 3 * time.Second,
	}
}

// Room is one game session. Every mutation goes through mu, including the
// timer callbacks, so no two mutations of a room ever interleave. Rooms
// share nothing with one another.
type Room struct {
	mu sync.Mutex

	Code     string
	players  []*Player // insertion order; index 0 after host leaves is the successor
	hostID   string
	state    RoomState
	settings Settings
	round    *RoundState

	// Drawer of the previous round, excluded from the next draw when
	// possible.
	lastDrawerID string

	// Exactly one scheduled timer is live per room. timerGen invalidates
	// callbacks that fire after the state they were armed against is gone.
	timer    *time.Timer
	timerGen uint64
	timing   Timing

	pool *words.Pool
	feed *audit.Feed
}

// scheduleLocked arms the room's single timer. Any previously pending
// callback is superseded: it will observe a stale generation and do nothing
// even if Stop loses the race with the firing goroutine.
func (r *Room) scheduleLocked(d time.Duration, fn func()) {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timerGen++
	gen := r.timerGen
	r.timer = time.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.timerGen != gen {
			return
		}
		fn()
	})
}

func (r *Room) cancelTimerLocked() {
	r.timerGen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) attachFeed(f *audit.Feed) {
	r.mu.Lock()
	r.feed = f
	r.mu.Unlock()
}

func (r *Room) detachFeed() *audit.Feed {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.feed
	r.feed = nil
	return f
}

// --- broadcast helpers (callers hold r.mu; enqueue never blocks) ---

func (r *Room) broadcastLocked(typ string, data any) {
	raw := encode(typ, data)
	for _, p := range r.players {
		p.enqueue(raw)
	}
}

func (r *Room) broadcastExceptLocked(exceptID, typ string, data any) {
	raw := encode(typ, data)
	for _, p := range r.players {
		if p.ID != exceptID {
			p.enqueue(raw)
		}
	}
}

func (r *Room) systemChatLocked(text string) {
	r.broadcastLocked(msgChatMessage, ChatMessagePayload{
		PlayerName: "System",
		Text:       text,
		System:     true,
	})
}

func (r *Room) rosterLocked() []PlayerInfo {
	roster := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		info := PlayerInfo{
			ID:     p.ID,
			Name:   p.Name,
			IsHost: p.IsHost,
			Avatar: p.Avatar,
		}
		if rs := r.round; rs != nil {
			info.Score = rs.Scores[p.ID]
			info.IsDrawing = p.ID == rs.DrawerID
		}
		roster = append(roster, info)
	}
	return roster
}

func (r *Room) broadcastRosterLocked() {
	r.broadcastLocked(msgPlayerUpdate, RosterPayload{Players: r.rosterLocked()})
}

func (r *Room) playerLocked(id string) (*Player, int) {
	for i, p := range r.players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// --- membership ---

// Roster snapshots the current player list.
func (r *Room) Roster() []PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

func (r *Room) addPlayer(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateLobby {
		return ErrGameStarted
	}
	if len(r.players) >= maxRoomSize {
		return ErrRoomFull
	}

	r.players = append(r.players, p)
	r.systemChatLocked(p.Name + " joined the room")
	r.broadcastRosterLocked()
	r.feed.Record("playerJoined", map[string]any{"player": p.ID, "name": p.Name})
	return nil
}

// UpdateAvatar replaces the player's avatar and rebroadcasts the roster.
func (r *Room) UpdateAvatar(p *Player, avatar []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, _ := r.playerLocked(p.ID); cur == nil {
		return
	}
	p.Avatar = avatar
	r.broadcastRosterLocked()
}

// removePlayer drops the player from the roster and repairs room state:
// host succession, drawer-left round termination, all-guessed completion.
// Returns true when the room is now empty and should be destroyed.
func (r *Room) removePlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, idx := r.playerLocked(playerID)
	if p == nil {
		return len(r.players) == 0
	}
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if len(r.players) == 0 {
		r.cancelTimerLocked()
		if r.round != nil {
			r.pool.Release(r.round.Word)
			r.round = nil
		}
		return true
	}

	wasDrawer := r.round != nil && r.round.DrawerID == playerID
	if rs := r.round; rs != nil {
		delete(rs.Guessed, playerID)
		delete(rs.Scores, playerID)
	}

	if p.IsHost {
		p.IsHost = false
		next := r.players[0]
		next.IsHost = true
		r.hostID = next.ID
		log.Info().Str("room", r.Code).Str("host", next.ID).Msg("host migrated")
		r.broadcastLocked(msgNewHost, NewHostPayload{HostID: next.ID, HostName: next.Name})
	}

	switch {
	case r.state == StatePlaying && len(r.players) < 2:
		// A round needs a drawer and at least one guesser.
		r.endGameLocked()
	case wasDrawer:
		log.Info().Str("room", r.Code).Str("player", playerID).Msg("drawer left, ending round")
		r.endRoundLocked()
	case r.round != nil && r.allGuessedLocked():
		// The departing player was the last holdout.
		r.scheduleLocked(r.timing.AllGuessedGrace, r.endRoundLocked)
	}

	r.systemChatLocked(p.Name + " left the room")
	r.broadcastRosterLocked()
	r.feed.Record("playerLeft", map[string]any{"player": playerID})
	return false
}

// teardown cancels timers for a room being destroyed.
func (r *Room) teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelTimerLocked()
	if r.round != nil {
		r.pool.Release(r.round.Word)
		r.round = nil
	}
	r.state = StateEnded
}
