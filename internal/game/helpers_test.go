package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drawdash/drawdash-server/internal/words"
)

func newTestPool(t *testing.T) *words.Pool {
	t.Helper()
	pool, err := words.NewPool(words.DefaultTiers())
	require.NoError(t, err)
	return pool
}

// newTestRegistry parks all timers on an hour so tests drive the state
// machine by hand; individual tests shorten the delays they exercise.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(newTestPool(t), nil)
	reg.timing = Timing{
		TickInterval:    time.Hour,
		AllGuessedGrace: time.Hour,
		InterRoundDelay: time.Hour,
	}
	return reg
}

// testPlayer has no connection; its outbox is read directly via drain.
func testPlayer(name string) *Player {
	return newPlayer("id-"+name, name, nil)
}

// drain empties a player's outbox.
func drain(t *testing.T, p *Player) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case raw := <-p.send:
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func typesOf(envs []Envelope) []string {
	out := make([]string, 0, len(envs))
	for _, env := range envs {
		out = append(out, env.Type)
	}
	return out
}

func findType(envs []Envelope, typ string) (json.RawMessage, bool) {
	for _, env := range envs {
		if env.Type == typ {
			return env.Data, true
		}
	}
	return nil, false
}

func countType(envs []Envelope, typ string) int {
	n := 0
	for _, env := range envs {
		if env.Type == typ {
			n++
		}
	}
	return n
}

// stepTick advances the round clock by one tick without waiting for the
// real timer.
func (r *Room) stepTick() {
	r.mu.Lock()
	r.tickLocked()
	r.mu.Unlock()
}

// startedGame builds a room with the given players, starts a game, and
// returns the room plus the drawer and its word. Outboxes are drained.
func startedGame(t *testing.T, reg *Registry, settings Settings, players ...*Player) (*Room, *Player, string) {
	t.Helper()
	require.NotEmpty(t, players)

	room := reg.CreateRoom(players[0])
	for _, p := range players[1:] {
		_, err := reg.JoinRoom(room.Code, p)
		require.NoError(t, err)
	}
	room.StartGame(players[0].ID, settings)

	room.mu.Lock()
	require.NotNil(t, room.round, "game should have started")
	drawerID := room.round.DrawerID
	word := room.round.Word
	room.mu.Unlock()

	var drawer *Player
	for _, p := range players {
		if p.ID == drawerID {
			drawer = p
		}
		drain(t, p)
	}
	require.NotNil(t, drawer)
	return room, drawer, word
}

// guesserOf returns some player that is not the drawer.
func guesserOf(drawer *Player, players ...*Player) *Player {
	for _, p := range players {
		if p.ID != drawer.ID {
			return p
		}
	}
	return nil
}

// forceRound pins the live round's word and remaining time for
// deterministic scoring assertions.
func (r *Room) forceRound(word string, secondsRemaining int) {
	r.mu.Lock()
	r.round.Word = word
	r.round.SecondsRemaining = secondsRemaining
	r.mu.Unlock()
}

func (r *Room) snapshot() (RoomState, *RoundState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.state
	if r.round == nil {
		return state, nil
	}
	rs := *r.round
	return state, &rs
}
