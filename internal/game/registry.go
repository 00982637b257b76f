package game

import (
	"errors"
	"math/rand"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/drawdash/drawdash-server/internal/audit"
	"github.com/drawdash/drawdash-server/internal/words"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room full")
	ErrGameStarted  = errors.New("game already started")
)

const roomCodeLength = 4

// Room codes avoid visually ambiguous characters (no I/O/0/1).
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Registry owns the live rooms and the reverse index from player to room.
// Room state has its own lock; when both are taken the registry lock always
// comes first, and rooms never call back into the registry.
type Registry struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	playerRooms map[string]string

	pool      *words.Pool
	publisher *audit.Publisher
	timing    Timing
}

func NewRegistry(pool *words.Pool, publisher *audit.Publisher) *Registry {
	return &Registry{
		rooms:       make(map[string]*Room),
		playerRooms: make(map[string]string),
		pool:        pool,
		publisher:   publisher,
		timing:      DefaultTiming(),
	}
}

// CreateRoom builds a lobby room with the creator as sole member and host.
func (reg *Registry) CreateRoom(host *Player) *Room {
	host.IsHost = true

	reg.mu.Lock()
	code := reg.newCodeLocked()
	room := &Room{
		Code:    code,
		players: []*Player{host},
		hostID:  host.ID,
		state:   StateLobby,
		timing:  reg.timing,
		pool:    reg.pool,
	}
	reg.rooms[code] = room
	reg.playerRooms[host.ID] = code
	reg.mu.Unlock()

	// Feed setup dials the broker and must not run under either lock.
	room.attachFeed(reg.publisher.OpenRoomFeed(code))

	log.Info().Str("room", code).Str("host", host.ID).Msg("room created")
	return room
}

func (reg *Registry) newCodeLocked() string {
	for {
		buf := make([]byte, roomCodeLength)
		for i := range buf {
			buf[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
		}
		code := string(buf)
		if _, taken := reg.rooms[code]; !taken {
			return code
		}
	}
}

// JoinRoom appends the player to the room's roster. Business-rule failures
// (unknown code, started game, full room) come back as sentinel errors for
// the gateway to surface to the requester alone.
func (reg *Registry) JoinRoom(code string, p *Player) (*Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	// Held across the membership change so the room cannot be destroyed
	// between lookup and join. Lock order is always registry before room.
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := room.addPlayer(p); err != nil {
		return nil, err
	}
	reg.playerRooms[p.ID] = code

	log.Info().Str("room", code).Str("player", p.ID).Msg("player joined")
	return room, nil
}

// RoomOf resolves a player's current room in O(1).
func (reg *Registry) RoomOf(playerID string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	code, ok := reg.playerRooms[playerID]
	if !ok {
		return nil, false
	}
	room, ok := reg.rooms[code]
	return room, ok
}

// RemovePlayer detaches the player from their room, destroying the room when
// it empties. Unknown players are a benign race and ignored.
func (reg *Registry) RemovePlayer(playerID string) {
	reg.mu.Lock()
	code, ok := reg.playerRooms[playerID]
	if !ok {
		reg.mu.Unlock()
		return
	}
	delete(reg.playerRooms, playerID)
	room := reg.rooms[code]
	reg.mu.Unlock()

	if room == nil {
		return
	}

	if empty := room.removePlayer(playerID); empty {
		reg.mu.Lock()
		delete(reg.rooms, code)
		reg.mu.Unlock()

		room.teardown()
		reg.publisher.CloseRoomFeed(room.detachFeed())
		log.Info().Str("room", code).Msg("room destroyed")
	}
}

// RoomCount reports the number of live rooms.
func (reg *Registry) RoomCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
