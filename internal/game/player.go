package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	sendQueueSize = 64
	writeWait     = 10 * time.Second

	// Transport-level flood guard, well above any legitimate client rate.
	// Gameplay cooldowns are enforced separately by the guard package.
	readLimit = rate.Limit(10)
	readBurst = 20
)

// Player is one connection's identity inside a room. All gameplay fields are
// guarded by the owning room's lock; the send queue and write pump are safe
// to use from any goroutine.
type Player struct {
	ID     string
	Name   string
	Avatar json.RawMessage
	IsHost bool

	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	limiter *rate.Limiter
}

func newPlayer(id, name string, conn *websocket.Conn) *Player {
	return &Player{
		ID:      id,
		Name:    name,
		conn:    conn,
		send:    make(chan []byte, sendQueueSize),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(readLimit, readBurst),
	}
}

// enqueue hands a frame to the write pump. A player that cannot drain its
// queue loses frames rather than blocking the room.
func (p *Player) enqueue(data []byte) {
	if data == nil {
		return
	}
	select {
	case <-p.done:
	case p.send <- data:
	default:
		log.Warn().Str("player", p.ID).Msg("send queue full, dropping frame")
	}
}

// writePump is the only goroutine allowed to write the connection.
func (p *Player) writePump() {
	for {
		select {
		case <-p.done:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

// shutdown stops the write pump. Safe to call more than once.
func (p *Player) shutdown() {
	p.once.Do(func() { close(p.done) })
}
