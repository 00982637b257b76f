package game

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/drawdash/drawdash-server/internal/guard"
)

// Guard action kinds for rate-limited inbound events.
const (
	actionGuess = "guess"
	actionChat  = "chat"
)

// Gateway is the connection boundary: it upgrades websockets, decodes the
// message envelope, and routes events to the registry and rooms. It never
// touches room internals directly.
type Gateway struct {
	registry *Registry
	guard    *guard.Guard
	upgrader websocket.Upgrader
}

func NewGateway(registry *Registry, g *guard.Guard) *Gateway {
	return &Gateway{
		registry: registry,
		guard:    g,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS is the gin handler for GET /ws.
func (gw *Gateway) HandleWS(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		username = "Anonymous"
	}

	conn, err := gw.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	p := newPlayer(uuid.New().String(), username, conn)
	go p.writePump()

	p.enqueue(encode(msgConnected, ConnectedPayload{PlayerID: p.ID, Name: p.Name}))
	log.Info().Str("player", p.ID).Str("name", p.Name).Msg("client connected")

	defer func() {
		gw.registry.RemovePlayer(p.ID)
		gw.guard.Reset(p.ID)
		p.shutdown()
		conn.Close()
		log.Info().Str("player", p.ID).Msg("client disconnected")
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		// Transport flood guard. Frames past it are discarded undecoded.
		if !p.limiter.Allow() {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Debug().Str("player", p.ID).Msg("dropping malformed frame")
			continue
		}
		gw.dispatch(p, env)
	}
}

func (gw *Gateway) dispatch(p *Player, env Envelope) {
	switch env.Type {
	case msgCreateRoom:
		gw.handleCreateRoom(p, env.Data)
	case msgJoinRoom:
		gw.handleJoinRoom(p, env.Data)
	case msgUpdateAvatar:
		var pl UpdateAvatarPayload
		if json.Unmarshal(env.Data, &pl) != nil {
			return
		}
		if room, ok := gw.registry.RoomOf(p.ID); ok {
			room.UpdateAvatar(p, pl.Avatar)
		}
	case msgStartGame:
		var pl StartGamePayload
		if json.Unmarshal(env.Data, &pl) != nil {
			return
		}
		if room, ok := gw.registry.RoomOf(p.ID); ok {
			room.StartGame(p.ID, Settings{
				Rounds:           pl.Rounds,
				RoundTimeSeconds: pl.RoundTimeSeconds,
				Difficulty:       pl.Difficulty,
			})
		}
	case msgDrawing:
		if room, ok := gw.registry.RoomOf(p.ID); ok {
			room.Drawing(p, env.Data)
		}
	case msgClearCanvas:
		if room, ok := gw.registry.RoomOf(p.ID); ok {
			room.ClearCanvas(p)
		}
	case msgSubmitGuess:
		var pl GuessPayload
		if json.Unmarshal(env.Data, &pl) != nil {
			return
		}
		if !gw.allow(p, actionGuess) {
			return
		}
		if room, ok := gw.registry.RoomOf(p.ID); ok {
			room.SubmitGuess(p, pl.Text)
		}
	case msgSendChatMessage:
		var pl ChatPayload
		if json.Unmarshal(env.Data, &pl) != nil {
			return
		}
		if !gw.allow(p, actionChat) {
			return
		}
		if room, ok := gw.registry.RoomOf(p.ID); ok {
			room.Chat(p, pl.Text)
		}
	case msgPlayAgain:
		if room, ok := gw.registry.RoomOf(p.ID); ok {
			room.PlayAgain(p.ID)
		}
	default:
		log.Debug().Str("player", p.ID).Str("type", env.Type).Msg("unknown message type")
	}
}

// allow consults the gameplay rate limiter, answering the requester with a
// retry-after hint on rejection.
func (gw *Gateway) allow(p *Player, kind string) bool {
	dec := gw.guard.Check(p.ID, kind)
	if dec.Allowed {
		return true
	}
	p.enqueue(encode(msgRateLimited, RateLimitedPayload{
		Action:       kind,
		RetryAfterMs: dec.RetryAfter.Milliseconds(),
	}))
	return false
}

func (gw *Gateway) handleCreateRoom(p *Player, data json.RawMessage) {
	var pl CreateRoomPayload
	if len(data) > 0 && json.Unmarshal(data, &pl) != nil {
		return
	}
	if _, inRoom := gw.registry.RoomOf(p.ID); inRoom {
		return
	}
	if pl.PlayerName != "" {
		p.Name = pl.PlayerName
	}
	p.Avatar = pl.Avatar

	room := gw.registry.CreateRoom(p)
	p.enqueue(encode(msgRoomCreated, RoomCreatedPayload{RoomCode: room.Code}))
	p.enqueue(encode(msgPlayerUpdate, RosterPayload{Players: room.Roster()}))
}

func (gw *Gateway) handleJoinRoom(p *Player, data json.RawMessage) {
	var pl JoinRoomPayload
	if json.Unmarshal(data, &pl) != nil {
		return
	}
	if _, inRoom := gw.registry.RoomOf(p.ID); inRoom {
		return
	}
	if pl.PlayerName != "" {
		p.Name = pl.PlayerName
	}
	p.Avatar = pl.Avatar

	room, err := gw.registry.JoinRoom(pl.RoomCode, p)
	if err != nil {
		// Business-rule failure: surfaced to the requester only.
		p.enqueue(encode(msgJoinRoom, JoinResultPayload{Success: false, Error: err.Error()}))
		return
	}
	p.enqueue(encode(msgJoinRoom, JoinResultPayload{Success: true, Players: room.Roster()}))
}
