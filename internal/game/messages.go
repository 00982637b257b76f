package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Inbound message types.
const (
	msgCreateRoom      = "createRoom"
	msgJoinRoom        = "joinRoom"
	msgUpdateAvatar    = "updateAvatar"
	msgStartGame       = "startGame"
	msgDrawing         = "drawing"
	msgClearCanvas     = "clearCanvas"
	msgSubmitGuess     = "submitGuess"
	msgSendChatMessage = "sendChatMessage"
	msgPlayAgain       = "playAgain"
)

// Outbound message types.
const (
	msgConnected      = "connected"
	msgRoomCreated    = "roomCreated"
	msgPlayerUpdate   = "playerUpdate"
	msgRoundStarted   = "roundStarted"
	msgWordUpdate     = "wordUpdate"
	msgHint           = "hint"
	msgTimerUpdate    = "timerUpdate"
	msgCorrectGuess   = "correctGuess"
	msgGameMessage    = "gameMessage"
	msgChatMessage    = "chatMessage"
	msgRoundEnded     = "roundEnded"
	msgGameEnded      = "gameEnded"
	msgNewHost        = "newHost"
	msgLobbyRestarted = "lobbyRestarted"
	msgRateLimited    = "rateLimited"
)

// Envelope is the wire framing for every message in both directions.
// Payloads are decoded into the typed structs below; anything malformed is
// dropped rather than guessed at.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func encode(typ string, data any) []byte {
	raw, err := json.Marshal(outEnvelope{Type: typ, Data: data})
	if err != nil {
		log.Error().Err(err).Str("type", typ).Msg("failed to marshal outbound message")
		return nil
	}
	return raw
}

// --- inbound payloads ---

type CreateRoomPayload struct {
	PlayerName string          `json:"playerName"`
	Avatar     json.RawMessage `json:"avatar,omitempty"`
}

type JoinRoomPayload struct {
	RoomCode   string          `json:"roomCode"`
	PlayerName string          `json:"playerName"`
	Avatar     json.RawMessage `json:"avatar,omitempty"`
}

type UpdateAvatarPayload struct {
	Avatar json.RawMessage `json:"avatar"`
}

type StartGamePayload struct {
	Rounds           int    `json:"rounds"`
	RoundTimeSeconds int    `json:"roundTimeSeconds"`
	Difficulty       string `json:"difficulty"`
}

type GuessPayload struct {
	Text string `json:"text"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

// --- outbound payloads ---

type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
}

type JoinResultPayload struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Players []PlayerInfo `json:"players,omitempty"`
}

// PlayerInfo is the roster entry carried by playerUpdate and friends.
type PlayerInfo struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	IsHost    bool            `json:"isHost"`
	Avatar    json.RawMessage `json:"avatar,omitempty"`
	Score     int             `json:"score"`
	IsDrawing bool            `json:"isDrawing"`
}

type RosterPayload struct {
	Players []PlayerInfo `json:"players"`
}

type RoundStartedPayload struct {
	Round            int    `json:"round"`
	TotalRounds      int    `json:"totalRounds"`
	DrawerID         string `json:"drawerId"`
	DrawerName       string `json:"drawerName"`
	RoundTimeSeconds int    `json:"roundTimeSeconds"`
}

type WordUpdatePayload struct {
	Word string `json:"word"`
}

type HintPayload struct {
	Hint string `json:"hint"`
}

type TimerUpdatePayload struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

type CorrectGuessPayload struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	Word        string `json:"word"`
	Score       int    `json:"score"`
	DrawerScore int    `json:"drawerScore"`
}

type GameMessagePayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	Correct    bool   `json:"correct"`
}

type ChatMessagePayload struct {
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	System     bool   `json:"system,omitempty"`
}

type RoundEndedPayload struct {
	Round  int            `json:"round"`
	Word   string         `json:"word"`
	Scores map[string]int `json:"scores"`
}

type GameEndedPayload struct {
	Word    string         `json:"word,omitempty"`
	Scores  map[string]int `json:"scores"`
	Players []PlayerInfo   `json:"players"`
}

type NewHostPayload struct {
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

type RateLimitedPayload struct {
	Action       string `json:"action"`
	RetryAfterMs int64  `json:"retryAfterMs"`
}
