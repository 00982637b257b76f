package game

import (
	"encoding/json"
	"math/rand"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/drawdash/drawdash-server/internal/scoring"
	"github.com/drawdash/drawdash-server/internal/words"
)

// Fraction of a word revealed in the masked rendering spectators get when
// someone guesses correctly.
const spectatorRevealFraction = 0.4

// StartGame moves the room from lobby to playing. Host only, and a round
// needs a drawer plus at least one guesser; anything else is a silent no-op
// since a well-behaved client never sends it.
func (r *Room) StartGame(playerID string, s Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateLobby || playerID != r.hostID || len(r.players) < 2 {
		return
	}

	r.settings = s.withDefaults()
	r.state = StatePlaying
	r.lastDrawerID = ""

	scores := make(map[string]int, len(r.players))
	for _, p := range r.players {
		scores[p.ID] = 0
	}

	log.Info().Str("room", r.Code).Int("rounds", r.settings.Rounds).
		Int("roundTime", r.settings.RoundTimeSeconds).Str("difficulty", r.settings.Difficulty).
		Msg("game started")
	r.feed.Record("gameStarted", map[string]any{"rounds": r.settings.Rounds})

	r.startRoundLocked(1, scores)
}

func (r *Room) startRoundLocked(roundNum int, scores map[string]int) {
	if len(r.players) < 2 {
		r.endGameLocked()
		return
	}

	drawer := r.pickDrawerLocked()
	word := r.pool.Pick(r.settings.Difficulty)

	r.round = &RoundState{
		CurrentRound:     roundNum,
		TotalRounds:      r.settings.Rounds,
		RoundTimeSeconds: r.settings.RoundTimeSeconds,
		SecondsRemaining: r.settings.RoundTimeSeconds,
		Word:             word,
		DrawerID:         drawer.ID,
		Guessed:          make(map[string]bool),
		Scores:           scores,
	}
	r.lastDrawerID = drawer.ID

	r.broadcastLocked(msgClearCanvas, nil)
	r.broadcastLocked(msgRoundStarted, RoundStartedPayload{
		Round:            roundNum,
		TotalRounds:      r.settings.Rounds,
		DrawerID:         drawer.ID,
		DrawerName:       drawer.Name,
		RoundTimeSeconds: r.settings.RoundTimeSeconds,
	})
	// Only the drawer ever sees the literal word.
	drawer.enqueue(encode(msgWordUpdate, WordUpdatePayload{Word: word}))
	r.broadcastRosterLocked()

	log.Info().Str("room", r.Code).Int("round", roundNum).Str("drawer", drawer.ID).Msg("round started")
	r.feed.Record("roundStarted", map[string]any{"round": roundNum, "drawer": drawer.ID})

	r.scheduleLocked(r.timing.TickInterval, r.tickLocked)
}

// pickDrawerLocked draws uniformly from the roster, excluding the previous
// round's drawer whenever there is a choice.
func (r *Room) pickDrawerLocked() *Player {
	candidates := r.players
	if r.lastDrawerID != "" && len(r.players) > 1 {
		filtered := make([]*Player, 0, len(r.players)-1)
		for _, p := range r.players {
			if p.ID != r.lastDrawerID {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}
	return candidates[rand.Intn(len(candidates))]
}

// tickLocked runs once per TickInterval while a round is live.
func (r *Room) tickLocked() {
	rs := r.round
	if r.state != StatePlaying || rs == nil {
		return
	}

	rs.SecondsRemaining--
	r.broadcastLocked(msgTimerUpdate, TimerUpdatePayload{SecondsRemaining: rs.SecondsRemaining})

	if rs.SecondsRemaining <= 0 {
		r.systemChatLocked("Time's up! The word was: " + rs.Word)
		r.endRoundLocked()
		return
	}

	elapsed := 1 - float64(rs.SecondsRemaining)/float64(rs.RoundTimeSeconds)
	if hint := hintFor(rs.Word, elapsed); hint != rs.LastHint {
		rs.LastHint = hint
		r.broadcastLocked(msgHint, HintPayload{Hint: hint})
	}

	r.scheduleLocked(r.timing.TickInterval, r.tickLocked)
}

// hintFor computes the progressive hint for the elapsed fraction of the
// round: nothing, then word length, then first letter, then first and last.
func hintFor(word string, elapsed float64) string {
	switch {
	case elapsed < 0.3:
		return ""
	case elapsed < 0.6:
		return words.Hint(word, false, false)
	case elapsed < 0.8:
		return words.Hint(word, true, false)
	default:
		return words.Hint(word, true, true)
	}
}

// SubmitGuess evaluates a guess against the round word. Drawer guesses and
// repeat correct guesses are no-ops; wrong guesses are ordinary room-visible
// traffic.
func (r *Room) SubmitGuess(p *Player, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs := r.round
	if r.state != StatePlaying || rs == nil {
		return
	}
	if cur, _ := r.playerLocked(p.ID); cur == nil {
		return
	}
	if p.ID == rs.DrawerID || rs.Guessed[p.ID] {
		return
	}

	guess := strings.TrimSpace(text)
	if !strings.EqualFold(guess, rs.Word) {
		r.broadcastLocked(msgGameMessage, GameMessagePayload{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Text:       guess,
			Correct:    false,
		})
		return
	}

	award := scoring.ForGuess(rs.SecondsRemaining, rs.RoundTimeSeconds)
	drawerCut := scoring.DrawerShare(award)
	rs.Scores[p.ID] += award
	rs.Scores[rs.DrawerID] += drawerCut
	rs.Guessed[p.ID] = true

	// The guesser gets the literal word back; everyone else a masked
	// rendering so the answer cannot be read off the event stream.
	p.enqueue(encode(msgCorrectGuess, CorrectGuessPayload{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Word:        rs.Word,
		Score:       award,
		DrawerScore: drawerCut,
	}))
	r.broadcastExceptLocked(p.ID, msgCorrectGuess, CorrectGuessPayload{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Word:        words.Mask(rs.Word, spectatorRevealFraction),
		Score:       award,
		DrawerScore: drawerCut,
	})
	r.systemChatLocked(p.Name + " guessed the word!")
	r.broadcastRosterLocked()

	log.Info().Str("room", r.Code).Str("player", p.ID).Int("score", award).Msg("correct guess")
	r.feed.Record("correctGuess", map[string]any{"player": p.ID, "score": award})

	if r.allGuessedLocked() {
		// Give the correctGuess broadcast a moment to land before the
		// round transitions.
		r.scheduleLocked(r.timing.AllGuessedGrace, r.endRoundLocked)
	}
}

func (r *Room) allGuessedLocked() bool {
	rs := r.round
	if rs == nil {
		return false
	}
	guessers := 0
	for _, p := range r.players {
		if p.ID == rs.DrawerID {
			continue
		}
		if !rs.Guessed[p.ID] {
			return false
		}
		guessers++
	}
	return guessers > 0
}

// endRoundLocked closes the current round exactly once and either schedules
// the next round or finishes the game.
func (r *Room) endRoundLocked() {
	rs := r.round
	if r.state != StatePlaying || rs == nil {
		return
	}

	r.cancelTimerLocked()
	r.pool.Release(rs.Word)
	r.round = nil

	if rs.CurrentRound >= rs.TotalRounds {
		r.state = StateEnded
		r.broadcastLocked(msgGameEnded, GameEndedPayload{
			Word:    rs.Word,
			Scores:  rs.Scores,
			Players: r.rosterLocked(),
		})
		log.Info().Str("room", r.Code).Msg("game ended")
		r.feed.Record("gameEnded", map[string]any{"scores": rs.Scores})
		return
	}

	r.broadcastLocked(msgRoundEnded, RoundEndedPayload{
		Round:  rs.CurrentRound,
		Word:   rs.Word,
		Scores: rs.Scores,
	})
	r.feed.Record("roundEnded", map[string]any{"round": rs.CurrentRound})

	next := rs.CurrentRound + 1
	scores := rs.Scores
	r.scheduleLocked(r.timing.InterRoundDelay, func() {
		if r.state != StatePlaying {
			return
		}
		r.startRoundLocked(next, scores)
	})
}

// endGameLocked finishes the game immediately, releasing any live round.
func (r *Room) endGameLocked() {
	r.cancelTimerLocked()

	var scores map[string]int
	word := ""
	if rs := r.round; rs != nil {
		r.pool.Release(rs.Word)
		scores = rs.Scores
		word = rs.Word
		r.round = nil
	}
	r.state = StateEnded

	r.broadcastLocked(msgGameEnded, GameEndedPayload{
		Word:    word,
		Scores:  scores,
		Players: r.rosterLocked(),
	})
	log.Info().Str("room", r.Code).Msg("game ended early")
	r.feed.Record("gameEnded", map[string]any{"scores": scores})
}

// PlayAgain returns an ended room to the lobby, keeping roster and host.
func (r *Room) PlayAgain(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateEnded || playerID != r.hostID {
		return
	}

	r.cancelTimerLocked()
	r.state = StateLobby
	r.round = nil
	r.lastDrawerID = ""

	r.broadcastLocked(msgLobbyRestarted, RosterPayload{Players: r.rosterLocked()})
	log.Info().Str("room", r.Code).Msg("lobby restarted")
	r.feed.Record("lobbyRestarted", nil)
}

// Drawing relays the current drawer's stroke data verbatim to everyone else.
func (r *Room) Drawing(p *Player, stroke json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs := r.round
	if r.state != StatePlaying || rs == nil || p.ID != rs.DrawerID {
		return
	}
	r.broadcastExceptLocked(p.ID, msgDrawing, stroke)
}

// ClearCanvas broadcasts a clear instruction. Drawer only.
func (r *Room) ClearCanvas(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs := r.round
	if r.state != StatePlaying || rs == nil || p.ID != rs.DrawerID {
		return
	}
	r.broadcastLocked(msgClearCanvas, nil)
}

// Chat broadcasts an ordinary chat line room-wide.
func (r *Room) Chat(p *Player, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, _ := r.playerLocked(p.ID); cur == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r.broadcastLocked(msgChatMessage, ChatMessagePayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Text:       text,
	})
}
