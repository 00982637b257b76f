// Package audit mirrors room events onto per-room Kafka topics when a broker
// is configured. The feed is observational only: every operation degrades to
// a no-op when the broker is absent or unreachable, and gameplay never waits
// on it.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Publisher opens and tears down per-room feeds. A nil Publisher is valid
// and disables auditing entirely.
type Publisher struct {
	broker string
}

// New returns nil when no broker is configured.
func New(broker string) *Publisher {
	if broker == "" {
		return nil
	}
	return &Publisher{broker: broker}
}

// Feed is one room's topic writer. A nil Feed drops all records.
type Feed struct {
	writer *kafka.Writer
	topic  string
}

// OpenRoomFeed creates the room's topic and a writer for it. Broker
// failures disable the feed for this room only.
func (p *Publisher) OpenRoomFeed(roomCode string) *Feed {
	if p == nil {
		return nil
	}

	// The dial creates the topic when the broker has auto-creation on.
	conn, err := kafka.DialLeader(context.Background(), "tcp", p.broker, roomCode, 0)
	if err != nil {
		log.Warn().Err(err).Str("room", roomCode).Msg("audit topic creation failed, feed disabled")
		return nil
	}
	conn.Close()

	return &Feed{
		topic: roomCode,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(p.broker),
			Topic:        roomCode,
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			BatchSize:    1,
		},
	}
}

// CloseRoomFeed closes the writer and deletes the room's topic.
func (p *Publisher) CloseRoomFeed(f *Feed) {
	if p == nil || f == nil {
		return
	}
	f.writer.Close()

	conn, err := kafka.Dial("tcp", p.broker)
	if err != nil {
		log.Warn().Err(err).Str("topic", f.topic).Msg("audit topic cleanup failed")
		return
	}
	defer conn.Close()
	conn.DeleteTopics(f.topic)
}

// Record appends one event to the room's topic.
func (f *Feed) Record(event string, fields map[string]any) {
	if f == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"event": event,
		"at":    time.Now().UnixMilli(),
		"data":  fields,
	})
	if err != nil {
		return
	}
	if err := f.writer.WriteMessages(context.Background(), kafka.Message{Value: payload}); err != nil {
		log.Warn().Err(err).Str("topic", f.topic).Msg("audit write failed")
	}
}
