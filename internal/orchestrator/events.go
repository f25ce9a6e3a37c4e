package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/prepmate/prepmate/internal/models"
)

// Event types pushed to the presentation layer.
const (
	EventState            = "state"
	EventCountdown        = "countdown"
	EventTurn             = "turn"
	EventTurnComplete     = "turn_complete"
	EventRecordingStarted = "recording_started"
	EventLevel            = "level"
	EventError            = "error"
)

// Event is the contract between the orchestrator and the presentation
// layer. Fields are populated per type; zero values are omitted.
type Event struct {
	Type        string       `json:"type"`
	InterviewID string       `json:"interview_id"`
	State       models.State `json:"state,omitempty"`
	Countdown   int          `json:"countdown,omitempty"`
	TurnIndex   int          `json:"turn_index,omitempty"`
	Question    string       `json:"question,omitempty"`
	AudioURL    string       `json:"audio_url,omitempty"`
	Transcript  string       `json:"transcript,omitempty"`
	Completion  int          `json:"completion,omitempty"`
	Level       float64      `json:"level,omitempty"`
	Speaking    bool         `json:"speaking,omitempty"`
	Message     string       `json:"message,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, interviewID string, ev Event) error
}

// EventChannel names the pub/sub channel carrying one session's events.
func EventChannel(interviewID string) string {
	return "interview:" + interviewID + ":events"
}

// RedisPublisher fans events out through pub/sub so any number of websocket
// connections can follow one session.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, interviewID string, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, EventChannel(interviewID), b).Err()
}

// NopPublisher drops events; used when no presentation channel is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
