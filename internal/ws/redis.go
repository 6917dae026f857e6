package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/playpong/backend/internal/config"
	"github.com/playpong/backend/internal/game"
	"github.com/redis/go-redis/v9"
)

// stateTTL bounds how long the mirrored room state outlives the process.
const stateTTL = time.Hour

type mirrorJob struct {
	data      []byte
	saveState bool
}

// Mirror copies low-frequency room events to Redis: every event is
// published on the events channel and the latest full state is kept under
// the state key. Per-tick snapshots are not mirrored. Redis calls run on
// the mirror's own goroutine; a full queue drops events rather than
// stalling the room.
type Mirror struct {
	rdb   *redis.Client
	cfg   *config.Config
	queue chan mirrorJob
}

func NewMirror(rdb *redis.Client, cfg *config.Config) *Mirror {
	return &Mirror{
		rdb:   rdb,
		cfg:   cfg,
		queue: make(chan mirrorJob, 128),
	}
}

// Observe queues an already-encoded broadcast for mirroring.
func (m *Mirror) Observe(message interface{}, data []byte) {
	var job mirrorJob
	switch message.(type) {
	case game.TickMessage, *game.TickMessage:
		return
	case game.StateMessage, *game.StateMessage:
		job = mirrorJob{data: data, saveState: true}
	default:
		job = mirrorJob{data: data}
	}

	select {
	case m.queue <- job:
	default:
		log.Printf("[REDIS] mirror queue full, dropping event")
	}
}

// Run publishes queued events until ctx is done.
func (m *Mirror) Run(ctx context.Context) error {
	log.Printf("[REDIS] event mirror started (channel=%s key=%s)", m.cfg.RedisEventsChannel, m.cfg.RedisStateKey)
	for {
		select {
		case <-ctx.Done():
			log.Println("[REDIS] event mirror stopping")
			return nil
		case job := <-m.queue:
			if err := m.rdb.Publish(ctx, m.cfg.RedisEventsChannel, job.data).Err(); err != nil {
				log.Printf("[REDIS] publish failed: %v", err)
			}
			if job.saveState {
				if err := m.rdb.SetEx(ctx, m.cfg.RedisStateKey, job.data, stateTTL).Err(); err != nil {
					log.Printf("[REDIS] save state failed: %v", err)
				}
			}
		}
	}
}

// opsCommand is the payload accepted on the commands channel. A bare
// string payload is treated as the command text.
type opsCommand struct {
	Command string `json:"command"`
}

func parseOpsCommand(payload string) string {
	var cmd opsCommand
	if err := json.Unmarshal([]byte(payload), &cmd); err == nil && cmd.Command != "" {
		return strings.TrimSpace(cmd.Command)
	}
	return strings.TrimSpace(payload)
}

// StartCommandSubscriber subscribes to the commands channel and runs each
// command against the room until ctx is done.
func StartCommandSubscriber(ctx context.Context, rdb *redis.Client, cfg *config.Config, room *game.Room) error {
	if rdb == nil {
		log.Println("[REDIS] Redis client not set; command subscriber not started")
		return nil
	}

	pubsub := rdb.Subscribe(ctx, cfg.RedisCommandsChannel)
	defer pubsub.Close()

	log.Printf("[REDIS] %s subscriber started", cfg.RedisCommandsChannel)
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			text := parseOpsCommand(msg.Payload)
			log.Printf("[REDIS] ops command received: %q", text)
			if err := room.AdminCommand(text); err != nil {
				if errors.Is(err, game.ErrUnknownCommand) {
					log.Printf("[REDIS] ignoring ops payload: %v", err)
					continue
				}
				log.Printf("[REDIS] ops command failed: %v", err)
			}
		}
	}
}
