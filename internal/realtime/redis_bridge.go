package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"metacircle/metasync/internal/logging"
)

const broadcastChannel = "metasync:broadcast"

// bridgeEnvelope wraps a frame with the publishing instance's id so an
// instance can ignore its own messages coming back off the channel.
type bridgeEnvelope struct {
	Source string          `json:"source"`
	Frame  json.RawMessage `json:"frame"`
}

// RedisBridge relays broadcast frames between process instances over a
// Redis pub/sub channel. It is the opt-in seam for running more than one
// instance behind a load balancer; a single process never needs it.
type RedisBridge struct {
	client     *redis.Client
	instanceID string
}

// NewRedisBridge connects to Redis and verifies the connection.
func NewRedisBridge(addr, password string) (*RedisBridge, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisBridge{
		client:     client,
		instanceID: uuid.NewString(),
	}, nil
}

func (b *RedisBridge) publish(payload []byte) {
	env, err := json.Marshal(bridgeEnvelope{Source: b.instanceID, Frame: payload})
	if err != nil {
		logging.Error("Failed to marshal bridge envelope", "error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := b.client.Publish(ctx, broadcastChannel, env).Err(); err != nil {
		// Best-effort, same as the local channel.
		logging.Warn("Failed to publish broadcast to redis", "error", err.Error())
	}
}

// listen subscribes to the channel and feeds peer frames to onFrame.
func (b *RedisBridge) listen(onFrame func(payload []byte)) {
	sub := b.client.Subscribe(context.Background(), broadcastChannel)

	go func() {
		for msg := range sub.Channel() {
			var env bridgeEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logging.Warn("Dropping malformed bridge message", "error", err.Error())
				continue
			}
			if env.Source == b.instanceID {
				continue
			}
			onFrame(env.Frame)
		}
	}()
}

// Close tears down the Redis connection.
func (b *RedisBridge) Close() error {
	return b.client.Close()
}
