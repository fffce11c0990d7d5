package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Rooms are small and state is process-local; Redis is a best-effort mirror
// only (presence keys and an event feed for external consumers). Every
// helper is nil-safe so the service runs fully without it.

// NewRedis connects to Redis when a URL is configured. Returns nil when
// unconfigured or unreachable; callers treat a nil client as "disabled".
func NewRedis(redisURL string, logger *zap.Logger) *redis.Client {
	if redisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("Failed to parse REDIS_URL, continuing without Redis", zap.Error(err))
		return nil
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, continuing without it", zap.Error(err))
		return nil
	}

	logger.Info("Redis connected")
	return client
}

// PublishRoomEvent mirrors a room broadcast onto a Redis channel so that
// out-of-process consumers can follow along. Best effort.
func PublishRoomEvent(client *redis.Client, roomCode string, payload []byte) error {
	if client == nil {
		return nil
	}
	channel := fmt.Sprintf("room:%s", roomCode)
	return client.Publish(context.Background(), channel, payload).Err()
}

// SetParticipantOnline records a live channel for a room participant
func SetParticipantOnline(client *redis.Client, roomCode, userID string) error {
	if client == nil {
		return nil
	}
	key := fmt.Sprintf("presence:%s:%s", roomCode, userID)
	return client.Set(context.Background(), key, "ONLINE", 24*time.Hour).Err()
}

// SetParticipantOffline clears a participant's presence key
func SetParticipantOffline(client *redis.Client, roomCode, userID string) error {
	if client == nil {
		return nil
	}
	key := fmt.Sprintf("presence:%s:%s", roomCode, userID)
	return client.Del(context.Background(), key).Err()
}
