package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ohsj/linkple-backend/config"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// TypingTTL 입력 중 상태의 유효 시간
const TypingTTL = 3 * time.Second

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken adds a token to the blacklist (used on logout)
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	_, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetTyping marks a user as typing in a chat. The key expires on its own,
// so a client that stops polling simply ages out after TypingTTL.
func SetTyping(ctx context.Context, chatID, userID uint) error {
	key := fmt.Sprintf("chat:typing:%d:%d", chatID, userID)
	return client.Set(ctx, key, "1", TypingTTL).Err()
}

// ClearTyping removes a user's typing mark immediately (typing_stop)
func ClearTyping(ctx context.Context, chatID, userID uint) error {
	key := fmt.Sprintf("chat:typing:%d:%d", chatID, userID)
	return client.Del(ctx, key).Err()
}

// GetTypingUsers returns the IDs of users currently typing in a chat
func GetTypingUsers(ctx context.Context, chatID uint) ([]uint, error) {
	pattern := fmt.Sprintf("chat:typing:%d:*", chatID)
	keys, err := client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, err
	}

	var users []uint
	for _, key := range keys {
		var cid, uid uint
		if _, err := fmt.Sscanf(key, "chat:typing:%d:%d", &cid, &uid); err == nil {
			users = append(users, uid)
		}
	}
	return users, nil
}
