package redis

import (
	"context"
	"errors"
	"time"

	"archetype-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PlayRegistry marks active play sessions with a Redis liveness key so that
// several service instances agree on one session per profile.
//   - The key expires after ttl, so a crashed instance never blocks a profile forever.
//   - Release only deletes the key when it still names the releasing session.
type PlayRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewPlayRegistry(client *redis.Client, ttl time.Duration) *PlayRegistry {
	return &PlayRegistry{client: client, ttl: ttl}
}

func (r *PlayRegistry) Acquire(ctx context.Context, profileID, sessionID string) error {
	ok, err := r.client.SetNX(ctx, r.key(profileID), sessionID, r.ttl).Result()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	current, err := r.client.Get(ctx, r.key(profileID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if current == sessionID {
		return r.client.Expire(ctx, r.key(profileID), r.ttl).Err()
	}
	return domain.ErrPlayInProgress
}

func (r *PlayRegistry) Release(ctx context.Context, profileID, sessionID string) {
	// best-effort; the TTL cleans up if this fails
	if err := releaseScript.Run(ctx, r.client, []string{r.key(profileID)}, sessionID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		zap.L().Warn("release play session", zap.String("profile", profileID), zap.Error(err))
	}
}

func (r *PlayRegistry) Active(ctx context.Context, profileID string) (string, bool) {
	sessionID, err := r.client.Get(ctx, r.key(profileID)).Result()
	if err != nil {
		return "", false
	}
	return sessionID, true
}

func (r *PlayRegistry) key(profileID string) string {
	return "play:session:" + profileID
}
