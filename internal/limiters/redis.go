package limiters

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rl:"

// RedisStore keeps rate-limit entries in Redis so multiple replicas share
// one view of an identifier's attempt budget. Entries expire on their own
// via TTL; Sweep is therefore a no-op, kept only to satisfy [Store].
//
// Read-modify-write cycles are serialized per process by the [Limiter];
// across replicas the last writer wins, which at worst grants an attacker
// a handful of extra attempts, never a premature block of a legitimate
// user.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. ttl bounds how long an untouched
// entry survives and should cover window plus block duration.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(identifier string) string {
	return redisKeyPrefix + identifier
}

// Get returns the entry for identifier. Redis errors degrade to "not
// tracked": rate limiting fails open when its backend is down, per the
// availability contract of the login path.
func (s *RedisStore) Get(identifier string) (Entry, bool) {
	raw, err := s.client.Get(context.Background(), redisKey(identifier)).Bytes()
	if err != nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false
	}
	return entry, true
}

// Set stores the entry for identifier with the configured TTL.
func (s *RedisStore) Set(identifier string, entry Entry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = s.client.Set(context.Background(), redisKey(identifier), raw, s.ttl).Err()
}

// Delete removes the entry for identifier.
func (s *RedisStore) Delete(identifier string) {
	_ = s.client.Del(context.Background(), redisKey(identifier)).Err()
}

// Sweep is a no-op: Redis TTLs expire entries server-side.
func (s *RedisStore) Sweep(time.Time) int {
	return 0
}
