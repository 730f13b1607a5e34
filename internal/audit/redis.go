package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisLogKey = "audit:log"

// RedisStore keeps the audit trail in a Redis list, newest first. Filtering
// happens client-side after a range read, which is adequate for the
// security-dashboard volumes this core serves; maxRecords caps the list so
// the trail cannot grow without bound.
type RedisStore struct {
	client     redis.UniversalClient
	maxRecords int64
}

// NewRedisStore creates a RedisStore capped at maxRecords entries. The cap
// must be positive; Config.Validate enforces that before the store is
// wired.
func NewRedisStore(client redis.UniversalClient, maxRecords int64) *RedisStore {
	return &RedisStore{client: client, maxRecords: maxRecords}
}

// Create pushes the record to the head of the list and trims to the cap.
func (s *RedisStore) Create(ctx context.Context, record Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.client.LPush(ctx, redisLogKey, raw).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if s.maxRecords > 0 {
		if err := s.client.LTrim(ctx, redisLogKey, 0, s.maxRecords-1).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context) ([]Record, error) {
	raw, err := s.client.LRange(ctx, redisLogKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var r Record
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			// A corrupt entry is skipped rather than poisoning every read.
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// Find returns the newest-first page selected by filters.
func (s *RedisStore) Find(ctx context.Context, filters Filters) ([]Record, int, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	var matched []Record
	for _, r := range records {
		if filters.Matches(r) {
			matched = append(matched, r)
		}
	}

	total := len(matched)
	offset := filters.Offset
	if offset > total {
		offset = total
	}
	end := total
	if filters.Limit > 0 && offset+filters.Limit < end {
		end = offset + filters.Limit
	}
	return matched[offset:end], total, nil
}

// Count returns the number of matching records.
func (s *RedisStore) Count(ctx context.Context, filters Filters) (int, error) {
	records, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range records {
		if filters.Matches(r) {
			count++
		}
	}
	return count, nil
}

// DistinctIPs returns the distinct source IPs for the user since the
// given time.
func (s *RedisStore) DistinctIPs(ctx context.Context, userID string, action Action, result Result, since time.Time) ([]string, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var ips []string
	for _, r := range records {
		if r.UserID != userID || r.Action != action || r.IPAddress == "" {
			continue
		}
		if result != "" && r.Result != result {
			continue
		}
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		if _, ok := seen[r.IPAddress]; ok {
			continue
		}
		seen[r.IPAddress] = struct{}{}
		ips = append(ips, r.IPAddress)
	}
	return ips, nil
}
