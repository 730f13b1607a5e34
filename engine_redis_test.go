package securecore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisEngine(t *testing.T) *Engine {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine, err := New().
		WithMasterKey(testMasterKey).
		WithRedis(client).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func TestRedisBackedRateLimit(t *testing.T) {
	engine := newRedisEngine(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if result := engine.CheckRateLimit(ctx, "user@example.com"); !result.Allowed {
			t.Fatalf("attempt %d unexpectedly denied", i+1)
		}
	}
	if result := engine.CheckRateLimit(ctx, "user@example.com"); result.Allowed {
		t.Fatal("sixth attempt should be denied through redis store")
	}

	engine.ClearRateLimit("user@example.com")
	if result := engine.CheckRateLimit(ctx, "user@example.com"); !result.Allowed {
		t.Fatal("cleared identifier should be allowed again")
	}
}

func TestRedisBackedAuditTrail(t *testing.T) {
	engine := newRedisEngine(t)
	ctx := WithClientIP(context.Background(), "192.0.2.1")

	engine.CreateAuditLog(ctx, AuditEntry{
		UserID:   "u1",
		Action:   ActionUserLogin,
		Resource: "auth",
		Result:   ResultSuccess,
		NewData:  map[string]string{"token": "secret-token-value"},
	})

	page, err := engine.GetAuditLogs(ctx, AuditFilters{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 record, got %d", page.Total)
	}

	record := page.Records[0]
	if record.IPAddress != "192.0.2.1" {
		t.Fatalf("expected context IP persisted, got %q", record.IPAddress)
	}
	if record.NewData["token"] == "secret-token-value" {
		t.Fatal("sensitive value persisted unmasked through redis")
	}

	stats, err := engine.GetAuditStats(ctx, "")
	if err != nil {
		t.Fatalf("GetAuditStats failed: %v", err)
	}
	if stats.TotalLogs != 1 || stats.RecentLogins != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
