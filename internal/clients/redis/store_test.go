package redis

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

func TestStoreRoundTrip(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	s, err := NewStore(logger.NewNop(), Config{Addr: addr, Prefix: "test:" + uuid.NewString() + ":"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("Get: got=%q ok=%v err=%v", got, ok, err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestNewStoreRequiresAddr(t *testing.T) {
	if _, err := NewStore(logger.NewNop(), Config{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}
