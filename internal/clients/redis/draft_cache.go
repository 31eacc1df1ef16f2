package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/coverbridge/intake-backend/internal/logger"
)

// DraftCache is the write-through store for in-progress form drafts.
// Autosave hits this on every edit; Postgres only sees the draft on
// explicit persist points, so a hot editing session stays cheap.
type DraftCache interface {
	Put(ctx context.Context, submissionID string, payload any) error
	Get(ctx context.Context, submissionID string, out any) (bool, error)
	Delete(ctx context.Context, submissionID string) error
	Close() error
}

type draftCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewDraftCache(log *logger.Logger) (DraftCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 24 * time.Hour
	if v := strings.TrimSpace(os.Getenv("DRAFT_TTL_HOURS")); v != "" {
		var hours int
		if _, err := fmt.Sscanf(v, "%d", &hours); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &draftCache{
		log: log.With("service", "RedisDraftCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func draftKey(submissionID string) string {
	return "intake:draft:" + submissionID
}

func (c *draftCache) Put(ctx context.Context, submissionID string, payload any) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("draft cache not initialized")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, draftKey(submissionID), raw, c.ttl).Err()
}

func (c *draftCache) Get(ctx context.Context, submissionID string, out any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, fmt.Errorf("draft cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, draftKey(submissionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *draftCache) Delete(ctx context.Context, submissionID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, draftKey(submissionID)).Err()
}

func (c *draftCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
