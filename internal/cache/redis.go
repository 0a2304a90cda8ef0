package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/flightclaim/config"
	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/service/wizard"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds wizard drafts for the visitor session and a short-lived copy of each
// user's claim list.
type RedisCache struct {
	client    *redis.Client
	draftTTL  time.Duration
	claimsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, draftTTL, claimsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		draftTTL:  draftTTL,
		claimsTTL: claimsTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) SaveDraft(ctx context.Context, draft *wizard.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, draftKey(draft.ID), payload, c.draftTTL).Err()
}

func (c *RedisCache) GetDraft(ctx context.Context, id string) (*wizard.Draft, error) {
	data, err := c.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var draft wizard.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *RedisCache) DeleteDraft(ctx context.Context, id string) error {
	return c.client.Del(ctx, draftKey(id)).Err()
}

func (c *RedisCache) GetUserClaims(ctx context.Context, userID string) ([]domain.ClaimSummary, error) {
	data, err := c.client.Get(ctx, userClaimsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var claims []domain.ClaimSummary
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *RedisCache) SetUserClaims(ctx context.Context, userID string, claims []domain.ClaimSummary) error {
	payload, err := json.Marshal(claims)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userClaimsKey(userID), payload, c.claimsTTL).Err()
}

func (c *RedisCache) InvalidateUserClaims(ctx context.Context, userID string) error {
	return c.client.Del(ctx, userClaimsKey(userID)).Err()
}

func draftKey(id string) string {
	return "draft:" + id
}

func userClaimsKey(userID string) string {
	return "cache:claims:user:" + userID
}

var _ wizard.DraftStore = (*RedisCache)(nil)
