package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const rulesCacheKey = "scoring_rules:active"

// RuleReader lists the active scoring rules.
type RuleReader interface {
	ListActiveScoringRules(ctx context.Context) ([]models.ScoringRule, error)
}

// CachedRules is a Redis read-through cache in front of a RuleReader.
// Redis failures fall back to the underlying reader.
type CachedRules struct {
	next   RuleReader
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRules(next RuleReader, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedRules {
	return &CachedRules{next: next, redis: client, ttl: ttl, logger: log}
}

func (c *CachedRules) ListActiveScoringRules(ctx context.Context) ([]models.ScoringRule, error) {
	val, err := c.redis.Get(ctx, rulesCacheKey).Result()
	switch {
	case err == nil:
		var rules []models.ScoringRule
		if err := json.Unmarshal([]byte(val), &rules); err == nil {
			return rules, nil
		}
		c.logger.Warn("discarding unreadable rules cache entry", map[string]interface{}{"key": rulesCacheKey})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("rules cache read failed", map[string]interface{}{"error": err})
	}

	rules, err := c.next.ListActiveScoringRules(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rules)
	if err != nil {
		return rules, nil
	}
	if err := c.redis.Set(ctx, rulesCacheKey, string(data), c.ttl).Err(); err != nil {
		c.logger.Warn("rules cache write failed", map[string]interface{}{"error": err})
	}
	return rules, nil
}

// Invalidate drops the cached rule set.
func (c *CachedRules) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, rulesCacheKey).Err()
}
