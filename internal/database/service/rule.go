package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	ruleCacheKeyPrefix = "rule:"

	// ruleCacheMissSentinel marks event types with no active rule so unknown
	// events stay cheap.
	ruleCacheMissSentinel = "none"

	// ruleCacheMissTTL bounds how long a cached miss survives so newly
	// activated rules take effect quickly.
	ruleCacheMissTTL = 30 * time.Second
)

// RuleCache caches active rules in Redis keyed by event type.
type RuleCache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRuleCache creates a new rule cache.
func NewRuleCache(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *RuleCache {
	return &RuleCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("rule_cache"),
	}
}

// Get retrieves a cached rule. The second return value reports whether the
// cache held an answer at all; a true with a nil rule is a cached miss.
func (c *RuleCache) Get(ctx context.Context, eventType string) (*types.ReputationRule, bool, error) {
	key := ruleCacheKeyPrefix + eventType

	data, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to read rule cache: %w", err)
	}

	if string(data) == ruleCacheMissSentinel {
		return nil, true, nil
	}

	rule := new(types.ReputationRule)
	if err := sonic.Unmarshal(data, rule); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached rule: %w", err)
	}

	return rule, true, nil
}

// Set stores a rule lookup result. A nil rule caches the miss with a shorter
// TTL.
func (c *RuleCache) Set(ctx context.Context, eventType string, rule *types.ReputationRule) error {
	key := ruleCacheKeyPrefix + eventType

	value := ruleCacheMissSentinel
	ttl := ruleCacheMissTTL

	if rule != nil {
		data, err := sonic.Marshal(rule)
		if err != nil {
			return fmt.Errorf("failed to marshal rule: %w", err)
		}

		value = string(data)
		ttl = c.ttl
	}

	err := c.client.Do(ctx, c.client.B().Set().Key(key).Value(value).Ex(ttl).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to write rule cache: %w", err)
	}

	return nil
}

// Invalidate drops a cached rule after an admin change.
func (c *RuleCache) Invalidate(ctx context.Context, eventType string) error {
	key := ruleCacheKeyPrefix + eventType

	err := c.client.Do(ctx, c.client.B().Del().Key(key).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to invalidate rule cache: %w", err)
	}

	return nil
}

// RuleService handles rule lookup and administration.
type RuleService struct {
	model  *models.RuleModel
	cache  *RuleCache
	logger *zap.Logger
}

// NewRule creates a new rule service.
func NewRule(model *models.RuleModel, cache *RuleCache, logger *zap.Logger) *RuleService {
	return &RuleService{
		model:  model,
		cache:  cache,
		logger: logger.Named("rule_service"),
	}
}

// ActiveRule returns the active rule for an event type, or nil when none is
// active. Cache failures fall through to the database.
func (s *RuleService) ActiveRule(ctx context.Context, eventType string) (*types.ReputationRule, error) {
	if s.cache != nil {
		rule, cached, err := s.cache.Get(ctx, eventType)
		if err != nil {
			s.logger.Warn("Rule cache read failed",
				zap.String("eventType", eventType),
				zap.Error(err))
		} else if cached {
			return rule, nil
		}
	}

	rule, err := s.model.GetActiveRule(ctx, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rule: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, eventType, rule); err != nil {
			s.logger.Warn("Rule cache write failed",
				zap.String("eventType", eventType),
				zap.Error(err))
		}
	}

	return rule, nil
}

// UpsertRule stores a rule and invalidates its cache entry.
func (s *RuleService) UpsertRule(ctx context.Context, rule *types.ReputationRule) error {
	if err := s.model.UpsertRule(ctx, rule); err != nil {
		return err
	}

	s.invalidate(ctx, rule.EventType)

	return nil
}

// DeactivateRule deactivates a rule and invalidates its cache entry.
func (s *RuleService) DeactivateRule(ctx context.Context, eventType string) error {
	if err := s.model.DeactivateRule(ctx, eventType); err != nil {
		return err
	}

	s.invalidate(ctx, eventType)

	return nil
}

func (s *RuleService) invalidate(ctx context.Context, eventType string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, eventType); err != nil {
		s.logger.Warn("Rule cache invalidation failed",
			zap.String("eventType", eventType),
			zap.Error(err))
	}
}
