package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
)

// Ensure interface compliance:
var _ repository.SettingsRepository = (*SettingsCache)(nil)

const settingsCacheKey = "rolesync:settings"

// SettingsCache is a read-through decorator over the persistent settings
// repository. Saves write through and drop the cached copy so the next read
// repopulates it. Cache failures degrade to the inner repository.
type SettingsCache struct {
	inner repository.SettingsRepository
	cli   *Client
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewSettingsCache(inner repository.SettingsRepository, cli *Client, ttl time.Duration, logger *zerolog.Logger) *SettingsCache {
	l := logger.With().Str("component", "SettingsCache").Logger()
	return &SettingsCache{inner: inner, cli: cli, ttl: ttl, log: &l}
}

func (c *SettingsCache) Load(ctx context.Context) (*model.Settings, error) {
	raw, err := c.cli.Get(ctx, settingsCacheKey)
	if err == nil {
		var st model.Settings
		if jerr := json.Unmarshal([]byte(raw), &st); jerr == nil {
			return &st, nil
		}
		// corrupt cache entry: fall through to the store
		_ = c.cli.Del(ctx, settingsCacheKey)
	} else if err != redis.Nil {
		c.log.Warn().Err(err).Msg("settings cache read failed")
	}

	st, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	if raw, jerr := json.Marshal(st); jerr == nil {
		if serr := c.cli.Set(ctx, settingsCacheKey, raw, c.ttl); serr != nil {
			c.log.Warn().Err(serr).Msg("settings cache write failed")
		}
	}
	return st, nil
}

func (c *SettingsCache) Save(ctx context.Context, st *model.Settings) error {
	if err := c.inner.Save(ctx, st); err != nil {
		return err
	}
	if err := c.cli.Del(ctx, settingsCacheKey); err != nil {
		c.log.Warn().Err(err).Msg("settings cache invalidation failed")
	}
	return nil
}
