package settings

import (
	"context"
	"fmt"

	"refund-relay/internal/common/enum"
	"refund-relay/internal/common/models"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/redis"
)

const redisKey = "refund:settings"

type RedisRepo struct {
	redis redis.IRedis
}

func NewRedisRepo(rds redis.IRedis) *RedisRepo {
	return &RedisRepo{redis: rds}
}

// Get returns the defaults when the key has never been written.
func (r *RedisRepo) Get(_ context.Context) (*models.Setting, error) {
	raw, err := r.redis.Get(redisKey)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if raw == "" {
		return models.DefaultSetting(), nil
	}

	setting, err := helper.StringToStruct[models.Setting](raw)
	if err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if setting == nil {
		return models.DefaultSetting(), nil
	}
	setting.ID = models.SettingID
	return setting, nil
}

// Save writes the record as JSON without expiry.
func (r *RedisRepo) Save(_ context.Context, setting *models.Setting) error {
	setting.ID = models.SettingID
	setting.UpdatedAt = helper.TimeRightNow()

	if err := r.redis.Set(redisKey, setting, 0); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (r *RedisRepo) Store() enum.SettingsStoreEnum {
	return enum.REDIS
}
