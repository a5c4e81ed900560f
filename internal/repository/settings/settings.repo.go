package settings

import (
	"context"
	"fmt"

	"refund-relay/internal/common/enum"
	"refund-relay/internal/common/models"
	database "refund-relay/internal/pkg/db"
	"refund-relay/internal/pkg/redis"
)

// IRepository stores the single settings record.
type IRepository interface {
	Get(ctx context.Context) (*models.Setting, error)
	Save(ctx context.Context, setting *models.Setting) error
	Store() enum.SettingsStoreEnum
}

// NewRepo picks the backend named by store. The matching connection must be
// non-nil.
func NewRepo(store enum.SettingsStoreEnum, rds redis.IRedis, db *database.Database) (IRepository, error) {
	switch {
	case store == enum.MEMORY || store == "":
		return NewMemoryRepo(), nil
	case store == enum.REDIS:
		if rds == nil {
			return nil, fmt.Errorf("settings store %s: redis is not connected", store)
		}
		return NewRedisRepo(rds), nil
	case store.IsDatabase():
		if db == nil {
			return nil, fmt.Errorf("settings store %s: database is not connected", store)
		}
		return NewGormRepo(db, store), nil
	}
	return nil, fmt.Errorf("unknown settings store %q", store)
}
