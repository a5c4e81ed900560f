package settings

import (
	"context"
	"errors"

	"refund-relay/internal/common/enum"
	"refund-relay/internal/common/models"
	database "refund-relay/internal/pkg/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepo struct {
	db    *database.Database
	store enum.SettingsStoreEnum
}

func NewGormRepo(db *database.Database, store enum.SettingsStoreEnum) *GormRepo {
	return &GormRepo{db: db, store: store}
}

func (r *GormRepo) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).First(&setting, models.SettingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSetting(), nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Save upserts the row so a missing seed is not an error.
func (r *GormRepo) Save(ctx context.Context, setting *models.Setting) error {
	setting.ID = models.SettingID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"telegram_disabled", "web_disabled", "updated_at"}),
		}).
		Create(setting).Error
}

func (r *GormRepo) Store() enum.SettingsStoreEnum {
	return r.store
}
