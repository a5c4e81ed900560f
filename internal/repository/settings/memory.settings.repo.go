package settings

import (
	"context"
	"sync"

	"refund-relay/internal/common/enum"
	"refund-relay/internal/common/models"
	"refund-relay/internal/pkg/helper"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	setting models.Setting
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{setting: *models.DefaultSetting()}
}

func (r *MemoryRepo) Get(_ context.Context) (*models.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.setting
	return &out, nil
}

func (r *MemoryRepo) Save(_ context.Context, setting *models.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setting = *setting
	r.setting.ID = models.SettingID
	r.setting.UpdatedAt = helper.TimeRightNow()
	return nil
}

func (r *MemoryRepo) Store() enum.SettingsStoreEnum {
	return enum.MEMORY
}
