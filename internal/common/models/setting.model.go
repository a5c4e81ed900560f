package models

import "time"

// SettingID is the primary key of the only settings row.
const SettingID uint = 1

// Setting holds the admin switches read before dispatch and by the
// maintenance guard. Exactly one row exists.
type Setting struct {
	ID               uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	TelegramDisabled bool      `json:"telegramDisabled" gorm:"not null;default:false"`
	WebDisabled      bool      `json:"webDisabled" gorm:"not null;default:false"`
	UpdatedAt        time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Setting) TableName() string {
	return "app_settings"
}

// DefaultSetting is returned when nothing has been stored yet.
func DefaultSetting() *Setting {
	return &Setting{ID: SettingID}
}
