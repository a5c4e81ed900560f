package repository

import (
	settingsRepo "refund-relay/internal/repository/settings"
)

// IRepository is a container for all repository interfaces
type IRepository struct {
	Settings settingsRepo.IRepository
}
