package enum

type SettingsStoreEnum string

const (
	MEMORY   SettingsStoreEnum = "memory"
	REDIS    SettingsStoreEnum = "redis"
	POSTGRES SettingsStoreEnum = "postgres"
	MYSQL    SettingsStoreEnum = "mysql"
)

func (e SettingsStoreEnum) ToString() string {
	switch e {
	case MEMORY:
		return "memory"
	case REDIS:
		return "redis"
	case POSTGRES:
		return "postgres"
	case MYSQL:
		return "mysql"
	}
	return ""
}

func (e SettingsStoreEnum) IsValid() bool {
	switch e {
	case MEMORY, REDIS, POSTGRES, MYSQL:
		return true
	}
	return false
}

// IsDatabase reports whether the store is backed by gorm.
func (e SettingsStoreEnum) IsDatabase() bool {
	return e == POSTGRES || e == MYSQL
}
