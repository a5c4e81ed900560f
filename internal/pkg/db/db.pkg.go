package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	_logger "gorm.io/gorm/logger"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Driver   DriverEnum
}

type Database struct {
	*gorm.DB
	Config *Config
}

// DSN renders the driver-specific connection string.
func (cfg *Config) DSN() (string, error) {
	switch cfg.Driver {
	case POSTGRES:
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Database,
			cfg.Port,
			sslMode,
		), nil
	case MYSQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		), nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s (supported: postgres, mysql)", cfg.Driver)
	}
}

func Setup(cfg *Config) (*Database, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger: _logger.Default.LogMode(_logger.Silent),
	}

	var db *gorm.DB
	switch cfg.Driver {
	case POSTGRES:
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case MYSQL:
		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(5)

	return &Database{
		db,
		cfg,
	}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

func (db *Database) IsCloseConnection() bool {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return true
	}
	return sqlDB.Ping() != nil
}
