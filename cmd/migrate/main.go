package main

import (
	config "refund-relay/configs"
	database "refund-relay/internal/pkg/db"
	"refund-relay/internal/pkg/logger"
)

func main() {
	logger.Setup()
	defer logger.Sync()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	if !env.SettingsStore.IsDatabase() {
		logger.Info.Printf("SETTINGS_STORE=%s has no schema, nothing to migrate", env.SettingsStore)
		return
	}

	// Setup Database
	db, err := setupDB(env)
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		return
	}

	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	err = db.RunMigrations()
	if err != nil {
		logger.Error.Println("Error running migrations", err)
		return
	}

	logger.Info.Println("Migrations completed successfully")
}

func setupDB(env *config.Config) (*database.Database, error) {
	return database.Setup(&database.Config{
		Host:     env.DBHost,
		Port:     env.DBPort,
		User:     env.DBUser,
		Password: env.DBPass,
		Database: env.DBName,
		SSLMode:  env.DBSSLMode,
		Driver:   database.DriverEnum(env.SettingsStore),
	})
}
