package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	config "refund-relay/configs"
	"refund-relay/internal/common/enum"
	types "refund-relay/internal/common/type"
	database "refund-relay/internal/pkg/db"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/logger"
	"refund-relay/internal/pkg/redis"
	"refund-relay/internal/repository"
	settingsRepo "refund-relay/internal/repository/settings"
	settingsService "refund-relay/internal/service/settings"
)

type commandContext struct {
	jsonOutput bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		logger.Setup()
		c.config, c.configErr = config.GetEnv()
	})
	return c.config, c.configErr
}

// withSettings opens the configured settings store for the duration of fn.
func (c *commandContext) withSettings(ctx context.Context, fn func(settingsService.IService) error) error {
	env, err := c.ensureConfig()
	if err != nil {
		return err
	}

	var rds redis.IRedis
	if env.SettingsStore == enum.REDIS {
		client, err := redis.Setup(ctx, &redis.Config{
			Host:     env.RedisHost,
			Username: env.RedisUser,
			Port:     env.RedisPort,
			Password: env.RedisPass,
			PoolSize: env.RedisPoolSize,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		rds = client
	}

	var db *database.Database
	if env.SettingsStore.IsDatabase() {
		db, err = database.Setup(&database.Config{
			Host:     env.DBHost,
			Port:     env.DBPort,
			User:     env.DBUser,
			Password: env.DBPass,
			Database: env.DBName,
			SSLMode:  env.DBSSLMode,
			Driver:   database.DriverEnum(env.SettingsStore),
		})
		if err != nil {
			return err
		}
		defer db.Close()
	}

	store, err := settingsRepo.NewRepo(env.SettingsStore, rds, db)
	if err != nil {
		return err
	}

	return fn(settingsService.NewService(ctx, repository.IRepository{Settings: store}, env.AdminPassword))
}

// printResponse renders a service response and turns failures into an error.
func (c *commandContext) printResponse(w io.Writer, res *types.Response) error {
	res = helper.ParseResponse(res)
	if c.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(helper.ToResponseAPI(res)); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, res.Message)
	}
	if res.Code >= 400 {
		if res.Error != nil {
			return res.Error
		}
		return fmt.Errorf("%s (status %d)", res.Message, res.Code)
	}
	return nil
}
