package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "refund-relay/configs"
	"refund-relay/internal/common/enum"
	database "refund-relay/internal/pkg/db"
	"refund-relay/internal/pkg/logger"
	"refund-relay/internal/pkg/rabbitmq"
	"refund-relay/internal/pkg/redis"
	"refund-relay/internal/pkg/validation"
	serverApp "refund-relay/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// @title           Refund Relay API
// @version         1.0
// @description     Refund request wizard and Telegram fan-out relay

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// @BasePath        /api
func main() {
	logger.Setup()
	defer logger.Sync()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	payload := &config.SetupServerDto{
		Ctx: ctx,
		Env: env,
	}
	defer closeAll(payload)

	// Setup Redis
	if env.SettingsStore == enum.REDIS {
		redisClient, err := setupRedis(ctx, env)
		if err != nil {
			logger.Error.Println("Error setting up Redis", err)
			return
		}
		payload.Rds = redisClient
	}

	// Setup Database
	if env.SettingsStore.IsDatabase() {
		db, err := setupDB(env)
		if err != nil {
			logger.Error.Println("Error setting up Database", err)
			return
		}
		payload.Db = db
	}

	// Setup RabbitMQ (optional, audit events only)
	if env.RabbitEnabled {
		rabbit, err := setupRabbitMQ(ctx, env)
		if err != nil {
			logger.Warning.Println("RabbitMQ unavailable, audit events disabled:", err)
		} else {
			payload.Rb = rabbit
			payload.Publisher = rabbitmq.NewPublisher(rabbit, env.RabbitAuditQueue, rabbitmq.DefaultQueueConfig())
			logger.Info.Printf("Audit events published to queue %s", payload.Publisher.Queue())
		}
	}

	pool, err := serverApp.NewPool(env.WorkerPoolSize)
	if err != nil {
		logger.Error.Println("Error setting up worker pool", err)
		return
	}
	defer pool.Release()
	payload.Pool = pool

	payload.Registry = prometheus.NewRegistry()
	payload.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := setupServer(payload); err != nil {
		logger.Error.Println("Server error:", err)
	}
}

func setupRedis(ctx context.Context, env *config.Config) (*redis.Client, error) {
	return redis.Setup(ctx, &redis.Config{
		Host:     env.RedisHost,
		Username: env.RedisUser,
		Port:     env.RedisPort,
		Password: env.RedisPass,
		PoolSize: env.RedisPoolSize,
	})
}

func setupRabbitMQ(ctx context.Context, env *config.Config) (*rabbitmq.ConnectionManager, error) {
	return rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: env.RabbitUser,
		Password: env.RabbitPass,
		Host:     env.RabbitHost,
		Port:     env.RabbitPort,
	})
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

func setupServer(payload *config.SetupServerDto) error {
	env := payload.Env

	if err := validation.Setup(); err != nil {
		return fmt.Errorf("setup validation: %w", err)
	}

	if env.AppEnv == enum.PRODUCTION {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(gin.Recovery())

	refund, err := serverApp.Setup(e, payload)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", env.AppPort),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(payload.Ctx)

	g.Go(func() error {
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return serverApp.InitWorker(gctx, payload.Pool, refund)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.HTTP.Println("========= Server Shutting Down =========")
		// in-flight submissions get one dispatch timeout to settle
		shutdownCtx, cancel := context.WithTimeout(context.Background(), env.DispatchTimeout()+5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func closeAll(payload *config.SetupServerDto) {
	if payload.Publisher != nil {
		_ = payload.Publisher.Close()
	}
	if payload.Rb != nil {
		_ = payload.Rb.Close()
	}
	if payload.Rds != nil {
		_ = payload.Rds.Close()
	}
	if payload.Db != nil {
		_ = payload.Db.Close()
	}
}
