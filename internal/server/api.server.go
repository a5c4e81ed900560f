package serverApp

import (
	"fmt"
	"net/http"

	config "refund-relay/configs"
	refundHandler "refund-relay/internal/handler/refund"
	settingsHandler "refund-relay/internal/handler/settings"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/logger"
	"refund-relay/internal/pkg/metrics"
	"refund-relay/internal/pkg/middleware"
	"refund-relay/internal/pkg/notifier"
	"refund-relay/internal/pkg/telegram"
	"refund-relay/internal/pkg/wizard"
	"refund-relay/internal/repository"
	settingsRepo "refund-relay/internal/repository/settings"
	refundService "refund-relay/internal/service/refund"
	settingsService "refund-relay/internal/service/settings"

	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	healthy   = "healthy"
	unhealthy = "unhealthy"
	disabled  = "disabled"
)

// Setup initializes the HTTP server with middleware and routes and returns
// the refund service so background workers can reach its session store.
func Setup(engine *gin.Engine, payload *config.SetupServerDto) (refundService.IService, error) {
	InitMiddleware(engine)

	sink := metrics.Sink(metrics.NewNoopSink())
	if payload.Env.MetricsEnabled && payload.Registry != nil {
		sink = metrics.NewPrometheusSink(payload.Registry)
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(payload.Registry, promhttp.HandlerOpts{})))
	}

	// setup repo
	settings, err := settingsRepo.NewRepo(payload.Env.SettingsStore, payload.Rds, payload.Db)
	if err != nil {
		return nil, fmt.Errorf("setup settings store: %w", err)
	}
	rp := repository.IRepository{
		Settings: settings,
	}

	engine.GET("/health", healthHandler(payload, rp))

	e := engine.Group(BasePath())
	return InitRoutes(e, payload, rp, sink), nil
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

func InitRoutes(
	e *gin.RouterGroup,
	payload *config.SetupServerDto,
	rp repository.IRepository,
	sink metrics.Sink,
) refundService.IService {
	env := payload.Env
	ctx := payload.Ctx

	// === Settings ===
	SettingsService := settingsService.NewService(ctx, rp, env.AdminPassword)
	SettingsHandler := settingsHandler.NewHandler(ctx, SettingsService, middleware.AuthMiddleware())
	SettingsHandler.NewRoutes(e)

	// === Dispatcher ===
	dispatcher := NewDispatcher(env, payload.Pool, sink)

	if len(env.Targets) == 0 {
		logger.Warning.Println("No Telegram targets configured, submissions will report delivered without sending")
	}
	for _, t := range env.Targets {
		logger.Info.Printf("Dispatch target: %s", t.Masked())
	}

	deps := refundService.Dependencies{
		Settings:   SettingsService,
		Dispatcher: dispatcher,
		Targets:    env.Targets,
		Steps:      wizard.DefaultSteps(env.WizardRequireInstitution),
		SessionTTL: env.SessionTTL(),
		Metrics:    sink,
		Pool:       payload.Pool,
	}
	if payload.Publisher != nil {
		deps.Publisher = payload.Publisher
	}

	// === Refund ===
	RefundService := refundService.NewService(ctx, deps)
	guard := middleware.MaintenanceGuard(SettingsService.IsWebDisabled, sink)
	RefundHandler := refundHandler.NewHandler(ctx, RefundService, guard)
	RefundHandler.NewRoutes(e)

	return RefundService
}

// NewDispatcher builds the Telegram fan-out from env. pool may be nil.
func NewDispatcher(env *config.Config, pool *ants.Pool, sink metrics.Sink) *notifier.Dispatcher {
	client := telegram.NewClient(
		helper.NewHTTPClient(&helper.HTTPClientConfig{ProxyURL: env.TelegramProxyURL}),
		&telegram.Config{
			BaseURL:   env.TelegramAPIBaseURL,
			ParseMode: env.TelegramParseMode,
		},
	)
	return notifier.New(
		notifier.NewTelegramSender(client),
		notifier.WithPool(pool),
		notifier.WithTimeout(env.DispatchTimeout()),
		notifier.WithMetrics(sink),
	)
}

func healthHandler(payload *config.SetupServerDto, rp repository.IRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		databaseHealth := disabled
		redisHealth := disabled
		rabbitmqHealth := disabled

		if payload.Db != nil {
			databaseHealth = unhealthy
			if !payload.Db.IsCloseConnection() {
				databaseHealth = healthy
			}
		}
		if payload.Rds != nil {
			redisHealth = unhealthy
			if payload.Rds.Ping() == nil {
				redisHealth = healthy
			}
		}
		if payload.Rb != nil {
			rabbitmqHealth = unhealthy
			if !payload.Rb.IsClosed() {
				rabbitmqHealth = healthy
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  http.StatusOK,
			"targets": len(payload.Env.Targets),
			"service": gin.H{
				"settings": gin.H{
					"store": rp.Settings.Store().ToString(),
				},
				"rabbitmq": gin.H{
					"status": rabbitmqHealth,
				},
				"redis": gin.H{
					"status": redisHealth,
				},
				"database": gin.H{
					"status": databaseHealth,
				},
			},
		})
	}
}
