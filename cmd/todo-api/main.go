package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	gormio "gorm.io/gorm"

	_ "todo-api/configs"
	_ "todo-api/docs"
	"todo-api/internal/application/controller"
	"todo-api/internal/application/middleware"
	"todo-api/internal/application/schedule"
	cachegateway "todo-api/internal/domain/gateway/cache"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/usecase/health"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/internal/infra/aws"
	"todo-api/internal/infra/cache"
	"todo-api/internal/infra/database/gorm"
	"todo-api/internal/infra/database/sqlc"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"
	"todo-api/pkg/resource"
)

// @title Todo API
// @version 1.0
// @description Todo list REST API backed by PostgreSQL.
func main() {
	defer log.Sync()
	log.Info(msg.GetMessage("app.start"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init infra
	todoGateway, dbHealthGateway, closeDB := initDatabase(ctx)
	defer closeDB()

	redisClient := initRedis(ctx)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var queueSender queue.Sender
	var todoEvents queue.TodoEventGateway = queue.NoopTodoEventGateway{}
	queueName := resource.GetString("app.events.queue-name")
	if resource.GetBool("app.events.enabled") {
		awsConfig, err := aws.LoadConfig(ctx)
		if err != nil {
			log.Fatal(msg.GetMessage("app.error.aws-config", err))
		}
		queueSender = aws.NewSQSSenderAdapter(aws.NewSqsClient(awsConfig))
		todoEvents = queue.NewSQSTodoEventGateway(queueSender, queueName)
	}

	// Init UseCase
	todoUseCase := todo.NewTodoUseCase(todoGateway, todoEvents)
	healthUseCase := health.NewHealthUseCase(
		dbHealthGateway,
		cachegateway.NewRedisHealthGateway(redisClient),
		queue.NewQueueHealthGateway(queueSender, queueName),
	)

	// Init server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	middleware.SetupRequestLogger(e)
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: resource.GetStringSlice("app.server.cors-allow-origins"),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))

	if redisClient != nil && resource.GetBool("app.rate-limit.enabled") {
		limiter, err := cache.NewRateLimiter(redisClient)
		if err != nil {
			log.Fatal(err.Error())
		}
		e.Use(middleware.RateLimit(limiter, skipRateLimit))
	}

	api := e.Group(resource.GetString("app.server.context-path"))
	api.GET("/swagger/*", echoSwagger.WrapHandler)

	// Init Controller
	controller.NewRootController(api).InitRootRoutes()
	controller.NewHealthController(api, healthUseCase).InitHealthRoutes()
	controller.NewTodoController(api, todoUseCase).InitTodoRoutes()

	// Init Schedule
	if resource.GetBool("app.todo.stats.enabled") {
		statsScheduler := schedule.NewTodoStatsScheduler(todoUseCase, resource.GetString("app.todo.stats.cron"))
		if err := statsScheduler.InitTodoStatsScheduleTasks(); err != nil {
			log.Fatal(err.Error())
		}
		defer statsScheduler.Stop()
	}

	// Start Routes
	port := resource.GetString("app.server.port")
	go func() {
		log.Info(msg.GetMessage("app.started", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err.Error())
		}
	}()

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), resource.GetDuration("app.server.shutdown-timeout"))
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(msg.GetMessage("app.error.shutdown", err))
	}
	log.Info(msg.GetMessage("app.stopped"))
}

// initDatabase opens the pool selected by app.db.gateway (sql or gorm)
func initDatabase(ctx context.Context) (db.TodoGateway, db.HealthDBGateway, func()) {
	url := resource.GetString("app.db.url")
	fullSchema := resource.GetBool("app.db.provision-full-schema")
	pool := sqlc.PoolConfig{
		MaxOpenConns:    resource.GetInt("app.db.max-open-conns"),
		MaxIdleConns:    resource.GetInt("app.db.max-idle-conns"),
		ConnMaxLifetime: resource.GetDuration("app.db.conn-max-lifetime"),
	}

	if strings.EqualFold(resource.GetString("app.db.gateway"), "gorm") {
		gormDB, err := gorm.New(ctx, url, pool)
		if err != nil {
			log.Fatal(msg.GetMessage("app.error.db-connect", err))
		}
		return db.NewGormTodoGateway(gormDB, fullSchema), db.NewGormHealthDBGateway(gormDB), closeGorm(gormDB)
	}

	sqlDB, err := sqlc.New(ctx, url, pool)
	if err != nil {
		log.Fatal(msg.GetMessage("app.error.db-connect", err))
	}
	return db.NewSQLCTodoGateway(sqlDB, fullSchema), db.NewSQLCHealthDBGateway(sqlDB), closeSQL(sqlDB)
}

func closeSQL(sqlDB *sql.DB) func() {
	return func() { _ = sqlDB.Close() }
}

func closeGorm(gormDB *gormio.DB) func() {
	return func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// initRedis returns nil when redis is disabled
func initRedis(ctx context.Context) *redis.Client {
	if !resource.GetBool("app.redis.enabled") {
		return nil
	}

	client, err := cache.NewRedisClient(ctx)
	if err != nil {
		log.Fatal(msg.GetMessage("app.error.redis-connect", err), zap.Error(err))
	}
	return client
}

func skipRateLimit(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasSuffix(path, "/health") || strings.Contains(path, "/swagger/")
}
