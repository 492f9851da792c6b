package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	cloudinary_adapter "github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/cloudinary"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/i18n"
	token_adapter "github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/jwt"
	logger_adapter "github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/logger"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/memory"
	mongo_adapter "github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/mongo"
	postgres_adapter "github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/postgres"
	rabbitmq_adapter "github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/rabbitmq"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/records_client"
	redis_adapter "github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/redis"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/rest"
	s3media_adapter "github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/adapters/s3media"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/configs"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/constants"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contracts"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/usecase"
	fluentlogger "github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/fluent_logger"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/mongodb"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/postgres"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/rabbitmq/rabbitmq_common"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/rabbitmq/rabbitmq_producer"
	redisclient "github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/redis"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	dbPool      *pgxpool.Pool
	mongoClient *mongo.Client
	redisClient *goredis.Client

	memorySessions *memory.SessionStore

	connManager          *rabbitmq_common.ConnectionManager
	recordEventsProducer *rabbitmq_producer.Publisher
	listingCacheListener port.EventListenerPort

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// Loggers
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	a := &App{config: appConfig, fluentClient: fluentClient, logger: appLogger}
	if err := a.build(baseLogger); err != nil {
		a.closeResources()
		return nil, err
	}
	return a, nil
}

// build creates every adapter and use case. Resources opened before a failure
// are released by the caller.
func (a *App) build(baseLogger port.LoggerPort) error {
	cfg := a.config
	appLogger := a.logger
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Admin accounts
	dbPool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: cfg.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	userRepo, err := postgres_adapter.NewUserRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create user repository: %w", err)
	}
	if err := userRepo.Migrate(ctx); err != nil {
		appLogger.Error("Failed to migrate admin_users table", err, nil)
		return fmt.Errorf("failed to migrate user repository: %w", err)
	}

	// Records
	mongoClient, mongoDB, err := mongodb.NewClient(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		appLogger.Error("Failed to connect to MongoDB", err, nil)
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.mongoClient = mongoClient
	appLogger.Info("Successfully connected to MongoDB!", port.Fields{"database": cfg.Mongo.Database})

	recordRepo, err := mongo_adapter.NewRecordRepository(mongoDB)
	if err != nil {
		return fmt.Errorf("failed to create record repository: %w", err)
	}
	if err := recordRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Warn("Failed to ensure record indexes", port.Fields{"error": err.Error()})
	}

	// Sessions and listing cache
	var sessions port.SessionStorePort
	var listingCache port.ListingCachePort
	switch cfg.Session.Store {
	case "redis":
		redisClient, err := redisclient.NewClient(ctx, redisclient.Config{
			Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Error("Failed to connect to Redis", err, nil)
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.redisClient = redisClient

		redisSessions, err := redis_adapter.NewSessionStore(redisClient, cfg.Session.TTL)
		if err != nil {
			return fmt.Errorf("failed to create redis session store: %w", err)
		}
		redisCache, err := redis_adapter.NewListingCache(redisClient, cfg.Cache.ListingTTL)
		if err != nil {
			return fmt.Errorf("failed to create redis listing cache: %w", err)
		}
		sessions, listingCache = redisSessions, redisCache
	default:
		a.memorySessions = memory.NewSessionStore(cfg.Session.TTL, baseLogger.WithFields(port.Fields{"component": "memory_session_store"}))
		sessions, listingCache = a.memorySessions, memory.NewListingCache(cfg.Cache.ListingTTL)
	}
	appLogger.Info("Session store initialized.", port.Fields{"store": cfg.Session.Store})

	// Media
	var gateway port.UploadGatewayPort
	switch cfg.Media.Backend {
	case "s3":
		gateway, err = s3media_adapter.NewGateway(ctx, cfg.Media.S3.Bucket, cfg.Media.S3.Region)
	default:
		gateway, err = cloudinary_adapter.NewGateway(cloudinary_adapter.Config{
			CloudName: cfg.Media.Cloudinary.CloudName,
			APIKey:    cfg.Media.Cloudinary.APIKey,
			APISecret: cfg.Media.Cloudinary.APISecret,
			BaseURL:   cfg.Media.Cloudinary.BaseURL,
		})
	}
	if err != nil {
		appLogger.Error("Failed to create upload gateway", err, port.Fields{"backend": cfg.Media.Backend})
		return fmt.Errorf("failed to create upload gateway: %w", err)
	}

	batchPolicy, err := usecase.ParseBatchPolicy(cfg.Media.UploadBatchPolicy)
	if err != nil {
		return err
	}

	// Record events
	var recordEvents port.RecordEventPublisherPort
	if cfg.RabbitMQ.Enabled {
		events, err := a.buildRabbitMQ(baseLogger)
		if err != nil {
			return err
		}
		recordEvents = events
	}

	validator, err := contracts.NewRecordValidator()
	if err != nil {
		return fmt.Errorf("failed to compile record schemas: %w", err)
	}
	tokenService, err := token_adapter.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	catalog, err := i18n.NewCatalog()
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	recordsClient := records_client.NewClient(cfg.ApiClient.PersistenceAPIURL, cfg.ApiClient.Timeout)
	appLogger.Info("All outgoing adapters initialized.", nil)

	// Use cases
	uploader := usecase.NewImageBatchUploader(gateway, batchPolicy, cfg.Media.UploadParallelism)
	sessionUseCases := rest.SessionUseCases{
		StartCreate:         usecase.NewStartCreateSessionUseCase(sessions),
		StartEdit:           usecase.NewStartEditSessionUseCase(sessions, recordsClient),
		Get:                 usecase.NewGetSessionUseCase(sessions),
		Cancel:              usecase.NewCancelSessionUseCase(sessions),
		SetFields:           usecase.NewSetDraftFieldsUseCase(sessions),
		Navigate:            usecase.NewNavigateStepUseCase(sessions),
		UploadMainImage:     usecase.NewUploadMainImageUseCase(sessions, gateway),
		UploadGallery:       usecase.NewUploadGalleryImagesUseCase(sessions, uploader),
		RemoveGalleryImage:  usecase.NewRemoveGalleryImageUseCase(sessions),
		AddProperty:         usecase.NewAddPropertyUseCase(sessions),
		RemoveProperty:      usecase.NewRemovePropertyUseCase(sessions),
		UpdateProperty:      usecase.NewUpdatePropertyUseCase(sessions),
		UploadPropertyImage: usecase.NewUploadPropertyImagesUseCase(sessions, uploader),
		RemovePropertyImage: usecase.NewRemovePropertyImageUseCase(sessions),
		Submit:              usecase.NewSubmitDraftUseCase(sessions, recordsClient),
	}

	createRecordUC := usecase.NewCreateRecordUseCase(recordRepo, validator, listingCache, recordEvents)
	updateRecordUC := usecase.NewUpdateRecordUseCase(recordRepo, validator, listingCache, recordEvents)
	deleteRecordUC := usecase.NewDeleteRecordUseCase(recordRepo, listingCache, recordEvents)
	getRecordUC := usecase.NewGetRecordUseCase(recordRepo)
	listRecordsUC := usecase.NewListRecordsUseCase(recordRepo, listingCache)

	loginUC := usecase.NewLoginAdminUseCase(userRepo, tokenService, cfg.Auth.AccessTokenTTL)
	validateTokenUC := usecase.NewValidateTokenUseCase(tokenService)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := usecase.NewEnsureAdminUseCase(userRepo).Execute(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			appLogger.Error("Failed to bootstrap admin account", err, nil)
			return fmt.Errorf("failed to bootstrap admin account: %w", err)
		}
	}

	if a.connManager != nil {
		if err := a.buildListingCacheListener(baseLogger, usecase.NewInvalidateListingsUseCase(listingCache)); err != nil {
			return err
		}
	}
	appLogger.Info("All use cases initialized.", nil)

	// REST API
	handlers := rest.Handlers{
		Sessions: rest.NewSessionHandlers(sessionUseCases, catalog),
		Records:  rest.NewRecordHandlers(createRecordUC, updateRecordUC, deleteRecordUC, getRecordUC, listRecordsUC, catalog),
		Uploads:  rest.NewUploadHandlers(usecase.NewUploadMediaUseCase(gateway)),
		Auth: rest.NewAuthHandlers(loginUC, rest.CookieConfig{
			Name:   cfg.Auth.CookieName,
			TTL:    cfg.Auth.AccessTokenTTL,
			Secure: cfg.Auth.CookieSecure,
		}),
		Calendar: rest.NewCalendarHandlers(catalog),
	}
	authMiddleware := rest.NewAuthMiddleware(validateTokenUC, cfg.Auth.CookieName)
	router := rest.NewRouter(handlers, authMiddleware, cfg.Rest.CORSAllowedOrigins, baseLogger)
	a.apiServer = rest.NewServer(cfg.Rest.Port, router, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return nil
}

func (a *App) buildRabbitMQ(baseLogger port.LoggerPort) (port.RecordEventPublisherPort, error) {
	cfg := a.config.RabbitMQ

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: cfg.URL, ConnectionName: a.config.AppName}, connManagerBridge)
	if err != nil {
		a.logger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: cfg.URL},
		ExchangeName:             cfg.RecordEventsExchange,
		ExchangeType:             constants.RecordEventsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,

		Logger: rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		a.logger.Error("Failed to create record events producer", err, nil)
		return nil, fmt.Errorf("failed to create record events producer: %w", err)
	}
	a.recordEventsProducer = producer

	return rabbitmq_adapter.NewRecordEventsAdapter(producer)
}

// buildListingCacheListener gives every instance its own exclusive queue so
// that each one drops its cached listings.
func (a *App) buildListingCacheListener(baseLogger port.LoggerPort, invalidateUC *usecase.InvalidateListingsUseCase) error {
	cfg := a.config.RabbitMQ
	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: cfg.URL},
		ExclusiveQueue:         true,
		AutoDeleteQueue:        true,
		ExchangeNameForBind:    cfg.RecordEventsExchange,
		ExchangeTypeForBind:    constants.RecordEventsExchangeType,
		DeclareExchangeForBind: true,
		DurableExchangeForBind: true,
		RoutingKeysForBind:     []string{constants.RecordEventsBindingKey},
		PrefetchCount:          10,
		ConsumerTag:            constants.ListingCacheConsumerTag,
	}
	listener, err := rabbitmq_adapter.NewListingCacheConsumerAdapter(consumerCfg, invalidateUC, baseLogger, a.connManager)
	if err != nil {
		a.logger.Error("Failed to create listing cache listener", err, nil)
		return err
	}
	a.listingCacheListener = listener
	a.logger.Info("Listing cache listener initialized.", nil)
	return nil
}

// Run starts the server and background workers and blocks until a signal or a fatal error.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()

		a.closeResources()
		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)
	errorsCh := make(chan error, 2)

	if a.listingCacheListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Listing Cache Listener"})
			listenerLogger.Info("Starting listener...", nil)
			if err := a.listingCacheListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("listing cache listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	if a.memorySessions != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.memorySessions.RunJanitor(appCtx, time.Minute)
		}()
	}

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()
	return runErr
}

func (a *App) closeResources() {
	if a.listingCacheListener != nil {
		if err := a.listingCacheListener.Close(); err != nil {
			a.logger.Error("Error closing listing cache listener", err, nil)
		}
	}
	if a.recordEventsProducer != nil {
		if err := a.recordEventsProducer.Close(); err != nil {
			a.logger.Error("Error closing record events producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.logger.Error("Error disconnecting from MongoDB", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
