package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/events"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	db        *sql.DB
	redis     *redis.Client
	publisher *events.AMQPPublisher
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Domain events are logged and, when a broker is configured, published
	bus := events.NewBus()
	bus.SubscribeAll(events.LogHandler(logger))
	if cfg.RabbitMQ.URL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, fmt.Errorf("failed to connect event publisher: %w", err)
		}
		s.publisher = publisher
		bus.SubscribeAll(publisher.Handle)
		logger.Info("Publishing domain events", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, bus,
		repository.ActorFunc(custommiddleware.ActorOrDefault(cfg.Audit.DefaultActor)), logger)

	productService := service.NewProductService(func() service.UnitOfWork { return uowFactory.New() }, logger)

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		dbHealth := database.Health(r.Context(), db)
		if dbHealth["status"] != "up" {
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "degraded",
				"database": dbHealth,
			})
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"database": dbHealth,
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.ActorMiddleware(cfg.JWT.Secret, logger))

		if cfg.Redis.Enabled {
			s.redis = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			r.Use(custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "catalog:ratelimit",
			}, logger))
		}

		transport.NewProductHandler(productService, logger).RegisterRoutes(r)
		transport.NewCategoryHandler(logger).RegisterRoutes(r)
	})

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

// CheckRedis pings the rate limiter store when it is enabled.
func (s *Server) CheckRedis(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.redis.Ping(ctx).Err()
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.publisher != nil {
		s.publisher.Close()
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
