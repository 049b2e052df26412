package main

import (
	"context"
	"net/http"
	"os"

	"supportflow-backend/internal/application"
	"supportflow-backend/internal/config"
	apiinfra "supportflow-backend/internal/infrastructure/api"
	securitymiddleware "supportflow-backend/internal/infrastructure/middleware"
	"supportflow-backend/internal/infrastructure/repository"
	shopifyinfra "supportflow-backend/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	// Initialize infrastructure
	shopRepo := repository.NewMongoShopRepository(db)
	sessionStore := repository.NewRedisSessionStore(redisClient)
	platformClient := shopifyinfra.NewClient(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI(), cfg.HTTPTimeout, logger)
	verifier := shopifyinfra.NewCallbackVerifier(cfg.ClientSecret)

	// Initialize application services
	installService := application.NewInstallService(
		shopRepo,
		sessionStore,
		platformClient,
		verifier,
		logger,
		cfg.RedirectURI(),
		cfg.Scopes,
		cfg.SessionTTL,
	)
	orderService := application.NewOrderService(shopRepo, platformClient, logger)

	handler := apiinfra.NewHandler(installService, orderService, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// Public routes
	r.Get("/", handler.Landing)
	r.Get("/health", handler.Health)
	r.Post("/api/test", handler.EchoTest)
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// OAuth routes
	r.Get("/auth/install", handler.Install)
	r.Get("/auth/callback", handler.Callback)

	// Order lookup
	r.Post("/orders/lookup", handler.LookupOrder)

	logger.Info().Str("port", cfg.Port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
