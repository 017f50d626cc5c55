package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/swap841/my-store/internal/cache"
	"github.com/swap841/my-store/internal/catalog"
	"github.com/swap841/my-store/internal/checkout"
	"github.com/swap841/my-store/internal/events"
	"github.com/swap841/my-store/internal/geo"
	h "github.com/swap841/my-store/internal/http"
	"github.com/swap841/my-store/internal/orders"
	"github.com/swap841/my-store/internal/poller"
	"github.com/swap841/my-store/internal/pricing"
	"github.com/swap841/my-store/internal/repository"
	"github.com/swap841/my-store/internal/service"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	CatalogDBPath   string
	KafkaBrokers    []string
	ZoneFallback    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storedb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "catalog.db"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ZoneFallback:    getEnv("ZONE_FALLBACK", "strict"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func loadOrdersCredentials() *orders.Credentials {
	port, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}
	return &orders.Credentials{
		Host:              getEnv("POSTGRES_HOST", "localhost"),
		Port:              port,
		User:              getEnv("POSTGRES_USER", "postgres"),
		Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:            getEnv("POSTGRES_DB", "ordersdb"),
		MigrationsDirPath: getEnv("ORDERS_MIGRATIONS_PATH", "migrations/orders"),
	}
}

func loadTierConfig() pricing.TierConfig {
	cfg := pricing.DefaultTierConfig()
	cfg.FreeDeliveryThreshold = getEnvFloat("FREE_DELIVERY_THRESHOLD", cfg.FreeDeliveryThreshold)
	cfg.BaseDeliveryFee = getEnvFloat("BASE_DELIVERY_FEE", cfg.BaseDeliveryFee)
	cfg.HandlingFee = getEnvFloat("HANDLING_FEE", cfg.HandlingFee)
	cfg.SmallCartFee = getEnvFloat("SMALL_CART_FEE", cfg.SmallCartFee)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return f
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Cart mirror (MongoDB)
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cartRepo := repository.NewMongoRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	// Cart cache (Redis behind a circuit breaker)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	cartCache := cache.NewBreakerCache(cache.NewRedisCache(redisClient))

	cartService := service.NewCartService(cartRepo, cartCache)

	// Product catalog (SQLite)
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(getEnv("CATALOG_MIGRATIONS_PATH", "migrations/catalog")); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Printf("Catalog ready at %s", cfg.CatalogDBPath)

	// Order store (PostgreSQL)
	ordersCreds := loadOrdersCredentials()
	ordersRepo, err := orders.NewRepository(ordersCreds)
	if err != nil {
		log.Fatalf("Failed to connect to orders database: %v", err)
	}
	defer ordersRepo.Close()
	if err := ordersRepo.RunMigrations(ordersCreds); err != nil {
		log.Fatalf("Failed to run orders migrations: %v", err)
	}
	log.Printf("Orders database ready at %s:%d", ordersCreds.Host, ordersCreds.Port)

	// Order events (Kafka)
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	cartClearPoller := poller.NewPoller(cartRepo, cartCache, cfg.KafkaBrokers...)
	defer cartClearPoller.Close()
	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	go cartClearPoller.Run(pollerCtx)

	// Zone resolution and pricing
	fallback, err := geo.ParseFallbackPolicy(cfg.ZoneFallback)
	if err != nil {
		log.Fatalf("invalid ZONE_FALLBACK: %v", err)
	}
	resolver := geo.NewResolver(geo.DefaultZones(), fallback)
	tiers := loadTierConfig()

	checkoutService := checkout.NewService(resolver, tiers, ordersRepo, publisher)

	// HTTP surface
	productHandler := h.NewProductHandler(catalogRepo, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartService, catalogRepo, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutService, cartService, cfg.RequestTimeout)
	ordersHandler := h.NewOrdersHandler(ordersRepo, cfg.RequestTimeout)

	router := h.NewRouter(productHandler, cartHandler, checkoutHandler, ordersHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	mongoDB.Client().Disconnect(ctx)
	log.Println("server exited")
}
