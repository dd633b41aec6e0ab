package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/backend"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/bridge"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/cart"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/catalog"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/checkout"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/events"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/httpapi"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	CheckoutURL     string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIBaseURL:      getEnv("API_BASE_URL", backend.DefaultBaseURL),
		CheckoutURL:     getEnv("CHECKOUT_UPSTREAM_URL", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "storefront"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := cart.EnsureIndexes(indexCtx, db); err != nil {
		log.Printf("failed to create cart indexes: %v", err)
	}
	indexCancel()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	catalogClient := catalog.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	orderClient := backend.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	store := cart.NewStore(cart.NewMongoRepository(db), cart.NewRedisCache(redisClient), catalogClient)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	orchestrator := checkout.NewOrchestrator(store, orderClient, publisher)

	checkoutURL := cfg.CheckoutURL
	if checkoutURL == "" {
		checkoutURL = cfg.APIBaseURL + "/api/checkout"
	}
	paymentBridge := bridge.New(bridge.Config{
		PayFastURL:  cfg.APIBaseURL + "/api/payfast/create",
		OzowURL:     cfg.APIBaseURL + "/api/ozow/create",
		CheckoutURL: checkoutURL,
	})

	router := httpapi.NewRouter(
		httpapi.NewCartHandler(store),
		httpapi.NewCheckoutHandler(orchestrator, orderClient),
		paymentBridge,
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // long enough for the payfast retry loop
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
