package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/example/ec-order-pipeline/internal/api"
	"github.com/example/ec-order-pipeline/internal/config"
	"github.com/example/ec-order-pipeline/internal/discovery"
	"github.com/example/ec-order-pipeline/internal/domain/cart"
	"github.com/example/ec-order-pipeline/internal/domain/order"
	"github.com/example/ec-order-pipeline/internal/infrastructure/kafka"
	"github.com/example/ec-order-pipeline/internal/infrastructure/store"
	"github.com/example/ec-order-pipeline/internal/publisher"
	"github.com/example/ec-order-pipeline/internal/userclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Failed to load configuration: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] EC Shop - Order Pipeline API")
	log.Println("[API] ========================================")
	log.Printf("[API] Kafka: %v", cfg.Brokers())
	log.Printf("[API] Topic: %s", cfg.OrderTopic)
	log.Printf("[API] Discovery: %s", cfg.DiscoveryMode)

	// PostgreSQL
	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		log.Fatalf("[API] Failed to run migrations: %v", err)
	}
	log.Println("[API] Connected to PostgreSQL")

	// Service discovery for the user service
	resolver, err := newResolver(cfg)
	if err != nil {
		log.Fatalf("[API] Failed to set up discovery: %v", err)
	}
	users := userclient.NewClient(resolver, cfg.UserLookupTimeout)

	// Kafka producer
	producer := kafka.NewProducer(cfg.Brokers(), cfg.OrderTopic)
	defer producer.Close()
	events := publisher.NewEventPublisher(producer, cfg.PublishTimeout)

	// Domain services
	cartStore := store.NewPostgresCartStore(db)
	orderStore := store.NewPostgresOrderStore(db)
	cartSvc := cart.NewService(cartStore, users)
	orderSvc := order.NewService(orderStore, cartSvc, users, events)

	router := api.NewRouter(api.NewHandlers(cartSvc, orderSvc))
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("[API] Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("[API] Server error: %v", err)
	}
}

// newResolver picks the discovery backend: a fixed address list, or the
// shared Redis registry the user service registers itself in.
func newResolver(cfg *config.Config) (discovery.Resolver, error) {
	switch cfg.DiscoveryMode {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return discovery.NewRedisResolver(client), nil
	case "static":
		return discovery.NewStaticResolver(map[string][]string{
			userclient.ServiceName: cfg.UserServiceInstances(),
		}), nil
	default:
		return nil, errors.New("unknown discovery mode: " + cfg.DiscoveryMode)
	}
}
