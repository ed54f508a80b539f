package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/example/ec-order-pipeline/internal/config"
	"github.com/example/ec-order-pipeline/internal/discovery"
	"github.com/example/ec-order-pipeline/internal/email"
	"github.com/example/ec-order-pipeline/internal/infrastructure/kafka"
	"github.com/example/ec-order-pipeline/internal/invoice"
	"github.com/example/ec-order-pipeline/internal/notification"
	"github.com/example/ec-order-pipeline/internal/sms"
	"github.com/example/ec-order-pipeline/internal/userclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Notifier] Failed to load configuration: %v", err)
	}

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] EC Shop - Notification Service")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", cfg.Brokers())
	log.Printf("[Notifier] Topic: %s", cfg.OrderTopic)
	log.Printf("[Notifier] Group: %s", cfg.NotifierGroup)
	log.Printf("[Notifier] SMTP: %s:%s", cfg.SMTPHost, cfg.SMTPPort)

	resolver, err := newResolver(cfg)
	if err != nil {
		log.Fatalf("[Notifier] Failed to set up discovery: %v", err)
	}
	users := userclient.NewClient(resolver, cfg.UserLookupTimeout)

	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	smsSvc := sms.NewService(nil)
	invoiceSvc := invoice.NewService()
	handler := notification.NewHandler(users, emailSvc, smsSvc, invoiceSvc)

	consumer := kafka.NewConsumer(cfg.Brokers(), cfg.OrderTopic, cfg.NotifierGroup)
	defer consumer.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("[Notifier] Starting event consumer...")
		err := consumer.Consume(ctx, handler.HandleMessage)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("[Notifier] Consumer error: %v", err)
	}
	log.Println("[Notifier] Shut down")
}

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
