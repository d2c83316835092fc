// cmd/payment-service/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/Tanmoy095/PaySynapse/internal/api"
	"github.com/Tanmoy095/PaySynapse/internal/payment"
	stripewebhook "github.com/Tanmoy095/PaySynapse/internal/payment/webhook/stripe"
	"github.com/Tanmoy095/PaySynapse/internal/process"
	"github.com/Tanmoy095/PaySynapse/internal/store/postgres"
	"github.com/Tanmoy095/PaySynapse/shared/config"
	pkgkafka "github.com/Tanmoy095/PaySynapse/shared/kafka"
	pkgrabbit "github.com/Tanmoy095/PaySynapse/shared/rabbitmq"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load common configuration
	cfg := config.LoadServiceConfig()

	if cfg.STRIPE_SECRET_KEY == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}

	// Connect to PostgreSQL for the payment attempt ledger
	db, err := sql.Open("postgres", cfg.GetDBURL())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}
	attempts := postgres.NewPaymentAttemptStore(db)

	// Per-form payment settings
	if cfg.FORM_SETTINGS_PATH == "" {
		log.Fatal("FORM_SETTINGS_PATH is required")
	}
	catalog, err := process.LoadSettingsCatalog(cfg.FORM_SETTINGS_PATH)
	if err != nil {
		log.Fatalf("failed to load form settings: %v", err)
	}

	// Kafka producer for payment lifecycle events. Optional: without a
	// broker the processor simply skips event publishing.
	var events pkgkafka.Publisher
	if cfg.KAFKA_BROKER != "" && cfg.KAFKA_TOPIC != "" {
		log.Printf("Connecting to Kafka at: %s, Topic: %s", cfg.KAFKA_BROKER, cfg.KAFKA_TOPIC)
		producer := pkgkafka.NewKafkaProducer(cfg.KAFKA_BROKER, cfg.KAFKA_TOPIC)
		defer producer.Close()
		events = producer
	}

	// RabbitMQ for receipt jobs. Also optional.
	var notifier process.Notifier
	if cfg.RABBITMQ_HOST != "" {
		log.Printf("Connecting to RabbitMQ at: %s", cfg.RABBITMQ_HOST)
		rabbitClient, err := pkgrabbit.NewClient(cfg.GetRabbitMQURL())
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer rabbitClient.Close()

		if err := rabbitClient.CreateQueue(process.ReceiptQueue); err != nil {
			log.Fatalf("failed to create receipt queue: %v", err)
		}
		notifier = process.NewQueueNotifier(rabbitClient)
	}

	gateway := payment.NewStripeGateway(cfg.STRIPE_SECRET_KEY)
	processor := process.NewProcessor(gateway, nil, attempts, events, notifier)
	webhooks := stripewebhook.New(cfg.STRIPE_WEBHOOK_SECRET)

	// Background sweep for attempts left stuck by crashes, lost webhooks,
	// or abandoned challenges.
	reconCtx, reconCancel := context.WithCancel(context.Background())
	defer reconCancel()
	go process.NewReconciler(processor).Start(reconCtx)

	mux := http.NewServeMux()
	api.NewHandler(processor, catalog, webhooks).Routes(mux)

	srv := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	// Serve until a shutdown signal arrives
	errCh := make(chan error, 1)
	go func() {
		log.Printf("payment service listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)

		// In-flight charges get a grace period; a gateway call abandoned
		// mid-flight is exactly the double-charge scenario we avoid.
		ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[WARN] graceful shutdown incomplete: %v", err)
		}
	}

	log.Println("payment service stopped")
}
