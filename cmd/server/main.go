package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	authApplication "github.com/rcarvalho-pb/payment_gateway-go/internal/application/auth"
	paymentApplication "github.com/rcarvalho-pb/payment_gateway-go/internal/application/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/config"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/eventbus"
	httpapi "github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/mercadopago"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/outbox"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/sqlite"
)

func main() {
	cfg := config.Load()
	logger := &logging.StdoutLogger{}

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := sqlite.RunMigrations(db); err != nil {
		log.Fatal(err)
	}

	registry := prometheus.NewRegistry()
	counters := metrics.NewCounters(registry)

	paymentRepo := sqlite.NewPaymentRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	outboxRepo := outbox.NewSQLiteRepository(db)

	processor := mercadopago.NewClient(cfg.MercadoPagoBaseURL, cfg.MercadoPagoAccessToken, cfg.ProcessorTimeout)

	paymentService := &paymentApplication.Service{
		Repo:      paymentRepo,
		Processor: processor,
		Recorder:  &outbox.Recorder{Repo: outboxRepo},
		Logger:    logger,
		Metrics:   counters,
	}

	authService := &authApplication.Service{
		Users:     userRepo,
		JWTSecret: []byte(cfg.JWTSecret),
		TokenTTL:  time.Hour,
		Logger:    logger,
	}

	var publisher paymentApplication.EventPublisher
	if cfg.KafkaBroker != "" {
		kafkaPublisher := eventbus.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		bus := eventbus.NewInMemoryBus()
		bus.Subscribe(event.PaymentStatusChanged, func(evt event.Event) error {
			logger.Info("payment status changed", map[string]any{"payload": evt.Payload})
			return nil
		})
		publisher = bus
	}

	dispatcher := &outbox.Dispatcher{
		Repo:         outboxRepo,
		EventBus:     publisher,
		PollInterval: time.Second,
		BatchSize:    100,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	paymentHandler := &httpapi.PaymentHandler{
		Service: paymentService,
		Logger:  logger,
	}

	authHandler := &httpapi.AuthHandler{
		Service:  authService,
		Sessions: sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		OAuth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthCallbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		FrontendOrigin: cfg.FrontendOrigin,
		Logger:         logger,
	}

	router := httpapi.NewRouter(paymentHandler, authHandler, cfg.FrontendOrigin, registry)

	log.Println("HTTP server running on port :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
