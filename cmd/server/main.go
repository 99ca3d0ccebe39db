package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/globalevent/service-ticketing/internal/broker"
	"github.com/globalevent/service-ticketing/internal/config"
	"github.com/globalevent/service-ticketing/internal/inventory"
	"github.com/globalevent/service-ticketing/internal/ledger"
	"github.com/globalevent/service-ticketing/internal/logging"
	"github.com/globalevent/service-ticketing/internal/observability"
	"github.com/globalevent/service-ticketing/internal/ticketing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	var cfg config.TicketingConfig
	config.LoadConfig(&cfg)

	serviceName := cfg.OtelServiceName
	if serviceName == "" {
		serviceName = "service-ticketing"
	}
	sync := logging.Init(serviceName)
	defer sync()

	ctx := context.Background()
	if err := cfg.Validate(); err != nil {
		logging.Fatal(ctx, "refusing to start with incomplete configuration", err)
	}

	shutdownTracer, err := observability.InitTracer(ctx, serviceName, cfg.OtelExporterEndpoint)
	if err != nil {
		logging.Fatal(ctx, "failed to initialize tracing", err)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			logging.Error(ctx, "tracer shutdown failed", err)
		}
	}()

	dbpool, err := ledger.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal(ctx, "failed to connect to ledger database", err)
	}
	defer dbpool.Close()

	orderLedger := ledger.NewLedger(dbpool)
	if err := orderLedger.EnsureSchema(ctx); err != nil {
		logging.Fatal(ctx, "failed to ensure orders schema", err)
	}

	store, err := inventory.NewStore(ctx, cfg.RedisURL)
	if err != nil {
		logging.Fatal(ctx, "failed to connect to inventory store", err)
	}

	b, err := broker.NewBroker(cfg.RabbitMQURL, cfg.NotificationQueue)
	if err != nil {
		logging.Fatal(ctx, "failed to connect to notification broker", err)
	}
	defer b.Close()
	if err := b.DeclareNotificationQueue(); err != nil {
		logging.Fatal(ctx, "failed to declare notification queue", err)
	}

	service := ticketing.NewService(store, orderLedger, b)
	handler := ticketing.NewHandler(service)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	handler.RegisterRoutes(r)

	logging.Info(ctx, "ticketing API listening", zap.String("port", cfg.HTTPPort))
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		logging.Fatal(ctx, "server exited", err)
	}
}
