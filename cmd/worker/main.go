package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/globalevent/service-ticketing/internal/broker"
	"github.com/globalevent/service-ticketing/internal/config"
	"github.com/globalevent/service-ticketing/internal/logging"
	"github.com/globalevent/service-ticketing/internal/notifier"
	"github.com/globalevent/service-ticketing/internal/observability"
)

func main() {
	var cfg config.WorkerConfig
	config.LoadConfig(&cfg)

	serviceName := cfg.OtelServiceName
	if serviceName == "" {
		serviceName = "service-ticketing-worker"
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

	b, err := broker.NewBroker(cfg.RabbitMQURL, cfg.NotificationQueue)
	if err != nil {
		logging.Fatal(ctx, "failed to connect to notification broker", err)
	}
	defer b.Close()

	dispatcher := notifier.NewDispatcher(notifier.LogSender{})
	if err := b.StartNotificationConsumer(dispatcher.HandleMessage); err != nil {
		logging.Fatal(ctx, "failed to start notification consumer", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info(ctx, "notification worker shutting down")
}
