package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// TicketingConfig holds everything the API process needs. All values come
// from the environment and are resolved once at process start.
type TicketingConfig struct {
	HTTPPort             string `mapstructure:"HTTP_PORT"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	NotificationQueue    string `mapstructure:"NOTIFICATION_QUEUE"`
	OtelExporterEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelServiceName      string `mapstructure:"OTEL_SERVICE_NAME"`
}

// WorkerConfig is the subset consumed by the notification worker.
type WorkerConfig struct {
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	NotificationQueue    string `mapstructure:"NOTIFICATION_QUEUE"`
	OtelExporterEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelServiceName      string `mapstructure:"OTEL_SERVICE_NAME"`
}

const DefaultNotificationQueue = "ticket-notifications"

func LoadConfig(cfg any) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetDefault("NOTIFICATION_QUEUE", DefaultNotificationQueue)

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envKey := field.Tag.Get("mapstructure")
		if envKey == "" {
			continue
		}

		err := viper.BindEnv(envKey)
		if err != nil {
			tempLogger, _ := zap.NewProduction()
			defer tempLogger.Sync()
			tempLogger.Fatal("Failed to bind env var", zap.String("key", envKey), zap.Error(err))
		}
	}

	err := viper.Unmarshal(cfg)
	if err != nil {
		tempLogger, _ := zap.NewProduction()
		defer tempLogger.Sync()
		tempLogger.Fatal("Unable to decode config into struct", zap.Error(err))
	}
}

// Validate rejects a config with empty required values. The process must not
// begin serving when a connection target is missing.
func (c *TicketingConfig) Validate() error {
	return checkRequired(map[string]string{
		"HTTP_PORT":    c.HTTPPort,
		"REDIS_URL":    c.RedisURL,
		"DATABASE_URL": c.DatabaseURL,
		"RABBITMQ_URL": c.RabbitMQURL,
	})
}

func (c *WorkerConfig) Validate() error {
	return checkRequired(map[string]string{
		"RABBITMQ_URL": c.RabbitMQURL,
	})
}

func checkRequired(values map[string]string) error {
	var missing []string
	for key, val := range values {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
