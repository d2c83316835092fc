// shared/config/config.go
package config

import (
	"fmt"
	"os"
)

// ServiceConfig holds infrastructure details for the payment-forms service.
// Everything is read from the environment so the same binary can run in
// docker-compose and in production without a config file.
type ServiceConfig struct {
	//HTTP server
	HTTP_PORT string

	//Database (PostgreSQL) config
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	DB_HOST     string
	DB_PORT     string

	//Kafka config (payment lifecycle events)
	KAFKA_TOPIC  string
	KAFKA_BROKER string

	//RabbitMQ config (receipt / notification jobs)
	RABBITMQ_USER     string
	RABBITMQ_PASSWORD string
	RABBITMQ_HOST     string
	RABBITMQ_PORT     string

	//Stripe credentials
	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string

	//Path to the per-form payment settings JSON
	FORM_SETTINGS_PATH string
}

// LoadServiceConfig returns the service config populated from env vars.
func LoadServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		HTTP_PORT: os.Getenv("HTTP_PORT"),

		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),

		KAFKA_TOPIC:  os.Getenv("KAFKA_TOPIC"),
		KAFKA_BROKER: os.Getenv("KAFKA_BROKER"),

		RABBITMQ_USER:     os.Getenv("RABBITMQ_USER"),
		RABBITMQ_PASSWORD: os.Getenv("RABBITMQ_PASSWORD"),
		RABBITMQ_HOST:     os.Getenv("RABBITMQ_HOST"),
		RABBITMQ_PORT:     os.Getenv("RABBITMQ_PORT"),

		STRIPE_SECRET_KEY:     os.Getenv("STRIPE_SECRET_KEY"),
		STRIPE_WEBHOOK_SECRET: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		FORM_SETTINGS_PATH: os.Getenv("FORM_SETTINGS_PATH"),
	}
}

// GetHTTPAddr formats the listen address, defaulting to :8080.
func (c *ServiceConfig) GetHTTPAddr() string {
	port := c.HTTP_PORT
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

// GetDBURL formats the config into a PostgreSQL connection string
func (c *ServiceConfig) GetDBURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME)
}

// GetRabbitMQURL formats the config into a RabbitMQ connection string.
// Standard ports are filled in when missing so a bare compose file works.
func (c *ServiceConfig) GetRabbitMQURL() string {
	host := c.RABBITMQ_HOST
	if host == "" {
		host = "localhost"
	}
	port := c.RABBITMQ_PORT
	if port == "" {
		port = "5672"
	}

	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RABBITMQ_USER, c.RABBITMQ_PASSWORD, host, port)
}
