package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	RabbitMQ   RabbitMQConfig
	Webhooks   WebhookConfig
	Autoassign AutoassignConfig
	Env        string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RabbitMQConfig holds RabbitMQ configuration
type RabbitMQConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	QueueName string
}

// WebhookConfig holds the outbound webhook endpoints. Empty URLs disable the
// corresponding integration.
type WebhookConfig struct {
	ApprovalURL   string
	ApprovalToken string
	DrainURL      string
	// DrainTeamIDs restricts exhaustion notifications to these teams when set
	DrainTeamIDs []int
	// NotifyDelay is how long after a commit the exhaustion check runs
	NotifyDelay time.Duration
	Timeout     time.Duration
}

// AutoassignConfig holds the basic-auth credentials protecting the
// machine-to-machine fulfillment endpoint
type AutoassignConfig struct {
	Username string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "textassign"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "textassign_db"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:      getEnv("RABBITMQ_HOST", "localhost"),
			Port:      getEnv("RABBITMQ_PORT", "5672"),
			User:      getEnv("RABBITMQ_DEFAULT_USER", "guest"),
			Password:  getEnv("RABBITMQ_DEFAULT_PASS", "guest"),
			QueueName: getEnv("ASSIGNMENT_EVENT_QUEUE", "assignment.created"),
		},
		Webhooks: WebhookConfig{
			ApprovalURL:   getEnv("ASSIGNMENT_REQUESTED_URL", ""),
			ApprovalToken: getEnv("ASSIGNMENT_REQUESTED_TOKEN", ""),
			DrainURL:      getEnv("ASSIGNMENT_COMPLETE_NOTIFICATION_URL", ""),
			DrainTeamIDs:  getEnvAsIntList("ASSIGNMENT_COMPLETE_NOTIFICATION_TEAM_IDS"),
			NotifyDelay:   time.Duration(getEnvAsInt("ASSIGNMENT_NOTIFY_DELAY_SECONDS", 15)) * time.Second,
			Timeout:       time.Duration(getEnvAsInt("WEBHOOK_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Autoassign: AutoassignConfig{
			Username: getEnv("AUTOASSIGN_USERNAME", ""),
			Password: getEnv("AUTOASSIGN_PASSWORD", ""),
		},
		Env: getEnv("ENV", "development"),
	}

	// Validate required fields
	if config.Database.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}

	return config, nil
}

// GetDatabaseDSN returns PostgreSQL connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// GetRabbitMQURL returns RabbitMQ connection URL
func (c *Config) GetRabbitMQURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		c.RabbitMQ.User,
		c.RabbitMQ.Password,
		c.RabbitMQ.Host,
		c.RabbitMQ.Port,
	)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// getEnv gets environment variable or returns default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer or returns default
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsIntList parses a comma-separated list of integers, skipping
// anything unparseable
func getEnvAsIntList(key string) []int {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var ids []int
	for _, part := range strings.Split(value, ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
