package cmd

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	HTTPPort string

	BackendURL     string
	BackendTimeout time.Duration
	PollInterval   time.Duration

	SessionSecret string
	SessionTTL    time.Duration

	// PostgreSQL board store. Left empty, boards are kept in memory.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RabbitMQ transition events. Left empty, events are not published.
	AMQPURL      string
	AMQPExchange string
}

func (c Config) Validate() error {
	var errList []error
	if c.HTTPPort == "" {
		errList = append(errList, errors.New("HTTP_PORT is required"))
	}
	if c.BackendURL == "" {
		errList = append(errList, errors.New("BACKEND_URL is required"))
	}
	if c.SessionSecret == "" {
		errList = append(errList, errors.New("SESSION_SECRET is required"))
	}
	return errors.Join(errList...)
}

// UsesDatabase reports whether a PostgreSQL board store is configured.
func (c Config) UsesDatabase() bool {
	return c.DBHost != ""
}

func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}
