package service

import (
	"context"
	"database/sql"
	"time"
)

// Health status constants
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// BrokerStatus reports whether the event broker connection is usable.
// Implemented by queue.Connection.
type BrokerStatus interface {
	IsConnected() bool
}

// HealthStatus represents the overall health status of the application
type HealthStatus struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
}

// HealthChecker reports on the dependencies the distribution engine needs.
// The broker is optional: the engine assigns correctly without it, so a dead
// broker only degrades health rather than failing it.
type HealthChecker struct {
	db      *sql.DB
	broker  BrokerStatus
	version string
}

// NewHealthChecker creates a new HealthChecker. broker may be nil.
func NewHealthChecker(db *sql.DB, broker BrokerStatus, version string) *HealthChecker {
	return &HealthChecker{
		db:      db,
		broker:  broker,
		version: version,
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return StatusDisconnected
	}
	return StatusConnected
}

func (h *HealthChecker) checkBroker() string {
	if h.broker == nil || !h.broker.IsConnected() {
		return StatusDisconnected
	}
	return StatusConnected
}

// CheckHealth probes each dependency and rolls them up into one status
func (h *HealthChecker) CheckHealth(ctx context.Context) *HealthStatus {
	services := map[string]string{
		"database": h.checkDatabase(ctx),
		"queue":    h.checkBroker(),
	}

	status := StatusHealthy
	if services["queue"] == StatusDisconnected {
		status = StatusDegraded
	}
	if services["database"] == StatusDisconnected {
		status = StatusUnhealthy
	}

	return &HealthStatus{
		Status:    status,
		Services:  services,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}
}
