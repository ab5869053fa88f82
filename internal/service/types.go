package service

// DispatchRequest is the payload posted to the account's WABA API for each
// contact.
type DispatchRequest struct {
	To         string `json:"to"`
	Template   string `json:"template"`
	CampaignID int64  `json:"campaign_id"`
}

// DispatchResponse is the acknowledgement returned by the WABA API.
type DispatchResponse struct {
	MessageID string `json:"messageId"`
}

// Component status values reported by the health service.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	ComponentConnected    = "connected"
	ComponentDisconnected = "disconnected"
	ComponentDisabled     = "disabled"

	SchedulerRunning = "running"
	SchedulerStopped = "stopped"
)

// HealthStatus aggregates component health for the health endpoint.
type HealthStatus struct {
	Status               string       `json:"status"`
	DatabaseStatus       string       `json:"database_status"`
	RedisStatus          string       `json:"redis_status"`
	SchedulerStatus      string       `json:"scheduler_status"`
	CircuitBreakerState  BreakerState `json:"circuit_breaker_state"`
	CircuitBreakerStatus string       `json:"circuit_breaker_status"`
}
