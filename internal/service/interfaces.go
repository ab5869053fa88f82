package service

// DispatchService delivers campaign messages through the account's WABA
// integration.
type DispatchService interface {
	// DispatchCampaign sends the campaign template to every matching
	// contact and records the outcome in analytics.
	DispatchCampaign(campaignID int64) error

	// LaunchDueCampaigns launches and dispatches draft campaigns whose
	// scheduled time has passed.
	LaunchDueCampaigns() error

	GetCircuitBreakerStatus() (state BreakerState, requests uint32, failures uint32)
}

type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

type HealthService interface {
	GetHealth() *HealthStatus
}
