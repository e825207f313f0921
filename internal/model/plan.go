package model

import "github.com/shopspring/decimal"

type PlanRequest struct {
	TenantID  string          `json:"tenant_id"`
	Profile   string          `json:"profile"`
	Household HouseholdRecord `json:"household"`
}

type PlanResponse struct {
	PlanMetadata PlanMetadata `json:"plan_metadata"`
	PlanResult   PlanResult   `json:"plan_result"`
}

type PlanMetadata struct {
	PlanID          string `json:"plan_id"`
	TenantID        string `json:"tenant_id"`
	Profile         string `json:"profile"`
	PlanStartedAt   string `json:"plan_started_at"`
	PlanCompletedAt string `json:"plan_completed_at"`
	PlanDurationMs  int64  `json:"plan_duration_ms"`
	PlanOutcome     string `json:"plan_outcome"`
}

type PlanResult struct {
	Messages       []PlanMessage                         `json:"messages"`
	DomainWeights  DomainWeights                         `json:"domain_weights,omitempty"`
	VehicleOrders  map[string][]Vehicle                  `json:"vehicle_orders,omitempty"`
	Allocations    map[string]map[string]decimal.Decimal `json:"allocations,omitempty"`
	DomainPools    map[string]decimal.Decimal            `json:"domain_pools,omitempty"`
	TotalMonthly   decimal.Decimal                       `json:"total_monthly"`
	MinimumApplied bool                                  `json:"minimum_applied"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
