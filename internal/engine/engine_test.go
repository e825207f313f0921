package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"savings-engine/internal/catalog"
	"savings-engine/internal/limits"
	"savings-engine/internal/model"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validRequest() *model.PlanRequest {
	return &model.PlanRequest{
		TenantID: "test-tenant",
		Profile:  catalog.ProfileFoundationBuilder,
		Household: model.HouseholdRecord{
			Age:                     intPtr(35),
			GrossAnnualIncome:       floatPtr(75000),
			NetMonthlyIncome:        floatPtr(4500),
			RequestedSavingsPercent: 20,
			Dependents:              1,
			FilingStatus:            model.FilingSingle,
			EmploymentType:          model.EmploymentEmployed,
			HSAEligible:             true,
			ImportanceEducation:     3,
			ImportanceHealth:        4,
			ImportanceRetirement:    7,
			YearsUntilEducation:     12,
			YearsUntilHealth:        5,
			YearsUntilRetirement:    30,
			EngagementKnowledge:     5,
			EngagementInvolvement:   4,
			EngagementRiskComfort:   6,
			EmployerPlan:            true,
			EmployerMatch:           true,
			EmployerMatchFormula:    "100% up to 3%",
			EmployerRothOption:      true,
		},
	}
}

func TestProcessSuccess(t *testing.T) {
	resp := Process(validRequest(), limits.Default())

	if resp.PlanMetadata.PlanOutcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s (messages: %v)", resp.PlanMetadata.PlanOutcome, resp.PlanResult.Messages)
	}
	if resp.PlanMetadata.TenantID != "test-tenant" {
		t.Fatalf("expected tenant_id test-tenant, got %s", resp.PlanMetadata.TenantID)
	}
	if resp.PlanMetadata.PlanID == "" {
		t.Fatal("expected a plan id")
	}

	result := resp.PlanResult

	// 20% of 4500 net.
	if !result.TotalMonthly.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("expected pool 900, got %s", result.TotalMonthly)
	}
	if result.MinimumApplied {
		t.Fatal("requested rate is above the minimum; no substitution expected")
	}

	var weightSum float64
	for _, d := range model.Domains {
		weightSum += result.DomainWeights[d]
	}
	if weightSum < 1-1e-9 || weightSum > 1+1e-9 {
		t.Fatalf("weights sum to %f", weightSum)
	}

	// Full exhaustion per domain, and pools recover the total.
	poolSum := decimal.Zero
	for _, d := range model.Domains {
		allocated := decimal.Zero
		for _, amount := range result.Allocations[d] {
			allocated = allocated.Add(amount)
		}
		if !allocated.Equal(result.DomainPools[d]) {
			t.Fatalf("domain %s: allocated %s, pool %s", d, allocated, result.DomainPools[d])
		}
		poolSum = poolSum.Add(result.DomainPools[d])
	}
	if !poolSum.Equal(result.TotalMonthly) {
		t.Fatalf("pools sum to %s, want %s", poolSum, result.TotalMonthly)
	}

	// No vehicle above its cap.
	for d, order := range result.VehicleOrders {
		for _, v := range order {
			if v.MonthlyCap != nil && result.Allocations[d][v.Name].GreaterThan(*v.MonthlyCap) {
				t.Fatalf("%s/%s allocated above cap", d, v.Name)
			}
		}
	}

	if len(result.Messages) != 0 {
		t.Fatalf("expected no messages, got %v", result.Messages)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	first := Process(validRequest(), limits.Default())
	second := Process(validRequest(), limits.Default())

	if diff := cmp.Diff(first.PlanResult.Allocations, second.PlanResult.Allocations); diff != "" {
		t.Fatalf("allocations differ between identical runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.PlanResult.DomainWeights, second.PlanResult.DomainWeights); diff != "" {
		t.Fatalf("weights differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestProcessMissingRequiredField(t *testing.T) {
	req := validRequest()
	req.Household.GrossAnnualIncome = nil

	resp := Process(req, limits.Default())

	if resp.PlanMetadata.PlanOutcome != model.OutcomeFailure {
		t.Fatalf("expected FAILURE, got %s", resp.PlanMetadata.PlanOutcome)
	}
	if len(resp.PlanResult.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(resp.PlanResult.Messages))
	}
	msg := resp.PlanResult.Messages[0]
	if msg.Code != "INCOMPLETE_HOUSEHOLD_DATA" || msg.Level != model.LevelCritical {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestProcessUnknownProfile(t *testing.T) {
	req := validRequest()
	req.Profile = "day_trader"

	resp := Process(req, limits.Default())

	if resp.PlanMetadata.PlanOutcome != model.OutcomeFailure {
		t.Fatalf("expected FAILURE, got %s", resp.PlanMetadata.PlanOutcome)
	}
	if resp.PlanResult.Messages[0].Code != "UNKNOWN_PROFILE" {
		t.Fatalf("expected UNKNOWN_PROFILE, got %s", resp.PlanResult.Messages[0].Code)
	}
}

func TestProcessInsufficientIntakeData(t *testing.T) {
	req := validRequest()
	req.Household.ImportanceEducation = 0
	req.Household.ImportanceHealth = 0
	req.Household.ImportanceRetirement = 0
	req.Household.YearsUntilEducation = 0
	req.Household.YearsUntilHealth = 0
	req.Household.YearsUntilRetirement = 0
	req.Household.EngagementKnowledge = 0
	req.Household.EngagementInvolvement = 0
	req.Household.EngagementRiskComfort = 0

	resp := Process(req, limits.Default())

	if resp.PlanMetadata.PlanOutcome != model.OutcomeSuccess {
		t.Fatalf("insufficient data is a warning, not a failure: %s", resp.PlanMetadata.PlanOutcome)
	}
	var found bool
	for _, msg := range resp.PlanResult.Messages {
		if msg.Code == "INSUFFICIENT_INTAKE_DATA" && msg.Level == model.LevelWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected INSUFFICIENT_INTAKE_DATA warning, got %v", resp.PlanResult.Messages)
	}
}

func TestProcessMinimumSavingsFloor(t *testing.T) {
	req := validRequest()
	req.Household.RequestedSavingsPercent = 2

	resp := Process(req, limits.Default())

	if resp.PlanMetadata.PlanOutcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", resp.PlanMetadata.PlanOutcome)
	}
	if !resp.PlanResult.MinimumApplied {
		t.Fatal("expected the minimum-savings substitution to be flagged")
	}
	// 10% of 4500 net, not the requested 2%.
	if !resp.PlanResult.TotalMonthly.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("expected minimum-derived pool 450, got %s", resp.PlanResult.TotalMonthly)
	}
	var found bool
	for _, msg := range resp.PlanResult.Messages {
		if msg.Code == "MINIMUM_SAVINGS_APPLIED" && msg.Level == model.LevelInfo {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MINIMUM_SAVINGS_APPLIED message, got %v", resp.PlanResult.Messages)
	}
}

func TestProcessZeroIncome(t *testing.T) {
	req := validRequest()
	req.Household.GrossAnnualIncome = floatPtr(0)
	req.Household.NetMonthlyIncome = floatPtr(0)

	resp := Process(req, limits.Default())

	if resp.PlanMetadata.PlanOutcome != model.OutcomeSuccess {
		t.Fatalf("zero income is a valid plan: %s (messages: %v)", resp.PlanMetadata.PlanOutcome, resp.PlanResult.Messages)
	}

	retirement := resp.PlanResult.Allocations[model.DomainRetirement]
	for _, v := range resp.PlanResult.VehicleOrders[model.DomainRetirement] {
		if v.MonthlyCap != nil && !retirement[v.Name].IsZero() {
			t.Fatalf("capped vehicle %s should allocate 0 on zero income, got %s", v.Name, retirement[v.Name])
		}
	}
	if !resp.PlanResult.TotalMonthly.IsZero() {
		t.Fatalf("expected a zero pool, got %s", resp.PlanResult.TotalMonthly)
	}
}

func TestProcessBackdoorSubstitutionEndToEnd(t *testing.T) {
	req := validRequest()
	req.Household.GrossAnnualIncome = floatPtr(200000)

	resp := Process(req, limits.Default())

	var hasRoth, hasBackdoor bool
	for _, v := range resp.PlanResult.VehicleOrders[model.DomainRetirement] {
		switch v.Name {
		case model.VehicleRothIRA:
			hasRoth = true
		case model.VehicleBackdoorRoth:
			hasBackdoor = true
		}
	}
	if hasRoth {
		t.Fatal("direct Roth IRA should be phased out at 200k single")
	}
	if !hasBackdoor {
		t.Fatal("expected Backdoor Roth IRA substitute")
	}
}

func TestProcessUnparseableMatchFormula(t *testing.T) {
	req := validRequest()
	req.Household.EmployerMatchFormula = "we are generous"

	resp := Process(req, limits.Default())

	if resp.PlanMetadata.PlanOutcome != model.OutcomeSuccess {
		t.Fatalf("unparseable formula must degrade, not fail: %s", resp.PlanMetadata.PlanOutcome)
	}
	var found bool
	for _, msg := range resp.PlanResult.Messages {
		if msg.Code == "UNPARSEABLE_MATCH_FORMULA" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UNPARSEABLE_MATCH_FORMULA warning, got %v", resp.PlanResult.Messages)
	}

	match := resp.PlanResult.VehicleOrders[model.DomainRetirement][0]
	if match.Name != model.VehicleEmployerMatch || match.Note == "" {
		t.Fatalf("expected a note on the degraded match vehicle, got %+v", match)
	}
}
