package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"savings-engine/internal/catalog"
	"savings-engine/internal/limits"
	"savings-engine/internal/model"
	"savings-engine/internal/waterfall"
	"savings-engine/internal/weights"
)

var hundred = decimal.NewFromInt(100)

// Process runs one planning calculation: weights, catalog, pool sizing,
// waterfall. Every stage is a pure function of the request and the
// regulatory tables; failures become CRITICAL messages and a FAILURE
// outcome rather than host-specific errors.
func Process(req *model.PlanRequest, lim *limits.Limits) *model.PlanResponse {
	start := time.Now()

	var msgs []model.PlanMessage
	addMsg := func(level, code, message string) {
		msgs = append(msgs, model.PlanMessage{ID: len(msgs), Level: level, Code: code, Message: message})
	}

	result, outcome := run(req, lim, addMsg)
	if msgs == nil {
		msgs = []model.PlanMessage{}
	}
	result.Messages = msgs

	elapsed := time.Since(start)
	now := time.Now().UTC()

	return &model.PlanResponse{
		PlanMetadata: model.PlanMetadata{
			PlanID:          uuid.New().String(),
			TenantID:        req.TenantID,
			Profile:         req.Profile,
			PlanStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			PlanCompletedAt: now.Format(time.RFC3339),
			PlanDurationMs:  elapsed.Milliseconds(),
			PlanOutcome:     outcome,
		},
		PlanResult: result,
	}
}

func run(req *model.PlanRequest, lim *limits.Limits, addMsg func(level, code, message string)) (model.PlanResult, string) {
	var result model.PlanResult

	facts, err := req.Household.Facts()
	if err != nil {
		addMsg(model.LevelCritical, "INCOMPLETE_HOUSEHOLD_DATA", err.Error())
		return result, model.OutcomeFailure
	}

	builder, ok := catalog.Get(req.Profile)
	if !ok {
		addMsg(model.LevelCritical, "UNKNOWN_PROFILE", catalog.ErrUnknownProfile.Error()+": "+req.Profile)
		return result, model.OutcomeFailure
	}

	calc := weights.Calculator{DiscountRate: lim.DiscountRate}
	weighting := calc.Compute(facts)
	if weighting.InsufficientData {
		addMsg(model.LevelWarning, "INSUFFICIENT_INTAKE_DATA",
			"importance, horizon, and engagement inputs are all absent; weights fell back to an equal split")
	}
	result.DomainWeights = weighting.Weights

	cat, err := builder(facts, lim)
	if err != nil {
		var lookupErr *limits.LookupError
		if errors.As(err, &lookupErr) {
			addMsg(model.LevelCritical, "LIMIT_LOOKUP_MISS", err.Error())
		} else {
			addMsg(model.LevelCritical, "CATALOG_FAILURE", err.Error())
		}
		return result, model.OutcomeFailure
	}
	for _, warning := range cat.Warnings {
		addMsg(model.LevelWarning, "UNPARSEABLE_MATCH_FORMULA", warning)
	}
	result.VehicleOrders = cat.Orders

	pool, minimumApplied := computePool(facts, lim)
	if minimumApplied {
		addMsg(model.LevelInfo, "MINIMUM_SAVINGS_APPLIED",
			"requested savings rate is below the recommended minimum; the plan uses the minimum-derived pool")
	}
	result.TotalMonthly = pool
	result.MinimumApplied = minimumApplied

	alloc, err := waterfall.Allocate(waterfall.Input{
		Weights:   weighting.Weights,
		PoolTotal: pool,
		Orders:    cat.Orders,
		Seeds:     cat.Seeds,
		GroupCaps: cat.GroupCaps,
	})
	if err != nil {
		addMsg(model.LevelCritical, "ALLOCATION_OVERFLOW", err.Error())
		return result, model.OutcomeFailure
	}
	result.Allocations = alloc.Allocations
	result.DomainPools = alloc.DomainPools

	return result, model.OutcomeSuccess
}

// computePool sizes the monthly pool from the requested percentage of net
// income, substituting the configured minimum rate when the request falls
// short. The substitution is reported so downstream narrative can say the
// plan was raised.
func computePool(facts *model.HouseholdFacts, lim *limits.Limits) (decimal.Decimal, bool) {
	net := facts.NetMonthlyIncome
	if net.IsNegative() {
		net = decimal.Zero
	}

	requested := net.Mul(facts.RequestedSavingsPercent).Div(hundred)
	minimum := net.Mul(lim.MinimumSavingsRate).Div(hundred)

	if requested.LessThan(minimum) {
		return minimum.Round(2), true
	}
	return requested.Round(2), false
}
