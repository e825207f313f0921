package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"savings-engine/internal/limits"
	"savings-engine/internal/model"
	"savings-engine/internal/rules"
)

// buildFoundation is the standard employed-household pipeline: HSA-first
// base order, employer vehicles, IRA pair, phase-outs, catch-all.
func buildFoundation(facts *model.HouseholdFacts, lim *limits.Limits) (*Catalog, error) {
	return build(facts, lim, false)
}

// buildCatchUp targets near-retirement savers. IRA vehicles are promoted to
// directly after the match vehicles so catch-up room is filled before
// unmatched deferrals, and tax timing defaults to "now" when unset.
func buildCatchUp(facts *model.HouseholdFacts, lim *limits.Limits) (*Catalog, error) {
	if facts.TaxTiming == "" {
		adjusted := *facts
		adjusted.TaxTiming = model.TaxTimingNow
		facts = &adjusted
	}
	return build(facts, lim, true)
}

// buildSelfEmployedRollover covers a self-employed household planning a
// rollover; the employer resolver derives solo 401(k) vehicles from the
// reported business-savings capacity.
func buildSelfEmployedRollover(facts *model.HouseholdFacts, lim *limits.Limits) (*Catalog, error) {
	cat, err := build(facts, lim, false)
	if err != nil {
		return nil, err
	}
	if facts.RolloverBalance.IsPositive() {
		retirement := cat.Orders[model.DomainRetirement]
		for i := range retirement {
			if retirement[i].Name == model.VehicleSoloEmployee {
				retirement[i].Note = "incoming rollover balances do not consume contribution room"
			}
		}
	}
	return cat, nil
}

func build(facts *model.HouseholdFacts, lim *limits.Limits, promoteIRAs bool) (*Catalog, error) {
	cat := &Catalog{
		Orders:    make(map[string][]model.Vehicle, len(model.Domains)),
		Seeds:     make(map[string]map[string]decimal.Decimal),
		GroupCaps: make(map[string]decimal.Decimal),
	}

	retirement, err := buildRetirement(facts, lim, cat, promoteIRAs)
	if err != nil {
		return nil, err
	}
	cat.Orders[model.DomainRetirement] = retirement

	health, err := buildHealth(facts, lim, cat)
	if err != nil {
		return nil, err
	}
	cat.Orders[model.DomainHealth] = health

	education, err := buildEducation(facts, lim)
	if err != nil {
		return nil, err
	}
	cat.Orders[model.DomainEducation] = education

	seedCurrentContribution(facts, cat)

	// Zero or negative income leaves every capped vehicle present at 0 so
	// downstream display still sees it; only the catch-alls stay open.
	if !facts.GrossAnnualIncome.IsPositive() {
		zeroCaps(cat)
	}

	return cat, nil
}

func buildRetirement(facts *model.HouseholdFacts, lim *limits.Limits, cat *Catalog, promoteIRAs bool) ([]model.Vehicle, error) {
	var base []model.Vehicle
	if facts.HSAEligible {
		hsaCap, err := lim.MonthlyLimit(limits.CategoryHSA, facts.Age, facts.FilingStatus)
		if err != nil {
			return nil, err
		}
		hsa := model.Capped(model.VehicleHSA, hsaCap, model.GroupHSA, model.TreatmentPreTax)
		hsa.Pinned = true
		base = append(base, hsa)
		cat.GroupCaps[model.GroupHSA] = hsaCap
	}

	er, err := rules.ResolveEmployerVehicles(base, rules.EmployerInput{Facts: facts, Limits: lim})
	if err != nil {
		return nil, err
	}
	cat.Warnings = append(cat.Warnings, er.Warnings...)
	for group, cap := range er.GroupCaps {
		cat.GroupCaps[group] = cap
	}
	order := er.Order

	iraMonthly, err := lim.MonthlyLimit(limits.CategoryIRA, facts.Age, facts.FilingStatus)
	if err != nil {
		return nil, err
	}
	traditionalIRA := model.Capped(model.VehicleTraditionalIRA, iraMonthly, model.GroupIRA, model.TreatmentPreTax)
	rothIRA := model.Capped(model.VehicleRothIRA, iraMonthly, model.GroupIRA, model.TreatmentAfterTax)
	cat.GroupCaps[model.GroupIRA] = iraMonthly

	if promoteIRAs {
		at := afterMatchIndex(order)
		order = append(order[:at], append([]model.Vehicle{traditionalIRA, rothIRA}, order[at:]...)...)
	} else {
		order = append(order, traditionalIRA, rothIRA)
	}

	order, err = rules.ApplyIncomePhaseOuts(order, rules.PhaseOutInput{Facts: facts, Limits: lim})
	if err != nil {
		return nil, err
	}

	return append(order, model.CatchAll()), nil
}

func buildHealth(facts *model.HouseholdFacts, lim *limits.Limits, cat *Catalog) ([]model.Vehicle, error) {
	var order []model.Vehicle
	if facts.HSAEligible {
		hsaCap, err := lim.MonthlyLimit(limits.CategoryHSA, facts.Age, facts.FilingStatus)
		if err != nil {
			return nil, err
		}
		order = append(order, model.Capped(model.VehicleHSA, hsaCap, model.GroupHSA, model.TreatmentPreTax))
		cat.GroupCaps[model.GroupHSA] = hsaCap
	}
	return append(order, model.CatchAll()), nil
}

func buildEducation(facts *model.HouseholdFacts, lim *limits.Limits) ([]model.Vehicle, error) {
	var order []model.Vehicle
	if facts.Dependents > 0 {
		perChild, err := lim.MonthlyLimit(limits.CategoryEducation, facts.Age, facts.FilingStatus)
		if err != nil {
			return nil, err
		}
		cap := perChild.Mul(decimal.NewFromInt(int64(facts.Dependents)))
		order = append(order, model.Capped(model.VehicleEducation529, cap, "", model.TreatmentAfterTax))
	}
	return append(order, model.CatchAll()), nil
}

// seedCurrentContribution records an already-running payroll contribution as
// a seed on the employee-deferral vehicle, clamped to its cap.
func seedCurrentContribution(facts *model.HouseholdFacts, cat *Catalog) {
	seed := facts.CurrentPlanContributionMonthly
	if !seed.IsPositive() {
		return
	}
	target := model.VehicleTraditional401k
	if facts.EmploymentType == model.EmploymentSelfEmployed {
		target = model.VehicleSoloEmployee
	}
	for _, v := range cat.Orders[model.DomainRetirement] {
		if v.Name != target || v.MonthlyCap == nil {
			continue
		}
		cat.Seeds[model.DomainRetirement] = map[string]decimal.Decimal{
			target: decimal.Min(seed, *v.MonthlyCap),
		}
		return
	}
}

// afterMatchIndex returns the position just past the leading employer-match
// vehicles.
func afterMatchIndex(order []model.Vehicle) int {
	at := 0
	for at < len(order) && strings.HasPrefix(order[at].Name, model.VehicleEmployerMatch) {
		at++
	}
	return at
}

func zeroCaps(cat *Catalog) {
	for domain, order := range cat.Orders {
		for i := range order {
			if order[i].MonthlyCap != nil {
				zero := decimal.Zero
				order[i].MonthlyCap = &zero
			}
		}
		cat.Orders[domain] = order
	}
	for group := range cat.GroupCaps {
		cat.GroupCaps[group] = decimal.Zero
	}
	// Seeds cannot exceed a zeroed cap.
	cat.Seeds = make(map[string]map[string]decimal.Decimal)
}
