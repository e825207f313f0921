// Package rules holds the shared eligibility rule libraries used by every
// profile's catalog builder: employer-plan resolution and income phase-outs.
package rules

import (
	"github.com/shopspring/decimal"

	"savings-engine/internal/limits"
	"savings-engine/internal/model"
)

var twelve = decimal.NewFromInt(12)

const unparseableMatchNote = "employer match formula could not be parsed; assuming no match"

// EmployerInput bundles the household facts and regulatory tables the
// employer-plan resolver reads.
type EmployerInput struct {
	Facts  *model.HouseholdFacts
	Limits *limits.Limits
}

// EmployerResult is the retirement order with employer vehicles prepended,
// plus the shared-limit ceilings those vehicles draw on and any warnings
// raised while deriving them.
type EmployerResult struct {
	Order     []model.Vehicle
	GroupCaps map[string]decimal.Decimal
	Warnings  []string
}

// ResolveEmployerVehicles prepends employer-sponsored vehicles to a base
// retirement order. The match vehicle leads: employer match is free money
// and forfeited if missed within the period, so it is funded before any
// other vehicle. Traditional and Roth deferral vehicles share one
// employee-deferral ceiling via a limit group.
func ResolveEmployerVehicles(base []model.Vehicle, in EmployerInput) (EmployerResult, error) {
	res := EmployerResult{Order: base, GroupCaps: map[string]decimal.Decimal{}}

	if in.Facts.EmploymentType == model.EmploymentSelfEmployed {
		return resolveSolo(base, in)
	}
	if !in.Facts.EmployerPlan {
		return res, nil
	}

	deferral, err := in.Limits.MonthlyLimit(limits.CategoryEmployeeDeferral, in.Facts.Age, in.Facts.FilingStatus)
	if err != nil {
		return EmployerResult{}, err
	}

	var front []model.Vehicle

	if in.Facts.EmployerMatch {
		v, warning := matchVehicle(model.VehicleEmployerMatch, in.Facts.EmployerMatchFormula, in.Facts.GrossAnnualIncome)
		front = append(front, v)
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
	}
	if in.Facts.SecondEmployerPlan && in.Facts.SecondEmployerMatch {
		v, warning := matchVehicle(model.VehicleEmployerMatch+" (Second Employer)", in.Facts.SecondEmployerMatchFormula, in.Facts.GrossAnnualIncome)
		front = append(front, v)
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
	}

	// One deferral limit per person, however many employers there are.
	traditional := model.Capped(model.VehicleTraditional401k, deferral, model.GroupEmployeeDeferral, model.TreatmentPreTax)
	front = append(front, traditional)
	if in.Facts.EmployerRothOption {
		roth := model.Capped(model.VehicleRoth401k, deferral, model.GroupEmployeeDeferral, model.TreatmentAfterTax)
		front = append(front, roth)
	}

	res.GroupCaps[model.GroupEmployeeDeferral] = deferral
	res.Order = append(front, base...)
	return res, nil
}

func matchVehicle(name, formula string, grossAnnual decimal.Decimal) (model.Vehicle, string) {
	terms, err := ParseMatchFormula(formula)
	if err != nil {
		v := model.Capped(name, decimal.Zero, "", model.TreatmentNeutral)
		v.Note = unparseableMatchNote
		v.Pinned = true
		return v, unparseableMatchNote
	}
	v := model.Capped(name, terms.MonthlyMatchCap(grossAnnual), "", model.TreatmentNeutral)
	v.Pinned = true
	return v, ""
}

// resolveSolo derives the solo 401(k) employee and employer profit-sharing
// vehicles for a self-employed household. Per-person limits scale by two
// when the spouse also participates in the business, and neither side may
// exceed the reported monthly business-savings capacity.
func resolveSolo(base []model.Vehicle, in EmployerInput) (EmployerResult, error) {
	res := EmployerResult{GroupCaps: map[string]decimal.Decimal{}}

	deferral, err := in.Limits.MonthlyLimit(limits.CategoryEmployeeDeferral, in.Facts.Age, in.Facts.FilingStatus)
	if err != nil {
		return EmployerResult{}, err
	}
	combined, err := in.Limits.MonthlyLimit(limits.CategoryCombinedDC, in.Facts.Age, in.Facts.FilingStatus)
	if err != nil {
		return EmployerResult{}, err
	}

	participants := decimal.NewFromInt(1)
	if in.Facts.SpouseInBusiness {
		participants = decimal.NewFromInt(2)
	}

	capacity := in.Facts.BusinessSavingsMonthly
	if capacity.IsNegative() {
		capacity = decimal.Zero
	}

	deferralTotal := deferral.Mul(participants)
	employeeCap := decimal.Min(deferralTotal, capacity)

	// Employer side: lesser of the room left under the combined limit and
	// the profit-sharing fraction of capacity, never pushing the pair past
	// the capacity itself.
	combinedTotal := combined.Mul(participants)
	employerCap := decimal.Min(
		combinedTotal.Sub(employeeCap),
		in.Limits.ProfitShareFraction.Mul(capacity),
		capacity.Sub(employeeCap),
	)
	if employerCap.IsNegative() {
		employerCap = decimal.Zero
	}

	employee := model.Capped(model.VehicleSoloEmployee, employeeCap, model.GroupEmployeeDeferral, model.TreatmentPreTax)
	employer := model.Capped(model.VehicleSoloEmployer, employerCap, "", model.TreatmentPreTax)

	res.GroupCaps[model.GroupEmployeeDeferral] = deferralTotal
	res.Order = append([]model.Vehicle{employee, employer}, base...)
	return res, nil
}
