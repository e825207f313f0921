// Package limits holds the regulatory contribution ceilings and policy
// parameters the engine reads. The tables are an immutable configuration
// object: built once at process start (compiled-in defaults, optionally
// overridden from YAML) and passed by reference into every pure stage.
package limits

import (
	"fmt"

	"github.com/shopspring/decimal"

	"savings-engine/internal/model"
)

// Vehicle categories exposed through MonthlyLimit.
const (
	CategoryEmployeeDeferral = "employee_deferral"
	CategoryCombinedDC       = "combined_defined_contribution"
	CategoryIRA              = "ira"
	CategoryHSA              = "hsa"
	CategoryEducation        = "education"
)

// LookupError reports a regulatory lookup against an unknown category or
// filing status. This is a configuration defect, never a recoverable
// runtime condition.
type LookupError struct {
	Category     string
	FilingStatus string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("regulatory lookup miss: category %q, filing status %q", e.Category, e.FilingStatus)
}

// AgeBanded is an annual ceiling with age-gated catch-up add-ons.
// CatchUp50 applies from age 50; CatchUp60 replaces it at ages 60-63 and
// reverts to CatchUp50 at 64 (only the employee-deferral table sets it).
type AgeBanded struct {
	Base      decimal.Decimal `json:"base"`
	CatchUp50 decimal.Decimal `json:"catch_up_50"`
	CatchUp60 decimal.Decimal `json:"catch_up_60_63"`
}

// Annual returns the annual ceiling for an age.
func (b AgeBanded) Annual(age int) decimal.Decimal {
	switch {
	case age >= 60 && age <= 63 && !b.CatchUp60.IsZero():
		return b.Base.Add(b.CatchUp60)
	case age >= 50:
		return b.Base.Add(b.CatchUp50)
	default:
		return b.Base
	}
}

// Band is an income phase-out band; eligibility is full below Lower, linearly
// reduced inside, and gone at or above Upper.
type Band struct {
	Lower decimal.Decimal `json:"lower"`
	Upper decimal.Decimal `json:"upper"`
}

// Limits is the full regulatory table set plus engine policy parameters.
type Limits struct {
	Year int `json:"year"`

	EmployeeDeferral AgeBanded       `json:"employee_deferral"`
	CombinedDC       decimal.Decimal `json:"combined_defined_contribution"`
	IRA              AgeBanded       `json:"ira"`

	HSAIndividual decimal.Decimal `json:"hsa_individual"`
	HSAFamily     decimal.Decimal `json:"hsa_family"`
	HSACatchUp    decimal.Decimal `json:"hsa_catch_up"`

	EducationPerChild decimal.Decimal `json:"education_per_child"`

	RothPhaseOut map[string]Band `json:"roth_phase_out"`

	// ProfitShareFraction caps the solo employer contribution as a share of
	// reported business-savings capacity.
	ProfitShareFraction decimal.Decimal `json:"profit_share_fraction"`

	// MinimumSavingsRate is the recommended floor, in percent of net
	// monthly income, substituted when a household requests less.
	MinimumSavingsRate decimal.Decimal `json:"minimum_savings_rate"`

	// DiscountRate feeds the exponential urgency-decay variant of the
	// domain weight calculator.
	DiscountRate float64 `json:"discount_rate"`
}

var twelve = decimal.NewFromInt(12)

// MonthlyLimit returns the monthly ceiling for a vehicle category. Annual
// amounts are divided by 12 without rounding; rounding happens once, at the
// final allocation step.
func (l *Limits) MonthlyLimit(category string, age int, filingStatus string) (decimal.Decimal, error) {
	switch category {
	case CategoryEmployeeDeferral:
		return l.EmployeeDeferral.Annual(age).Div(twelve), nil
	case CategoryCombinedDC:
		return l.CombinedDC.Div(twelve), nil
	case CategoryIRA:
		return l.IRA.Annual(age).Div(twelve), nil
	case CategoryHSA:
		var annual decimal.Decimal
		switch filingStatus {
		case model.FilingMarriedJoint:
			annual = l.HSAFamily
		case model.FilingSingle, model.FilingMarriedSeparate, model.FilingHeadOfHousehold:
			annual = l.HSAIndividual
		default:
			return decimal.Zero, &LookupError{Category: category, FilingStatus: filingStatus}
		}
		if age >= 55 {
			annual = annual.Add(l.HSACatchUp)
		}
		return annual.Div(twelve), nil
	case CategoryEducation:
		return l.EducationPerChild.Div(twelve), nil
	default:
		return decimal.Zero, &LookupError{Category: category, FilingStatus: filingStatus}
	}
}

// RothBand returns the phase-out band for a filing status.
func (l *Limits) RothBand(filingStatus string) (Band, error) {
	band, ok := l.RothPhaseOut[filingStatus]
	if !ok {
		return Band{}, &LookupError{Category: "roth_phase_out", FilingStatus: filingStatus}
	}
	return band, nil
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Default returns the compiled-in tables for the 2025 plan year.
func Default() *Limits {
	return &Limits{
		Year: 2025,
		EmployeeDeferral: AgeBanded{
			Base:      d(23500),
			CatchUp50: d(7500),
			CatchUp60: d(11250),
		},
		CombinedDC: d(70000),
		IRA: AgeBanded{
			Base:      d(7000),
			CatchUp50: d(1000),
		},
		HSAIndividual:     d(4300),
		HSAFamily:         d(8550),
		HSACatchUp:        d(1000),
		EducationPerChild: d(19000),
		RothPhaseOut: map[string]Band{
			model.FilingSingle:          {Lower: d(150000), Upper: d(165000)},
			model.FilingHeadOfHousehold: {Lower: d(150000), Upper: d(165000)},
			model.FilingMarriedJoint:    {Lower: d(236000), Upper: d(246000)},
			model.FilingMarriedSeparate: {Lower: d(0), Upper: d(10000)},
		},
		ProfitShareFraction: decimal.NewFromFloat(0.25),
		MinimumSavingsRate:  d(10),
		DiscountRate:        0.04,
	}
}
