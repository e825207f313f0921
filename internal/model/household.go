package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Filing statuses accepted by the regulatory tables.
const (
	FilingSingle          = "single"
	FilingMarriedJoint    = "married_joint"
	FilingMarriedSeparate = "married_separate"
	FilingHeadOfHousehold = "head_of_household"
)

// Employment types.
const (
	EmploymentEmployed     = "employed"
	EmploymentSelfEmployed = "self_employed"
	EmploymentUnemployed   = "unemployed"
)

// Tax-timing preferences.
const (
	TaxTimingNow   = "now"
	TaxTimingLater = "later"
	TaxTimingBoth  = "both"
)

// IncompleteDataError reports a missing or invalid required intake field.
type IncompleteDataError struct {
	Field  string
	Reason string
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("incomplete household data: field %q %s", e.Field, e.Reason)
}

// HouseholdRecord is the flat named-field intake record supplied by the
// host. Required numerics are pointers so a missing field is
// distinguishable from an explicit zero.
type HouseholdRecord struct {
	Age               *int     `json:"age"`
	GrossAnnualIncome *float64 `json:"gross_annual_income"`
	NetMonthlyIncome  *float64 `json:"net_monthly_income"`

	RequestedSavingsPercent float64 `json:"requested_savings_percent"`
	Dependents              int     `json:"dependents"`
	FilingStatus            string  `json:"filing_status"`
	EmploymentType          string  `json:"employment_type"`
	TaxTiming               string  `json:"tax_timing"`
	HSAEligible             bool    `json:"hsa_eligible"`

	ImportanceEducation  float64 `json:"importance_education"`
	ImportanceHealth     float64 `json:"importance_health"`
	ImportanceRetirement float64 `json:"importance_retirement"`

	YearsUntilEducation  float64 `json:"years_until_education"`
	YearsUntilHealth     float64 `json:"years_until_health"`
	YearsUntilRetirement float64 `json:"years_until_retirement"`

	EngagementKnowledge   float64 `json:"engagement_knowledge"`
	EngagementInvolvement float64 `json:"engagement_involvement"`
	EngagementRiskComfort float64 `json:"engagement_risk_comfort"`

	EmployerPlan         bool   `json:"employer_plan"`
	EmployerMatch        bool   `json:"employer_match"`
	EmployerMatchFormula string `json:"employer_match_formula"`
	EmployerRothOption   bool   `json:"employer_roth_option"`

	SecondEmployerPlan         bool   `json:"second_employer_plan"`
	SecondEmployerMatch        bool   `json:"second_employer_match"`
	SecondEmployerMatchFormula string `json:"second_employer_match_formula"`

	SpouseInBusiness               bool    `json:"spouse_in_business"`
	BusinessSavingsMonthly         float64 `json:"business_savings_monthly"`
	RolloverBalance                float64 `json:"rollover_balance"`
	ExistingIRABalance             float64 `json:"existing_ira_balance"`
	CurrentPlanContributionMonthly float64 `json:"current_plan_contribution_monthly"`
}

// HouseholdFacts is the validated, value-typed input to every engine stage.
// Constructed once per planning run; read-only thereafter.
type HouseholdFacts struct {
	Age               int
	GrossAnnualIncome decimal.Decimal
	NetMonthlyIncome  decimal.Decimal

	RequestedSavingsPercent decimal.Decimal
	Dependents              int
	FilingStatus            string
	EmploymentType          string
	TaxTiming               string
	HSAEligible             bool

	Importance   map[string]float64
	HorizonYears map[string]float64
	Engagement   []float64

	EmployerPlan         bool
	EmployerMatch        bool
	EmployerMatchFormula string
	EmployerRothOption   bool

	SecondEmployerPlan         bool
	SecondEmployerMatch        bool
	SecondEmployerMatchFormula string

	SpouseInBusiness               bool
	BusinessSavingsMonthly         decimal.Decimal
	RolloverBalance                decimal.Decimal
	ExistingIRABalance             decimal.Decimal
	CurrentPlanContributionMonthly decimal.Decimal
}

// Facts validates the record and parses it into HouseholdFacts.
// Missing or invalid required fields return *IncompleteDataError.
func (r *HouseholdRecord) Facts() (*HouseholdFacts, error) {
	if r.Age == nil {
		return nil, &IncompleteDataError{Field: "age", Reason: "is missing"}
	}
	if *r.Age <= 0 || *r.Age > 120 {
		return nil, &IncompleteDataError{Field: "age", Reason: "is out of range"}
	}
	if r.GrossAnnualIncome == nil {
		return nil, &IncompleteDataError{Field: "gross_annual_income", Reason: "is missing"}
	}
	if r.NetMonthlyIncome == nil {
		return nil, &IncompleteDataError{Field: "net_monthly_income", Reason: "is missing"}
	}

	switch r.FilingStatus {
	case FilingSingle, FilingMarriedJoint, FilingMarriedSeparate, FilingHeadOfHousehold:
	case "":
		return nil, &IncompleteDataError{Field: "filing_status", Reason: "is missing"}
	default:
		return nil, &IncompleteDataError{Field: "filing_status", Reason: "is not a known status"}
	}

	employment := r.EmploymentType
	if employment == "" {
		employment = EmploymentEmployed
	}
	switch employment {
	case EmploymentEmployed, EmploymentSelfEmployed, EmploymentUnemployed:
	default:
		return nil, &IncompleteDataError{Field: "employment_type", Reason: "is not a known type"}
	}

	switch r.TaxTiming {
	case TaxTimingNow, TaxTimingLater, TaxTimingBoth, "":
	default:
		return nil, &IncompleteDataError{Field: "tax_timing", Reason: "is not a known preference"}
	}

	return &HouseholdFacts{
		Age:               *r.Age,
		GrossAnnualIncome: decimal.NewFromFloat(*r.GrossAnnualIncome),
		NetMonthlyIncome:  decimal.NewFromFloat(*r.NetMonthlyIncome),

		RequestedSavingsPercent: decimal.NewFromFloat(r.RequestedSavingsPercent),
		Dependents:              r.Dependents,
		FilingStatus:            r.FilingStatus,
		EmploymentType:          employment,
		TaxTiming:               r.TaxTiming,
		HSAEligible:             r.HSAEligible,

		Importance: map[string]float64{
			DomainEducation:  r.ImportanceEducation,
			DomainHealth:     r.ImportanceHealth,
			DomainRetirement: r.ImportanceRetirement,
		},
		HorizonYears: map[string]float64{
			DomainEducation:  r.YearsUntilEducation,
			DomainHealth:     r.YearsUntilHealth,
			DomainRetirement: r.YearsUntilRetirement,
		},
		Engagement: []float64{r.EngagementKnowledge, r.EngagementInvolvement, r.EngagementRiskComfort},

		EmployerPlan:         r.EmployerPlan,
		EmployerMatch:        r.EmployerMatch,
		EmployerMatchFormula: r.EmployerMatchFormula,
		EmployerRothOption:   r.EmployerRothOption,

		SecondEmployerPlan:         r.SecondEmployerPlan,
		SecondEmployerMatch:        r.SecondEmployerMatch,
		SecondEmployerMatchFormula: r.SecondEmployerMatchFormula,

		SpouseInBusiness:               r.SpouseInBusiness,
		BusinessSavingsMonthly:         decimal.NewFromFloat(r.BusinessSavingsMonthly),
		RolloverBalance:                decimal.NewFromFloat(r.RolloverBalance),
		ExistingIRABalance:             decimal.NewFromFloat(r.ExistingIRABalance),
		CurrentPlanContributionMonthly: decimal.NewFromFloat(r.CurrentPlanContributionMonthly),
	}, nil
}
