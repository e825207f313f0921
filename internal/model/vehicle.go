package model

import "github.com/shopspring/decimal"

// Savings domains. Every plan covers all three, even at weight 0.
const (
	DomainEducation  = "education"
	DomainHealth     = "health"
	DomainRetirement = "retirement"
)

// Domains in allocation-processing order. Retirement runs first so that
// vehicles sharing a cross-domain limit group (the HSA) consume shared room
// deterministically.
var Domains = []string{DomainRetirement, DomainHealth, DomainEducation}

// Tax treatment of a vehicle, used by the tax-timing reorder.
const (
	TreatmentPreTax   = "PRE_TAX"
	TreatmentAfterTax = "AFTER_TAX"
	TreatmentNeutral  = "NEUTRAL"
)

// Canonical vehicle names.
const (
	VehicleEmployerMatch   = "401(k) Employer Match"
	VehicleTraditional401k = "401(k) Traditional"
	VehicleRoth401k        = "401(k) Roth"
	VehicleSoloEmployee    = "Solo 401(k) Employee"
	VehicleSoloEmployer    = "Solo 401(k) Employer Profit Sharing"
	VehicleTraditionalIRA  = "Traditional IRA"
	VehicleRothIRA         = "Roth IRA"
	VehicleBackdoorRoth    = "Backdoor Roth IRA"
	VehicleHSA             = "HSA"
	VehicleEducation529    = "529 College Savings"
	VehicleBankSavings     = "Bank Savings"
)

// Limit groups name a shared regulatory ceiling tracked across the whole
// allocation run. Traditional and Roth employer deferrals draw on one
// employee-deferral limit; Traditional, Roth and Backdoor IRA draw on one
// IRA limit; the HSA appears in both the retirement and health orders but
// has a single ceiling.
const (
	GroupEmployeeDeferral = "employee_deferral"
	GroupIRA              = "ira"
	GroupHSA              = "hsa"
)

// Vehicle is one funding instrument in a domain's priority order.
// A nil MonthlyCap means unbounded; the catch-all vehicle is always
// unbounded and always last in its domain.
type Vehicle struct {
	Name       string           `json:"name"`
	MonthlyCap *decimal.Decimal `json:"monthly_cap"`
	LimitGroup string           `json:"limit_group,omitempty"`
	Treatment  string           `json:"tax_treatment"`
	Note       string           `json:"note,omitempty"`

	// Pinned vehicles (employer match, HSA) keep their position through
	// the tax-timing reorder.
	Pinned bool `json:"-"`
}

// Capped builds a vehicle with a fixed monthly ceiling.
func Capped(name string, cap decimal.Decimal, group, treatment string) Vehicle {
	return Vehicle{Name: name, MonthlyCap: &cap, LimitGroup: group, Treatment: treatment}
}

// CatchAll builds the unbounded, always-last vehicle for a domain.
func CatchAll() Vehicle {
	return Vehicle{Name: VehicleBankSavings, Treatment: TreatmentNeutral}
}

// DomainWeights maps domain name to its normalized priority weight.
type DomainWeights map[string]float64
