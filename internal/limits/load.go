package limits

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// The YAML file schema uses plain numbers and optional fields; values are
// converted to decimals and merged over the compiled-in defaults, so a
// partial file (say, only next year's deferral numbers) still yields a
// complete table set.
type fileLimits struct {
	Year             *int           `yaml:"year"`
	EmployeeDeferral *fileAgeBanded `yaml:"employee_deferral"`
	CombinedDC       *float64       `yaml:"combined_defined_contribution"`
	IRA              *fileAgeBanded `yaml:"ira"`

	HSAIndividual *float64 `yaml:"hsa_individual"`
	HSAFamily     *float64 `yaml:"hsa_family"`
	HSACatchUp    *float64 `yaml:"hsa_catch_up"`

	EducationPerChild *float64 `yaml:"education_per_child"`

	RothPhaseOut map[string]fileBand `yaml:"roth_phase_out"`

	ProfitShareFraction *float64 `yaml:"profit_share_fraction"`
	MinimumSavingsRate  *float64 `yaml:"minimum_savings_rate"`
	DiscountRate        *float64 `yaml:"discount_rate"`
}

type fileAgeBanded struct {
	Base      *float64 `yaml:"base"`
	CatchUp50 *float64 `yaml:"catch_up_50"`
	CatchUp60 *float64 `yaml:"catch_up_60_63"`
}

type fileBand struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
}

// Load reads a YAML limits file over the compiled-in defaults.
func Load(path string) (*Limits, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read limits file: %w", err)
	}

	var file fileLimits
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse limits file %s: %w", path, err)
	}

	l := Default()
	if file.Year != nil {
		l.Year = *file.Year
	}
	mergeBanded(&l.EmployeeDeferral, file.EmployeeDeferral)
	setDecimal(&l.CombinedDC, file.CombinedDC)
	mergeBanded(&l.IRA, file.IRA)
	setDecimal(&l.HSAIndividual, file.HSAIndividual)
	setDecimal(&l.HSAFamily, file.HSAFamily)
	setDecimal(&l.HSACatchUp, file.HSACatchUp)
	setDecimal(&l.EducationPerChild, file.EducationPerChild)
	setDecimal(&l.ProfitShareFraction, file.ProfitShareFraction)
	setDecimal(&l.MinimumSavingsRate, file.MinimumSavingsRate)
	if file.DiscountRate != nil {
		l.DiscountRate = *file.DiscountRate
	}
	for status, band := range file.RothPhaseOut {
		l.RothPhaseOut[status] = Band{
			Lower: decimal.NewFromFloat(band.Lower),
			Upper: decimal.NewFromFloat(band.Upper),
		}
	}
	return l, nil
}

func mergeBanded(dst *AgeBanded, src *fileAgeBanded) {
	if src == nil {
		return
	}
	setDecimal(&dst.Base, src.Base)
	setDecimal(&dst.CatchUp50, src.CatchUp50)
	setDecimal(&dst.CatchUp60, src.CatchUp60)
}

func setDecimal(dst *decimal.Decimal, src *float64) {
	if src != nil {
		*dst = decimal.NewFromFloat(*src)
	}
}
