package rules

import (
	"sort"

	"savings-engine/internal/limits"
	"savings-engine/internal/model"
)

const backdoorNote = "income exceeds the direct Roth IRA limit; contribute after-tax to a traditional IRA and convert"

const proRataNote = "existing pre-tax IRA balance triggers pro-rata taxation on conversion"

// PhaseOutInput bundles the facts the phase-out resolver reads.
type PhaseOutInput struct {
	Facts  *model.HouseholdFacts
	Limits *limits.Limits
}

// ApplyIncomePhaseOuts adjusts direct Roth IRA eligibility against the
// income band for the household's filing status, then applies the
// tax-timing preference as a stable reorder of the unpinned vehicles.
//
// Below the band the Roth IRA is untouched; inside it the cap shrinks
// linearly with position in the band; at or above the upper bound the
// vehicle is replaced by a Backdoor Roth IRA carrying the standard IRA
// monthly limit and an explanatory note.
func ApplyIncomePhaseOuts(order []model.Vehicle, in PhaseOutInput) ([]model.Vehicle, error) {
	band, err := in.Limits.RothBand(in.Facts.FilingStatus)
	if err != nil {
		return nil, err
	}

	out := make([]model.Vehicle, len(order))
	copy(out, order)

	income := in.Facts.GrossAnnualIncome
	for i := range out {
		if out[i].Name != model.VehicleRothIRA || out[i].MonthlyCap == nil {
			continue
		}
		switch {
		case income.LessThanOrEqual(band.Lower):
			// Fully eligible.
		case income.GreaterThanOrEqual(band.Upper):
			iraMonthly, err := in.Limits.MonthlyLimit(limits.CategoryIRA, in.Facts.Age, in.Facts.FilingStatus)
			if err != nil {
				return nil, err
			}
			backdoor := model.Capped(model.VehicleBackdoorRoth, iraMonthly, model.GroupIRA, model.TreatmentAfterTax)
			backdoor.Note = backdoorNote
			if in.Facts.ExistingIRABalance.IsPositive() {
				backdoor.Note = backdoorNote + "; " + proRataNote
			}
			out[i] = backdoor
		default:
			// Linear reduction proportional to position within the band.
			fraction := band.Upper.Sub(income).Div(band.Upper.Sub(band.Lower))
			reduced := out[i].MonthlyCap.Mul(fraction)
			out[i].MonthlyCap = &reduced
			out[i].Note = "Roth IRA limit reduced by income phase-out"
		}
	}

	reorderByTaxTiming(out, in.Facts.TaxTiming)
	return out, nil
}

// reorderByTaxTiming stable-sorts the unpinned vehicles by tax treatment:
// "now" moves pre-tax vehicles earlier, "later" moves Roth/after-tax
// earlier, "both" (or unset) leaves the priority order alone. Pinned
// vehicles keep their positions.
func reorderByTaxTiming(order []model.Vehicle, timing string) {
	var rank func(treatment string) int
	switch timing {
	case model.TaxTimingNow:
		rank = func(t string) int {
			switch t {
			case model.TreatmentPreTax:
				return 0
			case model.TreatmentNeutral:
				return 1
			default:
				return 2
			}
		}
	case model.TaxTimingLater:
		rank = func(t string) int {
			switch t {
			case model.TreatmentAfterTax:
				return 0
			case model.TreatmentNeutral:
				return 1
			default:
				return 2
			}
		}
	default:
		return
	}

	var slots []int
	var movable []model.Vehicle
	for i, v := range order {
		if !v.Pinned {
			slots = append(slots, i)
			movable = append(movable, v)
		}
	}
	sort.SliceStable(movable, func(i, j int) bool {
		return rank(movable[i].Treatment) < rank(movable[j].Treatment)
	})
	for k, i := range slots {
		order[i] = movable[k]
	}
}
