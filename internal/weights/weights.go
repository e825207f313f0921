// Package weights converts a household's stated importance, time-horizon
// urgency, and investor-engagement signals into normalized priority weights
// across the three savings domains.
package weights

import (
	"math"

	"savings-engine/internal/model"
)

// Decay selects the urgency function applied to years-until-need.
type Decay int

const (
	// DecayInverse is 1/(1+years): monotone decreasing, equal to 1 at a
	// zero horizon, no tunable constant. The engine default.
	DecayInverse Decay = iota
	// DecayExponential is exp(-rate*years) with rate taken from the
	// regulatory discount rate.
	DecayExponential
)

// Calculator computes domain weights. The zero value uses inverse decay.
type Calculator struct {
	Decay        Decay
	DiscountRate float64
}

// Result carries the weights plus the insufficient-data flag. When every
// importance, horizon, and engagement input is absent the calculator still
// returns the equal split, but flags it so the caller can tell a deliberate
// neutral household from a broken intake.
type Result struct {
	Weights          model.DomainWeights
	InsufficientData bool
}

const scoreScale = 7.0

// Compute derives the normalized weight per domain.
//
// Raw score per domain = importance (1-7) x urgency(yearsUntilNeed),
// modulated by the engagement composite (mean of the three 1-7 engagement
// scores). The composite is identical across domains, so it scales
// conviction without shifting relative priority.
func (c Calculator) Compute(facts *model.HouseholdFacts) Result {
	anyInput := false
	for _, d := range model.Domains {
		if facts.Importance[d] > 0 || facts.HorizonYears[d] > 0 {
			anyInput = true
		}
	}

	engagement := c.engagementComposite(facts.Engagement)
	if engagement > 0 {
		anyInput = true
	}

	modulation := 1.0
	if engagement > 0 {
		modulation = engagement / scoreScale
	}

	raw := make(map[string]float64, len(model.Domains))
	var sum float64
	for _, d := range model.Domains {
		score := facts.Importance[d] * c.urgency(facts.HorizonYears[d]) * modulation
		raw[d] = score
		sum += score
	}

	if !anyInput || sum <= 0 {
		equal := 1.0 / float64(len(model.Domains))
		w := make(model.DomainWeights, len(model.Domains))
		for _, d := range model.Domains {
			w[d] = equal
		}
		return Result{Weights: w, InsufficientData: true}
	}

	w := make(model.DomainWeights, len(model.Domains))
	for _, d := range model.Domains {
		w[d] = raw[d] / sum
	}
	return Result{Weights: w}
}

func (c Calculator) urgency(years float64) float64 {
	if years < 0 {
		years = 0
	}
	switch c.Decay {
	case DecayExponential:
		return math.Exp(-c.DiscountRate * years)
	default:
		return 1.0 / (1.0 + years)
	}
}

// engagementComposite is the mean of the provided (non-zero) engagement
// scores; zero when none are provided.
func (c Calculator) engagementComposite(scores []float64) float64 {
	var sum float64
	var n int
	for _, s := range scores {
		if s > 0 {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
