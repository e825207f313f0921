// Package waterfall distributes a monthly savings pool across domains by
// weight and, within each domain, down the ordered vehicle list until the
// pool is exhausted.
package waterfall

import (
	"fmt"

	"github.com/shopspring/decimal"

	"savings-engine/internal/model"
)

// OverflowError reports a domain whose vehicles could not absorb its pool.
// The catch-all vehicle is defined to be unbounded, so this is an invariant
// violation in the catalog builder, not a runtime condition.
type OverflowError struct {
	Domain    string
	Remaining decimal.Decimal
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("allocation overflow in domain %q: %s unassigned", e.Domain, e.Remaining.StringFixed(2))
}

// Input carries everything the waterfall reads. GroupCaps are shared
// regulatory ceilings tracked across the whole run, so vehicles in the same
// group never collectively exceed one limit, even across domains.
type Input struct {
	Weights   model.DomainWeights
	PoolTotal decimal.Decimal
	Orders    map[string][]model.Vehicle
	Seeds     map[string]map[string]decimal.Decimal
	GroupCaps map[string]decimal.Decimal
}

// Result is the per-domain, per-vehicle dollar assignment. Allocations
// include seed amounts, so each domain's sum equals its pool.
type Result struct {
	Allocations map[string]map[string]decimal.Decimal
	DomainPools map[string]decimal.Decimal
}

// Allocate splits the pool across domains by weight and walks each domain's
// vehicle order top to bottom. Vehicle order is the funding priority exactly
// as the catalog builder returned it; nothing here re-sorts.
func Allocate(in Input) (*Result, error) {
	res := &Result{
		Allocations: make(map[string]map[string]decimal.Decimal, len(model.Domains)),
		DomainPools: splitPool(in.PoolTotal, in.Weights),
	}

	groupUsed := make(map[string]decimal.Decimal, len(in.GroupCaps))

	for _, domain := range model.Domains {
		alloc, err := runDomain(domain, res.DomainPools[domain], in, groupUsed)
		if err != nil {
			return nil, err
		}
		res.Allocations[domain] = alloc
	}

	return res, nil
}

// splitPool computes each domain's share of the pool. Every share is
// rounded only after all shares are computed, and the residual cent from
// rounding goes to the largest-weight domain so the shares sum back to the
// pool exactly.
func splitPool(total decimal.Decimal, weights model.DomainWeights) map[string]decimal.Decimal {
	pools := make(map[string]decimal.Decimal, len(model.Domains))

	largest := model.Domains[0]
	sum := decimal.Zero
	for _, domain := range model.Domains {
		share := total.Mul(decimal.NewFromFloat(weights[domain])).Round(2)
		pools[domain] = share
		sum = sum.Add(share)
		if weights[domain] > weights[largest] {
			largest = domain
		}
	}

	residual := total.Sub(sum)
	if !residual.IsZero() {
		pools[largest] = pools[largest].Add(residual)
	}
	return pools
}

func runDomain(domain string, pool decimal.Decimal, in Input, groupUsed map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	order := in.Orders[domain]
	seeds := in.Seeds[domain]
	alloc := make(map[string]decimal.Decimal, len(order))

	// Seeds are already spent before the waterfall runs.
	remaining := pool
	for _, amount := range seeds {
		remaining = remaining.Sub(amount)
	}
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	for _, v := range order {
		seed := seeds[v.Name]

		var assigned decimal.Decimal
		if v.MonthlyCap == nil {
			// Catch-all: absorbs the exact remainder.
			assigned = remaining
		} else {
			room := v.MonthlyCap.Sub(seed)
			if v.LimitGroup != "" {
				groupRoom := in.GroupCaps[v.LimitGroup].Sub(groupUsed[v.LimitGroup]).Sub(seed)
				room = decimal.Min(room, groupRoom)
			}
			if room.IsNegative() {
				room = decimal.Zero
			}
			// Caps carry unrounded annual/12 precision; the assignment is
			// the first and only place a vehicle amount is rounded.
			assigned = decimal.Min(remaining, room).RoundDown(2)
		}

		alloc[v.Name] = seed.Add(assigned)
		remaining = remaining.Sub(assigned)
		if v.LimitGroup != "" {
			groupUsed[v.LimitGroup] = groupUsed[v.LimitGroup].Add(seed).Add(assigned)
		}
	}

	if remaining.IsPositive() {
		return nil, &OverflowError{Domain: domain, Remaining: remaining}
	}
	return alloc, nil
}
