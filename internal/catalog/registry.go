// Package catalog builds the per-profile vehicle catalogs: an ordered,
// capped funding-vehicle list per domain plus pre-seeded amounts.
package catalog

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"savings-engine/internal/limits"
	"savings-engine/internal/model"
)

// ErrUnknownProfile signals a profile id with no registered builder.
var ErrUnknownProfile = errors.New("unknown household profile")

// Catalog is a builder's output: the funding priority order per domain,
// dollar amounts already committed before the waterfall runs, and the
// ceilings of the shared limit groups referenced by the vehicles.
type Catalog struct {
	Orders    map[string][]model.Vehicle
	Seeds     map[string]map[string]decimal.Decimal
	GroupCaps map[string]decimal.Decimal
	Warnings  []string
}

// BuilderFunc is one pure catalog strategy for a named household profile.
type BuilderFunc func(facts *model.HouseholdFacts, lim *limits.Limits) (*Catalog, error)

// Profile identifiers.
const (
	ProfileFoundationBuilder    = "foundation_builder"
	ProfileCatchUpSaver         = "catch_up_saver"
	ProfileSelfEmployedRollover = "self_employed_rollover"
)

var registry = map[string]BuilderFunc{
	ProfileFoundationBuilder:    buildFoundation,
	ProfileCatchUpSaver:         buildCatchUp,
	ProfileSelfEmployedRollover: buildSelfEmployedRollover,
}

// Get returns the builder for a profile id.
func Get(name string) (BuilderFunc, bool) {
	b, ok := registry[name]
	return b, ok
}

// Profiles lists the registered profile ids, sorted.
func Profiles() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
