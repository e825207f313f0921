package rules

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

// MatchTerms is the parsed form of an employer match formula. A formula
// like "50% up to 6%" means the employer contributes 50 cents per employee
// dollar on the first 6% of gross income.
type MatchTerms struct {
	Rate           decimal.Decimal // employer cents per employee dollar, as a fraction
	CapPctOfIncome decimal.Decimal // employee-dollar ceiling, as a fraction of gross income
}

// ErrUnparseableFormula signals a match formula that did not fit any known
// pattern. Callers degrade to a zero match and surface a note, never fail.
var ErrUnparseableFormula = errors.New("unparseable match formula")

// Accepts "<rate>% up to <cap>%" with optional noise words between the two
// terms ("100% match up to 3% of salary").
var matchPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%[^%]*?up\s+to\s+(\d+(?:\.\d+)?)\s*%`)

var hundred = decimal.NewFromInt(100)

// ParseMatchFormula parses a formula string into MatchTerms. Parsing happens
// once at the resolver boundary; the allocation core never sees the string.
func ParseMatchFormula(formula string) (MatchTerms, error) {
	m := matchPattern.FindStringSubmatch(formula)
	if m == nil {
		return MatchTerms{}, ErrUnparseableFormula
	}
	rate, err := decimal.NewFromString(m[1])
	if err != nil {
		return MatchTerms{}, ErrUnparseableFormula
	}
	capPct, err := decimal.NewFromString(m[2])
	if err != nil {
		return MatchTerms{}, ErrUnparseableFormula
	}
	return MatchTerms{
		Rate:           rate.Div(hundred),
		CapPctOfIncome: capPct.Div(hundred),
	}, nil
}

// MonthlyMatchCap is the monthly employer-match ceiling for a gross annual
// income: income x capPct x rate / 12.
func (t MatchTerms) MonthlyMatchCap(grossAnnualIncome decimal.Decimal) decimal.Decimal {
	return grossAnnualIncome.Mul(t.CapPctOfIncome).Mul(t.Rate).Div(twelve)
}
