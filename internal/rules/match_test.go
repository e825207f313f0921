package rules

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMatchFormula(t *testing.T) {
	terms, err := ParseMatchFormula("50% up to 6%")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !terms.Rate.Equal(decimal.NewFromFloat(0.5)) {
		t.Fatalf("expected rate 0.5, got %s", terms.Rate)
	}
	if !terms.CapPctOfIncome.Equal(decimal.NewFromFloat(0.06)) {
		t.Fatalf("expected cap 0.06, got %s", terms.CapPctOfIncome)
	}
}

func TestParseMatchFormulaTolerantPatterns(t *testing.T) {
	cases := []string{
		"100% up to 3%",
		"100% match up to 3% of salary",
		"  100%  UP TO  3%  ",
		"Employer matches 100% up to 3%",
	}
	for _, formula := range cases {
		terms, err := ParseMatchFormula(formula)
		if err != nil {
			t.Fatalf("parse %q: %v", formula, err)
		}
		if !terms.Rate.Equal(decimal.NewFromInt(1)) {
			t.Fatalf("parse %q: expected rate 1, got %s", formula, terms.Rate)
		}
		if !terms.CapPctOfIncome.Equal(decimal.NewFromFloat(0.03)) {
			t.Fatalf("parse %q: expected cap 0.03, got %s", formula, terms.CapPctOfIncome)
		}
	}
}

func TestParseMatchFormulaUnparseable(t *testing.T) {
	for _, formula := range []string{"", "generous", "6% of salary", "up to 6%"} {
		if _, err := ParseMatchFormula(formula); err == nil {
			t.Fatalf("expected error for %q", formula)
		}
	}
}

func TestMonthlyMatchCap(t *testing.T) {
	terms, err := ParseMatchFormula("100% up to 3%")
	if err != nil {
		t.Fatal(err)
	}

	// 75000 x 0.03 x 1.00 / 12 = 187.50
	cap := terms.MonthlyMatchCap(decimal.NewFromInt(75000))
	if !cap.Equal(decimal.NewFromFloat(187.5)) {
		t.Fatalf("expected 187.50, got %s", cap)
	}

	half, err := ParseMatchFormula("50% up to 6%")
	if err != nil {
		t.Fatal(err)
	}
	cap = half.MonthlyMatchCap(decimal.NewFromInt(75000))
	if !cap.Equal(decimal.NewFromFloat(187.5)) {
		t.Fatalf("expected 187.50, got %s", cap)
	}
}
