package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// MaxMoney is the largest amount, balance or limit the ledger accepts. Money
// columns are NUMERIC(15, 2).
var MaxMoney = decimal.NewFromInt(999999999999)

func validateName(name string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 {
		return ledgerErrors.NewValidationError("Name is required")
	}
	if n < minLen || n > maxLen {
		return ledgerErrors.NewValidationError(fmt.Sprintf("Name must be between %d and %d characters", minLen, maxLen))
	}
	return nil
}

func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return ledgerErrors.NewValidationError("Color must use the #RRGGBB format")
	}
	return nil
}

// validateMoney rejects values a two-decimal money column would round or
// overflow. field starts the message, e.g. "Amount".
func validateMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return ledgerErrors.NewValidationError(field + " must have at most 2 decimal places")
	}
	if d.Abs().GreaterThan(MaxMoney) {
		return ledgerErrors.NewValidationError(field + " cannot exceed " + MaxMoney.String())
	}
	return nil
}

func validatePercentage(field string, d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return ledgerErrors.NewValidationError(field + " must be between 0 and 100")
	}
	if !d.Equal(d.Round(2)) {
		return ledgerErrors.NewValidationError(field + " must have at most 2 decimal places")
	}
	return nil
}
