package domain

import (
	"strings"

	"github.com/google/uuid"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

// The checks below run before any write of an operation.

func CheckWalletDeletable(w *Wallet) error {
	if !w.BalanceTotal.IsZero() {
		return ledgerErrors.ErrWalletHasBalance
	}
	return nil
}

// CheckCardDeletable reports debt before cashback.
func CheckCardDeletable(c *CreditCard) error {
	if !c.CurrentDebt.IsZero() {
		return ledgerErrors.ErrCardHasDebt
	}
	if !c.PendingCashback.IsZero() {
		return ledgerErrors.ErrCardHasCashback
	}
	return nil
}

func CheckCreditLimit(c *CreditCard, newLimit decimal.Decimal) error {
	if err := validateCreditLimit(newLimit); err != nil {
		return err
	}
	if newLimit.LessThan(c.CurrentDebt) {
		return ledgerErrors.ErrLimitBelowDebt
	}
	return nil
}

// CheckCategoryColor requires a color on parents and on children without a
// parent. A child with a parent inherits its color.
func CheckCategoryColor(categoryType CategoryType, color *string, parentID *uuid.UUID) error {
	hasColor := color != nil && strings.TrimSpace(*color) != ""
	if hasColor {
		return nil
	}
	if categoryType == CategoryTypeParent {
		return ledgerErrors.ErrColorRequired
	}
	if categoryType == CategoryTypeChild && parentID == nil {
		return ledgerErrors.ErrColorRequired
	}
	return nil
}

// CheckTransferAmount requires 0 < amount <= available, with amount a valid
// money value. exceeded is the violation reported when the source cannot
// cover the amount.
func CheckTransferAmount(amount, available decimal.Decimal, exceeded error) error {
	if !amount.IsPositive() {
		return ledgerErrors.ErrAmountNotPositive
	}
	if err := validateMoney("Amount", amount); err != nil {
		return err
	}
	if amount.GreaterThan(available) {
		return exceeded
	}
	return nil
}

// CheckWalletBalances verifies total == available + sum of pocket balances.
func CheckWalletBalances(w *Wallet, pockets []Pocket) error {
	sum := w.BalanceAvailable
	for _, p := range pockets {
		if p.AccountID != w.ID {
			continue
		}
		sum = sum.Add(p.Balance)
	}
	if !sum.Equal(w.BalanceTotal) {
		return ledgerErrors.ErrBalanceMismatch
	}
	return nil
}

func CheckCardBounds(c *CreditCard) error {
	if c.CurrentDebt.IsNegative() || c.CurrentDebt.GreaterThan(c.CreditLimit) {
		return ledgerErrors.NewInvariantViolation("current debt must stay between 0 and the credit limit")
	}
	if c.PendingCashback.IsNegative() {
		return ledgerErrors.NewInvariantViolation("pending cashback cannot be negative")
	}
	return nil
}
