package domain

import (
	"time"

	"github.com/google/uuid"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type CreditCard struct {
	ID                           uuid.UUID       `json:"id"`
	UserID                       string          `json:"user_id"`
	Name                         string          `json:"name"`
	CreditLimit                  decimal.Decimal `json:"credit_limit"`
	CurrentDebt                  decimal.Decimal `json:"current_debt"`
	CashbackPercentage           decimal.Decimal `json:"cashback_percentage"`
	PendingCashback              decimal.Decimal `json:"pending_cashback"`
	TotalCashbackGenerated       decimal.Decimal `json:"total_cashback_generated"`
	CashbackDestinationAccountID *uuid.UUID      `json:"cashback_destination_account_id"`
	IsActive                     bool            `json:"is_active"`
	CreatedAt                    time.Time       `json:"created_at"`
	UpdatedAt                    time.Time       `json:"updated_at"`
}

func (c *CreditCard) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentDebt)
}

type CreditCardInput struct {
	Name                         string          `json:"name"`
	CreditLimit                  decimal.Decimal `json:"credit_limit"`
	CashbackPercentage           decimal.Decimal `json:"cashback_percentage"`
	CashbackDestinationAccountID *uuid.UUID      `json:"cashback_destination_account_id"`
}

func (in *CreditCardInput) Validate() error {
	errs := &ledgerErrors.ValidationErrors{}
	if err := validateName(in.Name, 3, 50); err != nil {
		errs.Add(err)
	}
	if err := validateCreditLimit(in.CreditLimit); err != nil {
		errs.Add(err)
	}
	if err := validateCashbackPercentage(in.CashbackPercentage); err != nil {
		errs.Add(err)
	}
	return errs.Err()
}

type CreditCardUpdate struct {
	Name                         *string             `json:"name,omitempty"`
	CreditLimit                  *decimal.Decimal    `json:"credit_limit,omitempty"`
	CashbackPercentage           *decimal.Decimal    `json:"cashback_percentage,omitempty"`
	CashbackDestinationAccountID Optional[uuid.UUID] `json:"cashback_destination_account_id"`
}

func (u *CreditCardUpdate) Empty() bool {
	return u.Name == nil && u.CreditLimit == nil && u.CashbackPercentage == nil && !u.CashbackDestinationAccountID.IsSet()
}

func (u *CreditCardUpdate) Validate() error {
	if u.Empty() {
		return ledgerErrors.NewValidationError("At least one field must be provided for update")
	}
	errs := &ledgerErrors.ValidationErrors{}
	if u.Name != nil {
		if err := validateName(*u.Name, 3, 50); err != nil {
			errs.Add(err)
		}
	}
	if u.CreditLimit != nil {
		if err := validateCreditLimit(*u.CreditLimit); err != nil {
			errs.Add(err)
		}
	}
	if u.CashbackPercentage != nil {
		if err := validateCashbackPercentage(*u.CashbackPercentage); err != nil {
			errs.Add(err)
		}
	}
	return errs.Err()
}

func validateCreditLimit(limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return ledgerErrors.NewValidationError("Credit limit must be greater than 0")
	}
	return validateMoney("Credit limit", limit)
}

func validateCashbackPercentage(p decimal.Decimal) error {
	return validatePercentage("Cashback percentage", p)
}
