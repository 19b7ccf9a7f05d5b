package domain

import (
	"time"

	"github.com/google/uuid"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type InterestFrequency string

const (
	FrequencyNone    InterestFrequency = "none"
	FrequencyDaily   InterestFrequency = "daily"
	FrequencyMonthly InterestFrequency = "monthly"
)

func (f InterestFrequency) Valid() bool {
	return f == FrequencyNone || f == FrequencyDaily || f == FrequencyMonthly
}

// Wallet is a bank account. BalanceTotal always equals BalanceAvailable plus
// the balances of the wallet's pockets.
type Wallet struct {
	ID                       uuid.UUID         `json:"id"`
	UserID                   string            `json:"user_id"`
	Name                     string            `json:"name"`
	BalanceAvailable         decimal.Decimal   `json:"balance_available"`
	BalanceTotal             decimal.Decimal   `json:"balance_total"`
	InterestRate             decimal.Decimal   `json:"interest_rate"`
	InterestPaymentFrequency InterestFrequency `json:"interest_payment_frequency"`
	IsActive                 bool              `json:"is_active"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

// PocketBalance is the part of the total parked in pockets.
func (w *Wallet) PocketBalance() decimal.Decimal {
	return w.BalanceTotal.Sub(w.BalanceAvailable)
}

type WalletInput struct {
	Name                     string            `json:"name"`
	BalanceAvailable         decimal.Decimal   `json:"balance_available"`
	InterestRate             decimal.Decimal   `json:"interest_rate"`
	InterestPaymentFrequency InterestFrequency `json:"interest_payment_frequency"`
}

func (in *WalletInput) Validate() error {
	errs := &ledgerErrors.ValidationErrors{}
	if err := validateName(in.Name, 3, 50); err != nil {
		errs.Add(err)
	}
	if err := validateBalance(in.BalanceAvailable); err != nil {
		errs.Add(err)
	}
	if in.InterestPaymentFrequency == "" {
		in.InterestPaymentFrequency = FrequencyNone
	}
	if err := validateInterest(in.InterestRate, in.InterestPaymentFrequency); err != nil {
		errs.Add(err)
	}
	return errs.Err()
}

type WalletUpdate struct {
	Name                     *string            `json:"name,omitempty"`
	InterestRate             *decimal.Decimal   `json:"interest_rate,omitempty"`
	InterestPaymentFrequency *InterestFrequency `json:"interest_payment_frequency,omitempty"`
	BalanceAvailable         *decimal.Decimal   `json:"balance_available,omitempty"`
}

func (u *WalletUpdate) Empty() bool {
	return u.Name == nil && u.InterestRate == nil && u.InterestPaymentFrequency == nil && u.BalanceAvailable == nil
}

// Validate checks the update as it would apply to current.
func (u *WalletUpdate) Validate(current *Wallet) error {
	if u.Empty() {
		return ledgerErrors.NewValidationError("At least one field must be provided for update")
	}
	errs := &ledgerErrors.ValidationErrors{}
	if u.Name != nil {
		if err := validateName(*u.Name, 3, 50); err != nil {
			errs.Add(err)
		}
	}
	if u.BalanceAvailable != nil {
		if err := validateBalance(*u.BalanceAvailable); err != nil {
			errs.Add(err)
		}
	}
	rate := current.InterestRate
	if u.InterestRate != nil {
		rate = *u.InterestRate
	}
	frequency := current.InterestPaymentFrequency
	if u.InterestPaymentFrequency != nil {
		frequency = *u.InterestPaymentFrequency
	}
	if err := validateInterest(rate, frequency); err != nil {
		errs.Add(err)
	}
	return errs.Err()
}

func validateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ledgerErrors.NewValidationError("Balance cannot be negative")
	}
	return validateMoney("Balance", balance)
}

func validateInterest(rate decimal.Decimal, frequency InterestFrequency) error {
	if err := validatePercentage("Interest rate", rate); err != nil {
		return err
	}
	if !frequency.Valid() {
		return ledgerErrors.NewValidationError("Interest payment frequency must be 'none', 'daily' or 'monthly'")
	}
	if rate.IsPositive() && frequency == FrequencyNone {
		return ledgerErrors.ErrInterestFrequency
	}
	return nil
}
