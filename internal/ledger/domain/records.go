package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Conversions between entities and store records. Stores hand back ids as
// strings, money as decimal.Decimal and SQL NULL as nil; the readers below
// also accept the other shapes a driver may produce.

func WalletFromRecord(r Record) (*Wallet, error) {
	var w Wallet
	var err error
	if w.ID, err = recordUUID(r, "id"); err != nil {
		return nil, err
	}
	if w.UserID, err = recordString(r, "user_id"); err != nil {
		return nil, err
	}
	if w.Name, err = recordString(r, "name"); err != nil {
		return nil, err
	}
	if w.BalanceAvailable, err = recordDecimal(r, "balance_available"); err != nil {
		return nil, err
	}
	if w.BalanceTotal, err = recordDecimal(r, "balance_total"); err != nil {
		return nil, err
	}
	if w.InterestRate, err = recordDecimal(r, "interest_rate"); err != nil {
		return nil, err
	}
	frequency, err := recordOptionalString(r, "interest_payment_frequency")
	if err != nil {
		return nil, err
	}
	w.InterestPaymentFrequency = FrequencyNone
	if frequency != nil {
		w.InterestPaymentFrequency = InterestFrequency(*frequency)
	}
	if w.IsActive, err = recordBool(r, "is_active"); err != nil {
		return nil, err
	}
	w.CreatedAt, w.UpdatedAt = recordTime(r, "created_at"), recordTime(r, "updated_at")
	return &w, nil
}

// FrequencyValue maps FrequencyNone to NULL.
func FrequencyValue(f InterestFrequency) any {
	if f == "" || f == FrequencyNone {
		return nil
	}
	return string(f)
}

func PocketFromRecord(r Record) (*Pocket, error) {
	var p Pocket
	var err error
	if p.ID, err = recordUUID(r, "id"); err != nil {
		return nil, err
	}
	if p.AccountID, err = recordUUID(r, "account_id"); err != nil {
		return nil, err
	}
	if p.Name, err = recordString(r, "name"); err != nil {
		return nil, err
	}
	if p.Balance, err = recordDecimal(r, "balance"); err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = recordTime(r, "created_at"), recordTime(r, "updated_at")
	return &p, nil
}

func CreditCardFromRecord(r Record) (*CreditCard, error) {
	var c CreditCard
	var err error
	if c.ID, err = recordUUID(r, "id"); err != nil {
		return nil, err
	}
	if c.UserID, err = recordString(r, "user_id"); err != nil {
		return nil, err
	}
	if c.Name, err = recordString(r, "name"); err != nil {
		return nil, err
	}
	if c.CreditLimit, err = recordDecimal(r, "credit_limit"); err != nil {
		return nil, err
	}
	if c.CurrentDebt, err = recordDecimal(r, "current_debt"); err != nil {
		return nil, err
	}
	if c.CashbackPercentage, err = recordDecimal(r, "cashback_percentage"); err != nil {
		return nil, err
	}
	if c.PendingCashback, err = recordDecimal(r, "pending_cashback"); err != nil {
		return nil, err
	}
	if c.TotalCashbackGenerated, err = recordDecimal(r, "total_cashback_generated"); err != nil {
		return nil, err
	}
	if c.CashbackDestinationAccountID, err = recordOptionalUUID(r, "cashback_destination_account_id"); err != nil {
		return nil, err
	}
	if c.IsActive, err = recordBool(r, "is_active"); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = recordTime(r, "created_at"), recordTime(r, "updated_at")
	return &c, nil
}

func CategoryFromRecord(r Record) (*Category, error) {
	var c Category
	var err error
	if c.ID, err = recordUUID(r, "id"); err != nil {
		return nil, err
	}
	if c.UserID, err = recordString(r, "user_id"); err != nil {
		return nil, err
	}
	if c.Name, err = recordString(r, "name"); err != nil {
		return nil, err
	}
	if c.Color, err = recordString(r, "color"); err != nil {
		return nil, err
	}
	categoryType, err := recordString(r, "type")
	if err != nil {
		return nil, err
	}
	c.Type = CategoryType(categoryType)
	if c.ParentID, err = recordOptionalUUID(r, "parent_id"); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = recordTime(r, "created_at"), recordTime(r, "updated_at")
	return &c, nil
}

// UUIDValue maps a nil id to NULL.
func UUIDValue(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func recordString(r Record, key string) (string, error) {
	switch v := r[key].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case *string:
		if v != nil {
			return *v, nil
		}
	}
	return "", fmt.Errorf("record field %q: expected string, got %T", key, r[key])
}

func recordOptionalString(r Record, key string) (*string, error) {
	switch v := r[key].(type) {
	case nil:
		return nil, nil
	case *string:
		return v, nil
	}
	s, err := recordString(r, key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func recordUUID(r Record, key string) (uuid.UUID, error) {
	if id, ok := r[key].(uuid.UUID); ok {
		return id, nil
	}
	s, err := recordString(r, key)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("record field %q: %w", key, err)
	}
	return id, nil
}

func recordOptionalUUID(r Record, key string) (*uuid.UUID, error) {
	switch v := r[key].(type) {
	case nil:
		return nil, nil
	case *uuid.UUID:
		return v, nil
	case uuid.UUID:
		return &v, nil
	}
	s, err := recordOptionalString(r, key)
	if err != nil || s == nil {
		return nil, err
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("record field %q: %w", key, err)
	}
	return &id, nil
}

func recordDecimal(r Record, key string) (decimal.Decimal, error) {
	switch v := r[key].(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	case []byte:
		return decimal.NewFromString(string(v))
	case nil:
		return decimal.Zero, nil
	}
	return decimal.Zero, fmt.Errorf("record field %q: expected decimal, got %T", key, r[key])
}

func recordBool(r Record, key string) (bool, error) {
	switch v := r[key].(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case int:
		return v != 0, nil
	}
	return false, fmt.Errorf("record field %q: expected bool, got %T", key, r[key])
}

func recordTime(r Record, key string) time.Time {
	if t, ok := r[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}
