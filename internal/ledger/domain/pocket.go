package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pocket is a named part of a wallet's funds. It belongs to exactly one wallet.
type Pocket struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type PocketInput struct {
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
}

func (in *PocketInput) Validate() error {
	return validateName(in.Name, 2, 50)
}

func ValidatePocketName(name string) error {
	return validateName(name, 2, 50)
}
