package domain

import (
	"time"

	"github.com/google/uuid"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

type CategoryType string

const (
	CategoryTypeParent CategoryType = "parent"
	CategoryTypeChild  CategoryType = "child"
)

// Category is a node of the two-level category taxonomy. A child with a
// parent always carries the parent's color.
type Category struct {
	ID        uuid.UUID    `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	Color     string       `json:"color"`
	Type      CategoryType `json:"type"`
	ParentID  *uuid.UUID   `json:"parent_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (c *Category) HasParent() bool {
	return c.Type == CategoryTypeChild && c.ParentID != nil
}

type CategoryInput struct {
	Name     string       `json:"name"`
	Type     CategoryType `json:"type"`
	Color    *string      `json:"color,omitempty"`
	ParentID *uuid.UUID   `json:"parent_id,omitempty"`
}

func (in *CategoryInput) Validate() error {
	errs := &ledgerErrors.ValidationErrors{}
	if err := validateName(in.Name, 2, 50); err != nil {
		errs.Add(err)
	}
	if in.Type != CategoryTypeParent && in.Type != CategoryTypeChild {
		errs.Add(ledgerErrors.NewValidationError("Type must be 'parent' or 'child'"))
	}
	if in.Type == CategoryTypeParent && in.ParentID != nil {
		errs.Add(ledgerErrors.NewValidationError("Parent categories cannot have a parent"))
	}
	// a child with a parent takes the parent's color, so its own is ignored
	if in.Color != nil && !(in.Type == CategoryTypeChild && in.ParentID != nil) {
		if err := validateColor(*in.Color); err != nil {
			errs.Add(err)
		}
	}
	if err := CheckCategoryColor(in.Type, in.Color, in.ParentID); err != nil {
		errs.Add(err)
	}
	return errs.Err()
}

type CategoryUpdate struct {
	Name     *string             `json:"name,omitempty"`
	Color    *string             `json:"color,omitempty"`
	ParentID Optional[uuid.UUID] `json:"parent_id"`
}

func (u *CategoryUpdate) Empty() bool {
	return u.Name == nil && u.Color == nil && !u.ParentID.IsSet()
}

func (u *CategoryUpdate) Validate() error {
	if u.Empty() {
		return ledgerErrors.NewValidationError("At least one field must be provided for update")
	}
	errs := &ledgerErrors.ValidationErrors{}
	if u.Name != nil {
		if err := validateName(*u.Name, 2, 50); err != nil {
			errs.Add(err)
		}
	}
	if u.Color != nil {
		if err := validateColor(*u.Color); err != nil {
			errs.Add(err)
		}
	}
	return errs.Err()
}
