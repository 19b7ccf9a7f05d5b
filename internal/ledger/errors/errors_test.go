package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	storeErr := NewStoreFailure("update wallet", errors.New("connection reset"))
	block := &ReferentialBlock{Entity: "category", ID: "c1", Side: SideSelf, Count: 2}

	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"validation", NewValidationError("Name is required"), IsValidationError},
		{"invariant", ErrInsufficientBalance, IsInvariantViolation},
		{"wrapped invariant", fmt.Errorf("deposit: %w", ErrInsufficientPocket), IsInvariantViolation},
		{"not found", NewNotFoundError("wallet", "w1"), IsNotFound},
		{"referential block", block, IsReferentialBlock},
		{"store failure", storeErr, IsStoreFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
		})
	}

	assert.False(t, IsStoreFailure(ErrInsufficientBalance))
	assert.False(t, IsNotFound(storeErr))
}

func TestValidationErrors_Unwrap(t *testing.T) {
	ve := &ValidationErrors{}
	assert.NoError(t, ve.Err())

	ve.Add(NewValidationError("Name is required"))
	ve.Add(ErrInterestFrequency)

	err := ve.Err()
	assert.ErrorIs(t, err, ErrInterestFrequency)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, []string{"Name is required", ErrInterestFrequency.Error()}, ve.Messages())
}

func TestReferentialBlock_Error(t *testing.T) {
	self := &ReferentialBlock{Entity: "category", ID: "c1", Side: SideSelf, Count: 3}
	child := &ReferentialBlock{Entity: "category", ID: "c1", Side: SideChild, Count: 1}

	assert.Equal(t, "cannot delete category c1: used by 3 transactions", self.Error())
	assert.Contains(t, child.Error(), "subcategory")
}

func TestStoreFailure_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStoreFailure("insert pocket", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store failure during insert pocket: disk full", err.Error())
}
