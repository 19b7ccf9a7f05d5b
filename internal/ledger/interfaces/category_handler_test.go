package interfaces

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryHandler(svc *MockCategoryService) *CategoryHandler {
	return NewCategoryHandler(svc, RespondJSON, RespondError, discardLogger)
}

func TestCreateCategory_Success(t *testing.T) {
	svc := &MockCategoryService{Category: &domain.Category{ID: uuid.New(), Name: "Food", Color: "#FF0000", Type: domain.CategoryTypeParent}}
	handler := newCategoryHandler(svc)

	res := serve(http.HandlerFunc(handler.CreateCategory),
		newRequest(http.MethodPost, "/", `{"name":"Food","type":"parent","color":"#FF0000"}`))

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	data := decodeResponse(t, res)["data"].(map[string]interface{})
	assert.Equal(t, "#FF0000", data["color"])
	assert.Nil(t, data["parent_id"])
}

func TestUpdateCategory_ParentIDForms(t *testing.T) {
	categoryID := uuid.New()
	parentID := uuid.New()

	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, u domain.CategoryUpdate)
	}{
		{"detach", `{"parent_id":null}`, func(t *testing.T, u domain.CategoryUpdate) {
			assert.True(t, u.ParentID.IsNull())
		}},
		{"reparent", `{"parent_id":"` + parentID.String() + `"}`, func(t *testing.T, u domain.CategoryUpdate) {
			got, ok := u.ParentID.Get()
			require.True(t, ok)
			assert.Equal(t, parentID, got)
		}},
		{"color only", `{"color":"#00FF00"}`, func(t *testing.T, u domain.CategoryUpdate) {
			assert.False(t, u.ParentID.IsSet())
			require.NotNil(t, u.Color)
			assert.Equal(t, "#00FF00", *u.Color)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockCategoryService{Category: &domain.Category{ID: categoryID}}
			handler := newCategoryHandler(svc)

			res := serve(handler.ValidatePathParams(http.HandlerFunc(handler.UpdateCategory), "categoryID"),
				newRequest(http.MethodPatch, "/", tt.body, "categoryID", categoryID.String()))

			assert.Equal(t, http.StatusOK, res.StatusCode)
			tt.check(t, svc.Update)
		})
	}
}

func TestUpdateCategory_InvalidParent(t *testing.T) {
	handler := newCategoryHandler(&MockCategoryService{Err: ledgerErrors.ErrInvalidParent})
	categoryID := uuid.New()

	res := serve(handler.ValidatePathParams(http.HandlerFunc(handler.UpdateCategory), "categoryID"),
		newRequest(http.MethodPatch, "/", `{"parent_id":"`+categoryID.String()+`"}`, "categoryID", categoryID.String()))

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Parent must be an existing parent category", decodeResponse(t, res)["message"])
}

func TestDeleteCategory_Blocked(t *testing.T) {
	categoryID := uuid.New()
	tests := []struct {
		name  string
		block *ledgerErrors.ReferentialBlock
		want  string
	}{
		{"self", &ledgerErrors.ReferentialBlock{Entity: "category", ID: categoryID.String(), Side: ledgerErrors.SideSelf, Count: 1},
			"used by 1 transactions"},
		{"child", &ledgerErrors.ReferentialBlock{Entity: "category", ID: categoryID.String(), Side: ledgerErrors.SideChild, Count: 4},
			"a subcategory is used by 4 transactions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newCategoryHandler(&MockCategoryService{Err: tt.block})
			res := serve(handler.ValidatePathParams(http.HandlerFunc(handler.DeleteCategory), "categoryID"),
				newRequest(http.MethodDelete, "/", "", "categoryID", categoryID.String()))

			assert.Equal(t, http.StatusConflict, res.StatusCode)
			assert.Contains(t, decodeResponse(t, res)["message"], tt.want)
		})
	}
}

func TestIsDeletable(t *testing.T) {
	categoryID := uuid.New()
	svc := &MockCategoryService{Deletable: true}
	handler := newCategoryHandler(svc)

	res := serve(handler.ValidatePathParams(http.HandlerFunc(handler.IsDeletable), "categoryID"),
		newRequest(http.MethodGet, "/", "", "categoryID", categoryID.String()))

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, decodeResponse(t, res)["data"].(map[string]interface{})["deletable"])
	assert.Equal(t, categoryID, svc.CategoryID)
}
