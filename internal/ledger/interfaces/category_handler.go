package interfaces

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
)

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, userID string, in domain.CategoryInput) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	GetCategory(ctx context.Context, userID string, categoryID uuid.UUID) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID string, categoryID uuid.UUID, update domain.CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID string, categoryID uuid.UUID) error
	IsDeletable(ctx context.Context, userID string, categoryID uuid.UUID) (bool, error)
}

type CategoryHandler struct {
	responder
	service CategoryServiceInterface
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *slog.Logger,
) *CategoryHandler {
	if service == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		responder: newResponder(respondJSON, respondError, logger),
		service:   service,
	}
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryInput
	if !h.decode(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), callerID(r), req)
	if err != nil {
		h.serviceError(w, r, err, "Failed to create category")
		return
	}
	h.success(w, http.StatusCreated, "Category successfully created.", category)
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context(), callerID(r))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve categories")
		return
	}
	h.success(w, http.StatusOK, "Categories retrieved successfully.", categories)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetCategory(r.Context(), callerID(r), pathID(r, "categoryID"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve category")
		return
	}
	h.success(w, http.StatusOK, "Category retrieved successfully.", category)
}

// UpdateCategory accepts "parent_id": null to detach a child from its parent.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryUpdate
	if !h.decode(w, r, &req) {
		return
	}
	if req.Empty() {
		h.respondError(w, http.StatusBadRequest, "At least one field must be provided for update")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), callerID(r), pathID(r, "categoryID"), req)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update category")
		return
	}
	h.success(w, http.StatusOK, "Category updated successfully.", category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), callerID(r), pathID(r, "categoryID")); err != nil {
		h.serviceError(w, r, err, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) IsDeletable(w http.ResponseWriter, r *http.Request) {
	deletable, err := h.service.IsDeletable(r.Context(), callerID(r), pathID(r, "categoryID"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to check category")
		return
	}
	h.success(w, http.StatusOK, "Category checked.", map[string]bool{"deletable": deletable})
}
