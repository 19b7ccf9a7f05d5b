package interfaces

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/application"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

type PocketServiceInterface interface {
	CreatePocket(ctx context.Context, userID string, in domain.PocketInput) (*domain.Pocket, error)
	ListPockets(ctx context.Context, userID string, walletID uuid.UUID) ([]domain.Pocket, error)
	RenamePocket(ctx context.Context, userID string, pocketID uuid.UUID, name string) (*domain.Pocket, error)
	DepositToPocket(ctx context.Context, userID string, pocketID uuid.UUID, amount decimal.Decimal) (*application.PocketTransfer, error)
	WithdrawFromPocket(ctx context.Context, userID string, pocketID uuid.UUID, amount decimal.Decimal) (*application.PocketTransfer, error)
	DeletePocketWithTransfer(ctx context.Context, userID string, pocketID uuid.UUID) (decimal.Decimal, error)
}

type PocketHandler struct {
	responder
	service PocketServiceInterface
}

func NewPocketHandler(
	service PocketServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *slog.Logger,
) *PocketHandler {
	if service == nil {
		panic("Service and response functions must not be nil")
	}
	return &PocketHandler{
		responder: newResponder(respondJSON, respondError, logger),
		service:   service,
	}
}

type createPocketRequest struct {
	Name string `json:"name"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreatePocket adds a pocket to the wallet named in the path.
func (h *PocketHandler) CreatePocket(w http.ResponseWriter, r *http.Request) {
	var req createPocketRequest
	if !h.decode(w, r, &req) {
		return
	}

	pocket, err := h.service.CreatePocket(r.Context(), callerID(r), domain.PocketInput{
		AccountID: pathID(r, "walletID"),
		Name:      req.Name,
	})
	if err != nil {
		h.serviceError(w, r, err, "Failed to create pocket")
		return
	}
	h.success(w, http.StatusCreated, "Pocket successfully created.", pocket)
}

func (h *PocketHandler) ListPockets(w http.ResponseWriter, r *http.Request) {
	pockets, err := h.service.ListPockets(r.Context(), callerID(r), pathID(r, "walletID"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve pockets")
		return
	}
	h.success(w, http.StatusOK, "Pockets retrieved successfully.", pockets)
}

func (h *PocketHandler) RenamePocket(w http.ResponseWriter, r *http.Request) {
	var req createPocketRequest
	if !h.decode(w, r, &req) {
		return
	}

	pocket, err := h.service.RenamePocket(r.Context(), callerID(r), pathID(r, "pocketID"), req.Name)
	if err != nil {
		h.serviceError(w, r, err, "Failed to rename pocket")
		return
	}
	h.success(w, http.StatusOK, "Pocket renamed successfully.", pocket)
}

func (h *PocketHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}

	transfer, err := h.service.DepositToPocket(r.Context(), callerID(r), pathID(r, "pocketID"), req.Amount)
	if err != nil {
		h.serviceError(w, r, err, "Failed to deposit to pocket")
		return
	}
	h.success(w, http.StatusOK, "Deposit completed.", transfer)
}

func (h *PocketHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}

	transfer, err := h.service.WithdrawFromPocket(r.Context(), callerID(r), pathID(r, "pocketID"), req.Amount)
	if err != nil {
		h.serviceError(w, r, err, "Failed to withdraw from pocket")
		return
	}
	h.success(w, http.StatusOK, "Withdrawal completed.", transfer)
}

func (h *PocketHandler) DeletePocket(w http.ResponseWriter, r *http.Request) {
	returned, err := h.service.DeletePocketWithTransfer(r.Context(), callerID(r), pathID(r, "pocketID"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to delete pocket")
		return
	}
	h.success(w, http.StatusOK, "Pocket deleted.", map[string]decimal.Decimal{"returned": returned})
}
