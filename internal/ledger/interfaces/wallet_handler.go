package interfaces

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

type WalletServiceInterface interface {
	CreateWallet(ctx context.Context, userID string, in domain.WalletInput) (*domain.Wallet, error)
	ListWallets(ctx context.Context, userID string) ([]domain.Wallet, error)
	GetWallet(ctx context.Context, userID string, walletID uuid.UUID) (*domain.Wallet, error)
	UpdateWallet(ctx context.Context, userID string, walletID uuid.UUID, update domain.WalletUpdate) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, userID string, walletID uuid.UUID) error
	DeactivateWallet(ctx context.Context, userID string, walletID uuid.UUID) (*domain.Wallet, error)
	PocketCounts(ctx context.Context, userID string) (map[uuid.UUID]int, error)
	VerifyBalances(ctx context.Context, userID string, walletID uuid.UUID) error
}

type WalletHandler struct {
	responder
	service WalletServiceInterface
}

func NewWalletHandler(
	service WalletServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *slog.Logger,
) *WalletHandler {
	if service == nil {
		panic("Service and response functions must not be nil")
	}
	return &WalletHandler{
		responder: newResponder(respondJSON, respondError, logger),
		service:   service,
	}
}

func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req domain.WalletInput
	if !h.decode(w, r, &req) {
		return
	}

	wallet, err := h.service.CreateWallet(r.Context(), callerID(r), req)
	if err != nil {
		h.serviceError(w, r, err, "Failed to create wallet")
		return
	}
	h.success(w, http.StatusCreated, "Wallet successfully created.", wallet)
}

func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.service.ListWallets(r.Context(), callerID(r))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve wallets")
		return
	}
	h.success(w, http.StatusOK, "Wallets retrieved successfully.", wallets)
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.service.GetWallet(r.Context(), callerID(r), pathID(r, "walletID"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve wallet")
		return
	}
	h.success(w, http.StatusOK, "Wallet retrieved successfully.", wallet)
}

func (h *WalletHandler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	var req domain.WalletUpdate
	if !h.decode(w, r, &req) {
		return
	}
	if req.Empty() {
		h.respondError(w, http.StatusBadRequest, "At least one field must be provided for update")
		return
	}

	wallet, err := h.service.UpdateWallet(r.Context(), callerID(r), pathID(r, "walletID"), req)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update wallet")
		return
	}
	h.success(w, http.StatusOK, "Wallet updated successfully.", wallet)
}

func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteWallet(r.Context(), callerID(r), pathID(r, "walletID")); err != nil {
		h.serviceError(w, r, err, "Failed to delete wallet")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WalletHandler) DeactivateWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.service.DeactivateWallet(r.Context(), callerID(r), pathID(r, "walletID"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to deactivate wallet")
		return
	}
	h.success(w, http.StatusOK, "Wallet deactivated successfully.", wallet)
}

func (h *WalletHandler) PocketCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.PocketCounts(r.Context(), callerID(r))
	if err != nil {
		h.serviceError(w, r, err, "Failed to count pockets")
		return
	}
	h.success(w, http.StatusOK, "Pocket counts retrieved successfully.", counts)
}

// VerifyBalances reports a mismatch in the body rather than as an error status.
func (h *WalletHandler) VerifyBalances(w http.ResponseWriter, r *http.Request) {
	err := h.service.VerifyBalances(r.Context(), callerID(r), pathID(r, "walletID"))
	if err != nil && !errors.Is(err, ledgerErrors.ErrBalanceMismatch) {
		h.serviceError(w, r, err, "Failed to verify wallet balances")
		return
	}
	h.success(w, http.StatusOK, "Wallet balances verified.", map[string]bool{"balanced": err == nil})
}
