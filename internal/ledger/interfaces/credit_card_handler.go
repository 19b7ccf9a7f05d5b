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

type CreditCardServiceInterface interface {
	CreateCreditCard(ctx context.Context, userID string, in domain.CreditCardInput) (*domain.CreditCard, error)
	ListCreditCards(ctx context.Context, userID string) ([]domain.CreditCard, error)
	GetCreditCard(ctx context.Context, userID string, cardID uuid.UUID) (*domain.CreditCard, error)
	UpdateCreditCard(ctx context.Context, userID string, cardID uuid.UUID, update domain.CreditCardUpdate) (*domain.CreditCard, error)
	DeleteCreditCard(ctx context.Context, userID string, cardID uuid.UUID) error
	PayCard(ctx context.Context, userID string, cardID, accountID uuid.UUID, amount decimal.Decimal) (*application.CardPayment, error)
	TransferCashback(ctx context.Context, userID string, cardID, accountID uuid.UUID) (decimal.Decimal, error)
}

type CreditCardHandler struct {
	responder
	service CreditCardServiceInterface
}

func NewCreditCardHandler(
	service CreditCardServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *slog.Logger,
) *CreditCardHandler {
	if service == nil {
		panic("Service and response functions must not be nil")
	}
	return &CreditCardHandler{
		responder: newResponder(respondJSON, respondError, logger),
		service:   service,
	}
}

type payCardRequest struct {
	AccountID uuid.UUID       `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type cashbackTransferRequest struct {
	AccountID uuid.UUID `json:"account_id"`
}

func (h *CreditCardHandler) CreateCreditCard(w http.ResponseWriter, r *http.Request) {
	var req domain.CreditCardInput
	if !h.decode(w, r, &req) {
		return
	}

	card, err := h.service.CreateCreditCard(r.Context(), callerID(r), req)
	if err != nil {
		h.serviceError(w, r, err, "Failed to create credit card")
		return
	}
	h.success(w, http.StatusCreated, "Credit card successfully created.", card)
}

func (h *CreditCardHandler) ListCreditCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListCreditCards(r.Context(), callerID(r))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve credit cards")
		return
	}
	h.success(w, http.StatusOK, "Credit cards retrieved successfully.", cards)
}

func (h *CreditCardHandler) GetCreditCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.service.GetCreditCard(r.Context(), callerID(r), pathID(r, "cardID"))
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve credit card")
		return
	}
	h.success(w, http.StatusOK, "Credit card retrieved successfully.", card)
}

func (h *CreditCardHandler) UpdateCreditCard(w http.ResponseWriter, r *http.Request) {
	var req domain.CreditCardUpdate
	if !h.decode(w, r, &req) {
		return
	}
	if req.Empty() {
		h.respondError(w, http.StatusBadRequest, "At least one field must be provided for update")
		return
	}

	card, err := h.service.UpdateCreditCard(r.Context(), callerID(r), pathID(r, "cardID"), req)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update credit card")
		return
	}
	h.success(w, http.StatusOK, "Credit card updated successfully.", card)
}

func (h *CreditCardHandler) DeleteCreditCard(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCreditCard(r.Context(), callerID(r), pathID(r, "cardID")); err != nil {
		h.serviceError(w, r, err, "Failed to delete credit card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CreditCardHandler) PayCard(w http.ResponseWriter, r *http.Request) {
	var req payCardRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.AccountID == uuid.Nil {
		h.respondError(w, http.StatusBadRequest, "Account ID is required")
		return
	}

	payment, err := h.service.PayCard(r.Context(), callerID(r), pathID(r, "cardID"), req.AccountID, req.Amount)
	if err != nil {
		h.serviceError(w, r, err, "Failed to pay credit card")
		return
	}
	h.success(w, http.StatusOK, "Payment completed.", payment)
}

func (h *CreditCardHandler) TransferCashback(w http.ResponseWriter, r *http.Request) {
	var req cashbackTransferRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.AccountID == uuid.Nil {
		h.respondError(w, http.StatusBadRequest, "Account ID is required")
		return
	}

	amount, err := h.service.TransferCashback(r.Context(), callerID(r), pathID(r, "cardID"), req.AccountID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to transfer cashback")
		return
	}
	h.success(w, http.StatusOK, "Cashback transferred.", map[string]decimal.Decimal{"amount": amount})
}
