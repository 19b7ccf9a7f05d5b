package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

func requireCaller(userID string) error {
	if userID == "" {
		return ledgerErrors.ErrNotAuthenticated
	}
	return nil
}

// Entities owned by someone else are reported as not found so that ids of
// other users cannot be discovered.

func loadWallet(ctx context.Context, r domain.RecordReader, userID string, id uuid.UUID) (*domain.Wallet, error) {
	rec, err := r.GetRecord(ctx, domain.TableWallets, id.String())
	if err != nil {
		return nil, err
	}
	wallet, err := domain.WalletFromRecord(rec)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("decode wallet", err)
	}
	if wallet.UserID != userID {
		return nil, ledgerErrors.NewNotFoundError("wallet", id.String())
	}
	return wallet, nil
}

// loadPocket returns the pocket together with the wallet that owns it.
func loadPocket(ctx context.Context, r domain.RecordReader, userID string, id uuid.UUID) (*domain.Pocket, *domain.Wallet, error) {
	rec, err := r.GetRecord(ctx, domain.TablePockets, id.String())
	if err != nil {
		return nil, nil, err
	}
	pocket, err := domain.PocketFromRecord(rec)
	if err != nil {
		return nil, nil, ledgerErrors.NewStoreFailure("decode pocket", err)
	}
	wallet, err := loadWallet(ctx, r, userID, pocket.AccountID)
	if err != nil {
		if ledgerErrors.IsNotFound(err) {
			return nil, nil, ledgerErrors.NewNotFoundError("pocket", id.String())
		}
		return nil, nil, err
	}
	return pocket, wallet, nil
}

func loadCreditCard(ctx context.Context, r domain.RecordReader, userID string, id uuid.UUID) (*domain.CreditCard, error) {
	rec, err := r.GetRecord(ctx, domain.TableCreditCards, id.String())
	if err != nil {
		return nil, err
	}
	card, err := domain.CreditCardFromRecord(rec)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("decode credit card", err)
	}
	if card.UserID != userID {
		return nil, ledgerErrors.NewNotFoundError("credit card", id.String())
	}
	return card, nil
}

func loadCategory(ctx context.Context, r domain.RecordReader, userID string, id uuid.UUID) (*domain.Category, error) {
	rec, err := r.GetRecord(ctx, domain.TableCategories, id.String())
	if err != nil {
		return nil, err
	}
	category, err := domain.CategoryFromRecord(rec)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("decode category", err)
	}
	if category.UserID != userID {
		return nil, ledgerErrors.NewNotFoundError("category", id.String())
	}
	return category, nil
}

func listPockets(ctx context.Context, r domain.RecordReader, walletID uuid.UUID) ([]domain.Pocket, error) {
	records, err := r.ListRecords(ctx, domain.TablePockets, domain.Filter{"account_id": walletID.String()}, domain.Order{Column: "created_at"})
	if err != nil {
		return nil, err
	}
	pockets := make([]domain.Pocket, 0, len(records))
	for _, rec := range records {
		pocket, err := domain.PocketFromRecord(rec)
		if err != nil {
			return nil, ledgerErrors.NewStoreFailure("decode pocket", err)
		}
		pockets = append(pockets, *pocket)
	}
	return pockets, nil
}

func listCategories(ctx context.Context, r domain.RecordReader, filter domain.Filter) ([]domain.Category, error) {
	records, err := r.ListRecords(ctx, domain.TableCategories, filter, domain.Order{Column: "name"})
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(records))
	for _, rec := range records {
		category, err := domain.CategoryFromRecord(rec)
		if err != nil {
			return nil, ledgerErrors.NewStoreFailure("decode category", err)
		}
		categories = append(categories, *category)
	}
	return categories, nil
}
