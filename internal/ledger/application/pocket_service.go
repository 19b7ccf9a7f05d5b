package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

// PocketTransfer is the state of both sides after money moved between a
// wallet's available balance and one of its pockets.
type PocketTransfer struct {
	Pocket *domain.Pocket  `json:"pocket"`
	Wallet *domain.Wallet  `json:"wallet"`
	Amount decimal.Decimal `json:"amount"`
}

type PocketService struct {
	store  domain.RecordStore
	logger *slog.Logger
}

func NewPocketService(store domain.RecordStore, logger *slog.Logger) *PocketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PocketService{store: store, logger: logger.With("service", "pocket")}
}

// CreatePocket adds an empty pocket to one of the caller's wallets.
func (s *PocketService) CreatePocket(ctx context.Context, userID string, in domain.PocketInput) (*domain.Pocket, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Pocket
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		if _, err := loadWallet(ctx, tx, userID, in.AccountID); err != nil {
			return err
		}
		rec, err := tx.InsertRecord(ctx, domain.TablePockets, domain.Record{
			"account_id": in.AccountID.String(),
			"name":       in.Name,
			"balance":    decimal.Zero,
		})
		if err != nil {
			return err
		}
		if created, err = domain.PocketFromRecord(rec); err != nil {
			return ledgerErrors.NewStoreFailure("decode pocket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Pocket created", "pocket_id", created.ID, "wallet_id", in.AccountID)
	return created, nil
}

// ListPockets returns a wallet's pockets, oldest first.
func (s *PocketService) ListPockets(ctx context.Context, userID string, walletID uuid.UUID) ([]domain.Pocket, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if _, err := loadWallet(ctx, s.store, userID, walletID); err != nil {
		return nil, err
	}
	return listPockets(ctx, s.store, walletID)
}

func (s *PocketService) RenamePocket(ctx context.Context, userID string, pocketID uuid.UUID, name string) (*domain.Pocket, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := domain.ValidatePocketName(name); err != nil {
		return nil, err
	}

	var renamed *domain.Pocket
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		if _, _, err := loadPocket(ctx, tx, userID, pocketID); err != nil {
			return err
		}
		rec, err := tx.UpdateRecord(ctx, domain.TablePockets, pocketID.String(), domain.Record{"name": name})
		if err != nil {
			return err
		}
		if renamed, err = domain.PocketFromRecord(rec); err != nil {
			return ledgerErrors.NewStoreFailure("decode pocket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// DepositToPocket moves amount from the wallet's available balance into the
// pocket. The wallet total does not change.
func (s *PocketService) DepositToPocket(ctx context.Context, userID string, pocketID uuid.UUID, amount decimal.Decimal) (*PocketTransfer, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	transfer, err := s.move(ctx, userID, pocketID, func(pocket *domain.Pocket, wallet *domain.Wallet) error {
		if err := domain.CheckTransferAmount(amount, wallet.BalanceAvailable, ledgerErrors.ErrInsufficientBalance); err != nil {
			return err
		}
		wallet.BalanceAvailable = wallet.BalanceAvailable.Sub(amount)
		pocket.Balance = pocket.Balance.Add(amount)
		return nil
	})
	if err != nil {
		logRejection(s.logger, "Pocket deposit rejected", err, "pocket_id", pocketID, "amount", amount.String())
		return nil, err
	}
	transfer.Amount = amount
	s.logger.Info("Pocket deposit", "pocket_id", pocketID, "wallet_id", transfer.Wallet.ID, "amount", amount.String())
	return transfer, nil
}

// WithdrawFromPocket moves amount from the pocket back to the wallet's
// available balance.
func (s *PocketService) WithdrawFromPocket(ctx context.Context, userID string, pocketID uuid.UUID, amount decimal.Decimal) (*PocketTransfer, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	transfer, err := s.move(ctx, userID, pocketID, func(pocket *domain.Pocket, wallet *domain.Wallet) error {
		if err := domain.CheckTransferAmount(amount, pocket.Balance, ledgerErrors.ErrInsufficientPocket); err != nil {
			return err
		}
		pocket.Balance = pocket.Balance.Sub(amount)
		wallet.BalanceAvailable = wallet.BalanceAvailable.Add(amount)
		return nil
	})
	if err != nil {
		logRejection(s.logger, "Pocket withdrawal rejected", err, "pocket_id", pocketID, "amount", amount.String())
		return nil, err
	}
	transfer.Amount = amount
	s.logger.Info("Pocket withdrawal", "pocket_id", pocketID, "wallet_id", transfer.Wallet.ID, "amount", amount.String())
	return transfer, nil
}

// move loads the pocket and its wallet, lets adjust change their balances
// and writes both sides in one atomic unit.
func (s *PocketService) move(ctx context.Context, userID string, pocketID uuid.UUID, adjust func(*domain.Pocket, *domain.Wallet) error) (*PocketTransfer, error) {
	transfer := &PocketTransfer{}
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		pocket, wallet, err := loadPocket(ctx, tx, userID, pocketID)
		if err != nil {
			return err
		}
		if err := adjust(pocket, wallet); err != nil {
			return err
		}

		walletRec, err := tx.UpdateRecord(ctx, domain.TableWallets, wallet.ID.String(), domain.Record{
			"balance_available": wallet.BalanceAvailable,
		})
		if err != nil {
			return err
		}
		pocketRec, err := tx.UpdateRecord(ctx, domain.TablePockets, pocket.ID.String(), domain.Record{
			"balance": pocket.Balance,
		})
		if err != nil {
			return err
		}

		if transfer.Wallet, err = domain.WalletFromRecord(walletRec); err != nil {
			return ledgerErrors.NewStoreFailure("decode wallet", err)
		}
		if transfer.Pocket, err = domain.PocketFromRecord(pocketRec); err != nil {
			return ledgerErrors.NewStoreFailure("decode pocket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// DeletePocketWithTransfer returns the pocket balance to the wallet's
// available balance and removes the pocket. It returns the amount moved.
func (s *PocketService) DeletePocketWithTransfer(ctx context.Context, userID string, pocketID uuid.UUID) (decimal.Decimal, error) {
	if err := requireCaller(userID); err != nil {
		return decimal.Zero, err
	}

	var moved decimal.Decimal
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		pocket, wallet, err := loadPocket(ctx, tx, userID, pocketID)
		if err != nil {
			return err
		}
		moved = pocket.Balance
		if moved.IsPositive() {
			if _, err := tx.UpdateRecord(ctx, domain.TableWallets, wallet.ID.String(), domain.Record{
				"balance_available": wallet.BalanceAvailable.Add(moved),
			}); err != nil {
				return err
			}
		}
		return tx.DeleteRecord(ctx, domain.TablePockets, pocketID.String())
	})
	if err != nil {
		logRejection(s.logger, "Pocket deletion rejected", err, "pocket_id", pocketID)
		return decimal.Zero, err
	}
	s.logger.Info("Pocket deleted", "pocket_id", pocketID, "returned", moved.String())
	return moved, nil
}
