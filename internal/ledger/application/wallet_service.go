package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

type WalletService struct {
	store  domain.RecordStore
	logger *slog.Logger
}

func NewWalletService(store domain.RecordStore, logger *slog.Logger) *WalletService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletService{store: store, logger: logger.With("service", "wallet")}
}

// CreateWallet opens a wallet whose whole balance is available.
func (s *WalletService) CreateWallet(ctx context.Context, userID string, in domain.WalletInput) (*domain.Wallet, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.store.InsertRecord(ctx, domain.TableWallets, domain.Record{
		"user_id":                    userID,
		"name":                       in.Name,
		"balance_available":          in.BalanceAvailable,
		"balance_total":              in.BalanceAvailable,
		"interest_rate":              in.InterestRate,
		"interest_payment_frequency": domain.FrequencyValue(in.InterestPaymentFrequency),
		"is_active":                  true,
	})
	if err != nil {
		return nil, err
	}
	wallet, err := domain.WalletFromRecord(rec)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("decode wallet", err)
	}
	s.logger.Info("Wallet created", "wallet_id", wallet.ID, "balance", wallet.BalanceTotal.String())
	return wallet, nil
}

// ListWallets returns the caller's active wallets, newest first.
func (s *WalletService) ListWallets(ctx context.Context, userID string) ([]domain.Wallet, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, domain.TableWallets,
		domain.Filter{"user_id": userID, "is_active": true},
		domain.Order{Column: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	wallets := make([]domain.Wallet, 0, len(records))
	for _, rec := range records {
		wallet, err := domain.WalletFromRecord(rec)
		if err != nil {
			return nil, ledgerErrors.NewStoreFailure("decode wallet", err)
		}
		wallets = append(wallets, *wallet)
	}
	return wallets, nil
}

func (s *WalletService) GetWallet(ctx context.Context, userID string, walletID uuid.UUID) (*domain.Wallet, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	return loadWallet(ctx, s.store, userID, walletID)
}

// UpdateWallet applies a partial update. A new available balance moves the
// total by the same delta, leaving pocket balances untouched.
func (s *WalletService) UpdateWallet(ctx context.Context, userID string, walletID uuid.UUID, update domain.WalletUpdate) (*domain.Wallet, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	var updated *domain.Wallet
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		wallet, err := loadWallet(ctx, tx, userID, walletID)
		if err != nil {
			return err
		}
		if err := update.Validate(wallet); err != nil {
			return err
		}

		fields := domain.Record{}
		if update.Name != nil {
			fields["name"] = *update.Name
		}
		if update.InterestRate != nil {
			fields["interest_rate"] = *update.InterestRate
		}
		if update.InterestPaymentFrequency != nil {
			fields["interest_payment_frequency"] = domain.FrequencyValue(*update.InterestPaymentFrequency)
		}
		if update.BalanceAvailable != nil {
			delta := update.BalanceAvailable.Sub(wallet.BalanceAvailable)
			fields["balance_available"] = *update.BalanceAvailable
			fields["balance_total"] = wallet.BalanceTotal.Add(delta)
		}

		rec, err := tx.UpdateRecord(ctx, domain.TableWallets, walletID.String(), fields)
		if err != nil {
			return err
		}
		if updated, err = domain.WalletFromRecord(rec); err != nil {
			return ledgerErrors.NewStoreFailure("decode wallet", err)
		}
		return nil
	})
	if err != nil {
		s.logRejection("Wallet update rejected", walletID, err)
		return nil, err
	}
	s.logger.Info("Wallet updated", "wallet_id", walletID)
	return updated, nil
}

// DeleteWallet removes an empty wallet together with its (empty) pockets and
// clears it as cashback destination of any card.
func (s *WalletService) DeleteWallet(ctx context.Context, userID string, walletID uuid.UUID) error {
	if err := requireCaller(userID); err != nil {
		return err
	}

	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		wallet, err := loadWallet(ctx, tx, userID, walletID)
		if err != nil {
			return err
		}
		if err := domain.CheckWalletDeletable(wallet); err != nil {
			return err
		}

		if _, err := tx.DeleteWhere(ctx, domain.TablePockets, domain.Filter{"account_id": walletID.String()}); err != nil {
			return err
		}
		cards, err := tx.CountReferencing(ctx, domain.TableCreditCards, "cashback_destination_account_id", walletID.String())
		if err != nil {
			return err
		}
		if cards > 0 {
			if _, err := tx.UpdateWhere(ctx, domain.TableCreditCards,
				domain.Filter{"cashback_destination_account_id": walletID.String()},
				domain.Record{"cashback_destination_account_id": nil}); err != nil {
				return err
			}
		}
		return tx.DeleteRecord(ctx, domain.TableWallets, walletID.String())
	})
	if err != nil {
		s.logRejection("Wallet deletion rejected", walletID, err)
		return err
	}
	s.logger.Info("Wallet deleted", "wallet_id", walletID)
	return nil
}

// DeactivateWallet hides an empty wallet from listings without deleting it.
func (s *WalletService) DeactivateWallet(ctx context.Context, userID string, walletID uuid.UUID) (*domain.Wallet, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	var updated *domain.Wallet
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		wallet, err := loadWallet(ctx, tx, userID, walletID)
		if err != nil {
			return err
		}
		if err := domain.CheckWalletDeletable(wallet); err != nil {
			return err
		}
		rec, err := tx.UpdateRecord(ctx, domain.TableWallets, walletID.String(), domain.Record{"is_active": false})
		if err != nil {
			return err
		}
		if updated, err = domain.WalletFromRecord(rec); err != nil {
			return ledgerErrors.NewStoreFailure("decode wallet", err)
		}
		return nil
	})
	if err != nil {
		s.logRejection("Wallet deactivation rejected", walletID, err)
		return nil, err
	}
	s.logger.Info("Wallet deactivated", "wallet_id", walletID)
	return updated, nil
}

// PocketCounts returns the number of pockets of each active wallet of the caller.
func (s *WalletService) PocketCounts(ctx context.Context, userID string) (map[uuid.UUID]int, error) {
	wallets, err := s.ListWallets(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int, len(wallets))
	for _, wallet := range wallets {
		n, err := s.store.CountReferencing(ctx, domain.TablePockets, "account_id", wallet.ID.String())
		if err != nil {
			return nil, err
		}
		counts[wallet.ID] = n
	}
	return counts, nil
}

// VerifyBalances checks that the wallet total equals its available balance
// plus every pocket balance.
func (s *WalletService) VerifyBalances(ctx context.Context, userID string, walletID uuid.UUID) error {
	if err := requireCaller(userID); err != nil {
		return err
	}
	return s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		wallet, err := loadWallet(ctx, tx, userID, walletID)
		if err != nil {
			return err
		}
		pockets, err := listPockets(ctx, tx, walletID)
		if err != nil {
			return err
		}
		return domain.CheckWalletBalances(wallet, pockets)
	})
}

func (s *WalletService) logRejection(msg string, walletID uuid.UUID, err error) {
	logRejection(s.logger, msg, err, "wallet_id", walletID)
}

// logRejection logs caller mistakes at debug level; store failures are
// logged by the transport layer.
func logRejection(logger *slog.Logger, msg string, err error, args ...any) {
	if ledgerErrors.IsStoreFailure(err) {
		return
	}
	logger.Debug(msg, append(args, "reason", err.Error())...)
}
