package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

var errInvalidCashbackDestination = ledgerErrors.NewValidationError("Cashback destination must be one of your wallets")

// CardPayment is the state of the card and the paying wallet after a payment.
type CardPayment struct {
	Card   *domain.CreditCard `json:"card"`
	Wallet *domain.Wallet     `json:"wallet"`
	Amount decimal.Decimal    `json:"amount"`
}

type CreditCardService struct {
	store  domain.RecordStore
	logger *slog.Logger
}

func NewCreditCardService(store domain.RecordStore, logger *slog.Logger) *CreditCardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreditCardService{store: store, logger: logger.With("service", "credit_card")}
}

// CreateCreditCard registers a card with no debt and no pending cashback.
func (s *CreditCardService) CreateCreditCard(ctx context.Context, userID string, in domain.CreditCardInput) (*domain.CreditCard, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *domain.CreditCard
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		if in.CashbackDestinationAccountID != nil {
			if err := checkDestination(ctx, tx, userID, *in.CashbackDestinationAccountID); err != nil {
				return err
			}
		}
		rec, err := tx.InsertRecord(ctx, domain.TableCreditCards, domain.Record{
			"user_id":                         userID,
			"name":                            in.Name,
			"credit_limit":                    in.CreditLimit,
			"current_debt":                    decimal.Zero,
			"cashback_percentage":             in.CashbackPercentage,
			"pending_cashback":                decimal.Zero,
			"total_cashback_generated":        decimal.Zero,
			"cashback_destination_account_id": domain.UUIDValue(in.CashbackDestinationAccountID),
			"is_active":                       true,
		})
		if err != nil {
			return err
		}
		if created, err = domain.CreditCardFromRecord(rec); err != nil {
			return ledgerErrors.NewStoreFailure("decode credit card", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Credit card created", "card_id", created.ID, "limit", created.CreditLimit.String())
	return created, nil
}

// ListCreditCards returns the caller's active cards, newest first.
func (s *CreditCardService) ListCreditCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, domain.TableCreditCards,
		domain.Filter{"user_id": userID, "is_active": true},
		domain.Order{Column: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	cards := make([]domain.CreditCard, 0, len(records))
	for _, rec := range records {
		card, err := domain.CreditCardFromRecord(rec)
		if err != nil {
			return nil, ledgerErrors.NewStoreFailure("decode credit card", err)
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

func (s *CreditCardService) GetCreditCard(ctx context.Context, userID string, cardID uuid.UUID) (*domain.CreditCard, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	return loadCreditCard(ctx, s.store, userID, cardID)
}

// UpdateCreditCard applies a partial update. The limit may not drop below the
// current debt; a null destination clears it.
func (s *CreditCardService) UpdateCreditCard(ctx context.Context, userID string, cardID uuid.UUID, update domain.CreditCardUpdate) (*domain.CreditCard, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.CreditCard
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		card, err := loadCreditCard(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}

		fields := domain.Record{}
		if update.Name != nil {
			fields["name"] = *update.Name
		}
		if update.CreditLimit != nil {
			if err := domain.CheckCreditLimit(card, *update.CreditLimit); err != nil {
				return err
			}
			fields["credit_limit"] = *update.CreditLimit
		}
		if update.CashbackPercentage != nil {
			fields["cashback_percentage"] = *update.CashbackPercentage
		}
		if update.CashbackDestinationAccountID.IsSet() {
			if destination, ok := update.CashbackDestinationAccountID.Get(); ok {
				if err := checkDestination(ctx, tx, userID, destination); err != nil {
					return err
				}
			}
			fields["cashback_destination_account_id"] = domain.UUIDValue(update.CashbackDestinationAccountID.Ptr())
		}

		rec, err := tx.UpdateRecord(ctx, domain.TableCreditCards, cardID.String(), fields)
		if err != nil {
			return err
		}
		if updated, err = domain.CreditCardFromRecord(rec); err != nil {
			return ledgerErrors.NewStoreFailure("decode credit card", err)
		}
		return nil
	})
	if err != nil {
		logRejection(s.logger, "Credit card update rejected", err, "card_id", cardID)
		return nil, err
	}
	s.logger.Info("Credit card updated", "card_id", cardID)
	return updated, nil
}

// DeleteCreditCard removes a card without debt or pending cashback. Debt is
// reported before cashback.
func (s *CreditCardService) DeleteCreditCard(ctx context.Context, userID string, cardID uuid.UUID) error {
	if err := requireCaller(userID); err != nil {
		return err
	}

	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		card, err := loadCreditCard(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}
		if err := domain.CheckCardDeletable(card); err != nil {
			return err
		}
		return tx.DeleteRecord(ctx, domain.TableCreditCards, cardID.String())
	})
	if err != nil {
		logRejection(s.logger, "Credit card deletion rejected", err, "card_id", cardID)
		return err
	}
	s.logger.Info("Credit card deleted", "card_id", cardID)
	return nil
}

// PayCard pays amount of the card debt from the wallet. The money leaves the
// wallet, so both its available balance and its total drop.
func (s *CreditCardService) PayCard(ctx context.Context, userID string, cardID, accountID uuid.UUID, amount decimal.Decimal) (*CardPayment, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	payment := &CardPayment{Amount: amount}
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		card, err := loadCreditCard(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}
		wallet, err := loadWallet(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransferAmount(amount, card.CurrentDebt, ledgerErrors.ErrAmountExceedsDebt); err != nil {
			return err
		}
		if err := domain.CheckTransferAmount(amount, wallet.BalanceAvailable, ledgerErrors.ErrInsufficientBalance); err != nil {
			return err
		}

		walletRec, err := tx.UpdateRecord(ctx, domain.TableWallets, accountID.String(), domain.Record{
			"balance_available": wallet.BalanceAvailable.Sub(amount),
			"balance_total":     wallet.BalanceTotal.Sub(amount),
		})
		if err != nil {
			return err
		}
		cardRec, err := tx.UpdateRecord(ctx, domain.TableCreditCards, cardID.String(), domain.Record{
			"current_debt": card.CurrentDebt.Sub(amount),
		})
		if err != nil {
			return err
		}

		if payment.Wallet, err = domain.WalletFromRecord(walletRec); err != nil {
			return ledgerErrors.NewStoreFailure("decode wallet", err)
		}
		if payment.Card, err = domain.CreditCardFromRecord(cardRec); err != nil {
			return ledgerErrors.NewStoreFailure("decode credit card", err)
		}
		return nil
	})
	if err != nil {
		logRejection(s.logger, "Card payment rejected", err, "card_id", cardID, "wallet_id", accountID, "amount", amount.String())
		return nil, err
	}
	s.logger.Info("Card payment", "card_id", cardID, "wallet_id", accountID, "amount", amount.String())
	return payment, nil
}

// TransferCashback moves the whole pending cashback of the card into the
// wallet and returns the amount moved.
func (s *CreditCardService) TransferCashback(ctx context.Context, userID string, cardID, accountID uuid.UUID) (decimal.Decimal, error) {
	if err := requireCaller(userID); err != nil {
		return decimal.Zero, err
	}

	var amount decimal.Decimal
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		card, err := loadCreditCard(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}
		wallet, err := loadWallet(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		if !card.PendingCashback.IsPositive() {
			return ledgerErrors.ErrNoPendingCashback
		}
		amount = card.PendingCashback

		if _, err := tx.UpdateRecord(ctx, domain.TableWallets, accountID.String(), domain.Record{
			"balance_available": wallet.BalanceAvailable.Add(amount),
			"balance_total":     wallet.BalanceTotal.Add(amount),
		}); err != nil {
			return err
		}
		_, err = tx.UpdateRecord(ctx, domain.TableCreditCards, cardID.String(), domain.Record{
			"pending_cashback": decimal.Zero,
		})
		return err
	})
	if err != nil {
		logRejection(s.logger, "Cashback transfer rejected", err, "card_id", cardID, "wallet_id", accountID)
		return decimal.Zero, err
	}
	s.logger.Info("Cashback transferred", "card_id", cardID, "wallet_id", accountID, "amount", amount.String())
	return amount, nil
}

func checkDestination(ctx context.Context, r domain.RecordReader, userID string, walletID uuid.UUID) error {
	if _, err := loadWallet(ctx, r, userID, walletID); err != nil {
		if ledgerErrors.IsNotFound(err) {
			return errInvalidCashbackDestination
		}
		return err
	}
	return nil
}
