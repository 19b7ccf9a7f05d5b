package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	database "github.com/sebuszqo/PocketLedger/db"
	"github.com/sebuszqo/PocketLedger/internal/config"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/sebuszqo/PocketLedger/internal/ledger/infrastructure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testUser  = "user-1"
	otherUser = "user-2"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func strPtr(s string) *string {
	return &s
}

type fixture struct {
	store      domain.RecordStore
	wallets    *WalletService
	pockets    *PocketService
	cards      *CreditCardService
	categories *CategoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(infrastructure.NewMemoryStore())
}

func newSQLiteFixture(t *testing.T) *fixture {
	t.Helper()
	svc, err := database.NewDBService(&config.Config{
		DBDriver:     config.DriverSQLite,
		DBConnection: filepath.Join(t.TempDir(), "ledger.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	require.NoError(t, svc.Migrate(context.Background()))
	return newFixtureWithStore(infrastructure.NewSQLStore(svc.DB, infrastructure.SQLite))
}

func newFixtureWithStore(store domain.RecordStore) *fixture {
	return &fixture{
		store:      store,
		wallets:    NewWalletService(store, testLogger),
		pockets:    NewPocketService(store, testLogger),
		cards:      NewCreditCardService(store, testLogger),
		categories: NewCategoryService(store, testLogger),
	}
}

func (f *fixture) wallet(t *testing.T, userID string, balance int64) *domain.Wallet {
	t.Helper()
	w, err := f.wallets.CreateWallet(context.Background(), userID, domain.WalletInput{
		Name:             "Main account",
		BalanceAvailable: dec(balance),
	})
	require.NoError(t, err)
	return w
}

func (f *fixture) pocket(t *testing.T, userID string, walletID uuid.UUID) *domain.Pocket {
	t.Helper()
	p, err := f.pockets.CreatePocket(context.Background(), userID, domain.PocketInput{AccountID: walletID, Name: "Holiday"})
	require.NoError(t, err)
	return p
}

// card creates a card and forces its debt and pending cashback, which are
// produced by card spending outside this package.
func (f *fixture) card(t *testing.T, userID string, limit, debt, cashback int64) *domain.CreditCard {
	t.Helper()
	ctx := context.Background()
	c, err := f.cards.CreateCreditCard(ctx, userID, domain.CreditCardInput{
		Name:               "Visa Gold",
		CreditLimit:        dec(limit),
		CashbackPercentage: decimal.NewFromFloat(1.5),
	})
	require.NoError(t, err)
	_, err = f.store.UpdateRecord(ctx, domain.TableCreditCards, c.ID.String(), domain.Record{
		"current_debt":     dec(debt),
		"pending_cashback": dec(cashback),
	})
	require.NoError(t, err)
	c, err = f.cards.GetCreditCard(ctx, userID, c.ID)
	require.NoError(t, err)
	return c
}

func (f *fixture) category(t *testing.T, userID string, in domain.CategoryInput) *domain.Category {
	t.Helper()
	c, err := f.categories.CreateCategory(context.Background(), userID, in)
	require.NoError(t, err)
	return c
}

func (f *fixture) transaction(t *testing.T, userID string, categoryID uuid.UUID) {
	t.Helper()
	_, err := f.store.InsertRecord(context.Background(), domain.TableTransactions, domain.Record{
		"user_id":     userID,
		"category_id": categoryID.String(),
		"amount":      dec(100),
	})
	require.NoError(t, err)
}

// requireBalanced asserts total == available + sum of pocket balances.
func (f *fixture) requireBalanced(t *testing.T, userID string, walletID uuid.UUID) {
	t.Helper()
	require.NoError(t, f.wallets.VerifyBalances(context.Background(), userID, walletID))
}

var errConnectionReset = errors.New("connection reset by peer")

// failingStore fails every write of one kind on one table made inside
// RunAtomic, after the writes before it have been applied.
type failingStore struct {
	domain.RecordStore
	op    string
	table string
}

func (s *failingStore) RunAtomic(ctx context.Context, fn func(tx domain.RecordTx) error) error {
	return s.RecordStore.RunAtomic(ctx, func(tx domain.RecordTx) error {
		return fn(&failingTx{RecordTx: tx, op: s.op, table: s.table})
	})
}

type failingTx struct {
	domain.RecordTx
	op    string
	table string
}

func (tx *failingTx) fail(op, table string) error {
	if op == tx.op && table == tx.table {
		return ledgerErrors.NewStoreFailure(op+" "+table, errConnectionReset)
	}
	return nil
}

func (tx *failingTx) UpdateRecord(ctx context.Context, table, id string, fields domain.Record) (domain.Record, error) {
	if err := tx.fail("update", table); err != nil {
		return nil, err
	}
	return tx.RecordTx.UpdateRecord(ctx, table, id, fields)
}

func (tx *failingTx) UpdateWhere(ctx context.Context, table string, filter domain.Filter, fields domain.Record) (int, error) {
	if err := tx.fail("update_where", table); err != nil {
		return 0, err
	}
	return tx.RecordTx.UpdateWhere(ctx, table, filter, fields)
}

func (tx *failingTx) DeleteRecord(ctx context.Context, table, id string) error {
	if err := tx.fail("delete", table); err != nil {
		return err
	}
	return tx.RecordTx.DeleteRecord(ctx, table, id)
}

// centStore rounds every decimal it writes to two places, as a NUMERIC(15, 2)
// column does.
type centStore struct {
	domain.RecordStore
}

func (s *centStore) InsertRecord(ctx context.Context, table string, fields domain.Record) (domain.Record, error) {
	return s.RecordStore.InsertRecord(ctx, table, roundCents(fields))
}

func (s *centStore) UpdateRecord(ctx context.Context, table, id string, fields domain.Record) (domain.Record, error) {
	return s.RecordStore.UpdateRecord(ctx, table, id, roundCents(fields))
}

func (s *centStore) RunAtomic(ctx context.Context, fn func(tx domain.RecordTx) error) error {
	return s.RecordStore.RunAtomic(ctx, func(tx domain.RecordTx) error {
		return fn(&centTx{RecordTx: tx})
	})
}

type centTx struct {
	domain.RecordTx
}

func (tx *centTx) InsertRecord(ctx context.Context, table string, fields domain.Record) (domain.Record, error) {
	return tx.RecordTx.InsertRecord(ctx, table, roundCents(fields))
}

func (tx *centTx) UpdateRecord(ctx context.Context, table, id string, fields domain.Record) (domain.Record, error) {
	return tx.RecordTx.UpdateRecord(ctx, table, id, roundCents(fields))
}

func roundCents(fields domain.Record) domain.Record {
	rounded := make(domain.Record, len(fields))
	for k, v := range fields {
		if d, ok := v.(decimal.Decimal); ok {
			v = d.Round(2)
		}
		rounded[k] = v
	}
	return rounded
}
