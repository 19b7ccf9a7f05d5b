package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/sebuszqo/PocketLedger/internal/ledger/infrastructure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositWithdraw_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wallet(t, testUser, 100000)
	p := f.pocket(t, testUser, w.ID)

	deposit, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, dec(40000))
	require.NoError(t, err)
	assert.True(t, deposit.Wallet.BalanceAvailable.Equal(dec(60000)))
	assert.True(t, deposit.Wallet.BalanceTotal.Equal(dec(100000)))
	assert.True(t, deposit.Pocket.Balance.Equal(dec(40000)))
	assert.True(t, deposit.Amount.Equal(dec(40000)))
	f.requireBalanced(t, testUser, w.ID)

	withdrawal, err := f.pockets.WithdrawFromPocket(ctx, testUser, p.ID, dec(40000))
	require.NoError(t, err)
	assert.True(t, withdrawal.Wallet.BalanceAvailable.Equal(dec(100000)))
	assert.True(t, withdrawal.Wallet.BalanceTotal.Equal(dec(100000)))
	assert.True(t, withdrawal.Pocket.Balance.IsZero())
	f.requireBalanced(t, testUser, w.ID)
}

func TestDepositWithdraw_RoundTripConserves(t *testing.T) {
	amounts := []string{"0.01", "1", "999.99", "50000"}
	for _, a := range amounts {
		t.Run(a, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			w := f.wallet(t, testUser, 50000)
			p := f.pocket(t, testUser, w.ID)
			amount := decimal.RequireFromString(a)

			_, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, amount)
			require.NoError(t, err)
			result, err := f.pockets.WithdrawFromPocket(ctx, testUser, p.ID, amount)
			require.NoError(t, err)

			assert.True(t, result.Wallet.BalanceAvailable.Equal(dec(50000)))
			assert.True(t, result.Pocket.Balance.IsZero())
			f.requireBalanced(t, testUser, w.ID)
		})
	}
}

func TestDepositToPocket_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wallet(t, testUser, 100)
	p := f.pocket(t, testUser, w.ID)

	tests := []struct {
		name   string
		amount decimal.Decimal
		want   error
	}{
		{"zero", decimal.Zero, ledgerErrors.ErrAmountNotPositive},
		{"negative", dec(-5), ledgerErrors.ErrAmountNotPositive},
		{"above available", decimal.RequireFromString("100.01"), ledgerErrors.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, tt.amount)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, ledgerErrors.IsInvariantViolation(err))
		})
	}

	// exactly the available balance is allowed
	_, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, dec(100))
	require.NoError(t, err)
	f.requireBalanced(t, testUser, w.ID)
}

func TestPocketTransfers_RejectUnstorableAmounts(t *testing.T) {
	for _, a := range []string{"0.005", "1e13"} {
		t.Run(a, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			w := f.wallet(t, testUser, 100)
			p := f.pocket(t, testUser, w.ID)
			_, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, dec(50))
			require.NoError(t, err)
			amount := decimal.RequireFromString(a)

			_, err = f.pockets.DepositToPocket(ctx, testUser, p.ID, amount)
			assert.True(t, ledgerErrors.IsValidationError(err))
			_, err = f.pockets.WithdrawFromPocket(ctx, testUser, p.ID, amount)
			assert.True(t, ledgerErrors.IsValidationError(err))

			wallet, err := f.wallets.GetWallet(ctx, testUser, w.ID)
			require.NoError(t, err)
			assert.True(t, wallet.BalanceAvailable.Equal(dec(50)))
			assert.True(t, wallet.BalanceTotal.Equal(dec(100)))
			f.requireBalanced(t, testUser, w.ID)
		})
	}
}

func TestDepositToPocket_CentStoreStaysBalanced(t *testing.T) {
	f := newFixtureWithStore(&centStore{RecordStore: infrastructure.NewMemoryStore()})
	ctx := context.Background()
	w := f.wallet(t, testUser, 10)
	p := f.pocket(t, testUser, w.ID)

	_, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, decimal.RequireFromString("0.005"))
	assert.True(t, ledgerErrors.IsValidationError(err))

	deposit, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, decimal.RequireFromString("0.01"))
	require.NoError(t, err)
	assert.True(t, deposit.Pocket.Balance.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, deposit.Wallet.BalanceAvailable.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, deposit.Wallet.BalanceTotal.Equal(dec(10)))
	f.requireBalanced(t, testUser, w.ID)
}

func TestWithdrawFromPocket_InsufficientPocket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wallet(t, testUser, 100)
	p := f.pocket(t, testUser, w.ID)
	_, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, dec(30))
	require.NoError(t, err)

	_, err = f.pockets.WithdrawFromPocket(ctx, testUser, p.ID, dec(31))
	assert.ErrorIs(t, err, ledgerErrors.ErrInsufficientPocket)
	assert.EqualError(t, err, "insufficient balance in pocket")
}

func TestDepositToPocket_StoreFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wallet(t, testUser, 100000)
	p := f.pocket(t, testUser, w.ID)

	// the wallet side is written first, the pocket side fails
	failing := newFixtureWithStore(&failingStore{RecordStore: f.store, op: "update", table: domain.TablePockets})
	_, err := failing.pockets.DepositToPocket(ctx, testUser, p.ID, dec(40000))
	require.Error(t, err)
	assert.True(t, ledgerErrors.IsStoreFailure(err))

	wallet, err := f.wallets.GetWallet(ctx, testUser, w.ID)
	require.NoError(t, err)
	assert.True(t, wallet.BalanceAvailable.Equal(dec(100000)))
	f.requireBalanced(t, testUser, w.ID)
}

func TestPocketOperations_OtherUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wallet(t, testUser, 100)
	p := f.pocket(t, testUser, w.ID)

	_, err := f.pockets.DepositToPocket(ctx, otherUser, p.ID, dec(10))
	assert.True(t, ledgerErrors.IsNotFound(err))

	_, err = f.pockets.CreatePocket(ctx, otherUser, domain.PocketInput{AccountID: w.ID, Name: "Stolen"})
	assert.True(t, ledgerErrors.IsNotFound(err))

	_, err = f.pockets.ListPockets(ctx, otherUser, w.ID)
	assert.True(t, ledgerErrors.IsNotFound(err))
}

func TestPocketOperations_NotAuthenticated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.pockets.DepositToPocket(ctx, "", uuid.New(), dec(1))
	assert.ErrorIs(t, err, ledgerErrors.ErrNotAuthenticated)
	_, err = f.pockets.DeletePocketWithTransfer(ctx, "", uuid.New())
	assert.ErrorIs(t, err, ledgerErrors.ErrNotAuthenticated)
}

func TestDeletePocketWithTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wallet(t, testUser, 1000)
	p := f.pocket(t, testUser, w.ID)
	_, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, dec(400))
	require.NoError(t, err)

	moved, err := f.pockets.DeletePocketWithTransfer(ctx, testUser, p.ID)
	require.NoError(t, err)
	assert.True(t, moved.Equal(dec(400)))

	wallet, err := f.wallets.GetWallet(ctx, testUser, w.ID)
	require.NoError(t, err)
	assert.True(t, wallet.BalanceAvailable.Equal(dec(1000)))
	assert.True(t, wallet.BalanceTotal.Equal(dec(1000)))
	f.requireBalanced(t, testUser, w.ID)

	_, err = f.pockets.DeletePocketWithTransfer(ctx, testUser, p.ID)
	assert.True(t, ledgerErrors.IsNotFound(err))
}

func TestDeletePocketWithTransfer_StoreFailureKeepsPocket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wallet(t, testUser, 1000)
	p := f.pocket(t, testUser, w.ID)
	_, err := f.pockets.DepositToPocket(ctx, testUser, p.ID, dec(400))
	require.NoError(t, err)

	failing := newFixtureWithStore(&failingStore{RecordStore: f.store, op: "delete", table: domain.TablePockets})
	_, err = failing.pockets.DeletePocketWithTransfer(ctx, testUser, p.ID)
	assert.True(t, ledgerErrors.IsStoreFailure(err))

	wallet, err := f.wallets.GetWallet(ctx, testUser, w.ID)
	require.NoError(t, err)
	assert.True(t, wallet.BalanceAvailable.Equal(dec(600)))
	f.requireBalanced(t, testUser, w.ID)
}

func TestListAndRenamePockets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.wallet(t, testUser, 0)
	first := f.pocket(t, testUser, w.ID)
	f.pocket(t, testUser, w.ID)

	pockets, err := f.pockets.ListPockets(ctx, testUser, w.ID)
	require.NoError(t, err)
	require.Len(t, pockets, 2)
	assert.Equal(t, first.ID, pockets[0].ID)

	renamed, err := f.pockets.RenamePocket(ctx, testUser, first.ID, "Emergency fund")
	require.NoError(t, err)
	assert.Equal(t, "Emergency fund", renamed.Name)

	_, err = f.pockets.RenamePocket(ctx, testUser, first.ID, "x")
	assert.True(t, ledgerErrors.IsValidationError(err))
}
