package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/application"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

// The mocks record the caller and the id they were invoked with and return
// the canned values.

type MockWalletService struct {
	Wallet   *domain.Wallet
	Wallets  []domain.Wallet
	Counts   map[uuid.UUID]int
	Err      error
	UserID   string
	WalletID uuid.UUID
	Input    domain.WalletInput
	Update   domain.WalletUpdate
}

func (m *MockWalletService) CreateWallet(_ context.Context, userID string, in domain.WalletInput) (*domain.Wallet, error) {
	m.UserID, m.Input = userID, in
	return m.Wallet, m.Err
}

func (m *MockWalletService) ListWallets(_ context.Context, userID string) ([]domain.Wallet, error) {
	m.UserID = userID
	return m.Wallets, m.Err
}

func (m *MockWalletService) GetWallet(_ context.Context, userID string, walletID uuid.UUID) (*domain.Wallet, error) {
	m.UserID, m.WalletID = userID, walletID
	return m.Wallet, m.Err
}

func (m *MockWalletService) UpdateWallet(_ context.Context, userID string, walletID uuid.UUID, update domain.WalletUpdate) (*domain.Wallet, error) {
	m.UserID, m.WalletID, m.Update = userID, walletID, update
	return m.Wallet, m.Err
}

func (m *MockWalletService) DeleteWallet(_ context.Context, userID string, walletID uuid.UUID) error {
	m.UserID, m.WalletID = userID, walletID
	return m.Err
}

func (m *MockWalletService) DeactivateWallet(_ context.Context, userID string, walletID uuid.UUID) (*domain.Wallet, error) {
	m.UserID, m.WalletID = userID, walletID
	return m.Wallet, m.Err
}

func (m *MockWalletService) PocketCounts(_ context.Context, userID string) (map[uuid.UUID]int, error) {
	m.UserID = userID
	return m.Counts, m.Err
}

func (m *MockWalletService) VerifyBalances(_ context.Context, userID string, walletID uuid.UUID) error {
	m.UserID, m.WalletID = userID, walletID
	return m.Err
}

type MockPocketService struct {
	Pocket   *domain.Pocket
	Pockets  []domain.Pocket
	Transfer *application.PocketTransfer
	Returned decimal.Decimal
	Err      error
	UserID   string
	PocketID uuid.UUID
	Input    domain.PocketInput
	Amount   decimal.Decimal
	Name     string
}

func (m *MockPocketService) CreatePocket(_ context.Context, userID string, in domain.PocketInput) (*domain.Pocket, error) {
	m.UserID, m.Input = userID, in
	return m.Pocket, m.Err
}

func (m *MockPocketService) ListPockets(_ context.Context, userID string, walletID uuid.UUID) ([]domain.Pocket, error) {
	m.UserID, m.Input.AccountID = userID, walletID
	return m.Pockets, m.Err
}

func (m *MockPocketService) RenamePocket(_ context.Context, userID string, pocketID uuid.UUID, name string) (*domain.Pocket, error) {
	m.UserID, m.PocketID, m.Name = userID, pocketID, name
	return m.Pocket, m.Err
}

func (m *MockPocketService) DepositToPocket(_ context.Context, userID string, pocketID uuid.UUID, amount decimal.Decimal) (*application.PocketTransfer, error) {
	m.UserID, m.PocketID, m.Amount = userID, pocketID, amount
	return m.Transfer, m.Err
}

func (m *MockPocketService) WithdrawFromPocket(_ context.Context, userID string, pocketID uuid.UUID, amount decimal.Decimal) (*application.PocketTransfer, error) {
	m.UserID, m.PocketID, m.Amount = userID, pocketID, amount
	return m.Transfer, m.Err
}

func (m *MockPocketService) DeletePocketWithTransfer(_ context.Context, userID string, pocketID uuid.UUID) (decimal.Decimal, error) {
	m.UserID, m.PocketID = userID, pocketID
	return m.Returned, m.Err
}

type MockCreditCardService struct {
	Card      *domain.CreditCard
	Cards     []domain.CreditCard
	Payment   *application.CardPayment
	Cashback  decimal.Decimal
	Err       error
	UserID    string
	CardID    uuid.UUID
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Update    domain.CreditCardUpdate
}

func (m *MockCreditCardService) CreateCreditCard(_ context.Context, userID string, _ domain.CreditCardInput) (*domain.CreditCard, error) {
	m.UserID = userID
	return m.Card, m.Err
}

func (m *MockCreditCardService) ListCreditCards(_ context.Context, userID string) ([]domain.CreditCard, error) {
	m.UserID = userID
	return m.Cards, m.Err
}

func (m *MockCreditCardService) GetCreditCard(_ context.Context, userID string, cardID uuid.UUID) (*domain.CreditCard, error) {
	m.UserID, m.CardID = userID, cardID
	return m.Card, m.Err
}

func (m *MockCreditCardService) UpdateCreditCard(_ context.Context, userID string, cardID uuid.UUID, update domain.CreditCardUpdate) (*domain.CreditCard, error) {
	m.UserID, m.CardID, m.Update = userID, cardID, update
	return m.Card, m.Err
}

func (m *MockCreditCardService) DeleteCreditCard(_ context.Context, userID string, cardID uuid.UUID) error {
	m.UserID, m.CardID = userID, cardID
	return m.Err
}

func (m *MockCreditCardService) PayCard(_ context.Context, userID string, cardID, accountID uuid.UUID, amount decimal.Decimal) (*application.CardPayment, error) {
	m.UserID, m.CardID, m.AccountID, m.Amount = userID, cardID, accountID, amount
	return m.Payment, m.Err
}

func (m *MockCreditCardService) TransferCashback(_ context.Context, userID string, cardID, accountID uuid.UUID) (decimal.Decimal, error) {
	m.UserID, m.CardID, m.AccountID = userID, cardID, accountID
	return m.Cashback, m.Err
}

type MockCategoryService struct {
	Category   *domain.Category
	Categories []domain.Category
	Deletable  bool
	Err        error
	UserID     string
	CategoryID uuid.UUID
	Update     domain.CategoryUpdate
}

func (m *MockCategoryService) CreateCategory(_ context.Context, userID string, _ domain.CategoryInput) (*domain.Category, error) {
	m.UserID = userID
	return m.Category, m.Err
}

func (m *MockCategoryService) ListCategories(_ context.Context, userID string) ([]domain.Category, error) {
	m.UserID = userID
	return m.Categories, m.Err
}

func (m *MockCategoryService) GetCategory(_ context.Context, userID string, categoryID uuid.UUID) (*domain.Category, error) {
	m.UserID, m.CategoryID = userID, categoryID
	return m.Category, m.Err
}

func (m *MockCategoryService) UpdateCategory(_ context.Context, userID string, categoryID uuid.UUID, update domain.CategoryUpdate) (*domain.Category, error) {
	m.UserID, m.CategoryID, m.Update = userID, categoryID, update
	return m.Category, m.Err
}

func (m *MockCategoryService) DeleteCategory(_ context.Context, userID string, categoryID uuid.UUID) error {
	m.UserID, m.CategoryID = userID, categoryID
	return m.Err
}

func (m *MockCategoryService) IsDeletable(_ context.Context, userID string, categoryID uuid.UUID) (bool, error) {
	m.UserID, m.CategoryID = userID, categoryID
	return m.Deletable, m.Err
}
