package domain

import "context"

// Tables known to the ledger. transactions is owned by another part of the
// application; the ledger only counts references into it.
const (
	TableWallets      = "bank_accounts"
	TablePockets      = "pockets"
	TableCreditCards  = "credit_cards"
	TableCategories   = "categories"
	TableTransactions = "transactions"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Filter matches records whose columns equal every given value.
type Filter map[string]any

// Order sorts listed records by a column.
type Order struct {
	Column string
	Desc   bool
}

type RecordReader interface {
	GetRecord(ctx context.Context, table, id string) (Record, error)
	ListRecords(ctx context.Context, table string, filter Filter, order ...Order) ([]Record, error)
	CountReferencing(ctx context.Context, table, foreignKey string, value any) (int, error)
}

type RecordWriter interface {
	InsertRecord(ctx context.Context, table string, fields Record) (Record, error)
	UpdateRecord(ctx context.Context, table, id string, fields Record) (Record, error)
	UpdateWhere(ctx context.Context, table string, filter Filter, fields Record) (int, error)
	DeleteRecord(ctx context.Context, table, id string) error
	DeleteWhere(ctx context.Context, table string, filter Filter) (int, error)
}

// RecordTx is the view of the store available inside RunAtomic.
type RecordTx interface {
	RecordReader
	RecordWriter
}

// RecordStore is the persistence boundary of the ledger.
//
// RunAtomic executes fn as one all-or-nothing unit: every write made through tx
// is applied together or not at all. An error returned by fn rolls the unit back
// and is returned unchanged.
type RecordStore interface {
	RecordTx
	RunAtomic(ctx context.Context, fn func(tx RecordTx) error) error
}

// EntityName is the name used for a table's rows in errors.
func EntityName(table string) string {
	switch table {
	case TableWallets:
		return "wallet"
	case TablePockets:
		return "pocket"
	case TableCreditCards:
		return "credit card"
	case TableCategories:
		return "category"
	case TableTransactions:
		return "transaction"
	}
	return table
}
