package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

// Dialect covers the differences between the supported SQL backends.
type Dialect struct {
	Name string
	// LockRows appends FOR UPDATE to reads made inside RunAtomic.
	LockRows bool
	numbered bool
}

var (
	Postgres = Dialect{Name: "postgres", LockRows: true, numbered: true}
	SQLite   = Dialect{Name: "sqlite3"}
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported driver %s", driver)
}

func (d Dialect) placeholder(n int) string {
	if d.numbered {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

type columnKind int

const (
	kindText columnKind = iota
	kindDecimal
	kindBool
	kindTime
)

type column struct {
	name string
	kind columnKind
}

var tableColumns = map[string][]column{
	domain.TableWallets: {
		{"id", kindText}, {"user_id", kindText}, {"name", kindText},
		{"balance_available", kindDecimal}, {"balance_total", kindDecimal},
		{"interest_rate", kindDecimal}, {"interest_payment_frequency", kindText},
		{"is_active", kindBool}, {"created_at", kindTime}, {"updated_at", kindTime},
	},
	domain.TablePockets: {
		{"id", kindText}, {"account_id", kindText}, {"name", kindText},
		{"balance", kindDecimal}, {"created_at", kindTime}, {"updated_at", kindTime},
	},
	domain.TableCreditCards: {
		{"id", kindText}, {"user_id", kindText}, {"name", kindText},
		{"credit_limit", kindDecimal}, {"current_debt", kindDecimal},
		{"cashback_percentage", kindDecimal}, {"pending_cashback", kindDecimal},
		{"total_cashback_generated", kindDecimal}, {"cashback_destination_account_id", kindText},
		{"is_active", kindBool}, {"created_at", kindTime}, {"updated_at", kindTime},
	},
	domain.TableCategories: {
		{"id", kindText}, {"user_id", kindText}, {"name", kindText},
		{"color", kindText}, {"type", kindText}, {"parent_id", kindText},
		{"created_at", kindTime}, {"updated_at", kindTime},
	},
	domain.TableTransactions: {
		{"id", kindText}, {"user_id", kindText}, {"category_id", kindText},
		{"amount", kindDecimal}, {"description", kindText},
		{"created_at", kindTime}, {"updated_at", kindTime},
	},
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements domain.RecordStore over database/sql.
type SQLStore struct {
	*sqlRunner
	db *sql.DB
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		sqlRunner: &sqlRunner{q: db, dialect: dialect, now: func() time.Time { return time.Now().UTC() }},
		db:        db,
	}
}

// RunAtomic runs fn inside a database transaction. Errors from fn are
// returned unchanged after rollback.
func (s *SQLStore) RunAtomic(ctx context.Context, fn func(tx domain.RecordTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledgerErrors.NewStoreFailure("begin", err)
	}

	runner := &sqlRunner{q: tx, dialect: s.dialect, now: s.now, inTx: true}
	if err := fn(runner); err != nil {
		safeRollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		return ledgerErrors.NewStoreFailure("commit", err)
	}
	return nil
}

func safeRollback(tx *sql.Tx) {
	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		slog.Error("Failed to rollback transaction", "error", rbErr)
	}
}

type sqlRunner struct {
	q       queryer
	dialect Dialect
	now     func() time.Time
	inTx    bool
}

func columnsOf(table string) ([]column, error) {
	cols, ok := tableColumns[table]
	if !ok {
		return nil, ledgerErrors.NewStoreFailure("lookup", fmt.Errorf("unknown table %s", table))
	}
	return cols, nil
}

func hasColumn(cols []column, name string) bool {
	for _, c := range cols {
		if c.name == name {
			return true
		}
	}
	return false
}

func kindOf(cols []column, name string) (columnKind, bool) {
	for _, c := range cols {
		if c.name == name {
			return c.kind, true
		}
	}
	return 0, false
}

func columnNames(cols []column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return strings.Join(names, ", ")
}

func (r *sqlRunner) lockSuffix() string {
	if r.inTx && r.dialect.LockRows {
		return " FOR UPDATE"
	}
	return ""
}

// where renders filter as a WHERE clause with placeholders starting at next.
func (r *sqlRunner) where(cols []column, filter domain.Filter, next int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		if !hasColumn(cols, k) {
			return "", nil, fmt.Errorf("unknown column %s", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conditions []string
	var args []any
	for _, k := range keys {
		v := sqlValue(filter[k])
		if v == nil {
			conditions = append(conditions, k+" IS NULL")
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s = %s", k, r.dialect.placeholder(next)))
		args = append(args, v)
		next++
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func (r *sqlRunner) GetRecord(ctx context.Context, table, id string) (domain.Record, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s%s", columnNames(cols), table, r.dialect.placeholder(1), r.lockSuffix())
	rows, err := r.q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("get "+table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, ledgerErrors.NewStoreFailure("get "+table, err)
		}
		return nil, ledgerErrors.NewNotFoundError(domain.EntityName(table), id)
	}
	record, err := scanRecord(rows, cols)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("get "+table, err)
	}
	return record, nil
}

func (r *sqlRunner) ListRecords(ctx context.Context, table string, filter domain.Filter, order ...domain.Order) ([]domain.Record, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return nil, err
	}
	whereClause, args, err := r.where(cols, filter, 1)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("list "+table, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", columnNames(cols), table, whereClause)
	if len(order) > 0 {
		terms := make([]string, 0, len(order))
		for _, o := range order {
			kind, ok := kindOf(cols, o.Column)
			if !ok {
				return nil, ledgerErrors.NewStoreFailure("list "+table, fmt.Errorf("unknown column %s", o.Column))
			}
			// text sorts case-insensitively on every backend; ids are UUID
			// columns on postgres, hence the cast
			term := o.Column
			if kind == kindText {
				term = "LOWER(CAST(" + o.Column + " AS TEXT))"
			}
			if o.Desc {
				term += " DESC"
			}
			terms = append(terms, term)
		}
		query += " ORDER BY " + strings.Join(terms, ", ")
	}
	query += r.lockSuffix()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("list "+table, err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows, cols)
		if err != nil {
			return nil, ledgerErrors.NewStoreFailure("list "+table, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, ledgerErrors.NewStoreFailure("list "+table, err)
	}
	return records, nil
}

func (r *sqlRunner) CountReferencing(ctx context.Context, table, foreignKey string, value any) (int, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return 0, err
	}
	whereClause, args, err := r.where(cols, domain.Filter{foreignKey: value}, 1)
	if err != nil {
		return 0, ledgerErrors.NewStoreFailure("count "+table, err)
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, whereClause)
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, ledgerErrors.NewStoreFailure("count "+table, err)
	}
	return count, nil
}

func (r *sqlRunner) InsertRecord(ctx context.Context, table string, fields domain.Record) (domain.Record, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return nil, err
	}

	values := make(domain.Record, len(fields)+3)
	for k, v := range fields {
		if !hasColumn(cols, k) {
			return nil, ledgerErrors.NewStoreFailure("insert "+table, fmt.Errorf("unknown column %s", k))
		}
		values[k] = sqlValue(v)
	}
	id, _ := values["id"].(string)
	if id == "" {
		id = uuid.NewString()
		values["id"] = id
	}
	now := r.now()
	values["created_at"] = now
	values["updated_at"] = now

	var names, placeholders []string
	var args []any
	for _, c := range cols {
		v, ok := values[c.name]
		if !ok {
			continue
		}
		names = append(names, c.name)
		args = append(args, v)
		placeholders = append(placeholders, r.dialect.placeholder(len(args)))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, ledgerErrors.NewStoreFailure("insert "+table, err)
	}
	return r.GetRecord(ctx, table, id)
}

// set renders the assignments of an update, always bumping updated_at.
func (r *sqlRunner) set(cols []column, fields domain.Record) (string, []any, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "id" || k == "created_at" || k == "updated_at" {
			continue
		}
		if !hasColumn(cols, k) {
			return "", nil, fmt.Errorf("unknown column %s", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	assignments := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		args = append(args, sqlValue(fields[k]))
		assignments = append(assignments, fmt.Sprintf("%s = %s", k, r.dialect.placeholder(len(args))))
	}
	args = append(args, r.now())
	assignments = append(assignments, fmt.Sprintf("updated_at = %s", r.dialect.placeholder(len(args))))
	return strings.Join(assignments, ", "), args, nil
}

func (r *sqlRunner) UpdateRecord(ctx context.Context, table, id string, fields domain.Record) (domain.Record, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return nil, err
	}
	assignments, args, err := r.set(cols, fields)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("update "+table, err)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", table, assignments, r.dialect.placeholder(len(args)))

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("update "+table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, ledgerErrors.NewStoreFailure("update "+table, err)
	}
	if affected == 0 {
		return nil, ledgerErrors.NewNotFoundError(domain.EntityName(table), id)
	}
	return r.GetRecord(ctx, table, id)
}

func (r *sqlRunner) UpdateWhere(ctx context.Context, table string, filter domain.Filter, fields domain.Record) (int, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return 0, err
	}
	assignments, args, err := r.set(cols, fields)
	if err != nil {
		return 0, ledgerErrors.NewStoreFailure("update "+table, err)
	}
	whereClause, whereArgs, err := r.where(cols, filter, len(args)+1)
	if err != nil {
		return 0, ledgerErrors.NewStoreFailure("update "+table, err)
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", table, assignments, whereClause)
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, ledgerErrors.NewStoreFailure("update "+table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, ledgerErrors.NewStoreFailure("update "+table, err)
	}
	return int(affected), nil
}

func (r *sqlRunner) DeleteRecord(ctx context.Context, table, id string) error {
	if _, err := columnsOf(table); err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = %s", table, r.dialect.placeholder(1))
	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return ledgerErrors.NewStoreFailure("delete "+table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ledgerErrors.NewStoreFailure("delete "+table, err)
	}
	if affected == 0 {
		return ledgerErrors.NewNotFoundError(domain.EntityName(table), id)
	}
	return nil
}

func (r *sqlRunner) DeleteWhere(ctx context.Context, table string, filter domain.Filter) (int, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, ledgerErrors.NewStoreFailure("delete "+table, fmt.Errorf("refusing to delete without a filter"))
	}
	whereClause, args, err := r.where(cols, filter, 1)
	if err != nil {
		return 0, ledgerErrors.NewStoreFailure("delete "+table, err)
	}

	result, err := r.q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s%s", table, whereClause), args...)
	if err != nil {
		return 0, ledgerErrors.NewStoreFailure("delete "+table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, ledgerErrors.NewStoreFailure("delete "+table, err)
	}
	return int(affected), nil
}

func scanRecord(rows *sql.Rows, cols []column) (domain.Record, error) {
	dest := make([]any, len(cols))
	for i, c := range cols {
		switch c.kind {
		case kindDecimal:
			dest[i] = &decimal.NullDecimal{}
		case kindBool:
			dest[i] = &sql.NullBool{}
		case kindTime:
			dest[i] = &sql.NullTime{}
		default:
			dest[i] = &sql.NullString{}
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	record := make(domain.Record, len(cols))
	for i, c := range cols {
		switch v := dest[i].(type) {
		case *decimal.NullDecimal:
			record[c.name] = nil
			if v.Valid {
				record[c.name] = v.Decimal
			}
		case *sql.NullBool:
			record[c.name] = nil
			if v.Valid {
				record[c.name] = v.Bool
			}
		case *sql.NullTime:
			record[c.name] = nil
			if v.Valid {
				record[c.name] = v.Time.UTC()
			}
		case *sql.NullString:
			record[c.name] = nil
			if v.Valid {
				record[c.name] = v.String
			}
		}
	}
	return record, nil
}

// sqlValue converts record values into driver arguments.
func sqlValue(v any) any {
	switch val := v.(type) {
	case uuid.UUID:
		return val.String()
	case *uuid.UUID:
		if val == nil {
			return nil
		}
		return val.String()
	case *string:
		if val == nil {
			return nil
		}
		return *val
	case decimal.Decimal:
		return val.String()
	case *decimal.Decimal:
		if val == nil {
			return nil
		}
		return val.String()
	case int:
		return decimal.NewFromInt(int64(val)).String()
	case int64:
		return decimal.NewFromInt(val).String()
	}
	return v
}
