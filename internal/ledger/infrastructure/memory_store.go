package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

// MemoryStore keeps every table in process memory. RunAtomic holds the write
// lock for the whole unit and works on a copy of the tables, so a failing unit
// leaves nothing behind.
type MemoryStore struct {
	mu     sync.RWMutex
	tables memoryTables
	now    func() time.Time
}

type memoryTable struct {
	rows  map[string]domain.Record
	order []string
}

type memoryTables map[string]*memoryTable

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(memoryTables),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) GetRecord(ctx context.Context, table, id string) (domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view(m.tables).GetRecord(ctx, table, id)
}

func (m *MemoryStore) ListRecords(ctx context.Context, table string, filter domain.Filter, order ...domain.Order) ([]domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view(m.tables).ListRecords(ctx, table, filter, order...)
}

func (m *MemoryStore) CountReferencing(ctx context.Context, table, foreignKey string, value any) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view(m.tables).CountReferencing(ctx, table, foreignKey, value)
}

func (m *MemoryStore) InsertRecord(ctx context.Context, table string, fields domain.Record) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view(m.tables).InsertRecord(ctx, table, fields)
}

func (m *MemoryStore) UpdateRecord(ctx context.Context, table, id string, fields domain.Record) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view(m.tables).UpdateRecord(ctx, table, id, fields)
}

func (m *MemoryStore) UpdateWhere(ctx context.Context, table string, filter domain.Filter, fields domain.Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view(m.tables).UpdateWhere(ctx, table, filter, fields)
}

func (m *MemoryStore) DeleteRecord(ctx context.Context, table, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view(m.tables).DeleteRecord(ctx, table, id)
}

func (m *MemoryStore) DeleteWhere(ctx context.Context, table string, filter domain.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view(m.tables).DeleteWhere(ctx, table, filter)
}

func (m *MemoryStore) RunAtomic(ctx context.Context, fn func(tx domain.RecordTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ledgerErrors.NewStoreFailure("begin", err)
	}
	working := m.tables.clone()
	if err := fn(m.view(working)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return ledgerErrors.NewStoreFailure("commit", err)
	}
	m.tables = working
	return nil
}

func (m *MemoryStore) view(tables memoryTables) *memoryView {
	return &memoryView{tables: tables, now: m.now}
}

// memoryView runs record operations against one set of tables without
// locking; callers hold the store lock.
type memoryView struct {
	tables memoryTables
	now    func() time.Time
}

// lookup never creates a table, so it is safe under the read lock.
func (v *memoryView) lookup(name string) *memoryTable {
	if t, ok := v.tables[name]; ok {
		return t
	}
	return &memoryTable{rows: map[string]domain.Record{}}
}

func (v *memoryView) table(name string) *memoryTable {
	t, ok := v.tables[name]
	if !ok {
		t = &memoryTable{rows: make(map[string]domain.Record)}
		v.tables[name] = t
	}
	return t
}

func (v *memoryView) GetRecord(_ context.Context, table, id string) (domain.Record, error) {
	row, ok := v.lookup(table).rows[id]
	if !ok {
		return nil, ledgerErrors.NewNotFoundError(domain.EntityName(table), id)
	}
	return copyRecord(row), nil
}

func (v *memoryView) ListRecords(_ context.Context, table string, filter domain.Filter, order ...domain.Order) ([]domain.Record, error) {
	t := v.lookup(table)
	records := make([]domain.Record, 0)
	for _, id := range t.order {
		row := t.rows[id]
		if matches(row, filter) {
			records = append(records, copyRecord(row))
		}
	}
	if len(order) > 0 {
		sort.SliceStable(records, func(i, j int) bool {
			for _, o := range order {
				c := compareValues(records[i][o.Column], records[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	return records, nil
}

func (v *memoryView) CountReferencing(_ context.Context, table, foreignKey string, value any) (int, error) {
	count := 0
	for _, row := range v.lookup(table).rows {
		if valuesEqual(row[foreignKey], normalizeValue(value)) {
			count++
		}
	}
	return count, nil
}

func (v *memoryView) InsertRecord(ctx context.Context, table string, fields domain.Record) (domain.Record, error) {
	t := v.table(table)
	row := make(domain.Record, len(fields)+3)
	for k, val := range fields {
		row[k] = normalizeValue(val)
	}
	id, _ := row["id"].(string)
	if id == "" {
		id = uuid.NewString()
		row["id"] = id
	}
	if _, exists := t.rows[id]; exists {
		return nil, ledgerErrors.NewStoreFailure("insert", fmt.Errorf("duplicate id %s in %s", id, table))
	}
	now := v.now()
	row["created_at"] = now
	row["updated_at"] = now
	t.rows[id] = row
	t.order = append(t.order, id)
	return v.GetRecord(ctx, table, id)
}

func (v *memoryView) UpdateRecord(ctx context.Context, table, id string, fields domain.Record) (domain.Record, error) {
	row, ok := v.table(table).rows[id]
	if !ok {
		return nil, ledgerErrors.NewNotFoundError(domain.EntityName(table), id)
	}
	v.apply(row, fields)
	return v.GetRecord(ctx, table, id)
}

func (v *memoryView) UpdateWhere(_ context.Context, table string, filter domain.Filter, fields domain.Record) (int, error) {
	count := 0
	for _, row := range v.table(table).rows {
		if matches(row, filter) {
			v.apply(row, fields)
			count++
		}
	}
	return count, nil
}

func (v *memoryView) DeleteRecord(_ context.Context, table, id string) error {
	t := v.table(table)
	if _, ok := t.rows[id]; !ok {
		return ledgerErrors.NewNotFoundError(domain.EntityName(table), id)
	}
	t.remove(id)
	return nil
}

func (v *memoryView) DeleteWhere(_ context.Context, table string, filter domain.Filter) (int, error) {
	t := v.table(table)
	var ids []string
	for _, id := range t.order {
		if matches(t.rows[id], filter) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		t.remove(id)
	}
	return len(ids), nil
}

func (v *memoryView) apply(row, fields domain.Record) {
	for k, val := range fields {
		if k == "id" || k == "created_at" {
			continue
		}
		row[k] = normalizeValue(val)
	}
	row["updated_at"] = v.now()
}

func (t *memoryTable) remove(id string) {
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (tables memoryTables) clone() memoryTables {
	out := make(memoryTables, len(tables))
	for name, t := range tables {
		c := &memoryTable{
			rows:  make(map[string]domain.Record, len(t.rows)),
			order: append([]string(nil), t.order...),
		}
		for id, row := range t.rows {
			c.rows[id] = copyRecord(row)
		}
		out[name] = c
	}
	return out
}

func copyRecord(r domain.Record) domain.Record {
	out := make(domain.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func matches(row domain.Record, filter domain.Filter) bool {
	for k, want := range filter {
		if !valuesEqual(row[k], normalizeValue(want)) {
			return false
		}
	}
	return true
}

// normalizeValue stores ids as strings and typed nils as nil.
func normalizeValue(v any) any {
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
	case *decimal.Decimal:
		if val == nil {
			return nil
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	}
	return v
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if da, ok := a.(decimal.Decimal); ok {
		db, ok := b.(decimal.Decimal)
		return ok && da.Equal(db)
	}
	return a == b
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(strings.ToLower(va), strings.ToLower(vb))
		}
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb)
		}
	case decimal.Decimal:
		if vb, ok := b.(decimal.Decimal); ok {
			return va.Cmp(vb)
		}
	case bool:
		if vb, ok := b.(bool); ok && va != vb {
			if va {
				return 1
			}
			return -1
		}
	}
	return 0
}
