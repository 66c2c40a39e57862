package persistence

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionReader serves the unified deposit + withdrawal view with a
// UNION ALL query joined to users for the username column.
type GormTransactionReader struct {
	db *gorm.DB
}

// NewGormTransactionReader creates a new GormTransactionReader
func NewGormTransactionReader(db *gorm.DB) *GormTransactionReader {
	return &GormTransactionReader{db: db}
}

const depositBranch = `SELECT d.id AS id, 'deposit' AS kind, d.user_id AS user_id, u.username AS username,
	d.status AS status, d.points AS points, d.category AS category,
	d.weight_kg AS weight_kg, CAST(NULL AS NUMERIC) AS currency_amount,
	d.location_id AS location_id, CAST(NULL AS TEXT) AS proof_url,
	d.created_at AS created_at, d.resolved_at AS resolved_at
FROM deposits d JOIN users u ON u.id = d.user_id`

const withdrawalBranch = `SELECT w.id AS id, 'withdrawal' AS kind, w.user_id AS user_id, u.username AS username,
	w.status AS status, w.point_amount AS points, CAST(NULL AS TEXT) AS category,
	CAST(NULL AS NUMERIC) AS weight_kg, w.currency_amount AS currency_amount,
	CAST(NULL AS TEXT) AS location_id, w.proof_url AS proof_url,
	w.created_at AS created_at, w.resolved_at AS resolved_at
FROM withdrawals w JOIN users u ON u.id = w.user_id`

// transactionRow is the scan target of the union query. Timestamps go through
// flexTime because SQLite reports UNION columns without a declared type.
type transactionRow struct {
	ID             string
	Kind           string
	UserID         string
	Username       string
	Status         string
	Points         int64
	Category       *string
	WeightKg       decimal.NullDecimal
	CurrencyAmount decimal.NullDecimal
	LocationID     *string
	ProofURL       *string
	CreatedAt      flexTime
	ResolvedAt     flexTime
}

func (r transactionRow) toRecord() (exchange.TransactionRecord, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return exchange.TransactionRecord{}, fmt.Errorf("parse transaction id: %w", err)
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return exchange.TransactionRecord{}, fmt.Errorf("parse user id: %w", err)
	}
	rec := exchange.TransactionRecord{
		ID:             id,
		Kind:           exchange.Kind(r.Kind),
		UserID:         userID,
		Username:       r.Username,
		RawStatus:      r.Status,
		Points:         r.Points,
		Category:       deref(r.Category),
		WeightKg:       r.WeightKg,
		CurrencyAmount: r.CurrencyAmount,
		LocationID:     deref(r.LocationID),
		ProofURL:       deref(r.ProofURL),
		CreatedAt:      r.CreatedAt.Time,
	}
	if r.ResolvedAt.Valid {
		t := r.ResolvedAt.Time
		rec.ResolvedAt = &t
	}
	return rec, nil
}

// buildUnion renders both branches with their filters applied and returns the
// SQL with its positional arguments.
func buildUnion(q exchange.TransactionQuery) (string, []any) {
	var parts []string
	var args []any

	branch := func(kind exchange.Kind, base, alias string) {
		if q.Kind != nil && *q.Kind != kind {
			return
		}
		var conds []string
		if q.UserID != nil {
			conds = append(conds, alias+".user_id = ?")
			args = append(args, *q.UserID)
		}
		if q.Status != nil {
			raw := q.Status.RawStatuses(kind)
			if len(raw) == 0 {
				// No raw status of this kind normalizes to the requested one.
				conds = append(conds, "1 = 0")
			} else {
				conds = append(conds, alias+".status IN ?")
				args = append(args, raw)
			}
		}
		if s := strings.TrimSpace(q.Search); s != "" {
			conds = append(conds, "LOWER(u.username) LIKE ?")
			args = append(args, "%"+strings.ToLower(s)+"%")
		}
		sqlText := base
		if len(conds) > 0 {
			sqlText += " WHERE " + strings.Join(conds, " AND ")
		}
		parts = append(parts, sqlText)
	}

	branch(exchange.KindDeposit, depositBranch, "d")
	branch(exchange.KindWithdrawal, withdrawalBranch, "w")
	return strings.Join(parts, "\nUNION ALL\n"), args
}

// List returns one page of the merged history, newest first by default
func (r *GormTransactionReader) List(ctx context.Context, q exchange.TransactionQuery) ([]exchange.TransactionRecord, int64, error) {
	f := q.Normalize()
	union, args := buildUnion(q)

	var total int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM ("+union+") t", args...).
		Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	if total == 0 {
		return []exchange.TransactionRecord{}, 0, nil
	}

	orderBy := ValidateSortField(f.OrderBy, TransactionSortFields, "created_at")
	orderDir := ValidateSortOrder(f.OrderDir)
	pageSQL := fmt.Sprintf("%s\nORDER BY %s %s, id %s LIMIT ? OFFSET ?", union, orderBy, orderDir, orderDir)
	pageArgs := append(append([]any{}, args...), f.PageSize, f.Offset())

	var rows []transactionRow
	if err := r.db.WithContext(ctx).Raw(pageSQL, pageArgs...).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	records := make([]exchange.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, nil
}

// CountByStatus counts a user's transactions per normalized status
func (r *GormTransactionReader) CountByStatus(ctx context.Context, userID uuid.UUID) (map[exchange.Status]int64, error) {
	type statusCount struct {
		Status string
		Total  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).Raw(`
SELECT status, COUNT(*) AS total FROM deposits WHERE user_id = ? GROUP BY status
UNION ALL
SELECT status, COUNT(*) AS total FROM withdrawals WHERE user_id = ? GROUP BY status`,
		userID, userID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count transactions by status: %w", err)
	}

	counts := make(map[exchange.Status]int64, len(exchange.AllStatuses()))
	for _, s := range exchange.AllStatuses() {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[exchange.NormalizeStatus(row.Status)] += row.Total
	}
	return counts, nil
}

var _ exchange.TransactionReader = (*GormTransactionReader)(nil)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// flexTime scans timestamps that arrive either as time.Time (postgres) or as
// text (SQLite union columns).
type flexTime struct {
	Time  time.Time
	Valid bool
}

var flexTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// Scan implements sql.Scanner
func (t *flexTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", value)
	}
}

func (t *flexTime) parse(s string) error {
	for _, layout := range flexTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// Value implements driver.Valuer
func (t flexTime) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}
