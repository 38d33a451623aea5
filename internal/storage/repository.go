package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/b3yield/internal/domain/models"
	pq "github.com/lib/pq"
)

// QuotationsRepository defines contract for DB operations.
type QuotationsRepository interface {
	InsertQuotationsBatch(quotes []models.Quotation) error
	GetQuotation(code string, date time.Time) (*models.Quotation, error)
	ListQuotations(date time.Time) ([]models.Quotation, error)
	HasIngestionForDate(date time.Time) (bool, error)
	UpsertIngestionLog(date time.Time, filename string, rowCount int) error
	DeleteQuotationsByDate(date time.Time) error
	ListHolidays(calendar string) ([]time.Time, error)
}

type quotationsRepository struct {
	db *sql.DB
}

func NewQuotationsRepository(db *sql.DB) QuotationsRepository {
	return &quotationsRepository{db: db}
}

const quotationColumns = `id, reference_date, code, kind, issue_date, maturity_date, coupon_rate, frequency,
	face, settlement_date, yield, truncation, price, methodology, numeric_kind, created_at`

// InsertQuotationsBatch inserts multiple quotations into DB in a single transaction.
// Rows without an ID get a fresh UUID.
func (r *quotationsRepository) InsertQuotationsBatch(quotes []models.Quotation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"quotations",
		"id",
		"reference_date",
		"code",
		"kind",
		"issue_date",
		"maturity_date",
		"coupon_rate",
		"frequency",
		"face",
		"settlement_date",
		"yield",
		"truncation",
		"price",
		"methodology",
		"numeric_kind",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, q := range quotes {
		id := q.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := stmt.Exec(
			id.String(),
			q.ReferenceDate,
			q.Code,
			q.Kind,
			q.IssueDate,
			q.MaturityDate,
			q.CouponRate,
			q.Frequency,
			q.Face,
			q.SettlementDate,
			q.Yield,
			nullInt(q.Truncation),
			q.Price,
			q.Methodology,
			q.NumericKind,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func nullInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// GetQuotation returns the most recent quotation for code on the given
// reference date, or nil when there is none.
func (r *quotationsRepository) GetQuotation(code string, date time.Time) (*models.Quotation, error) {
	row := r.db.QueryRow(`SELECT `+quotationColumns+`
		FROM quotations
		WHERE code = $1 AND reference_date = $2
		ORDER BY created_at DESC
		LIMIT 1`, code, date)

	q, err := scanQuotation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuotations returns every quotation of a reference date ordered by code.
func (r *quotationsRepository) ListQuotations(date time.Time) ([]models.Quotation, error) {
	rows, err := r.db.Query(`SELECT `+quotationColumns+`
		FROM quotations
		WHERE reference_date = $1
		ORDER BY code`, date)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuotation(s scanner) (*models.Quotation, error) {
	var (
		q     models.Quotation
		trunc sql.NullInt64
	)
	err := s.Scan(
		&q.ID,
		&q.ReferenceDate,
		&q.Code,
		&q.Kind,
		&q.IssueDate,
		&q.MaturityDate,
		&q.CouponRate,
		&q.Frequency,
		&q.Face,
		&q.SettlementDate,
		&q.Yield,
		&trunc,
		&q.Price,
		&q.Methodology,
		&q.NumericKind,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if trunc.Valid {
		d := int(trunc.Int64)
		q.Truncation = &d
	}
	return &q, nil
}

// HasIngestionForDate checks if an ingestion was already recorded for a given business day.
func (r *quotationsRepository) HasIngestionForDate(date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE file_date = $1)`, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for a given day.
func (r *quotationsRepository) UpsertIngestionLog(date time.Time, filename string, rowCount int) error {
	_, err := r.db.Exec(`
		INSERT INTO ingestion_log (file_date, filename, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (file_date)
		DO UPDATE SET filename = EXCLUDED.filename,
					  row_count = EXCLUDED.row_count,
					  ingested_at = NOW()
	`, date, filename, rowCount)
	return err
}

// DeleteQuotationsByDate removes all quotations for a given reference_date.
func (r *quotationsRepository) DeleteQuotationsByDate(date time.Time) error {
	_, err := r.db.Exec(`DELETE FROM quotations WHERE reference_date = $1`, date)
	return err
}

// ListHolidays returns the extra closures stored for a calendar, oldest first.
func (r *quotationsRepository) ListHolidays(calendar string) ([]time.Time, error) {
	rows, err := r.db.Query(`SELECT holiday FROM calendar_holidays WHERE calendar = $1 ORDER BY holiday`, calendar)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
