package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/shopspring/decimal"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

func newMockRepo(t *testing.T) (*quotationsRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &quotationsRepository{db: db}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

var quotationCols = []string{
	"id", "reference_date", "code", "kind", "issue_date", "maturity_date", "coupon_rate", "frequency",
	"face", "settlement_date", "yield", "truncation", "price", "methodology", "numeric_kind", "created_at",
}

func sampleQuotation() models.Quotation {
	d := time.Date(2008, 5, 21, 0, 0, 0, 0, time.UTC)
	six := 6
	return models.Quotation{
		ReferenceDate: d,
		RateRecord: models.RateRecord{
			Code:           "LTN-20100701",
			Kind:           "bill",
			IssueDate:      time.Date(2007, 7, 1, 0, 0, 0, 0, time.UTC),
			MaturityDate:   time.Date(2010, 7, 1, 0, 0, 0, 0, time.UTC),
			CouponRate:     decimal.Zero,
			Face:           decimal.NewFromInt(1000),
			SettlementDate: d,
			Yield:          decimal.RequireFromString("0.1436"),
			Truncation:     &six,
		},
		Price:       decimal.RequireFromString("753.315323"),
		Methodology: "ANBIMA",
		NumericKind: "decimal",
	}
}

func TestGetQuotation_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	selectRegex := `SELECT .* FROM quotations WHERE code = \$1 AND reference_date = \$2 ORDER BY created_at DESC LIMIT 1`
	day := time.Date(2008, 5, 21, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	cases := []struct {
		name      string
		rows      *sqlmock.Rows
		wantNil   bool
		wantTrunc bool
	}{
		{
			name: "found with truncation",
			rows: sqlmock.NewRows(quotationCols).AddRow(
				id.String(), day, "LTN-20100701", "bill", day, day, "0", 0,
				"1000", day, "0.1436", int64(6), "753.315323", "ANBIMA", "decimal", day,
			),
			wantTrunc: true,
		},
		{
			name: "found without truncation",
			rows: sqlmock.NewRows(quotationCols).AddRow(
				id.String(), day, "LTN-20100701", "bill", day, day, "0", 0,
				"1000", day, "0.1436", nil, "753.3153230729949", "ANBIMA", "float64", day,
			),
		},
		{
			name:    "no rows",
			rows:    sqlmock.NewRows(quotationCols),
			wantNil: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock.ExpectQuery(selectRegex).WithArgs("LTN-20100701", day).WillReturnRows(tc.rows)

			out, err := repo.GetQuotation("LTN-20100701", day)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tc.wantNil {
				if out != nil {
					t.Fatalf("want nil, got %+v", out)
				}
			} else {
				if out == nil || out.ID != id || out.Code != "LTN-20100701" {
					t.Fatalf("unexpected out=%+v", out)
				}
				if (out.Truncation != nil) != tc.wantTrunc {
					t.Fatalf("truncation=%v want set=%v", out.Truncation, tc.wantTrunc)
				}
				if tc.wantTrunc && *out.Truncation != 6 {
					t.Fatalf("truncation=%d want 6", *out.Truncation)
				}
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestGetQuotation_QueryError(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT .* FROM quotations`).WillReturnError(dummyErr{})
	if _, err := repo.GetQuotation("X", time.Now()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListQuotations_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	day := time.Date(2008, 5, 21, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(quotationCols).
		AddRow(uuid.NewString(), day, "LTN-20100701", "bill", day, day, "0", 0,
			"1000", day, "0.1436", int64(6), "753.315323", "ANBIMA", "decimal", day).
		AddRow(uuid.NewString(), day, "NTNF-20140101", "bond", day, day, "10", 2,
			"1000", day, "0.1436", int64(6), "880.281002", "ANBIMA", "decimal", day)
	mock.ExpectQuery(`SELECT .* FROM quotations WHERE reference_date = \$1 ORDER BY code`).
		WithArgs(day).WillReturnRows(rows)

	out, err := repo.ListQuotations(day)
	if err != nil {
		t.Fatalf("ListQuotations: %v", err)
	}
	if len(out) != 2 || out[1].Frequency != 2 || !out[1].Price.Equal(decimal.RequireFromString("880.281002")) {
		t.Fatalf("unexpected out=%+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIngestionLog_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	d := time.Date(2025, 9, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE file_date = $1)")).
		WithArgs(d).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.HasIngestionForDate(d)
	if err != nil || !ok {
		t.Fatalf("HasIngestionForDate: ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(`INSERT INTO ingestion_log \(file_date, filename, row_count\) VALUES \(\$1, \$2, \$3\) ON CONFLICT \(file_date\)`).
		WithArgs(d, "file.txt", 10).WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.UpsertIngestionLog(d, "file.txt", 10); err != nil {
		t.Fatalf("UpsertIngestionLog: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM quotations WHERE reference_date = $1")).
		WithArgs(d).WillReturnResult(sqlmock.NewResult(0, 3))
	if err := repo.DeleteQuotationsByDate(d); err != nil {
		t.Fatalf("DeleteQuotationsByDate: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListHolidays_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	d1 := time.Date(2008, 5, 21, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2008, 5, 22, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT holiday FROM calendar_holidays WHERE calendar = $1 ORDER BY holiday")).
		WithArgs("ANBIMA").
		WillReturnRows(sqlmock.NewRows([]string{"holiday"}).AddRow(d1).AddRow(d2))

	out, err := repo.ListHolidays("ANBIMA")
	if err != nil {
		t.Fatalf("ListHolidays: %v", err)
	}
	if len(out) != 2 || !out[0].Equal(d1) || !out[1].Equal(d2) {
		t.Fatalf("unexpected holidays %v", out)
	}

	mock.ExpectQuery(`SELECT holiday FROM calendar_holidays`).WillReturnError(dummyErr{})
	if _, err := repo.ListHolidays("ANBIMA"); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewQuotationsRepository_Construct(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()
	r := NewQuotationsRepository(db)
	if r == nil {
		t.Fatalf("expected non-nil repository")
	}
}

func TestInsertQuotationsBatch_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	// pq.CopyIn is driver specific; accept any prepared statement and its execs.
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.InsertQuotationsBatch([]models.Quotation{sampleQuotation()}); err != nil {
		t.Fatalf("InsertQuotationsBatch: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertQuotationsBatch_ErrorOnBegin(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin().WillReturnError(dummyErr{})
	if err := repo.InsertQuotationsBatch([]models.Quotation{{}}); err == nil {
		t.Fatalf("expected error on begin")
	}
}

func TestInsertQuotationsBatch_ErrorOnRowExec(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnError(dummyErr{})
	mock.ExpectRollback()

	if err := repo.InsertQuotationsBatch([]models.Quotation{sampleQuotation()}); err == nil {
		t.Fatalf("expected error on row exec")
	}
}

func TestInsertQuotationsBatch_ErrorOnFinalExec(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnError(dummyErr{})
	mock.ExpectRollback()

	if err := repo.InsertQuotationsBatch([]models.Quotation{sampleQuotation()}); err == nil {
		t.Fatalf("expected error on final exec")
	}
}
