//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/guttosm/b3yield/internal/domain/models"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "b3yield",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=b3yield sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "b3yield")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func seedQuotations(t *testing.T, repo QuotationsRepository) (dates []time.Time) {
	t.Helper()
	base := time.Date(2008, 5, 21, 0, 0, 0, 0, time.UTC)
	dates = []time.Time{base, base.AddDate(0, 0, 1)}
	six := 6

	row := func(code, kind, price string, d time.Time, trunc *int) models.Quotation {
		return models.Quotation{
			ReferenceDate: d,
			RateRecord: models.RateRecord{
				Code:           code,
				Kind:           kind,
				IssueDate:      time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
				MaturityDate:   time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
				CouponRate:     decimal.NewFromInt(10),
				Frequency:      2,
				Face:           decimal.NewFromInt(1000),
				SettlementDate: d,
				Yield:          decimal.RequireFromString("0.1436"),
				Truncation:     trunc,
			},
			Price:       decimal.RequireFromString(price),
			Methodology: "ANBIMA",
			NumericKind: "decimal",
		}
	}

	quotes := []models.Quotation{
		row("NTNF-20140101", "bond", "880.281002", dates[0], &six),
		row("LTN-20100701", "bill", "753.315323", dates[0], &six),
		row("NTNF-20140101", "bond", "880.3153230729949", dates[1], nil),
	}
	if err := repo.InsertQuotationsBatch(quotes); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return dates
}

func TestRepository_Integration_TableDriven(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	repo := NewQuotationsRepository(db)
	dates := seedQuotations(t, repo)

	cases := []struct {
		name      string
		code      string
		date      time.Time
		wantPrice string
		wantTrunc bool
		wantNil   bool
	}{
		{name: "bond day one", code: "NTNF-20140101", date: dates[0], wantPrice: "880.281002", wantTrunc: true},
		{name: "bill day one", code: "LTN-20100701", date: dates[0], wantPrice: "753.315323", wantTrunc: true},
		{name: "untruncated day two", code: "NTNF-20140101", date: dates[1], wantPrice: "880.3153230729949"},
		{name: "missing code", code: "LFT-20140307", date: dates[0], wantNil: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := repo.GetQuotation(tc.code, tc.date)
			if err != nil {
				t.Fatalf("GetQuotation err: %v", err)
			}
			if tc.wantNil {
				if q != nil {
					t.Fatalf("want nil, got %+v", q)
				}
				return
			}
			if q == nil {
				t.Fatalf("nil quotation")
			}
			if !q.Price.Equal(decimal.RequireFromString(tc.wantPrice)) {
				t.Fatalf("price=%s want %s", q.Price, tc.wantPrice)
			}
			if (q.Truncation != nil) != tc.wantTrunc {
				t.Fatalf("truncation=%v want set=%v", q.Truncation, tc.wantTrunc)
			}
		})
	}

	t.Run("list by date", func(t *testing.T) {
		out, err := repo.ListQuotations(dates[0])
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(out) != 2 || out[0].Code != "LTN-20100701" {
			t.Fatalf("unexpected list %+v", out)
		}
	})

	t.Run("ingestion log upsert+exists", func(t *testing.T) {
		day := dates[0]
		if err := repo.UpsertIngestionLog(day, "21-05-2008_TAXAS_ANBIMA.txt", 2); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		ok, err := repo.HasIngestionForDate(day)
		if err != nil || !ok {
			t.Fatalf("exists want true, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("holidays", func(t *testing.T) {
		if _, err := db.Exec(`INSERT INTO calendar_holidays (calendar, holiday, description) VALUES ($1, $2, $3)`,
			"ANBIMA", dates[0], "market closure"); err != nil {
			t.Fatalf("insert holiday: %v", err)
		}
		out, err := repo.ListHolidays("ANBIMA")
		if err != nil {
			t.Fatalf("list holidays: %v", err)
		}
		if len(out) != 1 || !out[0].Equal(dates[0]) {
			t.Fatalf("unexpected holidays %v", out)
		}
	})

	t.Run("delete by date", func(t *testing.T) {
		day := dates[1]
		if err := repo.DeleteQuotationsByDate(day); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var cnt int
		if err := db.QueryRow("SELECT COUNT(*) FROM quotations WHERE reference_date=$1", day).Scan(&cnt); err != nil {
			t.Fatalf("count: %v", err)
		}
		if cnt != 0 {
			t.Fatalf("expected 0 rows after delete, got %d", cnt)
		}
	})
}
