//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shopspring/decimal"

	"github.com/guttosm/b3yield/config"
	"github.com/guttosm/b3yield/internal/app"
	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/guttosm/b3yield/internal/storage"
)

func startPG(t *testing.T) (dsn string, host string, port nat.Port, terminate func()) {
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
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=b3yield sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", h, mp.Port(), "b3yield")
	terminate = func() { _ = c.Terminate(context.Background()) }
	return dsn, h, mp, terminate
}

func openAndMigrate(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedForE2E(t *testing.T, db *sql.DB, d time.Time) {
	t.Helper()
	trunc := 6
	repo := storage.NewQuotationsRepository(db)
	err := repo.InsertQuotationsBatch([]models.Quotation{{
		ReferenceDate: d,
		RateRecord: models.RateRecord{
			Code:           "LTN-20100701",
			Kind:           "bill",
			IssueDate:      time.Date(2007, 7, 1, 0, 0, 0, 0, time.UTC),
			MaturityDate:   time.Date(2010, 7, 1, 0, 0, 0, 0, time.UTC),
			Face:           decimal.NewFromInt(1000),
			SettlementDate: d,
			Yield:          decimal.RequireFromString("0.1436"),
			Truncation:     &trunc,
		},
		Price:       decimal.RequireFromString("753.315323"),
		Methodology: "ANBIMA",
		NumericKind: "decimal",
	}})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO calendar_holidays (calendar, holiday, description) VALUES ('ANBIMA', $1, 'closure')`,
		time.Date(2008, 5, 20, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("seed holiday: %v", err)
	}
}

func TestAPI_E2E_QuotationsAndPricing(t *testing.T) {
	dsn, host, port, term := startPG(t)
	defer term()
	db := openAndMigrate(t, dsn)
	defer db.Close()

	day := time.Date(2008, 5, 21, 0, 0, 0, 0, time.UTC)
	seedForE2E(t, db, day)

	config.AppConfig.Postgres.Host = host
	p, _ := nat.ParsePort(port.Port())
	config.AppConfig.Postgres.Port = int(p)
	config.AppConfig.Postgres.User = "postgres"
	config.AppConfig.Postgres.Password = "postgres"
	config.AppConfig.Postgres.DBName = "b3yield"
	config.AppConfig.Postgres.SSLMode = "disable"
	config.AppConfig.Pricing = config.PricingConfig{Calendar: "ANBIMA", DecimalPrecision: 40, BondTruncation: "total"}

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations?code=LTN-20100701&date="+day.Format("2006-01-02"), nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var quotes []struct {
		Code         string `json:"code"`
		Price        string `json:"price"`
		PriceDisplay string `json:"price_display"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &quotes); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Price != "753.315323" || quotes[0].PriceDisplay != "R$753,31" {
		t.Fatalf("unexpected body: %+v", quotes)
	}

	// The stored closure on 2008-05-20 makes a settlement on that day count the
	// same business days as 2008-05-21.
	body := `{"instrument":{"issue_date":"2007-07-01","maturity_date":"2010-07-01","face":"1000"},"settlement_date":"2008-05-20","yield":"0.1436","truncation":6}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/bills/price", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var priced struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &priced); err != nil {
		t.Fatalf("json: %v", err)
	}
	if priced.Price != "753.315323" {
		t.Fatalf("stored closure not applied, got %s", priced.Price)
	}
}
