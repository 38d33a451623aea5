package app

import (
	"database/sql"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/b3yield/config"
)

func testPostgresConfig() config.Config {
	return config.Config{
		Postgres: config.PostgresConfig{User: "pricer", Password: "p@ss/word", Host: "db", Port: 5432, DBName: "b3yield", SSLMode: "disable"},
		Pricing:  config.PricingConfig{Parallel: 2},
	}
}

func TestDSN(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.PostgresConfig
		want []string
	}{
		{
			name: "assembled",
			cfg:  testPostgresConfig().Postgres,
			want: []string{"postgres://pricer:p%40ss%2Fword@db:5432/b3yield?", "sslmode=disable", "application_name=b3yield"},
		},
		{
			name: "explicit url",
			cfg:  config.PostgresConfig{URL: "postgres://u:p@h:1/x?sslmode=require", Host: "ignored"},
			want: []string{"postgres://u:p@h:1/x?sslmode=require"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DSN(tc.cfg)
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Fatalf("DSN %q missing %q", got, w)
				}
			}
		})
	}
}

func TestPoolSize(t *testing.T) {
	if got := poolSize(2); got != 6 {
		t.Fatalf("poolSize(2)=%d", got)
	}
	if got := poolSize(0); got != runtime.NumCPU()+4 {
		t.Fatalf("poolSize(0)=%d", got)
	}
}

func TestInitPostgres_OpenError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("open failed")
	}
	t.Cleanup(func() { sqlOpener = old })

	if _, err := InitPostgres(testPostgresConfig()); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestInitPostgres_Ping(t *testing.T) {
	cases := []struct {
		name    string
		pingErr error
		wantErr bool
	}{
		{name: "ok"},
		{name: "ping fails", pingErr: errors.New("ping failed"), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var mock sqlmock.Sqlmock
			old := sqlOpener
			sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
				if driverName != "postgres" || !strings.Contains(dataSourceName, "application_name=b3yield") {
					t.Fatalf("unexpected open(%q, %q)", driverName, dataSourceName)
				}
				db, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
				if err != nil {
					t.Fatalf("sqlmock new: %v", err)
				}
				mock = m
				mock.ExpectPing().WillReturnError(tc.pingErr)
				if tc.pingErr != nil {
					mock.ExpectClose()
				}
				return db, nil
			}
			t.Cleanup(func() { sqlOpener = old })

			db, err := InitPostgres(testPostgresConfig())
			if tc.wantErr {
				if err == nil || !strings.Contains(err.Error(), "ping postgres") {
					t.Fatalf("expected ping error, got %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				if got := db.Stats().MaxOpenConnections; got != 6 {
					t.Fatalf("max open conns=%d", got)
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations: %v", err)
			}
		})
	}
}
