package main

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/guttosm/b3yield/config"
)

type okHandler struct{}

func (okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGracefulShutdown(t *testing.T) {
	cases := []struct {
		name    string
		trigger func(cancel context.CancelFunc)
	}{
		{name: "context canceled", trigger: func(cancel context.CancelFunc) { cancel() }},
		{name: "sigterm", trigger: func(context.CancelFunc) {
			p, _ := os.FindProcess(os.Getpid())
			_ = p.Signal(syscall.SIGTERM)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := startServer(okHandler{}, "0")
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cleaned := make(chan struct{})
			done := make(chan error, 1)
			go func() { done <- gracefulShutdown(ctx, srv, func() { close(cleaned) }) }()

			// let signal.NotifyContext register before triggering
			time.Sleep(50 * time.Millisecond)
			tc.trigger(cancel)

			select {
			case err := <-done:
				if err != nil {
					t.Fatalf("shutdown err: %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatalf("shutdown did not complete")
			}
			select {
			case <-cleaned:
			default:
				t.Fatalf("cleanup not called")
			}
		})
	}
}

func TestRunIngestion_DBUnavailable(t *testing.T) {
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329,
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}

	if err := runIngestion(context.Background(), t.TempDir(), 1, 1, false); err == nil {
		t.Fatalf("expected connection error")
	}
}
