package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/config"
)

func TestOpenStorageUnknownDriver(t *testing.T) {
	cfg := &config.Config{StorageDriver: "sqlite"}
	if _, err := openStorage(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}
}

func TestRunRequiresSecretWhenAuthEnabled(t *testing.T) {
	cfg := &config.Config{StorageDriver: "memory", AuthEnabled: true}
	if err := run(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected missing JWT secret to fail")
	}
}

func TestNewAppWithMemoryStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	st, err := openStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	defer st.close()

	a := newApp(cfg, st, zerolog.Nop())
	defer a.engine.Shutdown()

	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/accounts", "application/json", strings.NewReader(`{"external_id":"42","username":"zé"}`))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	for _, path := range []string{"/ready", "/metrics", "/api/v1/leaderboard"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
