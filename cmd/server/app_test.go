package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-quotations/internal/config"
	"github.com/diewo77/go-quotations/internal/syncengine"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.FromEnv()
	cfg.App.Lang = "fr"
	return NewApp(nil, syncengine.NewRegistry(syncengine.New(syncengine.Options(cfg.Quotation)...)), cfg)
}

func TestSessionRoutes(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("decode: %v %s", err, w.Body.String())
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+created.ID+"/events",
		strings.NewReader(`{"type":"edit_source_field","name":"customerName","value":"Acme"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("event: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+created.ID+"/quotations/gdc/pdf", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("pdf: %d", w.Code)
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+created.ID+"/archive", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("archive without db: %d", w.Code)
	}

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sessions/"+created.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
}

func TestLanguagePreference(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions/missing", nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Session introuvable") {
		t.Fatalf("default lang: %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/sessions/missing?lang=en", nil)
	w = httptest.NewRecorder()
	app.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "Session not found") {
		t.Fatalf("query lang: %s", w.Body.String())
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatalf("expected lang cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/sessions/missing", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	w = httptest.NewRecorder()
	app.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "Session not found") {
		t.Fatalf("header lang: %s", w.Body.String())
	}
}

func TestUnsupportedAcceptLanguageKeepsConfiguredLang(t *testing.T) {
	cfg := config.FromEnv()
	cfg.App.Lang = "en"
	app := NewApp(nil, syncengine.NewRegistry(syncengine.New(syncengine.Options(cfg.Quotation)...)), cfg)

	req := httptest.NewRequest(http.MethodGet, "/sessions/missing", nil)
	req.Header.Set("Accept-Language", "de")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "Session not found") {
		t.Fatalf("unsupported header overrode configured lang: %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}
