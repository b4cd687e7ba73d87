package main

import (
	"net/http"

	"github.com/diewo77/go-quotations/httpx"
	"github.com/diewo77/go-quotations/i18n"
	"github.com/diewo77/go-quotations/internal/config"
	"github.com/diewo77/go-quotations/internal/handlers"
	"github.com/diewo77/go-quotations/internal/live"
	"github.com/diewo77/go-quotations/internal/services"
	"github.com/diewo77/go-quotations/internal/syncengine"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	sessions *syncengine.Registry
	lang     string
	qh       *handlers.QuotationHandler
}

// NewApp creates a new application with all routes configured. db may be
// nil, which disables the archive.
func NewApp(db *gorm.DB, sessions *syncengine.Registry, cfg *config.Config) *App {
	var archive *services.QuotationArchive
	if db != nil {
		archive = services.NewQuotationArchive(db)
	}
	app := &App{
		mux:      http.NewServeMux(),
		sessions: sessions,
		lang:     cfg.App.Lang,
		qh:       handlers.NewQuotationHandler(sessions, archive, live.NewHub(), cfg.Quotation),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.withPreferences(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	a.mux.HandleFunc("GET /healthz", a.health)

	// Sessions
	qh := a.qh
	a.mux.HandleFunc("POST /sessions", qh.Create)
	a.mux.HandleFunc("GET /sessions/{id}", qh.Show)
	a.mux.HandleFunc("DELETE /sessions/{id}", qh.Delete)
	a.mux.HandleFunc("POST /sessions/{id}/events", qh.Apply)
	a.mux.HandleFunc("GET /sessions/{id}/live", qh.Live)

	// Documents
	a.mux.HandleFunc("GET /sessions/{id}/quotations/{entity}/pdf", qh.PDF)
	a.mux.HandleFunc("GET /sessions/{id}/export.xlsx", qh.Export)
	a.mux.HandleFunc("POST /sessions/{id}/archive", qh.Archive)
	a.mux.HandleFunc("GET /sessions/{id}/archive", qh.ListArchive)
}

// withPreferences injects the language preference (query > cookie >
// Accept-Language > configured default).
func (a *App) withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := a.lang
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		} else if m, ok := i18n.Match(r.Header.Get("Accept-Language")); ok {
			lang = m
		}
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": a.sessions.Len()})
}
