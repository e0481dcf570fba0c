// Package ui serves the HTML exploration views on top of the same pipeline
// the JSON API uses.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"degview/internal/config"
	"degview/internal/jsonx"
	"degview/internal/session"
	"degview/internal/table"
	"degview/internal/testkit"
)

//go:embed templates/*.html static/* help.md
var embeddedFiles embed.FS

const sessionCookie = "degview_session"

// App represents the UI application
type App struct {
	router    *chi.Mux
	store     *session.Store
	cache     *table.LoadCache
	cfg       *config.Config
	templates *template.Template

	// demoID points at the shared demo session when demo mode is on.
	demoID string
}

// NewApp creates the UI application, parsing the embedded templates and
// seeding the demo dataset when configured.
func NewApp(cfg *config.Config, store *session.Store, cache *table.LoadCache) (*App, error) {
	funcMap := template.FuncMap{
		"fmtFloat":   func(v interface{}) string { return formatFloat(v, "%.4g", 1) },
		"fmtPercent": func(v interface{}) string { return formatFloat(v, "%.1f%%", 100) },
		"add":        func(a, b int) int { return a + b },
		"catClass":   catClass,
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		store:     store,
		cache:     cache,
		cfg:       cfg,
		templates: templates,
	}

	if cfg.Demo.Enabled {
		spec := testkit.SpecWithCounts(cfg.Demo.Genes, cfg.Demo.Contrasts)
		full := testkit.GenerateTable(spec)
		state := store.Create("demo_dataset.csv", full, full.Head(cfg.Upload.DefaultPreview))
		app.demoID = state.ID
		log.Printf("[UI] Demo dataset seeded as session %s", state.ID)
	}

	app.setupMiddleware()
	app.setupRoutes()
	return app, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleExplore)
	a.router.Post("/upload", a.handleUpload)
	a.router.Post("/gene-column", a.handleGeneColumn)

	a.router.Get("/volcano", a.handleVolcano)
	a.router.Get("/degs", a.handleDegs)
	a.router.Get("/degs/download", a.handleDegsDownload)
	a.router.Get("/gene", a.handleGene)
	a.router.Get("/help", a.handleHelp)
}

// Start starts the HTTP server.
func (a *App) Start(addr string) error {
	log.Printf("[UI] Listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Handler exposes the router for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// renderTemplate executes a template, logging failures instead of writing a
// half-rendered page.
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		log.Printf("[UI] Template error for %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// currentSession resolves the request's session from the cookie, falling
// back to the demo session when enabled.
func (a *App) currentSession(r *http.Request) (*session.State, bool) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if state, ok := a.store.Get(cookie.Value); ok {
			return state, true
		}
	}
	if a.demoID != "" {
		return a.store.Get(a.demoID)
	}
	return nil, false
}

// formatFloat renders float64 or jsonx.Float template values, showing NA
// for NaN.
func formatFloat(v interface{}, format string, scale float64) string {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case jsonx.Float:
		f = float64(t)
	default:
		return "NA"
	}
	if math.IsNaN(f) {
		return "NA"
	}
	return fmt.Sprintf(format, f*scale)
}

// catClass maps a category label to a CSS class suffix.
func catClass(v interface{}) string {
	label := fmt.Sprintf("%v", v)
	return strings.ToLower(strings.ReplaceAll(label, " ", "-"))
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
