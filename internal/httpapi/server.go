// Package httpapi exposes the editing session and the export pipeline
// over HTTP for the embedded browser UI.
package httpapi

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/avasseur/mdstudio"
)

// Server is the HTTP server backing the studio UI.
type Server struct {
	router  chi.Router
	session *mdstudio.Session
	pool    *mdstudio.ServicePool
	log     zerolog.Logger
}

// NewServer creates and configures the HTTP server. The static filesystem
// holds the embedded browser UI and is served at the root.
func NewServer(session *mdstudio.Session, pool *mdstudio.ServicePool, static fs.FS, log zerolog.Logger) *Server {
	s := &Server{
		session: session,
		pool:    pool,
		log:     log,
	}
	s.setupRoutes(static)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes(static fs.FS) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/document", s.handleGetDocument)
		r.Put("/document/content", s.handlePutContent)
		r.Put("/document/settings", s.handlePutSettings)
		r.Post("/document/insert", s.handleInsert)
		r.Post("/document/undo", s.handleUndo)
		r.Post("/document/redo", s.handleRedo)

		r.Post("/render", s.handleRender)
		r.Get("/status", s.handleStatus)
		r.Get("/export/{format}", s.handleExport)

		r.Get("/presets", s.handleListPresets)
		r.Post("/presets", s.handleAddPreset)
		r.Delete("/presets/{id}", s.handleRemovePreset)

		r.Post("/view", s.handleView)
		r.Post("/sync/mode", s.handleSyncMode)
		r.Post("/sync/scroll", s.handleSyncScroll)
		r.Post("/sync/click", s.handleSyncClick)
	})

	r.Handle("/*", http.FileServer(http.FS(static)))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
