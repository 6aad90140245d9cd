// Package api provides the HTTP API server and handlers for the junk journal application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/junkjournalapp/junkjournal-server/internal/media/images"
	"github.com/junkjournalapp/junkjournal-server/internal/ratelimit"
	"github.com/junkjournalapp/junkjournal-server/internal/service"
	"github.com/junkjournalapp/junkjournal-server/internal/session"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	journalService *service.JournalService
	entryService   *service.EntryService
	shareService   *service.ShareService
	planService    *service.PlanService
	sessions       *session.Manager
	storage        *images.Storage
	uploadLimiter  *ratelimit.KeyedRateLimiter
	maxBodySize    int64
	corsOrigin     string
	router         *chi.Mux
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	journalService *service.JournalService,
	entryService *service.EntryService,
	shareService *service.ShareService,
	planService *service.PlanService,
	sessions *session.Manager,
	storage *images.Storage,
	uploadLimiter *ratelimit.KeyedRateLimiter,
	maxBodySize int64,
	corsOrigin string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		journalService: journalService,
		entryService:   entryService,
		shareService:   shareService,
		planService:    planService,
		sessions:       sessions,
		storage:        storage,
		uploadLimiter:  uploadLimiter,
		maxBodySize:    maxBodySize,
		corsOrigin:     corsOrigin,
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Derived and original media files.
	s.router.Get("/storage/*", s.handleStorage)

	// Everything under /api runs with an owner identity; the session
	// middleware mints a cookie on first contact.
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.sessions.Resolve)

		r.Get("/bootstrap", s.handleBootstrap)

		r.Route("/journals", func(r chi.Router) {
			r.Get("/", s.handleListJournals)
			r.Post("/", s.handleCreateJournal)
			r.Delete("/{id}", s.handleDeleteJournal)
			r.Get("/{id}/book", s.handleGetBook)
			r.Get("/{id}/entries", s.handleListEntries)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", s.handleCreateEntry)
			r.Get("/{id}", s.handleGetEntry)
			r.Get("/{id}/versions", s.handleListVersions)
		})

		r.Post("/upload/{entryID}", s.handleUpload)
		r.Get("/preview/{entryID}", s.handlePreview)
		r.Post("/approve/{entryID}", s.handleApprove)

		r.Route("/shares", func(r chi.Router) {
			r.Get("/", s.handleListShares)
			r.Post("/", s.handleCreateShare)
			r.Post("/{id}/revoke", s.handleRevokeShare)
			r.Get("/{id}/invites", s.handleListInvites)
			r.Post("/{id}/invites", s.handleCreateInvite)
			r.Post("/{id}/invites/{inviteID}/revoke", s.handleRevokeInvite)
		})

		// Viewer access by slug. Viewers get their own anonymous identity,
		// which is harmless; the lookup itself is slug-gated.
		r.Get("/shared/{slug}", s.handleResolveShare)

		r.Post("/plan/suggest", s.handleSuggestPlan)
	})
}
