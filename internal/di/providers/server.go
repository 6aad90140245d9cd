package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/junkjournalapp/junkjournal-server/internal/api"
	"github.com/junkjournalapp/junkjournal-server/internal/config"
	"github.com/junkjournalapp/junkjournal-server/internal/logger"
	"github.com/junkjournalapp/junkjournal-server/internal/media/images"
	"github.com/junkjournalapp/junkjournal-server/internal/service"
	"github.com/junkjournalapp/junkjournal-server/internal/session"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storage := do.MustInvoke[*images.Storage](i)
	sessions := do.MustInvoke[*session.Manager](i)
	limiter := do.MustInvoke[*UploadLimiterHandle](i)

	journalService := do.MustInvoke[*service.JournalService](i)
	entryService := do.MustInvoke[*service.EntryService](i)
	shareService := do.MustInvoke[*service.ShareService](i)
	planService := do.MustInvoke[*service.PlanService](i)

	corsOrigin := cfg.Server.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	handler := api.NewServer(
		journalService,
		entryService,
		shareService,
		planService,
		sessions,
		storage,
		limiter.KeyedRateLimiter,
		cfg.Upload.MaxBodySize,
		corsOrigin,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
