package providers

import (
	"github.com/samber/do/v2"

	"github.com/junkjournalapp/junkjournal-server/internal/config"
	"github.com/junkjournalapp/junkjournal-server/internal/logger"
	"github.com/junkjournalapp/junkjournal-server/internal/media/images"
	"github.com/junkjournalapp/junkjournal-server/internal/ratelimit"
	"github.com/junkjournalapp/junkjournal-server/internal/service"
	"github.com/junkjournalapp/junkjournal-server/internal/session"
)

// UploadLimiterHandle wraps the keyed limiter with shutdown capability.
type UploadLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *UploadLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideUploadLimiter provides the per-owner upload rate limiter.
func ProvideUploadLimiter(i do.Injector) (*UploadLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &UploadLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Upload.RatePerSec, cfg.Upload.RateBurst),
	}, nil
}

// ProvideSessionManager provides the anonymous owner-session manager.
func ProvideSessionManager(i do.Injector) (*session.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return session.NewManager(cfg.Session.CookieName, cfg.Session.CookieSecure, cfg.Session.Duration), nil
}

// ProvideJournalService provides the journal service.
func ProvideJournalService(i do.Injector) (*service.JournalService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewJournalService(storeHandle.Store, log.Logger), nil
}

// ProvideEntryService provides the entry service.
func ProvideEntryService(i do.Injector) (*service.EntryService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	pipeline := do.MustInvoke[*images.Pipeline](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEntryService(storeHandle.Store, storage, pipeline, cfg.Upload.MaxFiles, log.Logger), nil
}

// ProvideShareService provides the share service.
func ProvideShareService(i do.Injector) (*service.ShareService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShareService(storeHandle.Store, log.Logger), nil
}

// ProvidePlanService provides the spread plan service.
func ProvidePlanService(i do.Injector) (*service.PlanService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewPlanService(log.Logger), nil
}
