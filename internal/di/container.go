// Package di provides dependency injection configuration for the junk journal server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/junkjournalapp/junkjournal-server/internal/config"
	"github.com/junkjournalapp/junkjournal-server/internal/di/providers"
	"github.com/junkjournalapp/junkjournal-server/internal/logger"
	"github.com/junkjournalapp/junkjournal-server/internal/media/images"
	"github.com/junkjournalapp/junkjournal-server/internal/service"
	"github.com/junkjournalapp/junkjournal-server/internal/session"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Persistence layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideMediaStorage)
	do.Provide(injector, providers.ProvideImagePipeline)

	// Session + limits
	do.Provide(injector, providers.ProvideSessionManager)
	do.Provide(injector, providers.ProvideUploadLimiter)

	// Business services
	do.Provide(injector, providers.ProvideJournalService)
	do.Provide(injector, providers.ProvideEntryService)
	do.Provide(injector, providers.ProvideShareService)
	do.Provide(injector, providers.ProvidePlanService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*images.Pipeline](injector)
	_ = do.MustInvoke[*session.Manager](injector)
	_ = do.MustInvoke[*providers.UploadLimiterHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.JournalService](injector)
	_ = do.MustInvoke[*service.EntryService](injector)
	_ = do.MustInvoke[*service.ShareService](injector)
	_ = do.MustInvoke[*service.PlanService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
