package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/junkjournalapp/junkjournal-server/internal/config"
	"github.com/junkjournalapp/junkjournal-server/internal/logger"
	"github.com/junkjournalapp/junkjournal-server/internal/media/images"
)

// ProvideMediaStorage provides the owner/entry-namespaced media file storage.
func ProvideMediaStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.MediaPath())
	if err != nil {
		return nil, fmt.Errorf("media storage: %w", err)
	}

	log.Info("Media storage initialized", "path", cfg.MediaPath())

	return storage, nil
}

// ProvideImagePipeline provides the image derivation pipeline.
func ProvideImagePipeline(i do.Injector) (*images.Pipeline, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewPipeline(images.Options{
		MaxDimension: cfg.Images.MaxDimension,
		ThumbSize:    cfg.Images.ThumbSize,
		Strength:     cfg.Images.Strength,
		Trim:         cfg.Images.Trim,
	}, log.Logger), nil
}
