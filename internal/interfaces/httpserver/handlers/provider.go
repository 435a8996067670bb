package handlers

import (
	"github.com/rs/zerolog"

	"github.com/framevault/framevault-server/internal/config"
	"github.com/framevault/framevault-server/internal/domain/asset"
)

// Provider wires HTTP handlers.
type Provider struct {
	Upload      *UploadHandler
	Assets      *AssetHandler
	Gallery     *GalleryHandler
	Diagnostics *DiagnosticsHandler
}

func NewProvider(cfg *config.Config, service *asset.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Upload:      NewUploadHandler(cfg, service, log),
		Assets:      NewAssetHandler(service, log),
		Gallery:     NewGalleryHandler(service, log),
		Diagnostics: NewDiagnosticsHandler(cfg, service, log),
	}
}
