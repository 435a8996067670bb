package responses

import (
	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/domain/gallery"
)

// UploadResponse is returned by the server-mediated upload.
type UploadResponse struct {
	Success bool                  `json:"success"`
	Assets  []asset.UploadedAsset `json:"assets"`
}

// PresignedURLResponse carries a direct upload grant.
type PresignedURLResponse struct {
	Success      bool   `json:"success"`
	PresignedURL string `json:"presignedUrl"`
	Key          string `json:"key"`
	PublicURL    string `json:"publicUrl"`
	ExpiresIn    int    `json:"expiresIn"`
}

// MetadataResponse confirms a registered upload.
type MetadataResponse struct {
	Success bool                `json:"success"`
	Asset   asset.UploadedAsset `json:"asset"`
}

// AbandonResponse reports whether the orphan blob was removed.
type AbandonResponse struct {
	Success bool `json:"success"`
	Deleted bool `json:"deleted"`
}

// AssetListResponse is the listing and search payload. Offset is only set in
// listing mode when another page may follow.
type AssetListResponse struct {
	Records []asset.Asset `json:"records"`
	Offset  string        `json:"offset,omitempty"`
}

// GalleryResponse is the filtered gallery view.
type GalleryResponse struct {
	Records []asset.Asset  `json:"records"`
	Total   int            `json:"total"`
	Facets  gallery.Facets `json:"facets"`
}

// DownloadResponse carries a signed download URL.
type DownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// SuccessResponse is a bare acknowledgement.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// DiagnosticResponse reports a connectivity check.
type DiagnosticResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ConfigDiagnosticResponse reports missing or placeholder settings.
type ConfigDiagnosticResponse struct {
	Success         bool     `json:"success"`
	MissingVars     []string `json:"missingVars"`
	HasPlaceholders []string `json:"hasPlaceholders"`
	Message         string   `json:"message"`
}
