package requests

import (
	"github.com/framevault/framevault-server/internal/domain/asset"
)

// PresignedURLRequest asks for a direct upload URL.
type PresignedURLRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize" binding:"gte=0"`
}

// MetadataRequest registers a blob uploaded through a presigned URL.
type MetadataRequest struct {
	Key              string         `json:"key" binding:"required"`
	OriginalFilename string         `json:"originalFilename"`
	PublicURL        string         `json:"publicUrl"`
	FileType         string         `json:"fileType"`
	MimeType         string         `json:"mimeType"`
	Size             int64          `json:"size" binding:"gte=0"`
	Metadata         asset.Metadata `json:"metadata"`
}

// AbandonRequest names a blob whose metadata was never saved.
type AbandonRequest struct {
	Key string `json:"key" binding:"required"`
}

// DownloadRequest asks for a time-limited download URL.
type DownloadRequest struct {
	Filename string `json:"filename"`
}

// ListAssetsQuery covers both listing and search modes of GET /api/assets.
type ListAssetsQuery struct {
	PageSize     string `form:"pageSize"`
	Offset       string `form:"offset"`
	Event        string `form:"event"`
	Photographer string `form:"photographer"`
	Tags         string `form:"tags"`
	DateFrom     string `form:"dateFrom"`
	DateTo       string `form:"dateTo"`
}

// GalleryQuery maps the gallery filter controls.
type GalleryQuery struct {
	Q            string `form:"q"`
	Event        string `form:"event"`
	Photographer string `form:"photographer"`
	FileType     string `form:"fileType"`
	Tags         string `form:"tags"`
	DateFrom     string `form:"dateFrom"`
	DateTo       string `form:"dateTo"`
}
