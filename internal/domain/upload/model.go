package upload

import (
	"context"
	"io"

	"github.com/framevault/framevault-server/internal/domain/asset"
)

// Status is the per-file upload state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Progress checkpoints, in percent.
const (
	progressRequestingURL = 5
	progressURLGranted    = 20
	progressTransferSpan  = 70
	progressSaving        = 95
	progressDone          = 100
)

// Progress is the observable state of one file in a batch.
type Progress struct {
	Filename string `json:"filename"`
	Progress int    `json:"progress"`
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
}

// File is a local file queued for upload.
type File struct {
	Name     string
	MimeType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// PresignRequest asks the API for a direct upload URL.
type PresignRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// PresignedUpload is the API's answer to a PresignRequest.
type PresignedUpload struct {
	Success      bool   `json:"success"`
	PresignedURL string `json:"presignedUrl"`
	Key          string `json:"key"`
	PublicURL    string `json:"publicUrl"`
	ExpiresIn    int    `json:"expiresIn"`
}

// MetadataRequest registers an uploaded blob.
type MetadataRequest struct {
	Key              string         `json:"key"`
	OriginalFilename string         `json:"originalFilename"`
	PublicURL        string         `json:"publicUrl"`
	FileType         asset.FileType `json:"fileType"`
	MimeType         string         `json:"mimeType"`
	Size             int64          `json:"size"`
	Metadata         asset.Metadata `json:"metadata"`
}

// TransferProgress receives the number of bytes sent so far.
type TransferProgress func(sent, total int64)

// Client is the remote API used by the orchestrator.
type Client interface {
	RequestUploadURL(ctx context.Context, req PresignRequest) (*PresignedUpload, error)
	PutObject(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress TransferProgress) error
	SaveMetadata(ctx context.Context, req MetadataRequest) (*asset.UploadedAsset, error)
	AbandonUpload(ctx context.Context, key string) error
}

// BatchResult is the outcome of a batch upload.
type BatchResult struct {
	Assets   []asset.UploadedAsset
	Progress []Progress
	Warnings []string
}
