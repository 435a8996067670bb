package asset

import (
	"context"
	"io"
	"time"
)

// FileType classifies an asset as a photo or a video.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
)

// Asset is the metadata record describing one uploaded media file.
type Asset struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	URL              string    `json:"url"`
	PublicURL        string    `json:"publicUrl"`
	FileType         FileType  `json:"fileType"`
	MimeType         string    `json:"mimeType"`
	Size             int64     `json:"size"`
	Width            *int      `json:"width,omitempty"`
	Height           *int      `json:"height,omitempty"`
	Duration         *float64  `json:"duration,omitempty"`
	UploadedAt       time.Time `json:"uploadedAt"`
	Event            string    `json:"event"`
	Date             string    `json:"date"`
	Location         string    `json:"location,omitempty"`
	Photographer     string    `json:"photographer"`
	Tags             []string  `json:"tags"`
	Description      string    `json:"description,omitempty"`
}

// Metadata is the event information shared by every file of a batch.
type Metadata struct {
	Event        string   `json:"event" yaml:"event"`
	Date         string   `json:"date" yaml:"date"`
	Location     string   `json:"location,omitempty" yaml:"location"`
	Photographer string   `json:"photographer" yaml:"photographer"`
	Tags         []string `json:"tags" yaml:"tags"`
	Description  string   `json:"description,omitempty" yaml:"description"`
}

// NewAsset carries the fields required to create an asset record.
type NewAsset struct {
	Filename         string
	OriginalFilename string
	URL              string
	FileType         FileType
	MimeType         string
	Size             int64
	Metadata         Metadata
}

// Page is one page of the asset listing.
type Page struct {
	Records    []Asset
	NextCursor string
}

// PhotographerCount is a row of the top photographers ranking.
type PhotographerCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarises the whole collection.
type Stats struct {
	TotalAssets      int                 `json:"totalAssets"`
	TotalEvents      int                 `json:"totalEvents"`
	TopPhotographers []PhotographerCount `json:"topPhotographers"`
	RecentUploads    []Asset             `json:"recentUploads"`
}

// UploadTarget is a granted direct upload destination.
type UploadTarget struct {
	Key       string
	UploadURL string
	PublicURL string
	ExpiresIn int
}

// UploadRequest asks for a direct upload destination.
type UploadRequest struct {
	FileName string
	MimeType string
	Size     int64
}

// RecordUploadRequest registers a file that was uploaded directly to storage.
type RecordUploadRequest struct {
	Key              string
	OriginalFilename string
	PublicURL        string
	FileType         FileType
	MimeType         string
	Size             int64
	Metadata         Metadata
}

// UploadFile is one file of a server-mediated upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadedAsset is the summary returned for each stored file.
type UploadedAsset struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListQuery selects a page of the listing in uploadedAt desc order.
type ListQuery struct {
	Limit int
	After *Cursor
}

// Repository defines persistence operations needed by the service.
type Repository interface {
	Create(ctx context.Context, asset *Asset) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	List(ctx context.Context, query ListQuery) ([]Asset, error)
	Search(ctx context.Context, criteria SearchCriteria) ([]Asset, error)
	All(ctx context.Context) ([]Asset, error)
	ExistingFilenames(ctx context.Context, filenames []string) (map[string]bool, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Storage defines blob storage operations.
type Storage interface {
	GenerateKey(originalFilename string) string
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	PublicURL(key string) string
	SupportsPresignedUploads() bool
	Health(ctx context.Context) error
}

// StatsCache stores the last computed Stats.
type StatsCache interface {
	Get(ctx context.Context) (*Stats, bool, error)
	Set(ctx context.Context, stats *Stats) error
	Invalidate(ctx context.Context) error
}
