package testhelpers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/framevault/framevault-server/internal/domain/asset"
)

// BaseTime is the reference upload time used by fixtures.
var BaseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// AssetOption customises a fixture asset.
type AssetOption func(*asset.Asset)

// NewAsset returns a fully populated image asset.
func NewAsset(id string, opts ...AssetOption) asset.Asset {
	key := fmt.Sprintf("assets/%d-%s.jpg", BaseTime.UnixMilli(), id)
	a := asset.Asset{
		ID:               id,
		Filename:         key,
		OriginalFilename: id + ".jpg",
		URL:              "https://cdn.example.com/" + key,
		PublicURL:        "https://cdn.example.com/" + key,
		FileType:         asset.FileTypeImage,
		MimeType:         "image/jpeg",
		Size:             2 << 20,
		UploadedAt:       BaseTime,
		Event:            "TechConf",
		Date:             "2024-05-01",
		Photographer:     "Alice",
		Tags:             []string{},
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func WithEvent(event string) AssetOption {
	return func(a *asset.Asset) { a.Event = event }
}

func WithDate(date string) AssetOption {
	return func(a *asset.Asset) { a.Date = date }
}

func WithPhotographer(name string) AssetOption {
	return func(a *asset.Asset) { a.Photographer = name }
}

func WithTags(tags ...string) AssetOption {
	return func(a *asset.Asset) { a.Tags = tags }
}

func WithOriginalFilename(name string) AssetOption {
	return func(a *asset.Asset) { a.OriginalFilename = name }
}

func WithDescription(description string) AssetOption {
	return func(a *asset.Asset) { a.Description = description }
}

func WithVideo() AssetOption {
	return func(a *asset.Asset) {
		a.FileType = asset.FileTypeVideo
		a.MimeType = "video/mp4"
	}
}

// UploadedAfter shifts the upload time forward from BaseTime.
func UploadedAfter(d time.Duration) AssetOption {
	return func(a *asset.Asset) { a.UploadedAt = BaseTime.Add(d) }
}

// Collection builds n assets spread round-robin over events, uploaded one minute apart.
func Collection(n int, events ...string) []asset.Asset {
	if len(events) == 0 {
		events = []string{"TechConf"}
	}
	out := make([]asset.Asset, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewAsset(
			fmt.Sprintf("ast_fixture%02d", i),
			WithEvent(events[i%len(events)]),
			UploadedAfter(time.Duration(i)*time.Minute),
		))
	}
	return out
}

// JPEGBytes returns size bytes starting with a JPEG signature.
func JPEGBytes(size int) []byte {
	header := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	if size < len(header) {
		size = len(header)
	}
	buf := bytes.Repeat([]byte{0x00}, size)
	copy(buf, header)
	return buf
}

// PNGBytes returns a PNG signature followed by padding.
func PNGBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x00}, 64)...)
}
