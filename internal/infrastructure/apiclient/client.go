package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/domain/gallery"
	"github.com/framevault/framevault-server/internal/domain/upload"
)

const defaultTimeout = 60 * time.Second

// Client talks to the FrameVault HTTP API and to presigned storage URLs.
type Client struct {
	api      *resty.Client
	transfer *resty.Client
}

// Option customises the client.
type Option func(*Client)

// WithToken sends a bearer token on API calls. Presigned transfers never carry it.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.api.SetAuthToken(token)
		}
	}
}

// WithTimeout bounds API calls. Transfers to storage are bounded only by ctx.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.api.SetTimeout(d) }
}

// NewClient creates a Resty-backed client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		api: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetTimeout(defaultTimeout),
		transfer: resty.New().SetPreRequestHook(fixedLength),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RequestUploadURL calls POST /api/upload/presigned-url.
func (c *Client) RequestUploadURL(ctx context.Context, req upload.PresignRequest) (*upload.PresignedUpload, error) {
	var out upload.PresignedUpload
	if err := c.post(ctx, "/api/upload/presigned-url", req, &out); err != nil {
		return nil, err
	}
	if out.PresignedURL == "" || out.Key == "" {
		return nil, fmt.Errorf("presign response is missing the upload URL")
	}
	return &out, nil
}

// PutObject streams body to a presigned URL.
func (c *Client) PutObject(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress upload.TransferProgress) error {
	resp, err := c.transfer.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(&progressReader{r: body, total: size, onProgress: onProgress}).
		Put(url)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("Network error during upload: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("Upload failed with status: %d", resp.StatusCode())
	}
	return nil
}

type metadataResponse struct {
	Success bool                `json:"success"`
	Asset   asset.UploadedAsset `json:"asset"`
}

// SaveMetadata calls POST /api/upload/metadata.
func (c *Client) SaveMetadata(ctx context.Context, req upload.MetadataRequest) (*asset.UploadedAsset, error) {
	var out metadataResponse
	if err := c.post(ctx, "/api/upload/metadata", req, &out); err != nil {
		return nil, err
	}
	return &out.Asset, nil
}

// AbandonUpload calls POST /api/upload/abandon.
func (c *Client) AbandonUpload(ctx context.Context, key string) error {
	return c.post(ctx, "/api/upload/abandon", map[string]string{"key": key}, nil)
}

// ListPage is one page of GET /api/assets.
type ListPage struct {
	Records []asset.Asset `json:"records"`
	Offset  string        `json:"offset,omitempty"`
}

// ListAssets fetches one page of the listing.
func (c *Client) ListAssets(ctx context.Context, pageSize int, offset string) (*ListPage, error) {
	params := map[string]string{}
	if pageSize > 0 {
		params["pageSize"] = strconv.Itoa(pageSize)
	}
	if offset != "" {
		params["offset"] = offset
	}
	var out ListPage
	if err := c.get(ctx, "/api/assets", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllAssets follows the listing cursor until the last page.
func (c *Client) ListAllAssets(ctx context.Context) ([]asset.Asset, error) {
	var all []asset.Asset
	offset := ""
	for {
		page, err := c.ListAssets(ctx, asset.MaxPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// SearchAssets runs GET /api/assets in search mode.
func (c *Client) SearchAssets(ctx context.Context, criteria asset.SearchCriteria) ([]asset.Asset, error) {
	params := map[string]string{}
	setIf(params, "event", criteria.Event)
	setIf(params, "photographer", criteria.Photographer)
	setIf(params, "tags", strings.Join(criteria.Tags, ","))
	setIf(params, "dateFrom", criteria.DateFrom)
	setIf(params, "dateTo", criteria.DateTo)

	var out ListPage
	if err := c.get(ctx, "/api/assets", params, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// GalleryResult is the response of GET /api/gallery.
type GalleryResult struct {
	Records []asset.Asset  `json:"records"`
	Total   int            `json:"total"`
	Facets  gallery.Facets `json:"facets"`
}

// Gallery runs the filter pipeline server side.
func (c *Client) Gallery(ctx context.Context, f gallery.FilterState) (*GalleryResult, error) {
	params := map[string]string{}
	setIf(params, "q", f.Query)
	setIf(params, "event", f.Event)
	setIf(params, "photographer", f.Photographer)
	setIf(params, "fileType", string(f.FileType))
	setIf(params, "tags", strings.Join(f.Tags, ","))
	setIf(params, "dateFrom", f.DateFrom)
	setIf(params, "dateTo", f.DateTo)

	var out GalleryResult
	if err := c.get(ctx, "/api/gallery", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats calls GET /api/stats.
func (c *Client) Stats(ctx context.Context) (*asset.Stats, error) {
	var out asset.Stats
	if err := c.get(ctx, "/api/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadURL calls POST /api/download.
func (c *Client) DownloadURL(ctx context.Context, filename string) (string, error) {
	var out struct {
		DownloadURL string `json:"downloadUrl"`
	}
	if err := c.post(ctx, "/api/download", map[string]string{"filename": filename}, &out); err != nil {
		return "", err
	}
	return out.DownloadURL, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	var apiErr errorEnvelope
	req := c.api.R().SetContext(ctx).SetBody(body).SetError(&apiErr)
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Post(path)
	if err != nil {
		return err
	}
	return responseError(resp, &apiErr)
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, result any) error {
	var apiErr errorEnvelope
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(result).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return err
	}
	return responseError(resp, &apiErr)
}

func responseError(resp *resty.Response, apiErr *errorEnvelope) error {
	if !resp.IsError() {
		return nil
	}
	text := apiErr.Error
	if text == "" {
		text = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%d - %s", resp.StatusCode(), text)
}

func setIf(params map[string]string, key, value string) {
	if value != "" {
		params[key] = value
	}
}

var _ upload.Client = (*Client)(nil)
