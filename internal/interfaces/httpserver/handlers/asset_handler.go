package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver/requests"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver/responses"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

// AssetHandler exposes listing, search and per-asset endpoints.
type AssetHandler struct {
	service *asset.Service
	log     zerolog.Logger
}

func NewAssetHandler(service *asset.Service, log zerolog.Logger) *AssetHandler {
	return &AssetHandler{
		service: service,
		log:     log.With().Str("component", "asset-handler").Logger(),
	}
}

// List godoc
// @Summary      List or search assets
// @Description  Without filters, returns one page in upload order (newest first) and an offset for the next page. With any of event, photographer, tags, dateFrom or dateTo, returns every match.
// @Tags         assets
// @Produce      json
// @Param        pageSize      query  int     false  "Page size (default 100, max 1000)"
// @Param        offset        query  string  false  "Opaque cursor from the previous page"
// @Param        event         query  string  false  "Event contains"
// @Param        photographer  query  string  false  "Photographer contains"
// @Param        tags          query  string  false  "Comma separated tags"
// @Param        dateFrom      query  string  false  "Inclusive lower date bound (YYYY-MM-DD)"
// @Param        dateTo        query  string  false  "Inclusive upper date bound (YYYY-MM-DD)"
// @Success      200  {object}  responses.AssetListResponse
// @Failure      400  {object}  platformerrors.HTTPErrorResponse
// @Failure      500  {object}  platformerrors.HTTPErrorResponse
// @Router       /api/assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	var q requests.ListAssetsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		platformerrors.WriteValidationError(c, "invalid query parameters")
		return
	}

	criteria := asset.SearchCriteria{
		Event:        q.Event,
		Photographer: q.Photographer,
		Tags:         splitList(q.Tags),
		DateFrom:     q.DateFrom,
		DateTo:       q.DateTo,
	}
	if !criteria.IsEmpty() {
		records, err := h.service.Search(c.Request.Context(), criteria)
		if err != nil {
			platformerrors.WriteError(c, err, h.log)
			return
		}
		c.JSON(http.StatusOK, responses.AssetListResponse{Records: nonNil(records)})
		return
	}

	pageSize := 0
	if raw := strings.TrimSpace(q.PageSize); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			platformerrors.WriteValidationError(c, "pageSize must be a positive integer")
			return
		}
		pageSize = n
	}

	page, err := h.service.List(c.Request.Context(), pageSize, q.Offset)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.AssetListResponse{Records: nonNil(page.Records), Offset: page.NextCursor})
}

// Get godoc
// @Summary      Get an asset
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  asset.Asset
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Router       /api/assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	record, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete godoc
// @Summary      Delete an asset
// @Description  Removes the record and its blob.
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /api/assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}

// Stats godoc
// @Summary      Collection statistics
// @Tags         assets
// @Produce      json
// @Success      200  {object}  asset.Stats
// @Failure      500  {object}  platformerrors.HTTPErrorResponse
// @Router       /api/stats [get]
func (h *AssetHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Download godoc
// @Summary      Get a download URL
// @Description  Returns a time-limited signed URL for the storage key.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request  body      requests.DownloadRequest  true  "Storage key"
// @Success      200      {object}  responses.DownloadResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      500      {object}  platformerrors.HTTPErrorResponse
// @Router       /api/download [post]
func (h *AssetHandler) Download(c *gin.Context) {
	var req requests.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "Filename is required")
		return
	}

	url, err := h.service.DownloadURL(c.Request.Context(), req.Filename)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DownloadResponse{DownloadURL: url})
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonNil(records []asset.Asset) []asset.Asset {
	if records == nil {
		return []asset.Asset{}
	}
	return records
}
