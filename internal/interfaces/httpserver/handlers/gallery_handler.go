package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/domain/gallery"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver/requests"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver/responses"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

// GalleryHandler runs the gallery filter pipeline over the whole collection.
type GalleryHandler struct {
	service *asset.Service
	log     zerolog.Logger
}

func NewGalleryHandler(service *asset.Service, log zerolog.Logger) *GalleryHandler {
	return &GalleryHandler{
		service: service,
		log:     log.With().Str("component", "gallery-handler").Logger(),
	}
}

// Gallery godoc
// @Summary      Filtered gallery view
// @Description  Applies free-text and structured filters, sorted by event date (newest first). Total is the unfiltered collection size; facets list the selectable values.
// @Tags         gallery
// @Produce      json
// @Param        q             query  string  false  "Case-insensitive text over filename, event, photographer, tags and description"
// @Param        event         query  string  false  "Exact event ('all' for any)"
// @Param        photographer  query  string  false  "Exact photographer ('all' for any)"
// @Param        fileType      query  string  false  "image or video"
// @Param        tags          query  string  false  "Comma separated tags; any match"
// @Param        dateFrom      query  string  false  "Inclusive lower date bound"
// @Param        dateTo        query  string  false  "Inclusive upper date bound"
// @Success      200  {object}  responses.GalleryResponse
// @Failure      400  {object}  platformerrors.HTTPErrorResponse
// @Router       /api/gallery [get]
func (h *GalleryHandler) Gallery(c *gin.Context) {
	var q requests.GalleryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		platformerrors.WriteValidationError(c, "invalid query parameters")
		return
	}

	state := gallery.FilterState{
		Query:        q.Q,
		Event:        q.Event,
		Photographer: q.Photographer,
		Tags:         splitList(q.Tags),
		DateFrom:     q.DateFrom,
		DateTo:       q.DateTo,
	}
	if q.FileType != "" && q.FileType != gallery.AllValues {
		ft, ok := asset.ParseFileType(q.FileType)
		if !ok {
			platformerrors.WriteValidationError(c, "fileType must be image or video")
			return
		}
		state.FileType = ft
	}

	all, err := h.service.All(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.GalleryResponse{
		Records: gallery.Apply(all, state),
		Total:   len(all),
		Facets:  gallery.BuildFacets(all),
	})
}
