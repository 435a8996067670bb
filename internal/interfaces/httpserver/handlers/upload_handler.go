package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/framevault/framevault-server/internal/config"
	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/infrastructure/metrics"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver/requests"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver/responses"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

// UploadHandler exposes the upload endpoints.
type UploadHandler struct {
	cfg     *config.Config
	service *asset.Service
	log     zerolog.Logger
}

func NewUploadHandler(cfg *config.Config, service *asset.Service, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "upload-handler").Logger(),
	}
}

// Upload godoc
// @Summary      Upload files through the server
// @Description  Multipart upload of one or more files sharing one metadata JSON document. Files are stored in order; the first failure stops the batch.
// @Tags         upload
// @Accept       mpfd
// @Produce      json
// @Param        files      formData  file    true   "Files (files[] or files)"
// @Param        metadata   formData  string  true   "Batch metadata JSON"
// @Param        batchMode  formData  string  false  "true when uploading many files"
// @Success      200  {object}  responses.UploadResponse
// @Failure      400  {object}  platformerrors.HTTPErrorResponse
// @Failure      413  {object}  platformerrors.HTTPErrorResponse
// @Failure      500  {object}  platformerrors.HTTPErrorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.cfg.MaxUploadRequestBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadRequestBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			platformerrors.WriteTooLarge(c, fmt.Sprintf("Upload exceeds the maximum request size of %d bytes", tooLarge.Limit))
			return
		}
		platformerrors.WriteValidationError(c, "No files provided")
		return
	}
	headers := append(form.File["files[]"], form.File["files"]...)
	if len(headers) == 0 {
		platformerrors.WriteValidationError(c, "No files provided")
		return
	}

	var meta asset.Metadata
	raw := strings.TrimSpace(c.PostForm("metadata"))
	if raw == "" {
		platformerrors.WriteValidationError(c, "Missing required metadata fields")
		return
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		platformerrors.WriteValidationError(c, "Invalid metadata JSON")
		return
	}

	files, closeAll, err := openParts(headers)
	defer closeAll()
	if err != nil {
		platformerrors.WriteInternalError(c, "Failed to read uploaded files")
		return
	}

	h.log.Info().
		Int("files", len(files)).
		Bool("batch_mode", c.PostForm("batchMode") == "true").
		Str("event", meta.Event).
		Msg("server upload started")

	uploaded, err := h.service.UploadFiles(c.Request.Context(), files, meta)
	for i := range uploaded {
		metrics.RecordUpload(string(asset.DetectFileType(files[i].ContentType, files[i].Name)), files[i].Size, nil)
	}
	if err != nil {
		if len(uploaded) < len(files) && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			failed := files[len(uploaded)]
			metrics.RecordUpload(string(asset.DetectFileType(failed.ContentType, failed.Name)), 0, err)
		}
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.UploadResponse{Success: true, Assets: uploaded})
}

// PresignedURL godoc
// @Summary      Request a direct upload URL
// @Description  Generates a storage key and a presigned PUT URL. The client must send the same Content-Type it declared.
// @Tags         upload
// @Accept       json
// @Produce      json
// @Param        request  body      requests.PresignedURLRequest  true  "File description"
// @Success      200      {object}  responses.PresignedURLResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      500      {object}  platformerrors.HTTPErrorResponse
// @Failure      501      {object}  platformerrors.HTTPErrorResponse
// @Router       /api/upload/presigned-url [post]
func (h *UploadHandler) PresignedURL(c *gin.Context) {
	var req requests.PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "fileName is required")
		return
	}

	target, err := h.service.PrepareUpload(c.Request.Context(), asset.UploadRequest{
		FileName: req.FileName,
		MimeType: req.FileType,
		Size:     req.FileSize,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.PresignedURLResponse{
		Success:      true,
		PresignedURL: target.UploadURL,
		Key:          target.Key,
		PublicURL:    target.PublicURL,
		ExpiresIn:    target.ExpiresIn,
	})
}

// SaveMetadata godoc
// @Summary      Register a directly uploaded file
// @Tags         upload
// @Accept       json
// @Produce      json
// @Param        request  body      requests.MetadataRequest  true  "Uploaded file and batch metadata"
// @Success      200      {object}  responses.MetadataResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      500      {object}  platformerrors.HTTPErrorResponse
// @Router       /api/upload/metadata [post]
func (h *UploadHandler) SaveMetadata(c *gin.Context) {
	var req requests.MetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "Missing required metadata fields")
		return
	}

	fileType, ok := asset.ParseFileType(req.FileType)
	if !ok {
		fileType = asset.DetectFileType(req.MimeType, req.OriginalFilename)
	}

	record, err := h.service.RecordUpload(c.Request.Context(), asset.RecordUploadRequest{
		Key:              req.Key,
		OriginalFilename: req.OriginalFilename,
		PublicURL:        req.PublicURL,
		FileType:         fileType,
		MimeType:         req.MimeType,
		Size:             req.Size,
		Metadata:         req.Metadata,
	})
	metrics.RecordUpload(string(fileType), req.Size, err)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.MetadataResponse{
		Success: true,
		Asset: asset.UploadedAsset{
			ID:       record.ID,
			Filename: record.OriginalFilename,
			URL:      record.URL,
		},
	})
}

// Abandon godoc
// @Summary      Discard an unregistered upload
// @Description  Deletes a blob left behind when saving metadata failed. Blobs referenced by a record are kept.
// @Tags         upload
// @Accept       json
// @Produce      json
// @Param        request  body      requests.AbandonRequest  true  "Storage key"
// @Success      200      {object}  responses.AbandonResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Router       /api/upload/abandon [post]
func (h *UploadHandler) Abandon(c *gin.Context) {
	var req requests.AbandonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "key is required")
		return
	}

	deleted, err := h.service.AbandonUpload(c.Request.Context(), req.Key)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.AbandonResponse{Success: true, Deleted: deleted})
}

// openParts opens every multipart file. The returned closer is always safe to call.
func openParts(headers []*multipart.FileHeader) ([]asset.UploadFile, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	files := make([]asset.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, f)
		files = append(files, asset.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return files, closeAll, nil
}
