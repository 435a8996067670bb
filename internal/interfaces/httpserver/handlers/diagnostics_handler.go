package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/framevault/framevault-server/internal/config"
	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver/responses"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

// DiagnosticsHandler reports backend connectivity and configuration gaps.
type DiagnosticsHandler struct {
	cfg     *config.Config
	service *asset.Service
	log     zerolog.Logger
}

func NewDiagnosticsHandler(cfg *config.Config, service *asset.Service, log zerolog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "diagnostics-handler").Logger(),
	}
}

// Storage godoc
// @Summary      Check object storage connectivity
// @Tags         diagnostics
// @Produce      json
// @Success      200  {object}  responses.DiagnosticResponse
// @Failure      500  {object}  platformerrors.HTTPErrorResponse
// @Router       /api/diagnostics/storage [get]
func (h *DiagnosticsHandler) Storage(c *gin.Context) {
	if err := h.service.CheckStorage(c.Request.Context()); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DiagnosticResponse{Success: true, Message: "Successfully connected to object storage"})
}

// Metadata godoc
// @Summary      Check metadata store connectivity
// @Tags         diagnostics
// @Produce      json
// @Success      200  {object}  responses.DiagnosticResponse
// @Failure      500  {object}  platformerrors.HTTPErrorResponse
// @Router       /api/diagnostics/metadata [get]
func (h *DiagnosticsHandler) Metadata(c *gin.Context) {
	if err := h.service.CheckMetadata(c.Request.Context()); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DiagnosticResponse{Success: true, Message: "Successfully connected to the metadata store"})
}

// Config godoc
// @Summary      Check required settings
// @Description  Lists settings that are unset or still hold template placeholders. Values are never returned.
// @Tags         diagnostics
// @Produce      json
// @Success      200  {object}  responses.ConfigDiagnosticResponse
// @Router       /api/diagnostics/config [get]
func (h *DiagnosticsHandler) Config(c *gin.Context) {
	issues := h.cfg.DiagnoseMissing()
	message := "All environment variables are properly configured"
	if !issues.OK() {
		problems := append([]string{}, issues.Missing...)
		for _, name := range issues.Placeholders {
			problems = append(problems, fmt.Sprintf("%s has placeholder value", name))
		}
		message = "Issues found: " + strings.Join(problems, ", ")
	}

	c.JSON(http.StatusOK, responses.ConfigDiagnosticResponse{
		Success:         issues.OK(),
		MissingVars:     issues.Missing,
		HasPlaceholders: issues.Placeholders,
		Message:         message,
	})
}
