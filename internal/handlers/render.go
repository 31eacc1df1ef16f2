package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/services"
)

type RenderHandler struct {
	log           *logger.Logger
	renderService services.RenderService
}

func NewRenderHandler(log *logger.Logger, renderService services.RenderService) *RenderHandler {
	return &RenderHandler{
		log:           log.With("handler", "RenderHandler"),
		renderService: renderService,
	}
}

func (h *RenderHandler) Render(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
		return
	}
	state, err := h.renderService.Render(c.Request.Context(), submissionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRenderUnavailable):
			RespondError(c, http.StatusServiceUnavailable, "render_unavailable", err)
		case errors.Is(err, services.ErrNotRenderable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": APIError{Message: err.Error(), Code: "not_renderable"},
				"state": state,
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			RespondError(c, http.StatusNotFound, "submission_not_found", err)
		default:
			h.log.Error("Render failed", "error", err, "submission_id", submissionID)
			RespondError(c, http.StatusInternalServerError, "render_failed", err)
		}
		return
	}
	RespondOK(c, state)
}
