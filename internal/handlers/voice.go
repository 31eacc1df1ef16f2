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

type VoiceHandler struct {
	log          *logger.Logger
	voiceService services.VoiceCommandService
}

func NewVoiceHandler(log *logger.Logger, voiceService services.VoiceCommandService) *VoiceHandler {
	return &VoiceHandler{
		log:          log.With("handler", "VoiceHandler"),
		voiceService: voiceService,
	}
}

type voiceCommandRequest struct {
	Utterance string `json:"utterance"`
}

func (h *VoiceHandler) Command(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
		return
	}
	var req voiceCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	state, cmd, err := h.voiceService.HandleUtterance(c.Request.Context(), submissionID, req.Utterance)
	if err != nil {
		var rejected *services.FieldRejectedError
		switch {
		case errors.Is(err, services.ErrVoiceUnavailable):
			RespondError(c, http.StatusServiceUnavailable, "voice_unavailable", err)
		case errors.Is(err, services.ErrNotUpdateCommand):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   APIError{Message: err.Error(), Code: "not_update_command"},
				"command": cmd,
			})
		case errors.Is(err, services.ErrUnrecognizedField):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   APIError{Message: err.Error(), Code: "unrecognized_field"},
				"command": cmd,
			})
		case errors.As(err, &rejected):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   APIError{Message: err.Error(), Code: "field_rejected"},
				"command": cmd,
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			RespondError(c, http.StatusNotFound, "submission_not_found", err)
		default:
			h.log.Error("Voice command failed", "error", err, "submission_id", submissionID)
			RespondError(c, http.StatusInternalServerError, "voice_command_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{"state": state, "command": cmd})
}
