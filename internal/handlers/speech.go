package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/services"
)

// Uploads past this size get rejected before transcription.
const maxAudioUploadBytes = 25 << 20

type SpeechHandler struct {
	log           *logger.Logger
	ingestService services.SpeechIngestService
}

func NewSpeechHandler(log *logger.Logger, ingestService services.SpeechIngestService) *SpeechHandler {
	return &SpeechHandler{
		log:           log.With("handler", "SpeechHandler"),
		ingestService: ingestService,
	}
}

func (h *SpeechHandler) IngestAudio(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("companyID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
		return
	}

	audio, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAudioUploadBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "read_audio_failed", err)
		return
	}
	if len(audio) == 0 {
		RespondError(c, http.StatusBadRequest, "empty_audio", nil)
		return
	}
	if len(audio) > maxAudioUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "audio_too_large", nil)
		return
	}

	transcript, err := h.ingestService.IngestAudio(c.Request.Context(), companyID, audio, c.ContentType())
	if err != nil {
		if errors.Is(err, services.ErrSpeechUnavailable) {
			RespondError(c, http.StatusServiceUnavailable, "speech_unavailable", err)
			return
		}
		h.log.Error("Audio ingest failed", "error", err, "company_id", companyID)
		RespondError(c, http.StatusInternalServerError, "ingest_audio_failed", err)
		return
	}
	RespondOK(c, gin.H{"company_id": companyID, "transcript": transcript})
}
