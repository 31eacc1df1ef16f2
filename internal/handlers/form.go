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

type FormHandler struct {
	log         *logger.Logger
	formService services.FormService
}

func NewFormHandler(log *logger.Logger, formService services.FormService) *FormHandler {
	return &FormHandler{
		log:         log.With("handler", "FormHandler"),
		formService: formService,
	}
}

type prefillRequest struct {
	CompanyID uuid.UUID `json:"company_id"`
}

func (h *FormHandler) Prefill(c *gin.Context) {
	var req prefillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.CompanyID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "company_id_required", nil)
		return
	}
	state, err := h.formService.Prefill(c.Request.Context(), req.CompanyID)
	if err != nil {
		h.log.Error("Prefill failed", "error", err, "company_id", req.CompanyID)
		RespondError(c, http.StatusInternalServerError, "prefill_failed", err)
		return
	}
	RespondOK(c, state)
}

func (h *FormHandler) Get(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
		return
	}
	state, err := h.formService.Get(c.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "submission_not_found", err)
			return
		}
		h.log.Error("Get submission failed", "error", err, "submission_id", submissionID)
		RespondError(c, http.StatusInternalServerError, "get_submission_failed", err)
		return
	}
	RespondOK(c, state)
}

type updateFieldRequest struct {
	Value string `json:"value"`
}

func (h *FormHandler) UpdateField(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
		return
	}
	fieldKey := c.Param("fieldKey")

	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	state, err := h.formService.UpdateField(c.Request.Context(), submissionID, fieldKey, req.Value)
	if err != nil {
		var rejected *services.FieldRejectedError
		switch {
		case errors.Is(err, services.ErrUnknownField):
			RespondError(c, http.StatusNotFound, "unknown_field", err)
		case errors.As(err, &rejected):
			RespondError(c, http.StatusUnprocessableEntity, "field_rejected", err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			RespondError(c, http.StatusNotFound, "submission_not_found", err)
		default:
			h.log.Error("Update field failed", "error", err, "submission_id", submissionID, "field_key", fieldKey)
			RespondError(c, http.StatusInternalServerError, "update_field_failed", err)
		}
		return
	}
	RespondOK(c, state)
}

func (h *FormHandler) SaveDraft(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
		return
	}
	state, err := h.formService.SaveDraft(c.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "submission_not_found", err)
			return
		}
		h.log.Error("Save draft failed", "error", err, "submission_id", submissionID)
		RespondError(c, http.StatusInternalServerError, "save_draft_failed", err)
		return
	}
	RespondOK(c, state)
}

func (h *FormHandler) Submit(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_submission_id", err)
		return
	}
	state, err := h.formService.Submit(c.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, services.ErrNotSubmittable) {
			// The report travels with the refusal so the client can
			// highlight what is missing.
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": APIError{Message: err.Error(), Code: "not_submittable"},
				"state": state,
			})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "submission_not_found", err)
			return
		}
		h.log.Error("Submit failed", "error", err, "submission_id", submissionID)
		RespondError(c, http.StatusInternalServerError, "submit_failed", err)
		return
	}
	RespondOK(c, state)
}
