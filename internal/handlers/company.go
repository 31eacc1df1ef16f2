package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/services"
	"github.com/coverbridge/intake-backend/internal/types"
)

type CompanyHandler struct {
	log            *logger.Logger
	companyService services.CompanyService
	memoryService  services.MemoryService
}

func NewCompanyHandler(log *logger.Logger, companyService services.CompanyService, memoryService services.MemoryService) *CompanyHandler {
	return &CompanyHandler{
		log:            log.With("handler", "CompanyHandler"),
		companyService: companyService,
		memoryService:  memoryService,
	}
}

type createCompanyRequest struct {
	Name string `json:"name"`
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	company, err := h.companyService.Create(c.Request.Context(), req.Name)
	if err != nil {
		if err == services.ErrCompanyNameRequired {
			RespondError(c, http.StatusBadRequest, "name_required", err)
			return
		}
		h.log.Error("Create company failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "create_company_failed", err)
		return
	}
	RespondOK(c, gin.H{"company": company})
}

func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyService.List(c.Request.Context())
	if err != nil {
		h.log.Error("List companies failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_companies_failed", err)
		return
	}
	RespondOK(c, gin.H{"companies": companies})
}

type putMemoryRequest struct {
	StructuredData map[string]any `json:"structured_data"`
}

func (h *CompanyHandler) PutMemory(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("companyID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
		return
	}
	var req putMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.memoryService.PutStructuredData(c.Request.Context(), companyID, req.StructuredData); err != nil {
		h.log.Error("Put memory failed", "error", err, "company_id", companyID)
		RespondError(c, http.StatusInternalServerError, "put_memory_failed", err)
		return
	}
	RespondOK(c, gin.H{"company_id": companyID})
}

type appendTranscriptRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

func (h *CompanyHandler) AppendTranscript(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("companyID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
		return
	}
	var req appendTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	source := req.Source
	if source == "" {
		source = types.TranscriptSourceManual
	}
	if err := h.memoryService.AppendTranscript(c.Request.Context(), companyID, req.Text, source); err != nil {
		h.log.Error("Append transcript failed", "error", err, "company_id", companyID)
		RespondError(c, http.StatusInternalServerError, "append_transcript_failed", err)
		return
	}
	RespondOK(c, gin.H{"company_id": companyID})
}
