package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/repos"
	"github.com/coverbridge/intake-backend/internal/types"
)

// MemoryService is the source-data side of the pipeline: it owns the
// per-company structured data and transcripts the extractors read.
type MemoryService interface {
	// GetCompanyContext returns the raw structured data and ordered
	// transcripts for a company. A company with no memory yields empty
	// inputs, never an error.
	GetCompanyContext(ctx context.Context, companyID uuid.UUID) (map[string]any, []string, error)
	PutStructuredData(ctx context.Context, companyID uuid.UUID, data map[string]any) error
	AppendTranscript(ctx context.Context, companyID uuid.UUID, text, source string) error
}

type memoryService struct {
	db         *gorm.DB
	log        *logger.Logger
	memoryRepo repos.CompanyMemoryRepo
}

func NewMemoryService(db *gorm.DB, log *logger.Logger, memoryRepo repos.CompanyMemoryRepo) MemoryService {
	return &memoryService{
		db:         db,
		log:        log.With("service", "MemoryService"),
		memoryRepo: memoryRepo,
	}
}

func (s *memoryService) GetCompanyContext(ctx context.Context, companyID uuid.UUID) (map[string]any, []string, error) {
	structured := map[string]any{}

	memory, err := s.memoryRepo.GetByCompanyID(ctx, nil, companyID)
	if err != nil {
		return nil, nil, err
	}
	if memory != nil && len(memory.StructuredData) > 0 {
		if err := json.Unmarshal(memory.StructuredData, &structured); err != nil {
			// Unreadable memory degrades to an empty source, same as no
			// memory at all.
			s.log.Warn("Company memory payload is not valid JSON; treating as empty", "company_id", companyID.String(), "error", err)
			structured = map[string]any{}
		}
	}

	rows, err := s.memoryRepo.GetTranscripts(ctx, nil, companyID)
	if err != nil {
		return nil, nil, err
	}
	transcripts := make([]string, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Text) == "" {
			continue
		}
		transcripts = append(transcripts, row.Text)
	}

	return structured, transcripts, nil
}

func (s *memoryService) PutStructuredData(ctx context.Context, companyID uuid.UUID, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.memoryRepo.Upsert(ctx, nil, &types.CompanyMemory{
		CompanyID:      companyID,
		StructuredData: datatypes.JSON(raw),
	})
	return err
}

func (s *memoryService) AppendTranscript(ctx context.Context, companyID uuid.UUID, text, source string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	_, err := s.memoryRepo.AppendTranscript(ctx, nil, &types.MemoryTranscript{
		CompanyID: companyID,
		Text:      text,
		Source:    source,
	})
	return err
}
