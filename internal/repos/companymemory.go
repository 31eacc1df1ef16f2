package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/types"
)

type CompanyMemoryRepo interface {
	GetByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) (*types.CompanyMemory, error)
	Upsert(ctx context.Context, tx *gorm.DB, memory *types.CompanyMemory) (*types.CompanyMemory, error)
	GetTranscripts(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.MemoryTranscript, error)
	AppendTranscript(ctx context.Context, tx *gorm.DB, transcript *types.MemoryTranscript) (*types.MemoryTranscript, error)
}

type companyMemoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyMemoryRepo(db *gorm.DB, baseLog *logger.Logger) CompanyMemoryRepo {
	repoLog := baseLog.With("repo", "CompanyMemoryRepo")
	return &companyMemoryRepo{db: db, log: repoLog}
}

// GetByCompanyID returns nil (no error) when the company has no memory
// row; an absent company is not a failure anywhere in the pipeline.
func (r *companyMemoryRepo) GetByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) (*types.CompanyMemory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.CompanyMemory
	err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *companyMemoryRepo) Upsert(ctx context.Context, tx *gorm.DB, memory *types.CompanyMemory) (*types.CompanyMemory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	existing, err := r.GetByCompanyID(ctx, transaction, memory.CompanyID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := transaction.WithContext(ctx).Create(memory).Error; err != nil {
			return nil, err
		}
		return memory, nil
	}
	existing.StructuredData = memory.StructuredData
	if err := transaction.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *companyMemoryRepo) GetTranscripts(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.MemoryTranscript, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MemoryTranscript
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *companyMemoryRepo) AppendTranscript(ctx context.Context, tx *gorm.DB, transcript *types.MemoryTranscript) (*types.MemoryTranscript, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var maxPos int
	if err := transaction.WithContext(ctx).
		Model(&types.MemoryTranscript{}).
		Where("company_id = ?", transcript.CompanyID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&maxPos).Error; err != nil {
		return nil, err
	}
	transcript.Position = maxPos + 1

	if err := transaction.WithContext(ctx).Create(transcript).Error; err != nil {
		return nil, err
	}
	return transcript, nil
}
