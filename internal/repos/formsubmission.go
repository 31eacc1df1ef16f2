package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/types"
)

type FormSubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submission *types.FormSubmission) (*types.FormSubmission, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FormSubmission, error)
	Update(ctx context.Context, tx *gorm.DB, submission *types.FormSubmission) (*types.FormSubmission, error)
	ListByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.FormSubmission, error)
}

type formSubmissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFormSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) FormSubmissionRepo {
	repoLog := baseLog.With("repo", "FormSubmissionRepo")
	return &formSubmissionRepo{db: db, log: repoLog}
}

func (r *formSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *types.FormSubmission) (*types.FormSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *formSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FormSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.FormSubmission
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *formSubmissionRepo) Update(ctx context.Context, tx *gorm.DB, submission *types.FormSubmission) (*types.FormSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *formSubmissionRepo) ListByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.FormSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.FormSubmission
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
