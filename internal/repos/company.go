package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/types"
)

type CompanyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, companies []*types.Company) ([]*types.Company, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Company, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Company, error)
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	repoLog := baseLog.With("repo", "CompanyRepo")
	return &companyRepo{db: db, log: repoLog}
}

func (r *companyRepo) Create(ctx context.Context, tx *gorm.DB, companies []*types.Company) ([]*types.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(companies) == 0 {
		return []*types.Company{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Company
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *companyRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Company
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
