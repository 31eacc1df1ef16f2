package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/repos"
	"github.com/coverbridge/intake-backend/internal/types"
)

var ErrCompanyNameRequired = errors.New("company name is required")

type CompanyService interface {
	Create(ctx context.Context, name string) (*types.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Company, error)
	List(ctx context.Context) ([]*types.Company, error)
}

type companyService struct {
	db          *gorm.DB
	log         *logger.Logger
	companyRepo repos.CompanyRepo
}

func NewCompanyService(db *gorm.DB, log *logger.Logger, companyRepo repos.CompanyRepo) CompanyService {
	return &companyService{
		db:          db,
		log:         log.With("service", "CompanyService"),
		companyRepo: companyRepo,
	}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func (s *companyService) Create(ctx context.Context, name string) (*types.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCompanyNameRequired
	}
	company := &types.Company{
		Name: name,
		Slug: slugify(name),
	}
	created, err := s.companyRepo.Create(ctx, nil, []*types.Company{company})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *companyService) GetByID(ctx context.Context, id uuid.UUID) (*types.Company, error) {
	return s.companyRepo.GetByID(ctx, nil, id)
}

func (s *companyService) List(ctx context.Context) ([]*types.Company, error) {
	return s.companyRepo.List(ctx, nil)
}
