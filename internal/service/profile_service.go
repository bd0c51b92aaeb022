package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"solvetrack/internal/model"
	"solvetrack/internal/repository"
	"solvetrack/pkg/apperror"
)

// ProfileService reads account profiles. Display names are immutable once
// reserved, so there is no rename path here.
type ProfileService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByDisplayName(ctx context.Context, name string) (*model.Account, error)
}

type profileService struct {
	repo repository.AccountRepository
}

func NewProfileService(repo repository.AccountRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *profileService) GetByDisplayName(ctx context.Context, name string) (*model.Account, error) {
	account, err := s.repo.FindByDisplayName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return account, nil
}
