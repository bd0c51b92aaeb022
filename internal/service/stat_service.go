package service

import (
	"context"

	"solvetrack/internal/repository"
)

type Stats struct {
	TotalAccounts int64 `json:"total_accounts"`
	TotalSolved   int   `json:"total_solved"`
}

type StatService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statService struct {
	repo repository.AccountRepository
}

func NewStatService(repo repository.AccountRepository) StatService {
	return &statService{repo: repo}
}

func (s *statService) GetStats(ctx context.Context) (*Stats, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.ListRanked(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, account := range accounts {
		total += account.SolvedCount
	}

	return &Stats{
		TotalAccounts: count,
		TotalSolved:   total,
	}, nil
}
