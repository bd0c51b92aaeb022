package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"solvetrack/internal/repository"
	"solvetrack/pkg/apperror"
)

// LedgerService owns the solved-problem counter. All mutation goes through
// Adjust; the stored value is never read, modified and written back by the
// caller.
type LedgerService interface {
	Adjust(ctx context.Context, accountID uuid.UUID, delta int) error
}

// ChangeNotifier is told after every successful counter mutation so derived
// views can refresh.
type ChangeNotifier interface {
	NotifyChanged(ctx context.Context)
}

type ledgerService struct {
	repo     repository.AccountRepository
	notifier ChangeNotifier
}

func NewLedgerService(repo repository.AccountRepository, notifier ChangeNotifier) LedgerService {
	return &ledgerService{
		repo:     repo,
		notifier: notifier,
	}
}

// Adjust adds delta to the account's solved count as a single server-side
// increment. A zero delta is a caller error and is rejected before any I/O.
//
// For decrements the count is checked against the freshest read first; this
// pre-check produces the friendly ErrInsufficientCount on the common path,
// while the repository's guarded UPDATE enforces the same bound atomically
// should a concurrent session drain the count between check and write.
func (s *ledgerService) Adjust(ctx context.Context, accountID uuid.UUID, delta int) error {
	if delta == 0 {
		return apperror.ErrInvalidInput
	}

	if delta < 0 {
		account, err := s.repo.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}
		if account.SolvedCount+delta < 0 {
			return apperror.ErrInsufficientCount
		}
	}

	if err := s.repo.AdjustSolvedCount(ctx, accountID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyChanged(ctx)
	}

	return nil
}
