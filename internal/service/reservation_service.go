package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"solvetrack/internal/model"
	"solvetrack/internal/namegen"
	"solvetrack/internal/repository"
	"solvetrack/pkg/apperror"
)

// maxCandidateAttempts bounds the generate-and-reserve loop so a saturated
// namespace fails with ErrNameGeneration instead of spinning forever.
const maxCandidateAttempts = 10

// AccountSeed carries the immutable fields of a new account.
type AccountSeed struct {
	Email        string
	PasswordHash string
}

type ReservationService interface {
	ReserveAndCreate(ctx context.Context, source namegen.Source, seed AccountSeed) (*model.Account, error)
	Release(ctx context.Context, accountID uuid.UUID, displayName string) error
}

type reservationService struct {
	repo repository.AccountRepository
}

func NewReservationService(repo repository.AccountRepository) ReservationService {
	return &reservationService{repo: repo}
}

// ReserveAndCreate mints a unique display name from the source and commits
// the account together with its name reservation in one transaction.
//
// The existence pre-check is advisory only; the commit itself is conditional
// on the reservation being absent, so two signups racing on the same
// candidate cannot both succeed. A losing generated candidate is discarded
// and the loop draws a fresh one; a losing caller-supplied candidate (a
// Static source, which refuses to yield twice) surfaces ErrNameTaken.
func (s *reservationService) ReserveAndCreate(ctx context.Context, source namegen.Source, seed AccountSeed) (*model.Account, error) {
	for attempt := 0; attempt < maxCandidateAttempts; attempt++ {
		candidate, err := source.Next(ctx)
		if err != nil {
			if attempt == 0 {
				return nil, fmt.Errorf("%w: %v", apperror.ErrNameGeneration, err)
			}
			// The source ran dry after at least one taken candidate.
			// For a Static source that means the name was taken.
			return nil, apperror.ErrNameTaken
		}
		if candidate == "" {
			return nil, apperror.ErrNameGeneration
		}

		// Advisory pre-check: skips a doomed transaction on the common
		// path, but the commit below is what actually decides the race.
		taken, err := s.repo.ReservationExists(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		account := &model.Account{
			Email:        seed.Email,
			PasswordHash: seed.PasswordHash,
			DisplayName:  candidate,
			SolvedCount:  0,
		}

		err = s.repo.CreateWithReservation(ctx, account)
		if err == nil {
			return account, nil
		}
		if errors.Is(err, apperror.ErrNameTaken) {
			// Lost the commit race; draw the next candidate.
			log.Printf("display name %q reserved concurrently, retrying", candidate)
			continue
		}
		return nil, err
	}

	return nil, apperror.ErrNameGeneration
}

// Release removes the account and its reservation atomically. Partial state
// from an earlier interrupted delete is cleaned up rather than treated as
// corruption; ErrNotFound means there was nothing left to delete.
func (s *reservationService) Release(ctx context.Context, accountID uuid.UUID, displayName string) error {
	return s.repo.DeleteWithReservation(ctx, accountID, displayName)
}
