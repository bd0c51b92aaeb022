package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"solvetrack/internal/model"
	"solvetrack/pkg/apperror"
)

// fakeAccountRepo is an in-memory stand-in for the Postgres repository. All
// methods are linearized by one mutex, mirroring the store's atomicity
// guarantees for transactions and single-field increments.
type fakeAccountRepo struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*model.Account
	reservations map[string]uuid.UUID

	adjustCalls int
	listErr     error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts:     make(map[uuid.UUID]*model.Account),
		reservations: make(map[string]uuid.UUID),
	}
}

func (f *fakeAccountRepo) CreateWithReservation(ctx context.Context, account *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, taken := f.reservations[account.DisplayName]; taken {
		return apperror.ErrNameTaken
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	stored := *account
	f.accounts[account.ID] = &stored
	f.reservations[account.DisplayName] = account.ID
	return nil
}

func (f *fakeAccountRepo) DeleteWithReservation(ctx context.Context, id uuid.UUID, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, hadAccount := f.accounts[id]
	_, hadReservation := f.reservations[displayName]
	if !hadAccount && !hadReservation {
		return apperror.ErrNotFound
	}

	delete(f.accounts, id)
	delete(f.reservations, displayName)
	return nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, account := range f.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccountRepo) FindByDisplayName(ctx context.Context, name string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, account := range f.accounts {
		if account.DisplayName == name {
			copied := *account
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccountRepo) ReservationExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.reservations[name]
	return ok, nil
}

func (f *fakeAccountRepo) AdjustSolvedCount(ctx context.Context, id uuid.UUID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.adjustCalls++

	account, ok := f.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if account.SolvedCount+delta < 0 {
		return apperror.ErrInsufficientCount
	}

	account.SolvedCount += delta
	return nil
}

func (f *fakeAccountRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	account.PasswordHash = hash
	return nil
}

func (f *fakeAccountRepo) ListRanked(ctx context.Context) ([]model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	accounts := make([]model.Account, 0, len(f.accounts))
	for _, account := range f.accounts {
		accounts = append(accounts, *account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].SolvedCount != accounts[j].SolvedCount {
			return accounts[i].SolvedCount > accounts[j].SolvedCount
		}
		return strings.Compare(accounts[i].ID.String(), accounts[j].ID.String()) < 0
	})

	return accounts, nil
}

func (f *fakeAccountRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return int64(len(f.accounts)), nil
}

// pairedState reports whether every account has exactly one reservation and
// vice versa.
func (f *fakeAccountRepo) pairedState() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.accounts) != len(f.reservations) {
		return false
	}
	for name, ownerID := range f.reservations {
		account, ok := f.accounts[ownerID]
		if !ok || account.DisplayName != name {
			return false
		}
	}
	return true
}

func (f *fakeAccountRepo) seed(account *model.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	stored := *account
	f.accounts[account.ID] = &stored
	f.reservations[account.DisplayName] = account.ID
}
