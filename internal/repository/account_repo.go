package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"solvetrack/internal/model"
	"solvetrack/pkg/apperror"
)

type AccountRepository interface {
	CreateWithReservation(ctx context.Context, account *model.Account) error
	DeleteWithReservation(ctx context.Context, id uuid.UUID, displayName string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByDisplayName(ctx context.Context, name string) (*model.Account, error)
	ReservationExists(ctx context.Context, name string) (bool, error)
	AdjustSolvedCount(ctx context.Context, id uuid.UUID, delta int) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	ListRanked(ctx context.Context) ([]model.Account, error)
	Count(ctx context.Context) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// CreateWithReservation writes the account and its name reservation in one
// transaction. The reservation insert is conditional on absence (ON CONFLICT
// DO NOTHING with the affected-row count checked), so two signups racing on
// the same name cannot both commit: the loser gets apperror.ErrNameTaken and
// no rows are written.
func (r *accountRepository) CreateWithReservation(ctx context.Context, account *model.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation := &model.NameReservation{
			Name:    account.DisplayName,
			OwnerID: account.ID,
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(reservation)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNameTaken
		}

		return tx.Create(account).Error
	})
}

// DeleteWithReservation removes the account and its reservation together.
// It tolerates partial state left behind by an interrupted earlier delete:
// whichever half still exists is removed, and apperror.ErrNotFound is
// returned only when neither half was present.
func (r *accountRepository) DeleteWithReservation(ctx context.Context, id uuid.UUID, displayName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accRes := tx.Delete(&model.Account{}, "id = ?", id)
		if accRes.Error != nil {
			return accRes.Error
		}

		nameRes := tx.Delete(&model.NameReservation{}, "name = ?", displayName)
		if nameRes.Error != nil {
			return nameRes.Error
		}

		if accRes.RowsAffected == 0 && nameRes.RowsAffected == 0 {
			return apperror.ErrNotFound
		}

		return nil
	})
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&account).Error; err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&account).Error; err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) FindByDisplayName(ctx context.Context, name string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).
		Where("display_name = ?", name).
		First(&account).Error; err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) ReservationExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.NameReservation{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// AdjustSolvedCount applies the delta server-side in a single UPDATE, so the
// counter is never read-modified-written by the client. The WHERE clause also
// guards the non-negativity invariant atomically: a decrement that would push
// the count below zero matches no rows and is rejected.
func (r *accountRepository) AdjustSolvedCount(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND solved_count + ? >= 0", id, delta).
		UpdateColumn("solved_count", gorm.Expr("solved_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&model.Account{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return apperror.ErrInsufficientCount
	}

	return nil
}

func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ListRanked returns all accounts ordered by solved count descending; ties
// break on account ID ascending so the ordering is deterministic.
func (r *accountRepository) ListRanked(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := r.db.WithContext(ctx).
		Order("solved_count DESC, id ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
