package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"solvetrack/internal/model"
	"solvetrack/internal/namegen"
	"solvetrack/internal/repository"
	"solvetrack/pkg/apperror"
)

type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	// Username is optional; when empty a display name is generated.
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	Account     *model.Account `json:"account"`
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Reauthenticate(ctx context.Context, accountID uuid.UUID, password string) error
	DeleteAccount(ctx context.Context, accountID uuid.UUID, password string) error
}

type authService struct {
	repo          repository.AccountRepository
	reservations  ReservationService
	leaderboard   ChangeNotifier
	redisClient   *redis.Client
	nameSource    func() namegen.Source
	secret        string
	tokenTTL      time.Duration
	resetTokenTTL time.Duration
	appID         string
}

func NewAuthService(
	repo repository.AccountRepository,
	reservations ReservationService,
	leaderboard ChangeNotifier,
	redisClient *redis.Client,
	nameSource func() namegen.Source,
	secret string,
	tokenTTL time.Duration,
	resetTokenTTL time.Duration,
	appID string,
) AuthService {
	return &authService{
		repo:          repo,
		reservations:  reservations,
		leaderboard:   leaderboard,
		redisClient:   redisClient,
		nameSource:    nameSource,
		secret:        secret,
		tokenTTL:      tokenTTL,
		resetTokenTTL: resetTokenTTL,
		appID:         appID,
	}
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ErrMalformedEmail
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var source namegen.Source
	if input.Username != "" {
		source = namegen.NewStatic(strings.TrimSpace(input.Username))
	} else {
		source = s.nameSource()
	}

	account, err := s.reservations.ReserveAndCreate(ctx, source, AccountSeed{
		Email:        email,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		return nil, err
	}

	if s.leaderboard != nil {
		s.leaderboard.NotifyChanged(ctx)
	}

	return s.buildAuthResponse(account)
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	account, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.buildAuthResponse(account)
}

// RequestPasswordReset stores a single-use token in Redis keyed under the
// deployment namespace. An unknown email is a silent success so the endpoint
// cannot be used to probe which addresses are registered.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if s.redisClient == nil {
		return apperror.ErrInternal
	}

	token, err := randomToken()
	if err != nil {
		return err
	}

	key := s.resetKey(token)
	if err := s.redisClient.Set(ctx, key, account.ID.String(), s.resetTokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	// Delivery is delegated to the mail pipeline.
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.ErrInvalidInput
	}
	if s.redisClient == nil {
		return apperror.ErrInternal
	}

	key := s.resetKey(token)
	idStr, err := s.redisClient.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperror.ErrUnauthorized
		}
		return err
	}

	accountID, err := uuid.Parse(idStr)
	if err != nil {
		return apperror.ErrUnauthorized
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, accountID, string(hashedPassword)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return nil
}

// Reauthenticate re-checks the password before sensitive operations.
func (s *authService) Reauthenticate(ctx context.Context, accountID uuid.UUID, password string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return apperror.ErrInvalidCredentials
	}

	return nil
}

func (s *authService) DeleteAccount(ctx context.Context, accountID uuid.UUID, password string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return apperror.ErrInvalidCredentials
	}

	if err := s.reservations.Release(ctx, account.ID, account.DisplayName); err != nil {
		return err
	}

	if s.leaderboard != nil {
		s.leaderboard.NotifyChanged(ctx)
	}

	return nil
}

func (s *authService) buildAuthResponse(account *model.Account) (*AuthResponse, error) {
	token, expiresAt, err := s.generateToken(account)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		Account:     account,
	}, nil
}

func (s *authService) generateToken(account *model.Account) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   account.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

func (s *authService) resetKey(token string) string {
	return fmt.Sprintf("%s:password_reset:%s", s.appID, token)
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
