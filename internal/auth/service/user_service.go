package service

//go:generate mockgen -destination=../../mocks/mock_repositories.go -package=mocks github.com/itz-mohit-014/tts-software/internal/auth/domain UserRepository,OTPRepository,Notifier

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itz-mohit-014/tts-software/internal/auth/domain"
	"github.com/itz-mohit-014/tts-software/internal/auth/dto"
	autherror "github.com/itz-mohit-014/tts-software/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo         domain.UserRepository
	otpService   *OTPService
	tokenService TokenGenerator
}

func NewUserService(repo domain.UserRepository, otpService *OTPService, tokenService TokenGenerator) *UserService {
	return &UserService{
		repo:         repo,
		otpService:   otpService,
		tokenService: tokenService,
	}
}

// NormalizeEmail trims and lower-cases an address. Every store interaction
// goes through this, so lookups and uniqueness are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestOTP issues a passcode for the address and emails it. No account is
// required; registration calls this before the account exists.
func (s *UserService) RequestOTP(ctx context.Context, email string) error {
	_, err := s.otpService.Issue(ctx, email)
	return err
}

// VerifyOTP checks a submitted code without consuming the challenge.
func (s *UserService) VerifyOTP(ctx context.Context, email, code string) error {
	return s.otpService.Verify(ctx, email, code)
}

// Register creates a verified account after the passcode check passes and
// consumes the challenge, so the same code cannot register twice.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyRegistered
	}

	if err := s.otpService.Verify(ctx, email, input.OTP); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		Email:        email,
		PasswordHash: string(hashed),
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.otpService.Consume(ctx, email); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	if !user.Verified {
		return nil, autherror.ErrEmailNotVerified
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, err := s.tokenService.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		UserID:      user.ID,
	}, nil
}

// GetProfile fetches an account by id. The password hash never leaves the
// service layer; handlers shape the response via dto.NewUserOutput.
func (s *UserService) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields after a passcode check against the
// account's stored address, then consumes the challenge. The OTP lookup uses
// the address on record, not one supplied by the client.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input dto.UpdateProfileInput) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if err := s.otpService.Verify(ctx, user.Email, input.OTP); err != nil {
		return err
	}

	update := domain.ProfileUpdate{
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
	}
	if input.Email != nil {
		normalized := NormalizeEmail(*input.Email)
		update.Email = &normalized
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		rehashed := string(hashed)
		update.Password = &rehashed
	}

	if update.Empty() {
		return autherror.ErrNoFieldsToUpdate
	}

	if err := s.repo.UpdateProfile(ctx, id, update); err != nil {
		return err
	}

	return s.otpService.Consume(ctx, user.Email)
}

// ForgotPassword issues a reset passcode to an existing account's address.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	_, err = s.otpService.Issue(ctx, user.Email)
	return err
}

// ResetPassword re-hashes and stores the new password once the passcode check
// passes, then consumes the challenge. Expiry is enforced here the same as in
// every other passcode-gated action.
func (s *UserService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	email := NormalizeEmail(input.Email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if err := s.otpService.Verify(ctx, email, input.OTP); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, email, string(hashed)); err != nil {
		return err
	}

	return s.otpService.Consume(ctx, email)
}
