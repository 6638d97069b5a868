package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/itz-mohit-014/tts-software/internal/auth/domain"
	autherror "github.com/itz-mohit-014/tts-software/internal/errors"
	"github.com/itz-mohit-014/tts-software/pkg/constant"
)

// OTPService owns the passcode lifecycle: issue, verify, consume. Verification
// never consumes; the state-changing action that follows it does, so a
// verified challenge is usable for exactly one consuming action.
type OTPService struct {
	repo     domain.OTPRepository
	notifier domain.Notifier
	ttl      time.Duration
}

func NewOTPService(repo domain.OTPRepository, notifier domain.Notifier) *OTPService {
	return &OTPService{
		repo:     repo,
		notifier: notifier,
		ttl:      constant.OTPTTL,
	}
}

// Issue stores a fresh challenge for the address, replacing any previous one,
// and emails the code. The challenge stays persisted even when delivery
// fails, so a retry simply re-issues.
func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	challenge := &domain.OTPChallenge{
		Email:     NormalizeEmail(email),
		Code:      code,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.repo.Upsert(ctx, challenge); err != nil {
		return "", err
	}

	if err := s.notifier.SendOTP(ctx, challenge.Email, code); err != nil {
		return "", autherror.ErrOTPDelivery
	}

	return code, nil
}

// Verify checks the submitted code against the stored challenge without
// consuming it. Comparison is exact; no normalization of the code.
func (s *OTPService) Verify(ctx context.Context, email, submitted string) error {
	challenge, err := s.repo.Get(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if challenge == nil {
		return autherror.ErrOTPNotFound
	}

	if challenge.Expired(time.Now()) {
		return autherror.ErrOTPExpired
	}

	if challenge.Code != submitted {
		return autherror.ErrOTPMismatch
	}

	return nil
}

// Consume deletes the stored challenge. Deleting an absent challenge is a
// no-op, so double consumption is harmless.
func (s *OTPService) Consume(ctx context.Context, email string) error {
	return s.repo.Delete(ctx, NormalizeEmail(email))
}

// generateOTP draws a uniformly random 6-digit numeric code.
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < constant.OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", constant.OTPLength, n), nil
}
