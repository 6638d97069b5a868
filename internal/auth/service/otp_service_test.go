package service_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/itz-mohit-014/tts-software/internal/auth/domain"
	"github.com/itz-mohit-014/tts-software/internal/auth/service"
	autherror "github.com/itz-mohit-014/tts-software/internal/errors"
	"github.com/itz-mohit-014/tts-software/internal/mocks"
	"github.com/itz-mohit-014/tts-software/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPService_Issue_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockOTPRepository(ctrl)
	mockNotifier := mocks.NewMockNotifier(ctrl)
	s := service.NewOTPService(mockRepo, mockNotifier)

	var stored *domain.OTPChallenge
	mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.OTPChallenge) error {
			stored = c
			return nil
		})
	mockNotifier.EXPECT().SendOTP(gomock.Any(), "test@example.com", gomock.Any()).Return(nil)

	code, err := s.Issue(context.Background(), "  Test@Example.com ")

	require.NoError(t, err)
	assert.Len(t, code, constant.OTPLength)
	_, convErr := strconv.Atoi(code)
	assert.NoError(t, convErr, "code must be numeric")

	require.NotNil(t, stored)
	assert.Equal(t, "test@example.com", stored.Email, "email must be normalized before storage")
	assert.Equal(t, code, stored.Code)
	assert.WithinDuration(t, time.Now().Add(constant.OTPTTL), stored.ExpiresAt, 2*time.Second)
}

func TestOTPService_Issue_DeliveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockOTPRepository(ctrl)
	mockNotifier := mocks.NewMockNotifier(ctrl)
	s := service.NewOTPService(mockRepo, mockNotifier)

	// The challenge is persisted before delivery is attempted; a failed send
	// leaves it in place so a retry just re-issues.
	mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	mockNotifier.EXPECT().SendOTP(gomock.Any(), "test@example.com", gomock.Any()).
		Return(errors.New("smtp down"))

	_, err := s.Issue(context.Background(), "test@example.com")

	assert.ErrorIs(t, err, autherror.ErrOTPDelivery)
}

func TestOTPService_Issue_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockOTPRepository(ctrl)
	mockNotifier := mocks.NewMockNotifier(ctrl)
	s := service.NewOTPService(mockRepo, mockNotifier)

	storeErr := errors.New("database error")
	mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(storeErr)

	_, err := s.Issue(context.Background(), "test@example.com")

	assert.ErrorIs(t, err, storeErr)
}

// fakeOTPRepository is a map-backed store for tests that need real upsert
// semantics rather than scripted expectations.
type fakeOTPRepository struct {
	rows map[string]domain.OTPChallenge
}

func newFakeOTPRepository() *fakeOTPRepository {
	return &fakeOTPRepository{rows: make(map[string]domain.OTPChallenge)}
}

func (f *fakeOTPRepository) Upsert(_ context.Context, challenge *domain.OTPChallenge) error {
	f.rows[challenge.Email] = *challenge
	return nil
}

func (f *fakeOTPRepository) Get(_ context.Context, email string) (*domain.OTPChallenge, error) {
	challenge, ok := f.rows[email]
	if !ok {
		return nil, nil
	}
	return &challenge, nil
}

func (f *fakeOTPRepository) Delete(_ context.Context, email string) error {
	delete(f.rows, email)
	return nil
}

func TestOTPService_ReissueOverwrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeOTPRepository()
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().SendOTP(gomock.Any(), "test@example.com", gomock.Any()).Return(nil).AnyTimes()

	s := service.NewOTPService(repo, notifier)

	first, err := s.Issue(context.Background(), "test@example.com")
	require.NoError(t, err)

	// Random codes can collide; re-issue until they differ.
	second := first
	for i := 0; i < 5 && second == first; i++ {
		second, err = s.Issue(context.Background(), "test@example.com")
		require.NoError(t, err)
	}
	require.NotEqual(t, first, second)

	// Overwrite, not accumulate: one live challenge per address.
	require.Len(t, repo.rows, 1)

	assert.ErrorIs(t, s.Verify(context.Background(), "test@example.com", first), autherror.ErrOTPMismatch)
	assert.NoError(t, s.Verify(context.Background(), "test@example.com", second))
}

func TestOTPService_Verify(t *testing.T) {
	live := &domain.OTPChallenge{
		Email:     "test@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	expired := &domain.OTPChallenge{
		Email:     "test@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	tests := []struct {
		name      string
		challenge *domain.OTPChallenge
		submitted string
		wantErr   error
	}{
		{name: "match", challenge: live, submitted: "123456", wantErr: nil},
		{name: "not found", challenge: nil, submitted: "123456", wantErr: autherror.ErrOTPNotFound},
		{name: "expired with correct code", challenge: expired, submitted: "123456", wantErr: autherror.ErrOTPExpired},
		{name: "mismatch", challenge: live, submitted: "000000", wantErr: autherror.ErrOTPMismatch},
		{name: "no code normalization", challenge: live, submitted: " 123456", wantErr: autherror.ErrOTPMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockOTPRepository(ctrl)
			s := service.NewOTPService(mockRepo, mocks.NewMockNotifier(ctrl))

			mockRepo.EXPECT().Get(gomock.Any(), "test@example.com").Return(tt.challenge, nil)

			err := s.Verify(context.Background(), "Test@Example.com", tt.submitted)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestOTPService_Verify_DoesNotConsume(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockOTPRepository(ctrl)
	s := service.NewOTPService(mockRepo, mocks.NewMockNotifier(ctrl))

	challenge := &domain.OTPChallenge{
		Email:     "test@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(time.Minute),
	}

	// Two verifications succeed; no Delete is ever expected.
	mockRepo.EXPECT().Get(gomock.Any(), "test@example.com").Return(challenge, nil).Times(2)

	require.NoError(t, s.Verify(context.Background(), "test@example.com", "123456"))
	require.NoError(t, s.Verify(context.Background(), "test@example.com", "123456"))
}

func TestOTPService_Consume(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockOTPRepository(ctrl)
	s := service.NewOTPService(mockRepo, mocks.NewMockNotifier(ctrl))

	// Delete of an absent row is a no-op, so double consumption is safe.
	mockRepo.EXPECT().Delete(gomock.Any(), "test@example.com").Return(nil).Times(2)

	require.NoError(t, s.Consume(context.Background(), "test@example.com"))
	require.NoError(t, s.Consume(context.Background(), "Test@Example.com "))
}
