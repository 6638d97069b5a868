package domain

import "context"

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type OTPRepository interface {
	// Upsert atomically replaces any existing challenge for the same email.
	Upsert(ctx context.Context, challenge *OTPChallenge) error
	Get(ctx context.Context, email string) (*OTPChallenge, error)
	// Delete is a no-op when no challenge exists.
	Delete(ctx context.Context, email string) error
}

// Notifier delivers a passcode to an account's contact address.
type Notifier interface {
	SendOTP(ctx context.Context, recipient, code string) error
}
