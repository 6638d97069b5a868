package domain

import "time"

type User struct {
	ID           string
	Firstname    string
	Lastname     string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OTPChallenge is the single live passcode for an email address. A new
// issuance replaces any previous challenge for the same address.
type OTPChallenge struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its deadline at the given
// instant. Expiry is checked lazily on read; nothing reaps stale rows.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ProfileUpdate carries the optional fields of a profile change. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Firstname *string
	Lastname  *string
	Email     *string
	Password  *string
}

func (u ProfileUpdate) Empty() bool {
	return u.Firstname == nil && u.Lastname == nil && u.Email == nil && u.Password == nil
}
