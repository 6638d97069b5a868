package constant

import "time"

const (
	// OTPLength is the number of digits in a one-time passcode.
	OTPLength = 6

	// OTPTTL is how long an issued passcode stays valid.
	OTPTTL = 5 * time.Minute

	// BearerScheme is the expected Authorization header scheme.
	BearerScheme = "Bearer"

	// OTPSubject is the subject line of passcode emails.
	OTPSubject = "Your OTP Code"
)
