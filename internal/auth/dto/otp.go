package dto

type EmailRequest struct {
	Email string `json:"email"`
}

type OTPVerifyInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
