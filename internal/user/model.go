package user

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const defaultImg = "https://ui-avatars.com/api/?background=random"

type User struct {
	Email     string    `bson:"email" json:"email"`
	FirstName string    `bson:"firstName" json:"firstName"`
	LastName  string    `bson:"lastName" json:"lastName"`
	Password  string    `bson:"password" json:"-"`
	Role      string    `bson:"role" json:"role"`
	IsBlocked bool      `bson:"isBlocked" json:"isBlocked"`
	Img       string    `bson:"img" json:"img"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// OTP is a short-lived password reset code; the TTL index on createdAt
// expires it after five minutes.
type OTP struct {
	Email     string    `bson:"email" json:"email"`
	Code      int       `bson:"otp" json:"otp"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// RegisterRequest payload of registration.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Img       string `json:"img"`
}

// LoginRequest payload of email/password login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries the Google OAuth access token.
// swagger:model GoogleLoginRequest
type GoogleLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

type SendOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   int    `json:"otp"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         int    `json:"otp"`
	NewPassword string `json:"newPassword"`
}
