package domain

import "time"

// Seller is the merchant actor. Email is required and unique among sellers;
// phone is optional and unique when set.
type Seller struct {
	SellerID        string    `json:"id" dynamodbav:"seller_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Email           string    `json:"email" dynamodbav:"email"`
	Phone           string    `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	PasswordHash    string    `json:"-" dynamodbav:"password_hash"`
	IsEmailVerified bool      `json:"isEmailVerified" dynamodbav:"is_email_verified"`
	IsActive        bool      `json:"isActive" dynamodbav:"is_active"`
	IsDeleted       bool      `json:"isDeleted" dynamodbav:"is_deleted"`
	CreatedAt       time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type RegisterSellerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
}

type SellerLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SellerVerifyRequest completes either a seller registration or a seller login.
type SellerVerifyRequest struct {
	OTP   string `json:"otp" validate:"required,numeric,len=6"`
	Email string `json:"email" validate:"required,email"`
}
