package domain

import "time"

// DefaultProfileImage is assigned to users until they upload their own avatar.
const DefaultProfileImage = "https://cdn.pixabay.com/photo/2023/02/18/11/00/icon-7797704_640.png"

// Gender values accepted on user profiles.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// User is the end-user actor. Email and phone are optional but at least one is
// present, and each is unique among users when set.
type User struct {
	UserID          string     `json:"id" dynamodbav:"user_id"`
	Name            string     `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Email           string     `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Phone           string     `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	ProfileImage    string     `json:"profileImage" dynamodbav:"profile_image"`
	ProfileImageKey string     `json:"-" dynamodbav:"profile_image_key,omitempty"`
	DOB             *time.Time `json:"dob,omitempty" dynamodbav:"dob,omitempty"`
	Gender          string     `json:"gender,omitempty" dynamodbav:"gender,omitempty"`
	IsEmailVerified bool       `json:"isEmailVerified" dynamodbav:"is_email_verified"`
	IsPhoneVerified bool       `json:"isPhoneVerified" dynamodbav:"is_phone_verified"`
	IsActive        bool       `json:"isActive" dynamodbav:"is_active"`
	IsDeleted       bool       `json:"isDeleted" dynamodbav:"is_deleted"`
	CreatedAt       time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
}

// RegisterUserRequest is the body of the user registration step.
type RegisterUserRequest struct {
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"omitempty,e164"`
	Name         string `json:"name" validate:"omitempty,max=100"`
	DOB          string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender       string `json:"gender" validate:"omitempty,oneof=male female other"`
	ProfileImage string `json:"profileImage"`
}

// RegistrationPayload is the unpersisted registration data carried inside a
// registration token between the request-OTP and verify-OTP steps.
type RegistrationPayload struct {
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Name         string `json:"name,omitempty"`
	DOB          string `json:"dob,omitempty"`
	Gender       string `json:"gender,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Identifier returns the OTP key for this payload, preferring email over phone.
func (p RegistrationPayload) Identifier() Identifier {
	if p.Email != "" {
		return EmailIdentifier(p.Email)
	}
	return PhoneIdentifier(p.Phone)
}

// UserLoginRequest starts a user login. Exactly the supplied identifier is used; email wins when both are set.
type UserLoginRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}

// UserVerifyLoginRequest completes a user login.
type UserVerifyLoginRequest struct {
	OTP   string `json:"otp" validate:"required,numeric,len=6"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}

// VerifyRegistrationRequest completes a user registration.
type VerifyRegistrationRequest struct {
	OTP               string `json:"otp" validate:"required,numeric,len=6"`
	RegistrationToken string `json:"registrationToken" validate:"required"`
}

// UpdateProfileRequest is a partial user profile edit. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Phone  *string `json:"phone" validate:"omitempty,e164"`
	DOB    *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female other"`
}
