package domain

import "strings"

// ActorKind namespaces identifiers, OTP records and uniqueness claims.
type ActorKind string

const (
	ActorUser   ActorKind = "user"
	ActorSeller ActorKind = "seller"
)

// ActorStatus is the minimal projection the session gate loads on every request.
// It is attached to the request context by value.
type ActorStatus struct {
	ID        string    `json:"id" dynamodbav:"-"`
	Kind      ActorKind `json:"kind" dynamodbav:"-"`
	IsActive  bool      `json:"isActive" dynamodbav:"is_active"`
	IsDeleted bool      `json:"isDeleted" dynamodbav:"is_deleted"`
}

// Usable reports whether the actor may pass the session gate.
func (s ActorStatus) Usable() bool {
	return s.IsActive && !s.IsDeleted
}

// NormalizeEmail trims and lower-cases an email so uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone trims surrounding whitespace from a phone number.
func NormalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

// IdentifierKind names the field an identifier was taken from.
type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
)

// Identifier is the email or phone an OTP is keyed by and delivered to.
// Kind comes from the request field, never from the shape of Value.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

func EmailIdentifier(email string) Identifier {
	return Identifier{Kind: IdentifierEmail, Value: email}
}

func PhoneIdentifier(phone string) Identifier {
	return Identifier{Kind: IdentifierPhone, Value: phone}
}

// IsZero reports whether no identifier was supplied.
func (i Identifier) IsZero() bool {
	return i.Value == ""
}
