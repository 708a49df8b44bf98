package domain

import "time"

// OTPRecord is the single pending code for one identifier of one actor kind.
// PK: identifier. ExpiresAt is a Unix timestamp used as DynamoDB TTL; the TTL
// sweep is only a backstop, readers must still check expiry themselves.
type OTPRecord struct {
	Identifier string `json:"identifier" dynamodbav:"identifier"`
	OTPHash    string `json:"otp_hash" dynamodbav:"otp_hash"`
	ExpiresAt  int64  `json:"expires_at" dynamodbav:"expires_at"`
}

// Expired reports whether the record is logically dead at now.
func (r *OTPRecord) Expired(now time.Time) bool {
	return now.Unix() >= r.ExpiresAt
}
