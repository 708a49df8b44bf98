package dynamo

// DynamoDB attribute names used in keys, conditions and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID       = "user_id"
	fieldSellerID     = "seller_id"
	fieldEmail        = "email"
	fieldPhone        = "phone"
	fieldIsActive     = "is_active"
	fieldIsDeleted    = "is_deleted"
	fieldUpdatedAt    = "updated_at"
	fieldIdentifier   = "identifier"
	fieldOTPHash      = "otp_hash"
	fieldExpiresAt    = "expires_at"
	fieldClaimKey     = "claim_key"
	fieldClaimActorID = "actor_id"

	indexEmail = "email-index"
	indexPhone = "phone-index"
)
