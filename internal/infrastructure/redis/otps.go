package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// deleteIfEqual removes KEYS[1] only when its value is exactly ARGV[1].
const deleteIfEqual = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// OTPStore keeps one JSON-encoded OTP record per identifier under "<prefix>:<identifier>".
// Redis expires the key at the record's expiry, so a dead record is never read back.
type OTPStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewOTPStore creates a store namespaced by prefix, e.g. "otp:user" or "otp:seller".
func NewOTPStore(client redis.Cmdable, prefix string) *OTPStore {
	return &OTPStore{client: client, prefix: prefix, now: time.Now}
}

func (s *OTPStore) key(identifier string) string {
	return fmt.Sprintf("%s:%s", s.prefix, identifier)
}

func (s *OTPStore) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	ttl := time.Unix(rec.ExpiresAt, 0).Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("otp record already expired")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	return s.client.Set(ctx, s.key(rec.Identifier), data, ttl).Err()
}

func (s *OTPStore) Get(ctx context.Context, identifier string) (*domain.OTPRecord, error) {
	data, err := s.client.Get(ctx, s.key(identifier)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var rec domain.OTPRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal otp: %w", err)
	}
	return &rec, nil
}

// DeleteIfMatch deletes the key only if it still holds exactly rec.
func (s *OTPStore) DeleteIfMatch(ctx context.Context, rec *domain.OTPRecord) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal otp: %w", err)
	}
	n, err := s.client.Eval(ctx, deleteIfEqual, []string{s.key(rec.Identifier)}, string(data)).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
