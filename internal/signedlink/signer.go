package signedlink

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

const (
	userIDLen    = 16
	timestampLen = 8
	macLen       = sha256.Size
	payloadLen   = userIDLen + timestampLen
	tokenLen     = payloadLen + macLen
)

// Signer issues and verifies opaque expiring-link tokens. A token binds a
// user identity to its issuance timestamp under an HMAC-SHA256 signature.
// Tokens are not persisted; possession of a valid unexpired token is the
// whole capability.
//
// The signing secret is injected at construction and the clock is
// replaceable so tests can simulate elapsed time without sleeping.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return NewSignerWithClock(secret, time.Now)
}

func NewSignerWithClock(secret string, now func() time.Time) *Signer {
	return &Signer{secret: []byte(secret), now: now}
}

// Issue produces a token binding userID and the current timestamp. Repeat
// calls within the same second legitimately yield identical tokens.
func (s *Signer) Issue(userID uuid.UUID) string {
	payload := make([]byte, payloadLen, tokenLen)
	copy(payload[:userIDLen], userID[:])
	binary.BigEndian.PutUint64(payload[userIDLen:], uint64(s.now().Unix()))

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)

	return base64.RawURLEncoding.EncodeToString(mac.Sum(payload))
}

// Verify recovers the bound user identity iff the signature checks out and
// no more than maxAgeSeconds have elapsed since issuance. The signature
// comparison is constant time, and every failure mode collapses into the
// same (uuid.Nil, false) result so callers cannot distinguish a forged token
// from an expired one.
func (s *Signer) Verify(token string, maxAgeSeconds int64) (uuid.UUID, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != tokenLen {
		return uuid.Nil, false
	}

	payload, sig := raw[:payloadLen], raw[payloadLen:]

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return uuid.Nil, false
	}

	if maxAgeSeconds < 0 {
		return uuid.Nil, false
	}

	issued := int64(binary.BigEndian.Uint64(payload[userIDLen:]))
	elapsed := s.now().Unix() - issued
	if elapsed < 0 || elapsed > maxAgeSeconds {
		return uuid.Nil, false
	}

	var userID uuid.UUID
	copy(userID[:], payload[:userIDLen])
	return userID, true
}
