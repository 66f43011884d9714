// Package signedurl issues and verifies HMAC-signed, expiring tokens that
// can be embedded in public URLs such as calendar subscription feeds.
package signedurl

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformed = errors.New("invalid token format")
	ErrSignature = errors.New("invalid token signature")
	ErrExpired   = errors.New("token expired")
)

// Signer creates and validates tokens bound to a purpose and a subject.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer. A non-positive ttl defaults to 24 hours.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Generate returns a token for subject that expires after the signer's TTL.
func (s *Signer) Generate(purpose, subject string) (string, time.Time, error) {
	if purpose == "" || subject == "" {
		return "", time.Time{}, fmt.Errorf("purpose and subject required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).UTC().Truncate(time.Second)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(subject))
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	token := strings.Join([]string{encoded, ts, s.sign(purpose, encoded, ts)}, ".")
	return token, expiresAt, nil
}

// Parse validates a token for purpose and returns its subject.
func (s *Signer) Parse(purpose, token string) (string, time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", time.Time{}, ErrMalformed
	}
	encoded, ts, signature := parts[0], parts[1], parts[2]

	expected := s.sign(purpose, encoded, ts)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", time.Time{}, ErrSignature
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", time.Time{}, ErrMalformed
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", time.Time{}, ErrMalformed
	}
	expiresAt := time.Unix(unix, 0).UTC()
	if s.now().After(expiresAt) {
		return "", expiresAt, ErrExpired
	}
	return string(raw), expiresAt, nil
}

func (s *Signer) sign(purpose, encoded, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(purpose + "|" + encoded + "|" + ts))
	return hex.EncodeToString(mac.Sum(nil))
}
