package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid session token")

const defaultSessionTTL = 12 * time.Hour

// HMACStrategy signs session claims with HMAC-SHA256.
// Token layout: base64url(claims JSON) "." base64url(signature).
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type claims struct {
	Subject int64  `json:"sub"`
	Email   string `json:"email"`
	Expires int64  `json:"exp"`
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, now: now}
}

// IssueToken signs a session valid for the configured TTL.
func (s *HMACStrategy) IssueToken(session Session) (string, error) {
	payload, err := json.Marshal(claims{
		Subject: session.AdminID,
		Email:   session.Email,
		Expires: s.now().Add(s.ttl).Unix(),
	})
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + s.sign(encoded), nil
}

// ParseToken verifies signature and expiry.
func (s *HMACStrategy) ParseToken(token string) (Session, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" {
		return Session{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(s.sign(encoded)), []byte(sig)) {
		return Session{}, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return Session{}, ErrInvalidToken
	}
	if c.Subject <= 0 || !time.Unix(c.Expires, 0).After(s.now()) {
		return Session{}, ErrInvalidToken
	}

	return Session{AdminID: c.Subject, Email: c.Email}, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
