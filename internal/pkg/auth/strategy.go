package auth

import "time"

// Session identifies the signed-in admin.
type Session struct {
	AdminID int64
	Email   string
}

// Strategy issues and verifies admin session tokens.
type Strategy interface {
	IssueToken(s Session) (string, error)
	ParseToken(token string) (Session, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
