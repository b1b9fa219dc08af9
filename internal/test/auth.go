package test

import (
	"context"
	"errors"

	pkgAuth "github.com/polkiloo/leatherdesk/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses session tokens via function overrides.
type StrategyStub struct {
	IssueFn func(pkgAuth.Session) (string, error)
	ParseFn func(string) (pkgAuth.Session, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(session pkgAuth.Session) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(session)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Session{AdminID: 1, Email: "admin@example.com"}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Session pkgAuth.Session
	Err     error
	ParseFn func(string) (pkgAuth.Session, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (pkgAuth.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return pkgAuth.Session{}, s.Err
	}
	return s.Session, nil
}

// AuthFacadeStub simulates back-office sign-in.
type AuthFacadeStub struct {
	LoginFn func(context.Context, string, string) (string, error)
	ParseFn func(string) (pkgAuth.Session, error)
}

// Login returns token for successful sign-in scenarios.
func (s AuthFacadeStub) Login(ctx context.Context, email, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken returns a fixed admin session.
func (s AuthFacadeStub) ParseToken(token string) (pkgAuth.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Session{AdminID: 1, Email: "admin@example.com"}, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
