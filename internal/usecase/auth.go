package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
	"github.com/polkiloo/leatherdesk/internal/domain/repository"
	pkgAuth "github.com/polkiloo/leatherdesk/internal/pkg/auth"
)

// AdminAuthUseCase handles back-office sign-in and session tokens.
type AdminAuthUseCase struct {
	admins repository.AdminRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	logger *slog.Logger
}

// NewAdminAuthUseCase constructs AdminAuthUseCase.
func NewAdminAuthUseCase(admins repository.AdminRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, logger *slog.Logger) *AdminAuthUseCase {
	return &AdminAuthUseCase{admins: admins, hasher: hasher, tokens: strategy, logger: logger}
}

// EnsureAdmin creates the bootstrap account if it does not exist yet.
func (u *AdminAuthUseCase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	if _, err := u.admins.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return domainErrors.Persistence("get admin", err)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}

	if _, err := u.admins.Create(ctx, email, hash); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil
		}
		return domainErrors.Persistence("create admin", err)
	}

	u.logger.Info("bootstrap admin created", slog.String("email", email))
	return nil
}

// Authenticate validates credentials and returns a session token.
func (u *AdminAuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.Admin, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	admin, err := u.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", domainErrors.Persistence("get admin", err)
	}

	if err := u.hasher.Compare(admin.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(pkgAuth.Session{AdminID: admin.ID, Email: admin.Email})
	if err != nil {
		return nil, "", err
	}

	return admin, token, nil
}

// ParseToken returns the session encoded in token.
func (u *AdminAuthUseCase) ParseToken(token string) (pkgAuth.Session, error) {
	if token == "" {
		return pkgAuth.Session{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
