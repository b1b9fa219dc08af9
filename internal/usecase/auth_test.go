package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	pkgAuth "github.com/polkiloo/leatherdesk/internal/pkg/auth"
	testhelpers "github.com/polkiloo/leatherdesk/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(s pkgAuth.Session) (string, error) {
			return fmt.Sprintf("token-%d-%s", s.AdminID, s.Email), nil
		},
		ParseFn: func(token string) (pkgAuth.Session, error) {
			var s pkgAuth.Session
			if _, err := fmt.Sscanf(token, "token-%d-%s", &s.AdminID, &s.Email); err != nil {
				return pkgAuth.Session{}, pkgAuth.ErrInvalidToken
			}
			return s, nil
		},
	}
}

func TestEnsureAdminCreatesOnce(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	uc := NewAdminAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub(), discardLogger())
	ctx := context.Background()

	if err := uc.EnsureAdmin(ctx, " Owner@Leather.Example ", "correct horse"); err != nil {
		t.Fatalf("ensure admin returned error: %v", err)
	}
	stored, err := repo.GetByEmail(ctx, "owner@leather.example")
	if err != nil {
		t.Fatalf("expected admin in repository: %v", err)
	}
	if stored.PasswordHash != "hash:correct horse" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}

	if err := uc.EnsureAdmin(ctx, "owner@leather.example", "another password"); err != nil {
		t.Fatalf("second ensure returned error: %v", err)
	}
	if stored, _ := repo.GetByEmail(ctx, "owner@leather.example"); stored.PasswordHash != "hash:correct horse" {
		t.Fatalf("existing admin must not be overwritten")
	}
}

func TestEnsureAdminSkipsWithoutCredentials(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	uc := NewAdminAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub(), discardLogger())

	if err := uc.EnsureAdmin(context.Background(), "", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.EnsureAdmin(context.Background(), "a@b.c", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.ByEmail) != 0 {
		t.Fatalf("expected no admin to be created")
	}
}

func TestEnsureAdminPropagatesFailures(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	repo.Err = errors.New("db down")
	uc := NewAdminAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub(), discardLogger())
	var pe *domainErrors.PersistenceError
	if err := uc.EnsureAdmin(context.Background(), "a@b.c", "secret"); !errors.As(err, &pe) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	weak := testhelpers.HasherStub{HashFn: func(string) (string, error) { return "", pkgAuth.ErrWeakPassword }}
	uc = NewAdminAuthUseCase(testhelpers.NewAdminRepositoryStub(), weak, newStrategyStub(), discardLogger())
	if err := uc.EnsureAdmin(context.Background(), "a@b.c", "short"); !errors.Is(err, pkgAuth.ErrWeakPassword) {
		t.Fatalf("expected weak password error, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	uc := NewAdminAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub(), discardLogger())
	ctx := context.Background()
	if err := uc.EnsureAdmin(ctx, "carol@leather.example", "1234567890"); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "carol@leather.example", "bad"},
		{"unknown admin", "dave@leather.example", "1234567890"},
		{"empty email", "", "1234567890"},
		{"empty password", "carol@leather.example", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := uc.Authenticate(ctx, tc.email, tc.password); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials error, got %v", err)
			}
		})
	}

	admin, token, err := uc.Authenticate(ctx, "CAROL@leather.example", "1234567890")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1-carol@leather.example" {
		t.Fatalf("unexpected token %q", token)
	}

	session, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if session.AdminID != admin.ID || session.Email != admin.Email {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestParseTokenRejectsEmpty(t *testing.T) {
	uc := NewAdminAuthUseCase(testhelpers.NewAdminRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub(), discardLogger())
	if _, err := uc.ParseToken(""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := uc.ParseToken("garbage"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthenticateRepositoryFailure(t *testing.T) {
	repo := testhelpers.NewAdminRepositoryStub()
	repo.Err = errors.New("timeout")
	uc := NewAdminAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub(), discardLogger())
	_, _, err := uc.Authenticate(context.Background(), "a@b.c", "secret")
	if err == nil || errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected persistence failure, got %v", err)
	}
}
