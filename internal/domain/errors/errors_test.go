package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"validation", ErrValidation},
		{"invalid transition", ErrInvalidTransition},
		{"unknown kind", ErrUnknownKind},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	verr := NewValidationError("email", "is required")
	verr.Add("quantity", "must be positive")
	verr.Add("email", "ignored duplicate")

	wrapped := fmt.Errorf("create: %w", verr)
	if !stdErrors.Is(wrapped, ErrValidation) {
		t.Fatalf("expected wrapped validation error to match ErrValidation")
	}
	if verr.Fields["email"] != "is required" {
		t.Fatalf("expected first message to be kept, got %q", verr.Fields["email"])
	}
	if !strings.Contains(verr.Error(), "email: is required; quantity: must be positive") {
		t.Fatalf("unexpected message %q", verr.Error())
	}
}

func TestValidationErrorOrNil(t *testing.T) {
	var empty ValidationError
	if err := empty.OrNil(); err != nil {
		t.Fatalf("expected nil for empty validation error, got %v", err)
	}
	var nilErr *ValidationError
	if err := nilErr.OrNil(); err != nil {
		t.Fatalf("expected nil for nil receiver, got %v", err)
	}
	if err := NewValidationError("a", "b").OrNil(); err == nil {
		t.Fatal("expected error when fields are present")
	}
}

func TestPersistenceWrapping(t *testing.T) {
	if Persistence("op", nil) != nil {
		t.Fatal("expected nil passthrough")
	}
	if err := Persistence("get", ErrNotFound); err != ErrNotFound {
		t.Fatalf("expected not found passthrough, got %v", err)
	}

	cause := stdErrors.New("connection reset")
	err := Persistence("insert request", cause)
	var pe *PersistenceError
	if !stdErrors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %T", err)
	}
	if pe.Op != "insert request" || !stdErrors.Is(err, cause) {
		t.Fatalf("unexpected persistence error %v", err)
	}
	if again := Persistence("outer", err); again != err {
		t.Fatalf("expected persistence error not to be wrapped twice")
	}
}

func TestSideEffectError(t *testing.T) {
	cause := stdErrors.New("smtp down")
	err := &SideEffectError{Task: "email", Err: cause}
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected side effect error to unwrap cause")
	}
	if err.Error() != "side effect email: smtp down" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
