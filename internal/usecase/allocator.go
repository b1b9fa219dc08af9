package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

const (
	requestNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// RequestNumberLength is the size of a human-facing request code.
	RequestNumberLength = 8
)

// NumberLookup finds a request by its human-facing code.
type NumberLookup interface {
	GetByNumber(ctx context.Context, kind model.Kind, number string) (*model.Request, error)
}

// Allocator issues request numbers that are unused within a kind.
type Allocator struct {
	lookup NumberLookup
	next   func() (string, error)
}

// NewAllocator constructs Allocator backed by crypto/rand.
func NewAllocator(lookup NumberLookup) *Allocator {
	return &Allocator{lookup: lookup, next: randomRequestNumber}
}

// Allocate draws codes until one is free. There is no attempt bound; only ctx stops it.
// The check is advisory: storage must still reject duplicates on insert.
func (a *Allocator) Allocate(ctx context.Context, kind model.Kind) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := a.next()
		if err != nil {
			return "", fmt.Errorf("generate request number: %w", err)
		}

		_, err = a.lookup.GetByNumber(ctx, kind, code)
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			return code, nil
		case err != nil:
			return "", domainErrors.Persistence("lookup request number", err)
		}
	}
}

func randomRequestNumber() (string, error) {
	buf := make([]byte, RequestNumberLength)
	limit := big.NewInt(int64(len(requestNumberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = requestNumberAlphabet[n.Int64()]
	}
	return string(buf), nil
}
