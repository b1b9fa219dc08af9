package repository

import (
	"context"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// RequestRepository describes durable storage for quote and sample requests.
// Insert returns ErrAlreadyExists when the request number is taken for the kind.
type RequestRepository interface {
	Insert(ctx context.Context, req *model.Request) (*model.Request, error)
	GetByID(ctx context.Context, kind model.Kind, id string) (*model.Request, error)
	GetByNumber(ctx context.Context, kind model.Kind, number string) (*model.Request, error)
	Update(ctx context.Context, req *model.Request) (*model.Request, error)
	Delete(ctx context.Context, kind model.Kind, id string) (bool, error)
	List(ctx context.Context, query model.ListQuery) ([]model.Request, error)
	Count(ctx context.Context, filter model.RequestFilter) (int, error)
}
