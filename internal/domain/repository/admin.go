package repository

import (
	"context"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// AdminRepository describes persistence operations for back-office accounts.
type AdminRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
}
