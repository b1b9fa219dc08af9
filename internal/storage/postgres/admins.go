package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

type adminRepository struct {
	storage *Storage
}

func (r *adminRepository) Create(ctx context.Context, email, passwordHash string) (*model.Admin, error) {
	const query = `INSERT INTO admins (email, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	a := model.Admin{Email: email, PasswordHash: passwordHash}
	if err := r.storage.pool.QueryRow(ctx, query, email, passwordHash).Scan(&a.ID, &a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	const query = `SELECT id, email, password_hash, created_at FROM admins WHERE email=$1`
	return r.get(ctx, query, email)
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	const query = `SELECT id, email, password_hash, created_at FROM admins WHERE id=$1`
	return r.get(ctx, query, id)
}

func (r *adminRepository) get(ctx context.Context, query string, arg any) (*model.Admin, error) {
	var a model.Admin
	if err := r.storage.pool.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, notFoundOr(err)
	}
	return &a, nil
}
