package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

type requestRepository struct {
	storage *Storage
}

const requestColumns = `id, kind, request_number, status, customer_name, company, email, phone,
        destination, message, product_id, product_name, quantity, currency, target_price,
        proposed_unit_price, proposed_total_price, payment_method, payment_details,
        payment_reference, invoice_id, admin_comments, tracking_number, tracking_link,
        shipped_at, created_at, updated_at`

var orderColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"requestNumber": "request_number",
	"status":        "status",
	"customerName":  "customer_name",
}

func scanRequest(row pgx.Row) (*model.Request, error) {
	var r model.Request
	err := row.Scan(
		&r.ID, &r.Kind, &r.RequestNumber, &r.Status, &r.CustomerName, &r.Company, &r.Email, &r.Phone,
		&r.Destination, &r.Message, &r.ProductID, &r.ProductName, &r.Quantity, &r.Currency, &r.TargetPrice,
		&r.ProposedUnitPrice, &r.ProposedTotalPrice, &r.PaymentMethod, &r.PaymentDetails,
		&r.PaymentReference, &r.InvoiceID, &r.AdminComments, &r.TrackingNumber, &r.TrackingLink,
		&r.ShippedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Insert stores req under a fresh UUID. A taken request number yields ErrAlreadyExists.
func (r *requestRepository) Insert(ctx context.Context, req *model.Request) (*model.Request, error) {
	const query = `INSERT INTO requests (` + requestColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
                           $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`

	stored := req.Clone()
	stored.ID = uuid.NewString()

	_, err := r.storage.pool.Exec(ctx, query,
		stored.ID, string(stored.Kind), stored.RequestNumber, string(stored.Status), stored.CustomerName,
		stored.Company, stored.Email, stored.Phone, stored.Destination, stored.Message, stored.ProductID,
		stored.ProductName, stored.Quantity, stored.Currency, stored.TargetPrice, stored.ProposedUnitPrice,
		stored.ProposedTotalPrice, stored.PaymentMethod, stored.PaymentDetails, stored.PaymentReference,
		stored.InvoiceID, stored.AdminComments, stored.TrackingNumber, stored.TrackingLink,
		stored.ShippedAt, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return stored, nil
}

func (r *requestRepository) GetByID(ctx context.Context, kind model.Kind, id string) (*model.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE kind=$1 AND id=$2`
	req, err := scanRequest(r.storage.pool.QueryRow(ctx, query, string(kind), id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return req, nil
}

func (r *requestRepository) GetByNumber(ctx context.Context, kind model.Kind, number string) (*model.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE kind=$1 AND request_number=$2`
	req, err := scanRequest(r.storage.pool.QueryRow(ctx, query, string(kind), number))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return req, nil
}

// Update overwrites every mutable column. The last writer wins.
func (r *requestRepository) Update(ctx context.Context, req *model.Request) (*model.Request, error) {
	const query = `UPDATE requests SET
                       status=$3, customer_name=$4, company=$5, email=$6, phone=$7, destination=$8,
                       product_name=$9, quantity=$10, target_price=$11, proposed_unit_price=$12,
                       proposed_total_price=$13, payment_method=$14, payment_details=$15,
                       payment_reference=$16, invoice_id=$17, admin_comments=$18, tracking_number=$19,
                       tracking_link=$20, shipped_at=$21, updated_at=$22
                   WHERE kind=$1 AND id=$2`

	tag, err := r.storage.pool.Exec(ctx, query,
		string(req.Kind), req.ID, string(req.Status), req.CustomerName, req.Company, req.Email, req.Phone,
		req.Destination, req.ProductName, req.Quantity, req.TargetPrice, req.ProposedUnitPrice,
		req.ProposedTotalPrice, req.PaymentMethod, req.PaymentDetails, req.PaymentReference, req.InvoiceID,
		req.AdminComments, req.TrackingNumber, req.TrackingLink, req.ShippedAt, req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return req.Clone(), nil
}

func (r *requestRepository) Delete(ctx context.Context, kind model.Kind, id string) (bool, error) {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM requests WHERE kind=$1 AND id=$2`, string(kind), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *requestRepository) List(ctx context.Context, q model.ListQuery) ([]model.Request, error) {
	where, args := filterClause(q.Filter)

	column, ok := orderColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if q.Order == model.SortAsc {
		direction = "ASC"
	}

	args = append(args, q.Limit, q.Offset())
	query := fmt.Sprintf(`SELECT %s FROM requests%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		requestColumns, where, column, direction, direction, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func (r *requestRepository) Count(ctx context.Context, f model.RequestFilter) (int, error) {
	where, args := filterClause(f)
	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requests`+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func filterClause(f model.RequestFilter) (string, []any) {
	conds := []string{"kind = $1"}
	args := []any{string(f.Kind)}

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(request_number ILIKE $%d OR customer_name ILIKE $%d OR company ILIKE $%d OR email ILIKE $%d)",
			n, n, n, n))
	}

	if f.WithPaymentReference {
		conds = append(conds, "payment_reference <> ''")
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
