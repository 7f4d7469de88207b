package equipment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/apperr"
)

const equipmentColumns = `id, branch_id, name, description, quantity, purchase_date, condition, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, e Equipment) (*Equipment, error)
	GetByID(ctx context.Context, id int) (*Equipment, error)
	List(ctx context.Context, branchID *int) ([]Equipment, error)
	Update(ctx context.Context, id int, name, description *string, quantity *int, purchaseDate *time.Time, condition *string, branchID *int) (*Equipment, error)
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e Equipment) (*Equipment, error) {
	query := `
		INSERT INTO equipment (branch_id, name, description, quantity, purchase_date, condition)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + equipmentColumns

	var created Equipment
	err := r.db.GetContext(ctx, &created, query,
		e.BranchID, e.Name, e.Description, e.Quantity, e.PurchaseDate, e.Condition)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, apperr.NotFound("branch not found")
		}
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Equipment, error) {
	var e Equipment
	err := r.db.GetContext(ctx, &e, `SELECT `+equipmentColumns+` FROM equipment WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("equipment not found")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context, branchID *int) ([]Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment`
	args := []interface{}{}
	if branchID != nil {
		query += ` WHERE branch_id = $1`
		args = append(args, *branchID)
	}
	query += ` ORDER BY name ASC`

	var items []Equipment
	err := r.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *repository) Update(ctx context.Context, id int, name, description *string, quantity *int, purchaseDate *time.Time, condition *string, branchID *int) (*Equipment, error) {
	query := `
		UPDATE equipment
		SET name          = COALESCE($1, name),
		    description   = COALESCE($2, description),
		    quantity      = COALESCE($3, quantity),
		    purchase_date = COALESCE($4, purchase_date),
		    condition     = COALESCE($5, condition),
		    branch_id     = COALESCE($6, branch_id),
		    updated_at    = NOW()
		WHERE id = $7
		RETURNING ` + equipmentColumns

	var e Equipment
	err := r.db.GetContext(ctx, &e, query, name, description, quantity, purchaseDate, condition, branchID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("equipment not found")
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, apperr.NotFound("target branch not found")
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("equipment not found")
	}
	return nil
}
