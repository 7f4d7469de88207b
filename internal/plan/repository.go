package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/apperr"
)

const planColumns = `id, gym_id, name, description, price, duration_days, is_active, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, p MembershipPlan) (*MembershipPlan, error)
	GetByID(ctx context.Context, id int) (*MembershipPlan, error)
	// List returns plans for the given gym plus global plans. A nil
	// gymID returns everything.
	List(ctx context.Context, gymID *int, activeOnly bool) ([]MembershipPlan, error)
	Update(ctx context.Context, id int, req UpdatePlanRequest) (*MembershipPlan, error)
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p MembershipPlan) (*MembershipPlan, error) {
	query := `
		INSERT INTO membership_plans (gym_id, name, description, price, duration_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + planColumns

	var created MembershipPlan
	err := r.db.GetContext(ctx, &created, query, p.GymID, p.Name, p.Description, p.Price, p.DurationDays)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return nil, apperr.Conflict("a plan with this name already exists for the gym")
			case "23503":
				return nil, apperr.NotFound("gym not found")
			}
		}
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*MembershipPlan, error) {
	var p MembershipPlan
	err := r.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM membership_plans WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("membership plan not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, gymID *int, activeOnly bool) ([]MembershipPlan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_plans WHERE 1=1`
	args := []interface{}{}
	if gymID != nil {
		args = append(args, *gymID)
		query += ` AND (gym_id = $1 OR gym_id IS NULL)`
	}
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	var plans []MembershipPlan
	err := r.db.SelectContext(ctx, &plans, query, args...)
	return plans, err
}

func (r *repository) Update(ctx context.Context, id int, req UpdatePlanRequest) (*MembershipPlan, error) {
	query := `
		UPDATE membership_plans
		SET name          = COALESCE($1, name),
		    description   = COALESCE($2, description),
		    price         = COALESCE($3, price),
		    duration_days = COALESCE($4, duration_days),
		    is_active     = COALESCE($5, is_active),
		    updated_at    = NOW()
		WHERE id = $6
		RETURNING ` + planColumns

	var p MembershipPlan
	err := r.db.GetContext(ctx, &p, query, req.Name, req.Description, req.Price, req.DurationDays, req.IsActive, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("membership plan not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM membership_plans WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return apperr.Conflict("plan has subscriptions and cannot be deleted")
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("membership plan not found")
	}
	return nil
}
