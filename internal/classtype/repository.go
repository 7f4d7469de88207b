package classtype

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/apperr"
)

const classTypeColumns = `id, gym_id, name, description, default_duration_minutes, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, t TrainingClassType) (*TrainingClassType, error)
	GetByID(ctx context.Context, id int) (*TrainingClassType, error)
	List(ctx context.Context, gymID *int) ([]TrainingClassType, error)
	Update(ctx context.Context, id int, req UpdateClassTypeRequest) (*TrainingClassType, error)
	Delete(ctx context.Context, id int) error
	InUse(ctx context.Context, id int) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t TrainingClassType) (*TrainingClassType, error) {
	query := `
		INSERT INTO training_class_types (gym_id, name, description, default_duration_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + classTypeColumns

	var created TrainingClassType
	err := r.db.GetContext(ctx, &created, query, t.GymID, t.Name, t.Description, t.DefaultDurationMinutes)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return nil, apperr.Conflict("a class type with this name already exists")
			case "23503":
				return nil, apperr.NotFound("gym not found")
			}
		}
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*TrainingClassType, error) {
	var t TrainingClassType
	err := r.db.GetContext(ctx, &t, `SELECT `+classTypeColumns+` FROM training_class_types WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("class type not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, gymID *int) ([]TrainingClassType, error) {
	query := `SELECT ` + classTypeColumns + ` FROM training_class_types`
	args := []interface{}{}
	if gymID != nil {
		query += ` WHERE gym_id = $1 OR gym_id IS NULL`
		args = append(args, *gymID)
	}
	query += ` ORDER BY name ASC`

	var types []TrainingClassType
	err := r.db.SelectContext(ctx, &types, query, args...)
	return types, err
}

func (r *repository) Update(ctx context.Context, id int, req UpdateClassTypeRequest) (*TrainingClassType, error) {
	query := `
		UPDATE training_class_types
		SET name                     = COALESCE($1, name),
		    description              = COALESCE($2, description),
		    default_duration_minutes = COALESCE($3, default_duration_minutes),
		    updated_at               = NOW()
		WHERE id = $4
		RETURNING ` + classTypeColumns

	var t TrainingClassType
	err := r.db.GetContext(ctx, &t, query, req.Name, req.Description, req.DefaultDurationMinutes, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("class type not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM training_class_types WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return apperr.Conflict("class type is in use by scheduled sessions")
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("class type not found")
	}
	return nil
}

func (r *repository) InUse(ctx context.Context, id int) (bool, error) {
	var inUse bool
	err := r.db.GetContext(ctx, &inUse,
		`SELECT EXISTS (SELECT 1 FROM scheduled_sessions WHERE class_type_id = $1)`, id)
	return inUse, err
}
