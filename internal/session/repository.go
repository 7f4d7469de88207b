package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/apperr"
)

const sessionColumns = `id, branch_id, class_type_id, trainer_id, start_time, duration_minutes, capacity, current_enrollment, status, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, s ScheduledSession) (*ScheduledSession, error)
	GetByID(ctx context.Context, id int) (*ScheduledSession, error)
	List(ctx context.Context, filter ListFilter) ([]ScheduledSession, error)
	Update(ctx context.Context, id int, branchID, trainerID *int, startTime *time.Time, durationMinutes, capacity *int, status *Status) (*ScheduledSession, error)
	// Delete hard-deletes a session with no enrollments; when bookings
	// exist it force-cancels instead, preserving booking history.
	// Returns the surviving row, or nil when the row was removed.
	Delete(ctx context.Context, id int) (*ScheduledSession, error)
	HasEnrollments(ctx context.Context, id int) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s ScheduledSession) (*ScheduledSession, error) {
	query := `
		INSERT INTO scheduled_sessions (branch_id, class_type_id, trainer_id, start_time, duration_minutes, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionColumns

	var created ScheduledSession
	err := r.db.GetContext(ctx, &created, query,
		s.BranchID, s.ClassTypeID, s.TrainerID, s.StartTime, s.DurationMinutes, s.Capacity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, apperr.NotFound("branch, class type or trainer not found")
		}
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*ScheduledSession, error) {
	var s ScheduledSession
	err := r.db.GetContext(ctx, &s, `SELECT `+sessionColumns+` FROM scheduled_sessions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("session not found")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]ScheduledSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM scheduled_sessions WHERE 1=1`
	args := []interface{}{}
	n := 0
	arg := func(v interface{}) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if filter.BranchID != nil {
		query += ` AND branch_id = ` + arg(*filter.BranchID)
	}
	if filter.ClassTypeID != nil {
		query += ` AND class_type_id = ` + arg(*filter.ClassTypeID)
	}
	if filter.TrainerID != nil {
		query += ` AND trainer_id = ` + arg(*filter.TrainerID)
	}
	if filter.Status != nil {
		query += ` AND status = ` + arg(*filter.Status)
	}
	if filter.From != nil {
		query += ` AND start_time >= ` + arg(*filter.From)
	}
	if filter.To != nil {
		query += ` AND start_time <= ` + arg(*filter.To)
	}
	query += ` ORDER BY start_time ASC`

	var sessions []ScheduledSession
	err := r.db.SelectContext(ctx, &sessions, query, args...)
	return sessions, err
}

func (r *repository) Update(ctx context.Context, id int, branchID, trainerID *int, startTime *time.Time, durationMinutes, capacity *int, status *Status) (*ScheduledSession, error) {
	query := `
		UPDATE scheduled_sessions
		SET branch_id        = COALESCE($1, branch_id),
		    trainer_id       = COALESCE($2, trainer_id),
		    start_time       = COALESCE($3, start_time),
		    duration_minutes = COALESCE($4, duration_minutes),
		    capacity         = COALESCE($5, capacity),
		    status           = COALESCE($6, status),
		    updated_at       = NOW()
		WHERE id = $7
		RETURNING ` + sessionColumns

	var s ScheduledSession
	err := r.db.GetContext(ctx, &s, query,
		branchID, trainerID, startTime, durationMinutes, capacity, status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("session not found")
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, apperr.NotFound("target branch or trainer not found")
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Delete(ctx context.Context, id int) (*ScheduledSession, error) {
	hasBookings, err := r.HasEnrollments(ctx, id)
	if err != nil {
		return nil, err
	}

	if hasBookings {
		var s ScheduledSession
		err := r.db.GetContext(ctx, &s, `
			UPDATE scheduled_sessions
			SET status = 'CANCELLED', updated_at = NOW()
			WHERE id = $1
			RETURNING `+sessionColumns, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("session not found")
		}
		if err != nil {
			return nil, err
		}
		return &s, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_sessions WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("session not found")
	}
	return nil, nil
}

func (r *repository) HasEnrollments(ctx context.Context, id int) (bool, error) {
	var has bool
	err := r.db.GetContext(ctx, &has,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE session_id = $1)`, id)
	return has, err
}
