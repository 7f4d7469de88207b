package booking

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

const bookingColumns = `id, session_id, member_id, status, cancellation_reason, created_at, updated_at`

type Repository interface {
	// Book enrolls a member atomically: it locks the session row,
	// re-checks availability, coverage, capacity and duplicates under
	// the lock, then inserts the booking and increments the session's
	// enrollment counter in the same transaction.
	Book(ctx context.Context, memberID, sessionID int, now time.Time) (*Booking, error)
	// Cancel sets the given cancelled status and decrements the
	// session's enrollment counter in one transaction. Sessions that
	// started before now reject the cancel. The boolean is false when
	// the booking was already cancelled (idempotent no-op).
	Cancel(ctx context.Context, bookingID int, status Status, reason *string, now time.Time) (*Booking, bool, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]Booking, error)
	UpdateStatus(ctx context.Context, id int, status Status) (*Booking, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type lockedSession struct {
	ID                int       `db:"id"`
	BranchID          int       `db:"branch_id"`
	StartTime         time.Time `db:"start_time"`
	Capacity          int       `db:"capacity"`
	CurrentEnrollment int       `db:"current_enrollment"`
	Status            string    `db:"status"`
}

type coveringPlan struct {
	SubscriptionID int  `db:"id"`
	PlanGymID      *int `db:"gym_id"`
}

func (r *repository) Book(ctx context.Context, memberID, sessionID int, now time.Time) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Transaction("failed to begin transaction", err)
	}
	defer tx.Rollback()

	// Serialize all bookings for this session on its row lock so two
	// concurrent requests cannot both pass the capacity check.
	var sess lockedSession
	err = tx.GetContext(ctx, &sess, `
		SELECT id, branch_id, start_time, capacity, current_enrollment, status
		FROM scheduled_sessions
		WHERE id = $1
		FOR UPDATE`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("session not found")
	}
	if err != nil {
		return nil, err
	}

	if sess.Status != "SCHEDULED" {
		return nil, apperr.State("session is %s and not open for booking", sess.Status)
	}
	if !sess.StartTime.After(now) {
		return nil, apperr.State("session has already started")
	}

	var sessionGymID int
	if err := tx.GetContext(ctx, &sessionGymID, `SELECT gym_id FROM branches WHERE id = $1`, sess.BranchID); err != nil {
		return nil, err
	}

	// Coverage: an ACTIVE subscription whose date range includes the
	// session start. Scope must match the session's gym or be global.
	var covering []coveringPlan
	err = tx.SelectContext(ctx, &covering, `
		SELECT s.id, p.gym_id
		FROM member_subscriptions s
		JOIN membership_plans p ON p.id = s.plan_id
		WHERE s.member_id = $1
		  AND s.status = 'ACTIVE'
		  AND s.start_date <= $2
		  AND s.end_date >= $2`, memberID, sess.StartTime)
	if err != nil {
		return nil, err
	}
	if len(covering) == 0 {
		return nil, apperr.State("no active subscription covers this session's date")
	}
	scopeOK := false
	for _, c := range covering {
		if c.PlanGymID == nil || *c.PlanGymID == sessionGymID {
			scopeOK = true
			break
		}
	}
	if !scopeOK {
		return nil, apperr.State("member's subscription covers a different gym")
	}

	if sess.CurrentEnrollment >= sess.Capacity {
		return nil, apperr.State("session is full")
	}

	var duplicate bool
	err = tx.GetContext(ctx, &duplicate, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE session_id = $1 AND member_id = $2
			  AND status NOT IN ('CANCELLED_BY_MEMBER', 'CANCELLED_BY_ADMIN')
		)`, sessionID, memberID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, apperr.Conflict("member is already enrolled in this session")
	}

	var created Booking
	err = tx.GetContext(ctx, &created, `
		INSERT INTO bookings (session_id, member_id, status)
		VALUES ($1, $2, 'ENROLLED')
		RETURNING `+bookingColumns, sessionID, memberID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperr.Conflict("member is already enrolled in this session")
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE scheduled_sessions
		SET current_enrollment = current_enrollment + 1, updated_at = NOW()
		WHERE id = $1`, sessionID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Transaction("failed to commit transaction", err)
	}
	return &created, nil
}

func (r *repository) Cancel(ctx context.Context, bookingID int, status Status, reason *string, now time.Time) (*Booking, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, apperr.Transaction("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var b Booking
	err = tx.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, false, err
	}

	// Same precedence as the service: a started session rejects the
	// cancel before the already-cancelled short circuit.
	var startTime time.Time
	if err := tx.GetContext(ctx, &startTime, `SELECT start_time FROM scheduled_sessions WHERE id = $1`, b.SessionID); err != nil {
		return nil, false, err
	}
	if !startTime.After(now) {
		return nil, false, apperr.State("session has already started")
	}

	if b.Status.Cancelled() {
		// Already cancelled: counter was decremented then, nothing to do.
		return &b, false, nil
	}
	if b.Status.Terminal() {
		return nil, false, apperr.State("booking is already %s", b.Status)
	}

	err = tx.GetContext(ctx, &b, `
		UPDATE bookings
		SET status = $1, cancellation_reason = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+bookingColumns, status, reason, bookingID)
	if err != nil {
		return nil, false, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE scheduled_sessions
		SET current_enrollment = GREATEST(current_enrollment - 1, 0), updated_at = NOW()
		WHERE id = $1`, b.SessionID); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, apperr.Transaction("failed to commit transaction", err)
	}
	return &b, true, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	n := 0
	arg := func(v interface{}) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if filter.SessionID != nil {
		query += ` AND session_id = ` + arg(*filter.SessionID)
	}
	if filter.MemberID != nil {
		query += ` AND member_id = ` + arg(*filter.MemberID)
	}
	if filter.Status != nil {
		query += ` AND status = ` + arg(*filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	return bookings, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+bookingColumns, status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
