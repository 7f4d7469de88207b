package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gymhub/internal/apperr"
)

const subscriptionColumns = `id, member_id, plan_id, start_date, end_date, status, payment_transaction_id, created_at, updated_at`

type Repository interface {
	// Create inserts a subscription after verifying, under a row lock
	// on the member's ACTIVE subscriptions, that none of them shares
	// the new plan's gym scope. planGymID is the new plan's scope
	// (nil for a global plan).
	Create(ctx context.Context, sub MemberSubscription, planGymID *int) (*MemberSubscription, error)
	GetByID(ctx context.Context, id int) (*MemberSubscription, error)
	List(ctx context.Context, filter ListFilter) ([]MemberSubscription, error)
	UpdateStatus(ctx context.Context, id int, status Status) (*MemberSubscription, error)
	// SweepExpired transitions every ACTIVE subscription with an end
	// date before asOf to EXPIRED and returns the number affected.
	SweepExpired(ctx context.Context, asOf time.Time) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type activeScope struct {
	ID        int  `db:"id"`
	PlanGymID *int `db:"gym_id"`
}

func sameScope(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a != nil && b != nil {
		return *a == *b
	}
	return false
}

func (r *repository) Create(ctx context.Context, sub MemberSubscription, planGymID *int) (*MemberSubscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Transaction("failed to begin transaction", err)
	}
	defer tx.Rollback()

	// Serialize creations per member on their user row. Locking only
	// the ACTIVE subscription rows is not enough: with zero existing
	// rows there is nothing to lock and two concurrent creations for
	// the same scope would both pass the check below.
	var memberID int
	err = tx.GetContext(ctx, &memberID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, sub.MemberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("member not found")
	}
	if err != nil {
		return nil, err
	}

	var existing []activeScope
	err = tx.SelectContext(ctx, &existing, `
		SELECT s.id, p.gym_id
		FROM member_subscriptions s
		JOIN membership_plans p ON p.id = s.plan_id
		WHERE s.member_id = $1 AND s.status = 'ACTIVE'
		FOR UPDATE OF s`, sub.MemberID)
	if err != nil {
		return nil, err
	}

	for _, e := range existing {
		if sameScope(e.PlanGymID, planGymID) {
			return nil, apperr.Conflict("member already has an active subscription for this gym scope")
		}
	}

	var created MemberSubscription
	err = tx.GetContext(ctx, &created, `
		INSERT INTO member_subscriptions (member_id, plan_id, start_date, end_date, status, payment_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+subscriptionColumns,
		sub.MemberID, sub.PlanID, sub.StartDate, sub.EndDate, sub.Status, sub.PaymentTransactionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Transaction("failed to commit transaction", err)
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*MemberSubscription, error) {
	var s MemberSubscription
	err := r.db.GetContext(ctx, &s, `SELECT `+subscriptionColumns+` FROM member_subscriptions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("subscription not found")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]MemberSubscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM member_subscriptions WHERE 1=1`
	args := []interface{}{}
	n := 0
	arg := func(v interface{}) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if filter.MemberID != nil {
		query += ` AND member_id = ` + arg(*filter.MemberID)
	}
	if filter.PlanID != nil {
		query += ` AND plan_id = ` + arg(*filter.PlanID)
	}
	if filter.Status != nil {
		query += ` AND status = ` + arg(*filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	var subs []MemberSubscription
	err := r.db.SelectContext(ctx, &subs, query, args...)
	return subs, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status) (*MemberSubscription, error) {
	var s MemberSubscription
	err := r.db.GetContext(ctx, &s, `
		UPDATE member_subscriptions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+subscriptionColumns, status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("subscription not found")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) SweepExpired(ctx context.Context, asOf time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE member_subscriptions
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE status = 'ACTIVE' AND end_date < $1`, asOf)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
