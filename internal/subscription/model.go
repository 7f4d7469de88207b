package subscription

import "time"

type Status string

const (
	StatusActive         Status = "ACTIVE"
	StatusExpired        Status = "EXPIRED"
	StatusCancelled      Status = "CANCELLED"
	StatusPendingPayment Status = "PENDING_PAYMENT"
)

var validStatuses = map[Status]bool{
	StatusActive:         true,
	StatusExpired:        true,
	StatusCancelled:      true,
	StatusPendingPayment: true,
}

func ValidStatus(s Status) bool {
	return validStatuses[s]
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusExpired || s == StatusCancelled
}

type MemberSubscription struct {
	ID                   int       `db:"id" json:"id"`
	MemberID             int       `db:"member_id" json:"member_id"`
	PlanID               int       `db:"plan_id" json:"plan_id"`
	StartDate            time.Time `db:"start_date" json:"start_date"`
	EndDate              time.Time `db:"end_date" json:"end_date"`
	Status               Status    `db:"status" json:"status"`
	PaymentTransactionID *string   `db:"payment_transaction_id" json:"payment_transaction_id,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// Covers reports whether the subscription is ACTIVE and its date range
// includes the given instant.
func (s *MemberSubscription) Covers(at time.Time) bool {
	return s.Status == StatusActive && !at.Before(s.StartDate) && !at.After(s.EndDate)
}

type CreateSubscriptionRequest struct {
	MemberID             *int    `json:"member_id"`
	PlanID               int     `json:"plan_id" binding:"required"`
	StartDate            string  `json:"start_date" binding:"required"`
	PaymentTransactionID *string `json:"payment_transaction_id"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

type ListFilter struct {
	MemberID *int
	PlanID   *int
	Status   *Status
}
