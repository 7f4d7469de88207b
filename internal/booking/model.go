package booking

import "time"

type Status string

const (
	StatusEnrolled          Status = "ENROLLED"
	StatusCancelledByMember Status = "CANCELLED_BY_MEMBER"
	StatusCancelledByAdmin  Status = "CANCELLED_BY_ADMIN"
	StatusAttended          Status = "ATTENDED"
	StatusNoShow            Status = "NO_SHOW"
)

// Cancelled reports whether the booking holds either cancelled variant.
func (s Status) Cancelled() bool {
	return s == StatusCancelledByMember || s == StatusCancelledByAdmin
}

// Terminal reports whether the booking left ENROLLED. Every transition
// out of ENROLLED is final.
func (s Status) Terminal() bool {
	return s != StatusEnrolled
}

type Booking struct {
	ID                 int       `db:"id" json:"id"`
	SessionID          int       `db:"session_id" json:"session_id"`
	MemberID           int       `db:"member_id" json:"member_id"`
	Status             Status    `db:"status" json:"status"`
	CancellationReason *string   `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type CreateBookingRequest struct {
	MemberID *int `json:"member_id"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason"`
}

type AttendanceRequest struct {
	Status Status `json:"status" binding:"required"`
}

type ListFilter struct {
	SessionID *int
	MemberID  *int
	Status    *Status
}
