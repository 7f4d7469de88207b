package session

import "time"

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var validStatuses = map[Status]bool{
	StatusScheduled: true,
	StatusCancelled: true,
	StatusCompleted: true,
}

func ValidStatus(s Status) bool {
	return validStatuses[s]
}

// ScheduledSession is a bookable class occurrence at a branch.
// CurrentEnrollment is owned by the booking engine; nothing else
// writes it.
type ScheduledSession struct {
	ID                int       `db:"id" json:"id"`
	BranchID          int       `db:"branch_id" json:"branch_id"`
	ClassTypeID       int       `db:"class_type_id" json:"class_type_id"`
	TrainerID         *int      `db:"trainer_id" json:"trainer_id,omitempty"`
	StartTime         time.Time `db:"start_time" json:"start_time"`
	DurationMinutes   int       `db:"duration_minutes" json:"duration_minutes"`
	Capacity          int       `db:"capacity" json:"capacity"`
	CurrentEnrollment int       `db:"current_enrollment" json:"current_enrollment"`
	Status            Status    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

func (s *ScheduledSession) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Bookable reports whether the session can still accept enrollments as
// of the given instant (status and start-time checks only; capacity is
// the booking engine's concern).
func (s *ScheduledSession) Bookable(now time.Time) bool {
	return s.Status == StatusScheduled && s.StartTime.After(now)
}

type CreateSessionRequest struct {
	ClassTypeID     int    `json:"class_type_id" binding:"required"`
	TrainerID       *int   `json:"trainer_id"`
	StartTime       string `json:"start_time" binding:"required"`
	DurationMinutes *int   `json:"duration_minutes" binding:"required"`
	Capacity        *int   `json:"capacity" binding:"required"`
}

type UpdateSessionRequest struct {
	BranchID        *int    `json:"branch_id"`
	TrainerID       *int    `json:"trainer_id"`
	StartTime       *string `json:"start_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Capacity        *int    `json:"capacity"`
	Status          *Status `json:"status"`
}

type ListFilter struct {
	BranchID    *int
	ClassTypeID *int
	TrainerID   *int
	Status      *Status
	From        *time.Time
	To          *time.Time
}
