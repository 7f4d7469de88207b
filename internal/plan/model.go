package plan

import "time"

// MembershipPlan is a purchasable subscription template. A nil GymID
// marks a platform-wide plan usable at any gym.
type MembershipPlan struct {
	ID           int       `db:"id" json:"id"`
	GymID        *int      `db:"gym_id" json:"gym_id,omitempty"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Price        float64   `db:"price" json:"price"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsGlobal reports whether the plan covers every gym on the platform.
func (p *MembershipPlan) IsGlobal() bool {
	return p.GymID == nil
}

type CreatePlanRequest struct {
	GymID        *int     `json:"gym_id"`
	Name         string   `json:"name" binding:"required"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" binding:"required"`
	DurationDays *int     `json:"duration_days" binding:"required"`
}

type UpdatePlanRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	DurationDays *int     `json:"duration_days"`
	IsActive     *bool    `json:"is_active"`
}
