package classtype

import "time"

// TrainingClassType categorizes scheduled sessions (yoga, spin, HIIT).
// A nil GymID marks a platform-wide type any gym may schedule.
type TrainingClassType struct {
	ID                     int       `db:"id" json:"id"`
	GymID                  *int      `db:"gym_id" json:"gym_id,omitempty"`
	Name                   string    `db:"name" json:"name"`
	Description            *string   `db:"description" json:"description,omitempty"`
	DefaultDurationMinutes *int      `db:"default_duration_minutes" json:"default_duration_minutes,omitempty"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

func (t *TrainingClassType) IsGlobal() bool {
	return t.GymID == nil
}

type CreateClassTypeRequest struct {
	GymID                  *int    `json:"gym_id"`
	Name                   string  `json:"name" binding:"required"`
	Description            *string `json:"description"`
	DefaultDurationMinutes *int    `json:"default_duration_minutes"`
}

type UpdateClassTypeRequest struct {
	Name                   *string `json:"name"`
	Description            *string `json:"description"`
	DefaultDurationMinutes *int    `json:"default_duration_minutes"`
}
