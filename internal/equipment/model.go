package equipment

import "time"

type Equipment struct {
	ID           int        `db:"id" json:"id"`
	BranchID     int        `db:"branch_id" json:"branch_id"`
	Name         string     `db:"name" json:"name"`
	Description  *string    `db:"description" json:"description,omitempty"`
	Quantity     int        `db:"quantity" json:"quantity"`
	PurchaseDate *time.Time `db:"purchase_date" json:"purchase_date,omitempty"`
	Condition    *string    `db:"condition" json:"condition,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateEquipmentRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	Quantity     *int    `json:"quantity" binding:"required"`
	PurchaseDate *string `json:"purchase_date"`
	Condition    *string `json:"condition"`
}

type UpdateEquipmentRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Quantity     *int    `json:"quantity"`
	PurchaseDate *string `json:"purchase_date"`
	Condition    *string `json:"condition"`
	BranchID     *int    `json:"branch_id"`
}
