package gym

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/apperr"
	"gymhub/internal/identity"
)

const (
	gymColumns    = `id, owner_id, name, address, phone_number, email, is_active, created_at, updated_at`
	branchColumns = `id, gym_id, name, address, phone_number, is_active, created_at, updated_at`
	staffColumns  = `id, user_id, branch_id, assigned_role, created_at`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func mapPQError(err error, uniqueMsg, fkMsg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return apperr.Conflict("%s", uniqueMsg)
		case "23503":
			return apperr.Conflict("%s", fkMsg)
		}
	}
	return err
}

func (r *repository) CreateGym(ctx context.Context, g Gym) (*Gym, error) {
	query := `
		INSERT INTO gyms (owner_id, name, address, phone_number, email, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING ` + gymColumns

	var created Gym
	err := r.db.GetContext(ctx, &created, query, g.OwnerID, g.Name, g.Address, g.PhoneNumber, g.Email)
	if err != nil {
		return nil, mapPQError(err, "gym with this email already exists", "owner not found")
	}
	return &created, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	var g Gym
	err := r.db.GetContext(ctx, &g, `SELECT `+gymColumns+` FROM gyms WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("gym not found")
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) ListGyms(ctx context.Context) ([]Gym, error) {
	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, `SELECT `+gymColumns+` FROM gyms ORDER BY created_at DESC`)
	return gyms, err
}

func (r *repository) CountGymsByOwner(ctx context.Context, ownerID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM gyms WHERE owner_id = $1`, ownerID)
	return count, err
}

func (r *repository) GymIDsByOwner(ctx context.Context, ownerID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM gyms WHERE owner_id = $1`, ownerID)
	return ids, err
}

func (r *repository) UpdateGym(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error) {
	query := `
		UPDATE gyms
		SET name         = COALESCE($1, name),
		    address      = COALESCE($2, address),
		    phone_number = COALESCE($3, phone_number),
		    email        = COALESCE($4, email),
		    is_active    = COALESCE($5, is_active),
		    owner_id     = COALESCE($6, owner_id),
		    updated_at   = NOW()
		WHERE id = $7
		RETURNING ` + gymColumns

	var g Gym
	err := r.db.GetContext(ctx, &g, query, req.Name, req.Address, req.PhoneNumber, req.Email, req.IsActive, req.OwnerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("gym not found")
	}
	if err != nil {
		return nil, mapPQError(err, "another gym with this email already exists", "new owner not found")
	}
	return &g, nil
}

func (r *repository) DeleteGym(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gyms WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err, "", "gym still has branches or plans")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("gym not found")
	}
	return nil
}

func (r *repository) CreateBranch(ctx context.Context, b Branch) (*Branch, error) {
	query := `
		INSERT INTO branches (gym_id, name, address, phone_number, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING ` + branchColumns

	var created Branch
	err := r.db.GetContext(ctx, &created, query, b.GymID, b.Name, b.Address, b.PhoneNumber)
	if err != nil {
		return nil, mapPQError(err, "branch already exists", "gym not found")
	}
	return &created, nil
}

func (r *repository) GetBranchByID(ctx context.Context, id int) (*Branch, error) {
	var b Branch
	err := r.db.GetContext(ctx, &b, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("branch not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBranches(ctx context.Context, gymID *int) ([]Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches`
	args := []interface{}{}
	if gymID != nil {
		query += ` WHERE gym_id = $1`
		args = append(args, *gymID)
	}
	query += ` ORDER BY created_at DESC`

	var branches []Branch
	err := r.db.SelectContext(ctx, &branches, query, args...)
	return branches, err
}

func (r *repository) UpdateBranch(ctx context.Context, id int, req UpdateBranchRequest) (*Branch, error) {
	query := `
		UPDATE branches
		SET name         = COALESCE($1, name),
		    address      = COALESCE($2, address),
		    phone_number = COALESCE($3, phone_number),
		    is_active    = COALESCE($4, is_active),
		    gym_id       = COALESCE($5, gym_id),
		    updated_at   = NOW()
		WHERE id = $6
		RETURNING ` + branchColumns

	var b Branch
	err := r.db.GetContext(ctx, &b, query, req.Name, req.Address, req.PhoneNumber, req.IsActive, req.GymID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("branch not found")
	}
	if err != nil {
		return nil, mapPQError(err, "branch already exists", "target gym not found")
	}
	return &b, nil
}

func (r *repository) DeleteBranch(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err, "", "branch still has equipment, sessions or staff")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("branch not found")
	}
	return nil
}

func (r *repository) BranchOwner(ctx context.Context, branchID int) (int, error) {
	var ownerID int
	err := r.db.GetContext(ctx, &ownerID, `
		SELECT g.owner_id
		FROM branches b
		JOIN gyms g ON b.gym_id = g.id
		WHERE b.id = $1`, branchID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NotFound("branch not found")
	}
	return ownerID, err
}

func (r *repository) GymOwner(ctx context.Context, gymID int) (int, error) {
	var ownerID int
	err := r.db.GetContext(ctx, &ownerID, `SELECT owner_id FROM gyms WHERE id = $1`, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NotFound("gym not found")
	}
	return ownerID, err
}

func (r *repository) BranchGym(ctx context.Context, branchID int) (int, error) {
	var gymID int
	err := r.db.GetContext(ctx, &gymID, `SELECT gym_id FROM branches WHERE id = $1`, branchID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NotFound("branch not found")
	}
	return gymID, err
}

func (r *repository) CreateStaffAssignment(ctx context.Context, userID, branchID int, role identity.Role) (*StaffAssignment, error) {
	query := `
		INSERT INTO branch_staff_assignments (user_id, branch_id, assigned_role)
		VALUES ($1, $2, $3)
		RETURNING ` + staffColumns

	var a StaffAssignment
	err := r.db.GetContext(ctx, &a, query, userID, branchID, role)
	if err != nil {
		return nil, mapPQError(err, "user already holds this assignment at the branch", "user or branch not found")
	}
	return &a, nil
}

func (r *repository) EnsureStaffAssignment(ctx context.Context, userID, branchID int, role identity.Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO branch_staff_assignments (user_id, branch_id, assigned_role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, branch_id, assigned_role) DO NOTHING`,
		userID, branchID, role)
	return err
}

func (r *repository) StaffAssignedToBranch(ctx context.Context, userID, branchID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM branch_staff_assignments
			WHERE user_id = $1 AND branch_id = $2
		)`, userID, branchID)
	return exists, err
}

func (r *repository) ListStaffByBranch(ctx context.Context, branchID int) ([]StaffAssignment, error) {
	var assignments []StaffAssignment
	err := r.db.SelectContext(ctx, &assignments, `
		SELECT `+staffColumns+`
		FROM branch_staff_assignments
		WHERE branch_id = $1
		ORDER BY created_at DESC`, branchID)
	return assignments, err
}

func (r *repository) GetStaffAssignment(ctx context.Context, id int) (*StaffAssignment, error) {
	var a StaffAssignment
	err := r.db.GetContext(ctx, &a, `SELECT `+staffColumns+` FROM branch_staff_assignments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("staff assignment not found")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) DeleteStaffAssignment(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM branch_staff_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("staff assignment not found")
	}
	return nil
}
