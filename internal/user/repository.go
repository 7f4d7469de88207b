package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/apperr"
	"gymhub/internal/identity"
)

const userColumns = `id, first_name, last_name, email, password_hash, phone_number, role, account_status, gym_id, branch_id, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u User) (*User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, phone_number, role, account_status, gym_id, branch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	var created User
	err := r.db.GetContext(ctx, &created, query,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.PhoneNumber,
		u.Role, u.AccountStatus, u.GymID, u.BranchID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperr.Conflict("user with this email already exists")
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	return exists, err
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	return users, err
}

func (r *repository) CountActiveSuperAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND account_status = $2`,
		identity.RoleSuperAdmin, identity.StatusActive,
	)
	return count, err
}

func (r *repository) UpdateRole(ctx context.Context, id int, role identity.Role) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, role, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status identity.AccountStatus) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users SET account_status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int, firstName, lastName, phoneNumber *string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users
		SET first_name   = COALESCE($1, first_name),
		    last_name    = COALESCE($2, last_name),
		    phone_number = COALESCE($3, phone_number),
		    updated_at   = NOW()
		WHERE id = $4
		RETURNING `+userColumns, firstName, lastName, phoneNumber, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SoftDelete marks the account DELETED and mangles the email so the
// address can be reused for a fresh registration.
func (r *repository) SoftDelete(ctx context.Context, id int, mangledEmail string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET account_status = $1, email = $2, updated_at = NOW()
		WHERE id = $3`,
		identity.StatusDeleted, mangledEmail, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
