package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coursehub/internal/entity"
)

const (
	FieldUsername = "username"
	FieldSchoolID = "school_id"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, school_id, name, username, password, role, address, phone, created_at`

func scanUser(row interface{ Scan(...any) error }) (*entity.User, error) {
	var u entity.User
	var role string
	if err := row.Scan(&u.ID, &u.SchoolID, &u.Name, &u.Username, &u.Password, &role, &u.Address, &u.Phone, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}

// Create inserts u and fills in its ID. A collision on username or
// school_id is reported as a *DuplicateError naming the field.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (school_id, name, username, password, role, address, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, u.SchoolID, u.Name, u.Username, u.Password, string(u.Role), u.Address, u.Phone, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return nil, duplicate(err, FieldSchoolID, FieldUsername)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// ListByRole returns users with the given role ordered by name. A non-empty
// schoolID restricts the result to the exact match.
func (r *UserRepository) ListByRole(ctx context.Context, role entity.Role, schoolID string) ([]entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		rows *sql.Rows
		err  error
	)
	if schoolID == "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name, id`, string(role))
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 AND school_id = $2 ORDER BY name, id`, string(role), schoolID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateProfile rewrites the self-editable fields of user id.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, password, address, phone string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = $1, password = $2, address = $3, phone = $4
		WHERE id = $5
	`, name, password, address, phone, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
