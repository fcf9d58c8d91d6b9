package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/univote/campus-election-api/internal/model"
	"github.com/univote/campus-election-api/internal/utils"
)

// UserRepo persists registered accounts.  Registration eligibility (the
// roster lookup) is decided by the caller; this repository only enforces
// the email and matric uniqueness of accounts themselves.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the account.  Email and matric
// number are normalized before storage.  A unique-key violation on either
// column is mapped to ErrAlreadyRegistered.
func (r *UserRepo) Create(ctx context.Context, email, name, matricNo, password, role string, cost int) (uint64, error) {
	email = utils.NormalizeEmail(email)
	matricNo = utils.NormalizeMatric(matricNo)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, matric_no, password_hash, role, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		email, name, matricNo, hash, role, time.Now().UTC(), time.Now().UTC())
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrAlreadyRegistered
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = utils.NormalizeEmail(email)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, name, matric_no, password_hash, role, created_at, updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.Name, &u.MatricNo, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, name, matric_no, password_hash, role, created_at, updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.Name, &u.MatricNo, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// ExistsByEmailOrMatric reports whether an account already exists for the
// (normalized) email or matric number.  Registration pre-checks use this
// to return a specific conflict message; the unique indexes remain the
// authoritative guard against races.
func (r *UserRepo) ExistsByEmailOrMatric(ctx context.Context, email, matricNo string) (bool, error) {
	email = utils.NormalizeEmail(email)
	matricNo = utils.NormalizeMatric(matricNo)
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email=? OR matric_no=? LIMIT 1",
		email, matricNo).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every account sorted by name.  Password hashes stay in
// the struct for internal use but are never serialized by handlers.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, email, name, matric_no, role, created_at, updated_at FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.MatricNo, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
