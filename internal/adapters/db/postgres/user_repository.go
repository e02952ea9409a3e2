package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"topoplan/internal/domain/auth"

	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE raised on a duplicate key
const uniqueViolation = "23505"

// UserRepository is a Postgres implementation of auth.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository constructs a UserRepository
func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{db: db} }

const userColumns = `id,username,password_hash,role,created_at,updated_at,last_login_at`

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanUser scans a user row into an auth.User
func scanUser(rows scanner) (*auth.User, error) {
	var u auth.User
	var lastLogin sql.NullTime
	err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLoginAt = lastLogin.Time
	}
	return &u, nil
}

func (r *UserRepository) getOne(query string, args ...interface{}) (*auth.User, error) {
	u, err := scanUser(r.db.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetUser(userID string) (*auth.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
}

func (r *UserRepository) GetUserByUsername(username string) (*auth.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE username=$1`, username)
}

func (r *UserRepository) CreateUser(user *auth.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt
	_, err := r.db.Exec(`INSERT INTO users (`+userColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		user.ID, user.Username, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt, nullTimePtr(user.LastLoginAt))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return auth.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateUser(user *auth.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.db.Exec(`UPDATE users SET username=$2,password_hash=$3,role=$4,updated_at=$5,last_login_at=$6 WHERE id=$1`,
		user.ID, user.Username, user.PasswordHash, user.Role, user.UpdatedAt, nullTimePtr(user.LastLoginAt))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// nullTimePtr returns interface{} nil if zero time
func nullTimePtr(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func (r *UserRepository) ListUsers() ([]*auth.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	out := make([]*auth.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) GetFirstUser() (*auth.User, error) {
	u, err := r.getOne(`SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC LIMIT 1`)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil, auth.ErrNoUsers
	}
	return u, err
}

var _ auth.Repository = (*UserRepository)(nil)
