package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64
	Login        string
	Nickname     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
	LastLogin    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Register inserts the user together with its role link and its channel
// membership in one transaction: a half-finished signup must leave no user
// row behind. The membership table has no uniqueness on (user_id,
// channel_id), so a repeated join would insert a second row, matching the
// source system. The unique constraints on login and email surface as
// ErrDuplicate (MySQL error 1062). The user's CreatedAt doubles as the
// membership's joined_at.
func (r *UserRepo) Register(ctx context.Context, u User, roleID, channelID uint64) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (login, nickname, password_hash, email, created_at, last_login) VALUES (?,?,?,?,?,?)",
		u.Login, u.Nickname, u.PasswordHash, nullable(u.Email), u.CreatedAt, u.LastLogin)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	uid := uint64(id)

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES (?,?)",
		uid, roleID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_channel_access (user_id, channel_id, joined_at) VALUES (?,?,?)",
		uid, channelID, u.CreatedAt); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uid, nil
}

// GetByLogin fetches a user by login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (User, error) {
	var u User
	var email sql.NullString
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,login,nickname,password_hash,email,created_at,last_login FROM users WHERE login=? LIMIT 1",
		login).Scan(&u.ID, &u.Login, &u.Nickname, &u.PasswordHash, &email, &u.CreatedAt, &lastLogin)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.Email = email.String
	u.LastLogin = lastLogin.Time
	return u, nil
}

// ExistsByLogin reports whether a user with the given login exists.
func (r *UserRepo) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM users WHERE login=? LIMIT 1", login)
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	return r.exists(ctx, "SELECT 1 FROM users WHERE email=? LIMIT 1", email)
}

func (r *UserRepo) exists(ctx context.Context, query string, arg any) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RoleNames returns the names of all roles attached to a user, resolved
// eagerly through the membership table at the point of use.
func (r *UserRepo) RoleNames(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id=? ORDER BY r.name",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
