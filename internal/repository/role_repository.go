package repository

import (
	"context"
	"database/sql"
)

// Role mirrors the 'roles' table.
type Role struct {
	ID          uint64
	Name        string
	Description string
}

type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// GetByName fetches a role by its unique name. The "user" role is fixed
// reference data: signup treats its absence as a server-side failure.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (Role, error) {
	var role Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description FROM roles WHERE name=? LIMIT 1",
		name).Scan(&role.ID, &role.Name, &role.Description)
	if err == sql.ErrNoRows {
		return Role{}, ErrNotFound
	}
	if err != nil {
		return Role{}, err
	}
	return role, nil
}
