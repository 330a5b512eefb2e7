package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a synced domain table like any other: the remote replica carries the
// password hash so a freshly restored clinic can still log in. Handlers must
// never marshal this model directly; they build response DTOs without the
// hash.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:"user_id,pk,nullzero" json:"user_id"`
	Username     string    `bun:",nullzero" json:"username"`
	PasswordHash string    `bun:"password_hash" json:"password_hash"`
	FullName     string    `json:"full_name"`
	Role         string    `bun:",nullzero,default:'staff'" json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	IsSynced   bool   `json:"is_synced"`
	SyncStatus string `bun:",nullzero,default:'pending'" json:"sync_status"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
