package entity

import (
	coreEntity "stayops/core/entity"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
)

// User is an operator account for the private API surface. Guests never
// authenticate; reservations come in through the public intake endpoint.
type User struct {
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Name         string   `db:"name" json:"name"`
	Role         UserRole `db:"role" json:"role"`
	coreEntity.BaseEntity
}
