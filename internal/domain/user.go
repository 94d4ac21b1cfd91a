package domain

import "time"

// Portal role tiers. Admin capabilities are a superset of manager, which is a
// superset of plain user.
const (
	RoleUser    = "USER"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// ValidRole reports whether name is one of the known role tiers.
func ValidRole(name string) bool {
	switch name {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is an ABZ Group employee account.
type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Email        string     `json:"email" dynamodbav:"email"`
	// omitempty keeps phone-less accounts out of the phone-index GSI; a NULL
	// attribute would be rejected as an index key.
	Phone        *string    `json:"phone_number,omitempty" dynamodbav:"phone,omitempty"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	FirstName    string     `json:"first_name" dynamodbav:"first_name"`
	LastName     string     `json:"last_name" dynamodbav:"last_name"`
	Position     string     `json:"position" dynamodbav:"position"`
	Department   string     `json:"department" dynamodbav:"department"`
	Enable       int        `json:"enable" dynamodbav:"enable"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
	Phone      *string `json:"phone_number"`
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Role       string  `json:"role"` // defaults to USER; only admins may set another tier
}

type UpdateUserRequest struct {
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone_number"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Position   *string `json:"position"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
	Enable     *int    `json:"enable"` // 1 = enabled, 0 = disabled
}
