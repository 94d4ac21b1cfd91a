package domain

import "time"

// Card is a dashboard menu entry. Visibility is decided per principal: role
// restrictions and the explicit user allow-list combine as a union, so a
// principal satisfying either one sees the card.
type Card struct {
	CardID         string    `json:"id" dynamodbav:"card_id"`
	Title          string    `json:"title" dynamodbav:"title"`
	Description    string    `json:"description" dynamodbav:"description"`
	Href           string    `json:"href" dynamodbav:"href"`
	Icon           string    `json:"icon" dynamodbav:"icon"`
	Order          int       `json:"order" dynamodbav:"order"`
	AdminOnly      bool      `json:"admin_only" dynamodbav:"admin_only"`
	ManagerOnly    bool      `json:"manager_only" dynamodbav:"manager_only"`
	AllowedRoles   []string  `json:"allowed_roles,omitempty" dynamodbav:"allowed_roles"`
	AllowedUserIDs []string  `json:"allowed_user_ids,omitempty" dynamodbav:"allowed_user_ids"`
	Enable         bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CardInput struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description"`
	Href           string   `json:"href" validate:"required"`
	Icon           string   `json:"icon"`
	Order          int      `json:"order"`
	AdminOnly      bool     `json:"admin_only"`
	ManagerOnly    bool     `json:"manager_only"`
	AllowedRoles   []string `json:"allowed_roles"`
	AllowedUserIDs []string `json:"allowed_user_ids"`
	Enable         *bool    `json:"enable"`
}
