package domain

import "time"

// Document categories shown in the portal.
const (
	DocumentCategoryPolicy = "policy"
	DocumentCategoryNews   = "news"
	DocumentCategoryForm   = "form"
)

// Document is a portal document or news post. The payload lives in S3 under
// Object; this record holds the metadata and visibility restrictions.
type Document struct {
	DocumentID     string    `json:"id" dynamodbav:"document_id"`
	Title          string    `json:"title" dynamodbav:"title"`
	Category       string    `json:"category" dynamodbav:"category"`
	Object         string    `json:"object" dynamodbav:"object"`
	ContentType    string    `json:"content_type" dynamodbav:"content_type"`
	Size           int64     `json:"size" dynamodbav:"size"`
	Hash           string    `json:"hash" dynamodbav:"hash"`
	PublishedBy    string    `json:"published_by" dynamodbav:"published_by"`
	AdminOnly      bool      `json:"admin_only" dynamodbav:"admin_only"`
	ManagerOnly    bool      `json:"manager_only" dynamodbav:"manager_only"`
	AllowedRoles   []string  `json:"allowed_roles,omitempty" dynamodbav:"allowed_roles"`
	AllowedUserIDs []string  `json:"allowed_user_ids,omitempty" dynamodbav:"allowed_user_ids"`
	Enable         bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}
