package domain

import "time"

// Reimbursement workflow states. A request starts as pending, is approved or
// rejected by a manager (or admin), and an approved request is marked paid by
// an admin once finance has transferred the money.
const (
	ReimbursementPending  = "pending"
	ReimbursementApproved = "approved"
	ReimbursementRejected = "rejected"
	ReimbursementPaid     = "paid"
)

// Reimbursement is an employee expense-refund request.
type Reimbursement struct {
	ReimbursementID string     `json:"id" dynamodbav:"reimbursement_id"`
	UserID          string     `json:"user_id" dynamodbav:"user_id"`
	Description     string     `json:"description" dynamodbav:"description"`
	Category        string     `json:"category" dynamodbav:"category"`
	AmountCents     int64      `json:"amount_cents" dynamodbav:"amount_cents"`
	Currency        string     `json:"currency" dynamodbav:"currency"`
	Status          string     `json:"status" dynamodbav:"status"`
	ReceiptFileID   *string    `json:"receipt_file_id,omitempty" dynamodbav:"receipt_file_id"`
	DecisionNote    string     `json:"decision_note,omitempty" dynamodbav:"decision_note"`
	DecidedBy       string     `json:"decided_by,omitempty" dynamodbav:"decided_by"`
	DecidedAt       *time.Time `json:"decided_at,omitempty" dynamodbav:"decided_at"`
	PaidAt          *time.Time `json:"paid_at,omitempty" dynamodbav:"paid_at"`
	CreatedAt       time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateReimbursementRequest struct {
	Description   string  `json:"description" validate:"required"`
	Category      string  `json:"category"`
	AmountCents   int64   `json:"amount_cents" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	ReceiptFileID *string `json:"receipt_file_id"`
}

type DecideReimbursementRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}
