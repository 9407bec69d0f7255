package api

// ConfirmApprovalRequest is the body for PATCH /api/contracts/confirm-approval.
type ConfirmApprovalRequest struct {
	ID             string `json:"id"             validate:"required,uuid"`
	ContractNumber string `json:"contractNumber" validate:"required,min=1,max=64"`
}

// Defaults and bounds for the reminder query parameters.
const (
	DefaultReminderInterval = 30
	DefaultPageNumber       = 1
	DefaultPageSize         = 20
	MaxPageSize             = 100
)
