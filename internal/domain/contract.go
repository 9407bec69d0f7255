package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContractStatus represents the lifecycle state of a contract.
type ContractStatus string

// Possible contract status values.
const (
	StatusDraft                       ContractStatus = "draft"
	StatusPublishedToProvider         ContractStatus = "published_to_provider"
	StatusApprovedWaitingConfirmation ContractStatus = "approved_waiting_confirmation"
	StatusApproved                    ContractStatus = "approved"
	StatusWithdrawn                   ContractStatus = "withdrawn"
	StatusClosed                      ContractStatus = "closed"
)

// Common validation errors for Contract.
var (
	ErrEmptyContractID     = errors.New("contract ID cannot be empty")
	ErrEmptyContractNumber = errors.New("contract number cannot be empty")
	ErrInvalidVersion      = errors.New("contract version must be positive")
	ErrEmptyOrganizationID = errors.New("contract organization ID cannot be empty")
	ErrInvalidStatus       = errors.New("invalid contract status")
)

// Contract represents a funding agreement between the service and a provider
// organization. A contract number identifies the agreement; each renegotiation
// produces a new version under the same number.
type Contract struct {
	ID                    uuid.UUID      `json:"id"`
	ContractNumber        string         `json:"contract_number"`
	Version               int            `json:"version"`
	Status                ContractStatus `json:"status"`
	OrganizationID        uuid.UUID      `json:"organization_id"`
	Title                 string         `json:"title"`
	Value                 float64        `json:"value"`
	SignedOn              *time.Time     `json:"signed_on,omitempty"`
	LastEmailReminderSent *time.Time     `json:"last_email_reminder_sent,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// NewContract creates a new draft Contract for the given number, version and
// owning organization. It generates a new UUID and sets the timestamps.
// Returns an error if validation fails.
func NewContract(
	contractNumber string,
	version int,
	organizationID uuid.UUID,
	title string,
	value float64,
) (*Contract, error) {
	now := time.Now().UTC()
	contract := &Contract{
		ID:             uuid.New(),
		ContractNumber: contractNumber,
		Version:        version,
		Status:         StatusDraft,
		OrganizationID: organizationID,
		Title:          title,
		Value:          value,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := contract.Validate(); err != nil {
		return nil, err
	}

	return contract, nil
}

// Validate checks if the Contract has valid data.
// Returns an error if any field fails validation.
func (c *Contract) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContractID
	}

	if c.ContractNumber == "" {
		return ErrEmptyContractNumber
	}

	if c.Version < 1 {
		return ErrInvalidVersion
	}

	if c.OrganizationID == uuid.Nil {
		return ErrEmptyOrganizationID
	}

	if !IsValidStatus(c.Status) {
		return ErrInvalidStatus
	}

	return nil
}

// IsValidStatus checks if the given status is a valid ContractStatus.
func IsValidStatus(status ContractStatus) bool {
	switch status {
	case StatusDraft, StatusPublishedToProvider, StatusApprovedWaitingConfirmation,
		StatusApproved, StatusWithdrawn, StatusClosed:
		return true
	default:
		return false
	}
}
