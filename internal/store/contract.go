package store

import (
	"context"
	"time"

	"github.com/fundhub/contract-api/internal/domain"
	"github.com/google/uuid"
)

// SortField selects the column used to order the reminder query.
type SortField string

// Supported sort fields for the reminder query. Implementations must treat
// these as a whitelist; anything else falls back to SortByLastUpdatedAt.
const (
	SortByContractNumber SortField = "contract_number"
	SortByValue          SortField = "value"
	SortByCreatedAt      SortField = "created_at"
	SortByLastUpdatedAt  SortField = "updated_at"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// StatusUpdateResult describes a completed conditional status transition.
// It carries both the prior and the new status so callers can report the
// transition without a second read.
type StatusUpdateResult struct {
	ID             uuid.UUID
	ContractNumber string
	Version        int
	OrganizationID uuid.UUID
	PreviousStatus domain.ContractStatus
	NewStatus      domain.ContractStatus
}

// ContractStore defines the interface for contract data persistence.
type ContractStore interface {
	// GetByID retrieves a contract by its unique ID.
	// Returns ErrContractNotFound if the contract does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)

	// GetByContractNumber retrieves every version of a contract number,
	// ordered by version ascending. Returns an empty slice when no versions
	// exist.
	GetByContractNumber(ctx context.Context, contractNumber string) ([]*domain.Contract, error)

	// GetByContractNumberAndVersion retrieves the exact contract identified
	// by number and version. Returns ErrContractNotFound if no such contract
	// exists.
	GetByContractNumberAndVersion(
		ctx context.Context,
		contractNumber string,
		version int,
	) (*domain.Contract, error)

	// GetReminders retrieves one page of reminder-eligible contracts, ordered
	// per sort/direction. A contract is eligible when its status is
	// ApprovedWaitingConfirmation and its reminder date (last email reminder
	// sent, or creation when never reminded) is at or before the cutoff
	// instant. Contracts in any other status never receive reminders.
	GetReminders(
		ctx context.Context,
		cutoff time.Time,
		pageNumber, pageSize int,
		sort SortField,
		direction SortDirection,
	) (PagedResult[*domain.Contract], error)

	// UpdateLastEmailReminderSent sets the contract's last-email-reminder-sent
	// and last-updated timestamps in a single statement and returns the
	// updated contract. Returns ErrContractNotFound if the contract does not
	// exist.
	UpdateLastEmailReminderSent(ctx context.Context, id uuid.UUID) (*domain.Contract, error)

	// UpdateStatusIfEqual transitions the contract's status from expected to
	// new as a single atomic check-and-set. Returns ErrContractNotFound when
	// the id does not exist and ErrStatusPrecondition when the current status
	// differs from expected; in both cases no mutation has occurred.
	UpdateStatusIfEqual(
		ctx context.Context,
		id uuid.UUID,
		expected, next domain.ContractStatus,
	) (*StatusUpdateResult, error)
}
