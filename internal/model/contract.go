// Package model defines the externally-facing representations of contract
// data returned by the service layer. These are plain DTOs produced by
// internal/mapper; they never reach back into the domain.
package model

import (
	"time"

	"github.com/fundhub/contract-api/internal/domain"
	"github.com/google/uuid"
)

// Contract is the output representation of a contract aggregate.
type Contract struct {
	ID                    uuid.UUID             `json:"id"`
	ContractNumber        string                `json:"contractNumber"`
	Version               int                   `json:"version"`
	Status                domain.ContractStatus `json:"status"`
	OrganizationID        uuid.UUID             `json:"organizationId"`
	Title                 string                `json:"title"`
	Value                 float64               `json:"value"`
	SignedOn              *time.Time            `json:"signedOn,omitempty"`
	LastEmailReminderSent *time.Time            `json:"lastEmailReminderSent,omitempty"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

// ContractReminderItem is the per-contract view returned by the reminder query.
type ContractReminderItem struct {
	ID                    uuid.UUID             `json:"id"`
	ContractNumber        string                `json:"contractNumber"`
	Version               int                   `json:"version"`
	Status                domain.ContractStatus `json:"status"`
	OrganizationID        uuid.UUID             `json:"organizationId"`
	LastEmailReminderSent *time.Time            `json:"lastEmailReminderSent,omitempty"`
}

// Metadata carries the pagination counters for a paged response plus the
// resolved navigation URLs. NextPageURL and PreviousPageURL are empty strings
// when no such page exists.
type Metadata struct {
	TotalCount      int    `json:"totalCount"`
	PageSize        int    `json:"pageSize"`
	CurrentPage     int    `json:"currentPage"`
	TotalPages      int    `json:"totalPages"`
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	NextPageURL     string `json:"nextPageUrl"`
	PreviousPageURL string `json:"previousPageUrl"`
}

// ContractReminderResponse is the envelope returned by the reminder query:
// one page of reminder items plus its pagination metadata.
type ContractReminderResponse struct {
	Contracts []ContractReminderItem `json:"contracts"`
	Paging    Metadata               `json:"paging"`
}

// UpdatedContractStatusResponse describes a completed status transition.
type UpdatedContractStatusResponse struct {
	ID             uuid.UUID             `json:"id"`
	ContractNumber string                `json:"contractNumber"`
	Version        int                   `json:"version"`
	OrganizationID uuid.UUID             `json:"organizationId"`
	PreviousStatus domain.ContractStatus `json:"previousStatus"`
	NewStatus      domain.ContractStatus `json:"newStatus"`
}
