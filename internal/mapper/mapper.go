// Package mapper converts persistence-layer contract records into the
// externally-facing models in internal/model. Every function here is pure and
// total over valid inputs: field for field, no side effects, no I/O.
package mapper

import (
	"github.com/fundhub/contract-api/internal/domain"
	"github.com/fundhub/contract-api/internal/model"
	"github.com/fundhub/contract-api/internal/store"
)

// ContractMapper maps domain contracts to output models. The service layer
// depends on this interface so tests can substitute a recording fake.
type ContractMapper interface {
	ToContractModel(contract *domain.Contract) *model.Contract
	ToContractModels(contracts []*domain.Contract) []*model.Contract
	ToReminderItem(contract *domain.Contract) model.ContractReminderItem
	ToReminderItems(contracts []*domain.Contract) []model.ContractReminderItem
	ToUpdatedStatusResponse(result *store.StatusUpdateResult) *model.UpdatedContractStatusResponse
}

// Mapper is the stateless, concrete ContractMapper.
type Mapper struct{}

// New creates a Mapper.
func New() *Mapper {
	return &Mapper{}
}

// Ensure Mapper implements ContractMapper.
var _ ContractMapper = (*Mapper)(nil)

// ToContractModel maps a domain contract to its output model.
// Returns nil for a nil input.
func (m *Mapper) ToContractModel(contract *domain.Contract) *model.Contract {
	if contract == nil {
		return nil
	}

	return &model.Contract{
		ID:                    contract.ID,
		ContractNumber:        contract.ContractNumber,
		Version:               contract.Version,
		Status:                contract.Status,
		OrganizationID:        contract.OrganizationID,
		Title:                 contract.Title,
		Value:                 contract.Value,
		SignedOn:              contract.SignedOn,
		LastEmailReminderSent: contract.LastEmailReminderSent,
		CreatedAt:             contract.CreatedAt,
		UpdatedAt:             contract.UpdatedAt,
	}
}

// ToContractModels maps a slice of domain contracts, preserving order.
// Always returns a non-nil slice.
func (m *Mapper) ToContractModels(contracts []*domain.Contract) []*model.Contract {
	models := make([]*model.Contract, 0, len(contracts))
	for _, contract := range contracts {
		models = append(models, m.ToContractModel(contract))
	}
	return models
}

// ToReminderItem maps a domain contract to its reminder-query view.
func (m *Mapper) ToReminderItem(contract *domain.Contract) model.ContractReminderItem {
	return model.ContractReminderItem{
		ID:                    contract.ID,
		ContractNumber:        contract.ContractNumber,
		Version:               contract.Version,
		Status:                contract.Status,
		OrganizationID:        contract.OrganizationID,
		LastEmailReminderSent: contract.LastEmailReminderSent,
	}
}

// ToReminderItems maps a slice of domain contracts to reminder items,
// preserving order. Always returns a non-nil slice.
func (m *Mapper) ToReminderItems(contracts []*domain.Contract) []model.ContractReminderItem {
	items := make([]model.ContractReminderItem, 0, len(contracts))
	for _, contract := range contracts {
		items = append(items, m.ToReminderItem(contract))
	}
	return items
}

// ToUpdatedStatusResponse maps a store status-update result to its output model.
// Returns nil for a nil input.
func (m *Mapper) ToUpdatedStatusResponse(
	result *store.StatusUpdateResult,
) *model.UpdatedContractStatusResponse {
	if result == nil {
		return nil
	}

	return &model.UpdatedContractStatusResponse{
		ID:             result.ID,
		ContractNumber: result.ContractNumber,
		Version:        result.Version,
		OrganizationID: result.OrganizationID,
		PreviousStatus: result.PreviousStatus,
		NewStatus:      result.NewStatus,
	}
}
