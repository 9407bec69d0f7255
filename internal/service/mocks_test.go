package service

import (
	"context"
	"time"

	"github.com/fundhub/contract-api/internal/audit"
	"github.com/fundhub/contract-api/internal/domain"
	"github.com/fundhub/contract-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockContractRepository mocks the ContractRepository interface
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) GetByContractNumber(
	ctx context.Context,
	contractNumber string,
) ([]*domain.Contract, error) {
	args := m.Called(ctx, contractNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) GetByContractNumberAndVersion(
	ctx context.Context,
	contractNumber string,
	version int,
) (*domain.Contract, error) {
	args := m.Called(ctx, contractNumber, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) GetReminders(
	ctx context.Context,
	cutoff time.Time,
	pageNumber, pageSize int,
	sort store.SortField,
	direction store.SortDirection,
) (store.PagedResult[*domain.Contract], error) {
	args := m.Called(ctx, cutoff, pageNumber, pageSize, sort, direction)
	return args.Get(0).(store.PagedResult[*domain.Contract]), args.Error(1)
}

func (m *MockContractRepository) UpdateLastEmailReminderSent(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) UpdateStatusIfEqual(
	ctx context.Context,
	id uuid.UUID,
	expected, next domain.ContractStatus,
) (*store.StatusUpdateResult, error) {
	args := m.Called(ctx, id, expected, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.StatusUpdateResult), args.Error(1)
}

// MockAuditClient mocks the audit.Client interface
type MockAuditClient struct {
	mock.Mock
}

func (m *MockAuditClient) Submit(ctx context.Context, record audit.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockURIBuilder mocks the uri.Builder interface
type MockURIBuilder struct {
	mock.Mock
}

func (m *MockURIBuilder) BuildAbsoluteURI(relativePath string) (string, error) {
	args := m.Called(relativePath)
	return args.String(0), args.Error(1)
}
