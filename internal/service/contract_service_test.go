package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fundhub/contract-api/internal/audit"
	"github.com/fundhub/contract-api/internal/domain"
	"github.com/fundhub/contract-api/internal/mapper"
	"github.com/fundhub/contract-api/internal/platform/logger"
	"github.com/fundhub/contract-api/internal/store"
	"github.com/fundhub/contract-api/internal/uri"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testActor = "contract-api"

func newTestService(
	t *testing.T,
	repo ContractRepository,
	builder uri.Builder,
	auditClient audit.Client,
) *contractServiceImpl {
	t.Helper()

	svc, err := NewContractService(repo, mapper.New(), builder, auditClient, testActor, nil)
	require.NoError(t, err)
	return svc.(*contractServiceImpl)
}

func realURIBuilder(t *testing.T) uri.Builder {
	t.Helper()

	builder, err := uri.NewBaseURLBuilder("https://api.fundhub.example/")
	require.NoError(t, err)
	return builder
}

func storedContract() *domain.Contract {
	reminded := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	return &domain.Contract{
		ID:                    uuid.New(),
		ContractNumber:        "FUND-2024-001",
		Version:               1,
		Status:                domain.StatusApprovedWaitingConfirmation,
		OrganizationID:        uuid.New(),
		Title:                 "Adult education funding",
		Value:                 250000,
		LastEmailReminderSent: &reminded,
		CreatedAt:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:             time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewContractService(t *testing.T) {
	repo := &MockContractRepository{}
	builder := realURIBuilder(t)
	auditClient := &MockAuditClient{}

	t.Run("requires repo", func(t *testing.T) {
		_, err := NewContractService(nil, mapper.New(), builder, auditClient, testActor, nil)
		assert.Error(t, err)
	})

	t.Run("requires mapper", func(t *testing.T) {
		_, err := NewContractService(repo, nil, builder, auditClient, testActor, nil)
		assert.Error(t, err)
	})

	t.Run("requires uri builder", func(t *testing.T) {
		_, err := NewContractService(repo, mapper.New(), nil, auditClient, testActor, nil)
		assert.Error(t, err)
	})

	t.Run("requires audit client", func(t *testing.T) {
		_, err := NewContractService(repo, mapper.New(), builder, nil, testActor, nil)
		assert.Error(t, err)
	})

	t.Run("constructs with all dependencies", func(t *testing.T) {
		svc, err := NewContractService(repo, mapper.New(), builder, auditClient, testActor, nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestGetContractByID(t *testing.T) {
	t.Run("returns mapped contract", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		contract := storedContract()
		repo.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)

		out, err := svc.GetContractByID(context.Background(), contract.ID)

		require.NoError(t, err)
		assert.Equal(t, mapper.New().ToContractModel(contract), out)
		repo.AssertExpectations(t)
	})

	t.Run("propagates not-found unchanged", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, store.ErrContractNotFound)

		out, err := svc.GetContractByID(context.Background(), id)

		assert.Nil(t, out)
		assert.Equal(t, store.ErrContractNotFound, err)
	})
}

func TestGetContractsByNumber(t *testing.T) {
	repo := &MockContractRepository{}
	svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

	v1 := storedContract()
	v2 := storedContract()
	v2.Version = 2
	repo.On("GetByContractNumber", mock.Anything, "FUND-2024-001").
		Return([]*domain.Contract{v1, v2}, nil)

	out, err := svc.GetContractsByNumber(context.Background(), "FUND-2024-001")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Version)
	assert.Equal(t, 2, out[1].Version)
}

func TestGetContractByNumberAndVersion(t *testing.T) {
	t.Run("repeated calls return equal results", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		contract := storedContract()
		repo.On("GetByContractNumberAndVersion", mock.Anything, "FUND-2024-001", 1).
			Return(contract, nil)

		first, err := svc.GetContractByNumberAndVersion(context.Background(), "FUND-2024-001", 1)
		require.NoError(t, err)
		second, err := svc.GetContractByNumberAndVersion(context.Background(), "FUND-2024-001", 1)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("propagates not-found unchanged", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		repo.On("GetByContractNumberAndVersion", mock.Anything, "FUND-2024-001", 99).
			Return(nil, store.ErrContractNotFound)

		_, err := svc.GetContractByNumberAndVersion(context.Background(), "FUND-2024-001", 99)
		assert.Equal(t, store.ErrContractNotFound, err)
	})
}

func TestReminderCutoff(t *testing.T) {
	svc := newTestService(t, &MockContractRepository{}, realURIBuilder(t), &MockAuditClient{})
	svc.now = func() time.Time {
		return time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	}

	cutoff := svc.reminderCutoff(3)

	assert.Equal(t, time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC), cutoff)
}

func TestGetContractReminders(t *testing.T) {
	const urlTemplate = "/api/contracts/reminders?reminderInterval=5&page={page}&pageSize=10"

	pagedResult := func(hasNext, hasPrev bool) store.PagedResult[*domain.Contract] {
		return store.PagedResult[*domain.Contract]{
			Items:           []*domain.Contract{storedContract()},
			TotalCount:      35,
			PageSize:        10,
			CurrentPage:     2,
			TotalPages:      4,
			HasNextPage:     hasNext,
			HasPreviousPage: hasPrev,
		}
	}

	t.Run("builds next and previous page URLs", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		repo.On("GetReminders", mock.Anything, mock.Anything, 2, 10,
			store.SortByLastUpdatedAt, store.SortAscending).
			Return(pagedResult(true, true), nil)

		out, err := svc.GetContractReminders(
			context.Background(), 5, 2, 10,
			store.SortByLastUpdatedAt, store.SortAscending, urlTemplate)

		require.NoError(t, err)
		assert.Equal(t,
			"https://api.fundhub.example/api/contracts/reminders?reminderInterval=5&page=3&pageSize=10",
			out.Paging.NextPageURL)
		assert.Equal(t,
			"https://api.fundhub.example/api/contracts/reminders?reminderInterval=5&page=1&pageSize=10",
			out.Paging.PreviousPageURL)
		assert.Equal(t, 35, out.Paging.TotalCount)
		assert.Equal(t, 4, out.Paging.TotalPages)
		assert.Len(t, out.Contracts, 1)
	})

	t.Run("missing next page yields empty string", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		repo.On("GetReminders", mock.Anything, mock.Anything, 2, 10,
			store.SortByLastUpdatedAt, store.SortAscending).
			Return(pagedResult(false, true), nil)

		out, err := svc.GetContractReminders(
			context.Background(), 5, 2, 10,
			store.SortByLastUpdatedAt, store.SortAscending, urlTemplate)

		require.NoError(t, err)
		assert.Equal(t, "", out.Paging.NextPageURL)
		assert.NotEmpty(t, out.Paging.PreviousPageURL)
	})

	t.Run("queries repository with end-of-day cutoff", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})
		svc.now = func() time.Time {
			return time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
		}

		wantCutoff := time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC)
		repo.On("GetReminders", mock.Anything, wantCutoff, 1, 10,
			store.SortByLastUpdatedAt, store.SortAscending).
			Return(pagedResult(false, false), nil)

		_, err := svc.GetContractReminders(
			context.Background(), 3, 1, 10,
			store.SortByLastUpdatedAt, store.SortAscending, urlTemplate)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		queryErr := errors.New("connection refused")
		repo.On("GetReminders", mock.Anything, mock.Anything, 1, 10,
			store.SortByLastUpdatedAt, store.SortAscending).
			Return(store.PagedResult[*domain.Contract]{}, queryErr)

		_, err := svc.GetContractReminders(
			context.Background(), 5, 1, 10,
			store.SortByLastUpdatedAt, store.SortAscending, urlTemplate)

		assert.Equal(t, queryErr, err)
	})

	t.Run("uri builder failure is wrapped as service error", func(t *testing.T) {
		repo := &MockContractRepository{}
		builder := &MockURIBuilder{}
		svc := newTestService(t, repo, builder, &MockAuditClient{})

		repo.On("GetReminders", mock.Anything, mock.Anything, 2, 10,
			store.SortByLastUpdatedAt, store.SortAscending).
			Return(pagedResult(true, false), nil)
		builder.On("BuildAbsoluteURI", mock.Anything).Return("", errors.New("bad template"))

		_, err := svc.GetContractReminders(
			context.Background(), 5, 2, 10,
			store.SortByLastUpdatedAt, store.SortAscending, urlTemplate)

		var svcErr *ContractServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "get_contract_reminders", svcErr.Operation)
	})
}

func TestUpdateLastEmailReminderSent(t *testing.T) {
	t.Run("returns mapped updated contract", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		contract := storedContract()
		repo.On("UpdateLastEmailReminderSent", mock.Anything, contract.ID).Return(contract, nil)

		out, err := svc.UpdateLastEmailReminderSent(context.Background(), contract.ID)

		require.NoError(t, err)
		assert.Equal(t, contract.ID, out.ID)
		assert.Equal(t, contract.LastEmailReminderSent, out.LastEmailReminderSent)
	})

	t.Run("propagates not-found unchanged", func(t *testing.T) {
		repo := &MockContractRepository{}
		svc := newTestService(t, repo, realURIBuilder(t), &MockAuditClient{})

		id := uuid.New()
		repo.On("UpdateLastEmailReminderSent", mock.Anything, id).
			Return(nil, store.ErrContractNotFound)

		_, err := svc.UpdateLastEmailReminderSent(context.Background(), id)
		assert.Equal(t, store.ErrContractNotFound, err)
	})
}

func TestConfirmApproval(t *testing.T) {
	transition := func() *store.StatusUpdateResult {
		return &store.StatusUpdateResult{
			ID:             uuid.New(),
			ContractNumber: "FUND-2024-001",
			Version:        1,
			OrganizationID: uuid.New(),
			PreviousStatus: domain.StatusApprovedWaitingConfirmation,
			NewStatus:      domain.StatusApproved,
		}
	}

	t.Run("transitions and audits", func(t *testing.T) {
		repo := &MockContractRepository{}
		auditClient := &MockAuditClient{}
		svc := newTestService(t, repo, realURIBuilder(t), auditClient)

		result := transition()
		repo.On("UpdateStatusIfEqual", mock.Anything, result.ID,
			domain.StatusApprovedWaitingConfirmation, domain.StatusApproved).
			Return(result, nil)
		auditClient.On("Submit", mock.Anything, mock.MatchedBy(func(record audit.Record) bool {
			return record.Action == audit.ActionContractConfirmApproval &&
				record.Severity == audit.SeverityInformation &&
				record.OrganizationID == result.OrganizationID &&
				record.Actor == testActor
		})).Return(nil)

		out, err := svc.ConfirmApproval(context.Background(), result.ID, result.ContractNumber)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusApprovedWaitingConfirmation, out.PreviousStatus)
		assert.Equal(t, domain.StatusApproved, out.NewStatus)
		assert.Equal(t, result.ID, out.ID)
		auditClient.AssertExpectations(t)

		// The audit message embeds the identifying fields of the transition.
		submitted := auditClient.Calls[0].Arguments.Get(1).(audit.Record)
		assert.Contains(t, submitted.Message, result.ContractNumber)
		assert.Contains(t, submitted.Message, result.ID.String())
		assert.Contains(t, submitted.Message, fmt.Sprintf("version %d", result.Version))
		assert.Contains(t, submitted.Message, string(domain.StatusApprovedWaitingConfirmation))
		assert.Contains(t, submitted.Message, string(domain.StatusApproved))
	})

	t.Run("precondition failure propagates and skips audit", func(t *testing.T) {
		repo := &MockContractRepository{}
		auditClient := &MockAuditClient{}
		svc := newTestService(t, repo, realURIBuilder(t), auditClient)

		id := uuid.New()
		preconditionErr := fmt.Errorf("%w: expected %s, found %s",
			store.ErrStatusPrecondition,
			domain.StatusApprovedWaitingConfirmation,
			domain.StatusApproved)
		repo.On("UpdateStatusIfEqual", mock.Anything, id,
			domain.StatusApprovedWaitingConfirmation, domain.StatusApproved).
			Return(nil, preconditionErr)

		out, err := svc.ConfirmApproval(context.Background(), id, "FUND-2024-001")

		assert.Nil(t, out)
		assert.Equal(t, preconditionErr, err)
		auditClient.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("not-found propagates and skips audit", func(t *testing.T) {
		repo := &MockContractRepository{}
		auditClient := &MockAuditClient{}
		svc := newTestService(t, repo, realURIBuilder(t), auditClient)

		id := uuid.New()
		repo.On("UpdateStatusIfEqual", mock.Anything, id,
			domain.StatusApprovedWaitingConfirmation, domain.StatusApproved).
			Return(nil, store.ErrContractNotFound)

		_, err := svc.ConfirmApproval(context.Background(), id, "FUND-2024-001")

		assert.Equal(t, store.ErrContractNotFound, err)
		auditClient.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("audit failure is swallowed and logged", func(t *testing.T) {
		repo := &MockContractRepository{}
		auditClient := &MockAuditClient{}
		log, logBuf := logger.GetTestLogger(t)

		svc, err := NewContractService(
			repo, mapper.New(), realURIBuilder(t), auditClient, testActor, log)
		require.NoError(t, err)

		result := transition()
		repo.On("UpdateStatusIfEqual", mock.Anything, result.ID,
			domain.StatusApprovedWaitingConfirmation, domain.StatusApproved).
			Return(result, nil)
		auditClient.On("Submit", mock.Anything, mock.Anything).
			Return(errors.New("audit service unavailable"))

		out, err := svc.ConfirmApproval(context.Background(), result.ID, result.ContractNumber)

		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, domain.StatusApproved, out.NewStatus)
		logger.AssertLogContains(t, logBuf, "failed to submit audit record")
		logger.AssertLogContains(t, logBuf, "audit service unavailable")
	})
}
