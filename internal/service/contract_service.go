package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fundhub/contract-api/internal/audit"
	"github.com/fundhub/contract-api/internal/domain"
	"github.com/fundhub/contract-api/internal/mapper"
	"github.com/fundhub/contract-api/internal/model"
	"github.com/fundhub/contract-api/internal/platform/logger"
	"github.com/fundhub/contract-api/internal/store"
	"github.com/fundhub/contract-api/internal/uri"
	"github.com/google/uuid"
)

// PagePlaceholder is the token in a page-link template that gets replaced
// with the target page number when building pagination URLs.
const PagePlaceholder = "{page}"

// ContractServiceError is a custom error type for contract service errors.
type ContractServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ContractServiceError.
func (e *ContractServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("contract service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("contract service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ContractServiceError) Unwrap() error {
	return e.Err
}

// NewContractServiceError creates a new ContractServiceError.
func NewContractServiceError(operation, message string, err error) *ContractServiceError {
	return &ContractServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ContractRepository defines the repository interface for the service layer.
// It mirrors store.ContractStore; the indirection keeps the service testable
// without a concrete store.
type ContractRepository interface {
	// GetByID retrieves a contract by its unique ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)

	// GetByContractNumber retrieves every version of a contract number,
	// ordered by version ascending
	GetByContractNumber(ctx context.Context, contractNumber string) ([]*domain.Contract, error)

	// GetByContractNumberAndVersion retrieves the exact contract identified
	// by number and version
	GetByContractNumberAndVersion(
		ctx context.Context,
		contractNumber string,
		version int,
	) (*domain.Contract, error)

	// GetReminders retrieves one page of reminder-eligible contracts
	GetReminders(
		ctx context.Context,
		cutoff time.Time,
		pageNumber, pageSize int,
		sort store.SortField,
		direction store.SortDirection,
	) (store.PagedResult[*domain.Contract], error)

	// UpdateLastEmailReminderSent atomically sets the reminder-sent and
	// last-updated timestamps and returns the updated contract
	UpdateLastEmailReminderSent(ctx context.Context, id uuid.UUID) (*domain.Contract, error)

	// UpdateStatusIfEqual atomically transitions the status from expected to
	// next, failing with store.ErrStatusPrecondition on a mismatch
	UpdateStatusIfEqual(
		ctx context.Context,
		id uuid.UUID,
		expected, next domain.ContractStatus,
	) (*store.StatusUpdateResult, error)
}

// ContractService provides contract-related operations.
type ContractService interface {
	// GetContractByID retrieves a contract by its ID, mapped to its output model.
	GetContractByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)

	// GetContractsByNumber retrieves all versions for a contract number,
	// mapped and ordered by version.
	GetContractsByNumber(ctx context.Context, contractNumber string) ([]*model.Contract, error)

	// GetContractByNumberAndVersion retrieves the exact contract identified
	// by number and version, mapped.
	GetContractByNumberAndVersion(
		ctx context.Context,
		contractNumber string,
		version int,
	) (*model.Contract, error)

	// GetContractReminders retrieves one page of contracts due an email
	// reminder, with pagination metadata carrying absolute next/previous
	// page URLs built from urlTemplate.
	GetContractReminders(
		ctx context.Context,
		reminderIntervalDays int,
		pageNumber, pageSize int,
		sort store.SortField,
		direction store.SortDirection,
		urlTemplate string,
	) (*model.ContractReminderResponse, error)

	// UpdateLastEmailReminderSent records that a reminder email was sent for
	// the contract and returns the updated, mapped contract.
	UpdateLastEmailReminderSent(ctx context.Context, id uuid.UUID) (*model.Contract, error)

	// ConfirmApproval transitions the contract from
	// ApprovedWaitingConfirmation to Approved and submits a best-effort audit
	// record. Audit failures never fail the operation.
	ConfirmApproval(
		ctx context.Context,
		id uuid.UUID,
		contractNumber string,
	) (*model.UpdatedContractStatusResponse, error)
}

// contractServiceImpl implements the ContractService interface.
type contractServiceImpl struct {
	repo        ContractRepository
	mapper      mapper.ContractMapper
	uriBuilder  uri.Builder
	auditClient audit.Client
	logger      *slog.Logger
	actor       string

	// now is the clock used for the reminder cutoff; overridable in tests.
	now func() time.Time
}

// NewContractService creates a new ContractService.
// It returns an error if any of the required dependencies are nil.
func NewContractService(
	repo ContractRepository,
	contractMapper mapper.ContractMapper,
	uriBuilder uri.Builder,
	auditClient audit.Client,
	actor string,
	logger *slog.Logger,
) (ContractService, error) {
	if repo == nil {
		return nil, NewContractServiceError("create_service", "repo cannot be nil", nil)
	}
	if contractMapper == nil {
		return nil, NewContractServiceError("create_service", "mapper cannot be nil", nil)
	}
	if uriBuilder == nil {
		return nil, NewContractServiceError("create_service", "uriBuilder cannot be nil", nil)
	}
	if auditClient == nil {
		return nil, NewContractServiceError("create_service", "auditClient cannot be nil", nil)
	}
	if actor == "" {
		actor = "contract-api"
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &contractServiceImpl{
		repo:        repo,
		mapper:      contractMapper,
		uriBuilder:  uriBuilder,
		auditClient: auditClient,
		actor:       actor,
		logger:      logger.With(slog.String("component", "contract_service")),
		now:         time.Now,
	}, nil
}

// GetContractByID implements ContractService.GetContractByID
// Repository errors, including not-found, propagate unchanged.
func (s *contractServiceImpl) GetContractByID(
	ctx context.Context,
	id uuid.UUID,
) (*model.Contract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving contract", slog.String("contract_id", id.String()))

	contract, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error("failed to retrieve contract",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, err
	}

	return s.mapper.ToContractModel(contract), nil
}

// GetContractsByNumber implements ContractService.GetContractsByNumber
func (s *contractServiceImpl) GetContractsByNumber(
	ctx context.Context,
	contractNumber string,
) ([]*model.Contract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving contracts by number",
		slog.String("contract_number", contractNumber))

	contracts, err := s.repo.GetByContractNumber(ctx, contractNumber)
	if err != nil {
		log.Error("failed to retrieve contracts by number",
			slog.String("error", err.Error()),
			slog.String("contract_number", contractNumber))
		return nil, err
	}

	return s.mapper.ToContractModels(contracts), nil
}

// GetContractByNumberAndVersion implements ContractService.GetContractByNumberAndVersion
func (s *contractServiceImpl) GetContractByNumberAndVersion(
	ctx context.Context,
	contractNumber string,
	version int,
) (*model.Contract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	contract, err := s.repo.GetByContractNumberAndVersion(ctx, contractNumber, version)
	if err != nil {
		log.Error("failed to retrieve contract by number and version",
			slog.String("error", err.Error()),
			slog.String("contract_number", contractNumber),
			slog.Int("version", version))
		return nil, err
	}

	return s.mapper.ToContractModel(contract), nil
}

// reminderCutoff computes the reminder eligibility cutoff: the current UTC
// date minus the interval, fixed at 23:59 of that day.
func (s *contractServiceImpl) reminderCutoff(reminderIntervalDays int) time.Time {
	d := s.now().UTC().AddDate(0, 0, -reminderIntervalDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, time.UTC)
}

// GetContractReminders implements ContractService.GetContractReminders
func (s *contractServiceImpl) GetContractReminders(
	ctx context.Context,
	reminderIntervalDays int,
	pageNumber, pageSize int,
	sort store.SortField,
	direction store.SortDirection,
	urlTemplate string,
) (*model.ContractReminderResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cutoff := s.reminderCutoff(reminderIntervalDays)

	log.Info("querying contract reminders",
		slog.Int("reminder_interval_days", reminderIntervalDays),
		slog.Time("cutoff", cutoff),
		slog.Time("current_time", s.now().UTC()))

	page, err := s.repo.GetReminders(ctx, cutoff, pageNumber, pageSize, sort, direction)
	if err != nil {
		log.Error("failed to query contract reminders",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff))
		return nil, err
	}

	nextURL, err := s.pageURL(urlTemplate, pageNumber+1, page.HasNextPage)
	if err != nil {
		return nil, NewContractServiceError(
			"get_contract_reminders", "failed to build next page URL", err)
	}

	previousURL, err := s.pageURL(urlTemplate, pageNumber-1, page.HasPreviousPage)
	if err != nil {
		return nil, NewContractServiceError(
			"get_contract_reminders", "failed to build previous page URL", err)
	}

	return &model.ContractReminderResponse{
		Contracts: s.mapper.ToReminderItems(page.Items),
		Paging: model.Metadata{
			TotalCount:      page.TotalCount,
			PageSize:        page.PageSize,
			CurrentPage:     page.CurrentPage,
			TotalPages:      page.TotalPages,
			HasNextPage:     page.HasNextPage,
			HasPreviousPage: page.HasPreviousPage,
			NextPageURL:     nextURL,
			PreviousPageURL: previousURL,
		},
	}, nil
}

// pageURL substitutes the page placeholder in the template and resolves the
// result to an absolute URL. When the target page does not exist the URL is
// the empty string, never an error.
func (s *contractServiceImpl) pageURL(template string, page int, exists bool) (string, error) {
	if !exists {
		return "", nil
	}

	relative := strings.ReplaceAll(template, PagePlaceholder, strconv.Itoa(page))
	return s.uriBuilder.BuildAbsoluteURI(relative)
}

// UpdateLastEmailReminderSent implements ContractService.UpdateLastEmailReminderSent
func (s *contractServiceImpl) UpdateLastEmailReminderSent(
	ctx context.Context,
	id uuid.UUID,
) (*model.Contract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating last email reminder sent",
		slog.String("contract_id", id.String()))

	contract, err := s.repo.UpdateLastEmailReminderSent(ctx, id)
	if err != nil {
		log.Error("failed to update last email reminder sent",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, err
	}

	log.Info("last email reminder sent updated",
		slog.String("contract_id", id.String()),
		slog.String("contract_number", contract.ContractNumber))

	return s.mapper.ToContractModel(contract), nil
}

// ConfirmApproval implements ContractService.ConfirmApproval
// The status transition always completes (or fails) before the audit attempt
// begins, and the audit outcome never affects the returned result.
func (s *contractServiceImpl) ConfirmApproval(
	ctx context.Context,
	id uuid.UUID,
	contractNumber string,
) (*model.UpdatedContractStatusResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Info("confirming contract approval",
		slog.String("contract_id", id.String()),
		slog.String("contract_number", contractNumber))

	result, err := s.repo.UpdateStatusIfEqual(
		ctx,
		id,
		domain.StatusApprovedWaitingConfirmation,
		domain.StatusApproved,
	)
	if err != nil {
		log.Error("failed to confirm contract approval",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()),
			slog.String("contract_number", contractNumber))
		return nil, err
	}

	message := fmt.Sprintf(
		"Approval confirmed for contract %s version %d (id %s): status changed from %s to %s",
		result.ContractNumber,
		result.Version,
		result.ID,
		result.PreviousStatus,
		result.NewStatus,
	)

	// The transition has committed; audit delivery is best effort and its
	// failure must not surface to the caller.
	record := audit.Record{
		Action:         audit.ActionContractConfirmApproval,
		Severity:       audit.SeverityInformation,
		OrganizationID: result.OrganizationID,
		Message:        message,
		Actor:          s.actor,
	}
	if auditErr := s.auditClient.Submit(ctx, record); auditErr != nil {
		log.Error("failed to submit audit record for approval confirmation",
			slog.String("operation", "confirm_approval"),
			slog.String("contract_id", id.String()),
			slog.String("contract_number", contractNumber),
			slog.String("audit_message", message),
			slog.String("error", auditErr.Error()))
	}

	return s.mapper.ToUpdatedStatusResponse(result), nil
}
