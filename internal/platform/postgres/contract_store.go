package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundhub/contract-api/internal/domain"
	"github.com/fundhub/contract-api/internal/platform/logger"
	"github.com/fundhub/contract-api/internal/store"
	"github.com/google/uuid"
)

// contractColumns is the canonical select list for contract rows. Every scan
// in this file follows this order.
const contractColumns = `id, contract_number, version, status, organization_id,
	title, value, signed_on, last_email_reminder_sent, created_at, updated_at`

// PostgresContractStore implements the store.ContractStore interface
// using a PostgreSQL database as the storage backend.
type PostgresContractStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContractStore creates a new PostgreSQL implementation of the
// ContractStore interface. It accepts a database connection that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewPostgresContractStore(db store.DBTX, logger *slog.Logger) *PostgresContractStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContractStore{
		db:     db,
		logger: logger.With(slog.String("component", "contract_store")),
	}
}

// Ensure PostgresContractStore implements store.ContractStore interface
var _ store.ContractStore = (*PostgresContractStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanContract reads one contract row in contractColumns order.
func scanContract(row rowScanner) (*domain.Contract, error) {
	var contract domain.Contract
	var status string

	err := row.Scan(
		&contract.ID,
		&contract.ContractNumber,
		&contract.Version,
		&status,
		&contract.OrganizationID,
		&contract.Title,
		&contract.Value,
		&contract.SignedOn,
		&contract.LastEmailReminderSent,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contract.Status = domain.ContractStatus(status)
	return &contract, nil
}

// GetByID implements store.ContractStore.GetByID
// Returns store.ErrContractNotFound if the contract does not exist.
func (s *PostgresContractStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Contract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving contract by ID", slog.String("contract_id", id.String()))

	query := fmt.Sprintf(`SELECT %s FROM contracts WHERE id = $1`, contractColumns)

	contract, err := scanContract(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("contract not found", slog.String("contract_id", id.String()))
			return nil, store.ErrContractNotFound
		}
		log.Error("failed to get contract by ID",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, MapError("get_by_id", err)
	}

	return contract, nil
}

// GetByContractNumber implements store.ContractStore.GetByContractNumber
// It retrieves every version of a contract number, ordered by version
// ascending. Returns an empty slice if no versions exist.
func (s *PostgresContractStore) GetByContractNumber(
	ctx context.Context,
	contractNumber string,
) ([]*domain.Contract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving contracts by number",
		slog.String("contract_number", contractNumber))

	query := fmt.Sprintf(
		`SELECT %s FROM contracts WHERE contract_number = $1 ORDER BY version ASC`,
		contractColumns,
	)

	rows, err := s.db.QueryContext(ctx, query, contractNumber)
	if err != nil {
		log.Error("failed to query contracts by number",
			slog.String("error", err.Error()),
			slog.String("contract_number", contractNumber))
		return nil, MapError("get_by_contract_number", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	contracts := []*domain.Contract{}
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			log.Error("failed to scan contract row",
				slog.String("error", err.Error()),
				slog.String("contract_number", contractNumber))
			return nil, MapError("get_by_contract_number", err)
		}
		contracts = append(contracts, contract)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError("get_by_contract_number", err)
	}

	log.Debug("found contracts by number",
		slog.String("contract_number", contractNumber),
		slog.Int("count", len(contracts)))
	return contracts, nil
}

// GetByContractNumberAndVersion implements store.ContractStore.GetByContractNumberAndVersion
// Returns store.ErrContractNotFound if no such contract exists.
func (s *PostgresContractStore) GetByContractNumberAndVersion(
	ctx context.Context,
	contractNumber string,
	version int,
) (*domain.Contract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(
		`SELECT %s FROM contracts WHERE contract_number = $1 AND version = $2`,
		contractColumns,
	)

	contract, err := scanContract(s.db.QueryRowContext(ctx, query, contractNumber, version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("contract version not found",
				slog.String("contract_number", contractNumber),
				slog.Int("version", version))
			return nil, store.ErrContractNotFound
		}
		log.Error("failed to get contract by number and version",
			slog.String("error", err.Error()),
			slog.String("contract_number", contractNumber),
			slog.Int("version", version))
		return nil, MapError("get_by_contract_number_and_version", err)
	}

	return contract, nil
}

// sortColumn maps a store.SortField to a contracts column. Unknown fields
// fall back to updated_at so the ORDER BY clause is always built from this
// whitelist and never from caller input.
func sortColumn(sort store.SortField) string {
	switch sort {
	case store.SortByContractNumber:
		return "contract_number"
	case store.SortByValue:
		return "value"
	case store.SortByCreatedAt:
		return "created_at"
	case store.SortByLastUpdatedAt:
		return "updated_at"
	default:
		return "updated_at"
	}
}

// sortOrder maps a store.SortDirection to an ORDER BY keyword.
func sortOrder(direction store.SortDirection) string {
	if direction == store.SortDescending {
		return "DESC"
	}
	return "ASC"
}

// GetReminders implements store.ContractStore.GetReminders
// Eligibility is status = approved_waiting_confirmation plus
// COALESCE(last_email_reminder_sent, created_at) <= cutoff. The total row
// count is computed in the same statement with a window function.
func (s *PostgresContractStore) GetReminders(
	ctx context.Context,
	cutoff time.Time,
	pageNumber, pageSize int,
	sort store.SortField,
	direction store.SortDirection,
) (store.PagedResult[*domain.Contract], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (pageNumber - 1) * pageSize

	query := fmt.Sprintf(
		`SELECT %s, COUNT(*) OVER() AS total_count
		FROM contracts
		WHERE status = $1
		  AND COALESCE(last_email_reminder_sent, created_at) <= $2
		ORDER BY %s %s
		LIMIT $3 OFFSET $4`,
		contractColumns,
		sortColumn(sort),
		sortOrder(direction),
	)

	rows, err := s.db.QueryContext(
		ctx,
		query,
		domain.StatusApprovedWaitingConfirmation,
		cutoff,
		pageSize,
		offset,
	)
	if err != nil {
		log.Error("failed to query contract reminders",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff))
		return store.PagedResult[*domain.Contract]{}, MapError("get_reminders", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	contracts := []*domain.Contract{}
	totalCount := 0
	for rows.Next() {
		var contract domain.Contract
		var status string

		err := rows.Scan(
			&contract.ID,
			&contract.ContractNumber,
			&contract.Version,
			&status,
			&contract.OrganizationID,
			&contract.Title,
			&contract.Value,
			&contract.SignedOn,
			&contract.LastEmailReminderSent,
			&contract.CreatedAt,
			&contract.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			log.Error("failed to scan reminder row",
				slog.String("error", err.Error()))
			return store.PagedResult[*domain.Contract]{}, MapError("get_reminders", err)
		}

		contract.Status = domain.ContractStatus(status)
		contracts = append(contracts, &contract)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return store.PagedResult[*domain.Contract]{}, MapError("get_reminders", err)
	}

	log.Debug("found reminder contracts",
		slog.Time("cutoff", cutoff),
		slog.Int("page", pageNumber),
		slog.Int("count", len(contracts)),
		slog.Int("total_count", totalCount))

	return store.NewPagedResult(contracts, totalCount, pageNumber, pageSize), nil
}

// UpdateLastEmailReminderSent implements store.ContractStore.UpdateLastEmailReminderSent
// Both timestamps are set by the same statement so the mutation is atomic.
// Returns store.ErrContractNotFound if the contract does not exist.
func (s *PostgresContractStore) UpdateLastEmailReminderSent(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Contract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()

	query := fmt.Sprintf(
		`UPDATE contracts
		SET last_email_reminder_sent = $1, updated_at = $1
		WHERE id = $2
		RETURNING %s`,
		contractColumns,
	)

	contract, err := scanContract(s.db.QueryRowContext(ctx, query, now, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("contract not found for reminder update",
				slog.String("contract_id", id.String()))
			return nil, store.ErrContractNotFound
		}
		log.Error("failed to update last email reminder sent",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, MapError("update_last_email_reminder_sent", err)
	}

	log.Info("contract reminder timestamp updated",
		slog.String("contract_id", id.String()),
		slog.Time("last_email_reminder_sent", now))
	return contract, nil
}

// UpdateStatusIfEqual implements store.ContractStore.UpdateStatusIfEqual
// The check-and-set is a single UPDATE guarded by the expected status, so the
// precondition and the mutation cannot be interleaved by a concurrent writer.
// Returns store.ErrContractNotFound when the id does not exist and
// store.ErrStatusPrecondition when the current status differs from expected.
func (s *PostgresContractStore) UpdateStatusIfEqual(
	ctx context.Context,
	id uuid.UUID,
	expected, next domain.ContractStatus,
) (*store.StatusUpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE contracts
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING id, contract_number, version, organization_id
	`

	result := store.StatusUpdateResult{
		PreviousStatus: expected,
		NewStatus:      next,
	}

	err := s.db.QueryRowContext(ctx, query, next, time.Now().UTC(), id, expected).Scan(
		&result.ID,
		&result.ContractNumber,
		&result.Version,
		&result.OrganizationID,
	)
	if err == nil {
		log.Info("contract status updated",
			slog.String("contract_id", id.String()),
			slog.String("previous_status", string(expected)),
			slog.String("new_status", string(next)))
		return &result, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to update contract status",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, MapError("update_status_if_equal", err)
	}

	// Zero rows updated: distinguish a missing contract from a failed
	// precondition with a follow-up read.
	var current string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM contracts WHERE id = $1`, id).
		Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("contract not found for status update",
			slog.String("contract_id", id.String()))
		return nil, store.ErrContractNotFound
	}
	if err != nil {
		log.Error("failed to read contract status after conditional update",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, MapError("update_status_if_equal", err)
	}

	log.Warn("contract status precondition failed",
		slog.String("contract_id", id.String()),
		slog.String("expected_status", string(expected)),
		slog.String("current_status", current))
	return nil, fmt.Errorf(
		"%w: expected %s, found %s",
		store.ErrStatusPrecondition,
		expected,
		current,
	)
}
