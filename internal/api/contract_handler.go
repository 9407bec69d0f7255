// Package api provides HTTP handlers for the contract API.
package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fundhub/contract-api/internal/api/shared"
	"github.com/fundhub/contract-api/internal/platform/logger"
	"github.com/fundhub/contract-api/internal/redact"
	"github.com/fundhub/contract-api/internal/service"
	"github.com/fundhub/contract-api/internal/store"
)

// ContractHandler handles contract-related HTTP requests.
type ContractHandler struct {
	contractService service.ContractService
	logger          *slog.Logger
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(
	contractService service.ContractService,
	logger *slog.Logger,
) *ContractHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ContractHandler")
	}

	return &ContractHandler{
		contractService: contractService,
		logger:          logger.With(slog.String("component", "contract_handler")),
	}
}

// GetContractByID handles GET /api/contracts/{id} requests.
func (h *ContractHandler) GetContractByID(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	contract, err := h.contractService.GetContractByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("retrieved contract", slog.String("contract_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, contract)
}

// GetContractsByNumber handles GET /api/contracts/number/{number} requests.
// It returns every version of the contract number, oldest version first.
func (h *ContractHandler) GetContractsByNumber(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	number := chi.URLParam(r, "number")
	if number == "" {
		log.Warn("contract number not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Contract number is required")
		return
	}

	contracts, err := h.contractService.GetContractsByNumber(r.Context(), number)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("retrieved contract versions",
		slog.String("contract_number", number),
		slog.Int("count", len(contracts)))
	shared.RespondWithJSON(w, r, http.StatusOK, contracts)
}

// GetContractByNumberAndVersion handles
// GET /api/contracts/number/{number}/version/{version} requests.
func (h *ContractHandler) GetContractByNumberAndVersion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	number := chi.URLParam(r, "number")
	if number == "" {
		log.Warn("contract number not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Contract number is required")
		return
	}

	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		log.Warn("invalid contract version",
			slog.String("version", chi.URLParam(r, "version")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid contract version")
		return
	}

	contract, err := h.contractService.GetContractByNumberAndVersion(r.Context(), number, version)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contract)
}

// GetContractReminders handles GET /api/contracts/reminders requests.
// Query parameters: reminderInterval, page, pageSize, sort, order.
func (h *ContractHandler) GetContractReminders(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	query := r.URL.Query()

	interval, err := positiveIntParam(query, "reminderInterval", DefaultReminderInterval)
	if err != nil {
		log.Warn("invalid reminderInterval parameter",
			slog.String("value", query.Get("reminderInterval")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid reminderInterval parameter")
		return
	}

	page, err := positiveIntParam(query, "page", DefaultPageNumber)
	if err != nil {
		log.Warn("invalid page parameter", slog.String("value", query.Get("page")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page parameter")
		return
	}

	pageSize, err := positiveIntParam(query, "pageSize", DefaultPageSize)
	if err != nil || pageSize > MaxPageSize {
		log.Warn("invalid pageSize parameter", slog.String("value", query.Get("pageSize")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid pageSize parameter")
		return
	}

	sort := parseSortField(query.Get("sort"))
	order := parseSortDirection(query.Get("order"))

	response, err := h.contractService.GetContractReminders(
		r.Context(),
		interval,
		page,
		pageSize,
		sort,
		order,
		reminderPageTemplate(r.URL.Path, query),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("retrieved contract reminders",
		slog.Int("page", page),
		slog.Int("total_count", response.Paging.TotalCount))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// UpdateLastEmailReminderSent handles PATCH /api/contracts/{id}/reminder-sent
// requests.
func (h *ContractHandler) UpdateLastEmailReminderSent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	contract, err := h.contractService.UpdateLastEmailReminderSent(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("recorded email reminder",
		slog.String("contract_id", id.String()),
		slog.String("contract_number", contract.ContractNumber))
	shared.RespondWithJSON(w, r, http.StatusOK, contract)
}

// ConfirmApproval handles PATCH /api/contracts/confirm-approval requests.
func (h *ContractHandler) ConfirmApproval(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ConfirmApprovalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		log.Warn("invalid contract ID format", slog.String("contract_id", req.ID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid contract ID format")
		return
	}

	response, err := h.contractService.ConfirmApproval(r.Context(), id, req.ContractNumber)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("confirmed contract approval",
		slog.String("contract_id", id.String()),
		slog.String("contract_number", req.ContractNumber))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// parseIDParam extracts and parses the {id} URL parameter, writing the error
// response itself when the parameter is missing or malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		log.Warn("contract ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Contract ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid contract ID format", slog.String("contract_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid contract ID format")
		return uuid.Nil, false
	}

	return id, true
}

// positiveIntParam parses an optional positive integer query parameter.
func positiveIntParam(query url.Values, name string, fallback int) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, strconv.ErrRange
	}
	return value, nil
}

// parseSortField maps the sort query parameter onto the store whitelist.
// Unknown values fall back to last-updated ordering.
func parseSortField(raw string) store.SortField {
	switch store.SortField(raw) {
	case store.SortByContractNumber, store.SortByValue, store.SortByCreatedAt:
		return store.SortField(raw)
	default:
		return store.SortByLastUpdatedAt
	}
}

func parseSortDirection(raw string) store.SortDirection {
	if store.SortDirection(raw) == store.SortAscending {
		return store.SortAscending
	}
	return store.SortDescending
}

// reminderPageTemplate rebuilds the reminder route with its query parameters,
// replacing the page value with the placeholder token the service substitutes
// when producing next/previous page links. url.Values escapes the braces, so
// the encoded token is swapped back to its literal form.
func reminderPageTemplate(path string, query url.Values) string {
	template := url.Values{}
	for key, values := range query {
		template[key] = values
	}
	template.Set("page", service.PagePlaceholder)

	encoded := template.Encode()
	encoded = strings.ReplaceAll(encoded, url.QueryEscape(service.PagePlaceholder), service.PagePlaceholder)

	return path + "?" + encoded
}
