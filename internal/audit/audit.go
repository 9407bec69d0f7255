// Package audit defines the audit record submitted for business-significant
// actions and the client interface used to deliver it. The transport lives in
// internal/platform/auditclient; this package is the port the service layer
// depends on.
package audit

import (
	"context"

	"github.com/google/uuid"
)

// Action tags the kind of business event being audited.
type Action string

// Audited actions.
const (
	ActionContractCreated         Action = "ContractCreated"
	ActionContractConfirmApproval Action = "ContractConfirmApproval"
	ActionContractWithdrawn       Action = "ContractWithdrawn"
)

// Severity grades an audit record.
type Severity string

const (
	SeverityInformation Severity = "Information"
	SeverityWarning     Severity = "Warning"
	SeverityError       Severity = "Error"
)

// Record is a single append-only audit entry describing a business action.
type Record struct {
	Action         Action    `json:"action"`
	Severity       Severity  `json:"severity"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Message        string    `json:"message"`
	Actor          string    `json:"actor"`
}

// Client delivers audit records to the audit subsystem. Submit returns an
// error on delivery failure; callers decide whether that failure is fatal to
// their own operation.
type Client interface {
	Submit(ctx context.Context, record Record) error
}
