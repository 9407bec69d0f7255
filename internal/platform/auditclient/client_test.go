package auditclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fundhub/contract-api/internal/audit"
	"github.com/fundhub/contract-api/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() audit.Record {
	return audit.Record{
		Action:         audit.ActionContractConfirmApproval,
		Severity:       audit.SeverityInformation,
		OrganizationID: uuid.New(),
		Message:        "Contract FUND-2024-001 version 1 approval confirmed",
		Actor:          "contract-api",
	}
}

func newClient(t *testing.T, endpoint string) *HTTPClient {
	t.Helper()
	return NewHTTPClient(config.AuditConfig{
		Endpoint: endpoint,
		Timeout:  2 * time.Second,
		Actor:    "contract-api",
	}, nil)
}

func TestSubmit(t *testing.T) {
	t.Run("posts JSON record", func(t *testing.T) {
		var received audit.Record
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		record := sampleRecord()
		err := newClient(t, srv.URL).Submit(context.Background(), record)

		require.NoError(t, err)
		assert.Equal(t, record, received)
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := newClient(t, srv.URL).Submit(context.Background(), sampleRecord())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		err := newClient(t, srv.URL).Submit(context.Background(), sampleRecord())
		assert.Error(t, err)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		blocked := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-blocked
		}))
		defer srv.Close()
		defer close(blocked)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := newClient(t, srv.URL).Submit(ctx, sampleRecord())
		assert.Error(t, err)
	})
}
