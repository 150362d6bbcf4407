package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/carlhiggs/global-scorecards/internal/adapter/http"
	"github.com/carlhiggs/global-scorecards/internal/domain"
)

type readiness struct{ err error }

func (r readiness) CheckReadiness(_ context.Context) error { return r.err }

type status struct{ s domain.RunStatus }

func (s status) Status() domain.RunStatus { return s.s }

func serve(t *testing.T, readyErr error, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := httpadapter.NewServer(":0", readiness{readyErr}, status{domain.RunStatus{
		RunID:     "run-1",
		Running:   true,
		Language:  "Dutch",
		City:      "Ghent",
		Processed: 3,
		Failed:    1,
	}}, slog.Default())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProbes(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		readyErr   error
		wantCode   int
		wantStatus string
	}{
		{"liveness", "/healthz", nil, http.StatusOK, "healthy"},
		{"ready after setup", "/readyz", nil, http.StatusOK, "ready"},
		{"not ready before setup", "/readyz", errors.New("report run has not completed setup"), http.StatusServiceUnavailable, "not ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.readyErr, tt.path)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			if tt.readyErr != nil {
				assert.Equal(t, tt.readyErr.Error(), body["error"])
			}
		})
	}
}

func TestStatusReportsRunProgress(t *testing.T) {
	rec := serve(t, nil, "/status")

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.RunStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.RunStatus{
		RunID:     "run-1",
		Running:   true,
		Language:  "Dutch",
		City:      "Ghent",
		Processed: 3,
		Failed:    1,
	}, got)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, nil, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestUnknownRouteIs404(t *testing.T) {
	rec := serve(t, nil, "/scorecards")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
