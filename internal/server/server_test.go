package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"slack-mcp/internal/boundary"
	"slack-mcp/internal/config"
	"slack-mcp/internal/directory"
	"slack-mcp/internal/directory/directorytest"
	"slack-mcp/internal/metrics"
	"slack-mcp/internal/vacation"
)

const testToken = "xoxb-test"

type testEnv struct {
	srv   *Server
	slack *directorytest.Server
	logs  *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := directorytest.NewServer(t, testToken, map[string]directorytest.Entry{
		"alice@example.com": {ID: "U123", StatusText: "Out of office until Friday"},
		"bob@example.com":   {ID: "U456", StatusText: ""},
		"carol@example.com": {ID: "U789", ProfileError: "user_not_visible"},
	})

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core).Sugar()

	cfg := &config.Config{
		App: config.AppConfig{Name: "slack-mcp-test", Version: "test"},
	}
	dir := directory.New(fake.URL, testToken, fake.Client())
	s := New(cfg, vacation.NewChecker(dir, log), boundary.New(log, nil), log)
	return &testEnv{srv: s, slack: fake, logs: logs}
}

func (e *testEnv) call(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader([]byte(body)))
	rr := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestListTools(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rr := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Tools []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			InputSchema struct {
				Type     string   `json:"type"`
				Required []string `json:"required"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Tools, 1)
	assert.Equal(t, "slack_check_vacation_status", resp.Tools[0].Name)
	assert.NotEmpty(t, resp.Tools[0].Description)
	assert.Equal(t, "object", resp.Tools[0].InputSchema.Type)
	assert.Equal(t, []string{"email"}, resp.Tools[0].InputSchema.Required)
}

func TestCall(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
		wantErr  string
	}{
		{
			name:     "on vacation",
			body:     `{"name":"slack_check_vacation_status","arguments":{"email":"alice@example.com"}}`,
			wantCode: http.StatusOK,
			wantBody: `{"email":"alice@example.com","isOnVacation":true}`,
		},
		{
			name:     "empty status",
			body:     `{"name":"slack_check_vacation_status","arguments":{"email":"bob@example.com"}}`,
			wantCode: http.StatusOK,
			wantBody: `{"email":"bob@example.com","isOnVacation":false}`,
		},
		{
			name:     "unknown user",
			body:     `{"name":"slack_check_vacation_status","arguments":{"email":"ghost@example.com"}}`,
			wantCode: http.StatusNotFound,
			wantErr:  "user not found for email: ghost@example.com",
		},
		{
			name:     "profile unavailable",
			body:     `{"name":"slack_check_vacation_status","arguments":{"email":"carol@example.com"}}`,
			wantCode: http.StatusBadGateway,
			wantErr:  "failed to get profile for user: U789",
		},
		{
			name:     "invalid email",
			body:     `{"name":"slack_check_vacation_status","arguments":{"email":"not-an-email"}}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "validation error",
		},
		{
			name:     "missing arguments",
			body:     `{"name":"slack_check_vacation_status"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "email is required",
		},
		{
			name:     "non-string email",
			body:     `{"name":"slack_check_vacation_status","arguments":{"email":42}}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "arguments must be an object",
		},
		{
			name:     "unknown tool",
			body:     `{"name":"slack_send_message","arguments":{}}`,
			wantCode: http.StatusNotFound,
			wantErr:  "unknown tool",
		},
		{
			name:     "invalid json",
			body:     `{`,
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rr := env.call(t, tt.body)
			require.Equal(t, tt.wantCode, rr.Code, rr.Body.String())
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
				return
			}
			var resp map[string]string
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Contains(t, resp["error"], tt.wantErr)
		})
	}
}

func TestCallInvalidEmailSkipsSlack(t *testing.T) {
	env := newTestEnv(t)
	rr := env.call(t, `{"name":"slack_check_vacation_status","arguments":{"email":"alice@"}}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, env.slack.Lookups())
	assert.Zero(t, env.slack.Profiles())
}

func TestCallFailureNeverReturnsResult(t *testing.T) {
	env := newTestEnv(t)
	rr := env.call(t, `{"name":"slack_check_vacation_status","arguments":{"email":"ghost@example.com"}}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotContains(t, rr.Body.String(), "isOnVacation")
	assert.Equal(t, 1, env.slack.Lookups())
	assert.Zero(t, env.slack.Profiles())
}

func TestCallIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	body := `{"name":"slack_check_vacation_status","arguments":{"email":"alice@example.com"}}`
	first := env.call(t, body)
	second := env.call(t, body)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 2, env.slack.Lookups())
}

func TestCallRecordsMetrics(t *testing.T) {
	env := newTestEnv(t)
	counter := metrics.ToolInvocations.WithLabelValues(CheckVacationTool, "http", "not_found")
	before := testutil.ToFloat64(counter)

	env.call(t, `{"name":"slack_check_vacation_status","arguments":{"email":"ghost@example.com"}}`)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, 1, env.logs.FilterMessage("Tool invocation").Len())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.call(t, `{"name":"slack_check_vacation_status","arguments":{"email":"bob@example.com"}}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "slack_mcp_tool_invocations_total")
}

func TestRecovererKeepsServing(t *testing.T) {
	env := newTestEnv(t)
	env.srv.router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rr := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, env.logs.FilterMessage("Unhandled async error").Len())

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rr = httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCallErrorLogCarriesInvocationID(t *testing.T) {
	env := newTestEnv(t)
	env.call(t, `{"name":"slack_check_vacation_status","arguments":{"email":"ghost@example.com"}}`)

	invocations := env.logs.FilterMessage("Tool invocation").All()
	require.Len(t, invocations, 1)
	id := invocations[0].ContextMap()["invocation"]
	require.NotEmpty(t, id)

	warnings := env.logs.FilterMessage("Error checking vacation status").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, id, warnings[0].ContextMap()["invocation"])
}
