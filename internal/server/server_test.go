package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/optiviz/internal/config"
	"github.com/copyleftdev/optiviz/internal/logging"
	"github.com/copyleftdev/optiviz/internal/metrics"
)

// testConfig creates a test configuration with default values
func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{
		Environment: "test",
	}

	cfg.HTTP.Port = 8080
	cfg.HTTP.ReadTimeout = 30 * time.Second
	cfg.HTTP.WriteTimeout = 30 * time.Second
	cfg.HTTP.IdleTimeout = 120 * time.Second
	cfg.HTTP.ShutdownTimeout = 30 * time.Second

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "stdout"

	cfg.Optimizer.DefaultNumSteps = 20
	cfg.Optimizer.MaxNumSteps = 100
	cfg.Optimizer.DefaultLearningRate = 0.1
	cfg.Optimizer.DefaultBeta1 = 0.9
	cfg.Optimizer.DefaultBeta2 = 0.999

	require.NoError(t, cfg.Validate())
	return cfg
}

// testLogger creates a test logger
func testLogger(t *testing.T) *logging.Logger {
	logger, err := logging.NewLogger(&logging.Config{
		Level:  "debug",
		Format: "text",
		Output: "stdout",
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

func newTestServer(t *testing.T) (*Server, http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	srv := NewServer(testConfig(t), testLogger(t), recorder)
	r := chi.NewRouter()
	srv.RegisterRoutes(r)
	return srv, r, reg
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type trajectoryBody struct {
	Dimension int    `json:"dimension"`
	Optimiser string `json:"optimiser"`
	Points    []struct {
		Step    int      `json:"step"`
		X       float64  `json:"x"`
		Y       *float64 `json:"y"`
		Value   *float64 `json:"value"`
		Stalled bool     `json:"stalled"`
	} `json:"points"`
	Stalls []int `json:"stalls"`
	Bounds struct {
		X struct{ Min, Max float64 } `json:"x"`
	} `json:"bounds"`
}

func TestRegisterRoutes(t *testing.T) {
	_, r, _ := newTestServer(t)

	tests := []struct {
		method      string
		path        string
		shouldExist bool
	}{
		{"POST", "/api/v1/trajectory", true},
		{"GET", "/api/v1/optimizers", true},
		{"POST", "/rpc", true},
		{"GET", "/healthz", false}, // Not registered by server package
		{"GET", "/nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewReader(nil))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if tt.shouldExist {
				assert.NotEqual(t, http.StatusNotFound, rr.Code)
			} else {
				assert.Equal(t, http.StatusNotFound, rr.Code)
			}
		})
	}
}

func TestHandleTrajectory1D(t *testing.T) {
	_, r, reg := newTestServer(t)

	rr := postJSON(t, r, "/api/v1/trajectory", `{
		"expression": "x^2",
		"settings": {"optimiserType": "gd", "initialX": 1, "learningRate": 0.1, "numSteps": 3}
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body trajectoryBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Dimension)
	assert.Equal(t, "Gradient Descent", body.Optimiser)
	require.Len(t, body.Points, 4)
	assert.Empty(t, body.Stalls)

	want := []float64{1, 0.8, 0.64, 0.512}
	for i, p := range body.Points {
		assert.Equal(t, i, p.Step)
		assert.InDelta(t, want[i], p.X, 1e-6)
		assert.Nil(t, p.Y)
		require.NotNil(t, p.Value)
		assert.InDelta(t, want[i]*want[i], *p.Value, 1e-6)
	}
	assert.InDelta(t, 0.512, body.Bounds.X.Min, 1e-6)
	assert.InDelta(t, 1, body.Bounds.X.Max, 1e-6)

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "optiviz_trajectories_total"))
}

func TestHandleTrajectory2DNewton(t *testing.T) {
	_, r, _ := newTestServer(t)

	rr := postJSON(t, r, "/api/v1/trajectory", `{
		"expression": "x^2 + y^2",
		"settings": {"optimiserType": "Newton", "initialX": 3, "initialY": -4, "numSteps": 2},
		"derivatives": {"gx": "2*x", "gy": "2*y", "hxx": "2", "hxy": "0", "hyx": "0", "hyy": "2"}
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body trajectoryBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Dimension)
	require.Len(t, body.Points, 3)
	require.NotNil(t, body.Points[1].Y)
	assert.Equal(t, 0.0, body.Points[1].X)
	assert.Equal(t, 0.0, *body.Points[1].Y)
}

func TestHandleTrajectoryStalls(t *testing.T) {
	_, r, _ := newTestServer(t)

	// The Hessian of a linear objective is zero, so every Newton step stalls.
	rr := postJSON(t, r, "/api/v1/trajectory", `{
		"expression": "3*x",
		"settings": {"optimiserType": "newton", "initialX": 2, "numSteps": 3},
		"derivatives": {"gradient": "3", "hessian": "0"}
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body trajectoryBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []int{1, 2, 3}, body.Stalls)
	for _, p := range body.Points {
		assert.Equal(t, 2.0, p.X)
	}
}

func TestHandleTrajectoryErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind string
	}{
		{"malformed body", `{"expression":`, ""},
		{"missing expression", `{"settings": {}}`, "request"},
		{"parse error", `{"expression": "x +* 2"}`, "analysis"},
		{"unknown variable", `{"expression": "x + z"}`, "analysis"},
		{"adam in 1D", `{"expression": "x^2", "settings": {"optimiserType": "Adam"}}`, "configuration"},
		{"unknown optimizer", `{"expression": "x^2", "settings": {"optimiserType": "lbfgs"}}`, "configuration"},
		{"negative steps", `{"expression": "x^2", "settings": {"numSteps": -1}}`, "configuration"},
		{"too many steps", `{"expression": "x^2", "settings": {"numSteps": 101}}`, "configuration"},
		{"unsupported dimension", `{"expression": "x^2", "dimension": 3}`, "configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r, _ := newTestServer(t)
			rr := postJSON(t, r, "/api/v1/trajectory", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			if tt.kind != "" {
				assert.Equal(t, tt.kind, body["kind"])
			}
		})
	}
}

func TestHandleOptimizers(t *testing.T) {
	_, r, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/optimizers", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []string{"Gradient Descent", "Newton"}, body["1d"])
	assert.Equal(t, []string{"Gradient Descent", "Adam", "Newton"}, body["2d"])
}

func TestJSONRPC(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode float64
		wantKind string
	}{
		{"parse error", `{"jsonrpc":`, codeParseError, ""},
		{"wrong version", `{"jsonrpc": "1.0", "id": 1, "method": "optimizers.list"}`, codeInvalidRequest, ""},
		{"unknown method", `{"jsonrpc": "2.0", "id": 1, "method": "optimization.start"}`, codeMethodNotFound, ""},
		{"missing params", `{"jsonrpc": "2.0", "id": 1, "method": "trajectory.compute"}`, codeInvalidParams, ""},
		{"configuration error", `{"jsonrpc": "2.0", "id": 1, "method": "trajectory.compute",
			"params": {"expression": "x^2", "settings": {"optimiserType": "Adam"}}}`, codeInvalidParams, "configuration"},
		{"analysis error", `{"jsonrpc": "2.0", "id": 1, "method": "trajectory.compute",
			"params": {"expression": "x + z"}}`, codeInvalidParams, "analysis"},
		{"missing expression", `{"jsonrpc": "2.0", "id": 1, "method": "trajectory.compute",
			"params": {"settings": {}}}`, codeInvalidParams, "request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r, _ := newTestServer(t)
			rr := postJSON(t, r, "/rpc", tt.body)
			assert.Equal(t, http.StatusOK, rr.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
			errObj, ok := response["error"].(map[string]interface{})
			require.True(t, ok, "response should contain error object")
			assert.Equal(t, tt.wantCode, errObj["code"])

			if tt.wantKind == "" {
				assert.NotContains(t, errObj, "data")
				return
			}
			data, ok := errObj["data"].(map[string]interface{})
			require.True(t, ok, "error should carry data")
			assert.Equal(t, tt.wantKind, data["kind"])
		})
	}
}

func TestJSONRPCCompute(t *testing.T) {
	_, r, _ := newTestServer(t)

	for _, params := range []string{
		`{"expression": "(x-1)^2 + (y+2)^2", "settings": {"optimiserType": "adam", "numSteps": 5}}`,
		`[{"expression": "(x-1)^2 + (y+2)^2", "settings": {"optimiserType": "adam", "numSteps": 5}}]`,
	} {
		rr := postJSON(t, r, "/rpc", `{"jsonrpc": "2.0", "id": "abc", "method": "trajectory.compute", "params": `+params+`}`)
		require.Equal(t, http.StatusOK, rr.Code)

		var response struct {
			ID     string          `json:"id"`
			Result *trajectoryBody `json:"result"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response), rr.Body.String())
		assert.Equal(t, "abc", response.ID)
		require.NotNil(t, response.Result, rr.Body.String())
		assert.Equal(t, "Adam", response.Result.Optimiser)
		assert.Len(t, response.Result.Points, 6)
	}
}

func TestClose(t *testing.T) {
	srv, r, _ := newTestServer(t)
	require.NoError(t, srv.Close())

	rr := postJSON(t, r, "/api/v1/trajectory", `{"expression": "x^2"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRespondWithError(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name       string
		code       int
		message    string
		id         interface{}
		expectedID interface{}
	}{
		{"string id", codeInvalidParams, "invalid input", "123", "123"},
		{"nil id", codeServerError, "server error", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.respondWithError(rr, tt.code, tt.message, tt.id)

			assert.Equal(t, http.StatusOK, rr.Code)

			var response map[string]interface{}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))

			errObj, ok := response["error"].(map[string]interface{})
			require.True(t, ok, "response should contain error object")
			assert.Equal(t, float64(tt.code), errObj["code"])
			assert.Equal(t, tt.message, errObj["message"])
			assert.Equal(t, tt.expectedID, response["id"])
		})
	}
}
