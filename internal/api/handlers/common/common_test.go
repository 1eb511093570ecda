package common_test

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPing(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/ping", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, "pong", res.Body.String())
	})
}

func TestGetHealthy(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "chain 11155111: ok")
	})
}

func TestGetHealthyChainDown(t *testing.T) {
	test.WithTestServerGateway(t, func(s *api.Server, gw *test.FakeGateway, _ *test.FakeUsers) {
		gw.SetFeeError(errors.New("connection refused"))

		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "chain 11155111")
	})
}

func TestGetMetrics(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		_ = test.PerformRequest(t, s, "GET", "/ping", nil, nil)

		res := test.PerformRequest(t, s, "GET", "/metrics", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "go_goroutines")
		assert.Contains(t, res.Body.String(), "requests_total")
	})
}
