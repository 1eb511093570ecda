package probe_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/cmd/probe"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLiveness(t *testing.T) {
	cfg := test.DefaultTestConfig()
	assert.Empty(t, probe.RunLiveness(cfg, probe.LivenessFlags{Verbose: true}))

	cfg.HotWallet.Address = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	cfg.Chain.DefaultNetwork = "nowhere"
	assert.Len(t, probe.RunLiveness(cfg, probe.LivenessFlags{}), 2)
}

func TestRunReadiness(t *testing.T) {
	test.WithTestServerGateway(t, func(s *api.Server, gw *test.FakeGateway, _ *test.FakeUsers) {
		assert.Empty(t, probe.RunReadiness(t.Context(), s, probe.ReadinessFlags{Verbose: true}))

		gw.SetFeeError(errors.New("connection refused"))
		errs := probe.RunReadiness(t.Context(), s, probe.ReadinessFlags{})
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "chain 11155111")
	})
}
