package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/test"
	"github.com/portal-hq/portalex/internal/util/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithServer(t *testing.T) {
	ctx := t.Context()

	var testError = errors.New("test error")

	cfg := test.DefaultTestConfig()
	cfg.Logger.PrettyPrintConsole = false

	resultErr := command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		require.NotNil(t, s.HotWallet)
		assert.Equal(t, test.HotWalletAddress, s.HotWallet.Address().Hex())
		assert.NotEmpty(t, s.Chains.ChainIDs())

		return testError
	})

	assert.Equal(t, testError, resultErr)
}

func TestNewSubcommandGroup(t *testing.T) {
	group := command.NewSubcommandGroup("db", command.NewSubcommandGroup("nested"))
	assert.Equal(t, "db", group.Use)
	require.Len(t, group.Commands(), 1)
	assert.Equal(t, "nested", group.Commands()[0].Use)
}
