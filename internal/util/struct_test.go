package util_test

import (
	"testing"

	"github.com/portal-hq/portalex/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type components struct {
	Name     string
	Required *int
	Optional *int `optional:"true"`
	Handler  func()
	private  *int
}

func TestIsStructInitialized(t *testing.T) {
	n := 1
	c := &components{Required: &n, Handler: func() {}}
	require.NoError(t, util.IsStructInitialized(c))

	c.Required = nil
	err := util.IsStructInitialized(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Required")

	require.Error(t, util.IsStructInitialized((*components)(nil)))
	require.Error(t, util.IsStructInitialized(42))
}
