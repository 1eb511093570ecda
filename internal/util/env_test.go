package util_test

import (
	"testing"
	"time"

	"github.com/portal-hq/portalex/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("PORTALEX_TEST_STRING", "sepolia")
	assert.Equal(t, "sepolia", util.GetEnv("PORTALEX_TEST_STRING", "mainnet"))
	assert.Equal(t, "mainnet", util.GetEnv("PORTALEX_TEST_UNSET", "mainnet"))
}

func TestGetEnvAsNumbers(t *testing.T) {
	t.Setenv("PORTALEX_TEST_INT", "10")
	t.Setenv("PORTALEX_TEST_BAD_INT", "ten")
	t.Setenv("PORTALEX_TEST_UINT64", "21000")

	assert.Equal(t, 10, util.GetEnvAsInt("PORTALEX_TEST_INT", 1))
	assert.Equal(t, 1, util.GetEnvAsInt("PORTALEX_TEST_BAD_INT", 1))
	assert.Equal(t, int64(10), util.GetEnvAsInt64("PORTALEX_TEST_INT", 1))
	assert.Equal(t, uint64(21000), util.GetEnvAsUint64("PORTALEX_TEST_UINT64", 1))
}

func TestGetEnvAsBoolAndDuration(t *testing.T) {
	t.Setenv("PORTALEX_TEST_BOOL", "true")
	t.Setenv("PORTALEX_TEST_DURATION", "1500ms")

	assert.True(t, util.GetEnvAsBool("PORTALEX_TEST_BOOL", false))
	assert.False(t, util.GetEnvAsBool("PORTALEX_TEST_UNSET", false))
	assert.Equal(t, 1500*time.Millisecond, util.GetEnvAsDuration("PORTALEX_TEST_DURATION", time.Second))
	assert.Equal(t, 2*time.Second, util.GetEnvAsDuration("PORTALEX_TEST_UNSET", 2*time.Second))
}

func TestGetEnvAsStringArr(t *testing.T) {
	t.Setenv("PORTALEX_TEST_URLS", "http://a:8545, ,http://b:8545")
	assert.Equal(t, []string{"http://a:8545", "http://b:8545"}, util.GetEnvAsStringArr("PORTALEX_TEST_URLS", nil))
	assert.Equal(t, []string{"x"}, util.GetEnvAsStringArr("PORTALEX_TEST_UNSET", []string{"x"}))

	t.Setenv("PORTALEX_TEST_PIPE", "a|b")
	assert.Equal(t, []string{"a", "b"}, util.GetEnvAsStringArr("PORTALEX_TEST_PIPE", nil, "|"))
}

func TestGetEnvEnumPanics(t *testing.T) {
	t.Setenv("PORTALEX_TEST_ENUM", "redis")
	assert.Panics(t, func() {
		util.GetEnvEnum("PORTALEX_TEST_ENUM", "memory", []string{"memory", "postgres"})
	})
	assert.Equal(t, "memory", util.GetEnvEnum("PORTALEX_TEST_UNSET", "memory", []string{"memory", "postgres"}))
}
