package util_test

import (
	"context"
	"testing"

	"github.com/portal-hq/portalex/internal/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, util.RequestIDFromContext(ctx))

	ctx = context.WithValue(ctx, util.CTXKeyRequestID, "abc")
	assert.Equal(t, "abc", util.RequestIDFromContext(ctx))

	ctx = context.WithValue(context.Background(), util.CTXKeyRequestID, 42)
	assert.Empty(t, util.RequestIDFromContext(ctx))
}

func TestLogFromContext(t *testing.T) {
	ctx := context.Background()
	assert.NotEqual(t, zerolog.Disabled, util.LogFromContext(ctx).GetLevel())

	ctx = util.DisableLogger(ctx, true)
	assert.Equal(t, zerolog.Disabled, util.LogFromContext(ctx).GetLevel())
}
