package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core).Sugar()

	ctx := IntoContext(context.Background(), l)
	FromContext(ctx).Infow("booking_created", "status", 201)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "booking_created", entry.Message)
	require.EqualValues(t, 201, entry.ContextMap()["status"])
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

func TestNew(t *testing.T) {
	l, err := New("debug", "production", "restaurant")
	require.NoError(t, err)
	require.NotNil(t, l)
}
