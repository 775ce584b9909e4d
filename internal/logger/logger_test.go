package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		log := zap.New(core).Sugar()

		ctx := WithLogger(context.Background(), log)
		FromContext(ctx).Infof("ran %d rows", 150)

		require.Equal(t, 1, logs.Len())
		require.Equal(t, "ran 150 rows", logs.All()[0].Message)
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
		require.NotNil(t, FromContext(nil))
	})
}

func TestNew(t *testing.T) {
	t.Setenv(EnvKey, "test")
	require.NotNil(t, New())

	t.Setenv(EnvKey, "dev")
	require.NotNil(t, New())
}
