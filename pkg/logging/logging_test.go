package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reclass/pkg/logging"
)

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reclass.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "info",
			Format: "json",
			Output: path,
			Fields: map[string]string{"app": "reclass"},
		})
		logger.Info().Msg("loaded master records")
		logger.Debug().Msg("hidden")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "loaded master records")
		assert.Contains(t, string(content), `"app":"reclass"`)
		assert.NotContains(t, string(content), "hidden")
	})

	t.Run("console format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:   "warn",
			Format:  "console",
			Output:  path,
			NoColor: true,
		})
		logger.Warn().Msg("ledger has no ID column")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "WRN")
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "loud", Output: "discard"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	defer logging.SetDefault(original)

	var buf bytes.Buffer
	logging.SetDefault(zerolog.New(&buf).Level(zerolog.InfoLevel))
	logging.Info().Msg("default logger")
	assert.Contains(t, buf.String(), "default logger")
}

func TestOrNopAndComponent(t *testing.T) {
	assert.NotNil(t, logging.OrNop(nil))

	tl := logging.NewTestLogger(t)
	child := logging.Component(tl.Logger, "ledger")
	child.Info().Msg("append")
	assert.True(t, tl.Contains(`"component":"ledger"`))
	assert.Len(t, tl.Lines(), 1)
}

func TestContextPropagation(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithSessionID(ctx, "sess-1")

	assert.Equal(t, "sess-1", logging.SessionID(ctx))
	logging.FromContext(ctx).Info().Msg("next record")
	assert.True(t, tl.Contains(`"session_id":"sess-1"`))

	assert.Equal(t, "", logging.SessionID(context.Background()))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
}
