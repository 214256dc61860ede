package logger_test

import (
	"testing"

	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("accepts known levels", func(t *testing.T) {
		t.Parallel()
		for _, lvl := range []string{"", "debug", "INFO", " warn ", "error"} {
			log, err := logger.New(lvl)
			require.NoError(t, err, lvl)
			assert.NotNil(t, log)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		t.Parallel()
		_, err := logger.New("chatty")
		require.Error(t, err)
	})
}

func TestFromZap(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	log.WarnObj("story fetch failed", "story_error", map[string]any{"url": "https://example.com"})
	log.DebugObj("scraping story", "scrape_start", map[string]any{"worker_id": 1})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "story fetch failed", entries[0].Message)
	assert.Equal(t, map[string]any{"url": "https://example.com"}, entries[0].ContextMap()["story_error"])
	assert.Equal(t, "scrape_start", entries[1].Context[0].Key)
}

func TestFromZapNil(t *testing.T) {
	t.Parallel()

	log := logger.FromZap(nil)
	assert.IsType(t, logger.NopLogger{}, log)
	assert.NoError(t, log.Sync())
}
