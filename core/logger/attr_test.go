package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sessionkit/sessionkit/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "boom", attr.Value.Any().(error).Error())
}

func TestSessionID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.SessionID(""))

	attr := logger.SessionID("abc123")
	assert.Equal(t, "session_id", attr.Key)
	assert.Equal(t, "abc123", attr.Value.String())
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "component", logger.Component("store").Key)
	assert.Equal(t, time.Hour, logger.TTL(time.Hour).Value.Duration())
	assert.Equal(t, int64(3), logger.Count("entries", 3).Value.Int64())
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	assert.NotNil(t, log)
	log.Info("dropped") // must not panic
}
