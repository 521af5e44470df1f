package resilience

import (
	"errors"
	"testing"
	"time"

	apperrors "list-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBreaker_OpensAfterFailures(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.WarnLevel)
	b := NewBreaker(BreakerConfig{
		Name:             "kinesis",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}, zap.New(core))
	downstream := errors.New("connection refused")

	// Act
	assert.ErrorIs(t, b.Execute(func() error { return downstream }), downstream)
	assert.ErrorIs(t, b.Execute(func() error { return downstream }), downstream)

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})

	// Assert
	assert.False(t, called)
	assert.Equal(t, apperrors.ErrorTypeUnavailable, apperrors.TypeOf(err))
	assert.Equal(t, "open", b.State())
	assert.Equal(t, 1, logs.FilterMessage("Circuit breaker state changed").Len())
}

func TestBreaker_NilRunsDirectly(t *testing.T) {
	var b *Breaker
	calls := 0

	err := b.Execute(func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "closed", b.State())
}

func TestDefaultBreakerConfig(t *testing.T) {
	cfg := DefaultBreakerConfig("sqs")
	assert.Equal(t, "sqs", cfg.Name)
	assert.Greater(t, cfg.MinRequests, uint32(0))
}
