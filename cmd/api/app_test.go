package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/pkg/circuitbreaker"
)

func TestPublishBreakerConfig(t *testing.T) {
	cfg := &config.Config{MQ: config.MQConfig{
		Exchange:             "library.events",
		BreakerFailures:      3,
		BreakerTimeout:       30 * time.Second,
		BreakerInterval:      time.Minute,
		BreakerProbeRequests: 2,
	}}

	bc := publishBreakerConfig(cfg)

	assert.Equal(t, uint32(2), bc.MaxRequests)
	assert.Equal(t, time.Minute, bc.Interval)
	assert.Equal(t, 30*time.Second, bc.Timeout)
	assert.False(t, bc.ReadyToTrip(circuitbreaker.Counts{ConsecutiveFailures: 2}))
	assert.True(t, bc.ReadyToTrip(circuitbreaker.Counts{ConsecutiveFailures: 3}))
	assert.NotNil(t, bc.OnStateChange)

	cb := circuitbreaker.New(cfg.MQ.Exchange, bc)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("channel closed") })
	}
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())
}

func TestProvideEventPublisher_Disabled(t *testing.T) {
	publisher, cleanup, err := provideEventPublisher(&config.Config{})
	require.NoError(t, err)

	assert.Nil(t, publisher)
	require.NotNil(t, cleanup)
	cleanup()
}
