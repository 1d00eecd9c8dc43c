package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBroker = errors.New("broker unavailable")

// fakeClock 手动推进的时钟
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(cfg Config) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("test", cfg)
	cb.now = clock.now
	cb.resetWindow(clock.now())
	return cb, clock
}

func fail() error { return errBroker }
func succeed() error { return nil }

func TestCircuitBreaker_Closed(t *testing.T) {
	cb, _ := newTestBreaker(Config{Timeout: 30 * time.Second})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(succeed))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(Config{
		Timeout:     30 * time.Second,
		ReadyToTrip: ConsecutiveFailures(3),
	})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBroker)
	}
	require.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断时不应调用fn")
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(Config{ReadyToTrip: ConsecutiveFailures(3)})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	_ = cb.Execute(succeed)
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Run("探测成功恢复", func(t *testing.T) {
		cb, clock := newTestBreaker(Config{
			Timeout:     time.Minute,
			ReadyToTrip: ConsecutiveFailures(1),
		})

		_ = cb.Execute(fail)
		require.Equal(t, StateOpen, cb.State())

		clock.advance(time.Minute + time.Second)
		assert.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(succeed))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败重新熔断", func(t *testing.T) {
		cb, clock := newTestBreaker(Config{
			Timeout:     time.Minute,
			ReadyToTrip: ConsecutiveFailures(1),
		})

		_ = cb.Execute(fail)
		clock.advance(2 * time.Minute)
		require.Equal(t, StateHalfOpen, cb.State())

		assert.ErrorIs(t, cb.Execute(fail), errBroker)
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("半开只放行MaxRequests个请求", func(t *testing.T) {
		cb, clock := newTestBreaker(Config{
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: ConsecutiveFailures(1),
		})

		_ = cb.Execute(fail)
		clock.advance(2 * time.Minute)

		// 第一个探测请求执行期间,第二个请求被拒绝
		var inner error
		err := cb.Execute(func() error {
			inner = cb.Execute(succeed)
			return nil
		})
		require.NoError(t, err)
		assert.ErrorIs(t, inner, ErrOpenState)
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestCircuitBreaker_IntervalClearsCounts(t *testing.T) {
	cb, clock := newTestBreaker(Config{
		Interval:    10 * time.Second,
		ReadyToTrip: ConsecutiveFailures(3),
	})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	clock.advance(11 * time.Second)
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	cb, clock := newTestBreaker(Config{
		Timeout:     time.Minute,
		ReadyToTrip: ConsecutiveFailures(2),
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	clock.advance(2 * time.Minute)
	_ = cb.Execute(succeed)

	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, transitions)
}
