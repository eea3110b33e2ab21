package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBackoffCapsAtMaximum(t *testing.T) {
	backoff := initialBackoff
	var seen []time.Duration
	for i := 0; i < 7; i++ {
		backoff = nextBackoff(backoff)
		seen = append(seen, backoff)
	}

	assert.Equal(t, []time.Duration{
		2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second,
		30 * time.Second, 30 * time.Second, 30 * time.Second,
	}, seen)
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, DefaultURL, resolveURL(""))
	assert.Equal(t, "amqp://broker:5672/", resolveURL("amqp://broker:5672/"))
	assert.Equal(t, DefaultURL, NewPublisher("").URL)
}

func TestListenWithRetryReturnsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		ListenWithRetry(ctx, "amqp://127.0.0.1:1/", "security-score", func(string) {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancellation")
	}
}
