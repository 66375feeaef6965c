package main

import (
	"testing"

	"github.com/streadway/amqp"
)

func TestRetryCountFromHeaderTypes(t *testing.T) {
	if got := retryCountFrom(nil); got != 0 {
		t.Errorf("nil headers: expected 0, got %d", got)
	}
	if got := retryCountFrom(amqp.Table{}); got != 0 {
		t.Errorf("missing header: expected 0, got %d", got)
	}
	// brokers hand table integers back as int32 or int64
	if got := retryCountFrom(amqp.Table{"x-retry-count": int32(2)}); got != 2 {
		t.Errorf("int32 header: expected 2, got %d", got)
	}
	if got := retryCountFrom(amqp.Table{"x-retry-count": int64(3)}); got != 3 {
		t.Errorf("int64 header: expected 3, got %d", got)
	}
	if got := retryCountFrom(amqp.Table{"x-retry-count": 1}); got != 1 {
		t.Errorf("int header: expected 1, got %d", got)
	}
}

func TestNextRetryExhaustsBudget(t *testing.T) {
	// a permanently failing event is republished maxEventRetries times and
	// then dropped
	headers := amqp.Table(nil)
	attempts := 0
	for {
		next, ok := nextRetry(headers)
		if !ok {
			break
		}
		attempts++
		if attempts > maxEventRetries {
			t.Fatalf("retry budget never exhausted after %d attempts", attempts)
		}
		headers = next
	}

	if attempts != maxEventRetries {
		t.Errorf("expected %d republishes, got %d", maxEventRetries, attempts)
	}
}

func TestNextRetryIncrementsHeader(t *testing.T) {
	headers, ok := nextRetry(amqp.Table{"x-retry-count": int32(1)})
	if !ok {
		t.Fatal("expected a retry to be allowed")
	}
	if got := retryCountFrom(headers); got != 2 {
		t.Errorf("expected count 2, got %d", got)
	}
}
