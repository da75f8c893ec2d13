package health

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/httpguard/resilience"
)

func TestBreakerChecker_AllClosed(t *testing.T) {
	reg := resilience.NewRegistry(resilience.CircuitBreakerConfig{})
	reg.Get("accounts")
	reg.Get("orders")

	result := NewBreakerChecker(reg).Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("status = %v, want healthy", result.Status)
	}
	if result.Details["accounts"] != "closed" {
		t.Errorf("details = %v", result.Details)
	}
}

func TestBreakerChecker_OpenIsUnhealthy(t *testing.T) {
	reg := resilience.NewRegistry(resilience.CircuitBreakerConfig{FailureThreshold: 1})
	reg.Get("accounts")
	reg.Get("orders").RecordFailure()

	result := NewBreakerChecker(reg).Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("status = %v, want unhealthy", result.Status)
	}
	if result.Details["orders"] != "open" {
		t.Errorf("details = %v", result.Details)
	}
	if result.Details["accounts"] != "closed" {
		t.Errorf("details = %v", result.Details)
	}
}

func TestBreakerChecker_HalfOpenIsDegraded(t *testing.T) {
	reg := resilience.NewRegistry(resilience.CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Millisecond,
	})
	cb := reg.Get("orders")
	cb.RecordFailure()

	time.Sleep(5 * time.Millisecond)
	if err := cb.Allow(); err != nil {
		t.Fatalf("Allow() after cooldown = %v, want probe admitted", err)
	}

	result := NewBreakerChecker(reg).Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("status = %v, want degraded", result.Status)
	}
}
