package server

import (
	"testing"
	"time"

	"github.com/preston-bernstein/sports-lines-service/internal/config"
	"github.com/preston-bernstein/sports-lines-service/internal/metrics"
)

func TestProviderFactoryBuildsConfiguredProviders(t *testing.T) {
	factory := newProviderFactory(nil, metrics.NewRecorder())
	primary, secondary := factory.build(config.Config{
		Primary: config.PrimaryConfig{BaseURL: "http://backend.local", APIKey: "k"},
		ESPN:    config.ESPNConfig{Enabled: true},
		Breaker: config.BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Second},
	})
	if primary == nil || secondary == nil {
		t.Fatalf("expected both providers, got primary=%v secondary=%v", primary, secondary)
	}
	if primary.Name() != "backend" || secondary.Name() != "espn" {
		t.Fatalf("expected wrapped providers to keep upstream names, got %s/%s", primary.Name(), secondary.Name())
	}
}

func TestProviderFactorySkipsDisabledProviders(t *testing.T) {
	primary, secondary := newProviderFactory(nil, nil).build(config.Config{})
	if primary != nil || secondary != nil {
		t.Fatalf("expected no providers without configuration")
	}
}

func TestNewBreakerRespectsEnabled(t *testing.T) {
	if newBreaker(config.BreakerConfig{}) != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	if newBreaker(config.BreakerConfig{Enabled: true, FailureThreshold: 3}) == nil {
		t.Fatalf("expected breaker when enabled")
	}
}
