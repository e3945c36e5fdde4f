package cli

import (
	"testing"

	"moneymanager/internal/config"
)

func TestPublisherNilClient(t *testing.T) {
	if p := Publisher(nil); p != nil {
		t.Fatalf("Publisher(nil) = %#v, want nil interface", p)
	}
}

func TestInitAMQPDisabled(t *testing.T) {
	logger := SetupLogger("error", "test")
	cfg := &config.Config{}
	if client := InitAMQP(logger, cfg); client != nil {
		t.Fatal("expected nil client when AMQP_URL is empty")
	}
}

func TestSetupLoggerComponent(t *testing.T) {
	logger := SetupLogger("debug", "worker")
	if logger.Component() != "worker" {
		t.Fatalf("Component() = %q", logger.Component())
	}
}
