package config

import (
	"os"
	"testing"
	"time"

	"github.com/ardanlabs/conf/v3"
)

func TestDefaults(t *testing.T) {
	withArgs(t)

	var cfg Config
	if _, err := conf.Parse("BOOKSTEST", &cfg); err != nil {
		t.Fatalf("parsing config: %v", err)
	}

	if cfg.DB.Driver != "sqlite3" {
		t.Fatalf("expected sqlite3 driver, got %q", cfg.DB.Driver)
	}
	if cfg.Session.Lifetime != 24*time.Hour {
		t.Fatalf("expected 24h session lifetime, got %s", cfg.Session.Lifetime)
	}
	if cfg.Payment.Provider != "stripe" || cfg.Payment.Currency != "usd" {
		t.Fatalf("unexpected payment defaults: %+v", cfg.Payment)
	}
	if cfg.Storage.Region != "auto" {
		t.Fatalf("expected auto region, got %q", cfg.Storage.Region)
	}
}

func TestEnvOverride(t *testing.T) {
	withArgs(t)
	t.Setenv("BOOKSTEST_PAYMENT_PROVIDER", "paypal")
	t.Setenv("BOOKSTEST_WEB_ADDRESS", ":9000")

	var cfg Config
	if _, err := conf.Parse("BOOKSTEST", &cfg); err != nil {
		t.Fatalf("parsing config: %v", err)
	}

	if cfg.Payment.Provider != "paypal" {
		t.Fatalf("expected paypal, got %q", cfg.Payment.Provider)
	}
	if cfg.Web.Address != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.Web.Address)
	}
}

// conf parses os.Args as flags, which would pick up the test binary's own.
func withArgs(t *testing.T) {
	t.Helper()
	args := os.Args
	os.Args = []string{"books"}
	t.Cleanup(func() { os.Args = args })
}
