package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"family-chores-go/pkg/logger"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "")
	os.Unsetenv("STORE_DRIVER")

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.StoreDriver != DriverSQLite || cfg.Repository != RepositoryLocal {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Family.InviteTTL != 168*time.Hour {
		t.Fatalf("expected 7 day invite ttl, got %v", cfg.Family.InviteTTL)
	}
	if cfg.Redis.KeyPrefix != "@tarefas:" {
		t.Fatalf("expected default key prefix, got %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Search.DeadlineLayout != "02/01/2006" {
		t.Fatalf("expected day first layout, got %q", cfg.Search.DeadlineLayout)
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	contents := "HTTP_PORT=9090\nSTORE_DRIVER=memory\nKAFKA_BROKERS=k1:9092,k2:9092\n"
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte(contents), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, nested)
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("STORE_DRIVER", "")
	os.Unsetenv("STORE_DRIVER")
	t.Setenv("KAFKA_BROKERS", "")
	os.Unsetenv("KAFKA_BROKERS")

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "7070" {
		t.Fatalf("expected environment to win, got %q", cfg.HTTPPort)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Fatalf("expected .env value, got %q", cfg.StoreDriver)
	}
	if !cfg.KafkaEnabled() || len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("expected two brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Config{StoreDriver: "floppy", Repository: RepositoryLocal, Family: FamilyConfig{InviteTTL: time.Hour}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestGetDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://x", Host: "ignored"}
	if cfg.GetDSN() != "postgres://x" {
		t.Fatalf("expected explicit DSN, got %q", cfg.GetDSN())
	}
}
